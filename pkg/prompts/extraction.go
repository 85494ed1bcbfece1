package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/retinue-solutions/triage-engine/pkg/models"
)

// Field is one key of the advisory extraction taxonomy.
type Field struct {
	Key  string
	Hint string
}

// ExtractionFields lists the answer keys the model is asked to look for.
// The set is advisory; extraction may return other keys and they are kept.
var ExtractionFields = []Field{
	{"role", "the role or service description"},
	{"requirement_type", `"outcome_based" or "capacity_based"`},
	{"engagement_type", `"permanent" / "contractor" / "sow" / "agency" / "temp_to_perm"`},
	{"driving_need", "what is driving the requirement (compliance, growth, backfill, audit, transformation, business critical)"},
	{"named_supplier", "name of any named supplier or candidate, or null"},
	{"named_supplier_status", `"agreed" / "preferred" / "previous_provider" / null`},
	{"open_to_alternatives", "whether open to other suppliers (true/false)"},
	{"existing_documentation", "whether they have a previous spec, SoW or contract (true/false)"},
	{"previous_provider_name", "name of any previous provider"},
	{"internal_process_completed", "whether the internal approval or advertising process is done (true/false)"},
	{"start_date", "when it needs to start"},
	{"duration", "how long, or the completion deadline"},
	{"deadline_fixed", "whether the deadline is fixed (true/false)"},
	{"urgency", "low/medium/high/critical"},
	{"budget_range", "budget or salary band"},
	{"budget_approved", "whether budget is approved (true/false)"},
	{"budget_capped", "whether budget is capped (true/false)"},
	{"commercial_model", "fixed/milestones/day_rate/hourly/salary"},
	{"travel_expenses", `"included" / "separate" / "not_discussed"`},
	{"location", "where the work takes place"},
	{"working_pattern", "on-site/remote/hybrid"},
	{"number_of_sites", "how many locations are involved"},
	{"headcount", "number of people or learners required"},
	{"cohort_size", "size of each group if training"},
	{"supervision_level", "direct/light/none"},
	{"substitution_allowed", "can they send a substitute (true/false)"},
	{"ir35_status", `"likely_inside" / "likely_outside" / "not_relevant" / "not_discussed"`},
	{"sds_required", "whether a Status Determination Statement is needed (true/false)"},
	{"compliance_standards", "any formal standards required"},
	{"accreditation_required", "whether accreditation is needed (true/false)"},
	{"evidence_requirements", "what evidence must be produced"},
	{"audit_deadline", "specific audit deadline if mentioned"},
	{"translation_requirements", "any translation needs"},
	{"temp_to_perm_option", "whether temp-to-perm is being considered (true/false)"},
	{"communication_preference", "Teams/mobile/email"},
	{"contact_number", "phone number if provided"},
	{"quality_vs_price_priority", `"quality" / "price" / "balanced"`},
	{"talent_pool_check", "whether the talent pool should be searched (true/false)"},
	{"fee_structure", "recruitment fee range if discussed"},
}

// documentExtractionKeys is the narrower set asked of uploaded documents.
var documentExtractionKeys = []string{
	"role", "requirement_type", "engagement_type", "driving_need", "named_supplier", "named_supplier_status",
	"start_date", "duration", "deadline_fixed", "urgency", "budget_range", "budget_approved", "budget_capped",
	"commercial_model", "travel_expenses", "location", "working_pattern", "number_of_sites", "headcount",
	"supervision_level", "substitution_allowed", "ir35_status", "compliance_standards", "accreditation_required",
	"evidence_requirements", "audit_deadline", "previous_provider_name",
}

// documentExcerptChars bounds how much of the document the extraction call sees.
const documentExcerptChars = 5000

// ExtractionPrompt asks for a flat JSON object of fields inferred from the
// latest exchange.
func ExtractionPrompt(answers models.Answers, userMessage, reply string) string {
	var sb strings.Builder

	sb.WriteString("Based on the latest conversation exchange, extract key requirement data as a flat JSON object.\n")
	sb.WriteString("Include any of these fields you can determine from the conversation (only return fields you are reasonably confident about):\n")
	for _, f := range ExtractionFields {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", f.Key, f.Hint))
	}

	sb.WriteString(fmt.Sprintf("\nCurrent state: %s\n", answersJSON(answers)))
	sb.WriteString(fmt.Sprintf("Latest user message: %s\n", userMessage))
	sb.WriteString(fmt.Sprintf("AI Reply: %s", reply))
	return sb.String()
}

// DocumentExtractionPrompt asks for fields found in an uploaded document.
// Dates already in the past relative to today must not be extracted as current.
func DocumentExtractionPrompt(today time.Time, documentText, reply string) string {
	date := today.Format(DateLayout)
	var sb strings.Builder

	sb.WriteString("Based on the uploaded document content and the AI's analysis, extract key requirement data as a flat JSON object.\n")
	sb.WriteString("Include any fields you can determine (only return fields you are reasonably confident about):\n")
	for i := 0; i < len(documentExtractionKeys); i += 6 {
		end := min(i+6, len(documentExtractionKeys))
		sb.WriteString("- " + strings.Join(documentExtractionKeys[i:end], ", ") + "\n")
	}

	sb.WriteString(fmt.Sprintf("\nCRITICAL DATE RULE: Today's date is %s. Do NOT extract any date that is in the past as "+
		"start_date, deadline or audit_deadline. If a date in the document has already passed, omit the field or set it "+
		"to %q. Only extract dates that are today or in the future.\n", date, ToBeConfirmed))

	sb.WriteString(fmt.Sprintf("\nDocument content (truncated): %s\n", truncateRunes(documentText, documentExcerptChars)))
	sb.WriteString(fmt.Sprintf("AI analysis: %s", reply))
	return sb.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
