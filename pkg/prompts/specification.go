package prompts

import (
	"fmt"
	"strings"

	"github.com/retinue-solutions/triage-engine/pkg/models"
)

var universalSpecFields = []string{
	"Clear requirement summary (plain English)",
	"Engagement type selected",
	"Start date",
	"Duration or completion deadline",
	"Location & working pattern",
	"Budget range or salary band",
	"Commercial model (fixed / milestones / rate / salary)",
	"Travel & expenses assumption",
}

var routeSpecFields = map[models.RouteType]string{
	models.RouteTypeSOW: `FOR STATEMENT OF WORK (SoW) the specification MUST also include:
- Defined outcomes or deliverables
- Milestones (if applicable)
- Acceptance criteria
- Evidence requirements
- Accreditation alignment
- Payment structure (milestone / completion)
- Variation control statement
- Supplier operating under MSA confirmation
If outcomes are not clearly defined, flag this as a gap.
`,
	models.RouteTypeIndependent: `FOR INDEPENDENT CONTRACTOR (IC) the specification MUST also include:
- Role description
- Reporting line
- Supervision level
- Substitution position
- Working hours expectation
- IR35 relevance flag
- SDS required status
- Rate expectation
- Duration
- Onboarding requirements
If supervision is high and no substitution is allowed, raise an IR35 flag prominently.
`,
	models.RouteTypeAgency: `FOR AGENCY LABOUR the specification MUST also include:
- Pay rate and whether day or hourly
- Shift pattern
- Overtime expectations
- Duration
- Volume required
- Site location(s)
- Compliance checks required
- Timesheet approval process
`,
	models.RouteTypePermanent: `FOR PERMANENT HIRE the specification MUST also include:
- Job title
- Salary band
- Benefits summary
- Reporting line
- Core responsibilities
- Essential vs desirable criteria
`,
}

// SpecificationPrompt asks for a plain-text requirement specification covering
// the universal fields plus those required by each agreed route type.
func SpecificationPrompt(rec *models.Recommendation, transcript string) string {
	var routes []models.Route
	summary := ""
	if rec != nil {
		routes = rec.Routes
		summary = rec.Summary
	}

	var sb strings.Builder
	sb.WriteString("You are creating a professional Requirement Specification document for Retinue Solutions. ")
	sb.WriteString(ukEnglishRule)
	sb.WriteString("\n\n")
	sb.WriteString("Based on the discovery conversation below, create a detailed, professional specification in PLAIN TEXT. ")
	sb.WriteString("Do NOT use Markdown: no hash headings, no asterisk bold or bullet markers, no code blocks. ")
	sb.WriteString("Use UPPERCASE for section headings, dashes (-) for bullet points and blank lines between sections.\n\n")

	if len(routes) > 1 {
		sb.WriteString("IMPORTANT: This requirement will be fulfilled through MULTIPLE engagement routes. Create a SEPARATE, " +
			"clearly labelled specification section for each route. Each section must contain ALL the mandatory fields " +
			"listed below for that route type.\n\n")
	} else {
		title := "TBD"
		if len(routes) == 1 && routes[0].Title != "" {
			title = routes[0].Title
		}
		sb.WriteString(fmt.Sprintf("This requirement will be fulfilled through: %s.\n\n", title))
	}

	sb.WriteString("Agreed route(s):\n")
	for _, r := range routes {
		sb.WriteString(fmt.Sprintf("- %s (%s): %s\n", r.Title, r.Type, r.Description))
	}
	sb.WriteString(fmt.Sprintf("\nRecommendation summary: %s\n\n", summary))

	sb.WriteString("=== UNIVERSAL FIELDS (must appear for ALL routes) ===\n")
	for i, f := range universalSpecFields {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, f))
	}

	sb.WriteString("\n=== ROUTE-SPECIFIC MANDATORY FIELDS ===\n")
	for _, t := range detailRouteOrder {
		if rec.HasRouteType(t) {
			sb.WriteString("\n")
			sb.WriteString(routeSpecFields[t])
		}
	}

	sb.WriteString(fmt.Sprintf("\nIf any mandatory field was not discussed in the conversation, include it with a %q "+
		"placeholder so the user can fill it in during review.\n\n", ToBeConfirmed))
	sb.WriteString("Conversation:\n")
	sb.WriteString(transcript)
	return sb.String()
}
