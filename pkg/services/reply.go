package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/retinue-solutions/triage-engine/pkg/jsonutil"
	"github.com/retinue-solutions/triage-engine/pkg/llm"
	"github.com/retinue-solutions/triage-engine/pkg/models"
	"github.com/retinue-solutions/triage-engine/pkg/prompts"
)

const (
	maxTitleChars       = 80
	truncatedTitleChars = 77
)

// HasAgreementMarker reports whether the reply signals an agreed recommendation.
func HasAgreementMarker(reply string) bool {
	return strings.Contains(reply, prompts.MarkerRecommendationAgreed)
}

// HasReadinessMarker reports whether the reply signals the specification is ready.
func HasReadinessMarker(reply string) bool {
	return strings.Contains(reply, prompts.MarkerSpecificationReady)
}

// CleanReply removes control markers and fenced JSON blocks from a reply
// before it is shown to the user.
func CleanReply(reply string) string {
	out := strings.ReplaceAll(reply, prompts.MarkerRecommendationAgreed, "")
	out = strings.ReplaceAll(out, prompts.MarkerSpecificationReady, "")
	out = llm.StripFencedJSON(out)
	return strings.TrimSpace(out)
}

// rawRoute tolerates the loose typing models produce (numbers as strings,
// scalars where lists were asked for).
type rawRoute struct {
	Type        json.RawMessage `json:"type"`
	Title       json.RawMessage `json:"title"`
	Description json.RawMessage `json:"description"`
	Priority    json.RawMessage `json:"priority"`
	Pros        json.RawMessage `json:"pros"`
	Cons        json.RawMessage `json:"cons"`
	MatchScore  json.RawMessage `json:"matchScore"`
}

func (r rawRoute) toRoute() models.Route {
	return models.Route{
		Type:        models.RouteType(strings.ToLower(strings.TrimSpace(jsonutil.FlexibleStringValue(r.Type)))),
		Title:       jsonutil.FlexibleStringValue(r.Title),
		Description: jsonutil.FlexibleStringValue(r.Description),
		Priority:    models.RoutePriority(strings.ToLower(jsonutil.FlexibleStringValue(r.Priority))),
		Pros:        jsonutil.StringSlice(r.Pros),
		Cons:        jsonutil.StringSlice(r.Cons),
		MatchScore:  parseScore(jsonutil.FlexibleStringValue(r.MatchScore)),
	}
}

// parseScore reads a 0-100 match score. Out-of-range values are clamped
// before conversion; NaN and unparsable input score 0.
func parseScore(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return int(math.Max(0, math.Min(100, f)))
}

type agreementPayload struct {
	AgreedRoutes []rawRoute       `json:"agreed_routes"`
	Summary      json.RawMessage `json:"summary"`
}

type recommendationPayload struct {
	Routes  []rawRoute      `json:"routes"`
	Summary json.RawMessage `json:"summary"`
}

// ParseAgreedRecommendation reads the routes the assistant recorded alongside
// the agreement marker. The fenced JSON block after the marker is preferred,
// falling back to the first block in the reply. When no usable routes are
// found it returns the placeholder recommendation and false.
func ParseAgreedRecommendation(reply string) (*models.Recommendation, bool) {
	block, ok := "", false
	if idx := strings.Index(reply, prompts.MarkerRecommendationAgreed); idx >= 0 {
		block, ok = llm.ExtractFencedJSON(reply[idx:])
	}
	if !ok {
		block, ok = llm.ExtractFencedJSON(reply)
	}
	if !ok {
		return models.PlaceholderRecommendation(), false
	}

	var payload agreementPayload
	if err := json.Unmarshal([]byte(block), &payload); err != nil || len(payload.AgreedRoutes) == 0 {
		return models.PlaceholderRecommendation(), false
	}

	routes := make([]models.Route, 0, len(payload.AgreedRoutes))
	for _, r := range payload.AgreedRoutes {
		routes = append(routes, r.toRoute())
	}
	return &models.Recommendation{
		Routes:  NormalizeRoutes(routes),
		Summary: jsonutil.FlexibleStringValue(payload.Summary),
	}, true
}

// parseGeneratedRecommendation reads a JSON-mode recommendation reply.
func parseGeneratedRecommendation(content string) (*models.Recommendation, bool) {
	payload, err := llm.ParseJSONResponse[recommendationPayload](content)
	if err != nil || len(payload.Routes) == 0 {
		return models.PlaceholderRecommendation(), false
	}

	routes := make([]models.Route, 0, len(payload.Routes))
	for _, r := range payload.Routes {
		routes = append(routes, r.toRoute())
	}
	return &models.Recommendation{
		Routes:  NormalizeRoutes(routes),
		Summary: jsonutil.FlexibleStringValue(payload.Summary),
	}, true
}

// NormalizeRoutes maps short type codes to canonical route types, defaults
// the first route to primary and the rest to secondary when untagged, and
// clamps match scores to 0-100.
func NormalizeRoutes(routes []models.Route) []models.Route {
	out := make([]models.Route, len(routes))
	for i, r := range routes {
		r.Type = models.CanonicalRouteType(string(r.Type))
		if r.Priority != models.RoutePriorityPrimary && r.Priority != models.RoutePrioritySecondary {
			if i == 0 {
				r.Priority = models.RoutePriorityPrimary
			} else {
				r.Priority = models.RoutePrioritySecondary
			}
		}
		if r.Pros == nil {
			r.Pros = []string{}
		}
		if r.Cons == nil {
			r.Cons = []string{}
		}
		r.MatchScore = max(0, min(100, r.MatchScore))
		out[i] = r
	}
	return out
}

// MergeAnswers overlays extracted fields on the current answers. Blank values
// are skipped, so keys are only ever added or overwritten.
func MergeAnswers(current models.Answers, extracted map[string]any) models.Answers {
	merged := current.Clone()
	for k, v := range extracted {
		if jsonutil.IsBlank(v) {
			continue
		}
		merged[k] = v
	}
	return merged
}

// DeriveTitle turns an extracted role into a request title: trimmed, and cut
// to 77 characters plus "..." when longer than 80.
func DeriveTitle(role string) string {
	role = strings.TrimSpace(role)
	if utf8.RuneCountInString(role) <= maxTitleChars {
		return role
	}
	return string([]rune(role)[:truncatedTitleChars]) + "..."
}
