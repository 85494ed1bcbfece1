package models

// RouteType is a workforce-engagement method.
type RouteType string

const (
	RouteTypeIndependent RouteType = "independent"
	RouteTypeSOW         RouteType = "sow"
	RouteTypeAgency      RouteType = "agency"
	RouteTypePermanent   RouteType = "permanent"

	// RouteTypeUnknown marks the placeholder route used when an agreement
	// could not be parsed.
	RouteTypeUnknown RouteType = "unknown"
)

// routeTypeAliases maps the short codes the assistant is told to emit.
var routeTypeAliases = map[string]RouteType{
	"ic":          RouteTypeIndependent,
	"independent": RouteTypeIndependent,
	"sow":         RouteTypeSOW,
	"agency":      RouteTypeAgency,
	"permanent":   RouteTypePermanent,
}

// CanonicalRouteType maps a route code to its canonical type.
// Unrecognised codes pass through unchanged.
func CanonicalRouteType(code string) RouteType {
	if t, ok := routeTypeAliases[code]; ok {
		return t
	}
	return RouteType(code)
}

// RoutePriority ranks a route within a recommendation.
type RoutePriority string

const (
	RoutePriorityPrimary   RoutePriority = "primary"
	RoutePrioritySecondary RoutePriority = "secondary"
)

// Route is one recommended engagement route.
type Route struct {
	Type        RouteType     `json:"type"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Pros        []string      `json:"pros"`
	Cons        []string      `json:"cons"`
	MatchScore  int           `json:"matchScore"`
	Priority    RoutePriority `json:"priority,omitempty"`
}

// Recommendation is the agreed set of routes plus rationale.
type Recommendation struct {
	Routes  []Route `json:"routes"`
	Summary string  `json:"summary"`
}

// HasRouteType reports whether any route has the given type.
func (r *Recommendation) HasRouteType(t RouteType) bool {
	if r == nil {
		return false
	}
	for _, route := range r.Routes {
		if route.Type == t {
			return true
		}
	}
	return false
}

// PlaceholderRecommendation is recorded when the assistant signalled agreement
// but the routes could not be read.
func PlaceholderRecommendation() *Recommendation {
	return &Recommendation{
		Routes: []Route{{
			Type:        RouteTypeUnknown,
			Title:       "Agreed Route",
			Description: "Route agreed in conversation, details to be confirmed",
			Pros:        []string{},
			Cons:        []string{},
			MatchScore:  0,
			Priority:    RoutePriorityPrimary,
		}},
		Summary: "Route agreed via conversation.",
	}
}
