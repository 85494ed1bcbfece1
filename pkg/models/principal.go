package models

import "strings"

// Principal is the caller a request acts on behalf of.
type Principal struct {
	UserID    string
	FirstName string
	// Name is the full display name when the identity provider supplies one.
	Name  string
	Email string
}

// DemoPrincipal is used for unauthenticated callers.
func DemoPrincipal() *Principal {
	return &Principal{UserID: DemoUserID}
}

// IsDemo reports whether the principal is the demo sentinel.
func (p *Principal) IsDemo() bool {
	return p == nil || p.UserID == DemoUserID
}

// DisplayName is the first name, else the first word of the full name, else "there".
func (p *Principal) DisplayName() string {
	if p == nil {
		return "there"
	}
	if first := strings.TrimSpace(p.FirstName); first != "" {
		return first
	}
	if fields := strings.Fields(p.Name); len(fields) > 0 {
		return fields[0]
	}
	return "there"
}

// ID returns the owning user id, using the demo sentinel for a nil principal.
func (p *Principal) ID() string {
	if p == nil || p.UserID == "" {
		return DemoUserID
	}
	return p.UserID
}
