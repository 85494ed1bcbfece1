package models

import "time"

// DemoUserID is the principal used when the caller is not authenticated.
const DemoUserID = "demo-user"

// User is a principal known to the engine.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username,omitempty"`
	Email           string    `json:"email,omitempty"`
	FirstName       string    `json:"firstName,omitempty"`
	LastName        string    `json:"lastName,omitempty"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DemoUser returns the fixed demo-login principal.
func DemoUser() *User {
	return &User{
		ID:        DemoUserID,
		Username:  "Demo User",
		Email:     "demo@retinuesolutions.com",
		FirstName: "Demo",
		LastName:  "User",
	}
}
