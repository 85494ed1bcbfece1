package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTriageTitle is the title a request carries until one is derived from its role.
const DefaultTriageTitle = "New Requirement"

// ============================================================================
// Triage Status
// ============================================================================

// TriageStatus is the lifecycle state of a triage request.
type TriageStatus string

const (
	TriageStatusDraft      TriageStatus = "draft"
	TriageStatusInProgress TriageStatus = "in_progress"
	TriageStatusCompleted  TriageStatus = "completed"
)

// ValidTriageStatuses contains all valid triage status values.
var ValidTriageStatuses = []TriageStatus{
	TriageStatusDraft,
	TriageStatusInProgress,
	TriageStatusCompleted,
}

// IsValidTriageStatus checks if the given status is valid.
func IsValidTriageStatus(s TriageStatus) bool {
	for _, v := range ValidTriageStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ============================================================================
// Answers
// ============================================================================

// Answers is the open bag of requirement fields gathered during the interview.
// Values are JSON scalars (string, number, bool) as produced by extraction.
type Answers map[string]any

// Clone returns a shallow copy. A nil bag clones to an empty one.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// ============================================================================
// Triage Request
// ============================================================================

// TriageRequest is one user-initiated procurement triage session.
type TriageRequest struct {
	ID             uuid.UUID       `json:"id"`
	UserID         string          `json:"userId"`
	Status         TriageStatus    `json:"status"`
	Title          string          `json:"title"`
	ConversationID *uuid.UUID      `json:"conversationId"`
	Answers        Answers         `json:"answers"`
	Recommendation *Recommendation `json:"recommendation"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// HasRecommendation reports whether routes have been agreed or generated.
func (r *TriageRequest) HasRecommendation() bool {
	return r.Recommendation != nil
}

// TriageUpdate is a partial update. Nil fields are left unchanged.
// Answers are merged key-wise over the stored bag.
type TriageUpdate struct {
	Title          *string
	Status         *TriageStatus
	Answers        Answers
	Recommendation *Recommendation
}

// IsEmpty reports whether the update touches no fields.
func (u *TriageUpdate) IsEmpty() bool {
	return u.Title == nil && u.Status == nil && u.Answers == nil && u.Recommendation == nil
}
