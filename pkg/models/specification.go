package models

import (
	"time"

	"github.com/google/uuid"
)

// InitialSpecificationVersion is the version every specification carries.
// Saves overwrite content without bumping it.
const InitialSpecificationVersion = 1

// Specification is the drafted requirement document for a triage request.
type Specification struct {
	ID              uuid.UUID `json:"id"`
	TriageRequestID uuid.UUID `json:"triageRequestId"`
	Content         string    `json:"content"`
	Version         int       `json:"version"`
	CreatedAt       time.Time `json:"createdAt"`
}
