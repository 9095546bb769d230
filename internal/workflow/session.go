package workflow

import (
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/AndrewDilley/TenderEvaluation/internal/redaction"
	"github.com/AndrewDilley/TenderEvaluation/internal/scoring"
)

// Session holds the state scoped to one evaluation or redaction request.
// Exclusions extend the redactor's configured organization names for this
// session only.
type Session struct {
	ID         uuid.UUID              `json:"id"`
	Exclusions redaction.ExclusionSet `json:"exclusions,omitempty"`
	StartedAt  time.Time              `json:"started_at"`
}

// NewSession starts a session with a fresh id.
func NewSession(exclusions ...string) *Session {
	return &Session{
		ID:         uuid.New(),
		Exclusions: redaction.NewExclusionSet(exclusions...),
		StartedAt:  time.Now().UTC(),
	}
}

// Key returns the storage key for the redacted text of filename.
func (s *Session) Key(filename string) string {
	return path.Join("sessions", s.ID.String(), scoring.DocumentLabel(filename)+"_redacted.txt")
}
