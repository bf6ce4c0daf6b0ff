package domain

import (
	"time"

	"github.com/google/uuid"
)

// --- Model types ---

// Session is a tracked live talk, identified by a short join code.
// Sessions are create-only: once stored they are never updated or deleted.
type Session struct {
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Speaker   string    `json:"speaker"`
	StartAt   time.Time `json:"startAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Feedback is one attendee's rating and comment for a session.
// SentimentScore is derived once at creation and never recomputed.
type Feedback struct {
	ID             uuid.UUID `json:"id"`
	SessionCode    string    `json:"sessionCode"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	SentimentScore int       `json:"sentimentScore"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SessionSummary is the derived aggregate view of one session's feedback.
// It is recomputed on every request and never stored.
type SessionSummary struct {
	Code             string     `json:"code"`
	Title            string     `json:"title"`
	Speaker          string     `json:"speaker"`
	StartAt          time.Time  `json:"startAt"`
	TotalResponses   int        `json:"totalResponses"`
	AverageRating    float64    `json:"averageRating"`
	PositiveShare    float64    `json:"positiveShare"`
	SentimentAverage float64    `json:"sentimentAverage"`
	LastUpdatedAt    *time.Time `json:"lastUpdatedAt,omitempty"`
}

// PulseUpdate is the event fanned out to live dashboard viewers after a
// feedback submission: the new record plus the session's fresh summary.
type PulseUpdate struct {
	Feedback Feedback       `json:"feedback"`
	Summary  SessionSummary `json:"summary"`
}

// --- Interfaces ---

// Scorer turns free-text comments into a bounded sentiment score.
type Scorer interface {
	// Score returns an integer in [-3, 3] for the given comment.
	// Empty or whitespace-only comments score 0.
	Score(comment string) int
}

// PulseRepository is the single source of truth for sessions and feedback.
type PulseRepository interface {
	ListSessions() []Session
	GetSession(code string) (Session, error)
	CreateSession(title, speaker string, startAt *time.Time) (Session, error)
	AddFeedback(sessionCode string, rating int, comment string) (Feedback, error)
	ListFeedback(code string, limit int) []Feedback
	GetSummary(code string) (SessionSummary, error)
	ListSummaries() []SessionSummary
}

// UpdatePublisher delivers updates to live subscribers of a session.
// Delivery is best-effort: a slow consumer never blocks the publisher.
type UpdatePublisher interface {
	Publish(update PulseUpdate)
}
