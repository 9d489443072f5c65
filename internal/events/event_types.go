package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/portal-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPostChanged   EventType = "post_changed"
	EventQuizChanged   EventType = "quiz_changed"
	EventQuizAttempted EventType = "quiz_attempted"
)

// ChangeKind says what happened to a record.
type ChangeKind string

const (
	ChangeCreated     ChangeKind = "created"
	ChangeUpdated     ChangeKind = "updated"
	ChangeDeleted     ChangeKind = "deleted"
	ChangePublished   ChangeKind = "published"
	ChangeUnpublished ChangeKind = "unpublished"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, subjectID, actorID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// PostChangedPayload payload.
type PostChangedPayload struct {
	Change       ChangeKind          `json:"change"`
	Category     domain.PostCategory `json:"category"`
	PrevCategory domain.PostCategory `json:"prev_category,omitempty"`
	Title        string              `json:"title"`
	Slug         string              `json:"slug"`
	Published    bool                `json:"published"`
}

// QuizChangedPayload payload.
type QuizChangedPayload struct {
	Change    ChangeKind `json:"change"`
	Title     string     `json:"title"`
	Published bool       `json:"published"`
}

// QuizAttemptedPayload payload.
type QuizAttemptedPayload struct {
	AttemptID string `json:"attempt_id"`
	Score     int    `json:"score"`
	Total     int    `json:"total"`
}
