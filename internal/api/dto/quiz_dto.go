package dto

import (
	"time"

	"github.com/spec-kit/portal-service/internal/domain"
)

// QuizRequest payload for creating or updating a quiz.
type QuizRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Questions   []domain.QuizQuestion `json:"questions"`
	Published   bool                  `json:"published"`
}

// AttemptRequest payload for a public submission.
type AttemptRequest struct {
	Name    string `json:"name"`
	Answers []int  `json:"answers"`
}

// PublicQuestion omits the answer key.
type PublicQuestion struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// PublicQuizResponse is the quiz as shown to visitors.
type PublicQuizResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Questions   []PublicQuestion `json:"questions"`
}

// QuizResponse is the admin view, answers included.
type QuizResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Questions   []domain.QuizQuestion `json:"questions"`
	Published   bool                  `json:"published"`
	CreatedBy   string                `json:"created_by"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// AttemptResponse reports a graded submission.
type AttemptResponse struct {
	ID          string    `json:"id"`
	QuizID      string    `json:"quiz_id"`
	Name        string    `json:"name"`
	Answers     []int     `json:"answers,omitempty"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	SubmittedAt time.Time `json:"submitted_at"`
}
