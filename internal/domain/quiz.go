package domain

import "time"

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
}

// Quiz groups questions under a title.
type Quiz struct {
	ID          string
	Title       string
	Description string
	Questions   []QuizQuestion
	Published   bool
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuizAttempt records one public submission.
type QuizAttempt struct {
	ID          string
	QuizID      string
	Name        string
	Answers     []int
	Score       int
	Total       int
	SubmittedAt time.Time
}

// Grade counts answers matching the quiz key. Missing or extra answers score nothing.
func (q *Quiz) Grade(answers []int) (score, total int) {
	total = len(q.Questions)
	for i, question := range q.Questions {
		if i < len(answers) && answers[i] == question.AnswerIndex {
			score++
		}
	}
	return score, total
}
