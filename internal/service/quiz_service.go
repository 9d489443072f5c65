package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/events"
	"github.com/spec-kit/portal-service/internal/repository"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

const maxAttemptNameLength = 80

// QuizService manages quizzes and public attempts.
type QuizService struct {
	quizzes    repository.QuizRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// QuizDependencies bundles collaborators for the quiz service.
type QuizDependencies struct {
	QuizRepo   repository.QuizRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// QuizInput carries admin-editable quiz fields.
type QuizInput struct {
	Title       string
	Description string
	Questions   []domain.QuizQuestion
	Published   bool
}

// AttemptInput is a public quiz submission.
type AttemptInput struct {
	Name    string
	Answers []int
}

// NewQuizService constructs the service.
func NewQuizService(deps QuizDependencies) *QuizService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuizService{quizzes: deps.QuizRepo, dispatcher: deps.Dispatcher, logger: logger}
}

// CreateQuiz stores a new quiz.
func (s *QuizService) CreateQuiz(ctx context.Context, actorID string, input QuizInput) (*domain.Quiz, error) {
	quiz := &domain.Quiz{CreatedBy: actorID}
	if err := applyQuizInput(quiz, input); err != nil {
		return nil, err
	}
	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventQuizChanged, quiz.ID, actorID, events.QuizChangedPayload{
		Change:    events.ChangeCreated,
		Title:     quiz.Title,
		Published: quiz.Published,
	}))
	return quiz, nil
}

// UpdateQuiz replaces a quiz's title, description, questions and visibility.
func (s *QuizService) UpdateQuiz(ctx context.Context, actorID, id string, input QuizInput) (*domain.Quiz, error) {
	quiz, err := s.loadQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyQuizInput(quiz, input); err != nil {
		return nil, err
	}
	if err := s.quizzes.Update(ctx, quiz); err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventQuizChanged, quiz.ID, actorID, events.QuizChangedPayload{
		Change:    events.ChangeUpdated,
		Title:     quiz.Title,
		Published: quiz.Published,
	}))
	return quiz, nil
}

// DeleteQuiz removes a quiz and its attempts.
func (s *QuizService) DeleteQuiz(ctx context.Context, actorID, id string) error {
	quiz, err := s.loadQuiz(ctx, id)
	if err != nil {
		return err
	}
	if err := s.quizzes.Delete(ctx, quiz.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("quiz", map[string]any{"id": id})
		}
		return err
	}
	s.publish(ctx, events.New(events.EventQuizChanged, quiz.ID, actorID, events.QuizChangedPayload{
		Change: events.ChangeDeleted,
		Title:  quiz.Title,
	}))
	return nil
}

// GetQuiz returns any quiz, answers included.
func (s *QuizService) GetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	return s.loadQuiz(ctx, id)
}

// ListQuizzes returns every quiz for the admin console.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return s.quizzes.List(ctx, false)
}

// PublicListQuizzes returns published quizzes with answers hidden.
func (s *QuizService) PublicListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	quizzes, err := s.quizzes.List(ctx, true)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Quiz, 0, len(quizzes))
	for i := range quizzes {
		result = append(result, hideAnswers(quizzes[i]))
	}
	return result, nil
}

// PublicGetQuiz returns a published quiz with answers hidden.
func (s *QuizService) PublicGetQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, err := s.loadPublished(ctx, id)
	if err != nil {
		return nil, err
	}
	public := hideAnswers(*quiz)
	return &public, nil
}

// SubmitAttempt grades and records a submission against a published quiz.
func (s *QuizService) SubmitAttempt(ctx context.Context, quizID string, input AttemptInput) (*domain.QuizAttempt, error) {
	quiz, err := s.loadPublished(ctx, quizID)
	if err != nil {
		return nil, err
	}

	details := map[string]any{}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		details["name"] = "required"
	} else if len(name) > maxAttemptNameLength {
		details["name"] = fmt.Sprintf("must be at most %d characters", maxAttemptNameLength)
	}
	if len(input.Answers) != len(quiz.Questions) {
		details["answers"] = fmt.Sprintf("expected %d answers", len(quiz.Questions))
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid attempt", details)
	}

	score, total := quiz.Grade(input.Answers)
	attempt := &domain.QuizAttempt{
		QuizID:  quiz.ID,
		Name:    name,
		Answers: append([]int(nil), input.Answers...),
		Score:   score,
		Total:   total,
	}
	if err := s.quizzes.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventQuizAttempted, quiz.ID, "", events.QuizAttemptedPayload{
		AttemptID: attempt.ID,
		Score:     score,
		Total:     total,
	}))
	return attempt, nil
}

// ListAttempts returns the submissions for a quiz, newest first.
func (s *QuizService) ListAttempts(ctx context.Context, quizID string) ([]domain.QuizAttempt, error) {
	quiz, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return s.quizzes.ListAttempts(ctx, quiz.ID)
}

func (s *QuizService) loadQuiz(ctx context.Context, id string) (*domain.Quiz, error) {
	notFound := apperrors.NewNotFound("quiz", map[string]any{"id": id})
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound
	}
	quiz, err := s.quizzes.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound
	}
	return quiz, err
}

func (s *QuizService) loadPublished(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, err := s.loadQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	if !quiz.Published {
		return nil, apperrors.NewNotFound("quiz", map[string]any{"id": id})
	}
	return quiz, nil
}

func (s *QuizService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("quiz event handlers failed", zap.String("quiz_id", event.SubjectID), zap.Error(err))
	}
}

func applyQuizInput(quiz *domain.Quiz, input QuizInput) error {
	details := map[string]any{}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		details["title"] = "required"
	}
	if len(input.Questions) == 0 {
		details["questions"] = "at least one question is required"
	}

	questions := make([]domain.QuizQuestion, 0, len(input.Questions))
	for i, q := range input.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		prompt := strings.TrimSpace(q.Prompt)
		options := make([]string, 0, len(q.Options))
		for _, opt := range q.Options {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
		switch {
		case prompt == "":
			details[field] = "prompt required"
		case len(options) != len(q.Options):
			details[field] = "options must not be blank"
		case len(options) < 2:
			details[field] = "at least two options required"
		case q.AnswerIndex < 0 || q.AnswerIndex >= len(options):
			details[field] = "answer_index out of range"
		}
		questions = append(questions, domain.QuizQuestion{Prompt: prompt, Options: options, AnswerIndex: q.AnswerIndex})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid quiz", details)
	}

	quiz.Title = title
	quiz.Description = strings.TrimSpace(input.Description)
	quiz.Questions = questions
	quiz.Published = input.Published
	return nil
}

// hideAnswers returns a copy of quiz whose answer indexes are reset.
func hideAnswers(quiz domain.Quiz) domain.Quiz {
	questions := make([]domain.QuizQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = domain.QuizQuestion{Prompt: q.Prompt, Options: q.Options, AnswerIndex: -1}
	}
	quiz.Questions = questions
	return quiz
}
