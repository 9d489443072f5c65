package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/events"
)

func sampleQuiz(published bool) QuizInput {
	return QuizInput{
		Title:       "General Awareness",
		Description: "Warm-up set",
		Published:   published,
		Questions: []domain.QuizQuestion{
			{Prompt: "Capital of India?", Options: []string{"Mumbai", "New Delhi", "Kolkata"}, AnswerIndex: 1},
			{Prompt: "2 + 2?", Options: []string{"3", "4"}, AnswerIndex: 1},
			{Prompt: "Largest planet?", Options: []string{"Jupiter", "Mars"}, AnswerIndex: 0},
		},
	}
}

func newQuizFixture(t *testing.T) (*QuizService, *memQuizzes, *[]events.Event) {
	t.Helper()

	repo := newMemQuizzes()
	dispatcher := events.NewInMemoryDispatcher()
	var seen []events.Event
	record := func(_ context.Context, e events.Event) error {
		seen = append(seen, e)
		return nil
	}
	dispatcher.Subscribe(events.EventQuizChanged, record)
	dispatcher.Subscribe(events.EventQuizAttempted, record)
	return NewQuizService(QuizDependencies{QuizRepo: repo, Dispatcher: dispatcher}), repo, &seen
}

func TestCreateQuizValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newQuizFixture(t)
	cases := []struct {
		name  string
		input QuizInput
		field string
	}{
		{"no title", QuizInput{Questions: sampleQuiz(false).Questions}, "title"},
		{"no questions", QuizInput{Title: "x"}, "questions"},
		{"one option", QuizInput{Title: "x", Questions: []domain.QuizQuestion{{Prompt: "p", Options: []string{"a"}}}}, "questions[0]"},
		{"blank option", QuizInput{Title: "x", Questions: []domain.QuizQuestion{{Prompt: "p", Options: []string{"a", " "}}}}, "questions[0]"},
		{"answer out of range", QuizInput{Title: "x", Questions: []domain.QuizQuestion{{Prompt: "p", Options: []string{"a", "b"}, AnswerIndex: 2}}}, "questions[0]"},
		{"negative answer", QuizInput{Title: "x", Questions: []domain.QuizQuestion{{Prompt: "p", Options: []string{"a", "b"}, AnswerIndex: -1}}}, "questions[0]"},
		{"blank prompt", QuizInput{Title: "x", Questions: []domain.QuizQuestion{{Prompt: "", Options: []string{"a", "b"}}}}, "questions[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateQuiz(context.Background(), actor, tc.input)
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		})
	}
}

func TestPublicQuizHidesAnswers(t *testing.T) {
	t.Parallel()

	svc, _, _ := newQuizFixture(t)
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, actor, sampleQuiz(true))
	require.NoError(t, err)
	_, err = svc.CreateQuiz(ctx, actor, sampleQuiz(false))
	require.NoError(t, err)

	public, err := svc.PublicGetQuiz(ctx, quiz.ID)
	require.NoError(t, err)
	for _, q := range public.Questions {
		assert.Equal(t, -1, q.AnswerIndex)
	}

	stored, err := svc.GetQuiz(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Questions[0].AnswerIndex, "hiding answers must not touch the stored quiz")

	list, err := svc.PublicListQuizzes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, -1, list[0].Questions[2].AnswerIndex)

	all, err := svc.ListQuizzes(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSubmitAttemptScores(t *testing.T) {
	t.Parallel()

	svc, repo, seen := newQuizFixture(t)
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, actor, sampleQuiz(true))
	require.NoError(t, err)

	attempt, err := svc.SubmitAttempt(ctx, quiz.ID, AttemptInput{Name: " Meena ", Answers: []int{1, 0, 0}})
	require.NoError(t, err)
	assert.Equal(t, "Meena", attempt.Name)
	assert.Equal(t, 2, attempt.Score)
	assert.Equal(t, 3, attempt.Total)

	attempts, err := svc.ListAttempts(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, attempt.ID, attempts[0].ID)
	assert.Len(t, repo.attempts, 1)

	last := (*seen)[len(*seen)-1]
	assert.Equal(t, events.EventQuizAttempted, last.Type)
	assert.Equal(t, events.QuizAttemptedPayload{AttemptID: attempt.ID, Score: 2, Total: 3}, last.Payload)
}

func TestSubmitAttemptRejections(t *testing.T) {
	t.Parallel()

	svc, _, _ := newQuizFixture(t)
	ctx := context.Background()

	draft, err := svc.CreateQuiz(ctx, actor, sampleQuiz(false))
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(ctx, draft.ID, AttemptInput{Name: "x", Answers: []int{0, 0, 0}})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	live, err := svc.CreateQuiz(ctx, actor, sampleQuiz(true))
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(ctx, live.ID, AttemptInput{Name: "x", Answers: []int{0}})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	_, err = svc.SubmitAttempt(ctx, live.ID, AttemptInput{Name: "  ", Answers: []int{0, 0, 0}})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.SubmitAttempt(ctx, "missing", AttemptInput{Name: "x"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestUpdateAndDeleteQuiz(t *testing.T) {
	t.Parallel()

	svc, _, seen := newQuizFixture(t)
	ctx := context.Background()

	quiz, err := svc.CreateQuiz(ctx, actor, sampleQuiz(false))
	require.NoError(t, err)

	in := sampleQuiz(true)
	in.Title = "General Awareness II"
	updated, err := svc.UpdateQuiz(ctx, actor, quiz.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "General Awareness II", updated.Title)
	assert.True(t, updated.Published)

	require.NoError(t, svc.DeleteQuiz(ctx, actor, quiz.ID))
	_, err = svc.GetQuiz(ctx, quiz.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	var changes []events.ChangeKind
	for _, e := range *seen {
		if p, ok := e.Payload.(events.QuizChangedPayload); ok {
			changes = append(changes, p.Change)
		}
	}
	assert.Equal(t, []events.ChangeKind{events.ChangeCreated, events.ChangeUpdated, events.ChangeDeleted}, changes)
}
