package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/repository"
)

type memAdmins struct {
	mu   sync.Mutex
	byID map[string]*domain.Admin
}

func newMemAdmins() *memAdmins {
	return &memAdmins{byID: map[string]*domain.Admin{}}
}

func (m *memAdmins) Create(_ context.Context, admin *domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if strings.EqualFold(existing.Email, admin.Email) {
			return repository.ErrDuplicate
		}
	}
	admin.ID = uuid.NewString()
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = admin.CreatedAt
	stored := *admin
	m.byID[admin.ID] = &stored
	return nil
}

func (m *memAdmins) Update(_ context.Context, admin *domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[admin.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *admin
	m.byID[admin.ID] = &stored
	return nil
}

func (m *memAdmins) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memAdmins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if strings.EqualFold(a.Email, email) {
			copied := *a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memPosts struct {
	mu        sync.Mutex
	byID      map[string]*domain.Post
	seq       int
	listCalls int
	// afterList runs once List has read the store and released the lock.
	afterList func()
}

func newMemPosts() *memPosts {
	return &memPosts{byID: map[string]*domain.Post{}}
}

func (m *memPosts) Create(_ context.Context, post *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugUsed(post.Slug, "") {
		return repository.ErrDuplicate
	}
	m.seq++
	post.ID = uuid.NewString()
	post.CreatedAt = time.Unix(1_700_000_000+int64(m.seq), 0)
	post.UpdatedAt = post.CreatedAt
	stored := *post
	m.byID[post.ID] = &stored
	return nil
}

func (m *memPosts) Update(_ context.Context, post *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[post.ID]; !ok {
		return pgx.ErrNoRows
	}
	if m.slugUsed(post.Slug, post.ID) {
		return repository.ErrDuplicate
	}
	stored := *post
	m.byID[post.ID] = &stored
	return nil
}

func (m *memPosts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func (m *memPosts) GetByID(_ context.Context, id string) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memPosts) GetBySlug(_ context.Context, slug string) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.Slug == slug {
			copied := *p
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memPosts) List(_ context.Context, filter repository.PostFilter) ([]domain.Post, error) {
	if m.afterList != nil {
		defer m.afterList()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	var result []domain.Post
	for _, p := range m.byID {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.PublishedOnly && !p.Published {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Search)) {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if filter.Offset >= len(result) {
		return nil, nil
	}
	result = result[filter.Offset:]
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (m *memPosts) slugUsed(slug, exceptID string) bool {
	for id, p := range m.byID {
		if id != exceptID && p.Slug == slug {
			return true
		}
	}
	return false
}

func (m *memPosts) lists() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

type memQuizzes struct {
	mu       sync.Mutex
	byID     map[string]*domain.Quiz
	attempts []domain.QuizAttempt
}

func newMemQuizzes() *memQuizzes {
	return &memQuizzes{byID: map[string]*domain.Quiz{}}
}

func (m *memQuizzes) Create(_ context.Context, quiz *domain.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	quiz.ID = uuid.NewString()
	quiz.CreatedAt = time.Now()
	quiz.UpdatedAt = quiz.CreatedAt
	stored := *quiz
	m.byID[quiz.ID] = &stored
	return nil
}

func (m *memQuizzes) Update(_ context.Context, quiz *domain.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[quiz.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *quiz
	m.byID[quiz.ID] = &stored
	return nil
}

func (m *memQuizzes) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.byID, id)
	return nil
}

func (m *memQuizzes) GetByID(_ context.Context, id string) (*domain.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.byID[id]; ok {
		copied := *q
		copied.Questions = append([]domain.QuizQuestion(nil), q.Questions...)
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memQuizzes) List(_ context.Context, publishedOnly bool) ([]domain.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.Quiz
	for _, q := range m.byID {
		if publishedOnly && !q.Published {
			continue
		}
		copied := *q
		copied.Questions = append([]domain.QuizQuestion(nil), q.Questions...)
		result = append(result, copied)
	}
	return result, nil
}

func (m *memQuizzes) CreateAttempt(_ context.Context, attempt *domain.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	attempt.ID = uuid.NewString()
	attempt.SubmittedAt = time.Now()
	m.attempts = append(m.attempts, *attempt)
	return nil
}

func (m *memQuizzes) ListAttempts(_ context.Context, quizID string) ([]domain.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []domain.QuizAttempt
	for _, a := range m.attempts {
		if a.QuizID == quizID {
			result = append(result, a)
		}
	}
	return result, nil
}
