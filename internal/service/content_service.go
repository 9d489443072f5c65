package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-service/internal/cache"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/events"
	"github.com/spec-kit/portal-service/internal/repository"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// Listing page bounds shared by the service and the HTTP layer.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 10_000
)

// ContentService manages jobs, admit cards, results and news.
type ContentService struct {
	posts      repository.PostRepository
	cache      *cache.ListingCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ContentDependencies bundles collaborators for the content service.
type ContentDependencies struct {
	PostRepo   repository.PostRepository
	Cache      *cache.ListingCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// PostInput carries admin-editable post fields. An empty Slug is derived from
// Title on create and left unchanged on update.
type PostInput struct {
	Category     domain.PostCategory
	Title        string
	Slug         string
	Summary      string
	Body         string
	Organization string
	ApplyURL     string
	LastDate     *time.Time
	Published    bool
}

// PostListFilter describes admin listing filters.
type PostListFilter struct {
	Category *domain.PostCategory
	Search   string
	Limit    int
	Offset   int
}

// NewContentService constructs the service.
func NewContentService(deps ContentDependencies) *ContentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		posts:      deps.PostRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreatePost stores a new post authored by actorID.
func (s *ContentService) CreatePost(ctx context.Context, actorID string, input PostInput) (*domain.Post, error) {
	post := &domain.Post{CreatedBy: actorID}
	explicitSlug, err := applyPostInput(post, input)
	if err != nil {
		return nil, err
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		if explicitSlug {
			return nil, slugTaken(post.Slug)
		}
		post.Slug = suffixSlug(post.Slug)
		if err := s.posts.Create(ctx, post); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, slugTaken(post.Slug)
			}
			return nil, err
		}
	}

	s.publishPostChange(ctx, actorID, post, events.ChangeCreated, "")
	return post, nil
}

// UpdatePost replaces the editable fields of a post.
func (s *ContentService) UpdatePost(ctx context.Context, actorID, id string, input PostInput) (*domain.Post, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	prevCategory := post.Category
	if strings.TrimSpace(input.Slug) == "" {
		input.Slug = post.Slug
	}
	if _, err := applyPostInput(post, input); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, slugTaken(post.Slug)
		}
		return nil, err
	}

	var prev domain.PostCategory
	if prevCategory != post.Category {
		prev = prevCategory
	}
	s.publishPostChange(ctx, actorID, post, events.ChangeUpdated, prev)
	return post, nil
}

// SetPublished publishes or withdraws a post.
func (s *ContentService) SetPublished(ctx context.Context, actorID, id string, published bool) (*domain.Post, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Published == published {
		return post, nil
	}
	post.Published = published
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	change := events.ChangePublished
	if !published {
		change = events.ChangeUnpublished
	}
	s.publishPostChange(ctx, actorID, post, change, "")
	return post, nil
}

// DeletePost removes a post.
func (s *ContentService) DeletePost(ctx context.Context, actorID, id string) error {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("post", map[string]any{"id": id})
		}
		return err
	}
	s.publishPostChange(ctx, actorID, post, events.ChangeDeleted, "")
	return nil
}

// GetPost returns any post by id, published or not.
func (s *ContentService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.loadPost(ctx, id)
}

// ListPosts returns posts for the admin console, drafts included.
func (s *ContentService) ListPosts(ctx context.Context, filter PostListFilter) ([]domain.Post, error) {
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, invalidCategory(*filter.Category)
	}
	limit, offset := normalizePage(filter.Limit, filter.Offset)
	return s.posts.List(ctx, repository.PostFilter{
		Category: filter.Category,
		Search:   filter.Search,
		Limit:    limit,
		Offset:   offset,
	})
}

// PublicListPosts returns published posts of a category, newest first.
// Pages are served from the listing cache when possible.
func (s *ContentService) PublicListPosts(ctx context.Context, category domain.PostCategory, limit, offset int) ([]domain.Post, error) {
	if !category.Valid() {
		return nil, invalidCategory(category)
	}
	limit, offset = normalizePage(limit, offset)

	cached, pageKey, ok, err := s.cache.GetPosts(ctx, category, limit, offset)
	if err != nil {
		s.logger.Warn("listing cache read failed", zap.String("category", string(category)), zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	posts, err := s.posts.List(ctx, repository.PostFilter{
		Category:      &category,
		PublishedOnly: true,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	if err := s.cache.SetPosts(ctx, pageKey, posts); err != nil {
		s.logger.Warn("listing cache write failed", zap.String("category", string(category)), zap.Error(err))
	}
	return posts, nil
}

// PublicGetPost returns a published post by slug.
func (s *ContentService) PublicGetPost(ctx context.Context, slug string) (*domain.Post, error) {
	notFound := apperrors.NewNotFound("post", map[string]any{"slug": slug})
	if !apperrors.ValidSlug(slug) {
		return nil, notFound
	}
	post, err := s.posts.GetBySlug(ctx, slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound
	}
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, notFound
	}
	return post, nil
}

func (s *ContentService) loadPost(ctx context.Context, id string) (*domain.Post, error) {
	notFound := apperrors.NewNotFound("post", map[string]any{"id": id})
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound
	}
	post, err := s.posts.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound
	}
	return post, err
}

func (s *ContentService) publishPostChange(ctx context.Context, actorID string, post *domain.Post, change events.ChangeKind, prev domain.PostCategory) {
	if s.dispatcher == nil {
		return
	}
	event := events.New(events.EventPostChanged, post.ID, actorID, events.PostChangedPayload{
		Change:       change,
		Category:     post.Category,
		PrevCategory: prev,
		Title:        post.Title,
		Slug:         post.Slug,
		Published:    post.Published,
	})
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("post event handlers failed", zap.String("post_id", post.ID), zap.Error(err))
	}
}

// applyPostInput validates input and copies it onto post. It reports whether
// the slug was supplied by the caller.
func applyPostInput(post *domain.Post, input PostInput) (bool, error) {
	details := map[string]any{}
	title := strings.TrimSpace(input.Title)
	if !input.Category.Valid() {
		details["category"] = "must be one of job, admit_card, result, news"
	}
	if title == "" {
		details["title"] = "required"
	}

	explicit := strings.TrimSpace(input.Slug) != ""
	slug := strings.TrimSpace(input.Slug)
	if explicit {
		if !apperrors.ValidSlug(slug) {
			details["slug"] = "must be lowercase letters, digits and single hyphens"
		}
	} else {
		slug = apperrors.Slugify(title)
		if slug == "" && title != "" {
			slug = "post"
		}
	}

	applyURL := strings.TrimSpace(input.ApplyURL)
	if applyURL != "" && !strings.HasPrefix(applyURL, "https://") && !strings.HasPrefix(applyURL, "http://") {
		details["apply_url"] = "must be an http or https URL"
	}
	if len(details) > 0 {
		return explicit, apperrors.NewValidationError("invalid post", details)
	}

	post.Category = input.Category
	post.Title = title
	post.Slug = slug
	post.Summary = apperrors.PlainText(input.Summary)
	post.Body = input.Body
	post.BodyHTML = apperrors.RenderMarkdown(input.Body)
	post.Organization = strings.TrimSpace(input.Organization)
	post.ApplyURL = applyURL
	post.LastDate = input.LastDate
	post.Published = input.Published
	return explicit, nil
}

func suffixSlug(slug string) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	if len(slug)+1+len(suffix) > apperrors.MaxSlugLength {
		slug = strings.TrimRight(slug[:apperrors.MaxSlugLength-1-len(suffix)], "-")
	}
	return slug + "-" + suffix
}

func slugTaken(slug string) error {
	return apperrors.NewConflict("slug already in use", map[string]any{"slug": slug})
}

func invalidCategory(category domain.PostCategory) error {
	return apperrors.NewValidationError("invalid category", map[string]any{"category": string(category)})
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
