package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/api/dto"
	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/service"
)

func adminPrincipal(c *fiber.Ctx) (*domain.Admin, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return nil, fiber.NewError(http.StatusUnauthorized, "admin required")
	}
	return principal.Admin, nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// pageParams reads page/page_size into a limit and offset. Both are clamped
// before the offset is computed.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	page := min(parseInt(c.Query("page"), 1), service.MaxPage)
	pageSize := min(parseInt(c.Query("page_size"), service.DefaultPageSize), service.MaxPageSize)
	return pageSize, (page - 1) * pageSize
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*value)
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "last_date must be YYYY-MM-DD or RFC 3339")
	}
	return &t, nil
}

func adminResponse(a *domain.Admin) dto.AdminResponse {
	return dto.AdminResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}

func postSummary(p *domain.Post) dto.PostSummary {
	return dto.PostSummary{
		ID:           p.ID,
		Category:     p.Category,
		Title:        p.Title,
		Slug:         p.Slug,
		Summary:      p.Summary,
		Organization: p.Organization,
		LastDate:     p.LastDate,
		Published:    p.Published,
		CreatedAt:    p.CreatedAt,
	}
}

// postDetail renders a post; the admin view adds the Markdown source and author.
func postDetail(p *domain.Post, admin bool) dto.PostDetail {
	detail := dto.PostDetail{
		PostSummary: postSummary(p),
		BodyHTML:    p.BodyHTML,
		ApplyURL:    p.ApplyURL,
		UpdatedAt:   p.UpdatedAt,
	}
	if admin {
		detail.Body = p.Body
		detail.CreatedBy = p.CreatedBy
	}
	return detail
}

func postSummaries(posts []domain.Post) []dto.PostSummary {
	items := make([]dto.PostSummary, 0, len(posts))
	for i := range posts {
		items = append(items, postSummary(&posts[i]))
	}
	return items
}

func quizResponse(q *domain.Quiz) dto.QuizResponse {
	return dto.QuizResponse{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   q.Questions,
		Published:   q.Published,
		CreatedBy:   q.CreatedBy,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func publicQuizResponse(q *domain.Quiz) dto.PublicQuizResponse {
	questions := make([]dto.PublicQuestion, 0, len(q.Questions))
	for _, question := range q.Questions {
		questions = append(questions, dto.PublicQuestion{Prompt: question.Prompt, Options: question.Options})
	}
	return dto.PublicQuizResponse{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   questions,
	}
}

func attemptResponse(a *domain.QuizAttempt, includeAnswers bool) dto.AttemptResponse {
	resp := dto.AttemptResponse{
		ID:          a.ID,
		QuizID:      a.QuizID,
		Name:        a.Name,
		Score:       a.Score,
		Total:       a.Total,
		SubmittedAt: a.SubmittedAt,
	}
	if includeAnswers {
		resp.Answers = a.Answers
	}
	return resp
}
