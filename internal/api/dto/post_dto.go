package dto

import (
	"time"

	"github.com/spec-kit/portal-service/internal/domain"
)

// PostRequest payload for creating or updating a post. LastDate accepts
// YYYY-MM-DD or RFC 3339.
type PostRequest struct {
	Category     domain.PostCategory `json:"category"`
	Title        string              `json:"title"`
	Slug         string              `json:"slug"`
	Summary      string              `json:"summary"`
	Body         string              `json:"body"`
	Organization string              `json:"organization"`
	ApplyURL     string              `json:"apply_url"`
	LastDate     *string             `json:"last_date"`
	Published    bool                `json:"published"`
}

// PublishRequest toggles visibility.
type PublishRequest struct {
	Published bool `json:"published"`
}

// PostSummary response for listings.
type PostSummary struct {
	ID           string              `json:"id"`
	Category     domain.PostCategory `json:"category"`
	Title        string              `json:"title"`
	Slug         string              `json:"slug"`
	Summary      string              `json:"summary"`
	Organization string              `json:"organization"`
	LastDate     *time.Time          `json:"last_date"`
	Published    bool                `json:"published"`
	CreatedAt    time.Time           `json:"created_at"`
}

// PostDetail response with the full body.
type PostDetail struct {
	PostSummary
	Body      string    `json:"body,omitempty"`
	BodyHTML  string    `json:"body_html"`
	ApplyURL  string    `json:"apply_url"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
