package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/api/dto"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/service"
)

// PostsHandler serves public listings and admin post management.
type PostsHandler struct {
	content *service.ContentService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(contentService *service.ContentService) *PostsHandler {
	return &PostsHandler{content: contentService}
}

// PublicList GET /posts?category=job.
func (h *PostsHandler) PublicList(c *fiber.Ctx) error {
	category := domain.PostCategory(c.Query("category"))
	if category == "" {
		return fiber.NewError(http.StatusBadRequest, "category required")
	}
	limit, offset := pageParams(c)
	posts, err := h.content.PublicListPosts(c.UserContext(), category, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postSummaries(posts)})
}

// PublicGet GET /posts/:slug.
func (h *PostsHandler) PublicGet(c *fiber.Ctx) error {
	post, err := h.content.PublicGetPost(c.UserContext(), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postDetail(post, false)})
}

// List GET /admin/posts.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	filter := service.PostListFilter{Search: c.Query("search")}
	if category := c.Query("category"); category != "" {
		cat := domain.PostCategory(category)
		filter.Category = &cat
	}
	filter.Limit, filter.Offset = pageParams(c)
	posts, err := h.content.ListPosts(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postSummaries(posts)})
}

// Get GET /admin/posts/:id.
func (h *PostsHandler) Get(c *fiber.Ctx) error {
	post, err := h.content.GetPost(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postDetail(post, true)})
}

// Create POST /admin/posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	admin, err := adminPrincipal(c)
	if err != nil {
		return err
	}
	input, err := parsePostRequest(c)
	if err != nil {
		return err
	}
	post, err := h.content.CreatePost(c.UserContext(), admin.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": postDetail(post, true)})
}

// Update PUT /admin/posts/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	admin, err := adminPrincipal(c)
	if err != nil {
		return err
	}
	input, err := parsePostRequest(c)
	if err != nil {
		return err
	}
	post, err := h.content.UpdatePost(c.UserContext(), admin.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postDetail(post, true)})
}

// SetPublished POST /admin/posts/:id/publish.
func (h *PostsHandler) SetPublished(c *fiber.Ctx) error {
	admin, err := adminPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	post, err := h.content.SetPublished(c.UserContext(), admin.ID, c.Params("id"), req.Published)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": postDetail(post, true)})
}

// Delete DELETE /admin/posts/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	admin, err := adminPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.content.DeletePost(c.UserContext(), admin.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parsePostRequest(c *fiber.Ctx) (service.PostInput, error) {
	var req dto.PostRequest
	if err := c.BodyParser(&req); err != nil {
		return service.PostInput{}, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	lastDate, err := parseDate(req.LastDate)
	if err != nil {
		return service.PostInput{}, err
	}
	return service.PostInput{
		Category:     req.Category,
		Title:        req.Title,
		Slug:         req.Slug,
		Summary:      req.Summary,
		Body:         req.Body,
		Organization: req.Organization,
		ApplyURL:     req.ApplyURL,
		LastDate:     lastDate,
		Published:    req.Published,
	}, nil
}
