package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portal-service/internal/api/dto"
	"github.com/spec-kit/portal-service/internal/service"
)

// QuizzesHandler serves public quizzes and admin quiz management.
type QuizzesHandler struct {
	quizzes *service.QuizService
}

// NewQuizzesHandler constructs handler.
func NewQuizzesHandler(quizService *service.QuizService) *QuizzesHandler {
	return &QuizzesHandler{quizzes: quizService}
}

// PublicList GET /quizzes.
func (h *QuizzesHandler) PublicList(c *fiber.Ctx) error {
	quizzes, err := h.quizzes.PublicListQuizzes(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.PublicQuizResponse, 0, len(quizzes))
	for i := range quizzes {
		items = append(items, publicQuizResponse(&quizzes[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// PublicGet GET /quizzes/:id.
func (h *QuizzesHandler) PublicGet(c *fiber.Ctx) error {
	quiz, err := h.quizzes.PublicGetQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": publicQuizResponse(quiz)})
}

// Submit POST /quizzes/:id/attempts.
func (h *QuizzesHandler) Submit(c *fiber.Ctx) error {
	var req dto.AttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	attempt, err := h.quizzes.SubmitAttempt(c.UserContext(), c.Params("id"), service.AttemptInput{
		Name:    req.Name,
		Answers: req.Answers,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": attemptResponse(attempt, false)})
}

// List GET /admin/quizzes.
func (h *QuizzesHandler) List(c *fiber.Ctx) error {
	quizzes, err := h.quizzes.ListQuizzes(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		items = append(items, quizResponse(&quizzes[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /admin/quizzes/:id.
func (h *QuizzesHandler) Get(c *fiber.Ctx) error {
	quiz, err := h.quizzes.GetQuiz(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": quizResponse(quiz)})
}

// Create POST /admin/quizzes.
func (h *QuizzesHandler) Create(c *fiber.Ctx) error {
	admin, err := adminPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	quiz, err := h.quizzes.CreateQuiz(c.UserContext(), admin.ID, quizInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": quizResponse(quiz)})
}

// Update PUT /admin/quizzes/:id.
func (h *QuizzesHandler) Update(c *fiber.Ctx) error {
	admin, err := adminPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	quiz, err := h.quizzes.UpdateQuiz(c.UserContext(), admin.ID, c.Params("id"), quizInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": quizResponse(quiz)})
}

// Delete DELETE /admin/quizzes/:id.
func (h *QuizzesHandler) Delete(c *fiber.Ctx) error {
	admin, err := adminPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.quizzes.DeleteQuiz(c.UserContext(), admin.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Attempts GET /admin/quizzes/:id/attempts.
func (h *QuizzesHandler) Attempts(c *fiber.Ctx) error {
	attempts, err := h.quizzes.ListAttempts(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.AttemptResponse, 0, len(attempts))
	for i := range attempts {
		items = append(items, attemptResponse(&attempts[i], true))
	}
	return c.JSON(fiber.Map{"data": items})
}

func quizInput(req dto.QuizRequest) service.QuizInput {
	return service.QuizInput{
		Title:       req.Title,
		Description: req.Description,
		Questions:   req.Questions,
		Published:   req.Published,
	}
}
