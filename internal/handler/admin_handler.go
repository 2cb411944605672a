package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/daily-coding-api/internal/dto"
	"github.com/noah-isme/daily-coding-api/internal/service"
	"github.com/noah-isme/daily-coding-api/internal/utils"
)

// AdminHandler exposes the admin dashboard and question management.
type AdminHandler struct {
	dashboard service.AdminDashboardService
	questions service.QuestionService
	logger    zerolog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(dashboard service.AdminDashboardService, questions service.QuestionService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		dashboard: dashboard,
		questions: questions,
		logger:    logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the admin routes. The router must already be guarded.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
	router.Get("/questions", h.listQuestions)
	router.Post("/questions", h.createQuestion)
	router.Put("/questions/:id", h.updateQuestion)
	router.Delete("/questions/:id", h.deleteQuestion)
}

func (h *AdminHandler) getDashboard(c *fiber.Ctx) error {
	dashboard, err := h.dashboard.GetDashboard(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "", dashboard)
}

func (h *AdminHandler) listQuestions(c *fiber.Ctx) error {
	questions, err := h.questions.List(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendList(c, "", len(questions), questions)
}

func (h *AdminHandler) createQuestion(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var payload dto.QuestionCreateRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	question, err := h.questions.Create(c.UserContext(), actor, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Question created successfully", question)
}

func (h *AdminHandler) updateQuestion(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var payload dto.QuestionUpdateRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	question, err := h.questions.Update(c.UserContext(), actor, id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "Question updated successfully", question)
}

func (h *AdminHandler) deleteQuestion(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := h.questions.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "Question deleted successfully", nil)
}
