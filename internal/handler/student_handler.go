package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/daily-coding-api/internal/dto"
	"github.com/noah-isme/daily-coding-api/internal/service"
	"github.com/noah-isme/daily-coding-api/internal/utils"
)

// StudentHandler exposes the student facing endpoints.
type StudentHandler struct {
	dashboard   service.StudentDashboardService
	questions   service.QuestionService
	submissions service.SubmissionService
	logger      zerolog.Logger
}

// NewStudentHandler creates a new handler instance.
func NewStudentHandler(dashboard service.StudentDashboardService, questions service.QuestionService, submissions service.SubmissionService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		dashboard:   dashboard,
		questions:   questions,
		submissions: submissions,
		logger:      logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches the student routes. The router must already be guarded.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
	router.Get("/getTodayQuestion", h.getTodayQuestion)
	router.Post("/submitAnswer", h.submitAnswer)
	router.Get("/getSubmissions", h.getSubmissions)
}

func (h *StudentHandler) getDashboard(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	dashboard, err := h.dashboard.GetDashboard(c.UserContext(), actor.ID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "", dashboard)
}

func (h *StudentHandler) getTodayQuestion(c *fiber.Ctx) error {
	question, err := h.questions.Today(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "", question)
}

func (h *StudentHandler) submitAnswer(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var payload dto.SubmitAnswerRequest
	if err := parseBody(c, &payload); err != nil {
		return respondError(c, h.logger, err)
	}

	submission, err := h.submissions.Submit(c.UserContext(), actor.ID, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Answer submitted successfully", submission)
}

func (h *StudentHandler) getSubmissions(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	submissions, err := h.submissions.ListForStudent(c.UserContext(), actor.ID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "", submissions)
}
