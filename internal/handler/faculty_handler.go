package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/daily-coding-api/internal/service"
	"github.com/noah-isme/daily-coding-api/internal/utils"
)

// FacultyHandler exposes the faculty views over students.
type FacultyHandler struct {
	service service.FacultyService
	logger  zerolog.Logger
}

// NewFacultyHandler constructs a FacultyHandler.
func NewFacultyHandler(service service.FacultyService, logger zerolog.Logger) *FacultyHandler {
	return &FacultyHandler{
		service: service,
		logger:  logger.With().Str("component", "faculty_handler").Logger(),
	}
}

// Register attaches the faculty routes. The router must already be guarded.
func (h *FacultyHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
	router.Get("/students", h.listStudents)
	router.Get("/students/:id", h.getStudent)
}

func (h *FacultyHandler) getDashboard(c *fiber.Ctx) error {
	dashboard, err := h.service.GetDashboard(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "", dashboard)
}

func (h *FacultyHandler) listStudents(c *fiber.Ctx) error {
	students, err := h.service.ListStudents(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendList(c, "", len(students), students)
}

func (h *FacultyHandler) getStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}

	overview, err := h.service.GetStudentOverview(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "", overview)
}
