package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradex-go-api/internal/dto"
	"github.com/noah-isme/gradex-go-api/internal/service"
	"github.com/noah-isme/gradex-go-api/internal/utils"
)

// GrievanceHandler manages grievance filing and review endpoints.
type GrievanceHandler struct {
	service service.GrievanceService
	logger  zerolog.Logger
}

// NewGrievanceHandler builds a grievance handler instance.
func NewGrievanceHandler(service service.GrievanceService, logger zerolog.Logger) *GrievanceHandler {
	return &GrievanceHandler{
		service: service,
		logger:  logger.With().Str("component", "grievance_handler").Logger(),
	}
}

// RegisterStudent attaches the student filing routes.
func (h *GrievanceHandler) RegisterStudent(router fiber.Router) {
	router.Get("", h.listMine)
	router.Post("", h.create)
}

// RegisterTeacher attaches the instructor review routes.
func (h *GrievanceHandler) RegisterTeacher(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id", h.transition)
}

func (h *GrievanceHandler) create(c *fiber.Ctx) error {
	var payload dto.GrievanceCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grievance, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "grievance filed", grievance)
}

func (h *GrievanceHandler) listMine(c *fiber.Ctx) error {
	grievances, err := h.service.ListMine(c.Context(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grievances retrieved", grievances)
}

func (h *GrievanceHandler) list(c *fiber.Ctx) error {
	grievances, err := h.service.List(c.Context(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grievances retrieved", grievances)
}

func (h *GrievanceHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	grievance, err := h.service.Get(c.Context(), actorFromContext(c), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grievance retrieved", grievance)
}

func (h *GrievanceHandler) transition(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GrievanceActionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	grievance, err := h.service.Transition(c.Context(), actorFromContext(c), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grievance updated", grievance)
}

func (h *GrievanceHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "you do not own this grievance's exam")
	case errors.Is(err, service.ErrGrievanceNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "grievance not found")
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student profile not found")
	case errors.Is(err, service.ErrInstructorNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "instructor profile not found")
	case errors.Is(err, service.ErrDuplicateGrievance):
		return utils.SendError(c, fiber.StatusConflict, "a grievance already exists for this submission")
	case errors.Is(err, service.ErrGrievanceClosed):
		return utils.SendError(c, fiber.StatusBadRequest, "grievance is already closed")
	case errors.Is(err, service.ErrResponseRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "instructor response is required for this action")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
