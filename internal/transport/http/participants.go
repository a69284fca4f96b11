package http

import (
	"log/slog"
	"net/http"

	"kamaru/internal/transport/http/dto"
	"kamaru/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// ListCategories godoc
// @Summary Participant categories
// @Tags participants
// @Produce json
// @Success 200 {object} response.Response{data=[]string}
// @Router /api/participants/categories [get]
func (r *Routers) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, response.SuccessResponse(r.Participant.Categories()))
}

// RegisterParticipant godoc
// @Summary Register a participant
// @Tags participants
// @Accept json
// @Produce json
// @Param request body dto.ParticipantInput true "Participant"
// @Success 201 {object} response.Response{data=models.Participant}
// @Failure 400 {object} response.ErrorResponse "Invalid input or category"
// @Failure 401 {object} response.ErrorResponse "Not authenticated"
// @Failure 409 {object} response.ErrorResponse "Email or phone already registered"
// @Security BearerAuth
// @Router /api/participants [post]
func (r *Routers) RegisterParticipant(c echo.Context) error {
	const op = "http.routers.RegisterParticipant"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireUser(c); err != nil {
		return r.fail(c, log, err)
	}

	return r.registerParticipant(c, log)
}

// AdminRegisterParticipant godoc
// @Summary Register a participant on behalf of someone
// @Tags participants
// @Accept json
// @Produce json
// @Param request body dto.ParticipantInput true "Participant"
// @Success 201 {object} response.Response{data=models.Participant}
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 409 {object} response.ErrorResponse "Email or phone already registered"
// @Security BearerAuth
// @Router /api/participants/admin [post]
func (r *Routers) AdminRegisterParticipant(c echo.Context) error {
	const op = "http.routers.AdminRegisterParticipant"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	return r.registerParticipant(c, log)
}

func (r *Routers) registerParticipant(c echo.Context, log *slog.Logger) error {
	var req dto.ParticipantInput
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	participant, err := r.Participant.RegisterParticipant(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(participant))
}

// ListParticipants godoc
// @Summary List participants
// @Tags participants
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Participant}
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Security BearerAuth
// @Router /api/participants [get]
func (r *Routers) ListParticipants(c echo.Context) error {
	const op = "http.routers.ListParticipants"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	participants, err := r.Participant.ListParticipants(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(participants))
}

// GetParticipant godoc
// @Summary Get a participant
// @Tags participants
// @Produce json
// @Param id path string true "Participant ID" format(uuid)
// @Success 200 {object} response.Response{data=models.Participant}
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "Participant not found"
// @Security BearerAuth
// @Router /api/participants/{id} [get]
func (r *Routers) GetParticipant(c echo.Context) error {
	const op = "http.routers.GetParticipant"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	participant, err := r.Participant.GetParticipant(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(participant))
}

// UpdateParticipant godoc
// @Summary Update a participant
// @Tags participants
// @Accept json
// @Produce json
// @Param id path string true "Participant ID" format(uuid)
// @Param request body dto.ParticipantUpdateInput true "Fields to change"
// @Success 200 {object} response.Response{data=models.Participant}
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "Participant not found"
// @Failure 409 {object} response.ErrorResponse "Email or phone already registered"
// @Security BearerAuth
// @Router /api/participants/{id} [put]
func (r *Routers) UpdateParticipant(c echo.Context) error {
	const op = "http.routers.UpdateParticipant"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	var req dto.ParticipantUpdateInput
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	participant, err := r.Participant.UpdateParticipant(c.Request().Context(), id, req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(participant))
}

// DeleteParticipant godoc
// @Summary Delete a participant
// @Tags participants
// @Param id path string true "Participant ID" format(uuid)
// @Success 204
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "Participant not found"
// @Security BearerAuth
// @Router /api/participants/{id} [delete]
func (r *Routers) DeleteParticipant(c echo.Context) error {
	const op = "http.routers.DeleteParticipant"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.Participant.DeleteParticipant(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
