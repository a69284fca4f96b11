package http

import (
	"log/slog"
	"net/http"

	"kamaru/internal/transport/http/dto"
	"kamaru/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// ListEvents godoc
// @Summary List events
// @Description Newest first.
// @Tags events
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Event}
// @Router /api/events [get]
func (r *Routers) ListEvents(c echo.Context) error {
	const op = "http.routers.ListEvents"

	log := r.log.With(slog.String("op", op))

	events, err := r.Event.ListEvents(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(events))
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID" format(uuid)
// @Success 200 {object} response.Response{data=models.Event}
// @Failure 404 {object} response.ErrorResponse "Event not found"
// @Router /api/events/{id} [get]
func (r *Routers) GetEvent(c echo.Context) error {
	const op = "http.routers.GetEvent"

	log := r.log.With(slog.String("op", op))

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	event, err := r.Event.GetEvent(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(event))
}

// CreateEvent godoc
// @Summary Create an event
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param theme formData string true "Theme"
// @Param details formData string true "Details, basic HTML allowed"
// @Param date_time formData string true "Start, YYYY-MM-DDTHH:MM"
// @Param location formData string true "Location"
// @Param image formData file true "Poster image"
// @Success 201 {object} response.Response{data=models.Event}
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 502 {object} response.ErrorResponse "Image storage failed"
// @Security BearerAuth
// @Router /api/events/admin [post]
func (r *Routers) CreateEvent(c echo.Context) error {
	const op = "http.routers.CreateEvent"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	var req dto.EventInput
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	image, err := formImage(c)
	if err != nil {
		return r.fail(c, log, err)
	}
	if image != nil {
		defer image.Close()
	}

	event, err := r.Event.CreateEvent(c.Request().Context(), req, image)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(event))
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partial update. A new image replaces the previous one.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Event ID" format(uuid)
// @Param title formData string false "Title"
// @Param theme formData string false "Theme"
// @Param details formData string false "Details"
// @Param date_time formData string false "Start, YYYY-MM-DDTHH:MM"
// @Param location formData string false "Location"
// @Param image formData file false "Poster image"
// @Success 200 {object} response.Response{data=models.Event}
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "Event not found"
// @Security BearerAuth
// @Router /api/events/admin/{id} [put]
func (r *Routers) UpdateEvent(c echo.Context) error {
	const op = "http.routers.UpdateEvent"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	req := dto.EventUpdateInput{
		Title:    optionalForm(c, "title"),
		Theme:    optionalForm(c, "theme"),
		Details:  optionalForm(c, "details"),
		DateTime: optionalForm(c, "date_time"),
		Location: optionalForm(c, "location"),
	}

	image, err := formImage(c)
	if err != nil {
		return r.fail(c, log, err)
	}
	if image != nil {
		defer image.Close()
	}

	event, err := r.Event.UpdateEvent(c.Request().Context(), id, req, image)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(event))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and its image.
// @Tags events
// @Param id path string true "Event ID" format(uuid)
// @Success 204
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "Event not found"
// @Failure 502 {object} response.ErrorResponse "Image could not be deleted, event kept"
// @Security BearerAuth
// @Router /api/events/admin/{id} [delete]
func (r *Routers) DeleteEvent(c echo.Context) error {
	const op = "http.routers.DeleteEvent"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.Event.DeleteEvent(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
