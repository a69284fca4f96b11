package http

import (
	"log/slog"
	"net/http"

	"kamaru/internal/transport/http/dto"
	"kamaru/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// Subscribe godoc
// @Summary Subscribe to the newsletter
// @Tags newsletter
// @Accept json
// @Produce json
// @Param request body dto.SubscribeInput true "Email"
// @Success 201 {object} response.Response{data=models.Subscriber}
// @Failure 400 {object} response.ErrorResponse "Invalid email"
// @Failure 409 {object} response.ErrorResponse "Already subscribed"
// @Router /api/newsletter/subscribe [post]
func (r *Routers) Subscribe(c echo.Context) error {
	const op = "http.routers.Subscribe"

	log := r.log.With(slog.String("op", op))

	var req dto.SubscribeInput
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	sub, err := r.Newsletter.Subscribe(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(sub))
}

// Contact godoc
// @Summary Send a contact message
// @Tags newsletter
// @Accept json
// @Produce json
// @Param request body dto.ContactInput true "Message"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Invalid input"
// @Failure 502 {object} response.ErrorResponse "Email could not be delivered"
// @Router /api/contact [post]
func (r *Routers) Contact(c echo.Context) error {
	const op = "http.routers.Contact"

	log := r.log.With(slog.String("op", op))

	var req dto.ContactInput
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	if err := r.Newsletter.Contact(c.Request().Context(), req); err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.MessageResponse("message sent"))
}

// GetStats godoc
// @Summary Site totals
// @Tags stats
// @Produce json
// @Success 200 {object} response.Response{data=models.Stats}
// @Router /api/stats [get]
func (r *Routers) GetStats(c echo.Context) error {
	const op = "http.routers.GetStats"

	log := r.log.With(slog.String("op", op))

	stats, err := r.Stats.Stats(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(stats))
}
