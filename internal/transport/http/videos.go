package http

import (
	"log/slog"
	"net/http"

	"kamaru/internal/transport/http/dto"
	"kamaru/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// AddVideo godoc
// @Summary Add a YouTube video
// @Tags videos
// @Accept json
// @Produce json
// @Param request body dto.VideoInput true "Video"
// @Success 201 {object} response.Response{data=models.Video}
// @Failure 400 {object} response.ErrorResponse "Not a YouTube URL"
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 409 {object} response.ErrorResponse "Video already added"
// @Security BearerAuth
// @Router /api/videos/add [post]
func (r *Routers) AddVideo(c echo.Context) error {
	const op = "http.routers.AddVideo"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	var req dto.VideoInput
	if err := bind(c, &req); err != nil {
		return r.fail(c, log, err)
	}

	video, err := r.Video.AddVideo(c.Request().Context(), req)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(video))
}

// ListVideos godoc
// @Summary List videos
// @Tags videos
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Video}
// @Router /api/videos [get]
func (r *Routers) ListVideos(c echo.Context) error {
	const op = "http.routers.ListVideos"

	log := r.log.With(slog.String("op", op))

	videos, err := r.Video.ListVideos(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(videos))
}

// GetVideo godoc
// @Summary Get a video
// @Tags videos
// @Produce json
// @Param id path string true "Video ID" format(uuid)
// @Success 200 {object} response.Response{data=models.Video}
// @Failure 404 {object} response.ErrorResponse "Video not found"
// @Router /api/videos/{id} [get]
func (r *Routers) GetVideo(c echo.Context) error {
	const op = "http.routers.GetVideo"

	log := r.log.With(slog.String("op", op))

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	video, err := r.Video.GetVideo(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(video))
}

// DeleteVideo godoc
// @Summary Delete a video
// @Tags videos
// @Param id path string true "Video ID" format(uuid)
// @Success 204
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "Video not found"
// @Security BearerAuth
// @Router /api/videos/delete/{id} [delete]
func (r *Routers) DeleteVideo(c echo.Context) error {
	const op = "http.routers.DeleteVideo"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.Video.DeleteVideo(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
