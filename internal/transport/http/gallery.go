package http

import (
	"log/slog"
	"net/http"

	"kamaru/internal/transport/http/dto"
	"kamaru/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// ListGallery godoc
// @Summary List gallery images
// @Tags gallery
// @Produce json
// @Success 200 {object} response.Response{data=[]models.GalleryImage}
// @Router /api/gallery [get]
func (r *Routers) ListGallery(c echo.Context) error {
	const op = "http.routers.ListGallery"

	log := r.log.With(slog.String("op", op))

	images, err := r.Gallery.ListImages(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(images))
}

// GetGalleryImage godoc
// @Summary Get a gallery image
// @Tags gallery
// @Produce json
// @Param id path string true "Image ID" format(uuid)
// @Success 200 {object} response.Response{data=models.GalleryImage}
// @Failure 404 {object} response.ErrorResponse "Image not found"
// @Router /api/gallery/{id} [get]
func (r *Routers) GetGalleryImage(c echo.Context) error {
	const op = "http.routers.GetGalleryImage"

	log := r.log.With(slog.String("op", op))

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	img, err := r.Gallery.GetImage(c.Request().Context(), id)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(img))
}

// UploadGalleryImage godoc
// @Summary Upload a gallery image
// @Tags gallery
// @Accept multipart/form-data
// @Produce json
// @Param title formData string false "Title, defaults to Untitled"
// @Param image formData file true "Image"
// @Success 201 {object} response.Response{data=models.GalleryImage}
// @Failure 400 {object} response.ErrorResponse "Missing or invalid image"
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 502 {object} response.ErrorResponse "Image storage failed"
// @Security BearerAuth
// @Router /api/gallery/upload [post]
func (r *Routers) UploadGalleryImage(c echo.Context) error {
	const op = "http.routers.UploadGalleryImage"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	var req dto.GalleryUploadInput
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

	img, err := r.Gallery.UploadImage(c.Request().Context(), req, image)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(img))
}

// DeleteGalleryImage godoc
// @Summary Delete a gallery image
// @Tags gallery
// @Param id path string true "Image ID" format(uuid)
// @Success 204
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "Image not found"
// @Security BearerAuth
// @Router /api/gallery/{id} [delete]
func (r *Routers) DeleteGalleryImage(c echo.Context) error {
	const op = "http.routers.DeleteGalleryImage"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.Gallery.DeleteImage(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
