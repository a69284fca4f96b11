package http

import (
	"log/slog"
	"net/http"
	"strings"

	"kamaru/internal/domain/models"
	"kamaru/internal/transport/http/dto"
	"kamaru/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

// ListBanners godoc
// @Summary List banners
// @Tags sys_images
// @Produce json
// @Success 200 {object} response.Response{data=[]models.SystemImage}
// @Router /api/sys_images/banners [get]
func (r *Routers) ListBanners(c echo.Context) error {
	const op = "http.routers.ListBanners"

	log := r.log.With(slog.String("op", op))

	banners, err := r.SystemImage.ListBanners(c.Request().Context())
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(banners))
}

// GetSection godoc
// @Summary Get the image of a section
// @Description Returns a list for the banners section and a single image for any other section.
// @Tags sys_images
// @Produce json
// @Param section path string true "Section name"
// @Success 200 {object} response.Response{data=models.SystemImage}
// @Failure 404 {object} response.ErrorResponse "Section has no image"
// @Router /api/sys_images/{section} [get]
func (r *Routers) GetSection(c echo.Context) error {
	const op = "http.routers.GetSection"

	log := r.log.With(slog.String("op", op))

	section := c.Param("section")
	if strings.EqualFold(strings.TrimSpace(section), models.BannersSection) {
		return r.ListBanners(c)
	}

	img, err := r.SystemImage.GetSection(c.Request().Context(), section)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(img))
}

// UploadSystemImage godoc
// @Summary Upload a section image
// @Description Replaces the image of the section. The banners section adds a new banner instead.
// @Tags sys_images
// @Accept multipart/form-data
// @Produce json
// @Param section formData string true "Section name"
// @Param image formData file true "Image"
// @Success 201 {object} response.Response{data=models.SystemImage}
// @Failure 400 {object} response.ErrorResponse "Missing section or image"
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 502 {object} response.ErrorResponse "Image storage failed"
// @Security BearerAuth
// @Router /api/sys_images/upload [post]
func (r *Routers) UploadSystemImage(c echo.Context) error {
	const op = "http.routers.UploadSystemImage"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	var req dto.SystemImageUploadInput
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

	img, err := r.SystemImage.UploadImage(c.Request().Context(), req, image)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(img))
}

// UploadBanner godoc
// @Summary Add a banner
// @Tags sys_images
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image"
// @Success 201 {object} response.Response{data=models.SystemImage}
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Security BearerAuth
// @Router /api/sys_images/banners/upload [post]
func (r *Routers) UploadBanner(c echo.Context) error {
	const op = "http.routers.UploadBanner"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	image, err := formImage(c)
	if err != nil {
		return r.fail(c, log, err)
	}
	if image != nil {
		defer image.Close()
	}

	img, err := r.SystemImage.UploadBanner(c.Request().Context(), image)
	if err != nil {
		return r.fail(c, log, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(img))
}

// DeleteSystemImage godoc
// @Summary Delete a system image
// @Tags sys_images
// @Param id path string true "Image ID" format(uuid)
// @Success 204
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "Image not found"
// @Security BearerAuth
// @Router /api/sys_images/{id} [delete]
func (r *Routers) DeleteSystemImage(c echo.Context) error {
	const op = "http.routers.DeleteSystemImage"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.SystemImage.DeleteImage(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// DeleteBanner godoc
// @Summary Delete a banner
// @Tags sys_images
// @Param id path string true "Banner ID" format(uuid)
// @Success 204
// @Failure 403 {object} response.ErrorResponse "Admin required"
// @Failure 404 {object} response.ErrorResponse "Banner not found"
// @Security BearerAuth
// @Router /api/sys_images/banners/{id} [delete]
func (r *Routers) DeleteBanner(c echo.Context) error {
	const op = "http.routers.DeleteBanner"

	log := r.log.With(slog.String("op", op))

	if _, err := r.requireAdmin(c); err != nil {
		return r.fail(c, log, err)
	}

	id, err := paramID(c)
	if err != nil {
		return r.fail(c, log, err)
	}

	if err := r.SystemImage.DeleteBanner(c.Request().Context(), id); err != nil {
		return r.fail(c, log, err)
	}

	return c.NoContent(http.StatusNoContent)
}
