package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/sl"
	"kamaru/internal/lib/validate"
	"kamaru/internal/repository"
	"kamaru/internal/storage"
	"kamaru/internal/transport/http/dto"

	"github.com/google/uuid"
)

type MediaStore interface {
	Upload(ctx context.Context, src io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
	Discard(ctx context.Context, url string)
}

// SystemImageService manages the images bound to named sections of the site.
// Every section holds one image except banners, which holds any number.
type SystemImageService struct {
	log   *slog.Logger
	repo  repository.SystemImageRepository
	media MediaStore
}

func NewSystemImageService(log *slog.Logger, repo repository.SystemImageRepository, media MediaStore) *SystemImageService {
	return &SystemImageService{
		log:   log,
		repo:  repo,
		media: media,
	}
}

// IsBanners reports whether section names the banners section.
func IsBanners(section string) bool {
	return normalizeSection(section) == models.BannersSection
}

// UploadImage replaces the image of a section, or adds a banner.
func (s *SystemImageService) UploadImage(ctx context.Context, input dto.SystemImageUploadInput, image io.Reader) (models.SystemImage, error) {
	const op = "sysimage_service.UploadImage"

	input.Section = normalizeSection(input.Section)

	if err := validate.Struct(input); err != nil {
		return models.SystemImage{}, err
	}

	if input.Section == models.BannersSection {
		return s.UploadBanner(ctx, image)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("section", input.Section),
	)

	url, err := s.media.Upload(ctx, image)
	if err != nil {
		return models.SystemImage{}, err
	}

	img, prevURL, err := s.repo.UpsertSection(ctx, input.Section, url)
	if err != nil {
		log.Error("failed to save section image", sl.Err(err))
		s.media.Discard(ctx, url)

		return models.SystemImage{}, fmt.Errorf("%s: %w", op, err)
	}

	if prevURL != "" && prevURL != url {
		s.media.Discard(ctx, prevURL)
	}

	log.Info("section image stored", slog.String("id", img.ID.String()))

	return img, nil
}

func (s *SystemImageService) UploadBanner(ctx context.Context, image io.Reader) (models.SystemImage, error) {
	const op = "sysimage_service.UploadBanner"

	log := s.log.With(slog.String("op", op))

	url, err := s.media.Upload(ctx, image)
	if err != nil {
		return models.SystemImage{}, err
	}

	img, err := s.repo.SaveBanner(ctx, url)
	if err != nil {
		log.Error("failed to save banner", sl.Err(err))
		s.media.Discard(ctx, url)

		return models.SystemImage{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("banner added", slog.String("id", img.ID.String()))

	return img, nil
}

// GetSection returns the image of a single image section.
func (s *SystemImageService) GetSection(ctx context.Context, section string) (models.SystemImage, error) {
	const op = "sysimage_service.GetSection"

	img, err := s.repo.GetSection(ctx, normalizeSection(section))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.SystemImage{}, errs.NotFound("no image for section %q", section)
		}
		return models.SystemImage{}, fmt.Errorf("%s: %w", op, err)
	}

	return img, nil
}

func (s *SystemImageService) ListBanners(ctx context.Context) ([]models.SystemImage, error) {
	const op = "sysimage_service.ListBanners"

	images, err := s.repo.ListSection(ctx, models.BannersSection)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return images, nil
}

// DeleteImage removes a system image of any section.
func (s *SystemImageService) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	return s.delete(ctx, "sysimage_service.DeleteImage", imageID, "")
}

// DeleteBanner removes imageID only if it is a banner.
func (s *SystemImageService) DeleteBanner(ctx context.Context, imageID uuid.UUID) error {
	return s.delete(ctx, "sysimage_service.DeleteBanner", imageID, models.BannersSection)
}

func (s *SystemImageService) delete(ctx context.Context, op string, imageID uuid.UUID, section string) error {
	log := s.log.With(
		slog.String("op", op),
		slog.String("image_id", imageID.String()),
	)

	err := s.repo.DeleteSystemImage(ctx, imageID, section, s.media.Delete)
	switch {
	case err == nil:
		log.Info("system image deleted")

		return nil
	case errors.Is(err, storage.ErrNotFound):
		return errs.NotFound("image not found")
	case errs.Is(err, errs.KindMedia):
		log.Error("image kept, asset could not be deleted", sl.Err(err))

		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func normalizeSection(section string) string {
	return strings.ToLower(strings.TrimSpace(section))
}
