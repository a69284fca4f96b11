package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/sl"
	"kamaru/internal/lib/sanitize"
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

type GalleryService struct {
	log   *slog.Logger
	repo  repository.GalleryRepository
	media MediaStore
}

func NewGalleryService(log *slog.Logger, repo repository.GalleryRepository, media MediaStore) *GalleryService {
	return &GalleryService{
		log:   log,
		repo:  repo,
		media: media,
	}
}

// UploadImage stores a gallery image, untitled uploads get the default title.
func (s *GalleryService) UploadImage(ctx context.Context, input dto.GalleryUploadInput, image io.Reader) (models.GalleryImage, error) {
	const op = "gallery_service.UploadImage"

	input.Title = sanitize.Text(input.Title)
	if input.Title == "" {
		input.Title = models.DefaultGalleryTitle
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", input.Title),
	)

	if err := validate.Struct(input); err != nil {
		return models.GalleryImage{}, err
	}

	url, err := s.media.Upload(ctx, image)
	if err != nil {
		return models.GalleryImage{}, err
	}

	img, err := s.repo.SaveImage(ctx, models.GalleryImage{
		Title:    input.Title,
		ImageURL: url,
	})
	if err != nil {
		log.Error("failed to save gallery image", sl.Err(err))
		s.media.Discard(ctx, url)

		return models.GalleryImage{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("gallery image uploaded", slog.String("id", img.ID.String()))

	return img, nil
}

func (s *GalleryService) GetImage(ctx context.Context, imageID uuid.UUID) (models.GalleryImage, error) {
	const op = "gallery_service.GetImage"

	img, err := s.repo.GetImageByID(ctx, imageID)
	if err != nil {
		return models.GalleryImage{}, mapErr(op, err)
	}

	return img, nil
}

func (s *GalleryService) ListImages(ctx context.Context) ([]models.GalleryImage, error) {
	const op = "gallery_service.ListImages"

	images, err := s.repo.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return images, nil
}

func (s *GalleryService) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	const op = "gallery_service.DeleteImage"

	log := s.log.With(
		slog.String("op", op),
		slog.String("image_id", imageID.String()),
	)

	if err := s.repo.DeleteImage(ctx, imageID, s.media.Delete); err != nil {
		if errs.Is(err, errs.KindMedia) {
			log.Error("image kept, asset could not be deleted", sl.Err(err))
		}

		return mapErr(op, err)
	}

	log.Info("gallery image deleted")

	return nil
}

func mapErr(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return errs.NotFound("image not found")
	case errs.KindOf(err) != errs.KindInternal:
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
