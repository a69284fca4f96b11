package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"kamaru/internal/domain/errs"
	"kamaru/internal/lib/logger/sl"
	"kamaru/internal/metrics"
	"kamaru/internal/storage"
	filestorage "kamaru/internal/storage/filestorage"
)

// MediaService validates uploaded images and talks to the configured file storage.
type MediaService struct {
	log         *slog.Logger
	fileStorage filestorage.FileStorage
	maxSize     int64
	timeout     time.Duration
}

func NewMediaService(log *slog.Logger, fileStorage filestorage.FileStorage, maxSize int64, timeout time.Duration) *MediaService {
	return &MediaService{
		log:         log,
		fileStorage: fileStorage,
		maxSize:     maxSize,
		timeout:     timeout,
	}
}

// Upload stores an image and returns its public URL.
func (s *MediaService) Upload(ctx context.Context, src io.Reader) (string, error) {
	const op = "media_service.Upload"

	log := s.log.With(slog.String("op", op))

	if src == nil {
		return "", errs.Validation("image is required")
	}

	img, err := filestorage.ReadImage(src, s.maxSize)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			return "", errs.Validation("image exceeds the %d byte limit", s.maxSize)
		case errors.Is(err, storage.ErrInvalidFileType):
			return "", errs.Validation("only jpeg, png, gif and webp images are accepted")
		default:
			return "", errs.Wrap(errs.KindValidation, err, "could not read image")
		}
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	url, err := s.fileStorage.Upload(ctx, bytes.NewReader(img.Data), img.Filename())
	metrics.MediaOperationsTotal.WithLabelValues("upload", metrics.Result(err)).Inc()

	if err != nil {
		log.Error("failed to store image", sl.Err(err))

		return "", errs.Wrap(errs.KindMedia, fmt.Errorf("%s: %w", op, err), "failed to store image")
	}

	log.Debug("image stored", slog.String("url", url), slog.String("content_type", img.ContentType))

	return url, nil
}

// Delete removes the asset at url. An asset that is already gone counts as deleted.
func (s *MediaService) Delete(ctx context.Context, url string) error {
	const op = "media_service.Delete"

	log := s.log.With(slog.String("op", op), slog.String("url", url))

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.fileStorage.Delete(ctx, url)
	metrics.MediaOperationsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()

	if errors.Is(err, storage.ErrFileNotFound) {
		log.Warn("asset already missing")

		return nil
	}

	if err != nil {
		log.Error("failed to delete asset", sl.Err(err))

		return errs.Wrap(errs.KindMedia, fmt.Errorf("%s: %w", op, err), "failed to delete image")
	}

	return nil
}

// Discard deletes url without failing the caller. It outlives request cancellation.
func (s *MediaService) Discard(ctx context.Context, url string) {
	if url == "" {
		return
	}

	if err := s.Delete(context.WithoutCancel(ctx), url); err != nil {
		s.log.Warn("orphaned asset left in storage", slog.String("url", url), sl.Err(err))
	}
}

func (s *MediaService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, s.timeout)
}
