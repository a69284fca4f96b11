package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

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

var youtubeHosts = map[string]struct{}{
	"youtube.com":       {},
	"www.youtube.com":   {},
	"m.youtube.com":     {},
	"music.youtube.com": {},
	"youtu.be":          {},
}

type VideoService struct {
	log  *slog.Logger
	repo repository.VideoRepository
}

func NewVideoService(log *slog.Logger, repo repository.VideoRepository) *VideoService {
	return &VideoService{
		log:  log,
		repo: repo,
	}
}

func (s *VideoService) AddVideo(ctx context.Context, input dto.VideoInput) (models.Video, error) {
	const op = "video_service.AddVideo"

	input.Title = sanitize.Text(input.Title)
	input.YoutubeURL = strings.TrimSpace(input.YoutubeURL)

	log := s.log.With(
		slog.String("op", op),
		slog.String("youtube_url", input.YoutubeURL),
	)

	if err := validate.Struct(input); err != nil {
		return models.Video{}, err
	}

	if !IsYoutubeURL(input.YoutubeURL) {
		return models.Video{}, errs.Validation("youtube_url must be a YouTube link")
	}

	video, err := s.repo.SaveVideo(ctx, models.Video{
		Title:      input.Title,
		YoutubeURL: input.YoutubeURL,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Video{}, errs.Wrap(errs.KindConflict, err, "video already added")
		}
		log.Error("failed to save video", sl.Err(err))

		return models.Video{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("video added", slog.String("video_id", video.ID.String()))

	return video, nil
}

func (s *VideoService) GetVideo(ctx context.Context, videoID uuid.UUID) (models.Video, error) {
	const op = "video_service.GetVideo"

	video, err := s.repo.GetVideoByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Video{}, errs.NotFound("video not found")
		}
		return models.Video{}, fmt.Errorf("%s: %w", op, err)
	}

	return video, nil
}

func (s *VideoService) ListVideos(ctx context.Context) ([]models.Video, error) {
	const op = "video_service.ListVideos"

	videos, err := s.repo.ListVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return videos, nil
}

func (s *VideoService) DeleteVideo(ctx context.Context, videoID uuid.UUID) error {
	const op = "video_service.DeleteVideo"

	if err := s.repo.DeleteVideo(ctx, videoID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.NotFound("video not found")
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("video deleted", slog.String("op", op), slog.String("video_id", videoID.String()))

	return nil
}

// IsYoutubeURL reports whether raw is an http(s) link to youtube.com or youtu.be.
func IsYoutubeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	_, ok := youtubeHosts[strings.ToLower(u.Hostname())]
	return ok
}
