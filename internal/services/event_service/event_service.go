package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

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

type EventService struct {
	log   *slog.Logger
	repo  repository.EventRepository
	media MediaStore
}

func NewEventService(log *slog.Logger, repo repository.EventRepository, media MediaStore) *EventService {
	return &EventService{
		log:   log,
		repo:  repo,
		media: media,
	}
}

// CreateEvent stores the image first and removes it again if the row cannot be written.
func (s *EventService) CreateEvent(ctx context.Context, input dto.EventInput, image io.Reader) (models.Event, error) {
	const op = "event_service.CreateEvent"

	input.Title = sanitize.Text(input.Title)
	input.Theme = sanitize.Text(input.Theme)
	input.Location = sanitize.Text(input.Location)
	input.Details = sanitize.HTML(input.Details)

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", input.Title),
	)

	if err := validate.Struct(input); err != nil {
		return models.Event{}, err
	}

	dateTime, err := parseDateTime(input.DateTime)
	if err != nil {
		return models.Event{}, err
	}

	if image == nil {
		return models.Event{}, errs.Validation("image is required")
	}

	url, err := s.media.Upload(ctx, image)
	if err != nil {
		return models.Event{}, err
	}

	event, err := s.repo.SaveEvent(ctx, models.Event{
		Title:    input.Title,
		Theme:    input.Theme,
		Details:  input.Details,
		DateTime: dateTime,
		Location: input.Location,
		ImageURL: url,
	})
	if err != nil {
		log.Error("failed to save event", sl.Err(err))
		s.media.Discard(ctx, url)

		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("event created", slog.String("event_id", event.ID.String()))

	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID uuid.UUID) (models.Event, error) {
	const op = "event_service.GetEvent"

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return models.Event{}, mapErr(op, err)
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	const op = "event_service.ListEvents"

	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return events, nil
}

// UpdateEvent applies a partial update. A new image replaces the old one,
// which is removed only after the row is committed.
func (s *EventService) UpdateEvent(ctx context.Context, eventID uuid.UUID, input dto.EventUpdateInput, image io.Reader) (models.Event, error) {
	const op = "event_service.UpdateEvent"

	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", eventID.String()),
	)

	input.Title = sanitize.TextPtr(input.Title)
	input.Theme = sanitize.TextPtr(input.Theme)
	input.Location = sanitize.TextPtr(input.Location)
	input.Details = sanitize.HTMLPtr(input.Details)

	if err := validate.Struct(input); err != nil {
		return models.Event{}, err
	}

	upd := models.EventUpdate{
		Title:    input.Title,
		Theme:    input.Theme,
		Details:  input.Details,
		Location: input.Location,
	}

	if input.DateTime != nil {
		dateTime, err := parseDateTime(*input.DateTime)
		if err != nil {
			return models.Event{}, err
		}
		upd.DateTime = &dateTime
	}

	var newURL string
	if image != nil {
		url, err := s.media.Upload(ctx, image)
		if err != nil {
			return models.Event{}, err
		}
		newURL = url
		upd.ImageURL = &newURL
	}

	event, prevURL, err := s.repo.UpdateEvent(ctx, eventID, upd)
	if err != nil {
		s.media.Discard(ctx, newURL)

		if !errors.Is(err, storage.ErrNotFound) {
			log.Error("failed to update event", sl.Err(err))
		}

		return models.Event{}, mapErr(op, err)
	}

	if newURL != "" && prevURL != "" && prevURL != newURL {
		s.media.Discard(ctx, prevURL)
	}

	log.Info("event updated")

	return event, nil
}

// DeleteEvent removes the row and its image together.
func (s *EventService) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	const op = "event_service.DeleteEvent"

	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", eventID.String()),
	)

	if err := s.repo.DeleteEvent(ctx, eventID, s.media.Delete); err != nil {
		if errs.Is(err, errs.KindMedia) {
			log.Error("event kept, image could not be deleted", sl.Err(err))
		}

		return mapErr(op, err)
	}

	log.Info("event deleted")

	return nil
}

func parseDateTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(models.EventDateTimeLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, errs.Wrap(errs.KindValidation, err, "date_time must be in YYYY-MM-DDTHH:MM format")
	}

	return t, nil
}

func mapErr(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return errs.NotFound("event not found")
	case errs.KindOf(err) != errs.KindInternal:
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
