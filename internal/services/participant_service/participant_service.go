package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
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

type ParticipantService struct {
	log  *slog.Logger
	repo repository.ParticipantRepository
}

func NewParticipantService(log *slog.Logger, repo repository.ParticipantRepository) *ParticipantService {
	return &ParticipantService{
		log:  log,
		repo: repo,
	}
}

// Categories returns the categories a participant can register for.
func (s *ParticipantService) Categories() []models.Category {
	out := make([]models.Category, len(models.Categories))
	copy(out, models.Categories)

	return out
}

func (s *ParticipantService) RegisterParticipant(ctx context.Context, input dto.ParticipantInput) (models.Participant, error) {
	const op = "participant_service.RegisterParticipant"

	input.Name = sanitize.Text(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", input.Email),
	)

	if err := validate.Struct(input); err != nil {
		return models.Participant{}, err
	}

	category, err := parseCategory(input.Category)
	if err != nil {
		return models.Participant{}, err
	}

	participant, err := s.repo.SaveParticipant(ctx, models.Participant{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Category: category,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			log.Warn("participant already registered", sl.Err(err))

			return models.Participant{}, errs.Wrap(errs.KindConflict, err, "email or phone already registered")
		}
		log.Error("failed to save participant", sl.Err(err))

		return models.Participant{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("participant registered", slog.String("participant_id", participant.ID.String()))

	return participant, nil
}

func (s *ParticipantService) GetParticipant(ctx context.Context, participantID uuid.UUID) (models.Participant, error) {
	const op = "participant_service.GetParticipant"

	participant, err := s.repo.GetParticipantByID(ctx, participantID)
	if err != nil {
		return models.Participant{}, mapErr(op, err)
	}

	return participant, nil
}

func (s *ParticipantService) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	const op = "participant_service.ListParticipants"

	participants, err := s.repo.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return participants, nil
}

func (s *ParticipantService) UpdateParticipant(ctx context.Context, participantID uuid.UUID, input dto.ParticipantUpdateInput) (models.Participant, error) {
	const op = "participant_service.UpdateParticipant"

	log := s.log.With(
		slog.String("op", op),
		slog.String("participant_id", participantID.String()),
	)

	input.Name = sanitize.TextPtr(input.Name)
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		input.Email = &email
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		input.Phone = &phone
	}

	if err := validate.Struct(input); err != nil {
		return models.Participant{}, err
	}

	upd := models.ParticipantUpdate{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	}

	if input.Category != nil {
		category, err := parseCategory(*input.Category)
		if err != nil {
			return models.Participant{}, err
		}
		upd.Category = &category
	}

	participant, err := s.repo.UpdateParticipant(ctx, participantID, upd)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, storage.ErrAlreadyExists) {
			log.Error("failed to update participant", sl.Err(err))
		}

		return models.Participant{}, mapErr(op, err)
	}

	log.Info("participant updated")

	return participant, nil
}

func (s *ParticipantService) DeleteParticipant(ctx context.Context, participantID uuid.UUID) error {
	const op = "participant_service.DeleteParticipant"

	if err := s.repo.DeleteParticipant(ctx, participantID); err != nil {
		return mapErr(op, err)
	}

	s.log.Info("participant deleted", slog.String("op", op), slog.String("participant_id", participantID.String()))

	return nil
}

func parseCategory(value string) (models.Category, error) {
	category := models.Category(strings.TrimSpace(value))
	if !category.Valid() {
		names := make([]string, len(models.Categories))
		for i, c := range models.Categories {
			names[i] = string(c)
		}

		return "", errs.Validation("category must be one of: %s", strings.Join(names, ", "))
	}

	return category, nil
}

func mapErr(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return errs.NotFound("participant not found")
	case errors.Is(err, storage.ErrAlreadyExists):
		return errs.Wrap(errs.KindConflict, err, "email or phone already registered")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
