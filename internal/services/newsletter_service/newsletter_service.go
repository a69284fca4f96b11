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
	"kamaru/internal/lib/validate"
	"kamaru/internal/repository"
	"kamaru/internal/storage"
	"kamaru/internal/transport/http/dto"
)

type ContactNotifier interface {
	SendContact(ctx context.Context, msg models.ContactMessage) error
}

type NewsletterService struct {
	log      *slog.Logger
	repo     repository.NewsletterRepository
	notifier ContactNotifier
}

func NewNewsletterService(log *slog.Logger, repo repository.NewsletterRepository, notifier ContactNotifier) *NewsletterService {
	return &NewsletterService{
		log:      log,
		repo:     repo,
		notifier: notifier,
	}
}

func (s *NewsletterService) Subscribe(ctx context.Context, input dto.SubscribeInput) (models.Subscriber, error) {
	const op = "newsletter_service.Subscribe"

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	log := s.log.With(slog.String("op", op))

	if err := validate.Struct(input); err != nil {
		return models.Subscriber{}, err
	}

	sub, err := s.repo.SaveSubscriber(ctx, input.Email)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return models.Subscriber{}, errs.Wrap(errs.KindConflict, err, "email already subscribed")
		}
		log.Error("failed to save subscriber", sl.Err(err))

		return models.Subscriber{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("newsletter subscription", slog.String("subscriber_id", sub.ID.String()))

	return sub, nil
}

// Contact forwards a contact form message to the site operators.
func (s *NewsletterService) Contact(ctx context.Context, input dto.ContactInput) error {
	const op = "newsletter_service.Contact"

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Message = strings.TrimSpace(input.Message)

	if err := validate.Struct(input); err != nil {
		return err
	}

	err := s.notifier.SendContact(ctx, models.ContactMessage{
		Name:    input.Name,
		Email:   input.Email,
		Message: input.Message,
	})
	if err != nil {
		s.log.Error("failed to forward contact message", slog.String("op", op), sl.Err(err))

		return err
	}

	return nil
}
