package services_test

import (
	"context"
	"errors"
	"testing"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/handlers/slogdiscard"
	services "kamaru/internal/services/newsletter_service"
	"kamaru/internal/storage"
	"kamaru/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNewsletterRepository struct {
	mock.Mock
}

func (m *MockNewsletterRepository) SaveSubscriber(ctx context.Context, email string) (models.Subscriber, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.Subscriber), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendContact(ctx context.Context, msg models.ContactMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

var ctx = context.Background()

func newService() (*services.NewsletterService, *MockNewsletterRepository, *MockNotifier) {
	repo := new(MockNewsletterRepository)
	notifier := new(MockNotifier)

	return services.NewNewsletterService(slogdiscard.NewDiscardLogger(), repo, notifier), repo, notifier
}

func TestSubscribe(t *testing.T) {
	service, repo, _ := newService()

	repo.On("SaveSubscriber", ctx, "fan@example.com").Return(models.Subscriber{ID: uuid.New(), Email: "fan@example.com"}, nil).Once()
	repo.On("SaveSubscriber", ctx, "fan@example.com").
		Return(models.Subscriber{}, &storage.ConstraintError{Constraint: "newsletter_subscribers_email_key"}).Once()

	sub, err := service.Subscribe(ctx, dto.SubscribeInput{Email: " Fan@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, "fan@example.com", sub.Email)

	_, err = service.Subscribe(ctx, dto.SubscribeInput{Email: "FAN@example.com"})
	assert.True(t, errs.Is(err, errs.KindConflict))

	_, err = service.Subscribe(ctx, dto.SubscribeInput{Email: "nope"})
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestContact(t *testing.T) {
	t.Run("forwarded", func(t *testing.T) {
		service, _, notifier := newService()

		msg := models.ContactMessage{Name: "Wanjiru", Email: "w@example.com", Message: "Hello"}
		notifier.On("SendContact", ctx, msg).Return(nil)

		require.NoError(t, service.Contact(ctx, dto.ContactInput{Name: "Wanjiru ", Email: "w@example.com", Message: " Hello"}))
		notifier.AssertExpectations(t)
	})

	t.Run("delivery failure", func(t *testing.T) {
		service, _, notifier := newService()

		notifier.On("SendContact", ctx, mock.Anything).Return(errs.Wrap(errs.KindDelivery, errors.New("503"), "failed to deliver email"))

		err := service.Contact(ctx, dto.ContactInput{Name: "A", Email: "a@example.com", Message: "Hi"})
		assert.True(t, errs.Is(err, errs.KindDelivery))
	})

	t.Run("missing message", func(t *testing.T) {
		service, _, notifier := newService()

		err := service.Contact(ctx, dto.ContactInput{Name: "A", Email: "a@example.com"})
		assert.True(t, errs.Is(err, errs.KindValidation))
		notifier.AssertNotCalled(t, "SendContact", mock.Anything, mock.Anything)
	})
}
