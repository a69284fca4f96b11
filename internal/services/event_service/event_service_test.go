package services_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/handlers/slogdiscard"
	"kamaru/internal/repository"
	services "kamaru/internal/services/event_service"
	"kamaru/internal/storage"
	"kamaru/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) SaveEvent(ctx context.Context, event models.Event) (models.Event, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(models.Event), args.Error(1)
}

func (m *MockEventRepository) GetEventByID(ctx context.Context, eventID uuid.UUID) (models.Event, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(models.Event), args.Error(1)
}

func (m *MockEventRepository) ListEvents(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockEventRepository) UpdateEvent(ctx context.Context, eventID uuid.UUID, upd models.EventUpdate) (models.Event, string, error) {
	args := m.Called(ctx, eventID, upd)
	return args.Get(0).(models.Event), args.String(1), args.Error(2)
}

func (m *MockEventRepository) DeleteEvent(ctx context.Context, eventID uuid.UUID, hook repository.AssetHook) error {
	args := m.Called(ctx, eventID, hook)
	if run, ok := args.Get(1).(bool); ok && run && hook != nil {
		if err := hook(ctx, "https://cdn.example.com/old.png"); err != nil {
			return err
		}
	}
	return args.Error(0)
}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Upload(ctx context.Context, src io.Reader) (string, error) {
	args := m.Called(ctx, src)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockMediaStore) Discard(ctx context.Context, url string) {
	m.Called(ctx, url)
}

var ctx = context.Background()

func newService() (*services.EventService, *MockEventRepository, *MockMediaStore) {
	repo := new(MockEventRepository)
	media := new(MockMediaStore)

	return services.NewEventService(slogdiscard.NewDiscardLogger(), repo, media), repo, media
}

func validInput() dto.EventInput {
	return dto.EventInput{
		Title:    "Kamaru <b>Night</b>",
		Theme:    "Heritage",
		Details:  `<p>Music &amp; poetry</p><script>alert(1)</script>`,
		DateTime: "2026-12-05T18:30",
		Location: "Nairobi",
	}
}

func TestCreateEvent_Success(t *testing.T) {
	service, repo, media := newService()
	image := strings.NewReader("png")

	media.On("Upload", ctx, image).Return("https://cdn.example.com/a.png", nil)
	repo.On("SaveEvent", ctx, mock.MatchedBy(func(e models.Event) bool {
		return e.Title == "Kamaru Night" &&
			!strings.Contains(e.Details, "script") &&
			e.DateTime.Equal(time.Date(2026, 12, 5, 18, 30, 0, 0, time.UTC)) &&
			e.ImageURL == "https://cdn.example.com/a.png"
	})).Return(models.Event{ID: uuid.New(), Title: "Kamaru Night"}, nil)

	event, err := service.CreateEvent(ctx, validInput(), image)
	require.NoError(t, err)
	assert.Equal(t, "Kamaru Night", event.Title)
	media.AssertNotCalled(t, "Discard", mock.Anything, mock.Anything)
}

func TestCreateEvent_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.EventInput)
		image  io.Reader
	}{
		{name: "missing title", mutate: func(in *dto.EventInput) { in.Title = "" }, image: strings.NewReader("x")},
		{name: "script only title", mutate: func(in *dto.EventInput) { in.Title = "<script>x</script>" }, image: strings.NewReader("x")},
		{name: "bad date", mutate: func(in *dto.EventInput) { in.DateTime = "05/12/2026" }, image: strings.NewReader("x")},
		{name: "missing image", mutate: func(*dto.EventInput) {}, image: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, media := newService()

			input := validInput()
			tt.mutate(&input)

			_, err := service.CreateEvent(ctx, input, tt.image)
			assert.True(t, errs.Is(err, errs.KindValidation))
			media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "SaveEvent", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateEvent_MediaFailureAborts(t *testing.T) {
	service, repo, media := newService()

	media.On("Upload", ctx, mock.Anything).Return("", errs.New(errs.KindMedia, "failed to store image"))

	_, err := service.CreateEvent(ctx, validInput(), strings.NewReader("x"))
	assert.True(t, errs.Is(err, errs.KindMedia))
	repo.AssertNotCalled(t, "SaveEvent", mock.Anything, mock.Anything)
}

func TestCreateEvent_DBFailureDiscardsUpload(t *testing.T) {
	service, repo, media := newService()

	media.On("Upload", ctx, mock.Anything).Return("https://cdn.example.com/a.png", nil)
	media.On("Discard", ctx, "https://cdn.example.com/a.png").Return()
	repo.On("SaveEvent", ctx, mock.Anything).Return(models.Event{}, errors.New("db down"))

	_, err := service.CreateEvent(ctx, validInput(), strings.NewReader("x"))
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))
	media.AssertExpectations(t)
}

func TestUpdateEvent_ReplacesImage(t *testing.T) {
	service, repo, media := newService()
	eventID := uuid.New()
	title := "Renamed"

	media.On("Upload", ctx, mock.Anything).Return("https://cdn.example.com/new.png", nil)
	repo.On("UpdateEvent", ctx, eventID, mock.MatchedBy(func(u models.EventUpdate) bool {
		return *u.Title == "Renamed" && *u.ImageURL == "https://cdn.example.com/new.png" && u.Theme == nil
	})).Return(models.Event{ID: eventID, Title: title}, "https://cdn.example.com/old.png", nil)
	media.On("Discard", ctx, "https://cdn.example.com/old.png").Return()

	event, err := service.UpdateEvent(ctx, eventID, dto.EventUpdateInput{Title: &title}, strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", event.Title)
	media.AssertExpectations(t)
}

func TestUpdateEvent_NotFoundDiscardsNewImage(t *testing.T) {
	service, repo, media := newService()
	eventID := uuid.New()

	media.On("Upload", ctx, mock.Anything).Return("https://cdn.example.com/new.png", nil)
	media.On("Discard", ctx, "https://cdn.example.com/new.png").Return()
	repo.On("UpdateEvent", ctx, eventID, mock.Anything).Return(models.Event{}, "", storage.ErrNotFound)

	_, err := service.UpdateEvent(ctx, eventID, dto.EventUpdateInput{}, strings.NewReader("x"))
	assert.True(t, errs.Is(err, errs.KindNotFound))
	media.AssertExpectations(t)
}

func TestUpdateEvent_BadDate(t *testing.T) {
	service, repo, _ := newService()
	bad := "tomorrow"

	_, err := service.UpdateEvent(ctx, uuid.New(), dto.EventUpdateInput{DateTime: &bad}, nil)
	assert.True(t, errs.Is(err, errs.KindValidation))
	repo.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteEvent(t *testing.T) {
	t.Run("missing every time", func(t *testing.T) {
		service, repo, _ := newService()
		eventID := uuid.New()

		repo.On("DeleteEvent", ctx, eventID, mock.Anything).Return(storage.ErrNotFound, false)

		for i := 0; i < 2; i++ {
			err := service.DeleteEvent(ctx, eventID)
			assert.True(t, errs.Is(err, errs.KindNotFound))
		}
	})

	t.Run("asset removed through hook", func(t *testing.T) {
		service, repo, media := newService()
		eventID := uuid.New()

		repo.On("DeleteEvent", ctx, eventID, mock.Anything).Return(nil, true)
		media.On("Delete", ctx, "https://cdn.example.com/old.png").Return(nil)

		require.NoError(t, service.DeleteEvent(ctx, eventID))
		media.AssertExpectations(t)
	})

	t.Run("media failure keeps the row", func(t *testing.T) {
		service, repo, media := newService()
		eventID := uuid.New()

		repo.On("DeleteEvent", ctx, eventID, mock.Anything).Return(nil, true)
		media.On("Delete", ctx, mock.Anything).Return(errs.New(errs.KindMedia, "failed to delete image"))

		err := service.DeleteEvent(ctx, eventID)
		assert.True(t, errs.Is(err, errs.KindMedia))
	})
}
