package services_test

import (
	"context"
	"testing"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/handlers/slogdiscard"
	services "kamaru/internal/services/participant_service"
	"kamaru/internal/storage"
	"kamaru/internal/transport/http/dto"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) SaveParticipant(ctx context.Context, p models.Participant) (models.Participant, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) GetParticipantByID(ctx context.Context, participantID uuid.UUID) (models.Participant, error) {
	args := m.Called(ctx, participantID)
	return args.Get(0).(models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) UpdateParticipant(ctx context.Context, participantID uuid.UUID, upd models.ParticipantUpdate) (models.Participant, error) {
	args := m.Called(ctx, participantID, upd)
	return args.Get(0).(models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) DeleteParticipant(ctx context.Context, participantID uuid.UUID) error {
	args := m.Called(ctx, participantID)
	return args.Error(0)
}

var ctx = context.Background()

func newService() (*services.ParticipantService, *MockParticipantRepository) {
	repo := new(MockParticipantRepository)
	return services.NewParticipantService(slogdiscard.NewDiscardLogger(), repo), repo
}

func input(category string) dto.ParticipantInput {
	return dto.ParticipantInput{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Phone:    "+254700000001",
		Category: category,
	}
}

func TestRegisterParticipant_AllCategories(t *testing.T) {
	for _, category := range models.Categories {
		t.Run(string(category), func(t *testing.T) {
			service, repo := newService()

			repo.On("SaveParticipant", ctx, mock.MatchedBy(func(p models.Participant) bool {
				return p.Category == category
			})).Return(models.Participant{ID: uuid.New(), Category: category}, nil)

			p, err := service.RegisterParticipant(ctx, input(string(category)))
			require.NoError(t, err)
			assert.Equal(t, category, p.Category)
		})
	}
}

func TestRegisterParticipant_UnknownCategory(t *testing.T) {
	service, repo := newService()

	_, err := service.RegisterParticipant(ctx, input("Dance"))
	assert.True(t, errs.Is(err, errs.KindValidation))
	repo.AssertNotCalled(t, "SaveParticipant", mock.Anything, mock.Anything)
}

func TestRegisterParticipant_Duplicate(t *testing.T) {
	service, repo := newService()

	repo.On("SaveParticipant", ctx, mock.Anything).
		Return(models.Participant{}, &storage.ConstraintError{Constraint: "participants_phone_key"})

	_, err := service.RegisterParticipant(ctx, input(string(models.CategoryPoetry)))
	assert.True(t, errs.Is(err, errs.KindConflict))
	assert.Equal(t, "email or phone already registered", errs.MessageOf(err))
}

func TestRegisterParticipant_MissingFields(t *testing.T) {
	service, _ := newService()

	in := input(string(models.CategoryPoetry))
	in.Phone = ""

	_, err := service.RegisterParticipant(ctx, in)
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestUpdateParticipant(t *testing.T) {
	service, repo := newService()
	id := uuid.New()
	category := string(models.CategoryRendition)

	repo.On("UpdateParticipant", ctx, id, mock.MatchedBy(func(u models.ParticipantUpdate) bool {
		return u.Category != nil && *u.Category == models.CategoryRendition && u.Name == nil
	})).Return(models.Participant{ID: id, Category: models.CategoryRendition}, nil)

	p, err := service.UpdateParticipant(ctx, id, dto.ParticipantUpdateInput{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryRendition, p.Category)

	bad := "Juggling"
	_, err = service.UpdateParticipant(ctx, id, dto.ParticipantUpdateInput{Category: &bad})
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestDeleteParticipant_Missing(t *testing.T) {
	service, repo := newService()
	id := uuid.New()

	repo.On("DeleteParticipant", ctx, id).Return(storage.ErrNotFound)

	for i := 0; i < 2; i++ {
		assert.True(t, errs.Is(service.DeleteParticipant(ctx, id), errs.KindNotFound))
	}
}

func TestCategories(t *testing.T) {
	service, _ := newService()

	categories := service.Categories()
	assert.Len(t, categories, 5)

	categories[0] = "mutated"
	assert.Equal(t, models.CategoryPoetry, service.Categories()[0])
}
