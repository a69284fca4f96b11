package services_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/handlers/slogdiscard"
	"kamaru/internal/repository"
	services "kamaru/internal/services/sysimage_service"
	"kamaru/internal/storage"
	"kamaru/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSystemImageRepository struct {
	mock.Mock
}

func (m *MockSystemImageRepository) SaveBanner(ctx context.Context, imageURL string) (models.SystemImage, error) {
	args := m.Called(ctx, imageURL)
	return args.Get(0).(models.SystemImage), args.Error(1)
}

func (m *MockSystemImageRepository) UpsertSection(ctx context.Context, section, imageURL string) (models.SystemImage, string, error) {
	args := m.Called(ctx, section, imageURL)
	return args.Get(0).(models.SystemImage), args.String(1), args.Error(2)
}

func (m *MockSystemImageRepository) GetSection(ctx context.Context, section string) (models.SystemImage, error) {
	args := m.Called(ctx, section)
	return args.Get(0).(models.SystemImage), args.Error(1)
}

func (m *MockSystemImageRepository) ListSection(ctx context.Context, section string) ([]models.SystemImage, error) {
	args := m.Called(ctx, section)
	return args.Get(0).([]models.SystemImage), args.Error(1)
}

func (m *MockSystemImageRepository) DeleteSystemImage(ctx context.Context, imageID uuid.UUID, section string, hook repository.AssetHook) error {
	args := m.Called(ctx, imageID, section, hook)
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

func newService() (*services.SystemImageService, *MockSystemImageRepository, *MockMediaStore) {
	repo := new(MockSystemImageRepository)
	media := new(MockMediaStore)

	return services.NewSystemImageService(slogdiscard.NewDiscardLogger(), repo, media), repo, media
}

func TestUploadImage_SectionReplacesPrevious(t *testing.T) {
	service, repo, media := newService()

	media.On("Upload", ctx, mock.Anything).Return("/uploads/second.png", nil).Once()
	repo.On("UpsertSection", ctx, "about", "/uploads/second.png").
		Return(models.SystemImage{ID: uuid.New(), Section: "about", ImageURL: "/uploads/second.png"}, "/uploads/first.png", nil)
	media.On("Discard", ctx, "/uploads/first.png").Return()

	img, err := service.UploadImage(ctx, dto.SystemImageUploadInput{Section: " About "}, strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/second.png", img.ImageURL)
	media.AssertExpectations(t)
	repo.AssertNotCalled(t, "SaveBanner", mock.Anything, mock.Anything)
}

func TestUploadImage_BannersAlwaysInsert(t *testing.T) {
	service, repo, media := newService()

	media.On("Upload", ctx, mock.Anything).Return("/uploads/b1.png", nil).Once()
	media.On("Upload", ctx, mock.Anything).Return("/uploads/b2.png", nil).Once()
	repo.On("SaveBanner", ctx, "/uploads/b1.png").Return(models.SystemImage{ID: uuid.New(), Section: "banners"}, nil)
	repo.On("SaveBanner", ctx, "/uploads/b2.png").Return(models.SystemImage{ID: uuid.New(), Section: "banners"}, nil)

	_, err := service.UploadImage(ctx, dto.SystemImageUploadInput{Section: "banners"}, strings.NewReader("x"))
	require.NoError(t, err)
	_, err = service.UploadBanner(ctx, strings.NewReader("y"))
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "SaveBanner", 2)
	repo.AssertNotCalled(t, "UpsertSection", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadImage_Failures(t *testing.T) {
	t.Run("missing section", func(t *testing.T) {
		service, _, media := newService()

		_, err := service.UploadImage(ctx, dto.SystemImageUploadInput{}, strings.NewReader("x"))
		assert.True(t, errs.Is(err, errs.KindValidation))
		media.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})

	t.Run("db failure discards upload", func(t *testing.T) {
		service, repo, media := newService()

		media.On("Upload", ctx, mock.Anything).Return("/uploads/x.png", nil)
		media.On("Discard", ctx, "/uploads/x.png").Return()
		repo.On("UpsertSection", ctx, "hero", "/uploads/x.png").Return(models.SystemImage{}, "", errors.New("db down"))

		_, err := service.UploadImage(ctx, dto.SystemImageUploadInput{Section: "hero"}, strings.NewReader("x"))
		require.Error(t, err)
		media.AssertExpectations(t)
	})
}

func TestGetSection_Empty(t *testing.T) {
	service, repo, _ := newService()

	repo.On("GetSection", ctx, "about").Return(models.SystemImage{}, storage.ErrNotFound)

	_, err := service.GetSection(ctx, "about")
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestDeleteBanner_RestrictedToBanners(t *testing.T) {
	service, repo, _ := newService()
	id := uuid.New()

	repo.On("DeleteSystemImage", ctx, id, "banners", mock.Anything).Return(storage.ErrNotFound)
	repo.On("DeleteSystemImage", ctx, id, "", mock.Anything).Return(nil)

	assert.True(t, errs.Is(service.DeleteBanner(ctx, id), errs.KindNotFound))
	assert.NoError(t, service.DeleteImage(ctx, id))
}

func TestIsBanners(t *testing.T) {
	assert.True(t, services.IsBanners(" Banners"))
	assert.False(t, services.IsBanners("about"))
}
