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
	services "kamaru/internal/services/gallery_service"
	"kamaru/internal/storage"
	"kamaru/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGalleryRepository struct {
	mock.Mock
}

func (m *MockGalleryRepository) SaveImage(ctx context.Context, image models.GalleryImage) (models.GalleryImage, error) {
	args := m.Called(ctx, image)
	return args.Get(0).(models.GalleryImage), args.Error(1)
}

func (m *MockGalleryRepository) GetImageByID(ctx context.Context, imageID uuid.UUID) (models.GalleryImage, error) {
	args := m.Called(ctx, imageID)
	return args.Get(0).(models.GalleryImage), args.Error(1)
}

func (m *MockGalleryRepository) ListImages(ctx context.Context) ([]models.GalleryImage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.GalleryImage), args.Error(1)
}

func (m *MockGalleryRepository) DeleteImage(ctx context.Context, imageID uuid.UUID, hook repository.AssetHook) error {
	args := m.Called(ctx, imageID, hook)
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

func newService() (*services.GalleryService, *MockGalleryRepository, *MockMediaStore) {
	repo := new(MockGalleryRepository)
	media := new(MockMediaStore)

	return services.NewGalleryService(slogdiscard.NewDiscardLogger(), repo, media), repo, media
}

func TestUploadImage_DefaultTitle(t *testing.T) {
	service, repo, media := newService()

	media.On("Upload", ctx, mock.Anything).Return("/uploads/a.png", nil)
	repo.On("SaveImage", ctx, models.GalleryImage{Title: "Untitled", ImageURL: "/uploads/a.png"}).
		Return(models.GalleryImage{ID: uuid.New(), Title: "Untitled", ImageURL: "/uploads/a.png"}, nil)

	img, err := service.UploadImage(ctx, dto.GalleryUploadInput{Title: "   "}, strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGalleryTitle, img.Title)
}

func TestUploadImage_DBFailureDiscards(t *testing.T) {
	service, repo, media := newService()

	media.On("Upload", ctx, mock.Anything).Return("/uploads/a.png", nil)
	media.On("Discard", ctx, "/uploads/a.png").Return()
	repo.On("SaveImage", ctx, mock.Anything).Return(models.GalleryImage{}, errors.New("db down"))

	_, err := service.UploadImage(ctx, dto.GalleryUploadInput{Title: "Stage"}, strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "gallery_service.UploadImage: "))
	media.AssertExpectations(t)
}

func TestUploadImage_MediaValidation(t *testing.T) {
	service, repo, media := newService()

	media.On("Upload", ctx, nil).Return("", errs.Validation("image is required"))

	_, err := service.UploadImage(ctx, dto.GalleryUploadInput{}, nil)
	assert.True(t, errs.Is(err, errs.KindValidation))
	repo.AssertNotCalled(t, "SaveImage", mock.Anything, mock.Anything)
}

func TestGetImage_NotFound(t *testing.T) {
	service, repo, _ := newService()
	id := uuid.New()

	repo.On("GetImageByID", ctx, id).Return(models.GalleryImage{}, storage.ErrNotFound)

	_, err := service.GetImage(ctx, id)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestListImages_Empty(t *testing.T) {
	service, repo, _ := newService()

	repo.On("ListImages", ctx).Return([]models.GalleryImage{}, nil)

	images, err := service.ListImages(ctx)
	require.NoError(t, err)
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestDeleteImage(t *testing.T) {
	service, repo, _ := newService()
	missing := uuid.New()
	broken := uuid.New()

	repo.On("DeleteImage", ctx, missing, mock.Anything).Return(storage.ErrNotFound)
	repo.On("DeleteImage", ctx, broken, mock.Anything).Return(errs.New(errs.KindMedia, "failed to delete image"))

	for i := 0; i < 2; i++ {
		assert.True(t, errs.Is(service.DeleteImage(ctx, missing), errs.KindNotFound))
	}
	assert.True(t, errs.Is(service.DeleteImage(ctx, broken), errs.KindMedia))
}
