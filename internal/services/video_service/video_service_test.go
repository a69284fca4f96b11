package services_test

import (
	"context"
	"testing"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/handlers/slogdiscard"
	services "kamaru/internal/services/video_service"
	"kamaru/internal/storage"
	"kamaru/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) SaveVideo(ctx context.Context, video models.Video) (models.Video, error) {
	args := m.Called(ctx, video)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *MockVideoRepository) GetVideoByID(ctx context.Context, videoID uuid.UUID) (models.Video, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).(models.Video), args.Error(1)
}

func (m *MockVideoRepository) ListVideos(ctx context.Context) ([]models.Video, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Video), args.Error(1)
}

func (m *MockVideoRepository) DeleteVideo(ctx context.Context, videoID uuid.UUID) error {
	args := m.Called(ctx, videoID)
	return args.Error(0)
}

var ctx = context.Background()

func TestIsYoutubeURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: true},
		{url: "https://youtu.be/dQw4w9WgXcQ", want: true},
		{url: "http://m.youtube.com/watch?v=x", want: true},
		{url: "https://vimeo.com/123", want: false},
		{url: "https://youtube.com.evil.example/watch", want: false},
		{url: "ftp://youtube.com/x", want: false},
		{url: "not a url", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, services.IsYoutubeURL(tt.url))
		})
	}
}

func TestAddVideo(t *testing.T) {
	repo := new(MockVideoRepository)
	service := services.NewVideoService(slogdiscard.NewDiscardLogger(), repo)

	input := dto.VideoInput{Title: "Finals", YoutubeURL: "https://youtu.be/abc"}
	video := models.Video{Title: "Finals", YoutubeURL: "https://youtu.be/abc"}

	repo.On("SaveVideo", ctx, video).Return(models.Video{ID: uuid.New(), Title: "Finals"}, nil).Once()
	repo.On("SaveVideo", ctx, video).Return(models.Video{}, &storage.ConstraintError{Constraint: "videos_youtube_url_key"}).Once()

	_, err := service.AddVideo(ctx, input)
	require.NoError(t, err)

	_, err = service.AddVideo(ctx, input)
	assert.True(t, errs.Is(err, errs.KindConflict))

	_, err = service.AddVideo(ctx, dto.VideoInput{Title: "Other", YoutubeURL: "https://vimeo.com/1"})
	assert.True(t, errs.Is(err, errs.KindValidation))

	repo.AssertNumberOfCalls(t, "SaveVideo", 2)
}

func TestDeleteVideo_Missing(t *testing.T) {
	repo := new(MockVideoRepository)
	service := services.NewVideoService(slogdiscard.NewDiscardLogger(), repo)
	id := uuid.New()

	repo.On("DeleteVideo", ctx, id).Return(storage.ErrNotFound)

	for i := 0; i < 2; i++ {
		assert.True(t, errs.Is(service.DeleteVideo(ctx, id), errs.KindNotFound))
	}
}
