package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"kamaru/internal/domain/errs"
	"kamaru/internal/lib/logger/handlers/slogdiscard"
	services "kamaru/internal/services/media_service"
	"kamaru/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Upload(ctx context.Context, src io.Reader, filename string) (string, error) {
	args := m.Called(ctx, src, filename)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func newService(fs *MockFileStorage) *services.MediaService {
	return services.NewMediaService(slogdiscard.NewDiscardLogger(), fs, 1024, time.Second)
}

func TestMediaService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("png stored", func(t *testing.T) {
		fs := new(MockFileStorage)
		fs.On("Upload", mock.Anything, mock.Anything, "image.png").Return("http://cdn/image.png", nil).Once()

		url, err := newService(fs).Upload(ctx, bytes.NewReader(pngBytes))
		require.NoError(t, err)
		assert.Equal(t, "http://cdn/image.png", url)
		fs.AssertExpectations(t)
	})

	t.Run("nil image", func(t *testing.T) {
		_, err := newService(new(MockFileStorage)).Upload(ctx, nil)
		assert.True(t, errs.Is(err, errs.KindValidation))
	})

	t.Run("not an image", func(t *testing.T) {
		fs := new(MockFileStorage)

		_, err := newService(fs).Upload(ctx, strings.NewReader("plain text"))
		assert.True(t, errs.Is(err, errs.KindValidation))
		fs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("too large", func(t *testing.T) {
		big := append(append([]byte{}, pngBytes...), make([]byte, 2048)...)

		_, err := newService(new(MockFileStorage)).Upload(ctx, bytes.NewReader(big))
		assert.True(t, errs.Is(err, errs.KindValidation))
	})

	t.Run("backend failure", func(t *testing.T) {
		fs := new(MockFileStorage)
		fs.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("cdn down")).Once()

		_, err := newService(fs).Upload(ctx, bytes.NewReader(pngBytes))
		assert.True(t, errs.Is(err, errs.KindMedia))
	})
}

func TestMediaService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		fs := new(MockFileStorage)
		fs.On("Delete", mock.Anything, "u").Return(nil).Once()

		assert.NoError(t, newService(fs).Delete(ctx, "u"))
	})

	t.Run("already missing", func(t *testing.T) {
		fs := new(MockFileStorage)
		fs.On("Delete", mock.Anything, "u").Return(storage.ErrFileNotFound).Once()

		assert.NoError(t, newService(fs).Delete(ctx, "u"))
	})

	t.Run("backend failure", func(t *testing.T) {
		fs := new(MockFileStorage)
		fs.On("Delete", mock.Anything, "u").Return(errors.New("cdn down")).Once()

		err := newService(fs).Delete(ctx, "u")
		assert.True(t, errs.Is(err, errs.KindMedia))
	})
}

func TestMediaService_Discard(t *testing.T) {
	fs := new(MockFileStorage)
	fs.On("Delete", mock.Anything, "u").Return(errors.New("cdn down")).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	newService(fs).Discard(ctx, "u")
	newService(fs).Discard(ctx, "")

	fs.AssertNumberOfCalls(t, "Delete", 1)
}
