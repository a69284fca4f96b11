package storage

import (
	"fmt"
	"io"
	"net/http"

	"kamaru/internal/storage"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is an uploaded file whose content type was sniffed from its bytes.
type Image struct {
	Data        []byte
	ContentType string
}

func (i Image) Filename() string {
	return "image" + imageExtensions[i.ContentType]
}

// ReadImage reads at most maxSize bytes from src and accepts only jpeg, png,
// gif and webp content.
func ReadImage(src io.Reader, maxSize int64) (*Image, error) {
	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	if int64(len(data)) > maxSize {
		return nil, storage.ErrFileTooLarge
	}

	contentType := http.DetectContentType(data)
	if _, ok := imageExtensions[contentType]; !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrInvalidFileType, contentType)
	}

	return &Image{Data: data, ContentType: contentType}, nil
}
