package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"kamaru/internal/storage"
)

// FileStorage stores uploaded assets and addresses them by public URL.
type FileStorage interface {
	Upload(ctx context.Context, src io.Reader, filename string) (string, error)
	// Delete returns storage.ErrFileNotFound when no asset is stored at url.
	Delete(ctx context.Context, url string) error
}

// LocalFileStorage keeps assets on the local disk and serves them under baseURL.
type LocalFileStorage struct {
	baseDir string
	baseURL string
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalFileStorage) Upload(ctx context.Context, src io.Reader, filename string) (string, error) {
	const op = "filestorage.LocalFileStorage.Upload"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	fullPath := filepath.Join(s.baseDir, name)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("%s: create destination file: %w", op, err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var copyErr error

	go func() {
		_, copyErr = io.Copy(dst, src)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(fullPath)
			return "", fmt.Errorf("%s: copy file: %w", op, copyErr)
		}
	case <-ctx.Done():
		<-done
		_ = os.Remove(fullPath)
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	}

	return s.baseURL + "/" + name, nil
}

func (s *LocalFileStorage) Delete(ctx context.Context, fileURL string) error {
	const op = "filestorage.LocalFileStorage.Delete"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	name := lastSegment(fileURL)
	if name == "" || name == "." || name == ".." {
		return fmt.Errorf("%s: %w", op, storage.ErrFileNotFound)
	}

	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", op, storage.ErrFileNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *LocalFileStorage) BaseDir() string {
	return s.baseDir
}

func lastSegment(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}

	return path.Base(p)
}
