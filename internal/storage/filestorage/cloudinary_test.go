package storage

import (
	"testing"

	"kamaru/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerivePublicID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "versioned with folder",
			url:  "https://res.cloudinary.com/demo/image/upload/v1712345678/kamaru/abc123.jpg",
			want: "kamaru/abc123",
		},
		{
			name: "without version",
			url:  "https://res.cloudinary.com/demo/image/upload/kamaru/abc123.png",
			want: "kamaru/abc123",
		},
		{
			name: "folder named like a version prefix",
			url:  "https://res.cloudinary.com/demo/image/upload/videos/abc.webp",
			want: "videos/abc",
		},
		{
			name: "no extension",
			url:  "https://res.cloudinary.com/demo/image/upload/v1/abc",
			want: "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := derivePublicID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDerivePublicID_NotCloudinary(t *testing.T) {
	_, err := derivePublicID("http://localhost:8080/uploads/abc.jpg")
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
}
