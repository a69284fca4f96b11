package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultGalleryTitle is used when an image is uploaded without a title.
const DefaultGalleryTitle = "Untitled"

type GalleryImage struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	ImageURL   string    `db:"image_url" json:"image_url"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}
