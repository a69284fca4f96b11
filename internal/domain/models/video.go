package models

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	YoutubeURL string    `db:"youtube_url" json:"youtube_url"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}
