package models

import (
	"time"

	"github.com/google/uuid"
)

// BannersSection is the only section holding more than one image.
const BannersSection = "banners"

// SystemImage is a site wide image bound to a named section of the site.
type SystemImage struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Section    string    `db:"section" json:"section"`
	ImageURL   string    `db:"image_url" json:"image_url"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

func (i SystemImage) IsBanner() bool {
	return i.Section == BannersSection
}
