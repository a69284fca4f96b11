package models

import (
	"time"

	"github.com/google/uuid"
)

// EventDateTimeLayout is the format of date_time in event forms.
const EventDateTimeLayout = "2006-01-02T15:04"

type Event struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Theme     string    `db:"theme" json:"theme"`
	Details   string    `db:"details" json:"details"`
	DateTime  time.Time `db:"date_time" json:"date_time"`
	Location  string    `db:"location" json:"location"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type EventUpdate struct {
	Title    *string
	Theme    *string
	Details  *string
	DateTime *time.Time
	Location *string
	ImageURL *string
}

func (u EventUpdate) Empty() bool {
	return u.Title == nil && u.Theme == nil && u.Details == nil &&
		u.DateTime == nil && u.Location == nil && u.ImageURL == nil
}
