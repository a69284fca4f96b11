package models

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryPoetry        Category = "Poetry"
	CategoryFolkSongs     Category = "Folk Songs"
	CategoryOriginalSongs Category = "Original Songs"
	CategoryRendition     Category = "Rendition"
	CategoryProverbs      Category = "Use of African Proverbs in Spoken Word"
)

// Categories lists the competition categories a participant can enter.
var Categories = []Category{
	CategoryPoetry,
	CategoryFolkSongs,
	CategoryOriginalSongs,
	CategoryRendition,
	CategoryProverbs,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

type Participant struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	Category     Category  `db:"category" json:"category"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

type ParticipantUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Category *Category
}

func (u ParticipantUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Category == nil
}
