package models

import (
	"time"

	"github.com/google/uuid"
)

type Subscriber struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	SubscribedAt time.Time `db:"subscribed_at" json:"subscribed_at"`
}

// ContactMessage is a contact form submission forwarded to the operators.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}
