package repository

import (
	"context"
	"time"

	"kamaru/internal/domain/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, upd models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, tokenID string, exp time.Duration) error
	// DeleteRefreshToken reports false when the token was already gone.
	DeleteRefreshToken(ctx context.Context, userID, tokenID string) (bool, error)
	DeleteAllUserTokens(ctx context.Context, userID string) error
}

type ResetTokenRepository interface {
	// SaveResetToken replaces the user's pending codes. Other users' rows are
	// left alone so their expired codes still report as expired.
	SaveResetToken(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) (models.ResetToken, error)
	ConsumeResetToken(ctx context.Context, code string, now time.Time, hook ResetHook) (uuid.UUID, error)
}

type EventRepository interface {
	SaveEvent(ctx context.Context, event models.Event) (models.Event, error)
	GetEventByID(ctx context.Context, eventID uuid.UUID) (models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	// UpdateEvent returns the updated event and the image URL it had before.
	UpdateEvent(ctx context.Context, eventID uuid.UUID, upd models.EventUpdate) (models.Event, string, error)
	DeleteEvent(ctx context.Context, eventID uuid.UUID, hook AssetHook) error
}

type ParticipantRepository interface {
	SaveParticipant(ctx context.Context, p models.Participant) (models.Participant, error)
	GetParticipantByID(ctx context.Context, participantID uuid.UUID) (models.Participant, error)
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	UpdateParticipant(ctx context.Context, participantID uuid.UUID, upd models.ParticipantUpdate) (models.Participant, error)
	DeleteParticipant(ctx context.Context, participantID uuid.UUID) error
}

type GalleryRepository interface {
	SaveImage(ctx context.Context, image models.GalleryImage) (models.GalleryImage, error)
	GetImageByID(ctx context.Context, imageID uuid.UUID) (models.GalleryImage, error)
	ListImages(ctx context.Context) ([]models.GalleryImage, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID, hook AssetHook) error
}

type SystemImageRepository interface {
	SaveBanner(ctx context.Context, imageURL string) (models.SystemImage, error)
	// UpsertSection stores the single image of a section and returns the URL it replaced.
	UpsertSection(ctx context.Context, section, imageURL string) (models.SystemImage, string, error)
	GetSection(ctx context.Context, section string) (models.SystemImage, error)
	ListSection(ctx context.Context, section string) ([]models.SystemImage, error)
	DeleteSystemImage(ctx context.Context, imageID uuid.UUID, section string, hook AssetHook) error
}

type VideoRepository interface {
	SaveVideo(ctx context.Context, video models.Video) (models.Video, error)
	GetVideoByID(ctx context.Context, videoID uuid.UUID) (models.Video, error)
	ListVideos(ctx context.Context) ([]models.Video, error)
	DeleteVideo(ctx context.Context, videoID uuid.UUID) error
}

type NewsletterRepository interface {
	SaveSubscriber(ctx context.Context, email string) (models.Subscriber, error)
}

type StatsRepository interface {
	Counts(ctx context.Context) (models.Stats, error)
}
