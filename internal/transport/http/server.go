package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/sl"
	"kamaru/internal/transport/http/dto"
	"kamaru/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	_ "kamaru/docs"
)

const imageField = "image"

type Gate interface {
	RequireAuthenticated(ctx context.Context, bearer string) (models.Identity, error)
	Admin(ctx context.Context, bearer string) (models.Identity, error)
	Optional(ctx context.Context, bearer string) (*models.Identity, error)
}

type UserService interface {
	Register(ctx context.Context, input dto.UserRegisterInput, caller *models.Identity) (models.User, error)
	Login(ctx context.Context, email, password string) (models.TokenPair, models.User, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUser(ctx context.Context, userID uuid.UUID) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, input dto.UserUpdateInput) (models.User, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code, newPassword string) error
}

type EventService interface {
	CreateEvent(ctx context.Context, input dto.EventInput, image io.Reader) (models.Event, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	UpdateEvent(ctx context.Context, eventID uuid.UUID, input dto.EventUpdateInput, image io.Reader) (models.Event, error)
	DeleteEvent(ctx context.Context, eventID uuid.UUID) error
}

type ParticipantService interface {
	Categories() []models.Category
	RegisterParticipant(ctx context.Context, input dto.ParticipantInput) (models.Participant, error)
	GetParticipant(ctx context.Context, participantID uuid.UUID) (models.Participant, error)
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	UpdateParticipant(ctx context.Context, participantID uuid.UUID, input dto.ParticipantUpdateInput) (models.Participant, error)
	DeleteParticipant(ctx context.Context, participantID uuid.UUID) error
}

type GalleryService interface {
	UploadImage(ctx context.Context, input dto.GalleryUploadInput, image io.Reader) (models.GalleryImage, error)
	GetImage(ctx context.Context, imageID uuid.UUID) (models.GalleryImage, error)
	ListImages(ctx context.Context) ([]models.GalleryImage, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
}

type SystemImageService interface {
	UploadImage(ctx context.Context, input dto.SystemImageUploadInput, image io.Reader) (models.SystemImage, error)
	UploadBanner(ctx context.Context, image io.Reader) (models.SystemImage, error)
	GetSection(ctx context.Context, section string) (models.SystemImage, error)
	ListBanners(ctx context.Context) ([]models.SystemImage, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
	DeleteBanner(ctx context.Context, imageID uuid.UUID) error
}

type VideoService interface {
	AddVideo(ctx context.Context, input dto.VideoInput) (models.Video, error)
	GetVideo(ctx context.Context, videoID uuid.UUID) (models.Video, error)
	ListVideos(ctx context.Context) ([]models.Video, error)
	DeleteVideo(ctx context.Context, videoID uuid.UUID) error
}

type NewsletterService interface {
	Subscribe(ctx context.Context, input dto.SubscribeInput) (models.Subscriber, error)
	Contact(ctx context.Context, input dto.ContactInput) error
}

type StatsService interface {
	Stats(ctx context.Context) (models.Stats, error)
}

// Services groups the handlers' dependencies.
type Services struct {
	User        UserService
	Event       EventService
	Participant ParticipantService
	Gallery     GalleryService
	SystemImage SystemImageService
	Video       VideoService
	Newsletter  NewsletterService
	Stats       StatsService
}

type Routers struct {
	log  *slog.Logger
	gate Gate
	Services
}

func NewRouter(log *slog.Logger, gate Gate, services Services) *Routers {
	return &Routers{
		log:      log,
		gate:     gate,
		Services: services,
	}
}

var ErrInvalidUUID = errors.New("not valid UUID")

func bearerToken(c echo.Context) string {
	header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))

	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	return header
}

func (r *Routers) requireUser(c echo.Context) (models.Identity, error) {
	return r.gate.RequireAuthenticated(c.Request().Context(), bearerToken(c))
}

func (r *Routers) requireAdmin(c echo.Context) (models.Identity, error) {
	return r.gate.Admin(c.Request().Context(), bearerToken(c))
}

// fail writes the error envelope for err. Server side failures are logged.
func (r *Routers) fail(c echo.Context, log *slog.Logger, err error) error {
	status, body := response.FromError(err)

	if status >= http.StatusInternalServerError {
		log.Error("request failed", slog.Int("status", status), sl.Err(err))
	} else {
		log.Debug("request rejected", slog.Int("status", status), sl.Err(err))
	}

	return c.JSON(status, body)
}

func paramID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errs.Wrap(errs.KindValidation, ErrInvalidUUID, "id must be a valid UUID")
	}

	return id, nil
}

func bind(c echo.Context, i interface{}) error {
	if err := c.Bind(i); err != nil {
		return errs.Wrap(errs.KindValidation, err, "invalid request format")
	}

	return nil
}

// formImage opens the uploaded image. A missing file yields a nil reader.
func formImage(c echo.Context) (io.ReadCloser, error) {
	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, errs.Wrap(errs.KindValidation, err, "expected a multipart form")
	}

	file, err := fh.Open()
	if err != nil {
		return nil, errs.Wrap(errs.KindValidation, err, "could not read uploaded file")
	}

	return file, nil
}

// optionalForm returns a pointer to the form value of key, or nil when the
// key was not submitted at all.
func optionalForm(c echo.Context, key string) *string {
	params, err := c.FormParams()
	if err != nil {
		return nil
	}

	values, ok := params[key]
	if !ok || len(values) == 0 {
		return nil
	}

	value := values[0]
	return &value
}
