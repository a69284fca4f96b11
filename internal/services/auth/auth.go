package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/sl"
	"kamaru/internal/storage"

	"github.com/google/uuid"
)

var ErrMissingToken = errors.New("missing bearer token")

type TokenVerifier interface {
	Verify(token string) (models.Identity, error)
}

type UserProvider interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
}

// Gate resolves bearer tokens into callers and checks their privileges.
type Gate struct {
	log    *slog.Logger
	tokens TokenVerifier
	users  UserProvider
}

func New(log *slog.Logger, tokens TokenVerifier, users UserProvider) *Gate {
	return &Gate{
		log:    log,
		tokens: tokens,
		users:  users,
	}
}

// RequireAuthenticated verifies the token and reloads its user. The admin flag
// is always taken from the stored user.
func (g *Gate) RequireAuthenticated(ctx context.Context, bearer string) (models.Identity, error) {
	const op = "auth.Gate.RequireAuthenticated"

	log := g.log.With(slog.String("op", op))

	token := strings.TrimSpace(bearer)
	if token == "" {
		return models.Identity{}, errs.Wrap(errs.KindAuthentication, ErrMissingToken, "missing bearer token")
	}

	identity, err := g.tokens.Verify(token)
	if err != nil {
		log.Debug("token rejected", sl.Err(err))

		return models.Identity{}, err
	}

	user, err := g.users.GetUserByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("token of a deleted user", slog.String("user_id", identity.UserID.String()))

			return models.Identity{}, errs.Unauthenticated("invalid token")
		}
		log.Error("failed to load user", sl.Err(err))

		return models.Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.Identity{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}, nil
}

func (g *Gate) RequireAdmin(identity models.Identity) error {
	if !identity.IsAdmin {
		return errs.Forbidden("admin privileges required")
	}

	return nil
}

// Admin authenticates the bearer and requires the admin flag.
func (g *Gate) Admin(ctx context.Context, bearer string) (models.Identity, error) {
	identity, err := g.RequireAuthenticated(ctx, bearer)
	if err != nil {
		return models.Identity{}, err
	}

	if err := g.RequireAdmin(identity); err != nil {
		return models.Identity{}, err
	}

	return identity, nil
}

// Optional returns nil for an anonymous caller. A present but invalid token
// is still an error.
func (g *Gate) Optional(ctx context.Context, bearer string) (*models.Identity, error) {
	if strings.TrimSpace(bearer) == "" {
		return nil, nil
	}

	identity, err := g.RequireAuthenticated(ctx, bearer)
	if err != nil {
		return nil, err
	}

	return &identity, nil
}
