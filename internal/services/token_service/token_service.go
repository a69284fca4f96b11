package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/jwt"
	"kamaru/internal/lib/logger/sl"
	"kamaru/internal/repository"
	"kamaru/internal/storage"

	"github.com/google/uuid"
)

const (
	ResetCodeTTL      = 15 * time.Minute
	resetCodeLength   = 6
	resetCodeAttempts = 3
	resetCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var (
	ErrTokenExpired      = jwt.ErrTokenExpired
	ErrInvalidToken      = jwt.ErrInvalidToken
	ErrTokenNotInStorage = errors.New("token not found in storage")
)

type Config struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type TokenService struct {
	log        *slog.Logger
	repo       repository.TokenRepository
	resetRepo  repository.ResetTokenRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(log *slog.Logger, repo repository.TokenRepository, resetRepo repository.ResetTokenRepository, cfg Config) *TokenService {
	return &TokenService{
		log:        log,
		repo:       repo,
		resetRepo:  resetRepo,
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs a new access and refresh token pair and records the refresh token id.
func (s *TokenService) Issue(ctx context.Context, user models.User) (models.TokenPair, error) {
	const op = "token_service.Issue"

	now := s.now()

	access, _, err := jwt.NewToken(s.secret, user.ID, user.Email, jwt.TypeAccess, s.accessTTL, now)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	refresh, refreshID, err := jwt.NewToken(s.secret, user.ID, user.Email, jwt.TypeRefresh, s.refreshTTL, now)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID.String(), refreshID, s.refreshTTL); err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.accessTTL),
	}, nil
}

// Verify checks an access token. The returned identity never carries the admin
// flag, callers must load it from the user store.
func (s *TokenService) Verify(token string) (models.Identity, error) {
	claims, err := jwt.ParseToken(s.secret, token, jwt.TypeAccess)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Identity{}, errs.Wrap(errs.KindAuthentication, ErrTokenExpired, "token expired")
		}
		return models.Identity{}, errs.Wrap(errs.KindAuthentication, ErrInvalidToken, "invalid token")
	}

	return models.Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

// Refresh rotates a refresh token. Each refresh token can be used once.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	const op = "token_service.Refresh"

	log := s.log.With(slog.String("op", op))

	claims, err := s.parseRefresh(refreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}

	userID := claims.UserID.String()

	live, err := s.repo.DeleteRefreshToken(ctx, userID, claims.ID)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if !live {
		log.Warn("refresh token not in storage", slog.String("user_id", userID))

		return models.TokenPair{}, errs.Wrap(errs.KindAuthentication, ErrTokenNotInStorage, "invalid token")
	}

	return s.Issue(ctx, models.User{ID: claims.UserID, Email: claims.Email})
}

func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	const op = "token_service.Revoke"

	claims, err := s.parseRefresh(refreshToken)
	if err != nil {
		return err
	}

	if _, err := s.repo.DeleteRefreshToken(ctx, claims.UserID.String(), claims.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *TokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	const op = "token_service.RevokeAll"

	if err := s.repo.DeleteAllUserTokens(ctx, userID.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *TokenService) parseRefresh(refreshToken string) (*jwt.Claims, error) {
	claims, err := jwt.ParseToken(s.secret, refreshToken, jwt.TypeRefresh)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.Wrap(errs.KindAuthentication, ErrTokenExpired, "token expired")
		}
		return nil, errs.Wrap(errs.KindAuthentication, ErrInvalidToken, "invalid token")
	}

	return claims, nil
}

// IssueResetCode persists a fresh single use code for userID.
func (s *TokenService) IssueResetCode(ctx context.Context, userID uuid.UUID) (string, error) {
	const op = "token_service.IssueResetCode"

	log := s.log.With(slog.String("op", op), slog.String("user_id", userID.String()))

	var lastErr error
	for attempt := 1; attempt <= resetCodeAttempts; attempt++ {
		code, err := generateCode(resetCodeLength)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}

		_, err = s.resetRepo.SaveResetToken(ctx, userID, code, s.now().Add(ResetCodeTTL))
		if err == nil {
			return code, nil
		}

		if !errors.Is(err, storage.ErrAlreadyExists) {
			return "", fmt.Errorf("%s: %w", op, err)
		}

		log.Warn("reset code collision", slog.Int("attempt", attempt))
		lastErr = err
	}

	log.Error("could not allocate reset code", sl.Err(lastErr))

	return "", fmt.Errorf("%s: %w", op, lastErr)
}

// ConsumeResetCode invalidates a live code and returns its owner. apply runs
// with the owner before the code is spent; its error leaves the code live and
// is returned as is.
func (s *TokenService) ConsumeResetCode(ctx context.Context, code string, apply func(ctx context.Context, userID uuid.UUID) error) (uuid.UUID, error) {
	const op = "token_service.ConsumeResetCode"

	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != resetCodeLength {
		return uuid.Nil, errs.NotFound("reset code not found")
	}

	var applyErr error
	hook := func(ctx context.Context, userID uuid.UUID) error {
		if apply == nil {
			return nil
		}
		applyErr = apply(ctx, userID)
		return applyErr
	}

	userID, err := s.resetRepo.ConsumeResetToken(ctx, code, s.now(), hook)
	switch {
	case err == nil:
		return userID, nil
	case applyErr != nil:
		return uuid.Nil, applyErr
	case errors.Is(err, storage.ErrExpired):
		return uuid.Nil, errs.Wrap(errs.KindExpired, err, "reset code expired")
	case errors.Is(err, storage.ErrNotFound):
		return uuid.Nil, errs.Wrap(errs.KindNotFound, err, "reset code not found")
	default:
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}
}

func generateCode(n int) (string, error) {
	limit := big.NewInt(int64(len(resetCodeAlphabet)))

	var b strings.Builder
	b.Grow(n)

	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		b.WriteByte(resetCodeAlphabet[idx.Int64()])
	}

	return b.String(), nil
}
