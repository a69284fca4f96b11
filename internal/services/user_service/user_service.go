package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kamaru/internal/domain/errs"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/sl"
	"kamaru/internal/lib/validate"
	"kamaru/internal/repository"
	tokens "kamaru/internal/services/token_service"
	"kamaru/internal/storage"
	"kamaru/internal/transport/http/dto"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const maxPasswordBytes = 72

var ErrInvalidCredentials = errors.New("invalid credentials")

type TokenIssuer interface {
	Issue(ctx context.Context, user models.User) (models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)
	Revoke(ctx context.Context, refreshToken string) error
	RevokeAll(ctx context.Context, userID uuid.UUID) error
	IssueResetCode(ctx context.Context, userID uuid.UUID) (string, error)
	// ConsumeResetCode spends the code only when apply succeeds.
	ConsumeResetCode(ctx context.Context, code string, apply func(ctx context.Context, userID uuid.UUID) error) (uuid.UUID, error)
}

type ResetNotifier interface {
	SendResetCode(ctx context.Context, to, username, code string, ttl time.Duration) error
}

type UserService struct {
	log      *slog.Logger
	repo     repository.UserRepository
	tokens   TokenIssuer
	notifier ResetNotifier
}

func NewUserService(log *slog.Logger, repo repository.UserRepository, tokens TokenIssuer, notifier ResetNotifier) *UserService {
	return &UserService{
		log:      log,
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
	}
}

// Register creates a user. Only an admin caller may create another admin.
func (s *UserService) Register(ctx context.Context, input dto.UserRegisterInput, caller *models.Identity) (models.User, error) {
	const op = "user_service.Register"

	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", input.Email),
	)

	if err := validate.Struct(input); err != nil {
		return models.User{}, err
	}
	if err := checkPassword(input.Password); err != nil {
		return models.User{}, err
	}

	if input.IsAdmin && (caller == nil || !caller.IsAdmin) {
		log.Warn("non-admin tried to create an admin")

		return models.User{}, errs.Forbidden("only admins can create admin users")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.repo.SaveUser(ctx, models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		IsAdmin:      input.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			log.Warn("user already exists", sl.Err(err))

			return models.User{}, conflictError(err)
		}
		log.Error("failed to save user", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))

	return user, nil
}

// Login answers unknown emails and wrong passwords with the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (models.TokenPair, models.User, error) {
	const op = "user_service.Login"

	email = normalizeEmail(email)

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	if email == "" || password == "" {
		return models.TokenPair{}, models.User{}, errs.Validation("email and password are required")
	}

	invalid := errs.Wrap(errs.KindAuthentication, ErrInvalidCredentials, "invalid email or password")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("login for unknown email")

			return models.TokenPair{}, models.User{}, invalid
		}
		log.Error("failed to get user", sl.Err(err))

		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("invalid credentials")

		return models.TokenPair{}, models.User{}, invalid
	}

	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		log.Error("failed to issue tokens", sl.Err(err))

		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in")

	return pair, user, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	return s.tokens.Refresh(ctx, refreshToken)
}

func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}

func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "user_service.GetUser"

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, errs.NotFound("user not found")
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "user_service.ListUsers"

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

// UpdateUser applies a partial update. Changing the password signs the user
// out everywhere.
func (s *UserService) UpdateUser(ctx context.Context, userID uuid.UUID, input dto.UserUpdateInput) (models.User, error) {
	const op = "user_service.UpdateUser"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		input.Username = &username
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		input.Email = &email
	}

	if err := validate.Struct(input); err != nil {
		return models.User{}, err
	}

	upd := models.UserUpdate{
		Username: input.Username,
		Email:    input.Email,
		IsAdmin:  input.IsAdmin,
	}

	if input.Password != nil {
		if err := checkPassword(*input.Password); err != nil {
			return models.User{}, err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("%s: %w", op, err)
		}
		upd.PasswordHash = hash
	}

	user, err := s.repo.UpdateUser(ctx, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return models.User{}, errs.NotFound("user not found")
		case errors.Is(err, storage.ErrAlreadyExists):
			return models.User{}, conflictError(err)
		}
		log.Error("failed to update user", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if upd.PasswordHash != nil {
		if err := s.tokens.RevokeAll(ctx, userID); err != nil {
			log.Warn("failed to revoke tokens", sl.Err(err))
		}
	}

	log.Info("user updated")

	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	const op = "user_service.DeleteUser"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return errs.NotFound("user not found")
		}
		log.Error("failed to delete user", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.tokens.RevokeAll(ctx, userID); err != nil {
		log.Warn("failed to revoke tokens", sl.Err(err))
	}

	log.Info("user deleted")

	return nil
}

func (s *UserService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	const op = "user_service.IsAdmin"

	isAdmin, err := s.repo.IsAdmin(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, errs.NotFound("user not found")
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return isAdmin, nil
}

// ForgotPassword mails a reset code. Unknown emails succeed silently.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	const op = "user_service.ForgotPassword"

	email = normalizeEmail(email)

	log := s.log.With(slog.String("op", op))

	if err := validate.Struct(dto.ForgotPasswordRequest{Email: email}); err != nil {
		return err
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("password reset for unknown email")

			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	code, err := s.tokens.IssueResetCode(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue reset code", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.notifier.SendResetCode(ctx, user.Email, user.Username, code, tokens.ResetCodeTTL); err != nil {
		log.Error("failed to send reset code", sl.Err(err))

		return err
	}

	log.Info("reset code sent", slog.String("user_id", user.ID.String()))

	return nil
}

// ResetPassword stores the new password and spends the reset code in one
// transaction, so a failed update leaves the code usable.
func (s *UserService) ResetPassword(ctx context.Context, code, newPassword string) error {
	const op = "user_service.ResetPassword"

	log := s.log.With(slog.String("op", op))

	if err := validate.Struct(dto.ResetPasswordRequest{ShortToken: code, NewPassword: newPassword}); err != nil {
		return err
	}
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	userID, err := s.tokens.ConsumeResetCode(ctx, code, func(ctx context.Context, userID uuid.UUID) error {
		if _, err := s.repo.UpdateUser(ctx, userID, models.UserUpdate{PasswordHash: hash}); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return errs.NotFound("user not found")
			}
			log.Error("failed to store new password", sl.Err(err))

			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.tokens.RevokeAll(ctx, userID); err != nil {
		log.Warn("failed to revoke tokens", sl.Err(err))
	}

	log.Info("password reset", slog.String("user_id", userID.String()))

	return nil
}

// EnsureAdmin creates an admin unless a user with the email already exists.
// It reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (models.User, bool, error) {
	const op = "user_service.EnsureAdmin"

	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.User{}, false, fmt.Errorf("%s: %w", op, err)
	}

	user, err = s.Register(ctx, dto.UserRegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		IsAdmin:  true,
	}, &models.Identity{IsAdmin: true})
	if err != nil {
		return models.User{}, false, err
	}

	return user, true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkPassword(password string) error {
	if len(password) > maxPasswordBytes {
		return errs.Validation("password must be at most %d bytes", maxPasswordBytes)
	}

	return nil
}

func conflictError(err error) error {
	switch storage.ConstraintOf(err) {
	case "users_username_key":
		return errs.Wrap(errs.KindConflict, err, "username already taken")
	default:
		return errs.Wrap(errs.KindConflict, err, "email already registered")
	}
}
