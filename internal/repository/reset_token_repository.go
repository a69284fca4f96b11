package repository

import (
	"context"
	"fmt"
	"time"

	"kamaru/internal/domain/models"
	"kamaru/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
)

type ResetTokenRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewResetTokenRepository(db *pgxpool.Pool) *ResetTokenRepo {
	return &ResetTokenRepo{
		db: db,
		sb: newBuilder(),
	}
}

func (r *ResetTokenRepo) SaveResetToken(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) (models.ResetToken, error) {
	const op = "repository.ResetTokenRepo.SaveResetToken"

	purge, purgeArgs, err := r.sb.Delete("password_reset_tokens").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return models.ResetToken{}, fmt.Errorf("%s: %w", op, err)
	}

	insert, insertArgs, err := r.sb.Insert("password_reset_tokens").
		Columns("user_id", "code", "expires_at").
		Values(userID, code, expiresAt).
		Suffix("RETURNING id, user_id, code, expires_at, created_at").
		ToSql()
	if err != nil {
		return models.ResetToken{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.ResetToken{}, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, purge, purgeArgs...); err != nil {
		return models.ResetToken{}, wrapErr(op, err)
	}

	var t models.ResetToken
	err = tx.QueryRow(ctx, insert, insertArgs...).Scan(&t.ID, &t.UserID, &t.Code, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return models.ResetToken{}, wrapErr(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.ResetToken{}, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return t, nil
}

// ConsumeResetToken deletes a live code and returns its owner. The hook runs
// before commit; its error keeps the code usable. An expired code is left in
// place and reported as storage.ErrExpired.
func (r *ResetTokenRepo) ConsumeResetToken(ctx context.Context, code string, now time.Time, hook ResetHook) (uuid.UUID, error) {
	const op = "repository.ResetTokenRepo.ConsumeResetToken"

	query, args, err := r.sb.Delete("password_reset_tokens").
		Where(sq.Eq{"code": code}).
		Where(sq.Gt{"expires_at": now}).
		Suffix("RETURNING user_id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var userID uuid.UUID
	err = tx.QueryRow(ctx, query, args...).Scan(&userID)
	if err != nil {
		if err := wrapErr(op, err); !isNotFound(err) {
			return uuid.Nil, err
		}
		return uuid.Nil, r.missingCode(ctx, op, code)
	}

	if hook != nil {
		if err := hook(ctx, userID); err != nil {
			return uuid.Nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return userID, nil
}

// missingCode tells an expired code from one that never existed.
func (r *ResetTokenRepo) missingCode(ctx context.Context, op, code string) error {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM password_reset_tokens WHERE code = $1)", code).Scan(&exists)
	if err != nil {
		return wrapErr(op, err)
	}

	if exists {
		return fmt.Errorf("%s: %w", op, storage.ErrExpired)
	}

	return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}
