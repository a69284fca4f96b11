package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"kamaru/internal/storage"
	redisapp "kamaru/internal/storage/redis"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolation = "23505"

// AssetHook runs inside the delete transaction with the URL of the removed
// row's asset. A non-nil error rolls the transaction back.
type AssetHook func(ctx context.Context, url string) error

// ResetHook runs inside the reset code transaction with the code's owner.
// A non-nil error rolls the transaction back and the code stays live.
type ResetHook func(ctx context.Context, userID uuid.UUID) error

type Repository struct {
	User        UserRepository
	ResetToken  ResetTokenRepository
	Token       TokenRepository
	Event       EventRepository
	Participant ParticipantRepository
	Gallery     GalleryRepository
	SystemImage SystemImageRepository
	Video       VideoRepository
	Newsletter  NewsletterRepository
	Stats       StatsRepository
}

func NewRepository(db *pgxpool.Pool, rdb *redisapp.Client) *Repository {
	return &Repository{
		User:        NewUserRepository(db),
		ResetToken:  NewResetTokenRepository(db),
		Token:       NewRedisTokenRepo(rdb),
		Event:       NewEventRepository(db),
		Participant: NewParticipantRepository(db),
		Gallery:     NewGalleryRepository(db),
		SystemImage: NewSystemImageRepository(db),
		Video:       NewVideoRepository(db),
		Newsletter:  NewNewsletterRepository(db),
		Stats:       NewStatsRepository(db),
	}
}

func newBuilder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// wrapErr maps driver errors onto the storage sentinels.
func wrapErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, &storage.ConstraintError{Constraint: pgErr.ConstraintName})
	}

	return fmt.Errorf("%s: %w", op, err)
}

// deleteWithAsset deletes the row with the given id and runs hook on its
// asset URL before committing.
func deleteWithAsset(ctx context.Context, db *pgxpool.Pool, op string, query sq.DeleteBuilder, hook AssetHook) error {
	sql, args, err := query.Suffix("RETURNING image_url").ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var url string
	if err := tx.QueryRow(ctx, sql, args...).Scan(&url); err != nil {
		return wrapErr(op, err)
	}

	if hook != nil {
		if err := hook(ctx, url); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

func deleteByID(ctx context.Context, db *pgxpool.Pool, op, table string, id uuid.UUID) error {
	sql, args, err := newBuilder().Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return wrapErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
