package repository

import (
	"context"
	"fmt"

	"kamaru/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

type StatsRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{
		db: db,
		sb: newBuilder(),
	}
}

// Counts collects every total in a single round trip.
func (r *StatsRepo) Counts(ctx context.Context) (models.Stats, error) {
	const op = "repository.StatsRepo.Counts"

	query, args, err := r.sb.Select(
		"(SELECT COUNT(*) FROM events)",
		"(SELECT COUNT(*) FROM participants)",
		"(SELECT COUNT(*) FROM users)",
		"(SELECT COUNT(*) FROM videos)",
		"(SELECT COUNT(*) FROM gallery_images)",
		"(SELECT COUNT(*) FROM newsletter_subscribers)",
	).ToSql()
	if err != nil {
		return models.Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	var s models.Stats
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&s.TotalEvents,
		&s.TotalParticipants,
		&s.TotalUsers,
		&s.TotalVideos,
		&s.TotalGalleryItems,
		&s.TotalSubscribers,
	)
	if err != nil {
		return models.Stats{}, wrapErr(op, err)
	}

	return s, nil
}
