package repository

import (
	"context"
	"fmt"

	"kamaru/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var videoColumns = []string{"id", "title", "youtube_url", "uploaded_at"}

type VideoRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewVideoRepository(db *pgxpool.Pool) *VideoRepo {
	return &VideoRepo{
		db: db,
		sb: newBuilder(),
	}
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var v models.Video
	err := row.Scan(&v.ID, &v.Title, &v.YoutubeURL, &v.UploadedAt)
	return v, err
}

func (r *VideoRepo) SaveVideo(ctx context.Context, video models.Video) (models.Video, error) {
	const op = "repository.VideoRepo.SaveVideo"

	query, args, err := r.sb.Insert("videos").
		Columns("title", "youtube_url").
		Values(video.Title, video.YoutubeURL).
		Suffix("RETURNING " + joinColumns(videoColumns)).
		ToSql()
	if err != nil {
		return models.Video{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := scanVideo(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Video{}, wrapErr(op, err)
	}

	return saved, nil
}

func (r *VideoRepo) GetVideoByID(ctx context.Context, videoID uuid.UUID) (models.Video, error) {
	const op = "repository.VideoRepo.GetVideoByID"

	query, args, err := r.sb.Select(videoColumns...).From("videos").Where(sq.Eq{"id": videoID}).ToSql()
	if err != nil {
		return models.Video{}, fmt.Errorf("%s: %w", op, err)
	}

	v, err := scanVideo(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Video{}, wrapErr(op, err)
	}

	return v, nil
}

func (r *VideoRepo) ListVideos(ctx context.Context) ([]models.Video, error) {
	const op = "repository.VideoRepo.ListVideos"

	query, args, err := r.sb.Select(videoColumns...).From("videos").OrderBy("uploaded_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	videos := make([]models.Video, 0)
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return videos, nil
}

func (r *VideoRepo) DeleteVideo(ctx context.Context, videoID uuid.UUID) error {
	const op = "repository.VideoRepo.DeleteVideo"

	return deleteByID(ctx, r.db, op, "videos", videoID)
}
