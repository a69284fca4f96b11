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

var systemImageColumns = []string{"id", "section", "image_url", "uploaded_at"}

// upsertSectionSQL keeps one row per non banner section. The CTE reads the
// previous URL from the statement snapshot.
const upsertSectionSQL = `
WITH previous AS (
	SELECT image_url FROM system_images WHERE section = $1
)
INSERT INTO system_images (section, image_url)
VALUES ($1, $2)
ON CONFLICT (section) WHERE section <> 'banners'
DO UPDATE SET image_url = EXCLUDED.image_url, uploaded_at = NOW()
RETURNING id, section, image_url, uploaded_at, COALESCE((SELECT image_url FROM previous), '')`

type SystemImageRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewSystemImageRepository(db *pgxpool.Pool) *SystemImageRepo {
	return &SystemImageRepo{
		db: db,
		sb: newBuilder(),
	}
}

func scanSystemImage(row pgx.Row) (models.SystemImage, error) {
	var img models.SystemImage
	err := row.Scan(&img.ID, &img.Section, &img.ImageURL, &img.UploadedAt)
	return img, err
}

func (r *SystemImageRepo) SaveBanner(ctx context.Context, imageURL string) (models.SystemImage, error) {
	const op = "repository.SystemImageRepo.SaveBanner"

	query, args, err := r.sb.Insert("system_images").
		Columns("section", "image_url").
		Values(models.BannersSection, imageURL).
		Suffix("RETURNING " + joinColumns(systemImageColumns)).
		ToSql()
	if err != nil {
		return models.SystemImage{}, fmt.Errorf("%s: %w", op, err)
	}

	img, err := scanSystemImage(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.SystemImage{}, wrapErr(op, err)
	}

	return img, nil
}

func (r *SystemImageRepo) UpsertSection(ctx context.Context, section, imageURL string) (models.SystemImage, string, error) {
	const op = "repository.SystemImageRepo.UpsertSection"

	if section == models.BannersSection {
		return models.SystemImage{}, "", fmt.Errorf("%s: banners section holds many images", op)
	}

	var (
		img         models.SystemImage
		previousURL string
	)

	err := r.db.QueryRow(ctx, upsertSectionSQL, section, imageURL).
		Scan(&img.ID, &img.Section, &img.ImageURL, &img.UploadedAt, &previousURL)
	if err != nil {
		return models.SystemImage{}, "", wrapErr(op, err)
	}

	return img, previousURL, nil
}

func (r *SystemImageRepo) GetSection(ctx context.Context, section string) (models.SystemImage, error) {
	const op = "repository.SystemImageRepo.GetSection"

	query, args, err := r.sb.Select(systemImageColumns...).
		From("system_images").
		Where(sq.Eq{"section": section}).
		OrderBy("uploaded_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return models.SystemImage{}, fmt.Errorf("%s: %w", op, err)
	}

	img, err := scanSystemImage(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.SystemImage{}, wrapErr(op, err)
	}

	return img, nil
}

func (r *SystemImageRepo) ListSection(ctx context.Context, section string) ([]models.SystemImage, error) {
	const op = "repository.SystemImageRepo.ListSection"

	query, args, err := r.sb.Select(systemImageColumns...).
		From("system_images").
		Where(sq.Eq{"section": section}).
		OrderBy("uploaded_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	images := make([]models.SystemImage, 0)
	for rows.Next() {
		img, err := scanSystemImage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return images, nil
}

// DeleteSystemImage removes the image with imageID. A non empty section
// restricts the delete to images of that section.
func (r *SystemImageRepo) DeleteSystemImage(ctx context.Context, imageID uuid.UUID, section string, hook AssetHook) error {
	const op = "repository.SystemImageRepo.DeleteSystemImage"

	query := r.sb.Delete("system_images").Where(sq.Eq{"id": imageID})
	if section != "" {
		query = query.Where(sq.Eq{"section": section})
	}

	return deleteWithAsset(ctx, r.db, op, query, hook)
}
