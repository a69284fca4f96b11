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

var galleryColumns = []string{"id", "title", "image_url", "uploaded_at"}

type GalleryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewGalleryRepository(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: newBuilder(),
	}
}

func scanGalleryImage(row pgx.Row) (models.GalleryImage, error) {
	var img models.GalleryImage
	err := row.Scan(&img.ID, &img.Title, &img.ImageURL, &img.UploadedAt)
	return img, err
}

func (r *GalleryRepo) SaveImage(ctx context.Context, image models.GalleryImage) (models.GalleryImage, error) {
	const op = "repository.GalleryRepo.SaveImage"

	query, args, err := r.sb.Insert("gallery_images").
		Columns("title", "image_url").
		Values(image.Title, image.ImageURL).
		Suffix("RETURNING " + joinColumns(galleryColumns)).
		ToSql()
	if err != nil {
		return models.GalleryImage{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := scanGalleryImage(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.GalleryImage{}, wrapErr(op, err)
	}

	return saved, nil
}

func (r *GalleryRepo) GetImageByID(ctx context.Context, imageID uuid.UUID) (models.GalleryImage, error) {
	const op = "repository.GalleryRepo.GetImageByID"

	query, args, err := r.sb.Select(galleryColumns...).From("gallery_images").Where(sq.Eq{"id": imageID}).ToSql()
	if err != nil {
		return models.GalleryImage{}, fmt.Errorf("%s: %w", op, err)
	}

	img, err := scanGalleryImage(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.GalleryImage{}, wrapErr(op, err)
	}

	return img, nil
}

func (r *GalleryRepo) ListImages(ctx context.Context) ([]models.GalleryImage, error) {
	const op = "repository.GalleryRepo.ListImages"

	query, args, err := r.sb.Select(galleryColumns...).From("gallery_images").OrderBy("uploaded_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	images := make([]models.GalleryImage, 0)
	for rows.Next() {
		img, err := scanGalleryImage(rows)
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

func (r *GalleryRepo) DeleteImage(ctx context.Context, imageID uuid.UUID, hook AssetHook) error {
	const op = "repository.GalleryRepo.DeleteImage"

	return deleteWithAsset(ctx, r.db, op, r.sb.Delete("gallery_images").Where(sq.Eq{"id": imageID}), hook)
}
