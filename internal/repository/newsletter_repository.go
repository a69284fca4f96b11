package repository

import (
	"context"
	"fmt"

	"kamaru/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4/pgxpool"
)

type NewsletterRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewNewsletterRepository(db *pgxpool.Pool) *NewsletterRepo {
	return &NewsletterRepo{
		db: db,
		sb: newBuilder(),
	}
}

func (r *NewsletterRepo) SaveSubscriber(ctx context.Context, email string) (models.Subscriber, error) {
	const op = "repository.NewsletterRepo.SaveSubscriber"

	query, args, err := r.sb.Insert("newsletter_subscribers").
		Columns("email").
		Values(email).
		Suffix("RETURNING id, email, subscribed_at").
		ToSql()
	if err != nil {
		return models.Subscriber{}, fmt.Errorf("%s: %w", op, err)
	}

	var s models.Subscriber
	if err := r.db.QueryRow(ctx, query, args...).Scan(&s.ID, &s.Email, &s.SubscribedAt); err != nil {
		return models.Subscriber{}, wrapErr(op, err)
	}

	return s, nil
}
