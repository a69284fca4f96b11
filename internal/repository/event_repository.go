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

var eventColumns = []string{"id", "title", "theme", "details", "date_time", "location", "image_url", "created_at"}

type EventRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewEventRepository(db *pgxpool.Pool) *EventRepo {
	return &EventRepo{
		db: db,
		sb: newBuilder(),
	}
}

func scanEvent(row pgx.Row) (models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Theme, &e.Details, &e.DateTime, &e.Location, &e.ImageURL, &e.CreatedAt)
	return e, err
}

func (r *EventRepo) SaveEvent(ctx context.Context, event models.Event) (models.Event, error) {
	const op = "repository.EventRepo.SaveEvent"

	query, args, err := r.sb.Insert("events").
		Columns("title", "theme", "details", "date_time", "location", "image_url").
		Values(event.Title, event.Theme, event.Details, event.DateTime, event.Location, event.ImageURL).
		Suffix("RETURNING " + joinColumns(eventColumns)).
		ToSql()
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := scanEvent(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Event{}, wrapErr(op, err)
	}

	return saved, nil
}

func (r *EventRepo) GetEventByID(ctx context.Context, eventID uuid.UUID) (models.Event, error) {
	const op = "repository.EventRepo.GetEventByID"

	query, args, err := r.sb.Select(eventColumns...).From("events").Where(sq.Eq{"id": eventID}).ToSql()
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Event{}, wrapErr(op, err)
	}

	return event, nil
}

func (r *EventRepo) ListEvents(ctx context.Context) ([]models.Event, error) {
	const op = "repository.EventRepo.ListEvents"

	query, args, err := r.sb.Select(eventColumns...).From("events").OrderBy("date_time DESC", "created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return events, nil
}

func (r *EventRepo) UpdateEvent(ctx context.Context, eventID uuid.UUID, upd models.EventUpdate) (models.Event, string, error) {
	const op = "repository.EventRepo.UpdateEvent"

	builder := r.sb.Update("events").Where(sq.Eq{"id": eventID})

	if upd.Title != nil {
		builder = builder.Set("title", *upd.Title)
	}
	if upd.Theme != nil {
		builder = builder.Set("theme", *upd.Theme)
	}
	if upd.Details != nil {
		builder = builder.Set("details", *upd.Details)
	}
	if upd.DateTime != nil {
		builder = builder.Set("date_time", *upd.DateTime)
	}
	if upd.Location != nil {
		builder = builder.Set("location", *upd.Location)
	}
	if upd.ImageURL != nil {
		builder = builder.Set("image_url", *upd.ImageURL)
	}

	lock, lockArgs, err := r.sb.Select("image_url").From("events").Where(sq.Eq{"id": eventID}).Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return models.Event{}, "", fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return models.Event{}, "", fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var previousURL string
	if err := tx.QueryRow(ctx, lock, lockArgs...).Scan(&previousURL); err != nil {
		return models.Event{}, "", wrapErr(op, err)
	}

	var event models.Event
	if upd.Empty() {
		query, args, err := r.sb.Select(eventColumns...).From("events").Where(sq.Eq{"id": eventID}).ToSql()
		if err != nil {
			return models.Event{}, "", fmt.Errorf("%s: %w", op, err)
		}
		event, err = scanEvent(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return models.Event{}, "", wrapErr(op, err)
		}
	} else {
		query, args, err := builder.Suffix("RETURNING " + joinColumns(eventColumns)).ToSql()
		if err != nil {
			return models.Event{}, "", fmt.Errorf("%s: %w", op, err)
		}
		event, err = scanEvent(tx.QueryRow(ctx, query, args...))
		if err != nil {
			return models.Event{}, "", wrapErr(op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Event{}, "", fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return event, previousURL, nil
}

func (r *EventRepo) DeleteEvent(ctx context.Context, eventID uuid.UUID, hook AssetHook) error {
	const op = "repository.EventRepo.DeleteEvent"

	return deleteWithAsset(ctx, r.db, op, r.sb.Delete("events").Where(sq.Eq{"id": eventID}), hook)
}
