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

var participantColumns = []string{"id", "name", "email", "phone", "category", "registered_at"}

type ParticipantRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepo {
	return &ParticipantRepo{
		db: db,
		sb: newBuilder(),
	}
}

func scanParticipant(row pgx.Row) (models.Participant, error) {
	var (
		p        models.Participant
		category string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &category, &p.RegisteredAt)
	p.Category = models.Category(category)
	return p, err
}

func (r *ParticipantRepo) SaveParticipant(ctx context.Context, p models.Participant) (models.Participant, error) {
	const op = "repository.ParticipantRepo.SaveParticipant"

	query, args, err := r.sb.Insert("participants").
		Columns("name", "email", "phone", "category").
		Values(p.Name, p.Email, p.Phone, string(p.Category)).
		Suffix("RETURNING " + joinColumns(participantColumns)).
		ToSql()
	if err != nil {
		return models.Participant{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := scanParticipant(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Participant{}, wrapErr(op, err)
	}

	return saved, nil
}

func (r *ParticipantRepo) GetParticipantByID(ctx context.Context, participantID uuid.UUID) (models.Participant, error) {
	const op = "repository.ParticipantRepo.GetParticipantByID"

	query, args, err := r.sb.Select(participantColumns...).From("participants").Where(sq.Eq{"id": participantID}).ToSql()
	if err != nil {
		return models.Participant{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := scanParticipant(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Participant{}, wrapErr(op, err)
	}

	return p, nil
}

func (r *ParticipantRepo) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	const op = "repository.ParticipantRepo.ListParticipants"

	query, args, err := r.sb.Select(participantColumns...).From("participants").OrderBy("registered_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		participants = append(participants, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return participants, nil
}

func (r *ParticipantRepo) UpdateParticipant(ctx context.Context, participantID uuid.UUID, upd models.ParticipantUpdate) (models.Participant, error) {
	const op = "repository.ParticipantRepo.UpdateParticipant"

	if upd.Empty() {
		return r.GetParticipantByID(ctx, participantID)
	}

	builder := r.sb.Update("participants").Where(sq.Eq{"id": participantID})

	if upd.Name != nil {
		builder = builder.Set("name", *upd.Name)
	}
	if upd.Email != nil {
		builder = builder.Set("email", *upd.Email)
	}
	if upd.Phone != nil {
		builder = builder.Set("phone", *upd.Phone)
	}
	if upd.Category != nil {
		builder = builder.Set("category", string(*upd.Category))
	}

	query, args, err := builder.Suffix("RETURNING " + joinColumns(participantColumns)).ToSql()
	if err != nil {
		return models.Participant{}, fmt.Errorf("%s: %w", op, err)
	}

	p, err := scanParticipant(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Participant{}, wrapErr(op, err)
	}

	return p, nil
}

func (r *ParticipantRepo) DeleteParticipant(ctx context.Context, participantID uuid.UUID) error {
	const op = "repository.ParticipantRepo.DeleteParticipant"

	return deleteByID(ctx, r.db, op, "participants", participantID)
}
