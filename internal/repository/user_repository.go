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

var userColumns = []string{"id", "username", "email", "password_hash", "is_admin", "created_at"}

type UserRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
		sb: newBuilder(),
	}
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

func (r *UserRepo) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	const op = "repository.UserRepo.SaveUser"

	query, args, err := r.sb.Insert("users").
		Columns("username", "email", "password_hash", "is_admin").
		Values(user.Username, user.Email, user.PasswordHash, user.IsAdmin).
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.User{}, wrapErr(op, err)
	}

	return saved, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "repository.UserRepo.GetUserByID"

	return r.getUser(ctx, op, sq.Eq{"id": userID})
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "repository.UserRepo.GetUserByEmail"

	return r.getUser(ctx, op, sq.Eq{"email": email})
}

func (r *UserRepo) getUser(ctx context.Context, op string, where sq.Eq) (models.User, error) {
	query, args, err := r.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.User{}, wrapErr(op, err)
	}

	return user, nil
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "repository.UserRepo.ListUsers"

	query, args, err := r.sb.Select(userColumns...).From("users").OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return users, nil
}

func (r *UserRepo) UpdateUser(ctx context.Context, userID uuid.UUID, upd models.UserUpdate) (models.User, error) {
	const op = "repository.UserRepo.UpdateUser"

	if upd.Empty() {
		return r.GetUserByID(ctx, userID)
	}

	builder := r.sb.Update("users").Where(sq.Eq{"id": userID})

	if upd.Username != nil {
		builder = builder.Set("username", *upd.Username)
	}
	if upd.Email != nil {
		builder = builder.Set("email", *upd.Email)
	}
	if upd.PasswordHash != nil {
		builder = builder.Set("password_hash", upd.PasswordHash)
	}
	if upd.IsAdmin != nil {
		builder = builder.Set("is_admin", *upd.IsAdmin)
	}

	query, args, err := builder.Suffix("RETURNING " + joinColumns(userColumns)).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.User{}, wrapErr(op, err)
	}

	return user, nil
}

func (r *UserRepo) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	const op = "repository.UserRepo.DeleteUser"

	return deleteByID(ctx, r.db, op, "users", userID)
}

func (r *UserRepo) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	const op = "repository.UserRepo.IsAdmin"

	query, args, err := r.sb.Select("is_admin").From("users").Where(sq.Eq{"id": userID}).ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var isAdmin bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&isAdmin); err != nil {
		return false, wrapErr(op, err)
	}

	return isAdmin, nil
}

