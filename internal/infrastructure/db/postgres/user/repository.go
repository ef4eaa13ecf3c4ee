package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"user-registry-api/internal/domain/user"
	"user-registry-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	u := new(User)
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,

		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return u, nil
}

func (r *Repository) FindAll(ctx context.Context, skip, limit int) (user.Users, error) {
	rows, err := r.db.Query(ctx, SelectUsers, skip, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var us Users
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}

		us = append(us, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return fromDBModels(us)
}

func (r *Repository) FindByID(ctx context.Context, id user.ID) (*user.User, error) {
	return r.findOne(ctx, SelectUserByID, id.Key())
}

func (r *Repository) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	return r.findOne(ctx, SelectUserByEmail, email.String())
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u)
}

func (r *Repository) Save(ctx context.Context, req *user.User) (*user.User, error) {
	m := toDBModel(req)

	u, err := scanUser(r.db.QueryRow(
		ctx,
		UpsertUser,
		m.ID, m.Email, m.FirstName, m.LastName, m.IsActive, m.CreatedAt, m.UpdatedAt,
	))
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, err
	}

	return fromDBModel(u)
}

func (r *Repository) Delete(ctx context.Context, id user.ID) (bool, error) {
	tag, err := r.db.Exec(ctx, DeleteUserByID, id.Key())
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email user.Email) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, ExistsUserByEmail, email.String()).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
