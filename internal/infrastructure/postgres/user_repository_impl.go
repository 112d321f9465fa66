package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

const userColumns = `id::text, email, password_hash, name, surname, phone, image_url,
	subscribed_projects::text[], created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.Surname, &u.Phone, &u.ImageURL,
		&u.SubscribedProjects, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	const op = "postgres.UserRepository.Create"
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, name, surname, phone, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.Password, u.Name, u.Surname, u.Phone, u.ImageURL)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return mapErr(op, err)
	}
	if u.SubscribedProjects == nil {
		u.SubscribedProjects = []string{}
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr("postgres.UserRepository.GetByID", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, mapErr("postgres.UserRepository.GetByEmail", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	const op = "postgres.UserRepository.Update"
	err := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, surname = $3, phone = $4, image_url = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`, u.ID, u.Name, u.Surname, u.Phone, u.ImageURL).Scan(&u.UpdatedAt)
	return mapErr(op, err)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	const op = "postgres.UserRepository.UpdatePassword"
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1
	`, id, hash)
	if err != nil {
		return mapErr(op, err)
	}
	if res.RowsAffected() == 0 {
		return mapErr(op, apperr.ErrNotFound)
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
