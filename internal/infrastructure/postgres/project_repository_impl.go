package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

// projectSelect joins the coordinator so reads come back resolved.
const projectSelect = `
	SELECT p.id::text, p.name, p.theme, p.city, p.description, p.email, p.phone, p.org,
		p.facebook, p.instagram, p.image_url, p.images, p.coordinator_id::text, p.subscribers,
		p.created_at, p.updated_at,
		c.email, c.name, c.surname, c.phone, c.image_url, c.created_at, c.updated_at
	FROM projects p
	JOIN users c ON c.id = p.coordinator_id`

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func scanProject(row pgx.Row) (*entity.Project, error) {
	p := &entity.Project{}
	c := &entity.User{}
	err := row.Scan(&p.ID, &p.Name, &p.Theme, &p.City, &p.Description, &p.Email, &p.Phone, &p.Org,
		&p.Facebook, &p.Instagram, &p.ImageURL, &p.Images, &p.CoordinatorID, &p.Subscribers,
		&p.CreatedAt, &p.UpdatedAt,
		&c.Email, &c.Name, &c.Surname, &c.Phone, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ID = p.CoordinatorID
	p.Coordinator = c
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	const op = "postgres.ProjectRepository.Create"
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Subscribers == nil {
		p.Subscribers = []string{}
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO projects (id, name, theme, city, description, email, phone, org,
			facebook, instagram, image_url, images, coordinator_id, subscribers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Theme, p.City, p.Description, p.Email, p.Phone, p.Org,
		p.Facebook, p.Instagram, p.ImageURL, p.Images, p.CoordinatorID, p.Subscribers)
	return mapErr(op, row.Scan(&p.CreatedAt, &p.UpdatedAt))
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, projectSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapErr("postgres.ProjectRepository.GetByID", err)
	}
	return p, nil
}

func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*entity.Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, projectSelect+` WHERE p.name = $1`, name))
	if err != nil {
		return nil, mapErr("postgres.ProjectRepository.GetByName", err)
	}
	return p, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]*entity.Project, error) {
	const op = "postgres.ProjectRepository.List"
	rows, err := r.pool.Query(ctx, projectSelect+` ORDER BY p.created_at DESC, p.id`)
	if err != nil {
		return nil, mapErr(op, err)
	}
	defer rows.Close()

	out := make([]*entity.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, mapErr(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(op, err)
	}
	return out, nil
}

func (r *ProjectRepository) SetImage(ctx context.Context, id, ref string) error {
	const op = "postgres.ProjectRepository.SetImage"
	res, err := r.pool.Exec(ctx, `
		UPDATE projects SET image_url = $2, updated_at = now() WHERE id = $1
	`, id, ref)
	if err != nil {
		return mapErr(op, err)
	}
	if res.RowsAffected() == 0 {
		return mapErr(op, apperr.ErrNotFound)
	}
	return nil
}

func (r *ProjectRepository) AppendImage(ctx context.Context, id, ref string) error {
	const op = "postgres.ProjectRepository.AppendImage"
	res, err := r.pool.Exec(ctx, `
		UPDATE projects
		SET images = CASE WHEN $2 = ANY(images) THEN images ELSE array_append(images, $2) END,
			updated_at = now()
		WHERE id = $1
	`, id, ref)
	if err != nil {
		return mapErr(op, err)
	}
	if res.RowsAffected() == 0 {
		return mapErr(op, apperr.ErrNotFound)
	}
	return nil
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
