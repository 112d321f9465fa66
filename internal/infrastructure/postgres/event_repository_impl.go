package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

const eventSelect = `
	SELECT e.id::text, e.name, e.description, e.city, e.address, e.date, e.reg_url, e.image_url,
		e.project_id::text, COALESCE(e.created_by::text, ''), e.created_at, e.updated_at,
		p.name, p.theme, p.city, p.description, p.email, p.phone, p.org,
		p.facebook, p.instagram, p.image_url, p.images, p.coordinator_id::text, p.subscribers,
		p.created_at, p.updated_at,
		c.email, c.name, c.surname, c.phone, c.image_url
	FROM events e
	JOIN projects p ON p.id = e.project_id
	JOIN users c ON c.id = p.coordinator_id`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	e := &entity.Event{}
	p := &entity.Project{}
	c := &entity.User{}
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.City, &e.Address, &e.Date, &e.RegURL, &e.ImageURL,
		&e.ProjectID, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		&p.Name, &p.Theme, &p.City, &p.Description, &p.Email, &p.Phone, &p.Org,
		&p.Facebook, &p.Instagram, &p.ImageURL, &p.Images, &p.CoordinatorID, &p.Subscribers,
		&p.CreatedAt, &p.UpdatedAt,
		&c.Email, &c.Name, &c.Surname, &c.Phone, &c.ImageURL)
	if err != nil {
		return nil, err
	}
	p.ID = e.ProjectID
	c.ID = p.CoordinatorID
	p.Coordinator = c
	e.Project = p
	return e, nil
}

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	const op = "postgres.EventRepository.Create"
	var createdBy any
	if e.CreatedBy != "" {
		createdBy = e.CreatedBy
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (id, name, description, city, address, date, reg_url, image_url, project_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, e.ID, e.Name, e.Description, e.City, e.Address, e.Date, e.RegURL, e.ImageURL, e.ProjectID, createdBy)
	return mapErr(op, row.Scan(&e.CreatedAt, &e.UpdatedAt))
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, eventSelect+` WHERE e.id = $1`, id))
	if err != nil {
		return nil, mapErr("postgres.EventRepository.GetByID", err)
	}
	return e, nil
}

func (r *EventRepository) GetByName(ctx context.Context, name string) (*entity.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, eventSelect+` WHERE e.name = $1 ORDER BY e.updated_at DESC LIMIT 1`, name))
	if err != nil {
		return nil, mapErr("postgres.EventRepository.GetByName", err)
	}
	return e, nil
}

func (r *EventRepository) List(ctx context.Context) ([]*entity.Event, error) {
	const op = "postgres.EventRepository.List"
	rows, err := r.pool.Query(ctx, eventSelect+` ORDER BY e.updated_at DESC, e.created_at DESC`)
	if err != nil {
		return nil, mapErr(op, err)
	}
	defer rows.Close()

	out := make([]*entity.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, mapErr(op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(op, err)
	}
	return out, nil
}

func (r *EventRepository) SetImage(ctx context.Context, id, ref string) error {
	const op = "postgres.EventRepository.SetImage"
	res, err := r.pool.Exec(ctx, `
		UPDATE events SET image_url = $2, updated_at = now() WHERE id = $1
	`, id, ref)
	if err != nil {
		return mapErr(op, err)
	}
	if res.RowsAffected() == 0 {
		return mapErr(op, apperr.ErrNotFound)
	}
	return nil
}

var _ repository.EventRepository = (*EventRepository)(nil)
