package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

// SubscriptionRepository applies both sides of a subscription in one
// transaction. Rows are locked user first, then project, so concurrent
// subscribers never deadlock on each other.
type SubscriptionRepository struct {
	pool     *pgxpool.Pool
	projects *ProjectRepository
}

func NewSubscriptionRepository(pool *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{pool: pool, projects: NewProjectRepository(pool)}
}

func (r *SubscriptionRepository) Subscribe(ctx context.Context, userID, projectID string) (*entity.Project, bool, error) {
	const op = "postgres.SubscriptionRepository.Subscribe"

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, mapErr(op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		email      string
		userSubs   []string
		projectSub []string
	)
	err = tx.QueryRow(ctx, `
		SELECT email, subscribed_projects::text[] FROM users WHERE id = $1 FOR UPDATE
	`, userID).Scan(&email, &userSubs)
	if err != nil {
		return nil, false, mapErr(op+": user", err)
	}
	err = tx.QueryRow(ctx, `
		SELECT subscribers FROM projects WHERE id = $1 FOR UPDATE
	`, projectID).Scan(&projectSub)
	if err != nil {
		return nil, false, mapErr(op+": project", err)
	}

	added := false
	if !contains(userSubs, projectID) {
		if err := applySide(ctx, tx, `
			UPDATE users
			SET subscribed_projects = array_append(subscribed_projects, $2::uuid), updated_at = now()
			WHERE id = $1 AND NOT ($2::uuid = ANY(subscribed_projects))
		`, userID, projectID); err != nil {
			return nil, false, &apperr.PartialFailureError{Side: "user", Err: err}
		}
		added = true
	}
	if !contains(projectSub, email) {
		if err := applySide(ctx, tx, `
			UPDATE projects
			SET subscribers = array_append(subscribers, $2), updated_at = now()
			WHERE id = $1 AND NOT ($2 = ANY(subscribers))
		`, projectID, email); err != nil {
			return nil, false, &apperr.PartialFailureError{Side: "project", Err: err}
		}
		added = true
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, mapErr(op+": commit", err)
	}

	p, err := r.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, added, err
	}
	return p, added, nil
}

var errNoRowUpdated = errors.New("no row updated")

// applySide runs one guarded update and requires it to touch exactly one row.
func applySide(ctx context.Context, tx pgx.Tx, sql string, args ...any) error {
	res, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() != 1 {
		return errNoRowUpdated
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

var _ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)
