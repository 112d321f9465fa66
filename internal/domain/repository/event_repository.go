package repository

import (
	"context"

	"github.com/oksasatya/community-events/internal/domain/entity"
)

// EventRepository owns Event records. Reads resolve Event.Project.
type EventRepository interface {
	Create(ctx context.Context, e *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	// GetByName returns the most recently updated event with that name.
	GetByName(ctx context.Context, name string) (*entity.Event, error)
	// List returns all events ordered by UpdatedAt descending.
	List(ctx context.Context) ([]*entity.Event, error)
	SetImage(ctx context.Context, id, ref string) error
}
