package repository

import (
	"context"

	"github.com/oksasatya/community-events/internal/domain/entity"
)

// ProjectRepository owns Project records. No method rewrites CoordinatorID
// or Subscribers; the latter belongs to SubscriptionRepository.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	GetByName(ctx context.Context, name string) (*entity.Project, error)
	// List returns all projects, newest first, with Coordinator resolved.
	List(ctx context.Context) ([]*entity.Project, error)
	SetImage(ctx context.Context, id, ref string) error
	// AppendImage adds ref to the gallery unless it is already there.
	AppendImage(ctx context.Context, id, ref string) error
}
