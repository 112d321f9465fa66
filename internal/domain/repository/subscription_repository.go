package repository

import (
	"context"

	"github.com/oksasatya/community-events/internal/domain/entity"
)

// SubscriptionRepository keeps User.SubscribedProjects and
// Project.Subscribers in step. Subscribe applies both sides atomically and
// is idempotent; added is false when the pair was already linked on both
// sides.
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, userID, projectID string) (p *entity.Project, added bool, err error)
}
