package memory

import (
	"context"
	"fmt"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

type SubscriptionRepository struct {
	s *Store
}

// Subscribe links both sides under the store lock.
func (r *SubscriptionRepository) Subscribe(_ context.Context, userID, projectID string) (*entity.Project, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, false, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}
	p, ok := r.s.projects[projectID]
	if !ok {
		return nil, false, fmt.Errorf("project %s: %w", projectID, apperr.ErrNotFound)
	}

	now := r.s.stamp()
	added := false
	if !u.IsSubscribedTo(p.ID) {
		u.SubscribedProjects = append(u.SubscribedProjects, p.ID)
		u.UpdatedAt = now
		added = true
	}
	if !p.HasSubscriber(u.Email) {
		p.Subscribers = append(p.Subscribers, u.Email)
		p.UpdatedAt = now
		added = true
	}
	return r.s.resolveProject(p), added, nil
}

var _ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)
