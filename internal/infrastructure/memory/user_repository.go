package memory

import (
	"context"
	"fmt"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[u.ID]; ok {
		return fmt.Errorf("user id %s: %w", u.ID, apperr.ErrDuplicateIdentity)
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email %s: %w", u.Email, apperr.ErrDuplicateIdentity)
		}
	}
	now := r.s.stamp()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.SubscribedProjects == nil {
		u.SubscribedProjects = []string{}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, apperr.ErrNotFound
}

// Update writes profile fields and the image reference. Email, password and
// subscriptions have their own paths.
func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[u.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	cur.Name = u.Name
	cur.Surname = u.Surname
	cur.Phone = u.Phone
	cur.ImageURL = u.ImageURL
	cur.UpdatedAt = r.s.stamp()
	u.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[id]
	if !ok {
		return apperr.ErrNotFound
	}
	cur.Password = hash
	cur.UpdatedAt = r.s.stamp()
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
