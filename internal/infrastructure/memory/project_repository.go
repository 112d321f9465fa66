package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

type ProjectRepository struct {
	s *Store
}

func (r *ProjectRepository) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[p.ID]; ok {
		return fmt.Errorf("project id %s: %w", p.ID, apperr.ErrDuplicateIdentity)
	}
	for _, existing := range r.s.projects {
		if existing.Name == p.Name {
			return fmt.Errorf("project name %s: %w", p.Name, apperr.ErrDuplicateIdentity)
		}
	}
	if _, ok := r.s.users[p.CoordinatorID]; !ok {
		return fmt.Errorf("coordinator %s: %w", p.CoordinatorID, apperr.ErrNotFound)
	}
	now := r.s.stamp()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Subscribers == nil {
		p.Subscribers = []string{}
	}
	r.s.projects[p.ID] = cloneProject(p)
	r.s.projectOrder = append(r.s.projectOrder, p.ID)
	return nil
}

func (r *ProjectRepository) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return r.s.resolveProject(p), nil
}

func (r *ProjectRepository) GetByName(_ context.Context, name string) (*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.projects {
		if p.Name == name {
			return r.s.resolveProject(p), nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *ProjectRepository) List(_ context.Context) ([]*entity.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sorted := newestFirst(r.s.projectOrder, r.s.projects, func(p *entity.Project) time.Time { return p.CreatedAt })
	out := make([]*entity.Project, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, r.s.resolveProject(p))
	}
	return out, nil
}

func (r *ProjectRepository) SetImage(_ context.Context, id, ref string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[id]
	if !ok {
		return apperr.ErrNotFound
	}
	p.ImageURL = ref
	p.UpdatedAt = r.s.stamp()
	return nil
}

func (r *ProjectRepository) AppendImage(_ context.Context, id, ref string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.projects[id]
	if !ok {
		return apperr.ErrNotFound
	}
	for _, existing := range p.Images {
		if existing == ref {
			return nil
		}
	}
	p.Images = append(p.Images, ref)
	p.UpdatedAt = r.s.stamp()
	return nil
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
