package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

type EventRepository struct {
	s *Store
}

func (r *EventRepository) Create(_ context.Context, e *entity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[e.ID]; ok {
		return fmt.Errorf("event id %s: %w", e.ID, apperr.ErrDuplicateIdentity)
	}
	if _, ok := r.s.projects[e.ProjectID]; !ok {
		return fmt.Errorf("project %s: %w", e.ProjectID, apperr.ErrNotFound)
	}
	now := r.s.stamp()
	e.CreatedAt, e.UpdatedAt = now, now
	r.s.events[e.ID] = cloneEvent(e)
	r.s.eventOrder = append(r.s.eventOrder, e.ID)
	return nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (*entity.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return r.s.resolveEvent(e), nil
}

func (r *EventRepository) GetByName(_ context.Context, name string) (*entity.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.sortedEvents() {
		if e.Name == name {
			return r.s.resolveEvent(e), nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *EventRepository) List(_ context.Context) ([]*entity.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sorted := r.s.sortedEvents()
	out := make([]*entity.Event, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, r.s.resolveEvent(e))
	}
	return out, nil
}

func (r *EventRepository) SetImage(_ context.Context, id, ref string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.events[id]
	if !ok {
		return apperr.ErrNotFound
	}
	e.ImageURL = ref
	e.UpdatedAt = r.s.stamp()
	return nil
}

func (s *Store) sortedEvents() []*entity.Event {
	return newestFirst(s.eventOrder, s.events, func(e *entity.Event) time.Time { return e.UpdatedAt })
}

var _ repository.EventRepository = (*EventRepository)(nil)
