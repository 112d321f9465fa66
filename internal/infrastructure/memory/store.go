// Package memory is an in-process implementation of the repository
// interfaces. A single lock guards all aggregates, so cross-aggregate writes
// such as Subscribe are atomic.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/community-events/internal/domain/entity"
)

type Store struct {
	mu sync.RWMutex

	users    map[string]*entity.User
	projects map[string]*entity.Project
	events   map[string]*entity.Event

	// insertion order, used to break timestamp ties
	projectOrder []string
	eventOrder   []string

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:    make(map[string]*entity.User),
		projects: make(map[string]*entity.Project),
		events:   make(map[string]*entity.Event),
		now:      time.Now,
	}
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s: s} }
func (s *Store) Projects() *ProjectRepository           { return &ProjectRepository{s: s} }
func (s *Store) Events() *EventRepository               { return &EventRepository{s: s} }
func (s *Store) Subscriptions() *SubscriptionRepository { return &SubscriptionRepository{s: s} }

func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

func cloneUser(u *entity.User) *entity.User {
	c := *u
	c.SubscribedProjects = append([]string(nil), u.SubscribedProjects...)
	return &c
}

func cloneProject(p *entity.Project) *entity.Project {
	c := *p
	c.Images = append([]string(nil), p.Images...)
	c.Subscribers = append([]string(nil), p.Subscribers...)
	c.Coordinator = nil
	return &c
}

func cloneEvent(e *entity.Event) *entity.Event {
	c := *e
	c.Project = nil
	return &c
}

// coordinator returns a copy of the user without the credential hash.
func (s *Store) coordinator(id string) *entity.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	c := cloneUser(u)
	c.Password = ""
	return c
}

func (s *Store) resolveProject(p *entity.Project) *entity.Project {
	c := cloneProject(p)
	c.Coordinator = s.coordinator(p.CoordinatorID)
	return c
}

func (s *Store) resolveEvent(e *entity.Event) *entity.Event {
	c := cloneEvent(e)
	if p, ok := s.projects[e.ProjectID]; ok {
		c.Project = s.resolveProject(p)
	}
	return c
}

// newestFirst walks ids from latest inserted and stable-sorts by key
// descending.
func newestFirst[T any](order []string, m map[string]T, key func(T) time.Time) []T {
	out := make([]T, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		out = append(out, m[order[i]])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]).After(key(out[j]))
	})
	return out
}
