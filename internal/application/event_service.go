package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	repo "github.com/oksasatya/community-events/internal/domain/repository"
	"github.com/oksasatya/community-events/pkg/metrics"
	"github.com/oksasatya/community-events/pkg/validation"
)

type EventService struct {
	Events   repo.EventRepository
	Projects repo.ProjectRepository
	Blobs    repo.BlobStore
	Search   SearchIndex
	Notifier *Notifier
	Calendar *CalendarCache
	Location *time.Location
	Metrics  *metrics.Metrics
	Logger   *logrus.Logger
}

func NewEventService(events repo.EventRepository, projects repo.ProjectRepository, blobs repo.BlobStore, search SearchIndex, notifier *Notifier, calendar *CalendarCache, loc *time.Location, m *metrics.Metrics, logger *logrus.Logger) *EventService {
	if loc == nil {
		loc = time.UTC
	}
	return &EventService{
		Events:   events,
		Projects: projects,
		Blobs:    blobs,
		Search:   search,
		Notifier: notifier,
		Calendar: calendar,
		Location: loc,
		Metrics:  m,
		Logger:   logger,
	}
}

type CreateEventInput struct {
	ProjectName string
	Name        string
	Description string
	City        string
	Address     string
	Day         string // 2006-01-02
	Time        string // 15:04 or 15:04:05
	RegURL      string
}

// CombineDayTime joins a calendar day and a time of day into one instant in loc.
func CombineDayTime(day, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(validation.DayLayout, strings.TrimSpace(day), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("day %q: %w", day, apperr.ErrValidation)
	}
	c, err := validation.ParseClock(clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: %w", clock, apperr.ErrValidation)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), c.Second(), 0, loc), nil
}

// Create adds an event under the named project. The project lookup runs
// first so a missing project aborts before anything is written.
func (s *EventService) Create(ctx context.Context, actorID string, in CreateEventInput) (*entity.Event, error) {
	const op = "application.EventService.Create"

	p, err := findProject(ctx, s.Projects, in.ProjectName)
	if err != nil {
		return nil, fmt.Errorf("%s: project: %w", op, err)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%s: name: %w", op, apperr.ErrValidation)
	}
	date, err := CombineDayTime(in.Day, in.Time, s.Location)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	e := &entity.Event{
		ID:          uuid.NewString(),
		Name:        name,
		Description: in.Description,
		City:        strings.TrimSpace(in.City),
		Address:     strings.TrimSpace(in.Address),
		Date:        date,
		RegURL:      strings.TrimSpace(in.RegURL),
		ProjectID:   p.ID,
		CreatedBy:   actorID,
	}
	if err := s.Blobs.Provision(ctx, repo.KindEvents, e.ID); err != nil {
		return nil, fmt.Errorf("%s: provision: %w", op, err)
	}
	if err := s.Events.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	e.Project = p
	s.Calendar.Invalidate(ctx)

	if s.Search != nil {
		if err := s.Search.IndexEvent(ctx, e); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("event_id", e.ID).Warn("index event failed")
		}
	}
	s.Notifier.EventPublished(ctx, e)
	if s.Logger != nil {
		s.Logger.WithField("event_id", e.ID).WithField("project_id", p.ID).Info("event created")
	}
	return e, nil
}

// FindByName resolves an event by name, falling back to its id.
func (s *EventService) FindByName(ctx context.Context, ref string) (*entity.Event, error) {
	e, err := findEvent(ctx, s.Events, ref)
	if err != nil {
		return nil, fmt.Errorf("application.EventService.FindByName: %w", err)
	}
	return e, nil
}

// ListAll returns every event, most recently updated first.
func (s *EventService) ListAll(ctx context.Context) ([]*entity.Event, error) {
	list, err := s.Events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("application.EventService.ListAll: %w", err)
	}
	return list, nil
}

// ListDistinctByProject keeps the most recently updated event of each
// project, in last-updated order.
func (s *EventService) ListDistinctByProject(ctx context.Context) ([]*entity.Event, error) {
	// version is read before the rows; a write in between leaves the saved
	// entry already outdated
	cached, version, ok := s.Calendar.Load(ctx)
	if ok {
		return cached, nil
	}

	all, err := s.Events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("application.EventService.ListDistinctByProject: %w", err)
	}
	out := DistinctByProject(all)

	s.Calendar.Save(ctx, version, out)
	return out, nil
}

// DistinctByProject keeps the first event seen for each project id.
func DistinctByProject(events []*entity.Event) []*entity.Event {
	seen := make(map[string]struct{}, len(events))
	out := make([]*entity.Event, 0, len(events))
	for _, e := range events {
		if _, ok := seen[e.ProjectID]; ok {
			continue
		}
		seen[e.ProjectID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// AttachImage stores the event image. The creator of the event and the
// coordinator of its project may do so.
func (s *EventService) AttachImage(ctx context.Context, actorID, ref, name string, data []byte) (string, error) {
	const op = "application.EventService.AttachImage"

	e, err := findEvent(ctx, s.Events, ref)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !canManageEvent(e, actorID) {
		return "", fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}
	blobRef, err := s.Blobs.Store(ctx, repo.KindEvents, e.ID, name, data)
	s.Metrics.ObserveBlobWrite(repo.KindEvents, err)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Events.SetImage(ctx, e.ID, blobRef); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.Calendar.Invalidate(ctx)
	return blobRef, nil
}

// SearchEvents runs a free-text query; empty when search is disabled.
func (s *EventService) SearchEvents(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Search == nil || strings.TrimSpace(q) == "" {
		return []map[string]any{}, nil
	}
	hits, err := s.Search.SearchEvents(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("application.EventService.SearchEvents: %w", err)
	}
	return hits, nil
}

func canManageEvent(e *entity.Event, actorID string) bool {
	if actorID == "" {
		return false
	}
	if e.CreatedBy == actorID {
		return true
	}
	return e.Project != nil && e.Project.CoordinatorID == actorID
}
