package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	repo "github.com/oksasatya/community-events/internal/domain/repository"
)

// Publisher hands a JSON message to the notification queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// SearchIndex mirrors projects and events for free-text search.
type SearchIndex interface {
	IndexProject(ctx context.Context, p *entity.Project) error
	IndexEvent(ctx context.Context, e *entity.Event) error
	SearchProjects(ctx context.Context, q string, size int) ([]map[string]any, error)
	SearchEvents(ctx context.Context, q string, size int) ([]map[string]any, error)
}

// findProject looks a project up by name, then by id.
func findProject(ctx context.Context, projects repo.ProjectRepository, ref string) (*entity.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty project reference: %w", apperr.ErrValidation)
	}
	p, err := projects.GetByName(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	return projects.GetByID(ctx, ref)
}

// findEvent looks an event up by name, then by id.
func findEvent(ctx context.Context, events repo.EventRepository, ref string) (*entity.Event, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty event reference: %w", apperr.ErrValidation)
	}
	e, err := events.GetByName(ctx, ref)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	return events.GetByID(ctx, ref)
}

// findUser looks a user up by email when ref looks like one, else by id.
func findUser(ctx context.Context, users repo.UserRepository, ref string) (*entity.User, error) {
	ref = strings.TrimSpace(ref)
	if strings.Contains(ref, "@") {
		return users.GetByEmail(ctx, normalizeEmail(ref))
	}
	return users.GetByID(ctx, ref)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func fullName(u *entity.User) string {
	return strings.TrimSpace(u.Name + " " + u.Surname)
}
