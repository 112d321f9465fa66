package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	repo "github.com/oksasatya/community-events/internal/domain/repository"
	"github.com/oksasatya/community-events/pkg/metrics"
)

type ProjectService struct {
	Projects repo.ProjectRepository
	Users    repo.UserRepository
	Blobs    repo.BlobStore
	Search   SearchIndex
	Calendar *CalendarCache
	Metrics  *metrics.Metrics
	Logger   *logrus.Logger
}

func NewProjectService(projects repo.ProjectRepository, users repo.UserRepository, blobs repo.BlobStore, search SearchIndex, calendar *CalendarCache, m *metrics.Metrics, logger *logrus.Logger) *ProjectService {
	return &ProjectService{
		Projects: projects,
		Users:    users,
		Blobs:    blobs,
		Search:   search,
		Calendar: calendar,
		Metrics:  m,
		Logger:   logger,
	}
}

type CreateProjectInput struct {
	Name        string
	Theme       string
	City        string
	Description string
	Email       string
	Phone       string
	Org         string
	Facebook    string
	Instagram   string
}

// Create registers a project coordinated by the acting user.
func (s *ProjectService) Create(ctx context.Context, actorID string, in CreateProjectInput) (*entity.Project, error) {
	const op = "application.ProjectService.Create"

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%s: name: %w", op, apperr.ErrValidation)
	}
	coordinator, err := s.Users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%s: acting user: %w", op, apperr.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.Projects.GetByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrDuplicateIdentity)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := &entity.Project{
		ID:            uuid.NewString(),
		Name:          name,
		Theme:         strings.TrimSpace(in.Theme),
		City:          strings.TrimSpace(in.City),
		Description:   in.Description,
		Email:         strings.TrimSpace(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		Org:           strings.TrimSpace(in.Org),
		Facebook:      strings.TrimSpace(in.Facebook),
		Instagram:     strings.TrimSpace(in.Instagram),
		CoordinatorID: coordinator.ID,
	}
	if err := s.Blobs.Provision(ctx, repo.KindProjects, p.ID); err != nil {
		return nil, fmt.Errorf("%s: provision: %w", op, err)
	}
	if err := s.Projects.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	coordinator.Password = ""
	p.Coordinator = coordinator

	s.index(ctx, p)
	if s.Logger != nil {
		s.Logger.WithField("project_id", p.ID).WithField("coordinator_id", p.CoordinatorID).Info("project created")
	}
	return p, nil
}

// FindByName resolves a project by name, falling back to its id.
func (s *ProjectService) FindByName(ctx context.Context, ref string) (*entity.Project, error) {
	p, err := findProject(ctx, s.Projects, ref)
	if err != nil {
		return nil, fmt.Errorf("application.ProjectService.FindByName: %w", err)
	}
	return p, nil
}

// ListAll returns every project, newest first.
func (s *ProjectService) ListAll(ctx context.Context) ([]*entity.Project, error) {
	list, err := s.Projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("application.ProjectService.ListAll: %w", err)
	}
	return list, nil
}

// AttachImage stores an image for the project and records it either as the
// cover or in the gallery. Storing under an existing name overwrites it.
func (s *ProjectService) AttachImage(ctx context.Context, actorID, ref, name string, data []byte, gallery bool) (string, error) {
	const op = "application.ProjectService.AttachImage"

	p, err := findProject(ctx, s.Projects, ref)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if p.CoordinatorID != actorID {
		return "", fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}
	blobRef, err := s.Blobs.Store(ctx, repo.KindProjects, p.ID, name, data)
	s.Metrics.ObserveBlobWrite(repo.KindProjects, err)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if gallery {
		err = s.Projects.AppendImage(ctx, p.ID, blobRef)
	} else {
		err = s.Projects.SetImage(ctx, p.ID, blobRef)
		p.ImageURL = blobRef
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.Calendar.Invalidate(ctx)
	if !gallery {
		s.index(ctx, p)
	}
	return blobRef, nil
}

// SearchProjects runs a free-text query; empty when search is disabled.
func (s *ProjectService) SearchProjects(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Search == nil || strings.TrimSpace(q) == "" {
		return []map[string]any{}, nil
	}
	hits, err := s.Search.SearchProjects(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("application.ProjectService.SearchProjects: %w", err)
	}
	return hits, nil
}

func (s *ProjectService) index(ctx context.Context, p *entity.Project) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProject(ctx, p); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("project_id", p.ID).Warn("index project failed")
	}
}
