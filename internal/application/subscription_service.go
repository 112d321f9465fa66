package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/domain/entity"
	repo "github.com/oksasatya/community-events/internal/domain/repository"
	"github.com/oksasatya/community-events/pkg/metrics"
)

type SubscriptionService struct {
	Subscriptions repo.SubscriptionRepository
	Projects      repo.ProjectRepository
	Users         repo.UserRepository
	Notifier      *Notifier
	Calendar      *CalendarCache
	Metrics       *metrics.Metrics
	Logger        *logrus.Logger
}

func NewSubscriptionService(subs repo.SubscriptionRepository, projects repo.ProjectRepository, users repo.UserRepository, notifier *Notifier, calendar *CalendarCache, m *metrics.Metrics, logger *logrus.Logger) *SubscriptionService {
	return &SubscriptionService{
		Subscriptions: subs,
		Projects:      projects,
		Users:         users,
		Notifier:      notifier,
		Calendar:      calendar,
		Metrics:       m,
		Logger:        logger,
	}
}

// Subscribe links the acting user and the named project on both sides.
// Repeating it is a no-op. The updated project is returned.
func (s *SubscriptionService) Subscribe(ctx context.Context, actorID, projectRef string) (*entity.Project, error) {
	const op = "application.SubscriptionService.Subscribe"

	p, err := findProject(ctx, s.Projects, projectRef)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	updated, added, err := s.Subscriptions.Subscribe(ctx, actorID, p.ID)
	if err != nil {
		s.Metrics.ObserveSubscription("failed")
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", actorID).WithField("project_id", p.ID).Error("subscribe failed")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !added {
		s.Metrics.ObserveSubscription("existing")
		return updated, nil
	}
	s.Metrics.ObserveSubscription("added")
	s.Calendar.Invalidate(ctx)

	if s.Notifier != nil {
		if u, err := s.Users.GetByID(ctx, actorID); err == nil {
			s.Notifier.NewSubscriber(ctx, updated, u)
		}
	}
	return updated, nil
}
