package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/community-events/config"
	"github.com/oksasatya/community-events/internal/application"
	"github.com/oksasatya/community-events/internal/container"
	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/pkg/helpers"
)

const (
	demoEmail    = "coordinator@example.com"
	demoPassword = "password123"
	demoProject  = "Greenly"
)

// seed creates a demo coordinator, one project and one upcoming event
// through the services. Running it again leaves existing records alone.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize")
	}
	defer c.Close()

	u, err := c.Identity.Register(ctx, application.RegisterInput{
		Email:    demoEmail,
		Password: demoPassword,
		Name:     "Demo",
		Surname:  "Coordinator",
	})
	if errors.Is(err, apperr.ErrDuplicateIdentity) {
		u, err = c.Identity.GetProfile(ctx, demoEmail)
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to seed user")
	}
	logger.WithField("user_id", u.ID).WithField("email", u.Email).WithField("password", demoPassword).Info("seeded user")

	p, err := c.ProjectSvc.Create(ctx, u.ID, application.CreateProjectInput{
		Name:        demoProject,
		Theme:       "ecology",
		City:        "Kyiv",
		Description: "Neighbourhood clean-ups and tree planting.",
		Email:       demoEmail,
	})
	if errors.Is(err, apperr.ErrDuplicateIdentity) {
		logger.WithField("project", demoProject).Info("project already seeded")
		return
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to seed project")
	}
	logger.WithField("project_id", p.ID).Info("seeded project")

	day := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	e, err := c.EventSvc.Create(ctx, u.ID, application.CreateEventInput{
		ProjectName: demoProject,
		Name:        "Spring clean-up",
		City:        "Kyiv",
		Address:     "Shevchenko park",
		Day:         day,
		Time:        "10:00",
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to seed event")
	}
	logger.WithField("event_id", e.ID).WithField("date", e.Date).Info("seeded event")
}
