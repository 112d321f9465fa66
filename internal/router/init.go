package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/community-events/internal/container"
	handlers "github.com/oksasatya/community-events/internal/interface/http"
	"github.com/oksasatya/community-events/internal/router/modules"
)

// InitModules builds the handlers from c and registers every module.
// Call once at startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	users := handlers.NewUserHandler(c.Identity, c.Logger, cfg.CookieDomain, cfg.CookieSecure)
	projects := handlers.NewProjectHandler(c.ProjectSvc, c.SubscriptionSvc, c.Logger)
	events := handlers.NewEventHandler(c.EventSvc, c.Logger)
	search := handlers.NewSearchHandler(c.ProjectSvc, c.EventSvc, c.Logger)
	images := handlers.NewImageHandler(c.Blobs, c.Logger)

	r.Add(modules.NewUserModule(users, c.JWT, c.Redis))
	r.Add(modules.NewProjectModule(projects, c.JWT, c.Redis))
	r.Add(modules.NewEventModule(events, c.JWT, c.Redis))
	r.Add(modules.NewSearchModule(search, c.JWT, c.Redis))
	r.Add(modules.NewImageModule(images, c.Redis))

	r.AddRoot(ModuleFunc(func(rg *gin.RouterGroup) {
		rg.GET("/healthz", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}))

	if c.Metrics != nil {
		r.Use(c.Metrics.Middleware())
		r.AddRoot(modules.NewMetricsModule(c.Metrics))
	}
}
