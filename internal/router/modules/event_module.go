package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/community-events/internal/interface/http"
	"github.com/oksasatya/community-events/pkg/helpers"
)

type EventModule struct {
	Handler *handlers.EventHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewEventModule(h *handlers.EventHandler, jwt *helpers.JWTManager, rdb *redis.Client) *EventModule {
	return &EventModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	auth := protected(rg, m.JWT, m.Redis)
	{
		auth.POST("/events", m.Handler.Create)
		auth.GET("/events", m.Handler.List)
		auth.GET("/events/:ref", m.Handler.Find)
		auth.POST("/events/:ref/image", m.Handler.AttachImage)
		auth.GET("/calendar", m.Handler.Calendar)
	}
}
