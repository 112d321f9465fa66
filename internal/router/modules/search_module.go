package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/community-events/internal/interface/http"
	"github.com/oksasatya/community-events/internal/interface/middleware"
	"github.com/oksasatya/community-events/pkg/helpers"
)

type SearchModule struct {
	Handler *handlers.SearchHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewSearchModule(h *handlers.SearchHandler, jwt *helpers.JWTManager, rdb *redis.Client) *SearchModule {
	return &SearchModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *SearchModule) Register(rg *gin.RouterGroup) {
	auth := protected(rg, m.JWT, m.Redis)
	limiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), nil)
	{
		auth.GET("/search/projects", limiter, m.Handler.Projects)
		auth.GET("/search/events", limiter, m.Handler.Events)
	}
}
