package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/community-events/internal/interface/http"
	"github.com/oksasatya/community-events/internal/interface/middleware"
)

// ImageModule serves stored images publicly; internal callers skip the limiter.
type ImageModule struct {
	Handler *handlers.ImageHandler
	Redis   *redis.Client
}

func NewImageModule(h *handlers.ImageHandler, rdb *redis.Client) *ImageModule {
	return &ImageModule{Handler: h, Redis: rdb}
}

func (m *ImageModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, 600, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/images/:kind/:owner/:file", rl, m.Handler.Fetch)
}
