package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/community-events/internal/interface/http"
	"github.com/oksasatya/community-events/pkg/helpers"
)

type ProjectModule struct {
	Handler *handlers.ProjectHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewProjectModule(h *handlers.ProjectHandler, jwt *helpers.JWTManager, rdb *redis.Client) *ProjectModule {
	return &ProjectModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	auth := protected(rg, m.JWT, m.Redis)
	{
		auth.POST("/projects", m.Handler.Create)
		auth.GET("/projects", m.Handler.List)
		auth.GET("/projects/:ref", m.Handler.Find)
		auth.POST("/projects/:ref/image", m.Handler.AttachImage)
		auth.POST("/projects/:ref/images", m.Handler.AttachGalleryImage)
		auth.POST("/projects/:ref/subscribe", m.Handler.Subscribe)
	}
}
