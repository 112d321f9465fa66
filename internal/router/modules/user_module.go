package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/community-events/internal/interface/http"
	"github.com/oksasatya/community-events/internal/interface/middleware"
	"github.com/oksasatya/community-events/pkg/helpers"
)

// UserModule wires identity routes.
// Public: POST /register, POST /authenticate, POST /logout
// Protected: POST /check-token, GET /profile, PUT /password,
// POST /users/:ref/image, PUT /profile/image
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/authenticate", loginLimiter, m.Handler.Authenticate)
	rg.POST("/logout", m.Handler.Logout)

	auth := protected(rg, m.JWT, m.Redis)
	{
		auth.POST("/check-token", m.Handler.CheckToken)
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/password", m.Handler.ChangePassword)
		auth.POST("/users/:ref/image", m.Handler.AttachImage)
		auth.PUT("/profile/image", m.Handler.ReplaceImage)
	}
}

// protected returns a group behind the auth check with per-IP and per-user limits.
func protected(rg *gin.RouterGroup, jwt *helpers.JWTManager, rdb *redis.Client) *gin.RouterGroup {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(jwt))
	auth.Use(
		middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	return auth
}
