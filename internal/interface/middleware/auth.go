package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/pkg/helpers"
	"github.com/oksasatya/community-events/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

type errorBody struct {
	Kind string `json:"kind"`
}

// Auth validates the access token from the Authorization header or the
// access_token cookie. It sets userID and userEmail in the Gin context on
// success and aborts with 401 otherwise.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if v, err := c.Cookie(helpers.AccessCookie); err == nil {
				token = v
			}
		}
		if token == "" {
			unauthenticated(c, "missing access token")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			unauthenticated(c, "invalid access token")
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func unauthenticated(c *gin.Context, msg string) {
	response.Abort(c, http.StatusUnauthorized, msg, errorBody{Kind: apperr.KindUnauthenticated})
}
