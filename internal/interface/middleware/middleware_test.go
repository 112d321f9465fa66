package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/community-events/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authEngine(jwt *helpers.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString(CtxUserIDKey), "email": c.GetString(CtxUserEmailKey)})
	})
	return r
}

func TestAuth_BearerAndCookie(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	token, _, err := jwt.GenerateAccessToken("u1", "alice@example.com")
	require.NoError(t, err)
	r := authEngine(jwt)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"u1","email":"alice@example.com"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookie, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_Rejects(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	other := helpers.NewJWTManager("other", time.Hour)
	foreign, _, err := other.GenerateAccessToken("u1", "alice@example.com")
	require.NoError(t, err)
	r := authEngine(jwt)

	for name, header := range map[string]string{
		"missing":      "",
		"garbage":      "Bearer not-a-token",
		"wrong secret": "Bearer " + foreign,
		"wrong scheme": "Basic " + foreign,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusUnauthorized, w.Code)

			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Kind string `json:"kind"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, "Unauthenticated", body.Error.Kind)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	const id = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())
}

func TestRealIPAndAllowPrivate(t *testing.T) {
	allow := AllowPrivateIP()
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ip": c.GetString("real_ip"), "private": allow(c)})
	})

	cases := []struct {
		header, value, ip string
		private           bool
	}{
		{"CF-Connecting-IP", "203.0.113.7", "203.0.113.7", false},
		{"X-Forwarded-For", "10.1.2.3, 203.0.113.9", "10.1.2.3", true},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(tc.header, tc.value)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var body struct {
			IP      string `json:"ip"`
			Private bool   `json:"private"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.ip, body.IP)
		assert.Equal(t, tc.private, body.Private)
	}
}

func TestRateLimit_NoRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestKeyFuncs(t *testing.T) {
	r := gin.New()
	var keys []string
	r.GET("/projects/:ref", func(c *gin.Context) {
		c.Set("real_ip", "198.51.100.1")
		keys = append(keys, KeyByIP()(c), KeyByIPAndPath()(c), KeyByUserID()(c))
		c.Set(CtxUserIDKey, "u1")
		keys = append(keys, KeyByUserID()(c))
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/projects/greenly", nil))
	assert.Equal(t, []string{
		"rl:ip:198.51.100.1",
		"rl:path:/projects/:ref:ip:198.51.100.1",
		"rl:user:anon:ip:198.51.100.1",
		"rl:user:u1",
	}, keys)
}
