package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AccessCookie carries the signed credential for browser clients.
const AccessCookie = "access_token"

// SessionCookie writes and clears the credential cookie. It is always
// HttpOnly; Secure follows the deployment.
type SessionCookie struct {
	Domain string
	Secure bool
}

func NewSessionCookie(domain string, secure bool) *SessionCookie {
	return &SessionCookie{Domain: domain, Secure: secure}
}

// Set stores token until exp.
func (s *SessionCookie) Set(c *gin.Context, token string, exp time.Time) {
	s.write(c, token, secondsUntil(exp))
}

// Clear expires the cookie immediately.
func (s *SessionCookie) Clear(c *gin.Context) {
	s.write(c, "", -1)
}

func (s *SessionCookie) write(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, value, maxAge, "/", s.Domain, s.Secure, true)
}

func secondsUntil(exp time.Time) int {
	if sec := int(time.Until(exp).Seconds()); sec > 0 {
		return sec
	}
	return 0
}
