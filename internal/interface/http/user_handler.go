package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/application"
	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/pkg/helpers"
	"github.com/oksasatya/community-events/pkg/response"
)

type UserHandler struct {
	Svc     *application.IdentityService
	Logger  *logrus.Logger
	Cookies *helpers.SessionCookie
}

func NewUserHandler(svc *application.IdentityService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: helpers.NewSessionCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"max=100"`
	Surname  string `json:"surname" binding:"max=100"`
	Phone    string `json:"phone" binding:"max=32"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,pwd"`
}

type authResponse struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	ImageURL  string    `json:"image_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register POST /api/register
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteBindError(c, err)
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Surname:  req.Surname,
		Phone:    req.Phone,
	})
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toUserView(u), "registered", nil)
}

// Authenticate POST /api/authenticate
func (h *UserHandler) Authenticate(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteBindError(c, err)
		return
	}
	res, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	h.Cookies.Set(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, authResponse{
		UserID:    res.UserID,
		Token:     res.Token,
		Email:     res.Email,
		ImageURL:  res.ImageURL,
		ExpiresAt: res.ExpiresAt,
	}, "authenticated", nil)
}

// Logout POST /api/logout
func (h *UserHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// CheckToken POST /api/check-token; reaching it means the token was accepted.
func (h *UserHandler) CheckToken(c *gin.Context) {
	response.Success[any](c, http.StatusOK, gin.H{
		"valid":   true,
		"user_id": actorID(c),
		"email":   c.GetString("userEmail"),
	}, "token valid", nil)
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), actorID(c))
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "profile", nil)
}

// ChangePassword PUT /api/password; a wrong old password answers correct=false.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteBindError(c, err)
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), actorID(c), req.OldPassword, req.NewPassword)
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		response.Success[any](c, http.StatusOK, gin.H{"correct": false}, "password unchanged", nil)
	case err != nil:
		WriteError(c, h.Logger, err)
	default:
		response.Success[any](c, http.StatusOK, gin.H{"correct": true}, "password changed", nil)
	}
}

// AttachImage POST /api/users/:ref/image
func (h *UserHandler) AttachImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteBindError(c, err)
		return
	}
	name, data, err := req.decode("avatar")
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	ref, err := h.Svc.AttachImage(c.Request.Context(), actorID(c), c.Param("ref"), name, data)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"image_url": ref}, "image stored", nil)
}

// ReplaceImage PUT /api/profile/image
func (h *UserHandler) ReplaceImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteBindError(c, err)
		return
	}
	_, data, err := req.decode("")
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	ref, err := h.Svc.ReplaceImage(c.Request.Context(), actorID(c), data)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"image_url": ref}, "image replaced", nil)
}
