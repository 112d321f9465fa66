package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/application"
	"github.com/oksasatya/community-events/pkg/response"
)

type ProjectHandler struct {
	Projects      *application.ProjectService
	Subscriptions *application.SubscriptionService
	Logger        *logrus.Logger
}

func NewProjectHandler(projects *application.ProjectService, subs *application.SubscriptionService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Subscriptions: subs, Logger: logger}
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Theme       string `json:"theme"`
	City        string `json:"city"`
	Description string `json:"description"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone" binding:"max=32"`
	Org         string `json:"org"`
	Facebook    string `json:"facebook" binding:"omitempty,url"`
	Instagram   string `json:"instagram" binding:"omitempty,url"`
}

// Create POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteBindError(c, err)
		return
	}
	p, err := h.Projects.Create(c.Request.Context(), actorID(c), application.CreateProjectInput{
		Name:        req.Name,
		Theme:       req.Theme,
		City:        req.City,
		Description: req.Description,
		Email:       req.Email,
		Phone:       req.Phone,
		Org:         req.Org,
		Facebook:    req.Facebook,
		Instagram:   req.Instagram,
	})
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusCreated, gin.H{"id": p.ID}, "project created", nil)
}

// List GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	list, err := h.Projects.ListAll(c.Request.Context())
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.List(c, toProjectViews(list), "projects")
}

// Find GET /api/projects/:ref
func (h *ProjectHandler) Find(c *gin.Context) {
	p, err := h.Projects.FindByName(c.Request.Context(), c.Param("ref"))
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProjectView(p), "project", nil)
}

// AttachImage POST /api/projects/:ref/image
func (h *ProjectHandler) AttachImage(c *gin.Context) {
	h.attach(c, "cover", false)
}

// AttachGalleryImage POST /api/projects/:ref/images; unnamed uploads get a fresh name.
func (h *ProjectHandler) AttachGalleryImage(c *gin.Context) {
	h.attach(c, uuid.NewString(), true)
}

func (h *ProjectHandler) attach(c *gin.Context, defName string, gallery bool) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteBindError(c, err)
		return
	}
	name, data, err := req.decode(defName)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	ref, err := h.Projects.AttachImage(c.Request.Context(), actorID(c), c.Param("ref"), name, data, gallery)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"image_url": ref}, "image stored", nil)
}

// Subscribe POST /api/projects/:ref/subscribe
func (h *ProjectHandler) Subscribe(c *gin.Context) {
	p, err := h.Subscriptions.Subscribe(c.Request.Context(), actorID(c), c.Param("ref"))
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProjectView(p), "subscribed", nil)
}
