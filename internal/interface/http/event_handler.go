package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/application"
	"github.com/oksasatya/community-events/pkg/response"
)

type EventHandler struct {
	Events *application.EventService
	Logger *logrus.Logger
}

func NewEventHandler(events *application.EventService, logger *logrus.Logger) *EventHandler {
	return &EventHandler{Events: events, Logger: logger}
}

type createEventRequest struct {
	Project     string `json:"project" binding:"required"`
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
	City        string `json:"city"`
	Address     string `json:"address"`
	Day         string `json:"day" binding:"required,day"`
	Time        string `json:"time" binding:"required,clock"`
	RegURL      string `json:"reg_url" binding:"omitempty,url"`
}

// Create POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteBindError(c, err)
		return
	}
	e, err := h.Events.Create(c.Request.Context(), actorID(c), application.CreateEventInput{
		ProjectName: req.Project,
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Address:     req.Address,
		Day:         req.Day,
		Time:        req.Time,
		RegURL:      req.RegURL,
	})
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusCreated, gin.H{"id": e.ID}, "event created", nil)
}

// List GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	list, err := h.Events.ListAll(c.Request.Context())
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.List(c, toEventViews(list), "events")
}

// Calendar GET /api/calendar lists the latest event of each project.
func (h *EventHandler) Calendar(c *gin.Context) {
	list, err := h.Events.ListDistinctByProject(c.Request.Context())
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.List(c, toEventViews(list), "calendar")
}

// Find GET /api/events/:ref
func (h *EventHandler) Find(c *gin.Context) {
	e, err := h.Events.FindByName(c.Request.Context(), c.Param("ref"))
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toEventView(e), "event", nil)
}

// AttachImage POST /api/events/:ref/image
func (h *EventHandler) AttachImage(c *gin.Context) {
	var req imageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		WriteBindError(c, err)
		return
	}
	name, data, err := req.decode("poster")
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	ref, err := h.Events.AttachImage(c.Request.Context(), actorID(c), c.Param("ref"), name, data)
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"image_url": ref}, "image stored", nil)
}
