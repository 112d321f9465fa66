package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/application"
	"github.com/oksasatya/community-events/pkg/response"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

type SearchHandler struct {
	ProjectSvc *application.ProjectService
	EventSvc   *application.EventService
	Logger     *logrus.Logger
}

func NewSearchHandler(projects *application.ProjectService, events *application.EventService, logger *logrus.Logger) *SearchHandler {
	return &SearchHandler{ProjectSvc: projects, EventSvc: events, Logger: logger}
}

// Projects GET /api/search/projects?q=&size=
func (h *SearchHandler) Projects(c *gin.Context) {
	hits, err := h.ProjectSvc.SearchProjects(c.Request.Context(), c.Query("q"), searchSize(c))
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.List(c, hits, "projects")
}

// Events GET /api/search/events?q=&size=
func (h *SearchHandler) Events(c *gin.Context) {
	hits, err := h.EventSvc.SearchEvents(c.Request.Context(), c.Query("q"), searchSize(c))
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	response.List(c, hits, "events")
}

func searchSize(c *gin.Context) int {
	n, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSearchSize)))
	if err != nil || n <= 0 {
		return defaultSearchSize
	}
	if n > maxSearchSize {
		return maxSearchSize
	}
	return n
}
