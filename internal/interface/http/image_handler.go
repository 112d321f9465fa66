package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/community-events/internal/domain/repository"
)

type ImageHandler struct {
	Blobs  repo.BlobStore
	Logger *logrus.Logger
}

func NewImageHandler(blobs repo.BlobStore, logger *logrus.Logger) *ImageHandler {
	return &ImageHandler{Blobs: blobs, Logger: logger}
}

// Fetch GET /api/images/:kind/:owner/:file streams the stored bytes.
// file may be the exact stored name or the bare logical name.
func (h *ImageHandler) Fetch(c *gin.Context) {
	b, err := h.Blobs.Retrieve(c.Request.Context(), c.Param("kind"), c.Param("owner"), c.Param("file"))
	if err != nil {
		WriteError(c, h.Logger, err)
		return
	}
	defer b.Body.Close()
	c.Header("Cache-Control", "public, max-age=60")
	c.DataFromReader(http.StatusOK, b.Size, b.ContentType, b.Body, nil)
}
