package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/pkg/response"
	"github.com/oksasatya/community-events/pkg/validation"
)

// ErrorBody is the error member of a failure envelope.
type ErrorBody struct {
	Kind    string            `json:"kind"`
	Details map[string]string `json:"details,omitempty"`
}

var kindStatus = map[string]int{
	apperr.KindValidation:         http.StatusBadRequest,
	apperr.KindDuplicateIdentity:  http.StatusConflict,
	apperr.KindInvalidCredentials: http.StatusUnauthorized,
	apperr.KindUnauthenticated:    http.StatusUnauthorized,
	apperr.KindForbidden:          http.StatusForbidden,
	apperr.KindNotFound:           http.StatusNotFound,
	apperr.KindIO:                 http.StatusInternalServerError,
	apperr.KindPartialFailure:     http.StatusInternalServerError,
}

var kindMessage = map[string]string{
	apperr.KindValidation:         "invalid input",
	apperr.KindDuplicateIdentity:  "already exists",
	apperr.KindInvalidCredentials: "invalid credentials",
	apperr.KindUnauthenticated:    "unauthenticated",
	apperr.KindForbidden:          "forbidden",
	apperr.KindNotFound:           "not found",
	apperr.KindIO:                 "storage error",
	apperr.KindPartialFailure:     "update partially applied",
	apperr.KindInternal:           "internal error",
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind string) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WriteError renders err as a failure envelope. Server-side failures are
// logged with the wrapped chain; the client only sees the kind.
func WriteError(c *gin.Context, logger *logrus.Logger, err error) {
	kind := apperr.Kind(err)
	status := StatusFor(kind)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).
			WithField("request_id", c.GetString(response.RequestIDKey)).
			WithField("path", c.FullPath()).
			Error("request failed")
	}
	response.Error[any](c, status, kindMessage[kind], ErrorBody{Kind: kind})
}

// WriteBindError renders a binding failure as a validation error with field details.
func WriteBindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, kindMessage[apperr.KindValidation], ErrorBody{
		Kind:    apperr.KindValidation,
		Details: validation.ToDetails(err),
	})
}

// actorID is the user id set by middleware.Auth.
func actorID(c *gin.Context) string {
	return c.GetString("userID")
}
