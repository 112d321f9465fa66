// Package response renders the JSON envelope every endpoint answers with.
package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request-id middleware fills.
const RequestIDKey = "request_id"

type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

// ListMeta accompanies collection responses.
type ListMeta struct {
	Count int `json:"count"`
}

func envelope[T any](ctx *gin.Context, status int, message string) APIResponse[T] {
	return APIResponse[T]{
		Status:    status,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString(RequestIDKey),
		Message:   message,
	}
}

// Success writes a successful envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := envelope[T](ctx, status, message)
	resp.Success = true
	resp.Data = data
	resp.Meta = meta
	ctx.JSON(status, resp)
	return resp
}

// List writes a 200 envelope for items with their count in meta.
func List[T any](ctx *gin.Context, items []T, message string) APIResponse[[]T] {
	return Success(ctx, http.StatusOK, items, message, ListMeta{Count: len(items)})
}

// Error writes a failure envelope and returns it.
func Error[T any](ctx *gin.Context, status int, message string, err any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := envelope[T](ctx, status, message)
	resp.Error = err
	ctx.JSON(status, resp)
	return resp
}

// Abort writes a failure envelope and stops the handler chain.
func Abort(ctx *gin.Context, status int, message string, err any) {
	Error[any](ctx, status, message, err)
	ctx.Abort()
}
