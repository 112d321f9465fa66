package handlers

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/oksasatya/community-events/internal/domain/apperr"
)

// imageRequest is the upload body shared by every image endpoint.
type imageRequest struct {
	Image string `json:"image" binding:"required"`
	Name  string `json:"name"`
}

// decode returns the raw bytes and the logical name, defaulting to def.
// A data URI prefix such as "data:image/png;base64," is accepted.
func (r imageRequest) decode(def string) (string, []byte, error) {
	payload := r.Image
	if strings.HasPrefix(payload, "data:") {
		if i := strings.Index(payload, ","); i >= 0 {
			payload = payload[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", nil, fmt.Errorf("image: %w", apperr.ErrValidation)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("image: empty: %w", apperr.ErrValidation)
	}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = def
	}
	return name, data, nil
}
