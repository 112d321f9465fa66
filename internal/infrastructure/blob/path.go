// Package blob implements repository.BlobStore on the local filesystem and
// on Google Cloud Storage. Both lay blobs out as "{kind}/{ownerID}/{file}".
package blob

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

const defaultExt = ".jpg"

var kinds = map[string]bool{
	repository.KindUsers:    true,
	repository.KindProjects: true,
	repository.KindEvents:   true,
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." &&
		!strings.ContainsAny(s, `/\`) && !strings.HasPrefix(s, ".")
}

func checkNamespace(kind, ownerID string) error {
	if !kinds[kind] {
		return fmt.Errorf("unknown blob kind %q: %w", kind, apperr.ErrValidation)
	}
	if !validSegment(ownerID) {
		return fmt.Errorf("invalid owner id %q: %w", ownerID, apperr.ErrValidation)
	}
	return nil
}

func checkKey(kind, ownerID, name string) error {
	if err := checkNamespace(kind, ownerID); err != nil {
		return err
	}
	if !validSegment(name) {
		return fmt.Errorf("invalid blob name %q: %w", name, apperr.ErrValidation)
	}
	return nil
}

// fileName keeps an explicit extension and gives a bare logical name the
// fixed defaultExt, so each logical name maps to exactly one file whatever
// the payload type. Content type is detected when the blob is read.
func fileName(name string) string {
	if filepath.Ext(name) != "" {
		return name
	}
	return name + defaultExt
}

// Reference builds the relative reference stored on entities.
func Reference(kind, ownerID, file string) string {
	return path.Join(kind, ownerID, file)
}

// ParseReference splits a reference into its kind, owner and file.
func ParseReference(ref string) (kind, ownerID, file string, err error) {
	parts := strings.Split(strings.Trim(ref, "/"), "/")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("malformed blob reference %q: %w", ref, apperr.ErrValidation)
	}
	if err := checkKey(parts[0], parts[1], parts[2]); err != nil {
		return "", "", "", err
	}
	return parts[0], parts[1], parts[2], nil
}

// matchesLogical reports whether file is name with some extension.
func matchesLogical(file, name string) bool {
	ext := filepath.Ext(file)
	return ext != "" && strings.TrimSuffix(file, ext) == name
}
