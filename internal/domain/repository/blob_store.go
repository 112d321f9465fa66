package repository

import (
	"context"
	"io"
)

// Blob kinds, used as the first path segment of a reference.
const (
	KindUsers    = "users"
	KindProjects = "projects"
	KindEvents   = "events"
)

// Blob is an opened stored image.
type Blob struct {
	Reference   string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// BlobStore persists image bytes under "{kind}/{ownerID}/{file}".
// References returned by Store are the same relative path.
type BlobStore interface {
	// Provision creates the owner's namespace; calling it again is a no-op.
	Provision(ctx context.Context, kind, ownerID string) error
	// Store writes data under name, overwriting any previous content.
	Store(ctx context.Context, kind, ownerID, name string, data []byte) (string, error)
	// Replace swaps the content of an existing reference.
	Replace(ctx context.Context, ref string, data []byte) error
	// Retrieve opens a blob by file name or bare logical name.
	Retrieve(ctx context.Context, kind, ownerID, name string) (*Blob, error)
}
