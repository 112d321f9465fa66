package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

// LocalStore keeps blobs under a root directory on disk.
type LocalStore struct {
	root   string
	logger *logrus.Logger
}

func NewLocalStore(root string, logger *logrus.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob.NewLocalStore: %w", err)
	}
	return &LocalStore{root: root, logger: logger}, nil
}

func (s *LocalStore) dir(kind, ownerID string) string {
	return filepath.Join(s.root, kind, ownerID)
}

func (s *LocalStore) Provision(_ context.Context, kind, ownerID string) error {
	const op = "blob.LocalStore.Provision"
	if err := checkNamespace(kind, ownerID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.MkdirAll(s.dir(kind, ownerID), 0o755); err != nil {
		return fmt.Errorf("%s: %w: %v", op, apperr.ErrIO, err)
	}
	return nil
}

func (s *LocalStore) Store(_ context.Context, kind, ownerID, name string, data []byte) (string, error) {
	const op = "blob.LocalStore.Store"
	if err := checkKey(kind, ownerID, name); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	dir := s.dir(kind, ownerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, apperr.ErrIO, err)
	}
	file := fileName(name)
	if err := writeAtomic(dir, file, data); err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, apperr.ErrIO, err)
	}
	ref := Reference(kind, ownerID, file)
	if s.logger != nil {
		s.logger.WithField("ref", ref).WithField("size", len(data)).Debug("blob stored")
	}
	return ref, nil
}

func (s *LocalStore) Replace(_ context.Context, ref string, data []byte) error {
	const op = "blob.LocalStore.Replace"
	kind, ownerID, file, err := ParseReference(ref)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	dir := s.dir(kind, ownerID)
	p := filepath.Join(dir, file)
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %s: %w", op, ref, apperr.ErrNotFound)
		}
		return fmt.Errorf("%s: %w: %v", op, apperr.ErrIO, err)
	}
	if err := os.Remove(p); err != nil {
		return fmt.Errorf("%s: remove: %w: %v", op, apperr.ErrIO, err)
	}
	if err := writeAtomic(dir, file, data); err != nil {
		return fmt.Errorf("%s: write: %w: %v", op, apperr.ErrIO, err)
	}
	return nil
}

func (s *LocalStore) Retrieve(_ context.Context, kind, ownerID, name string) (*repository.Blob, error) {
	const op = "blob.LocalStore.Retrieve"
	if err := checkKey(kind, ownerID, name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	dir := s.dir(kind, ownerID)
	file, err := resolveFile(dir, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p := filepath.Join(dir, file)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, apperr.ErrIO, err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w: %v", op, apperr.ErrIO, err)
	}
	contentType := "application/octet-stream"
	if mt, err := mimetype.DetectFile(p); err == nil {
		contentType = mt.String()
	}
	return &repository.Blob{
		Reference:   Reference(kind, ownerID, file),
		ContentType: contentType,
		Size:        st.Size(),
		Body:        f,
	}, nil
}

// resolveFile returns name if it exists in dir, then the slot a bare name is
// stored under, then the first file (by name) whose stem equals name.
func resolveFile(dir, name string) (string, error) {
	for _, candidate := range []string{name, fileName(name)} {
		if st, err := os.Stat(filepath.Join(dir, candidate)); err == nil && st.Mode().IsRegular() {
			return candidate, nil
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", apperr.ErrIO, err)
	}
	for _, e := range entries {
		if e.Type().IsRegular() && matchesLogical(e.Name(), name) {
			return e.Name(), nil
		}
	}
	return "", apperr.ErrNotFound
}

// writeAtomic writes through a temp file and renames it into place, so a
// reader never sees a partial blob and concurrent writers resolve to the
// last rename.
func writeAtomic(dir, file string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+file+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, filepath.Join(dir, file)); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

var _ repository.BlobStore = (*LocalStore)(nil)
