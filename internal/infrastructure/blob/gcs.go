package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// GCSStore keeps blobs as objects in a single bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(client *storage.Client, bucket string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket}
}

// Provision only validates the namespace; object storage has no directories.
func (s *GCSStore) Provision(_ context.Context, kind, ownerID string) error {
	if err := checkNamespace(kind, ownerID); err != nil {
		return fmt.Errorf("blob.GCSStore.Provision: %w", err)
	}
	return nil
}

func (s *GCSStore) Store(ctx context.Context, kind, ownerID, name string, data []byte) (string, error) {
	const op = "blob.GCSStore.Store"
	if err := checkKey(kind, ownerID, name); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	ref := Reference(kind, ownerID, fileName(name))
	if err := s.upload(ctx, ref, data); err != nil {
		return "", fmt.Errorf("%s: %w: %v", op, apperr.ErrIO, err)
	}
	return ref, nil
}

func (s *GCSStore) Replace(ctx context.Context, ref string, data []byte) error {
	const op = "blob.GCSStore.Replace"
	if _, _, _, err := ParseReference(ref); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	obj := s.client.Bucket(s.bucket).Object(ref)
	if err := obj.Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("%s: %s: %w", op, ref, apperr.ErrNotFound)
		}
		return fmt.Errorf("%s: delete: %w: %v", op, apperr.ErrIO, err)
	}
	if err := s.upload(ctx, ref, data); err != nil {
		return fmt.Errorf("%s: write: %w: %v", op, apperr.ErrIO, err)
	}
	return nil
}

func (s *GCSStore) Retrieve(ctx context.Context, kind, ownerID, name string) (*repository.Blob, error) {
	const op = "blob.GCSStore.Retrieve"
	if err := checkKey(kind, ownerID, name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	bkt := s.client.Bucket(s.bucket)
	ref := Reference(kind, ownerID, name)
	r, err := bkt.Object(ref).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) && fileName(name) != name {
		ref = Reference(kind, ownerID, fileName(name))
		r, err = bkt.Object(ref).NewReader(ctx)
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		ref, err = s.lookup(ctx, kind, ownerID, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		r, err = bkt.Object(ref).NewReader(ctx)
	}
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, apperr.ErrIO, err)
	}
	return &repository.Blob{
		Reference:   ref,
		ContentType: r.Attrs.ContentType,
		Size:        r.Attrs.Size,
		Body:        r,
	}, nil
}

// lookup finds an object stored under name with any extension.
func (s *GCSStore) lookup(ctx context.Context, kind, ownerID, name string) (string, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: Reference(kind, ownerID, name) + "."})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return "", apperr.ErrNotFound
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", apperr.ErrIO, err)
		}
		_, _, file, perr := ParseReference(attrs.Name)
		if perr == nil && matchesLogical(file, name) {
			return attrs.Name, nil
		}
	}
}

func (s *GCSStore) upload(ctx context.Context, objectPath string, data []byte) error {
	wc := s.client.Bucket(s.bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = mimetype.Detect(data).String()
	wc.ChunkSize = 0 // small files, single request
	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

var _ repository.BlobStore = (*GCSStore)(nil)
