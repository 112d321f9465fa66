package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/repository"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(t.TempDir(), nil)
	require.NoError(t, err)
	return s
}

func readAll(t *testing.T, b *repository.Blob) []byte {
	t.Helper()
	defer b.Body.Close()
	data, err := io.ReadAll(b.Body)
	require.NoError(t, err)
	return data
}

func TestLocalStore_StoreRetrieve(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Provision(ctx, repository.KindUsers, "u1"))

	ref, err := s.Store(ctx, repository.KindUsers, "u1", "avatar", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "users/u1/avatar.jpg", ref)

	b, err := s.Retrieve(ctx, repository.KindUsers, "u1", "avatar.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/png", b.ContentType)
	assert.Equal(t, pngHeader, readAll(t, b))

	// the logical name without extension resolves too
	b, err = s.Retrieve(ctx, repository.KindUsers, "u1", "avatar")
	require.NoError(t, err)
	assert.Equal(t, ref, b.Reference)
	assert.Equal(t, pngHeader, readAll(t, b))
}

func TestLocalStore_SameLogicalNameOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	jpeg := []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")

	first, err := s.Store(ctx, repository.KindProjects, "p1", "cover", jpeg)
	require.NoError(t, err)
	second, err := s.Store(ctx, repository.KindProjects, "p1", "cover", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	b, err := s.Retrieve(ctx, repository.KindProjects, "p1", "cover")
	require.NoError(t, err)
	assert.Equal(t, "image/png", b.ContentType)
	assert.Equal(t, pngHeader, readAll(t, b))

	entries, err := os.ReadDir(filepath.Join(s.root, repository.KindProjects, "p1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStore_RetrievePrefersBareSlot(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, err := s.Store(ctx, repository.KindEvents, "e1", "poster.gif", []byte("gif"))
	require.NoError(t, err)
	_, err = s.Store(ctx, repository.KindEvents, "e1", "poster", pngHeader)
	require.NoError(t, err)

	b, err := s.Retrieve(ctx, repository.KindEvents, "e1", "poster")
	require.NoError(t, err)
	assert.Equal(t, "events/e1/poster.jpg", b.Reference)
	assert.Equal(t, pngHeader, readAll(t, b))
}

func TestLocalStore_ExplicitExtensionKept(t *testing.T) {
	s := newStore(t)
	ref, err := s.Store(context.Background(), repository.KindProjects, "p1", "cover.jpeg", []byte("not really a jpeg"))
	require.NoError(t, err)
	assert.Equal(t, "projects/p1/cover.jpeg", ref)
}

func TestLocalStore_RetrieveMissing(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Retrieve(ctx, repository.KindEvents, "nobody", "x.png")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, s.Provision(ctx, repository.KindEvents, "e1"))
	_, err = s.Retrieve(ctx, repository.KindEvents, "e1", "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLocalStore_Replace(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	ref, err := s.Store(ctx, repository.KindUsers, "u1", "avatar.bin", []byte("old"))
	require.NoError(t, err)
	require.NoError(t, s.Replace(ctx, ref, []byte("new")))

	b, err := s.Retrieve(ctx, repository.KindUsers, "u1", "avatar.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), readAll(t, b))

	err = s.Replace(ctx, "users/u1/missing.bin", []byte("x"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLocalStore_RejectsEscapes(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Store(ctx, repository.KindUsers, "..", "x.png", pngHeader)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = s.Store(ctx, repository.KindUsers, "u1", "../../etc.png", pngHeader)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = s.Store(ctx, "secrets", "u1", "x.png", pngHeader)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = s.Retrieve(ctx, repository.KindUsers, "u1", "..")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.ErrorIs(t, s.Replace(ctx, "users/../x.png", nil), apperr.ErrValidation)
}

func TestLocalStore_ConcurrentWritesLastWriterWins(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	payloads := make([][]byte, 8)
	for i := range payloads {
		payloads[i] = bytes.Repeat([]byte(fmt.Sprintf("%d", i)), 4096)
	}

	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p []byte) {
			defer wg.Done()
			_, err := s.Store(ctx, repository.KindEvents, "e1", "img.bin", p)
			assert.NoError(t, err)
		}(p)
	}
	wg.Wait()

	b, err := s.Retrieve(ctx, repository.KindEvents, "e1", "img.bin")
	require.NoError(t, err)
	got := readAll(t, b)
	assert.Contains(t, payloads, got)

	entries, err := os.ReadDir(filepath.Join(s.root, repository.KindEvents, "e1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestParseReference(t *testing.T) {
	kind, owner, file, err := ParseReference("events/e1/a.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"events", "e1", "a.png"}, []string{kind, owner, file})

	_, _, _, err = ParseReference("events/a.png")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
