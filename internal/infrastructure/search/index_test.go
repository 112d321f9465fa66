package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/community-events/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

// fakeES answers like an Elasticsearch node and records what it was sent.
func fakeES(t *testing.T, searchResponse string) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/" {
			_, _ = io.WriteString(w, `{"version":{"number":"8.19.0"},"tagline":"You Know, for Search"}`)
			return
		}

		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		mu.Lock()
		reqs = append(reqs, recorded{method: r.Method, path: r.URL.Path, body: body})
		mu.Unlock()

		if strings.HasSuffix(r.URL.Path, "/_search") {
			_, _ = io.WriteString(w, searchResponse)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}))
	t.Cleanup(srv.Close)

	es, err := NewClient([]string{srv.URL}, "", "")
	require.NoError(t, err)
	return es, &reqs
}

func TestIndex_IndexEvent(t *testing.T) {
	es, reqs := fakeES(t, "")
	idx := NewIndex(es, "projects", "events", nil)

	e := &entity.Event{
		ID:        "e1",
		Name:      "Cleanup",
		City:      "Kyiv",
		Date:      time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC),
		ProjectID: "p1",
		Project:   &entity.Project{ID: "p1", Name: "Greenly"},
	}
	require.NoError(t, idx.IndexEvent(context.Background(), e))

	require.Len(t, *reqs, 1)
	got := (*reqs)[0]
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/events/_doc/e1", got.path)
	assert.Equal(t, "Greenly", got.body["project_name"])
	assert.Equal(t, "2024-05-01T18:00:00Z", got.body["date"])
}

func TestIndex_SearchProjects(t *testing.T) {
	es, reqs := fakeES(t, `{"hits":{"hits":[{"_id":"p1","_source":{"id":"p1","name":"Greenly"}}]}}`)
	idx := NewIndex(es, "projects", "events", nil)

	hits, err := idx.SearchProjects(context.Background(), "green", 500)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Greenly", hits[0]["name"])

	require.Len(t, *reqs, 1)
	assert.Equal(t, "/projects/_search", (*reqs)[0].path)
	assert.EqualValues(t, defaultSize, (*reqs)[0].body["size"])
}

func TestIndex_Disabled(t *testing.T) {
	var idx *Index
	assert.NoError(t, idx.IndexProject(context.Background(), &entity.Project{ID: "p1"}))

	hits, err := NewIndex(nil, "projects", "events", nil).SearchEvents(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
