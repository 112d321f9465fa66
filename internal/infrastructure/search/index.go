// Package search mirrors projects and events into Elasticsearch and runs
// free-text queries over them.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/domain/entity"
)

const (
	defaultSize = 10
	maxSize     = 50
	timeout     = 3 * time.Second
)

type Index struct {
	ES            *elasticsearch.Client
	ProjectsIndex string
	EventsIndex   string
	Logger        *logrus.Logger
}

func NewIndex(es *elasticsearch.Client, projectsIndex, eventsIndex string, logger *logrus.Logger) *Index {
	return &Index{ES: es, ProjectsIndex: projectsIndex, EventsIndex: eventsIndex, Logger: logger}
}

func projectDoc(p *entity.Project) map[string]any {
	doc := map[string]any{
		"id":             p.ID,
		"name":           p.Name,
		"theme":          p.Theme,
		"city":           p.City,
		"description":    p.Description,
		"org":            p.Org,
		"image_url":      p.ImageURL,
		"coordinator_id": p.CoordinatorID,
		"created_at":     p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":     p.UpdatedAt.Format(time.RFC3339Nano),
	}
	return doc
}

func eventDoc(e *entity.Event) map[string]any {
	doc := map[string]any{
		"id":          e.ID,
		"name":        e.Name,
		"description": e.Description,
		"city":        e.City,
		"address":     e.Address,
		"date":        e.Date.Format(time.RFC3339),
		"reg_url":     e.RegURL,
		"image_url":   e.ImageURL,
		"project_id":  e.ProjectID,
		"updated_at":  e.UpdatedAt.Format(time.RFC3339Nano),
	}
	if e.Project != nil {
		doc["project_name"] = e.Project.Name
	}
	return doc
}

func (i *Index) IndexProject(ctx context.Context, p *entity.Project) error {
	return i.put(ctx, i.ProjectsIndex, p.ID, projectDoc(p))
}

func (i *Index) IndexEvent(ctx context.Context, e *entity.Event) error {
	return i.put(ctx, i.EventsIndex, e.ID, eventDoc(e))
}

// SearchProjects matches name, theme, city and description.
func (i *Index) SearchProjects(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return i.search(ctx, i.ProjectsIndex, q, size, []string{"name^3", "theme^2", "city", "description", "org"})
}

// SearchEvents matches name, city, address, description and project name.
func (i *Index) SearchEvents(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return i.search(ctx, i.EventsIndex, q, size, []string{"name^3", "project_name^2", "city", "address", "description"})
}

func (i *Index) put(ctx context.Context, index, id string, doc map[string]any) error {
	if i == nil || i.ES == nil || index == "" {
		return nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: index, DocumentID: id, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		if i.Logger != nil {
			i.Logger.WithError(err).WithField("index", index).WithField("id", id).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		if i.Logger != nil {
			i.Logger.WithField("status", res.Status()).WithField("index", index).WithField("id", id).Warn("es index response error")
		}
		return fmt.Errorf("es index %s/%s: %s", index, id, res.Status())
	}
	return nil
}

func (i *Index) search(ctx context.Context, index, q string, size int, fields []string) ([]map[string]any, error) {
	if i == nil || i.ES == nil || index == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > maxSize {
		size = defaultSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    fields,
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res, err := i.ES.Search(
		i.ES.Search.WithContext(c),
		i.ES.Search.WithIndex(index),
		i.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search %s: %s", index, res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
