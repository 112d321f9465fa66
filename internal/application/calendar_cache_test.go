package application

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/oksasatya/community-events/internal/domain/entity"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test: skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	addr, err := redisContainer.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

func TestCalendarCache_NilIsDisabled(t *testing.T) {
	ctx := context.Background()
	var c *CalendarCache
	_, _, ok := c.Load(ctx)
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		c.Save(ctx, 0, nil)
		c.Invalidate(ctx)
	})

	c = NewCalendarCache(nil, nil)
	_, _, ok = c.Load(ctx)
	assert.False(t, ok)
}

func TestCalendarCache_StaleWriteBackIgnored(t *testing.T) {
	ctx := context.Background()
	c := NewCalendarCache(setupTestRedis(t), nil)

	_, version, ok := c.Load(ctx)
	require.False(t, ok)

	// a write lands between the reader's row load and its save
	c.Invalidate(ctx)
	c.Save(ctx, version, []*entity.Event{{ID: "old"}})

	_, _, ok = c.Load(ctx)
	assert.False(t, ok, "entry computed before the write must not be served")

	_, version, _ = c.Load(ctx)
	c.Save(ctx, version, []*entity.Event{{ID: "fresh"}})
	got, _, ok := c.Load(ctx)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].ID)
}

func TestEvent_CalendarRefreshedByProjectWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixtureWithRedis(t, setupTestRedis(t))
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	f.project(t, alice.ID, "Greenly")
	f.event(t, alice.ID, "Greenly", "Cleanup")

	list, err := f.events.ListDistinctByProject(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Project)
	assert.Empty(t, list[0].Project.Subscribers)

	_, err = f.subs.Subscribe(ctx, bob.ID, "Greenly")
	require.NoError(t, err)
	list, err = f.events.ListDistinctByProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob@example.com"}, list[0].Project.Subscribers)

	cover, err := f.projects.AttachImage(ctx, alice.ID, "Greenly", "cover", pngBytes, false)
	require.NoError(t, err)
	list, err = f.events.ListDistinctByProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, cover, list[0].Project.ImageURL)

	// a new event replaces the cached summary too
	f.event(t, alice.ID, "Greenly", "Planting")
	list, err = f.events.ListDistinctByProject(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Planting", list[0].Name)
}
