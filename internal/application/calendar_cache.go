package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/domain/entity"
	"github.com/oksasatya/community-events/pkg/helpers"
)

const (
	CalendarCacheKey   = "events:latest"
	CalendarVersionKey = "events:latest:version"
	CalendarCacheTTL   = time.Minute
)

// CalendarCache holds the latest-event-per-project listing in Redis.
// Every entry is stamped with the version current when its source rows were
// read; Invalidate bumps the version, so an entry computed before a write is
// never served after it. A nil cache or nil client disables caching.
type CalendarCache struct {
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewCalendarCache(rdb *redis.Client, logger *logrus.Logger) *CalendarCache {
	return &CalendarCache{Redis: rdb, Logger: logger}
}

type calendarEntry struct {
	Version int64           `json:"version"`
	Events  []*entity.Event `json:"events"`
}

func (c *CalendarCache) enabled() bool { return c != nil && c.Redis != nil }

func (c *CalendarCache) version(ctx context.Context) (int64, error) {
	v, err := c.Redis.Get(ctx, CalendarVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Load returns the cached listing when it matches the current version. The
// returned version must be passed to Save after recomputing on a miss.
func (c *CalendarCache) Load(ctx context.Context) ([]*entity.Event, int64, bool) {
	if !c.enabled() {
		return nil, 0, false
	}
	v, err := c.version(ctx)
	if err != nil {
		c.warn(err, "calendar cache version read failed")
		return nil, 0, false
	}
	var entry calendarEntry
	ok, err := helpers.RedisGetJSON(ctx, c.Redis, CalendarCacheKey, &entry)
	if err != nil {
		c.warn(err, "calendar cache read failed")
		return nil, v, false
	}
	if !ok || entry.Version != v {
		return nil, v, false
	}
	return entry.Events, v, true
}

// Save stores events computed from rows read under version.
func (c *CalendarCache) Save(ctx context.Context, version int64, events []*entity.Event) {
	if !c.enabled() {
		return
	}
	entry := calendarEntry{Version: version, Events: events}
	if err := helpers.RedisSetJSON(ctx, c.Redis, CalendarCacheKey, entry, CalendarCacheTTL); err != nil {
		c.warn(err, "calendar cache write failed")
	}
}

// Invalidate is called after any write that changes events or the projects
// they embed.
func (c *CalendarCache) Invalidate(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.Redis.Incr(ctx, CalendarVersionKey).Err(); err != nil {
		c.warn(err, "calendar cache version bump failed")
	}
	if err := helpers.RedisDel(ctx, c.Redis, CalendarCacheKey); err != nil {
		c.warn(err, "calendar cache invalidation failed")
	}
}

func (c *CalendarCache) warn(err error, msg string) {
	if c.Logger != nil {
		c.Logger.WithError(err).WithField("key", CalendarCacheKey).Warn(msg)
	}
}
