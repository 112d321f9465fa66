// Package container builds the shared components once at startup. main
// owns the Container and hands it to the router; nothing here is global.
package container

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/config"
	"github.com/oksasatya/community-events/internal/application"
	repo "github.com/oksasatya/community-events/internal/domain/repository"
	"github.com/oksasatya/community-events/internal/infrastructure/blob"
	"github.com/oksasatya/community-events/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/community-events/internal/infrastructure/postgres"
	"github.com/oksasatya/community-events/internal/infrastructure/search"
	"github.com/oksasatya/community-events/pkg/helpers"
	"github.com/oksasatya/community-events/pkg/metrics"
)

type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	JWT     *helpers.JWTManager
	Metrics *metrics.Metrics

	// optional infrastructure, nil when not configured or unreachable
	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	GCS       *storage.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher

	Users         repo.UserRepository
	Projects      repo.ProjectRepository
	Events        repo.EventRepository
	Subscriptions repo.SubscriptionRepository
	Blobs         repo.BlobStore

	Identity        *application.IdentityService
	ProjectSvc      *application.ProjectService
	EventSvc        *application.EventService
	SubscriptionSvc *application.SubscriptionService
}

// New connects the configured drivers and builds the services. Call Close
// when done.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL),
	}
	if cfg.MetricsEnabled {
		c.Metrics = metrics.New()
	}

	if err := c.initRecords(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initBlobs(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.initRedis(ctx)
	c.initSearch()
	c.initPublisher()
	c.initServices()
	return c, nil
}

func (c *Container) initRecords(ctx context.Context) error {
	cfg := c.Config
	switch cfg.StorageDriver {
	case "memory":
		store := memory.New()
		c.Users, c.Projects, c.Events, c.Subscriptions = store.Users(), store.Projects(), store.Events(), store.Subscriptions()
		c.Logger.Warn("using in-memory storage; data is lost on restart")
		return nil
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.PGPool = pool
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		c.Users = pginfra.NewUserRepository(pool)
		c.Projects = pginfra.NewProjectRepository(pool)
		c.Events = pginfra.NewEventRepository(pool)
		c.Subscriptions = pginfra.NewSubscriptionRepository(pool)
		return nil
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}

func (c *Container) initBlobs(ctx context.Context) error {
	cfg := c.Config
	switch cfg.BlobDriver {
	case "local":
		s, err := blob.NewLocalStore(cfg.UploadsDir, c.Logger)
		if err != nil {
			return fmt.Errorf("local blob store: %w", err)
		}
		c.Blobs = s
		return nil
	case "gcs":
		if cfg.GCSBucket == "" {
			return fmt.Errorf("BLOB_DRIVER=gcs requires GCS_BUCKET")
		}
		client, err := blob.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return fmt.Errorf("gcs client: %w", err)
		}
		c.GCS = client
		c.Blobs = blob.NewGCSStore(client, cfg.GCSBucket)
		return nil
	default:
		return fmt.Errorf("unknown BLOB_DRIVER %q", cfg.BlobDriver)
	}
}

func (c *Container) initRedis(ctx context.Context) {
	if c.Config.RedisAddr == "" {
		return
	}
	rdb := helpers.NewRedisClient(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := helpers.PingRedis(ctx, rdb, 2*time.Second); err != nil {
		c.Logger.WithError(err).WithField("addr", c.Config.RedisAddr).Warn("redis unavailable; rate limiting and calendar cache disabled")
		_ = rdb.Close()
		return
	}
	c.Redis = rdb
}

func (c *Container) initSearch() {
	addrs := c.Config.ESAddrs()
	if len(addrs) == 0 {
		return
	}
	es, err := search.NewClient(addrs, c.Config.ElasticsearchUser, c.Config.ElasticsearchPass)
	if err != nil {
		c.Logger.WithError(err).Warn("elasticsearch unavailable; search disabled")
		return
	}
	c.ES = es
}

func (c *Container) initPublisher() {
	if !c.Config.NotifySendEnabled || c.Config.RabbitMQURL == "" {
		return
	}
	pub, err := helpers.NewRabbitPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQNotifyQueue)
	if err != nil {
		c.Logger.WithError(err).Warn("rabbitmq unavailable; notifications disabled")
		return
	}
	c.RabbitPub = pub
}

func (c *Container) initServices() {
	var index application.SearchIndex
	if c.ES != nil {
		index = search.NewIndex(c.ES, c.Config.ESProjectsIndex, c.Config.ESEventsIndex, c.Logger)
	}
	var pub application.Publisher
	if c.RabbitPub != nil {
		pub = c.RabbitPub
	}
	notifier := application.NewNotifier(pub, c.Config, c.Metrics, c.Logger)

	calendar := application.NewCalendarCache(c.Redis, c.Logger)

	c.Identity = application.NewIdentityService(c.Users, c.Blobs, c.JWT, c.Metrics, c.Logger)
	c.ProjectSvc = application.NewProjectService(c.Projects, c.Users, c.Blobs, index, calendar, c.Metrics, c.Logger)
	c.EventSvc = application.NewEventService(c.Events, c.Projects, c.Blobs, index, notifier,
		calendar, c.Config.EventsLocation(), c.Metrics, c.Logger)
	c.SubscriptionSvc = application.NewSubscriptionService(c.Subscriptions, c.Projects, c.Users,
		notifier, calendar, c.Metrics, c.Logger)
}

// Close releases every connection that was opened.
func (c *Container) Close() {
	if c.RabbitPub != nil {
		c.RabbitPub.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}
