package application

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/community-events/config"
	"github.com/oksasatya/community-events/internal/domain/entity"
	"github.com/oksasatya/community-events/internal/infrastructure/blob"
	"github.com/oksasatya/community-events/internal/infrastructure/memory"
	"github.com/oksasatya/community-events/pkg/helpers"
	"github.com/oksasatya/community-events/pkg/mailer"
	"github.com/oksasatya/community-events/pkg/metrics"
)

// recordingPublisher keeps every published job.
type recordingPublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return nil
}

func (p *recordingPublisher) Jobs() []mailer.EmailJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mailer.EmailJob(nil), p.jobs...)
}

type fixture struct {
	store    *memory.Store
	blobs    *blob.LocalStore
	pub      *recordingPublisher
	identity *IdentityService
	projects *ProjectService
	events   *EventService
	subs     *SubscriptionService
	calendar *CalendarCache
}

func init() {
	helpers.PasswordCost = bcrypt.MinCost
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRedis(t, nil)
}

// newFixtureWithRedis wires the services over memory storage; rdb may be nil.
func newFixtureWithRedis(t *testing.T, rdb *redis.Client) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.New()
	blobs, err := blob.NewLocalStore(t.TempDir(), logger)
	require.NoError(t, err)
	m := metrics.New()
	pub := &recordingPublisher{}
	notifier := NewNotifier(pub, &config.Config{AppName: "community-events"}, m, logger)

	f := &fixture{store: store, blobs: blobs, pub: pub}
	f.identity = NewIdentityService(store.Users(), blobs, helpers.NewJWTManager("test-secret", time.Hour), m, logger)
	f.calendar = NewCalendarCache(rdb, logger)
	f.projects = NewProjectService(store.Projects(), store.Users(), blobs, nil, f.calendar, m, logger)
	f.events = NewEventService(store.Events(), store.Projects(), blobs, nil, notifier, f.calendar, time.UTC, m, logger)
	f.subs = NewSubscriptionService(store.Subscriptions(), store.Projects(), store.Users(), notifier, f.calendar, m, logger)
	return f
}

func (f *fixture) register(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := f.identity.Register(context.Background(), RegisterInput{Email: email, Password: "secret1", Name: "Test"})
	require.NoError(t, err)
	return u
}

func (f *fixture) project(t *testing.T, actorID, name string) *entity.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), actorID, CreateProjectInput{Name: name, City: "Kyiv"})
	require.NoError(t, err)
	return p
}

func (f *fixture) event(t *testing.T, actorID, projectName, name string) *entity.Event {
	t.Helper()
	e, err := f.events.Create(context.Background(), actorID, CreateEventInput{
		ProjectName: projectName, Name: name, Day: "2024-05-01", Time: "18:00",
	})
	require.NoError(t, err)
	return e
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func (f *fixture) read(t *testing.T, kind, owner, name string) []byte {
	t.Helper()
	b, err := f.blobs.Retrieve(context.Background(), kind, owner, name)
	require.NoError(t, err)
	defer b.Body.Close()
	data, err := io.ReadAll(b.Body)
	require.NoError(t, err)
	return data
}
