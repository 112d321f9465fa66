package application

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	mailtpl "github.com/oksasatya/community-events/pkg/mailer/templates"
)

// assertLinked checks that user and project agree on the subscription.
func assertLinked(t *testing.T, f *fixture, userID, projectName string, want bool) {
	t.Helper()
	ctx := context.Background()
	u, err := f.identity.GetProfile(ctx, userID)
	require.NoError(t, err)
	p, err := f.projects.FindByName(ctx, projectName)
	require.NoError(t, err)
	assert.Equal(t, want, u.IsSubscribedTo(p.ID))
	assert.Equal(t, want, p.HasSubscriber(u.Email))
}

func TestSubscribe_LinksBothSides(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	f.project(t, alice.ID, "Greenly")
	assertLinked(t, f, bob.ID, "Greenly", false)

	p, err := f.subs.Subscribe(ctx, bob.ID, "Greenly")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob@example.com"}, p.Subscribers)
	assertLinked(t, f, bob.ID, "Greenly", true)

	jobs := f.pub.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, mailtpl.NewSubscriber, jobs[0].Template)
	assert.Equal(t, "alice@example.com", jobs[0].To)
}

func TestSubscribe_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	f.project(t, alice.ID, "Greenly")

	for i := 0; i < 3; i++ {
		p, err := f.subs.Subscribe(ctx, bob.ID, "Greenly")
		require.NoError(t, err)
		assert.Len(t, p.Subscribers, 1)
	}
	u, err := f.identity.GetProfile(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, u.SubscribedProjects, 1)
	assert.Len(t, f.pub.Jobs(), 1)
}

func TestSubscribe_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	f.project(t, alice.ID, "Greenly")

	_, err := f.subs.Subscribe(ctx, alice.ID, "Missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.subs.Subscribe(ctx, "ghost", "Greenly")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	p, err := f.projects.FindByName(ctx, "Greenly")
	require.NoError(t, err)
	assert.Empty(t, p.Subscribers)
}

func TestSubscribe_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	f.project(t, alice.ID, "Greenly")

	const n = 8
	users := make([]*entity.User, n)
	for i := range users {
		users[i] = f.register(t, fmt.Sprintf("user%d@example.com", i))
	}

	var wg sync.WaitGroup
	for _, u := range users {
		for k := 0; k < 2; k++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := f.subs.Subscribe(ctx, id, "Greenly")
				assert.NoError(t, err)
			}(u.ID)
		}
	}
	wg.Wait()

	p, err := f.projects.FindByName(ctx, "Greenly")
	require.NoError(t, err)
	assert.Len(t, p.Subscribers, n)
	for _, u := range users {
		assertLinked(t, f, u.ID, "Greenly", true)
	}
	assert.Len(t, f.pub.Jobs(), n)
}

type failingSubscriptions struct{}

func (failingSubscriptions) Subscribe(context.Context, string, string) (*entity.Project, bool, error) {
	return nil, false, &apperr.PartialFailureError{Side: "project", Err: apperr.ErrNotFound}
}

func TestSubscribe_PartialFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	f.project(t, alice.ID, "Greenly")
	f.subs.Subscriptions = failingSubscriptions{}

	_, err := f.subs.Subscribe(ctx, alice.ID, "Greenly")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPartialFailure, apperr.Kind(err))
	var pf *apperr.PartialFailureError
	require.ErrorAs(t, err, &pf)
	assert.Equal(t, "project", pf.Side)
	assert.Empty(t, f.pub.Jobs())
}
