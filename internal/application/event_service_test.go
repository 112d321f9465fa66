package application

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	repo "github.com/oksasatya/community-events/internal/domain/repository"
	mailtpl "github.com/oksasatya/community-events/pkg/mailer/templates"
)

func TestCombineDayTime(t *testing.T) {
	got, err := CombineDayTime("2024-05-01", "18:00", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC), got)

	got, err = CombineDayTime("2024-05-01", "09:30:15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC), got)

	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	got, err = CombineDayTime("2024-05-01", "18:00", berlin)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC), got.UTC())

	for _, tc := range []struct{ day, clock string }{
		{"2024-13-01", "18:00"},
		{"01.05.2024", "18:00"},
		{"2024-05-01", "25:00"},
		{"2024-05-01", ""},
	} {
		_, err := CombineDayTime(tc.day, tc.clock, time.UTC)
		assert.ErrorIs(t, err, apperr.ErrValidation, "%s %s", tc.day, tc.clock)
	}
}

func TestEvent_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	p := f.project(t, alice.ID, "Greenly")

	e := f.event(t, alice.ID, "Greenly", "Cleanup")
	assert.Equal(t, "2024-05-01T18:00:00Z", e.Date.Format(time.RFC3339))
	assert.Equal(t, p.ID, e.ProjectID)
	assert.Equal(t, alice.ID, e.CreatedBy)

	got, err := f.events.FindByName(ctx, "Cleanup")
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	require.NotNil(t, got.Project)
	assert.Equal(t, "Greenly", got.Project.Name)
	assert.True(t, got.Date.Equal(e.Date))
}

func TestEvent_CreateMissingProjectWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")

	_, err := f.events.Create(ctx, alice.ID, CreateEventInput{
		ProjectName: "Missing", Name: "Orphan", Day: "2024-05-01", Time: "18:00",
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, err := f.events.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = f.events.FindByName(ctx, "Orphan")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestEvent_CreateInvalidInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	f.project(t, alice.ID, "Greenly")

	_, err := f.events.Create(ctx, alice.ID, CreateEventInput{ProjectName: "Greenly", Name: "Bad", Day: "tomorrow", Time: "18:00"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.events.Create(ctx, alice.ID, CreateEventInput{ProjectName: "Greenly", Day: "2024-05-01", Time: "18:00"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	list, err := f.events.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEvent_ListDistinctByProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	f.project(t, alice.ID, "Greenly")
	f.project(t, alice.ID, "Bluely")

	f.event(t, alice.ID, "Greenly", "g1")
	f.event(t, alice.ID, "Bluely", "b1")
	f.event(t, alice.ID, "Greenly", "g2")

	all, err := f.events.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	distinct, err := f.events.ListDistinctByProject(ctx)
	require.NoError(t, err)
	require.Len(t, distinct, 2)
	assert.Equal(t, "g2", distinct[0].Name)
	assert.Equal(t, "b1", distinct[1].Name)
}

func TestEvent_AttachImageOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	carol := f.register(t, "carol@example.com")
	f.project(t, alice.ID, "Greenly")
	e := f.event(t, bob.ID, "Greenly", "Cleanup")

	_, err := f.events.AttachImage(ctx, carol.ID, "Cleanup", "poster", pngBytes)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	ref, err := f.events.AttachImage(ctx, bob.ID, "Cleanup", "poster", pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "events/"+e.ID+"/poster.jpg", ref)

	_, err = f.events.AttachImage(ctx, alice.ID, e.ID, "poster", pngBytes)
	require.NoError(t, err)

	got, err := f.events.FindByName(ctx, "Cleanup")
	require.NoError(t, err)
	assert.Equal(t, ref, got.ImageURL)
	assert.Equal(t, pngBytes, f.read(t, repo.KindEvents, e.ID, "poster"))
}

func TestEvent_NotifiesSubscribers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")
	carol := f.register(t, "carol@example.com")
	f.project(t, alice.ID, "Greenly")
	for _, u := range []string{bob.ID, carol.ID} {
		_, err := f.subs.Subscribe(ctx, u, "Greenly")
		require.NoError(t, err)
	}
	before := len(f.pub.Jobs())

	f.event(t, alice.ID, "Greenly", "Cleanup")

	jobs := f.pub.Jobs()[before:]
	require.Len(t, jobs, 2)
	var to []string
	for _, j := range jobs {
		assert.Equal(t, mailtpl.EventPublished, j.Template)
		to = append(to, j.To)
	}
	assert.ElementsMatch(t, []string{"bob@example.com", "carol@example.com"}, to)
}

func TestEvent_SearchIndex(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.register(t, "alice@example.com")
	f.project(t, alice.ID, "Greenly")

	search := &mockSearch{}
	search.On("IndexEvent", mock.Anything, mock.Anything).Return(assert.AnError).Once()
	search.On("SearchEvents", mock.Anything, "clean", 10).Return([]map[string]any{}, nil).Once()
	f.events.Search = search

	// indexing failures do not fail the write
	f.event(t, alice.ID, "Greenly", "Cleanup")
	_, err := f.events.SearchEvents(ctx, "clean", 10)
	require.NoError(t, err)
	search.AssertExpectations(t)
}
