package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-app/eventhub-api/internal/domain"
)

type eventFixture struct {
	svc       *EventService
	repo      *fakeEventRepo
	notifier  *fakeNotifier
	category  domain.Category
	location  domain.Location
	organizer *domain.Actor
	admin     *domain.Actor
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()

	category := domain.Category{ID: uuid.New(), Name: "Tech"}
	organizer := &domain.Actor{ID: uuid.New(), Role: domain.RoleOrganizer}
	location := domain.Location{
		ID:          uuid.New(),
		Name:        "Community Hall",
		Status:      domain.LocationApproved,
		CreatedByID: uuid.New(),
	}

	repo := newFakeEventRepo()
	users := newFakeUserRepo(domain.User{
		ID:    organizer.ID,
		Email: "organizer@example.com",
		Role:  domain.RoleOrganizer,
	})
	notifier := &fakeNotifier{}

	return &eventFixture{
		svc:       NewEventService(repo, newFakeCategoryRepo(category), newFakeLocationRepo(location), users, notifier),
		repo:      repo,
		notifier:  notifier,
		category:  category,
		location:  location,
		organizer: organizer,
		admin:     &domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin},
	}
}

func (f *eventFixture) newEvent() domain.Event {
	locationID := f.location.ID
	return domain.Event{
		Name:            "Go Meetup",
		StartDate:       time.Now().Add(24 * time.Hour),
		EndDate:         time.Now().Add(26 * time.Hour),
		LocationID:      &locationID,
		CategoryID:      f.category.ID,
		MaxParticipants: 50,
	}
}

func (f *eventFixture) seed(t *testing.T, status domain.EventStatus) domain.Event {
	t.Helper()

	event := f.newEvent()
	event.ID = uuid.New()
	event.OrganizerID = f.organizer.ID
	event.Status = status
	f.repo.events[event.ID] = event

	return event
}

func TestEventServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("forces draft status and ownership", func(t *testing.T) {
		f := newEventFixture(t)

		input := f.newEvent()
		input.Status = domain.EventPublished
		input.OrganizerID = uuid.New()
		input.ParticipantCount = 42

		created, err := f.svc.Create(ctx, f.organizer, input)

		require.NoError(t, err)
		assert.Equal(t, domain.EventDraft, created.Status)
		assert.Equal(t, f.organizer.ID, created.OrganizerID)
		assert.Zero(t, created.ParticipantCount)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		f := newEventFixture(t)

		input := f.newEvent()
		input.CategoryID = uuid.New()

		_, err := f.svc.Create(ctx, f.organizer, input)

		require.ErrorIs(t, err, ErrCategoryNotFound)
	})

	t.Run("rejects invalid shape", func(t *testing.T) {
		f := newEventFixture(t)

		input := f.newEvent()
		input.MaxParticipants = 0

		_, err := f.svc.Create(ctx, f.organizer, input)

		require.ErrorIs(t, err, ErrInvalidEvent)
	})

	t.Run("rejects a pending location for a stranger", func(t *testing.T) {
		f := newEventFixture(t)
		f.location.Status = domain.LocationPending
		locationRepo := newFakeLocationRepo(f.location)
		svc := NewEventService(f.repo, newFakeCategoryRepo(f.category), locationRepo, newFakeUserRepo(), f.notifier)

		_, err := svc.Create(ctx, f.organizer, f.newEvent())

		require.ErrorIs(t, err, ErrLocationNotUsable)
	})

	t.Run("allows a pending location for its creator", func(t *testing.T) {
		f := newEventFixture(t)
		f.location.Status = domain.LocationPending
		f.location.CreatedByID = f.organizer.ID
		locationRepo := newFakeLocationRepo(f.location)
		svc := NewEventService(f.repo, newFakeCategoryRepo(f.category), locationRepo, newFakeUserRepo(), f.notifier)

		_, err := svc.Create(ctx, f.organizer, f.newEvent())

		require.NoError(t, err)
	})
}

func TestEventServiceGetVisibility(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t)

	draft := f.seed(t, domain.EventDraft)

	t.Run("owner sees own draft", func(t *testing.T) {
		_, err := f.svc.Get(ctx, f.organizer, draft.ID)
		require.NoError(t, err)
	})

	t.Run("admin sees any draft", func(t *testing.T) {
		_, err := f.svc.Get(ctx, f.admin, draft.ID)
		require.NoError(t, err)
	})

	t.Run("stranger gets not-found, not forbidden", func(t *testing.T) {
		stranger := &domain.Actor{ID: uuid.New(), Role: domain.RoleParticipant}

		_, err := f.svc.Get(ctx, stranger, draft.ID)

		require.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("anonymous sees published only", func(t *testing.T) {
		published := f.seed(t, domain.EventPublished)

		_, err := f.svc.Get(ctx, nil, published.ID)
		require.NoError(t, err)

		_, err = f.svc.Get(ctx, nil, draft.ID)
		require.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventServiceListScoping(t *testing.T) {
	ctx := context.Background()
	f := newEventFixture(t)

	_, _, err := f.svc.List(ctx, nil, EventListFilter{Page: -3, PerPage: 1000})
	require.NoError(t, err)

	assert.Equal(t, domain.VisibilityScope{}, f.repo.lastFilter.Scope)
	assert.Equal(t, 0, f.repo.lastFilter.Offset)
	assert.Equal(t, 20, f.repo.lastFilter.Limit)

	_, _, err = f.svc.List(ctx, f.organizer, EventListFilter{Page: 3, PerPage: 10})
	require.NoError(t, err)

	require.NotNil(t, f.repo.lastFilter.Scope.OwnerID)
	assert.Equal(t, f.organizer.ID, *f.repo.lastFilter.Scope.OwnerID)
	assert.Equal(t, 20, f.repo.lastFilter.Offset)
	assert.Equal(t, 10, f.repo.lastFilter.Limit)

	_, _, err = f.svc.List(ctx, f.admin, EventListFilter{})
	require.NoError(t, err)

	assert.True(t, f.repo.lastFilter.Scope.All)
}

func TestEventServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("owner edits content, status untouched", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.seed(t, domain.EventPublished)

		update := f.newEvent()
		update.Name = "Go Meetup, second edition"

		updated, err := f.svc.Update(ctx, f.organizer, event.ID, update)

		require.NoError(t, err)
		assert.Equal(t, "Go Meetup, second edition", updated.Name)
		assert.Equal(t, domain.EventPublished, updated.Status)
	})

	t.Run("participant cannot edit a published event", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.seed(t, domain.EventPublished)

		_, err := f.svc.Update(ctx, &domain.Actor{ID: uuid.New(), Role: domain.RoleParticipant}, event.ID, f.newEvent())

		require.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("hidden event reads as not-found", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.seed(t, domain.EventDraft)

		_, err := f.svc.Update(ctx, &domain.Actor{ID: uuid.New(), Role: domain.RoleParticipant}, event.ID, f.newEvent())

		require.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventServiceTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("owner submits a draft", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.seed(t, domain.EventDraft)

		updated, err := f.svc.ApplyAction(ctx, f.organizer, event.ID, domain.ActionSubmitForApproval)

		require.NoError(t, err)
		assert.Equal(t, domain.EventPendingApproval, updated.Status)
		assert.Equal(t, domain.EventPendingApproval, f.repo.events[event.ID].Status)
	})

	t.Run("organizer cannot approve", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.seed(t, domain.EventPendingApproval)

		_, err := f.svc.ApplyAction(ctx, f.organizer, event.ID, domain.ActionApprove)

		require.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("admin cannot approve a draft", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.seed(t, domain.EventDraft)

		_, err := f.svc.ApplyAction(ctx, f.admin, event.ID, domain.ActionApprove)

		require.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("admin rejects with reason", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.seed(t, domain.EventPendingApproval)

		updated, err := f.svc.Reject(ctx, f.admin, event.ID, "duplicate listing")

		require.NoError(t, err)
		assert.Equal(t, domain.EventRejected, updated.Status)
		assert.Equal(t, "duplicate listing", updated.RejectionReason)

		require.Len(t, f.notifier.rejected, 1)
		assert.Equal(t, event.ID, f.notifier.rejected[0].ID)
	})

	t.Run("reject without reason keeps the event pending", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.seed(t, domain.EventPendingApproval)

		_, err := f.svc.Reject(ctx, f.admin, event.ID, "")

		require.ErrorIs(t, err, domain.ErrRejectionNoReason)
		assert.Equal(t, domain.EventPendingApproval, f.repo.events[event.ID].Status)
		assert.Empty(t, f.notifier.rejected)
	})
}

func TestEventServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses while participants hold tickets", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.seed(t, domain.EventPublished)
		event.ParticipantCount = 3
		f.repo.events[event.ID] = event

		err := f.svc.Delete(ctx, f.organizer, event.ID)

		require.ErrorIs(t, err, ErrEventHasParticipants)
		assert.Empty(t, f.repo.deleted)
	})

	t.Run("allows a cancelled event with participants", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.seed(t, domain.EventCancelled)
		event.ParticipantCount = 3
		f.repo.events[event.ID] = event

		require.NoError(t, f.svc.Delete(ctx, f.organizer, event.ID))
		assert.Equal(t, []uuid.UUID{event.ID}, f.repo.deleted)
	})

	t.Run("participant cannot delete", func(t *testing.T) {
		f := newEventFixture(t)
		event := f.seed(t, domain.EventPublished)

		err := f.svc.Delete(ctx, &domain.Actor{ID: uuid.New(), Role: domain.RoleParticipant}, event.ID)

		require.ErrorIs(t, err, ErrNotAllowed)
	})
}

func TestEventServiceFinishPastEvents(t *testing.T) {
	f := newEventFixture(t)
	f.repo.sweepCount = 7

	swept, err := f.svc.FinishPastEvents(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), swept)
}
