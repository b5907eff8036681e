package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

type registrationFixture struct {
	svc       *RegistrationService
	tickets   *fakeTicketRepo
	notifier  *fakeNotifier
	event     domain.Event
	organizer domain.User
	attendee  domain.User
}

func newRegistrationFixture(t *testing.T, price float64) *registrationFixture {
	t.Helper()

	organizer := domain.User{ID: uuid.New(), Email: "organizer@example.com", Role: domain.RoleOrganizer}
	attendee := domain.User{ID: uuid.New(), Email: "attendee@example.com", Role: domain.RoleParticipant}

	event := domain.Event{
		ID:              uuid.New(),
		Name:            "Go Meetup",
		OrganizerID:     organizer.ID,
		Status:          domain.EventPublished,
		Price:           price,
		MaxParticipants: 50,
	}

	tickets := &fakeTicketRepo{}
	notifier := &fakeNotifier{}

	return &registrationFixture{
		svc:       NewRegistrationService(tickets, newFakeEventRepo(event), newFakeUserRepo(organizer, attendee), notifier),
		tickets:   tickets,
		notifier:  notifier,
		event:     event,
		organizer: organizer,
		attendee:  attendee,
	}
}

func (f *registrationFixture) attendeeActor() *domain.Actor {
	return &domain.Actor{ID: f.attendee.ID, Role: domain.RoleParticipant}
}

func TestRegisterIssuesTicket(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture(t, 0)

	ticket, err := f.svc.Register(ctx, f.attendeeActor(), f.event.ID)

	require.NoError(t, err)
	assert.Equal(t, f.event.ID, ticket.EventID)
	assert.Equal(t, f.attendee.ID, ticket.UserID)
	assert.Equal(t, domain.TicketValid, ticket.Status)
	assert.NotEmpty(t, ticket.TicketNumber)
	assert.Equal(t, ticket.TicketNumber, ticket.QRCodeData)
	assert.Zero(t, ticket.PriceAtPurchase)
	assert.False(t, ticket.PurchaseDate.IsZero())

	require.Len(t, f.notifier.issued, 1)
	assert.Equal(t, ticket.TicketNumber, f.notifier.issued[0].TicketNumber)
}

func TestSimulatePaymentRecordsPrice(t *testing.T) {
	ctx := context.Background()
	f := newRegistrationFixture(t, 25.50)

	ticket, err := f.svc.SimulatePayment(ctx, f.attendeeActor(), f.event.ID)

	require.NoError(t, err)
	assert.Equal(t, 25.50, ticket.PriceAtPurchase)
}

func TestRegisterPreconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("free path refuses a paid event", func(t *testing.T) {
		f := newRegistrationFixture(t, 25.50)

		_, err := f.svc.Register(ctx, f.attendeeActor(), f.event.ID)

		require.ErrorIs(t, err, ErrPaidEvent)
		assert.Empty(t, f.tickets.created)
	})

	t.Run("paid path refuses a free event", func(t *testing.T) {
		f := newRegistrationFixture(t, 0)

		_, err := f.svc.SimulatePayment(ctx, f.attendeeActor(), f.event.ID)

		require.ErrorIs(t, err, ErrFreeEvent)
	})

	t.Run("organizer cannot register for own event", func(t *testing.T) {
		f := newRegistrationFixture(t, 0)
		actor := &domain.Actor{ID: f.organizer.ID, Role: domain.RoleOrganizer}

		_, err := f.svc.Register(ctx, actor, f.event.ID)

		require.ErrorIs(t, err, ErrOwnEvent)
	})

	t.Run("unpublished event is not open, even to its admin viewer", func(t *testing.T) {
		f := newRegistrationFixture(t, 0)
		f.event.Status = domain.EventDraft
		svc := NewRegistrationService(f.tickets, newFakeEventRepo(f.event), newFakeUserRepo(f.attendee), f.notifier)

		_, err := svc.Register(ctx, &domain.Actor{ID: f.attendee.ID, Role: domain.RoleAdmin}, f.event.ID)

		require.ErrorIs(t, err, ErrEventNotOpen)
	})

	t.Run("hidden event reads as not-found", func(t *testing.T) {
		f := newRegistrationFixture(t, 0)
		f.event.Status = domain.EventDraft
		svc := NewRegistrationService(f.tickets, newFakeEventRepo(f.event), newFakeUserRepo(f.attendee), f.notifier)

		_, err := svc.Register(ctx, f.attendeeActor(), f.event.ID)

		require.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("unknown event", func(t *testing.T) {
		f := newRegistrationFixture(t, 0)

		_, err := f.svc.Register(ctx, f.attendeeActor(), uuid.New())

		require.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestRegisterMapsRepositoryErrors(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		repoErr error
		wantErr error
	}{
		{name: "duplicate registration", repoErr: repository.ErrAlreadyRegistered, wantErr: ErrAlreadyRegistered},
		{name: "event full", repoErr: repository.ErrEventFull, wantErr: ErrEventFull},
		{name: "event closed between read and claim", repoErr: repository.ErrEventNotOpen, wantErr: ErrEventNotOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRegistrationFixture(t, 0)
			f.tickets.createErrs = []error{tt.repoErr}

			_, err := f.svc.Register(ctx, f.attendeeActor(), f.event.ID)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.notifier.issued)
		})
	}
}

func TestRegisterRetriesTicketNumberCollisions(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after collisions", func(t *testing.T) {
		f := newRegistrationFixture(t, 0)
		f.tickets.createErrs = []error{
			repository.ErrTicketNumberTaken,
			repository.ErrTicketNumberTaken,
			nil,
		}

		ticket, err := f.svc.Register(ctx, f.attendeeActor(), f.event.ID)

		require.NoError(t, err)
		assert.NotEmpty(t, ticket.TicketNumber)
		require.Len(t, f.tickets.created, 1)
	})

	t.Run("gives up after the attempt bound", func(t *testing.T) {
		f := newRegistrationFixture(t, 0)
		for i := 0; i < ticketNumberAttempts; i++ {
			f.tickets.createErrs = append(f.tickets.createErrs, repository.ErrTicketNumberTaken)
		}

		_, err := f.svc.Register(ctx, f.attendeeActor(), f.event.ID)

		require.ErrorIs(t, err, ErrTicketNumberExhausted)
		assert.Empty(t, f.tickets.created)
		assert.Empty(t, f.notifier.issued)
	})
}

func TestUnregister(t *testing.T) {
	ctx := context.Background()

	t.Run("cancels the active ticket", func(t *testing.T) {
		f := newRegistrationFixture(t, 0)

		require.NoError(t, f.svc.Unregister(ctx, f.attendeeActor(), f.event.ID))
		assert.Equal(t, []uuid.UUID{f.event.ID}, f.tickets.cancelled)
	})

	t.Run("reports a missing registration", func(t *testing.T) {
		f := newRegistrationFixture(t, 0)
		f.tickets.cancelErr = repository.ErrNotRegistered

		err := f.svc.Unregister(ctx, f.attendeeActor(), f.event.ID)

		require.ErrorIs(t, err, ErrNotRegistered)
	})
}
