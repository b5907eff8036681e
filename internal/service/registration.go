package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

var (
	ErrAlreadyRegistered     = repository.ErrAlreadyRegistered
	ErrEventFull             = repository.ErrEventFull
	ErrEventNotOpen          = repository.ErrEventNotOpen
	ErrNotRegistered         = repository.ErrNotRegistered
	ErrPaidEvent             = errors.New("event is paid, registration requires payment")
	ErrFreeEvent             = errors.New("event is free, registration requires no payment")
	ErrOwnEvent              = errors.New("organizers cannot register for their own event")
	ErrTicketNumberExhausted = errors.New("could not allocate a unique ticket number")
)

// ticketNumberAttempts bounds the retry loop on a ticket number
// collision. Collisions only happen on the two random suffix bytes, so
// hitting the bound means something else is wrong.
const ticketNumberAttempts = 5

type RegistrationTicketRepository interface {
	CreateWithRegistration(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	CancelRegistration(ctx context.Context, eventID, userID uuid.UUID) error
}

type RegistrationEventRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Event, error)
}

type RegistrationUserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// RegistrationService is the ticket issuance engine: it checks the
// registration preconditions, allocates a ticket number and hands the
// atomic seat-claim to the repository.
type RegistrationService struct {
	tickets  RegistrationTicketRepository
	events   RegistrationEventRepository
	users    RegistrationUserRepository
	notifier Notifier
}

func NewRegistrationService(
	tickets RegistrationTicketRepository,
	events RegistrationEventRepository,
	users RegistrationUserRepository,
	notifier Notifier,
) *RegistrationService {
	return &RegistrationService{
		tickets:  tickets,
		events:   events,
		users:    users,
		notifier: notifier,
	}
}

// Register issues a ticket for a free event.
func (s *RegistrationService) Register(ctx context.Context, actor *domain.Actor, eventID uuid.UUID) (domain.Ticket, error) {
	event, err := s.visibleEvent(ctx, actor, eventID)
	if err != nil {
		return domain.Ticket{}, err
	}

	if !event.IsFree() {
		return domain.Ticket{}, ErrPaidEvent
	}

	return s.issue(ctx, actor, event)
}

// SimulatePayment issues a ticket for a paid event. Payment is
// simulated: the amount is recorded on the ticket but no charge is
// made.
func (s *RegistrationService) SimulatePayment(ctx context.Context, actor *domain.Actor, eventID uuid.UUID) (domain.Ticket, error) {
	event, err := s.visibleEvent(ctx, actor, eventID)
	if err != nil {
		return domain.Ticket{}, err
	}

	if event.IsFree() {
		return domain.Ticket{}, ErrFreeEvent
	}

	return s.issue(ctx, actor, event)
}

// Unregister cancels the actor's active ticket for the event, which
// releases its capacity slot.
func (s *RegistrationService) Unregister(ctx context.Context, actor *domain.Actor, eventID uuid.UUID) error {
	if err := s.tickets.CancelRegistration(ctx, eventID, actor.ID); err != nil {
		if errors.Is(err, repository.ErrNotRegistered) {
			return ErrNotRegistered
		}

		return fmt.Errorf("s.tickets.CancelRegistration -> %w", err)
	}

	return nil
}

func (s *RegistrationService) issue(ctx context.Context, actor *domain.Actor, event domain.Event) (domain.Ticket, error) {
	if actor.Is(event.OrganizerID) {
		return domain.Ticket{}, ErrOwnEvent
	}
	if event.Status != domain.EventPublished {
		return domain.Ticket{}, ErrEventNotOpen
	}

	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.users.FindByID -> %w", err)
	}

	// The capacity and duplicate checks live in the repository's
	// transaction; only a ticket number collision is retried here.
	var ticket domain.Ticket
	for attempt := 0; attempt < ticketNumberAttempts; attempt++ {
		number, err := domain.NewTicketNumber(event.ID, user.ID)
		if err != nil {
			return domain.Ticket{}, err
		}

		ticket, err = s.tickets.CreateWithRegistration(ctx, domain.Ticket{
			EventID:         event.ID,
			UserID:          user.ID,
			TicketNumber:    number,
			QRCodeData:      number,
			Status:          domain.TicketValid,
			PurchaseDate:    time.Now(),
			PriceAtPurchase: event.Price,
		})
		if err != nil {
			if errors.Is(err, repository.ErrTicketNumberTaken) {
				zap.L().Warn("ticket number collision, retrying",
					zap.String("ticket_number", number),
					zap.Int("attempt", attempt+1),
				)
				continue
			}

			return domain.Ticket{}, s.issueError(err)
		}

		s.notifier.TicketIssued(user, event, ticket)

		return ticket, nil
	}

	return domain.Ticket{}, ErrTicketNumberExhausted
}

func (s *RegistrationService) issueError(err error) error {
	switch {
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return ErrAlreadyRegistered
	case errors.Is(err, repository.ErrEventFull):
		return ErrEventFull
	case errors.Is(err, repository.ErrEventNotOpen):
		return ErrEventNotOpen
	case errors.Is(err, repository.ErrEventNotFound):
		return ErrEventNotFound
	}

	return fmt.Errorf("s.tickets.CreateWithRegistration -> %w", err)
}

func (s *RegistrationService) visibleEvent(ctx context.Context, actor *domain.Actor, eventID uuid.UUID) (domain.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	if !domain.CanViewEvent(actor, event) {
		return domain.Event{}, ErrEventNotFound
	}

	return event, nil
}
