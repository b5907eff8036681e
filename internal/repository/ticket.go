package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
)

var (
	ErrAlreadyRegistered = dao.ErrAlreadyRegistered
	ErrTicketNumberTaken = dao.ErrTicketNumberTaken
	ErrEventFull         = dao.ErrEventFull
	ErrEventNotOpen      = dao.ErrEventNotOpen
	ErrNotRegistered     = dao.ErrNotRegistered
)

type TicketDAO interface {
	InsertWithRegistration(ctx context.Context, ticket dao.Ticket) (dao.Ticket, error)
	CancelRegistration(ctx context.Context, eventID, userID uuid.UUID) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]dao.Ticket, error)
	HasActive(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

type TicketRepository struct {
	dao TicketDAO
}

func NewTicketRepository(dao TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: dao,
	}
}

// CreateWithRegistration issues the ticket and claims one capacity slot
// atomically.
func (r *TicketRepository) CreateWithRegistration(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	created, err := r.dao.InsertWithRegistration(ctx, ticketDomainToDao(ticket))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.InsertWithRegistration -> %w", err)
	}

	return ticketDaoToDomain(created), nil
}

// CancelRegistration cancels the user's active ticket for the event and
// releases its capacity slot.
func (r *TicketRepository) CancelRegistration(ctx context.Context, eventID, userID uuid.UUID) error {
	if err := r.dao.CancelRegistration(ctx, eventID, userID); err != nil {
		return fmt.Errorf("r.dao.CancelRegistration -> %w", err)
	}

	return nil
}

func (r *TicketRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Ticket, error) {
	found, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	tickets := make([]domain.Ticket, len(found))
	for i, t := range found {
		tickets[i] = ticketDaoToDomain(t)
	}

	return tickets, nil
}

func (r *TicketRepository) HasActive(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	active, err := r.dao.HasActive(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasActive -> %w", err)
	}

	return active, nil
}

func ticketDomainToDao(t domain.Ticket) dao.Ticket {
	return dao.Ticket{
		ID:              t.ID,
		EventID:         t.EventID,
		UserID:          t.UserID,
		TicketNumber:    t.TicketNumber,
		QRCodeData:      t.QRCodeData,
		Status:          string(t.Status),
		PurchaseDate:    t.PurchaseDate,
		PriceAtPurchase: t.PriceAtPurchase,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func ticketDaoToDomain(t dao.Ticket) domain.Ticket {
	ticket := domain.Ticket{
		ID:              t.ID,
		EventID:         t.EventID,
		UserID:          t.UserID,
		TicketNumber:    t.TicketNumber,
		QRCodeData:      t.QRCodeData,
		Status:          domain.TicketStatus(t.Status),
		PurchaseDate:    t.PurchaseDate,
		PriceAtPurchase: t.PriceAtPurchase,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}

	if t.Event != nil {
		event := eventDaoToDomain(*t.Event)
		ticket.Event = &event
	}

	return ticket
}
