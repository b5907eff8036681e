package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/domain"
)

type TicketRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Ticket, error)
	HasActive(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

type TicketService struct {
	repo TicketRepository
}

func NewTicketService(repo TicketRepository) *TicketService {
	return &TicketService{
		repo: repo,
	}
}

// MyTickets returns every ticket the actor holds, newest first,
// cancelled ones included.
func (s *TicketService) MyTickets(ctx context.Context, actor *domain.Actor) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUser -> %w", err)
	}

	return tickets, nil
}

// IsRegistered reports whether the actor holds an active ticket for
// the event.
func (s *TicketService) IsRegistered(ctx context.Context, actor *domain.Actor, eventID uuid.UUID) (bool, error) {
	if actor == nil {
		return false, nil
	}

	active, err := s.repo.HasActive(ctx, eventID, actor.ID)
	if err != nil {
		return false, fmt.Errorf("s.repo.HasActive -> %w", err)
	}

	return active, nil
}
