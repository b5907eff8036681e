package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
}

type UserEventRepository interface {
	FindAll(ctx context.Context, f repository.EventFilter) ([]domain.Event, error)
	CountByStatus(ctx context.Context, organizerID *uuid.UUID) (map[domain.EventStatus]int64, error)
	DistinctParticipants(ctx context.Context, organizerID uuid.UUID) (int64, error)
	FindWithParticipantCounts(ctx context.Context, organizerID uuid.UUID) ([]repository.EventParticipants, error)
}

type UserService struct {
	repo      UserRepository
	eventRepo UserEventRepository
}

func NewUserService(repo UserRepository, eventRepo UserEventRepository) *UserService {
	return &UserService{
		repo:      repo,
		eventRepo: eventRepo,
	}
}

// OrganizerStats is the organizer dashboard summary.
type OrganizerStats struct {
	TotalEvents       int64                        `json:"total_events"`
	EventsByStatus    map[domain.EventStatus]int64 `json:"events_by_status"`
	TotalParticipants int64                        `json:"total_participants"`
}

func (s *UserService) GetProfile(ctx context.Context, actor *domain.Actor) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// UpdateProfile edits the actor's own name fields. Email, role and
// password travel through their own endpoints.
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.Actor, firstName, lastName string) (domain.User, error) {
	user, err := s.GetProfile(ctx, actor)
	if err != nil {
		return domain.User{}, err
	}

	user.FirstName = firstName
	user.LastName = lastName

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DashboardStats summarizes the actor's events for the organizer
// dashboard.
func (s *UserService) DashboardStats(ctx context.Context, actor *domain.Actor) (OrganizerStats, error) {
	organizerID := actor.ID

	byStatus, err := s.eventRepo.CountByStatus(ctx, &organizerID)
	if err != nil {
		return OrganizerStats{}, fmt.Errorf("s.eventRepo.CountByStatus -> %w", err)
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	participants, err := s.eventRepo.DistinctParticipants(ctx, organizerID)
	if err != nil {
		return OrganizerStats{}, fmt.Errorf("s.eventRepo.DistinctParticipants -> %w", err)
	}

	return OrganizerStats{
		TotalEvents:       total,
		EventsByStatus:    byStatus,
		TotalParticipants: participants,
	}, nil
}

// EventsWithParticipants lists the actor's non-draft events with their
// active participant totals.
func (s *UserService) EventsWithParticipants(ctx context.Context, actor *domain.Actor) ([]repository.EventParticipants, error) {
	rows, err := s.eventRepo.FindWithParticipantCounts(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("s.eventRepo.FindWithParticipantCounts -> %w", err)
	}

	return rows, nil
}

// ParticipatedEvents lists the events the actor holds an active ticket
// for.
func (s *UserService) ParticipatedEvents(ctx context.Context, actor *domain.Actor) ([]domain.Event, error) {
	participantID := actor.ID

	events, err := s.eventRepo.FindAll(ctx, repository.EventFilter{
		Scope:         domain.VisibilityScope{All: true},
		ParticipantID: &participantID,
	})
	if err != nil {
		return nil, fmt.Errorf("s.eventRepo.FindAll -> %w", err)
	}

	return events, nil
}
