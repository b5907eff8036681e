package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

var ErrInvalidRole = errors.New("invalid role")

type AdminUserRepository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (domain.User, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id, deletedBy uuid.UUID) error
}

type AdminEventRepository interface {
	CountByStatus(ctx context.Context, organizerID *uuid.UUID) (map[domain.EventStatus]int64, error)
	CountByMonth(ctx context.Context, since time.Time) ([]repository.EventActivity, error)
}

type AdminLocationRepository interface {
	CountPending(ctx context.Context) (int64, error)
}

type AdminCategoryRepository interface {
	Count(ctx context.Context) (int64, error)
}

// AdminService backs the admin console: user management and the
// platform-wide dashboard.
type AdminService struct {
	users      AdminUserRepository
	events     AdminEventRepository
	locations  AdminLocationRepository
	categories AdminCategoryRepository
}

func NewAdminService(
	users AdminUserRepository,
	events AdminEventRepository,
	locations AdminLocationRepository,
	categories AdminCategoryRepository,
) *AdminService {
	return &AdminService{
		users:      users,
		events:     events,
		locations:  locations,
		categories: categories,
	}
}

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers       int64                        `json:"total_users"`
	TotalEvents      int64                        `json:"total_events"`
	EventsByStatus   map[domain.EventStatus]int64 `json:"events_by_status"`
	PendingEvents    int64                        `json:"pending_events"`
	PendingLocations int64                        `json:"pending_locations"`
	TotalCategories  int64                        `json:"total_categories"`
}

func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.users.FindAll -> %w", err)
	}

	return users, nil
}

// UpdateUserRole promotes or demotes a user. An admin cannot change
// their own role, which keeps at least one admin around.
func (s *AdminService) UpdateUserRole(ctx context.Context, actor *domain.Actor, id uuid.UUID, role domain.Role) (domain.User, error) {
	if !role.Valid() {
		return domain.User{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if actor.Is(id) {
		return domain.User{}, fmt.Errorf("%w: admins cannot change their own role", ErrNotAllowed)
	}

	updated, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.users.UpdateRole -> %w", err)
	}

	return updated, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, actor *domain.Actor, id uuid.UUID) error {
	if actor.Is(id) {
		return fmt.Errorf("%w: admins cannot delete themselves", ErrNotAllowed)
	}

	if err := s.users.Delete(ctx, id, actor.ID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}

		return fmt.Errorf("s.users.Delete -> %w", err)
	}

	return nil
}

// EventActivity returns monthly event counts over the last twelve
// months for the admin activity chart.
func (s *AdminService) EventActivity(ctx context.Context) ([]repository.EventActivity, error) {
	since := time.Now().UTC().AddDate(-1, 0, 0)

	rows, err := s.events.CountByMonth(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("s.events.CountByMonth -> %w", err)
	}

	return rows, nil
}

func (s *AdminService) DashboardStats(ctx context.Context) (PlatformStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return PlatformStats{}, fmt.Errorf("s.users.Count -> %w", err)
	}

	byStatus, err := s.events.CountByStatus(ctx, nil)
	if err != nil {
		return PlatformStats{}, fmt.Errorf("s.events.CountByStatus -> %w", err)
	}

	var totalEvents int64
	for _, count := range byStatus {
		totalEvents += count
	}

	pendingLocations, err := s.locations.CountPending(ctx)
	if err != nil {
		return PlatformStats{}, fmt.Errorf("s.locations.CountPending -> %w", err)
	}

	totalCategories, err := s.categories.Count(ctx)
	if err != nil {
		return PlatformStats{}, fmt.Errorf("s.categories.Count -> %w", err)
	}

	return PlatformStats{
		TotalUsers:       totalUsers,
		TotalEvents:      totalEvents,
		EventsByStatus:   byStatus,
		PendingEvents:    byStatus[domain.EventPendingApproval],
		PendingLocations: pendingLocations,
		TotalCategories:  totalCategories,
	}, nil
}
