package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

var (
	ErrLocationNotFound   = repository.ErrLocationNotFound
	ErrLocationNameExists = repository.ErrLocationNameExists
)

type LocationRepository interface {
	Create(ctx context.Context, location domain.Location) (domain.Location, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Location, error)
	Update(ctx context.Context, location domain.Location) (domain.Location, error)
	FindAll(ctx context.Context, f repository.LocationFilter) ([]domain.Location, error)
	Count(ctx context.Context, f repository.LocationFilter) (int64, error)
	Delete(ctx context.Context, id, deletedBy uuid.UUID) error
}

type LocationService struct {
	repo LocationRepository
}

func NewLocationService(repo LocationRepository) *LocationService {
	return &LocationService{
		repo: repo,
	}
}

type LocationListFilter struct {
	Search  string
	Page    int
	PerPage int
}

// Normalize clamps the paging inputs to their served bounds.
func (f *LocationListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
}

// Create stores a new location in the pending status, owned by the
// actor.
func (s *LocationService) Create(ctx context.Context, actor *domain.Actor, location domain.Location) (domain.Location, error) {
	location.CreatedByID = actor.ID
	location.Status = domain.LocationPending
	location.ValidatedBy = nil

	created, err := s.repo.Create(ctx, location)
	if err != nil {
		return domain.Location{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Get returns the location if the actor may view it; a visibility
// refusal surfaces as not-found.
func (s *LocationService) Get(ctx context.Context, actor *domain.Actor, id uuid.UUID) (domain.Location, error) {
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return domain.Location{}, ErrLocationNotFound
		}

		return domain.Location{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !domain.CanViewLocation(actor, location) {
		return domain.Location{}, ErrLocationNotFound
	}

	return location, nil
}

func (s *LocationService) List(ctx context.Context, actor *domain.Actor, f LocationListFilter) ([]domain.Location, int64, error) {
	f.Normalize()

	filter := repository.LocationFilter{
		Scope:  domain.LocationListScope(actor),
		Search: f.Search,
		Offset: (f.Page - 1) * f.PerPage,
		Limit:  f.PerPage,
	}

	locations, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.Count -> %w", err)
	}

	return locations, total, nil
}

// Update edits the location's content fields. An edit by the owner
// resets an approved location to pending so it goes through moderation
// again; admin edits keep the current status.
func (s *LocationService) Update(ctx context.Context, actor *domain.Actor, id uuid.UUID, update domain.Location) (domain.Location, error) {
	location, err := s.Get(ctx, actor, id)
	if err != nil {
		return domain.Location{}, err
	}

	if !actor.IsAdmin() && !actor.Is(location.CreatedByID) {
		return domain.Location{}, fmt.Errorf("%w: only the creator or an admin may edit", ErrNotAllowed)
	}

	location.Name = update.Name
	location.Description = update.Description
	location.Address = update.Address
	location.Coordinates = update.Coordinates
	location.Images = update.Images

	if !actor.IsAdmin() {
		location.SetPending()
	}

	updated, err := s.repo.Update(ctx, location)
	if err != nil {
		return domain.Location{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// Approve, Reject and SetPending are admin moderation actions; the
// handler layer enforces the admin role before they are reached.

func (s *LocationService) Approve(ctx context.Context, actor *domain.Actor, id uuid.UUID) (domain.Location, error) {
	return s.moderate(ctx, actor, id, func(l *domain.Location) {
		l.Approve(actor.ID)
	})
}

func (s *LocationService) Reject(ctx context.Context, actor *domain.Actor, id uuid.UUID) (domain.Location, error) {
	return s.moderate(ctx, actor, id, func(l *domain.Location) {
		l.Reject(actor.ID)
	})
}

func (s *LocationService) SetPending(ctx context.Context, actor *domain.Actor, id uuid.UUID) (domain.Location, error) {
	return s.moderate(ctx, actor, id, func(l *domain.Location) {
		l.SetPending()
	})
}

func (s *LocationService) moderate(ctx context.Context, actor *domain.Actor, id uuid.UUID, apply func(*domain.Location)) (domain.Location, error) {
	location, err := s.Get(ctx, actor, id)
	if err != nil {
		return domain.Location{}, err
	}

	apply(&location)

	updated, err := s.repo.Update(ctx, location)
	if err != nil {
		return domain.Location{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *LocationService) Delete(ctx context.Context, actor *domain.Actor, id uuid.UUID) error {
	_, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only an admin may delete a location", ErrNotAllowed)
	}

	if err := s.repo.Delete(ctx, id, actor.ID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
