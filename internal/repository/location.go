package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
)

var (
	ErrLocationNotFound   = dao.ErrLocationNotFound
	ErrLocationNameExists = dao.ErrLocationNameExists
)

type LocationFilter struct {
	Scope  domain.VisibilityScope
	Search string
	Offset int
	Limit  int
}

type LocationDAO interface {
	Insert(ctx context.Context, location dao.Location) (dao.Location, error)
	FindByID(ctx context.Context, id uuid.UUID) (dao.Location, error)
	Update(ctx context.Context, location dao.Location) (dao.Location, error)
	FindAll(ctx context.Context, f dao.LocationFilter) ([]dao.Location, error)
	Count(ctx context.Context, f dao.LocationFilter) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error
}

type LocationRepository struct {
	dao LocationDAO
}

func NewLocationRepository(dao LocationDAO) *LocationRepository {
	return &LocationRepository{
		dao: dao,
	}
}

func (r *LocationRepository) Create(ctx context.Context, location domain.Location) (domain.Location, error) {
	created, err := r.dao.Insert(ctx, locationDomainToDao(location))
	if err != nil {
		return domain.Location{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return locationDaoToDomain(created), nil
}

func (r *LocationRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Location, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Location{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return locationDaoToDomain(found), nil
}

func (r *LocationRepository) Update(ctx context.Context, location domain.Location) (domain.Location, error) {
	updated, err := r.dao.Update(ctx, locationDomainToDao(location))
	if err != nil {
		return domain.Location{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return locationDaoToDomain(updated), nil
}

func (r *LocationRepository) FindAll(ctx context.Context, f LocationFilter) ([]domain.Location, error) {
	found, err := r.dao.FindAll(ctx, dao.LocationFilter{
		All:     f.Scope.All,
		OwnerID: f.Scope.OwnerID,
		Search:  f.Search,
		Offset:  f.Offset,
		Limit:   f.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	locations := make([]domain.Location, len(found))
	for i, l := range found {
		locations[i] = locationDaoToDomain(l)
	}

	return locations, nil
}

func (r *LocationRepository) Count(ctx context.Context, f LocationFilter) (int64, error) {
	count, err := r.dao.Count(ctx, dao.LocationFilter{
		All:     f.Scope.All,
		OwnerID: f.Scope.OwnerID,
		Search:  f.Search,
	})
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *LocationRepository) CountPending(ctx context.Context) (int64, error) {
	count, err := r.dao.CountByStatus(ctx, string(domain.LocationPending))
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByStatus -> %w", err)
	}

	return count, nil
}

func (r *LocationRepository) Delete(ctx context.Context, id, deletedBy uuid.UUID) error {
	if err := r.dao.SoftDelete(ctx, id, deletedBy); err != nil {
		return fmt.Errorf("r.dao.SoftDelete -> %w", err)
	}

	return nil
}

func locationDomainToDao(l domain.Location) dao.Location {
	location := dao.Location{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Address:     l.Address,
		Images:      l.Images,
		Status:      string(l.Status),
		CreatedByID: l.CreatedByID,
		ValidatedBy: l.ValidatedBy,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}

	if l.Coordinates != nil {
		lat, lng := l.Coordinates.Latitude, l.Coordinates.Longitude
		location.Latitude = &lat
		location.Longitude = &lng
	}

	return location
}

func locationDaoToDomain(l dao.Location) domain.Location {
	location := domain.Location{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Address:     l.Address,
		Images:      l.Images,
		Status:      domain.LocationStatus(l.Status),
		CreatedByID: l.CreatedByID,
		ValidatedBy: l.ValidatedBy,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}

	if l.Latitude != nil && l.Longitude != nil {
		location.Coordinates = &domain.Coordinates{
			Latitude:  *l.Latitude,
			Longitude: *l.Longitude,
		}
	}

	if l.CreatedBy != nil {
		location.CreatedBy = &domain.User{
			ID:        l.CreatedBy.ID,
			FirstName: l.CreatedBy.FirstName,
			LastName:  l.CreatedBy.LastName,
			Email:     l.CreatedBy.Email,
			Role:      domain.Role(l.CreatedBy.Role),
		}
	}

	return location
}
