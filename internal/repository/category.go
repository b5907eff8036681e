package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
)

var (
	ErrCategoryNotFound   = dao.ErrCategoryNotFound
	ErrCategoryNameExists = dao.ErrCategoryNameExists
)

type CategoryDAO interface {
	Insert(ctx context.Context, category dao.Category) (dao.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (dao.Category, error)
	FindAll(ctx context.Context) ([]dao.Category, error)
	Update(ctx context.Context, category dao.Category) (dao.Category, error)
	Count(ctx context.Context) (int64, error)
	SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error
}

type CategoryRepository struct {
	dao CategoryDAO
}

func NewCategoryRepository(dao CategoryDAO) *CategoryRepository {
	return &CategoryRepository{
		dao: dao,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	created, err := r.dao.Insert(ctx, categoryDomainToDao(category))
	if err != nil {
		return domain.Category{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return categoryDaoToDomain(created), nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return categoryDaoToDomain(found), nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	categories := make([]domain.Category, len(found))
	for i, c := range found {
		categories[i] = categoryDaoToDomain(c)
	}

	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category domain.Category) (domain.Category, error) {
	updated, err := r.dao.Update(ctx, categoryDomainToDao(category))
	if err != nil {
		return domain.Category{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return categoryDaoToDomain(updated), nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id, deletedBy uuid.UUID) error {
	if err := r.dao.SoftDelete(ctx, id, deletedBy); err != nil {
		return fmt.Errorf("r.dao.SoftDelete -> %w", err)
	}

	return nil
}

func categoryDomainToDao(c domain.Category) dao.Category {
	return dao.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func categoryDaoToDomain(c dao.Category) domain.Category {
	return domain.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
