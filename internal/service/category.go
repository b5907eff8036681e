package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

var ErrCategoryNameExists = repository.ErrCategoryNameExists

type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category domain.Category) (domain.Category, error)
	Delete(ctx context.Context, id, deletedBy uuid.UUID) error
}

type CategoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

func (s *CategoryService) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return categories, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, update domain.Category) (domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	category.Name = update.Name
	category.Description = update.Description

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, actor *domain.Actor, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, actor.ID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
