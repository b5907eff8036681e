package service

import (
	"context"
	"fmt"

	"github.com/eventhub-app/eventhub-api/internal/domain"
)

type SettingRepository interface {
	Get(ctx context.Context) (domain.Setting, error)
	Update(ctx context.Context, setting domain.Setting) (domain.Setting, error)
}

type SettingService struct {
	repo SettingRepository
}

func NewSettingService(repo SettingRepository) *SettingService {
	return &SettingService{
		repo: repo,
	}
}

func (s *SettingService) Get(ctx context.Context) (domain.Setting, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return domain.Setting{}, fmt.Errorf("s.repo.Get -> %w", err)
	}

	return setting, nil
}

func (s *SettingService) Update(ctx context.Context, setting domain.Setting) (domain.Setting, error) {
	updated, err := s.repo.Update(ctx, setting)
	if err != nil {
		return domain.Setting{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}
