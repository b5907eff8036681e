package repository

import (
	"context"
	"fmt"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
)

type SettingDAO interface {
	Get(ctx context.Context, defaults dao.Setting) (dao.Setting, error)
	Update(ctx context.Context, setting dao.Setting) (dao.Setting, error)
}

type SettingRepository struct {
	dao SettingDAO
}

func NewSettingRepository(dao SettingDAO) *SettingRepository {
	return &SettingRepository{
		dao: dao,
	}
}

// Get returns the singleton settings document, seeding it with defaults
// on first read.
func (r *SettingRepository) Get(ctx context.Context) (domain.Setting, error) {
	found, err := r.dao.Get(ctx, settingDomainToDao(domain.DefaultSetting()))
	if err != nil {
		return domain.Setting{}, fmt.Errorf("r.dao.Get -> %w", err)
	}

	return settingDaoToDomain(found), nil
}

func (r *SettingRepository) Update(ctx context.Context, setting domain.Setting) (domain.Setting, error) {
	updated, err := r.dao.Update(ctx, settingDomainToDao(setting))
	if err != nil {
		return domain.Setting{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return settingDaoToDomain(updated), nil
}

func settingDomainToDao(s domain.Setting) dao.Setting {
	values := make([]dao.SettingValue, len(s.Values))
	for i, v := range s.Values {
		values[i] = dao.SettingValue(v)
	}

	return dao.Setting{
		MainLogo:                s.MainLogo,
		DarkModeLogo:            s.DarkModeLogo,
		Carousel:                s.Carousel,
		AboutText:               s.AboutText,
		CarouselWelcomeText:     s.CarouselWelcomeText,
		CarouselAppNameText:     s.CarouselAppNameText,
		CarouselDescriptionText: s.CarouselDescriptionText,
		CallToActionText:        s.CallToActionText,
		Values:                  values,
	}
}

func settingDaoToDomain(s dao.Setting) domain.Setting {
	values := make([]domain.SettingValue, len(s.Values))
	for i, v := range s.Values {
		values[i] = domain.SettingValue(v)
	}

	return domain.Setting{
		MainLogo:                s.MainLogo,
		DarkModeLogo:            s.DarkModeLogo,
		Carousel:                s.Carousel,
		AboutText:               s.AboutText,
		CarouselWelcomeText:     s.CarouselWelcomeText,
		CarouselAppNameText:     s.CarouselAppNameText,
		CarouselDescriptionText: s.CarouselDescriptionText,
		CallToActionText:        s.CallToActionText,
		Values:                  values,
		UpdatedAt:               s.UpdatedAt,
	}
}
