package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Setting is a single-row table; ID is pinned to 1.
type Setting struct {
	ID uint `gorm:"primaryKey"`

	MainLogo                string
	DarkModeLogo            string
	Carousel                []string `gorm:"serializer:json"`
	AboutText               string
	CarouselWelcomeText     string
	CarouselAppNameText     string
	CarouselDescriptionText string
	CallToActionText        string
	Values                  []SettingValue `gorm:"serializer:json"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type SettingValue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type SettingDAO struct {
	db *gorm.DB
}

func NewSettingDAO(db *gorm.DB) *SettingDAO {
	return &SettingDAO{
		db: db,
	}
}

// Get returns the singleton row, creating it from defaults on first
// read.
func (d *SettingDAO) Get(ctx context.Context, defaults Setting) (Setting, error) {
	var setting Setting

	result := d.db.WithContext(ctx).First(&setting, "id = ?", 1)
	if result.Error == nil {
		return setting, nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return Setting{}, result.Error
	}

	defaults.ID = 1
	if result := d.db.WithContext(ctx).Create(&defaults); result.Error != nil {
		return Setting{}, result.Error
	}

	return defaults, nil
}

func (d *SettingDAO) Update(ctx context.Context, setting Setting) (Setting, error) {
	setting.ID = 1

	result := d.db.WithContext(ctx).Save(&setting)
	if result.Error != nil {
		return Setting{}, result.Error
	}

	return setting, nil
}
