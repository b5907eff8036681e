package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameExists = errors.New("a category with this name already exists")
)

type Category struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name        string `gorm:"not null;uniqueIndex:uni_categories_name,where:deleted_at IS NULL"`
	Description string

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	DeletedBy *uuid.UUID     `gorm:"type:uuid"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type CategoryDAO struct {
	db *gorm.DB
}

func NewCategoryDAO(db *gorm.DB) *CategoryDAO {
	return &CategoryDAO{
		db: db,
	}
}

func (d *CategoryDAO) Insert(ctx context.Context, category Category) (Category, error) {
	result := d.db.WithContext(ctx).Create(&category)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_categories_name") {
			return Category{}, ErrCategoryNameExists
		}

		return Category{}, result.Error
	}

	return category, nil
}

func (d *CategoryDAO) FindByID(ctx context.Context, id uuid.UUID) (Category, error) {
	var category Category

	result := d.db.WithContext(ctx).First(&category, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Category{}, ErrCategoryNotFound
		}

		return Category{}, result.Error
	}

	return category, nil
}

func (d *CategoryDAO) FindAll(ctx context.Context) ([]Category, error) {
	var categories []Category

	result := d.db.WithContext(ctx).Order("name").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}

func (d *CategoryDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Category{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *CategoryDAO) Update(ctx context.Context, category Category) (Category, error) {
	result := d.db.WithContext(ctx).Save(&category)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_categories_name") {
			return Category{}, ErrCategoryNameExists
		}

		return Category{}, result.Error
	}

	return category, nil
}

func (d *CategoryDAO) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Category{}).Where("id = ?", id).Update("deleted_by", deletedBy)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}

		return tx.Delete(&Category{}, "id = ?", id).Error
	})
}
