package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrLocationNotFound   = errors.New("location not found")
	ErrLocationNameExists = errors.New("a location with this name already exists")
)

const locationPublicStatus = "approved"

type Location struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name        string `gorm:"not null;uniqueIndex:uni_locations_name,where:deleted_at IS NULL"`
	Description string
	Address     string
	Latitude    *float64
	Longitude   *float64
	Images      []string `gorm:"serializer:json"`
	Status      string   `gorm:"not null;default:'pending';index"`

	CreatedByID uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedBy   *User      `gorm:"foreignKey:CreatedByID"`
	ValidatedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	DeletedBy *uuid.UUID     `gorm:"type:uuid"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// LocationFilter narrows a listing. All and OwnerID mirror the
// visibility scope: All disables the status restriction, OwnerID keeps
// it but also admits that owner's locations in any status.
type LocationFilter struct {
	All     bool
	OwnerID *uuid.UUID
	Search  string
	Offset  int
	Limit   int
}

type LocationDAO struct {
	db *gorm.DB
}

func NewLocationDAO(db *gorm.DB) *LocationDAO {
	return &LocationDAO{
		db: db,
	}
}

func (d *LocationDAO) Insert(ctx context.Context, location Location) (Location, error) {
	result := d.db.WithContext(ctx).Create(&location)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_locations_name") {
			return Location{}, ErrLocationNameExists
		}

		return Location{}, result.Error
	}

	return location, nil
}

func (d *LocationDAO) FindByID(ctx context.Context, id uuid.UUID) (Location, error) {
	var location Location

	result := d.db.WithContext(ctx).Preload("CreatedBy").First(&location, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Location{}, ErrLocationNotFound
		}

		return Location{}, result.Error
	}

	return location, nil
}

func (d *LocationDAO) Update(ctx context.Context, location Location) (Location, error) {
	result := d.db.WithContext(ctx).Save(&location)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_locations_name") {
			return Location{}, ErrLocationNameExists
		}

		return Location{}, result.Error
	}

	return location, nil
}

func (d *LocationDAO) filtered(ctx context.Context, f LocationFilter) *gorm.DB {
	q := d.db.WithContext(ctx).Model(&Location{})

	if !f.All {
		if f.OwnerID != nil {
			q = q.Where("status = ? OR created_by_id = ?", locationPublicStatus, *f.OwnerID)
		} else {
			q = q.Where("status = ?", locationPublicStatus)
		}
	}

	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ? OR address ILIKE ?", like, like, like)
	}

	return q
}

func (d *LocationDAO) FindAll(ctx context.Context, f LocationFilter) ([]Location, error) {
	var locations []Location

	q := d.filtered(ctx, f).Preload("CreatedBy").Order("name")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	if result := q.Find(&locations); result.Error != nil {
		return nil, result.Error
	}

	return locations, nil
}

func (d *LocationDAO) Count(ctx context.Context, f LocationFilter) (int64, error) {
	var count int64

	if result := d.filtered(ctx, f).Count(&count); result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *LocationDAO) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Location{}).Where("status = ?", status).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *LocationDAO) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Location{}).Where("id = ?", id).Update("deleted_by", deletedBy)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLocationNotFound
		}

		return tx.Delete(&Location{}, "id = ?", id).Error
	})
}
