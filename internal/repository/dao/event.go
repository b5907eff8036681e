package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

const (
	eventPublicStatus   = "published"
	eventFinishedStatus = "finished"
)

type Event struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name        string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	StartDate   time.Time `gorm:"not null"`
	EndDate     time.Time `gorm:"not null"`
	IsOnline    bool      `gorm:"not null;default:false"`
	OnlineURL   string

	LocationID *uuid.UUID `gorm:"type:uuid"`
	Location   *Location  `gorm:"foreignKey:LocationID"`
	CategoryID uuid.UUID  `gorm:"type:uuid;not null"`
	Category   *Category  `gorm:"foreignKey:CategoryID"`

	OrganizerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Organizer   *User     `gorm:"foreignKey:OrganizerID"`

	Status          string `gorm:"not null;default:'draft';index"`
	RejectionReason string

	Price           float64 `gorm:"not null;default:0"`
	MaxParticipants int     `gorm:"not null"`
	// ParticipantCount is a materialized counter kept in step with
	// active tickets inside the registration transaction.
	ParticipantCount int `gorm:"not null;default:0"`

	Images []string `gorm:"serializer:json"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	DeletedBy *uuid.UUID     `gorm:"type:uuid"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type EventFilter struct {
	All     bool
	OwnerID *uuid.UUID

	CategoryID    *uuid.UUID
	LocationID    *uuid.UUID
	StartFrom     *time.Time
	IsOnline      *bool
	Search        string
	ParticipantID *uuid.UUID

	Offset int
	Limit  int
}

// EventActivity is the scan target for CountByMonth.
type EventActivity struct {
	Month time.Time
	Count int64
}

// EventParticipants is the scan target for FindWithParticipantCounts.
type EventParticipants struct {
	ID                uuid.UUID
	Name              string
	ParticipantsCount int
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uuid.UUID) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).
		Preload("Location").
		Preload("Category").
		Preload("Organizer").
		First(&event, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Save(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) filtered(ctx context.Context, f EventFilter) *gorm.DB {
	q := d.db.WithContext(ctx).Model(&Event{})

	if !f.All {
		if f.OwnerID != nil {
			q = q.Where("status = ? OR organizer_id = ?", eventPublicStatus, *f.OwnerID)
		} else {
			q = q.Where("status = ?", eventPublicStatus)
		}
	}

	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.LocationID != nil {
		q = q.Where("location_id = ?", *f.LocationID)
	}
	if f.StartFrom != nil {
		q = q.Where("start_date >= ?", *f.StartFrom)
	}
	if f.IsOnline != nil {
		q = q.Where("is_online = ?", *f.IsOnline)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if f.ParticipantID != nil {
		q = q.Where(
			"EXISTS (SELECT 1 FROM tickets t WHERE t.event_id = events.id AND t.user_id = ? AND t.status <> 'cancelled')",
			*f.ParticipantID,
		)
	}

	return q
}

func (d *EventDAO) FindAll(ctx context.Context, f EventFilter) ([]Event, error) {
	var events []Event

	q := d.filtered(ctx, f).
		Preload("Location").
		Preload("Category").
		Preload("Organizer").
		Order("start_date DESC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	if result := q.Find(&events); result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) Count(ctx context.Context, f EventFilter) (int64, error) {
	var count int64

	if result := d.filtered(ctx, f).Count(&count); result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// MarkPastFinished is the idempotent sweep: every published event whose
// end date has passed becomes finished. Safe to run concurrently from
// any number of instances.
func (d *EventDAO) MarkPastFinished(ctx context.Context, now time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Where("status = ? AND end_date < ?", eventPublicStatus, now).
		Update("status", eventFinishedStatus)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// CountByStatus tallies events per status, optionally restricted to one
// organizer.
func (d *EventDAO) CountByStatus(ctx context.Context, organizerID *uuid.UUID) (map[string]int64, error) {
	var rows []struct {
		Status string
		Total  int64
	}

	q := d.db.WithContext(ctx).Model(&Event{}).Select("status, COUNT(*) AS total").Group("status")
	if organizerID != nil {
		q = q.Where("organizer_id = ?", *organizerID)
	}

	if result := q.Scan(&rows); result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	return counts, nil
}

// DistinctParticipants counts the unique users holding an active ticket
// to any of the organizer's events.
func (d *EventDAO) DistinctParticipants(ctx context.Context, organizerID uuid.UUID) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Distinct("tickets.user_id").
		Joins("JOIN events ON events.id = tickets.event_id AND events.deleted_at IS NULL").
		Where("events.organizer_id = ? AND tickets.status <> 'cancelled'", organizerID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// FindWithParticipantCounts lists the organizer's non-draft events with
// their roster sizes, sorted by name for stable chart output.
func (d *EventDAO) FindWithParticipantCounts(ctx context.Context, organizerID uuid.UUID) ([]EventParticipants, error) {
	var rows []EventParticipants

	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Select("id, name, participant_count AS participants_count").
		Where("organizer_id = ? AND status <> 'draft'", organizerID).
		Order("name").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

// CountByMonth buckets events by the month they start in, from since
// onward.
func (d *EventDAO) CountByMonth(ctx context.Context, since time.Time) ([]EventActivity, error) {
	var rows []EventActivity

	result := d.db.WithContext(ctx).
		Model(&Event{}).
		Select("date_trunc('month', start_date) AS month, count(*) AS count").
		Where("start_date >= ?", since).
		Group("date_trunc('month', start_date)").
		Order("month").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *EventDAO) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Event{}).Where("id = ?", id).Update("deleted_by", deletedBy)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}

		return tx.Delete(&Event{}, "id = ?", id).Error
	})
}
