package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrAlreadyRegistered = errors.New("user is already registered for this event")
	ErrTicketNumberTaken = errors.New("ticket number already taken")
	ErrEventFull         = errors.New("event has reached its maximum number of participants")
	ErrEventNotOpen      = errors.New("event is not open for registration")
	ErrNotRegistered     = errors.New("user is not registered for this event")
)

type Ticket struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uni_tickets_event_user,where:status <> 'cancelled'"`
	Event   *Event    `gorm:"foreignKey:EventID"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uni_tickets_event_user"`
	User    *User     `gorm:"foreignKey:UserID"`

	TicketNumber    string    `gorm:"not null;uniqueIndex:uni_tickets_number"`
	QRCodeData      string    `gorm:"not null"`
	Status          string    `gorm:"not null;default:'valid'"`
	PurchaseDate    time.Time `gorm:"not null"`
	PriceAtPurchase float64   `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

// InsertWithRegistration persists the ticket and takes one capacity
// slot in a single transaction. The capacity check is pushed into a
// conditional update so two racing registrations cannot both claim the
// last seat, and the partial unique index on (event_id, user_id)
// arbitrates duplicate registrations.
func (d *TicketDAO) InsertWithRegistration(ctx context.Context, ticket Ticket) (Ticket, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seat := tx.Model(&Event{}).
			Where("id = ? AND status = ? AND participant_count < max_participants", ticket.EventID, eventPublicStatus).
			Update("participant_count", gorm.Expr("participant_count + 1"))
		if seat.Error != nil {
			return seat.Error
		}
		if seat.RowsAffected == 0 {
			return d.seatRefusal(tx, ticket.EventID)
		}

		if result := tx.Create(&ticket); result.Error != nil {
			if isUniqueViolation(result.Error, "uni_tickets_event_user") {
				return ErrAlreadyRegistered
			}
			if isUniqueViolation(result.Error, "uni_tickets_number") {
				return ErrTicketNumberTaken
			}

			return result.Error
		}

		return nil
	})
	if err != nil {
		return Ticket{}, err
	}

	return ticket, nil
}

// seatRefusal tells a full event apart from one that is closed or gone.
func (d *TicketDAO) seatRefusal(tx *gorm.DB, eventID uuid.UUID) error {
	var event Event

	result := tx.First(&event, "id = ?", eventID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}

		return result.Error
	}

	if event.Status != eventPublicStatus {
		return ErrEventNotOpen
	}

	return ErrEventFull
}

// CancelRegistration cancels the user's active ticket and releases its
// capacity slot in one transaction. The conditional update makes a
// concurrent double-unregister lose cleanly with ErrNotRegistered.
func (d *TicketDAO) CancelRegistration(ctx context.Context, eventID, userID uuid.UUID) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Ticket{}).
			Where("event_id = ? AND user_id = ? AND status <> 'cancelled'", eventID, userID).
			Update("status", "cancelled")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotRegistered
		}

		return tx.Model(&Event{}).
			Where("id = ? AND participant_count > 0", eventID).
			Update("participant_count", gorm.Expr("participant_count - 1")).Error
	})
}

func (d *TicketDAO) FindByUser(ctx context.Context, userID uuid.UUID) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Preload("Event").
		Preload("Event.Location").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

// HasActive reports whether the user currently holds a non-cancelled
// ticket for the event.
func (d *TicketDAO) HasActive(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("event_id = ? AND user_id = ? AND status <> 'cancelled'", eventID, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}
