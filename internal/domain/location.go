package domain

import (
	"time"

	"github.com/google/uuid"
)

type LocationStatus string

const (
	LocationPending  LocationStatus = "pending"
	LocationApproved LocationStatus = "approved"
	LocationRejected LocationStatus = "rejected"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Location struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Address     string         `json:"address,omitempty"`
	Coordinates *Coordinates   `json:"coordinates,omitempty"`
	Images      []string       `json:"images"`
	Status      LocationStatus `json:"status"`
	CreatedByID uuid.UUID      `json:"created_by_id"`
	CreatedBy   *User          `json:"created_by,omitempty"`
	ValidatedBy *uuid.UUID     `json:"validated_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Approve, Reject and SetPending are unconditional admin actions: the
// location sub-machine has no guard on the source status.

func (l *Location) Approve(adminID uuid.UUID) {
	l.Status = LocationApproved
	l.ValidatedBy = &adminID
}

func (l *Location) Reject(adminID uuid.UUID) {
	l.Status = LocationRejected
	l.ValidatedBy = &adminID
}

func (l *Location) SetPending() {
	l.Status = LocationPending
	l.ValidatedBy = nil
}
