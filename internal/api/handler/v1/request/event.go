package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateEventRequest struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	IsOnline        bool      `json:"is_online"`
	OnlineURL       string    `json:"online_url"`
	LocationID      string    `json:"location_id"`
	CategoryID      string    `json:"category_id"`
	Price           float64   `json:"price"`
	MaxParticipants int       `json:"max_participants"`
	Images          []string  `json:"images"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Description, validation.Length(0, 5000)),
		validation.Field(&req.StartDate, validation.Required),
		validation.Field(&req.EndDate, validation.Required),
		validation.Field(&req.LocationID, is.UUIDv4),
		validation.Field(&req.CategoryID, validation.Required, is.UUIDv4),
		validation.Field(&req.Price, validation.Min(0.0)),
		validation.Field(&req.MaxParticipants, validation.Required, validation.Min(1)),
	)
}

type UpdateEventRequest struct {
	CreateEventRequest
}

type RejectEventRequest struct {
	Reason string `json:"reason"`
}

func (req *RejectEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reason, validation.Required, validation.Length(2, 1000)),
	)
}
