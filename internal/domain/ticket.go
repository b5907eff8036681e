package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketValid     TicketStatus = "valid"
	TicketScanned   TicketStatus = "scanned"
	TicketCancelled TicketStatus = "cancelled"
)

const ticketNumberPrefix = "TKT"

type Ticket struct {
	ID              uuid.UUID    `json:"id"`
	EventID         uuid.UUID    `json:"event_id"`
	Event           *Event       `json:"event,omitempty"`
	UserID          uuid.UUID    `json:"user_id"`
	TicketNumber    string       `json:"ticket_number"`
	QRCodeData      string       `json:"qr_code_data"`
	Status          TicketStatus `json:"status"`
	PurchaseDate    time.Time    `json:"purchase_date"`
	PriceAtPurchase float64      `json:"price_at_purchase"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// NewTicketNumber builds a human-readable ticket number from the tails
// of the event and user identities plus two random bytes. The identity
// prefix keeps accidental collisions to the random suffix only; the
// caller retries with a fresh number on a uniqueness violation.
func NewTicketNumber(eventID, userID uuid.UUID) (string, error) {
	salt := make([]byte, 2)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("rand.Read -> %w", err)
	}

	parts := []string{
		ticketNumberPrefix,
		idTail(eventID),
		idTail(userID),
		hex.EncodeToString(salt),
	}

	return strings.ToUpper(strings.Join(parts, "-")), nil
}

func idTail(id uuid.UUID) string {
	s := id.String()
	return s[len(s)-5:]
}
