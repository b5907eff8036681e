package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventStatus string

const (
	EventDraft           EventStatus = "draft"
	EventPendingApproval EventStatus = "pending_approval"
	EventPublished       EventStatus = "published"
	EventRejected        EventStatus = "rejected"
	EventCancelled       EventStatus = "cancelled"
	EventFinished        EventStatus = "finished"
)

// EventAction is a moderation action applied to an event through the
// status state machine.
type EventAction string

const (
	ActionSubmitForApproval   EventAction = "submit_for_approval"
	ActionApprove             EventAction = "approve"
	ActionReject              EventAction = "reject"
	ActionCancelApproval      EventAction = "cancel_approval"
	ActionCancel              EventAction = "cancel"
	ActionRevertToDraft       EventAction = "revert_to_draft"
	ActionRevertFromRejection EventAction = "revert_from_rejection"
)

var (
	ErrInvalidTransition = errors.New("invalid event status transition")
	ErrNotAllowed        = errors.New("action not allowed for this user")

	ErrInvalidEvent      = errors.New("invalid event")
	ErrEndBeforeStart    = fmt.Errorf("%w: end date must not be before start date", ErrInvalidEvent)
	ErrOnlineURLRequired = fmt.Errorf("%w: an online event requires an online URL", ErrInvalidEvent)
	ErrOnlineURLInvalid  = fmt.Errorf("%w: the online URL is not a valid absolute URL", ErrInvalidEvent)
	ErrLocationRequired  = fmt.Errorf("%w: an in-person event requires a location", ErrInvalidEvent)
	ErrNegativePrice     = fmt.Errorf("%w: price must not be negative", ErrInvalidEvent)
	ErrInvalidCapacity   = fmt.Errorf("%w: max participants must be at least 1", ErrInvalidEvent)
	ErrRejectionNoReason = fmt.Errorf("%w: a rejection reason is required", ErrInvalidEvent)
)

type Event struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	StartDate        time.Time   `json:"start_date"`
	EndDate          time.Time   `json:"end_date"`
	IsOnline         bool        `json:"is_online"`
	OnlineURL        string      `json:"online_url,omitempty"`
	LocationID       *uuid.UUID  `json:"location_id,omitempty"`
	Location         *Location   `json:"location,omitempty"`
	CategoryID       uuid.UUID   `json:"category_id"`
	Category         *Category   `json:"category,omitempty"`
	OrganizerID      uuid.UUID   `json:"organizer_id"`
	Organizer        *User       `json:"organizer,omitempty"`
	Status           EventStatus `json:"status"`
	RejectionReason  string      `json:"rejection_reason,omitempty"`
	Price            float64     `json:"price"`
	MaxParticipants  int         `json:"max_participants"`
	ParticipantCount int         `json:"participant_count"`
	Images           []string    `json:"images"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

type eventTransition struct {
	from      []EventStatus
	to        EventStatus
	adminOnly bool
}

// eventTransitions is the moderation state machine. Unless adminOnly,
// an action is allowed for the owning organizer or an admin.
var eventTransitions = map[EventAction]eventTransition{
	ActionSubmitForApproval:   {from: []EventStatus{EventDraft}, to: EventPendingApproval},
	ActionApprove:             {from: []EventStatus{EventPendingApproval}, to: EventPublished, adminOnly: true},
	ActionReject:              {from: []EventStatus{EventPendingApproval}, to: EventRejected, adminOnly: true},
	ActionCancelApproval:      {from: []EventStatus{EventPendingApproval}, to: EventDraft},
	ActionCancel:              {from: []EventStatus{EventDraft, EventPendingApproval, EventPublished}, to: EventCancelled},
	ActionRevertToDraft:       {from: []EventStatus{EventCancelled}, to: EventDraft},
	ActionRevertFromRejection: {from: []EventStatus{EventRejected}, to: EventDraft},
}

// Apply runs one moderation action against the event. It checks the
// actor (owning organizer or admin, admin only for approve/reject) and
// the current status, then assigns the target status and maintains the
// rejection reason.
func (e *Event) Apply(action EventAction, actor *Actor) error {
	t, ok := eventTransitions[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	if t.adminOnly {
		if !actor.IsAdmin() {
			return fmt.Errorf("%w: %s requires the admin role", ErrNotAllowed, action)
		}
	} else if !actor.IsAdmin() && !actor.Is(e.OrganizerID) {
		return fmt.Errorf("%w: %s requires the owning organizer or an admin", ErrNotAllowed, action)
	}

	if !statusIn(e.Status, t.from) {
		return fmt.Errorf("%w: %s requires status %s, event is %s",
			ErrInvalidTransition, action, statusList(t.from), e.Status)
	}

	e.Status = t.to
	switch action {
	case ActionApprove, ActionRevertFromRejection:
		e.RejectionReason = ""
	}

	return nil
}

// Reject applies the reject action with its mandatory reason.
func (e *Event) Reject(actor *Actor, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return ErrRejectionNoReason
	}

	if err := e.Apply(ActionReject, actor); err != nil {
		return err
	}

	e.RejectionReason = reason

	return nil
}

// Validate enforces the write-time invariants that hold in every
// status: date ordering, the online/in-person shape, price and
// capacity bounds. It also normalizes the exclusive fields (an online
// event drops its location, an in-person event drops its URL).
func (e *Event) Validate() error {
	if e.EndDate.Before(e.StartDate) {
		return ErrEndBeforeStart
	}

	if e.IsOnline {
		if e.OnlineURL == "" {
			return ErrOnlineURLRequired
		}
		if !isAbsoluteURL(e.OnlineURL) {
			return ErrOnlineURLInvalid
		}
		e.LocationID = nil
		e.Location = nil
	} else {
		if e.LocationID == nil {
			return ErrLocationRequired
		}
		e.OnlineURL = ""
	}

	if e.Price < 0 {
		return ErrNegativePrice
	}
	if e.MaxParticipants < 1 {
		return ErrInvalidCapacity
	}

	return nil
}

func (e *Event) IsFull() bool {
	return e.ParticipantCount >= e.MaxParticipants
}

func (e *Event) IsFree() bool {
	return e.Price == 0
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	switch u.Scheme {
	case "http", "https", "ftp":
		return true
	}
	return false
}

func statusIn(s EventStatus, in []EventStatus) bool {
	for _, candidate := range in {
		if s == candidate {
			return true
		}
	}
	return false
}

func statusList(statuses []EventStatus) string {
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, " or ")
}
