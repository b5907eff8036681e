package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

var (
	ErrEventNotFound        = repository.ErrEventNotFound
	ErrCategoryNotFound     = repository.ErrCategoryNotFound
	ErrInvalidTransition    = domain.ErrInvalidTransition
	ErrNotAllowed           = domain.ErrNotAllowed
	ErrInvalidEvent         = domain.ErrInvalidEvent
	ErrLocationNotUsable    = errors.New("location is not approved for use")
	ErrEventHasParticipants = errors.New("event still has registered participants")
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	FindAll(ctx context.Context, f repository.EventFilter) ([]domain.Event, error)
	Count(ctx context.Context, f repository.EventFilter) (int64, error)
	MarkPastFinished(ctx context.Context, now time.Time) (int64, error)
	Delete(ctx context.Context, id, deletedBy uuid.UUID) error
}

type EventCategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Category, error)
}

type EventLocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Location, error)
}

type EventUserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}

type EventService struct {
	repo         EventRepository
	categoryRepo EventCategoryRepository
	locationRepo EventLocationRepository
	userRepo     EventUserRepository
	notifier     Notifier
}

func NewEventService(
	repo EventRepository,
	categoryRepo EventCategoryRepository,
	locationRepo EventLocationRepository,
	userRepo EventUserRepository,
	notifier Notifier,
) *EventService {
	return &EventService{
		repo:         repo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// EventListFilter carries the caller-supplied listing filters; the
// visibility scope is derived from the actor, never from input.
type EventListFilter struct {
	CategoryID    *uuid.UUID
	LocationID    *uuid.UUID
	StartFrom     *time.Time
	IsOnline      *bool
	Search        string
	ParticipantID *uuid.UUID
	Page          int
	PerPage       int
}

// Normalize clamps the paging inputs to their served bounds.
func (f *EventListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
}

// Create stores a new draft event owned by the actor after validating
// its shape and references.
func (s *EventService) Create(ctx context.Context, actor *domain.Actor, event domain.Event) (domain.Event, error) {
	event.OrganizerID = actor.ID
	event.Status = domain.EventDraft
	event.RejectionReason = ""
	event.ParticipantCount = 0

	if err := s.validateReferences(ctx, actor, &event); err != nil {
		return domain.Event{}, err
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Get returns the event if the actor may view it. A visibility refusal
// is reported as not-found so a hidden event cannot be probed for.
func (s *EventService) Get(ctx context.Context, actor *domain.Actor, id uuid.UUID) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !domain.CanViewEvent(actor, event) {
		return domain.Event{}, ErrEventNotFound
	}

	return event, nil
}

// List returns the page of events visible to the actor plus the total
// count under the same filter.
func (s *EventService) List(ctx context.Context, actor *domain.Actor, f EventListFilter) ([]domain.Event, int64, error) {
	f.Normalize()

	filter := repository.EventFilter{
		Scope:         domain.EventListScope(actor),
		CategoryID:    f.CategoryID,
		LocationID:    f.LocationID,
		StartFrom:     f.StartFrom,
		IsOnline:      f.IsOnline,
		Search:        f.Search,
		ParticipantID: f.ParticipantID,
		Offset:        (f.Page - 1) * f.PerPage,
		Limit:         f.PerPage,
	}

	events, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.Count -> %w", err)
	}

	return events, total, nil
}

// Update edits the event's content fields. Only the owner or an admin
// may edit, and a published event's edits do not bypass moderation:
// content edits are allowed while the status stays untouched.
func (s *EventService) Update(ctx context.Context, actor *domain.Actor, id uuid.UUID, update domain.Event) (domain.Event, error) {
	event, err := s.Get(ctx, actor, id)
	if err != nil {
		return domain.Event{}, err
	}

	if !actor.IsAdmin() && !actor.Is(event.OrganizerID) {
		return domain.Event{}, fmt.Errorf("%w: only the owning organizer or an admin may edit", ErrNotAllowed)
	}

	event.Name = update.Name
	event.Description = update.Description
	event.StartDate = update.StartDate
	event.EndDate = update.EndDate
	event.IsOnline = update.IsOnline
	event.OnlineURL = update.OnlineURL
	event.LocationID = update.LocationID
	event.CategoryID = update.CategoryID
	event.Price = update.Price
	event.MaxParticipants = update.MaxParticipants
	event.Images = update.Images

	if err := s.validateReferences(ctx, actor, &event); err != nil {
		return domain.Event{}, err
	}

	// An organizer reworking a rejected event gets a fresh draft; the
	// old verdict no longer describes the content.
	if !actor.IsAdmin() && event.Status == domain.EventRejected {
		event.Status = domain.EventDraft
		event.RejectionReason = ""
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// ApplyAction runs one moderation action through the status state
// machine.
func (s *EventService) ApplyAction(ctx context.Context, actor *domain.Actor, id uuid.UUID, action domain.EventAction) (domain.Event, error) {
	return s.transition(ctx, actor, id, func(event *domain.Event) error {
		return event.Apply(action, actor)
	})
}

// Reject runs the reject action with its mandatory reason and notifies
// the organizer.
func (s *EventService) Reject(ctx context.Context, actor *domain.Actor, id uuid.UUID, reason string) (domain.Event, error) {
	rejected, err := s.transition(ctx, actor, id, func(event *domain.Event) error {
		return event.Reject(actor, reason)
	})
	if err != nil {
		return domain.Event{}, err
	}

	organizer, err := s.userRepo.FindByID(ctx, rejected.OrganizerID)
	if err != nil {
		zap.L().Warn("could not look up organizer for rejection notice",
			zap.String("event_id", rejected.ID.String()),
			zap.Error(err),
		)

		return rejected, nil
	}

	s.notifier.EventRejected(organizer, rejected)

	return rejected, nil
}

func (s *EventService) transition(ctx context.Context, actor *domain.Actor, id uuid.UUID, apply func(*domain.Event) error) (domain.Event, error) {
	event, err := s.Get(ctx, actor, id)
	if err != nil {
		return domain.Event{}, err
	}

	if err := apply(&event); err != nil {
		return domain.Event{}, err
	}

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// Delete soft-deletes the event. An event that still holds registered
// participants must be cancelled first so its tickets get released.
func (s *EventService) Delete(ctx context.Context, actor *domain.Actor, id uuid.UUID) error {
	event, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() && !actor.Is(event.OrganizerID) {
		return fmt.Errorf("%w: only the owning organizer or an admin may delete", ErrNotAllowed)
	}

	if event.Status != domain.EventCancelled && event.ParticipantCount > 0 {
		return ErrEventHasParticipants
	}

	if err := s.repo.Delete(ctx, id, actor.ID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// FinishPastEvents moves every published event whose end date has
// passed to finished. It is idempotent and safe to run concurrently
// with itself.
func (s *EventService) FinishPastEvents(ctx context.Context) (int64, error) {
	swept, err := s.repo.MarkPastFinished(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("s.repo.MarkPastFinished -> %w", err)
	}

	if swept > 0 {
		zap.L().Info("marked past events as finished", zap.Int64("count", swept))
	}

	return swept, nil
}

func (s *EventService) validateReferences(ctx context.Context, actor *domain.Actor, event *domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	if _, err := s.categoryRepo.FindByID(ctx, event.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}

		return fmt.Errorf("s.categoryRepo.FindByID -> %w", err)
	}

	if event.LocationID != nil {
		location, err := s.locationRepo.FindByID(ctx, *event.LocationID)
		if err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return ErrLocationNotFound
			}

			return fmt.Errorf("s.locationRepo.FindByID -> %w", err)
		}

		// Organizers may only attach approved locations; pending or
		// rejected ones stay usable by their creator and admins.
		if location.Status != domain.LocationApproved &&
			!actor.IsAdmin() && !actor.Is(location.CreatedByID) {
			return ErrLocationNotUsable
		}
	}

	return nil
}
