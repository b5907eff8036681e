package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository/dao"
)

var ErrEventNotFound = dao.ErrEventNotFound

// EventFilter is the service-facing listing filter; the visibility
// scope computed by the policy travels inside it.
type EventFilter struct {
	Scope         domain.VisibilityScope
	CategoryID    *uuid.UUID
	LocationID    *uuid.UUID
	StartFrom     *time.Time
	IsOnline      *bool
	Search        string
	ParticipantID *uuid.UUID
	Offset        int
	Limit         int
}

// EventActivity is a per-month event count for the admin activity
// chart.
type EventActivity struct {
	Month time.Time `json:"month"`
	Count int64     `json:"count"`
}

// EventParticipants is a projection row for the organizer chart.
type EventParticipants struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ParticipantsCount int       `json:"participants_count"`
}

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	FindAll(ctx context.Context, f dao.EventFilter) ([]dao.Event, error)
	Count(ctx context.Context, f dao.EventFilter) (int64, error)
	MarkPastFinished(ctx context.Context, now time.Time) (int64, error)
	CountByStatus(ctx context.Context, organizerID *uuid.UUID) (map[string]int64, error)
	DistinctParticipants(ctx context.Context, organizerID uuid.UUID) (int64, error)
	FindWithParticipantCounts(ctx context.Context, organizerID uuid.UUID) ([]dao.EventParticipants, error)
	CountByMonth(ctx context.Context, since time.Time) ([]dao.EventActivity, error)
	SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, eventDomainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventDaoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventDaoToDomain(found), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, eventDomainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return eventDaoToDomain(updated), nil
}

func (r *EventRepository) FindAll(ctx context.Context, f EventFilter) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx, r.filterToDao(f))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, len(found))
	for i, e := range found {
		events[i] = eventDaoToDomain(e)
	}

	return events, nil
}

func (r *EventRepository) Count(ctx context.Context, f EventFilter) (int64, error) {
	count, err := r.dao.Count(ctx, r.filterToDao(f))
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *EventRepository) MarkPastFinished(ctx context.Context, now time.Time) (int64, error) {
	swept, err := r.dao.MarkPastFinished(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("r.dao.MarkPastFinished -> %w", err)
	}

	return swept, nil
}

func (r *EventRepository) CountByStatus(ctx context.Context, organizerID *uuid.UUID) (map[domain.EventStatus]int64, error) {
	rows, err := r.dao.CountByStatus(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountByStatus -> %w", err)
	}

	counts := make(map[domain.EventStatus]int64, len(rows))
	for status, total := range rows {
		counts[domain.EventStatus(status)] = total
	}

	return counts, nil
}

func (r *EventRepository) DistinctParticipants(ctx context.Context, organizerID uuid.UUID) (int64, error) {
	count, err := r.dao.DistinctParticipants(ctx, organizerID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DistinctParticipants -> %w", err)
	}

	return count, nil
}

func (r *EventRepository) FindWithParticipantCounts(ctx context.Context, organizerID uuid.UUID) ([]EventParticipants, error) {
	rows, err := r.dao.FindWithParticipantCounts(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindWithParticipantCounts -> %w", err)
	}

	out := make([]EventParticipants, 0, len(rows))
	for _, row := range rows {
		out = append(out, EventParticipants{
			ID:                row.ID,
			Name:              row.Name,
			ParticipantsCount: row.ParticipantsCount,
		})
	}

	return out, nil
}

func (r *EventRepository) CountByMonth(ctx context.Context, since time.Time) ([]EventActivity, error) {
	rows, err := r.dao.CountByMonth(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CountByMonth -> %w", err)
	}

	out := make([]EventActivity, 0, len(rows))
	for _, row := range rows {
		out = append(out, EventActivity{
			Month: row.Month,
			Count: row.Count,
		})
	}

	return out, nil
}

func (r *EventRepository) Delete(ctx context.Context, id, deletedBy uuid.UUID) error {
	if err := r.dao.SoftDelete(ctx, id, deletedBy); err != nil {
		return fmt.Errorf("r.dao.SoftDelete -> %w", err)
	}

	return nil
}

func (r *EventRepository) filterToDao(f EventFilter) dao.EventFilter {
	return dao.EventFilter{
		All:           f.Scope.All,
		OwnerID:       f.Scope.OwnerID,
		CategoryID:    f.CategoryID,
		LocationID:    f.LocationID,
		StartFrom:     f.StartFrom,
		IsOnline:      f.IsOnline,
		Search:        f.Search,
		ParticipantID: f.ParticipantID,
		Offset:        f.Offset,
		Limit:         f.Limit,
	}
}

func eventDomainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		StartDate:        e.StartDate,
		EndDate:          e.EndDate,
		IsOnline:         e.IsOnline,
		OnlineURL:        e.OnlineURL,
		LocationID:       e.LocationID,
		CategoryID:       e.CategoryID,
		OrganizerID:      e.OrganizerID,
		Status:           string(e.Status),
		RejectionReason:  e.RejectionReason,
		Price:            e.Price,
		MaxParticipants:  e.MaxParticipants,
		ParticipantCount: e.ParticipantCount,
		Images:           e.Images,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func eventDaoToDomain(e dao.Event) domain.Event {
	event := domain.Event{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		StartDate:        e.StartDate,
		EndDate:          e.EndDate,
		IsOnline:         e.IsOnline,
		OnlineURL:        e.OnlineURL,
		LocationID:       e.LocationID,
		CategoryID:       e.CategoryID,
		OrganizerID:      e.OrganizerID,
		Status:           domain.EventStatus(e.Status),
		RejectionReason:  e.RejectionReason,
		Price:            e.Price,
		MaxParticipants:  e.MaxParticipants,
		ParticipantCount: e.ParticipantCount,
		Images:           e.Images,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}

	if e.Location != nil {
		loc := locationDaoToDomain(*e.Location)
		event.Location = &loc
	}
	if e.Category != nil {
		event.Category = &domain.Category{
			ID:          e.Category.ID,
			Name:        e.Category.Name,
			Description: e.Category.Description,
			CreatedAt:   e.Category.CreatedAt,
			UpdatedAt:   e.Category.UpdatedAt,
		}
	}
	if e.Organizer != nil {
		event.Organizer = &domain.User{
			ID:        e.Organizer.ID,
			FirstName: e.Organizer.FirstName,
			LastName:  e.Organizer.LastName,
			Email:     e.Organizer.Email,
			Role:      domain.Role(e.Organizer.Role),
		}
	}

	return event
}
