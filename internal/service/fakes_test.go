package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

// In-memory fakes standing in for the repository layer. They keep just
// enough state for the service rules under test and capture the
// arguments the services hand down.

type fakeEventRepo struct {
	events     map[uuid.UUID]domain.Event
	lastFilter repository.EventFilter
	sweepCount int64
	deleted    []uuid.UUID
}

func newFakeEventRepo(events ...domain.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[uuid.UUID]domain.Event)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	event.ID = uuid.New()
	r.events[event.ID] = event
	return event, nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	return event, nil
}

func (r *fakeEventRepo) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	r.events[event.ID] = event
	return event, nil
}

func (r *fakeEventRepo) FindAll(_ context.Context, f repository.EventFilter) ([]domain.Event, error) {
	r.lastFilter = f
	out := make([]domain.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEventRepo) Count(_ context.Context, f repository.EventFilter) (int64, error) {
	return int64(len(r.events)), nil
}

func (r *fakeEventRepo) MarkPastFinished(_ context.Context, _ time.Time) (int64, error) {
	return r.sweepCount, nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id, _ uuid.UUID) error {
	delete(r.events, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]domain.Category
}

func newFakeCategoryRepo(categories ...domain.Category) *fakeCategoryRepo {
	r := &fakeCategoryRepo{categories: make(map[uuid.UUID]domain.Category)}
	for _, c := range categories {
		r.categories[c.ID] = c
	}
	return r
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return domain.Category{}, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (r *fakeCategoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.categories)), nil
}

type fakeLocationRepo struct {
	locations map[uuid.UUID]domain.Location
	deleted   []uuid.UUID
}

func newFakeLocationRepo(locations ...domain.Location) *fakeLocationRepo {
	r := &fakeLocationRepo{locations: make(map[uuid.UUID]domain.Location)}
	for _, l := range locations {
		r.locations[l.ID] = l
	}
	return r
}

func (r *fakeLocationRepo) Create(_ context.Context, location domain.Location) (domain.Location, error) {
	location.ID = uuid.New()
	r.locations[location.ID] = location
	return location, nil
}

func (r *fakeLocationRepo) FindByID(_ context.Context, id uuid.UUID) (domain.Location, error) {
	location, ok := r.locations[id]
	if !ok {
		return domain.Location{}, repository.ErrLocationNotFound
	}
	return location, nil
}

func (r *fakeLocationRepo) Update(_ context.Context, location domain.Location) (domain.Location, error) {
	r.locations[location.ID] = location
	return location, nil
}

func (r *fakeLocationRepo) FindAll(_ context.Context, _ repository.LocationFilter) ([]domain.Location, error) {
	out := make([]domain.Location, 0, len(r.locations))
	for _, l := range r.locations {
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeLocationRepo) Count(_ context.Context, _ repository.LocationFilter) (int64, error) {
	return int64(len(r.locations)), nil
}

func (r *fakeLocationRepo) CountPending(_ context.Context) (int64, error) {
	var n int64
	for _, l := range r.locations {
		if l.Status == domain.LocationPending {
			n++
		}
	}
	return n, nil
}

func (r *fakeLocationRepo) Delete(_ context.Context, id, _ uuid.UUID) error {
	delete(r.locations, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	user.ID = uuid.New()
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id uuid.UUID, role domain.Role) (domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	user.Role = role
	r.users[id] = user
	return user, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id, _ uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// fakeTicketRepo serves issuance tests: createErrs is consumed one
// error per CreateWithRegistration call, nil meaning success.
type fakeTicketRepo struct {
	createErrs []error
	created    []domain.Ticket
	cancelErr  error
	cancelled  []uuid.UUID
}

func (r *fakeTicketRepo) CreateWithRegistration(_ context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	var err error
	if len(r.createErrs) > 0 {
		err, r.createErrs = r.createErrs[0], r.createErrs[1:]
	}
	if err != nil {
		return domain.Ticket{}, err
	}

	ticket.ID = uuid.New()
	r.created = append(r.created, ticket)
	return ticket, nil
}

func (r *fakeTicketRepo) CancelRegistration(_ context.Context, eventID, _ uuid.UUID) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	r.cancelled = append(r.cancelled, eventID)
	return nil
}

type fakeNotifier struct {
	issued   []domain.Ticket
	rejected []domain.Event
	contacts []string
}

func (n *fakeNotifier) TicketIssued(_ domain.User, _ domain.Event, ticket domain.Ticket) {
	n.issued = append(n.issued, ticket)
}

func (n *fakeNotifier) EventRejected(_ domain.User, event domain.Event) {
	n.rejected = append(n.rejected, event)
}

func (n *fakeNotifier) ContactMessage(_, email, _, _ string) {
	n.contacts = append(n.contacts, email)
}
