package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/eventhub-app/eventhub-api/internal/api/middleware"
	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/service"
)

// stubEventService returns the configured error from every operation.
type stubEventService struct {
	err error
}

func (s *stubEventService) Create(context.Context, *domain.Actor, domain.Event) (domain.Event, error) {
	return domain.Event{}, s.err
}

func (s *stubEventService) Get(context.Context, *domain.Actor, uuid.UUID) (domain.Event, error) {
	return domain.Event{}, s.err
}

func (s *stubEventService) List(context.Context, *domain.Actor, service.EventListFilter) ([]domain.Event, int64, error) {
	return nil, 0, s.err
}

func (s *stubEventService) Update(context.Context, *domain.Actor, uuid.UUID, domain.Event) (domain.Event, error) {
	return domain.Event{}, s.err
}

func (s *stubEventService) ApplyAction(context.Context, *domain.Actor, uuid.UUID, domain.EventAction) (domain.Event, error) {
	return domain.Event{}, s.err
}

func (s *stubEventService) Reject(context.Context, *domain.Actor, uuid.UUID, string) (domain.Event, error) {
	return domain.Event{}, s.err
}

func (s *stubEventService) Delete(context.Context, *domain.Actor, uuid.UUID) error {
	return s.err
}

func (s *stubEventService) FinishPastEvents(context.Context) (int64, error) {
	return 0, s.err
}

type stubRegistrationService struct {
	err error
}

func (s *stubRegistrationService) Register(context.Context, *domain.Actor, uuid.UUID) (domain.Ticket, error) {
	return domain.Ticket{}, s.err
}

func (s *stubRegistrationService) SimulatePayment(context.Context, *domain.Actor, uuid.UUID) (domain.Ticket, error) {
	return domain.Ticket{}, s.err
}

func (s *stubRegistrationService) Unregister(context.Context, *domain.Actor, uuid.UUID) error {
	return s.err
}

func newEventTestContext(method string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(method, "/", nil)
	ctx.Params = gin.Params{{Key: "eventID", Value: uuid.NewString()}}
	ctx.Set(middleware.ActorKey, &domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin})

	return ctx, rec
}

// Business-rule violations land on 400, denied visibility on 404 and
// ownership refusals on 403.
func TestEventHandlerErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		handle     func(*EventHandler, *gin.Context)
		wantStatus int
	}{
		{
			name:       "invalid transition",
			err:        service.ErrInvalidTransition,
			handle:     (*EventHandler).HandleApproveEvent,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "event full",
			err:        service.ErrEventFull,
			handle:     (*EventHandler).HandleRegister,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "already registered",
			err:        service.ErrAlreadyRegistered,
			handle:     (*EventHandler).HandleRegister,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not registered",
			err:        service.ErrNotRegistered,
			handle:     (*EventHandler).HandleUnregister,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "hidden event",
			err:        service.ErrEventNotFound,
			handle:     (*EventHandler).HandleApproveEvent,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "ownership refusal",
			err:        service.ErrNotAllowed,
			handle:     (*EventHandler).HandleSubmitEvent,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewEventHandler(
				&stubEventService{err: tt.err},
				&stubRegistrationService{err: tt.err},
			)
			ctx, rec := newEventTestContext(http.MethodPatch)

			tt.handle(handler, ctx)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
