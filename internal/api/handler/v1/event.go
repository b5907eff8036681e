package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/request"
	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/response"
	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/service"
)

type EventService interface {
	Create(ctx context.Context, actor *domain.Actor, event domain.Event) (domain.Event, error)
	Get(ctx context.Context, actor *domain.Actor, id uuid.UUID) (domain.Event, error)
	List(ctx context.Context, actor *domain.Actor, f service.EventListFilter) ([]domain.Event, int64, error)
	Update(ctx context.Context, actor *domain.Actor, id uuid.UUID, update domain.Event) (domain.Event, error)
	ApplyAction(ctx context.Context, actor *domain.Actor, id uuid.UUID, action domain.EventAction) (domain.Event, error)
	Reject(ctx context.Context, actor *domain.Actor, id uuid.UUID, reason string) (domain.Event, error)
	Delete(ctx context.Context, actor *domain.Actor, id uuid.UUID) error
	FinishPastEvents(ctx context.Context) (int64, error)
}

type RegistrationService interface {
	Register(ctx context.Context, actor *domain.Actor, eventID uuid.UUID) (domain.Ticket, error)
	SimulatePayment(ctx context.Context, actor *domain.Actor, eventID uuid.UUID) (domain.Ticket, error)
	Unregister(ctx context.Context, actor *domain.Actor, eventID uuid.UUID) error
}

type EventHandler struct {
	svc    EventService
	regSvc RegistrationService
}

func NewEventHandler(svc EventService, regSvc RegistrationService) *EventHandler {
	return &EventHandler{
		svc:    svc,
		regSvc: regSvc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create a new draft event
// @Tags         events
// @Produce      json
// @Param        request   body      request.CreateEventRequest true "request body"
// @Success      201      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /events [post]
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := eventFromRequest(req)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), actor, event)
	if err != nil {
		h.renderEventErr(ctx, "HandleCreateEvent", err)

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleListEvents godoc
// @Summary      List events visible to the caller
// @Tags         events
// @Produce      json
// @Param        page        query   int    false "page number"
// @Param        per_page    query   int    false "page size"
// @Param        category_id query   string false "filter by category"
// @Param        location_id query   string false "filter by location"
// @Param        is_online   query   bool   false "filter by online flag"
// @Param        start_from  query   string false "RFC3339 lower bound on start date"
// @Param        search      query   string false "search in name and description"
// @Success      200      {object}   response.PaginatedEvents
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	filter, err := listFilterFromQuery(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	filter.Normalize()

	events, total, err := h.svc.List(ctx.Request.Context(), getActor(ctx), filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleListEvents -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.PaginatedEvents{
		Events:      events,
		CurrentPage: filter.Page,
		TotalPages:  response.TotalPages(total, filter.PerPage),
		TotalCount:  total,
	})
}

// HandleGetEvent godoc
// @Summary      Get one event
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      200      {object}   domain.Event
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	id, err := parseUUIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.Get(ctx.Request.Context(), getActor(ctx), id)
	if err != nil {
		h.renderEventErr(ctx, "HandleGetEvent", err)

		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event's content
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Param        request   body      request.UpdateEventRequest true "request body"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID} [put]
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	update, err := eventFromRequest(req.CreateEventRequest)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	updated, err := h.svc.Update(ctx.Request.Context(), actor, id, update)
	if err != nil {
		h.renderEventErr(ctx, "HandleUpdateEvent", err)

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID} [delete]
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, id); err != nil {
		h.renderEventErr(ctx, "HandleDeleteEvent", err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleSubmitEvent godoc
// @Summary      Submit a draft event for approval
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      200      {object}   domain.Event
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID}/submit-for-approval [patch]
func (h *EventHandler) HandleSubmitEvent(ctx *gin.Context) {
	h.applyAction(ctx, "HandleSubmitEvent", domain.ActionSubmitForApproval)
}

// HandleApproveEvent godoc
// @Summary      Approve a pending event (admin)
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      200      {object}   domain.Event
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID}/approve [patch]
func (h *EventHandler) HandleApproveEvent(ctx *gin.Context) {
	h.applyAction(ctx, "HandleApproveEvent", domain.ActionApprove)
}

// HandleRejectEvent godoc
// @Summary      Reject a pending event with a reason (admin)
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Param        request   body      request.RejectEventRequest true "request body"
// @Success      200      {object}   domain.Event
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID}/reject [patch]
func (h *EventHandler) HandleRejectEvent(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.RejectEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.Reject(ctx.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.renderEventErr(ctx, "HandleRejectEvent", err)

		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCancelApproval godoc
// @Summary      Pull a pending event back to draft
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      200      {object}   domain.Event
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID}/cancel-approval [patch]
func (h *EventHandler) HandleCancelApproval(ctx *gin.Context) {
	h.applyAction(ctx, "HandleCancelApproval", domain.ActionCancelApproval)
}

// HandleCancelEvent godoc
// @Summary      Cancel an event
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      200      {object}   domain.Event
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID}/cancel [patch]
func (h *EventHandler) HandleCancelEvent(ctx *gin.Context) {
	h.applyAction(ctx, "HandleCancelEvent", domain.ActionCancel)
}

// HandleRevertToDraft godoc
// @Summary      Revert a cancelled event to draft
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      200      {object}   domain.Event
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID}/revert-to-draft [patch]
func (h *EventHandler) HandleRevertToDraft(ctx *gin.Context) {
	h.applyAction(ctx, "HandleRevertToDraft", domain.ActionRevertToDraft)
}

// HandleRevertRejection godoc
// @Summary      Revert a rejected event to draft
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      200      {object}   domain.Event
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID}/revert-from-rejection [patch]
func (h *EventHandler) HandleRevertRejection(ctx *gin.Context) {
	h.applyAction(ctx, "HandleRevertRejection", domain.ActionRevertFromRejection)
}

// HandleRegister godoc
// @Summary      Register for a free event
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      201      {object}   domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID}/register [post]
func (h *EventHandler) HandleRegister(ctx *gin.Context) {
	h.issueTicket(ctx, "HandleRegister", h.regSvc.Register)
}

// HandleSimulatePayment godoc
// @Summary      Register for a paid event with a simulated payment
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      201      {object}   domain.Ticket
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID}/simulate-payment [post]
func (h *EventHandler) HandleSimulatePayment(ctx *gin.Context) {
	h.issueTicket(ctx, "HandleSimulatePayment", h.regSvc.SimulatePayment)
}

// HandleUnregister godoc
// @Summary      Cancel one's registration for an event
// @Tags         events
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      204
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID}/register [delete]
func (h *EventHandler) HandleUnregister(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.regSvc.Unregister(ctx.Request.Context(), actor, id); err != nil {
		h.renderEventErr(ctx, "HandleUnregister", err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleFinishPastEvents godoc
// @Summary      Mark published events whose end date has passed as finished (admin)
// @Tags         admin
// @Produce      json
// @Success      200      {object}   response.SweepResponse
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /admin/events/finish-past [post]
func (h *EventHandler) HandleFinishPastEvents(ctx *gin.Context) {
	finished, err := h.svc.FinishPastEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleFinishPastEvents -> h.svc.FinishPastEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.SweepResponse{Finished: finished})
}

func (h *EventHandler) applyAction(ctx *gin.Context, op string, action domain.EventAction) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	event, err := h.svc.ApplyAction(ctx.Request.Context(), actor, id, action)
	if err != nil {
		h.renderEventErr(ctx, op, err)

		return
	}

	ctx.JSON(http.StatusOK, event)
}

func (h *EventHandler) issueTicket(
	ctx *gin.Context,
	op string,
	issue func(context.Context, *domain.Actor, uuid.UUID) (domain.Ticket, error),
) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	ticket, err := issue(ctx.Request.Context(), actor, id)
	if err != nil {
		h.renderEventErr(ctx, op, err)

		return
	}

	ctx.JSON(http.StatusCreated, ticket)
}

func (h *EventHandler) renderEventErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrLocationNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrNotAllowed):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrInvalidEvent),
		errors.Is(err, service.ErrLocationNotUsable),
		errors.Is(err, service.ErrPaidEvent),
		errors.Is(err, service.ErrFreeEvent),
		errors.Is(err, service.ErrOwnEvent),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrEventFull),
		errors.Is(err, service.ErrEventNotOpen),
		errors.Is(err, service.ErrNotRegistered),
		errors.Is(err, service.ErrEventHasParticipants):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		err = fmt.Errorf("v1.%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func eventFromRequest(req request.CreateEventRequest) (domain.Event, error) {
	event := domain.Event{
		Name:            req.Name,
		Description:     req.Description,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsOnline:        req.IsOnline,
		OnlineURL:       req.OnlineURL,
		Price:           req.Price,
		MaxParticipants: req.MaxParticipants,
		Images:          req.Images,
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return domain.Event{}, errors.New("invalid category_id")
	}
	event.CategoryID = categoryID

	if req.LocationID != "" {
		locationID, err := uuid.Parse(req.LocationID)
		if err != nil {
			return domain.Event{}, errors.New("invalid location_id")
		}
		event.LocationID = &locationID
	}

	return event, nil
}

func listFilterFromQuery(ctx *gin.Context) (service.EventListFilter, error) {
	filter := service.EventListFilter{
		Search: ctx.Query("search"),
	}

	var err error
	if filter.Page, err = queryInt(ctx, "page", 1); err != nil {
		return service.EventListFilter{}, err
	}
	if filter.PerPage, err = queryInt(ctx, "per_page", 20); err != nil {
		return service.EventListFilter{}, err
	}

	if raw := ctx.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return service.EventListFilter{}, errors.New("invalid category_id")
		}
		filter.CategoryID = &id
	}
	if raw := ctx.Query("location_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return service.EventListFilter{}, errors.New("invalid location_id")
		}
		filter.LocationID = &id
	}
	if raw := ctx.Query("is_online"); raw != "" {
		isOnline, err := strconv.ParseBool(raw)
		if err != nil {
			return service.EventListFilter{}, errors.New("invalid is_online")
		}
		filter.IsOnline = &isOnline
	}
	if raw := ctx.Query("start_from"); raw != "" {
		startFrom, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return service.EventListFilter{}, errors.New("invalid start_from, expected RFC3339")
		}
		filter.StartFrom = &startFrom
	}

	return filter, nil
}

func queryInt(ctx *gin.Context, name string, fallback int) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %v", name)
	}

	return value, nil
}
