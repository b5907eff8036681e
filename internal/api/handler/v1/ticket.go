package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/response"
	"github.com/eventhub-app/eventhub-api/internal/domain"
)

type TicketService interface {
	MyTickets(ctx context.Context, actor *domain.Actor) ([]domain.Ticket, error)
	IsRegistered(ctx context.Context, actor *domain.Actor, eventID uuid.UUID) (bool, error)
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{
		svc: svc,
	}
}

// HandleMyTickets godoc
// @Summary      List the caller's tickets, newest first
// @Tags         tickets
// @Produce      json
// @Success      200      {object}   []domain.Ticket
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /tickets/my-tickets [get]
func (h *TicketHandler) HandleMyTickets(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	tickets, err := h.svc.MyTickets(ctx.Request.Context(), actor)
	if err != nil {
		err = fmt.Errorf("v1.HandleMyTickets -> h.svc.MyTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleIsRegistered godoc
// @Summary      Report whether the caller holds an active ticket for the event
// @Tags         tickets
// @Produce      json
// @Param        eventID   path      string true "event ID"
// @Success      200      {object}   map[string]bool
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /events/{eventID}/registration [get]
func (h *TicketHandler) HandleIsRegistered(ctx *gin.Context) {
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

	registered, err := h.svc.IsRegistered(ctx.Request.Context(), actor, id)
	if err != nil {
		err = fmt.Errorf("v1.HandleIsRegistered -> h.svc.IsRegistered -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"registered": registered})
}
