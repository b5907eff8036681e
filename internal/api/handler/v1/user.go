package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/request"
	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/response"
	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
	"github.com/eventhub-app/eventhub-api/internal/service"
)

type UserService interface {
	GetProfile(ctx context.Context, actor *domain.Actor) (domain.User, error)
	UpdateProfile(ctx context.Context, actor *domain.Actor, firstName, lastName string) (domain.User, error)
	DashboardStats(ctx context.Context, actor *domain.Actor) (service.OrganizerStats, error)
	EventsWithParticipants(ctx context.Context, actor *domain.Actor) ([]repository.EventParticipants, error)
	ParticipatedEvents(ctx context.Context, actor *domain.Actor) ([]domain.Event, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the caller's profile
// @Tags         users
// @Produce      json
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /users/me [get]
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	user, err := h.svc.GetProfile(ctx.Request.Context(), actor)
	if err != nil {
		h.renderUserErr(ctx, "HandleGetMe", err)

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateMe godoc
// @Summary      Update the caller's profile
// @Tags         users
// @Produce      json
// @Param        request   body      request.UpdateProfileRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Security     BearerAuth
// @Router       /users/me [put]
func (h *UserHandler) HandleUpdateMe(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	var req request.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.UpdateProfile(ctx.Request.Context(), actor, req.FirstName, req.LastName)
	if err != nil {
		h.renderUserErr(ctx, "HandleUpdateMe", err)

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleDashboardStats godoc
// @Summary      Get the caller's organizer dashboard summary
// @Tags         users
// @Produce      json
// @Success      200      {object}   service.OrganizerStats
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /users/me/dashboard-stats [get]
func (h *UserHandler) HandleDashboardStats(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	stats, err := h.svc.DashboardStats(ctx.Request.Context(), actor)
	if err != nil {
		h.renderUserErr(ctx, "HandleDashboardStats", err)

		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleEventsWithParticipants godoc
// @Summary      List the caller's events with their participant totals
// @Tags         users
// @Produce      json
// @Success      200      {object}   []repository.EventParticipants
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /users/me/events-with-participants [get]
func (h *UserHandler) HandleEventsWithParticipants(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	rows, err := h.svc.EventsWithParticipants(ctx.Request.Context(), actor)
	if err != nil {
		h.renderUserErr(ctx, "HandleEventsWithParticipants", err)

		return
	}

	ctx.JSON(http.StatusOK, rows)
}

// HandleParticipatedEvents godoc
// @Summary      List the events the caller holds an active ticket for
// @Tags         users
// @Produce      json
// @Success      200      {object}   []domain.Event
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /users/me/participated-events [get]
func (h *UserHandler) HandleParticipatedEvents(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	events, err := h.svc.ParticipatedEvents(ctx.Request.Context(), actor)
	if err != nil {
		h.renderUserErr(ctx, "HandleParticipatedEvents", err)

		return
	}

	ctx.JSON(http.StatusOK, events)
}

func (h *UserHandler) renderUserErr(ctx *gin.Context, op string, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		response.RenderErr(ctx, response.ErrNotFound(err))

		return
	}

	err = fmt.Errorf("v1.%v -> %w", op, err)
	response.RenderErr(ctx, response.ErrInternalServerError(err))
}
