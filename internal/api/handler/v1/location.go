package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/request"
	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/response"
	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/service"
)

type LocationService interface {
	Create(ctx context.Context, actor *domain.Actor, location domain.Location) (domain.Location, error)
	Get(ctx context.Context, actor *domain.Actor, id uuid.UUID) (domain.Location, error)
	List(ctx context.Context, actor *domain.Actor, f service.LocationListFilter) ([]domain.Location, int64, error)
	Update(ctx context.Context, actor *domain.Actor, id uuid.UUID, update domain.Location) (domain.Location, error)
	Approve(ctx context.Context, actor *domain.Actor, id uuid.UUID) (domain.Location, error)
	Reject(ctx context.Context, actor *domain.Actor, id uuid.UUID) (domain.Location, error)
	SetPending(ctx context.Context, actor *domain.Actor, id uuid.UUID) (domain.Location, error)
	Delete(ctx context.Context, actor *domain.Actor, id uuid.UUID) error
}

type LocationHandler struct {
	svc LocationService
}

func NewLocationHandler(svc LocationService) *LocationHandler {
	return &LocationHandler{
		svc: svc,
	}
}

// HandleCreateLocation godoc
// @Summary      Create a new pending location
// @Tags         locations
// @Produce      json
// @Param        request   body      request.CreateLocationRequest true "request body"
// @Success      201      {object}   domain.Location
// @Failure      400      {object}   response.Err
// @Security     BearerAuth
// @Router       /locations [post]
func (h *LocationHandler) HandleCreateLocation(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	var req request.CreateLocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), actor, locationFromRequest(req))
	if err != nil {
		h.renderLocationErr(ctx, "HandleCreateLocation", err)

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleListLocations godoc
// @Summary      List locations visible to the caller
// @Tags         locations
// @Produce      json
// @Param        page      query     int    false "page number"
// @Param        per_page  query     int    false "page size"
// @Param        search    query     string false "search in name, description and address"
// @Success      200      {object}   response.PaginatedLocations
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /locations [get]
func (h *LocationHandler) HandleListLocations(ctx *gin.Context) {
	filter := service.LocationListFilter{
		Search: ctx.Query("search"),
	}

	var err error
	if filter.Page, err = queryInt(ctx, "page", 1); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}
	if filter.PerPage, err = queryInt(ctx, "per_page", 20); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	filter.Normalize()

	locations, total, err := h.svc.List(ctx.Request.Context(), getActor(ctx), filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleListLocations -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.PaginatedLocations{
		Locations:   locations,
		CurrentPage: filter.Page,
		TotalPages:  response.TotalPages(total, filter.PerPage),
		TotalCount:  total,
	})
}

// HandleGetLocation godoc
// @Summary      Get one location
// @Tags         locations
// @Produce      json
// @Param        locationID   path   string true "location ID"
// @Success      200      {object}   domain.Location
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /locations/{locationID} [get]
func (h *LocationHandler) HandleGetLocation(ctx *gin.Context) {
	id, err := parseUUIDParam(ctx, "locationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	location, err := h.svc.Get(ctx.Request.Context(), getActor(ctx), id)
	if err != nil {
		h.renderLocationErr(ctx, "HandleGetLocation", err)

		return
	}

	ctx.JSON(http.StatusOK, location)
}

// HandleUpdateLocation godoc
// @Summary      Update a location
// @Tags         locations
// @Produce      json
// @Param        locationID   path   string true "location ID"
// @Param        request   body      request.UpdateLocationRequest true "request body"
// @Success      200      {object}   domain.Location
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /locations/{locationID} [put]
func (h *LocationHandler) HandleUpdateLocation(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "locationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateLocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	updated, err := h.svc.Update(ctx.Request.Context(), actor, id, locationFromRequest(req.CreateLocationRequest))
	if err != nil {
		h.renderLocationErr(ctx, "HandleUpdateLocation", err)

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleApproveLocation godoc
// @Summary      Approve a location (admin)
// @Tags         locations
// @Produce      json
// @Param        locationID   path   string true "location ID"
// @Success      200      {object}   domain.Location
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /locations/{locationID}/approve [patch]
func (h *LocationHandler) HandleApproveLocation(ctx *gin.Context) {
	h.moderate(ctx, "HandleApproveLocation", h.svc.Approve)
}

// HandleRejectLocation godoc
// @Summary      Reject a location (admin)
// @Tags         locations
// @Produce      json
// @Param        locationID   path   string true "location ID"
// @Success      200      {object}   domain.Location
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /locations/{locationID}/reject [patch]
func (h *LocationHandler) HandleRejectLocation(ctx *gin.Context) {
	h.moderate(ctx, "HandleRejectLocation", h.svc.Reject)
}

// HandleSetLocationPending godoc
// @Summary      Move a location back to pending (admin)
// @Tags         locations
// @Produce      json
// @Param        locationID   path   string true "location ID"
// @Success      200      {object}   domain.Location
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /locations/{locationID}/set-pending [patch]
func (h *LocationHandler) HandleSetLocationPending(ctx *gin.Context) {
	h.moderate(ctx, "HandleSetLocationPending", h.svc.SetPending)
}

// HandleDeleteLocation godoc
// @Summary      Delete a location
// @Tags         locations
// @Produce      json
// @Param        locationID   path   string true "location ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /locations/{locationID} [delete]
func (h *LocationHandler) HandleDeleteLocation(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "locationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, id); err != nil {
		h.renderLocationErr(ctx, "HandleDeleteLocation", err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *LocationHandler) moderate(
	ctx *gin.Context,
	op string,
	action func(context.Context, *domain.Actor, uuid.UUID) (domain.Location, error),
) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "locationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	location, err := action(ctx.Request.Context(), actor, id)
	if err != nil {
		h.renderLocationErr(ctx, op, err)

		return
	}

	ctx.JSON(http.StatusOK, location)
}

func (h *LocationHandler) renderLocationErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrLocationNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrLocationNameExists):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrNotAllowed):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	default:
		err = fmt.Errorf("v1.%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func locationFromRequest(req request.CreateLocationRequest) domain.Location {
	location := domain.Location{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Images:      req.Images,
	}

	if req.Coordinates != nil {
		location.Coordinates = &domain.Coordinates{
			Latitude:  req.Coordinates.Latitude,
			Longitude: req.Coordinates.Longitude,
		}
	}

	return location
}
