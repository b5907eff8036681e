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
	"github.com/eventhub-app/eventhub-api/internal/repository"
	"github.com/eventhub-app/eventhub-api/internal/service"
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUserRole(ctx context.Context, actor *domain.Actor, id uuid.UUID, role domain.Role) (domain.User, error)
	DeleteUser(ctx context.Context, actor *domain.Actor, id uuid.UUID) error
	DashboardStats(ctx context.Context) (service.PlatformStats, error)
	EventActivity(ctx context.Context) ([]repository.EventActivity, error)
}

type AdminHandler struct {
	svc AdminService
}

func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{
		svc: svc,
	}
}

// HandleListUsers godoc
// @Summary      List all users (admin)
// @Tags         admin
// @Produce      json
// @Success      200      {object}   []domain.User
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /admin/users [get]
func (h *AdminHandler) HandleListUsers(ctx *gin.Context) {
	users, err := h.svc.ListUsers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.svc.ListUsers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleUpdateUserRole godoc
// @Summary      Change a user's role (admin)
// @Tags         admin
// @Produce      json
// @Param        userID    path      string true "user ID"
// @Param        request   body      request.UpdateUserRoleRequest true "request body"
// @Success      200      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /admin/users/{userID}/role [patch]
func (h *AdminHandler) HandleUpdateUserRole(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateUserRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.UpdateUserRole(ctx.Request.Context(), actor, id, domain.Role(req.Role))
	if err != nil {
		h.renderAdminErr(ctx, "HandleUpdateUserRole", err)

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleDeleteUser godoc
// @Summary      Delete a user (admin)
// @Tags         admin
// @Produce      json
// @Param        userID    path      string true "user ID"
// @Success      204
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /admin/users/{userID} [delete]
func (h *AdminHandler) HandleDeleteUser(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.DeleteUser(ctx.Request.Context(), actor, id); err != nil {
		h.renderAdminErr(ctx, "HandleDeleteUser", err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAdminDashboard godoc
// @Summary      Get the platform-wide dashboard summary (admin)
// @Tags         admin
// @Produce      json
// @Success      200      {object}   service.PlatformStats
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /admin/dashboard [get]
func (h *AdminHandler) HandleAdminDashboard(ctx *gin.Context) {
	stats, err := h.svc.DashboardStats(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleAdminDashboard -> h.svc.DashboardStats -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleEventActivityStats godoc
// @Summary      Get monthly event counts for the activity chart (admin)
// @Tags         admin
// @Produce      json
// @Success      200      {object}   []repository.EventActivity
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /admin/event-activity-stats [get]
func (h *AdminHandler) HandleEventActivityStats(ctx *gin.Context) {
	rows, err := h.svc.EventActivity(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleEventActivityStats -> h.svc.EventActivity -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, rows)
}

func (h *AdminHandler) renderAdminErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrInvalidRole):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrNotAllowed):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	default:
		err = fmt.Errorf("v1.%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
