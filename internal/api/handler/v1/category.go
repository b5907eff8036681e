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

type CategoryService interface {
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, update domain.Category) (domain.Category, error)
	Delete(ctx context.Context, actor *domain.Actor, id uuid.UUID) error
}

type CategoryHandler struct {
	svc CategoryService
}

func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{
		svc: svc,
	}
}

// HandleListCategories godoc
// @Summary      List all categories
// @Tags         categories
// @Produce      json
// @Success      200      {object}   []domain.Category
// @Failure      500      {object}   response.Err
// @Router       /categories [get]
func (h *CategoryHandler) HandleListCategories(ctx *gin.Context) {
	categories, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCategories -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, categories)
}

// HandleGetCategory godoc
// @Summary      Get one category
// @Tags         categories
// @Produce      json
// @Param        categoryID   path   string true "category ID"
// @Success      200      {object}   domain.Category
// @Failure      404      {object}   response.Err
// @Router       /categories/{categoryID} [get]
func (h *CategoryHandler) HandleGetCategory(ctx *gin.Context) {
	id, err := parseUUIDParam(ctx, "categoryID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	category, err := h.svc.Get(ctx.Request.Context(), id)
	if err != nil {
		h.renderCategoryErr(ctx, "HandleGetCategory", err)

		return
	}

	ctx.JSON(http.StatusOK, category)
}

// HandleCreateCategory godoc
// @Summary      Create a category (admin)
// @Tags         categories
// @Produce      json
// @Param        request   body      request.CreateCategoryRequest true "request body"
// @Success      201      {object}   domain.Category
// @Failure      400      {object}   response.Err
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) HandleCreateCategory(ctx *gin.Context) {
	var req request.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), domain.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.renderCategoryErr(ctx, "HandleCreateCategory", err)

		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateCategory godoc
// @Summary      Update a category (admin)
// @Tags         categories
// @Produce      json
// @Param        categoryID   path   string true "category ID"
// @Param        request   body      request.UpdateCategoryRequest true "request body"
// @Success      200      {object}   domain.Category
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /categories/{categoryID} [put]
func (h *CategoryHandler) HandleUpdateCategory(ctx *gin.Context) {
	id, err := parseUUIDParam(ctx, "categoryID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	var req request.UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	updated, err := h.svc.Update(ctx.Request.Context(), id, domain.Category{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.renderCategoryErr(ctx, "HandleUpdateCategory", err)

		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteCategory godoc
// @Summary      Delete a category (admin)
// @Tags         categories
// @Produce      json
// @Param        categoryID   path   string true "category ID"
// @Success      204
// @Failure      404      {object}   response.Err
// @Security     BearerAuth
// @Router       /categories/{categoryID} [delete]
func (h *CategoryHandler) HandleDeleteCategory(ctx *gin.Context) {
	actor, err := mustGetActor(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized(err))

		return
	}

	id, err := parseUUIDParam(ctx, "categoryID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, id); err != nil {
		h.renderCategoryErr(ctx, "HandleDeleteCategory", err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *CategoryHandler) renderCategoryErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrCategoryNameExists):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		err = fmt.Errorf("v1.%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
