package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/request"
	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/response"
	"github.com/eventhub-app/eventhub-api/internal/domain"
)

type SettingService interface {
	Get(ctx context.Context) (domain.Setting, error)
	Update(ctx context.Context, setting domain.Setting) (domain.Setting, error)
}

type SettingHandler struct {
	svc SettingService
}

func NewSettingHandler(svc SettingService) *SettingHandler {
	return &SettingHandler{
		svc: svc,
	}
}

// HandleGetSettings godoc
// @Summary      Get the public site settings
// @Tags         settings
// @Produce      json
// @Success      200      {object}   domain.Setting
// @Failure      500      {object}   response.Err
// @Router       /settings [get]
func (h *SettingHandler) HandleGetSettings(ctx *gin.Context) {
	setting, err := h.svc.Get(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetSettings -> h.svc.Get -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, setting)
}

// HandleUpdateSettings godoc
// @Summary      Update the site settings (admin)
// @Tags         settings
// @Produce      json
// @Param        request   body      request.UpdateSettingRequest true "request body"
// @Success      200      {object}   domain.Setting
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Security     BearerAuth
// @Router       /admin/settings [put]
func (h *SettingHandler) HandleUpdateSettings(ctx *gin.Context) {
	var req request.UpdateSettingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	values := make([]domain.SettingValue, len(req.Values))
	for i, v := range req.Values {
		values[i] = domain.SettingValue(v)
	}

	updated, err := h.svc.Update(ctx.Request.Context(), domain.Setting{
		MainLogo:                req.MainLogo,
		DarkModeLogo:            req.DarkModeLogo,
		Carousel:                req.Carousel,
		AboutText:               req.AboutText,
		CarouselWelcomeText:     req.CarouselWelcomeText,
		CarouselAppNameText:     req.CarouselAppNameText,
		CarouselDescriptionText: req.CarouselDescriptionText,
		CallToActionText:        req.CallToActionText,
		Values:                  values,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateSettings -> h.svc.Update -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, updated)
}
