package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/request"
	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/response"
)

type ContactNotifier interface {
	ContactMessage(name, email, subject, message string)
}

type ContactHandler struct {
	notifier ContactNotifier
}

func NewContactHandler(notifier ContactNotifier) *ContactHandler {
	return &ContactHandler{
		notifier: notifier,
	}
}

// HandleContact godoc
// @Summary      Send a contact-form message to the platform operators
// @Tags         contact
// @Produce      json
// @Param        request   body      request.ContactRequest true "request body"
// @Success      202
// @Failure      400      {object}   response.Err
// @Router       /contact [post]
func (h *ContactHandler) HandleContact(ctx *gin.Context) {
	var req request.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	h.notifier.ContactMessage(req.Name, req.Email, req.Subject, req.Message)

	ctx.Status(http.StatusAccepted)
}
