package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventhub-app/eventhub-api/internal/api/middleware"
	"github.com/eventhub-app/eventhub-api/internal/domain"
)

var errMissingActor = errors.New("missing authenticated user")

// getActor returns the authenticated actor, nil for anonymous
// requests behind OptionalJWT.
func getActor(ctx *gin.Context) *domain.Actor {
	return middleware.GetActor(ctx)
}

// mustGetActor is for routes behind VerifyJWT, where a missing actor
// is a programming error.
func mustGetActor(ctx *gin.Context) (*domain.Actor, error) {
	actor := middleware.GetActor(ctx)
	if actor == nil {
		return nil, errMissingActor
	}

	return actor, nil
}

func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %v", name)
	}

	return id, nil
}
