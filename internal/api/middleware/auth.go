package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventhub-app/eventhub-api/internal/api/handler/v1/response"
	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/pkg/jwthelper"
)

// ActorKey is the context key the authenticated *domain.Actor is
// stored under.
const ActorKey = "actor"

var (
	errMissingToken = errors.New("missing or malformed authorization header")
	errInvalidToken = errors.New("invalid or expired token")
	errForbidden    = errors.New("insufficient permissions")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token and stores
// the actor in the context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor, err := a.parse(ctx)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			ctx.Abort()

			return
		}

		ctx.Set(ActorKey, actor)
		ctx.Next()
	}
}

// OptionalJWT stores the actor when a valid token is present and lets
// anonymous requests through. An invalid token is still rejected.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetHeader("Authorization") == "" {
			ctx.Next()

			return
		}

		actor, err := a.parse(ctx)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			ctx.Abort()

			return
		}

		ctx.Set(ActorKey, actor)
		ctx.Next()
	}
}

// RequireRole allows only actors holding one of the given roles. It
// must run after VerifyJWT.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		actor := GetActor(ctx)
		if actor == nil {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingToken))
			ctx.Abort()

			return
		}

		for _, role := range roles {
			if actor.Role == role {
				ctx.Next()

				return
			}
		}

		response.RenderErr(ctx, response.ErrPermissionDenied(errForbidden))
		ctx.Abort()
	}
}

// GetActor returns the actor stored by VerifyJWT or OptionalJWT, nil
// for anonymous requests.
func GetActor(ctx *gin.Context) *domain.Actor {
	value, ok := ctx.Get(ActorKey)
	if !ok {
		return nil
	}

	actor, ok := value.(*domain.Actor)
	if !ok {
		return nil
	}

	return actor
}

func (a *Authenticator) parse(ctx *gin.Context) (*domain.Actor, error) {
	header := ctx.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, errMissingToken
	}

	claims, err := jwthelper.ParseToken(a.signingKey, token)
	if err != nil {
		return nil, errInvalidToken
	}

	return &domain.Actor{
		ID:   claims.UserID,
		Role: domain.Role(claims.Role),
	}, nil
}
