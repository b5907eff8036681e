package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/eventhub-app/eventhub-api/internal/domain"
)

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	perform := func(actor *domain.Actor, roles ...domain.Role) int {
		router := gin.New()
		router.POST("/guarded",
			func(ctx *gin.Context) {
				if actor != nil {
					ctx.Set(ActorKey, actor)
				}
			},
			RequireRole(roles...),
			func(ctx *gin.Context) { ctx.Status(http.StatusOK) },
		)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/guarded", nil))

		return rec.Code
	}

	organizer := &domain.Actor{ID: uuid.New(), Role: domain.RoleOrganizer}
	participant := &domain.Actor{ID: uuid.New(), Role: domain.RoleParticipant}
	admin := &domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	t.Run("management surface admits organizers and admins", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, perform(organizer, domain.RoleOrganizer, domain.RoleAdmin))
		assert.Equal(t, http.StatusOK, perform(admin, domain.RoleOrganizer, domain.RoleAdmin))
		assert.Equal(t, http.StatusForbidden, perform(participant, domain.RoleOrganizer, domain.RoleAdmin))
	})

	t.Run("registration surface admits participants only", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, perform(participant, domain.RoleParticipant))
		assert.Equal(t, http.StatusForbidden, perform(organizer, domain.RoleParticipant))
		assert.Equal(t, http.StatusForbidden, perform(admin, domain.RoleParticipant))
	})

	t.Run("missing actor is unauthorized", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, perform(nil, domain.RoleAdmin))
	})
}
