package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanViewEvent(t *testing.T) {
	ownerID := uuid.New()
	owner := &Actor{ID: ownerID, Role: RoleOrganizer}
	admin := &Actor{ID: uuid.New(), Role: RoleAdmin}
	stranger := &Actor{ID: uuid.New(), Role: RoleParticipant}

	statuses := []EventStatus{
		EventDraft, EventPendingApproval, EventPublished,
		EventRejected, EventCancelled, EventFinished,
	}

	for _, status := range statuses {
		event := Event{OrganizerID: ownerID, Status: status}

		assert.True(t, CanViewEvent(admin, event), "admin should see %s", status)
		assert.True(t, CanViewEvent(owner, event), "owner should see %s", status)

		wantPublic := status == EventPublished
		assert.Equal(t, wantPublic, CanViewEvent(stranger, event), "stranger vs %s", status)
		assert.Equal(t, wantPublic, CanViewEvent(nil, event), "anonymous vs %s", status)
	}
}

func TestCanViewLocation(t *testing.T) {
	creatorID := uuid.New()
	creator := &Actor{ID: creatorID, Role: RoleOrganizer}
	admin := &Actor{ID: uuid.New(), Role: RoleAdmin}
	stranger := &Actor{ID: uuid.New(), Role: RoleParticipant}

	for _, status := range []LocationStatus{LocationPending, LocationApproved, LocationRejected} {
		location := Location{CreatedByID: creatorID, Status: status}

		assert.True(t, CanViewLocation(admin, location))
		assert.True(t, CanViewLocation(creator, location))

		wantPublic := status == LocationApproved
		assert.Equal(t, wantPublic, CanViewLocation(stranger, location), "stranger vs %s", status)
		assert.Equal(t, wantPublic, CanViewLocation(nil, location), "anonymous vs %s", status)
	}
}

func TestEventListScope(t *testing.T) {
	t.Run("admin sees everything", func(t *testing.T) {
		scope := EventListScope(&Actor{ID: uuid.New(), Role: RoleAdmin})

		assert.True(t, scope.All)
		assert.Nil(t, scope.OwnerID)
	})

	t.Run("organizer sees public plus own", func(t *testing.T) {
		organizerID := uuid.New()
		scope := EventListScope(&Actor{ID: organizerID, Role: RoleOrganizer})

		assert.False(t, scope.All)
		require.NotNil(t, scope.OwnerID)
		assert.Equal(t, organizerID, *scope.OwnerID)
	})

	t.Run("participant sees public only", func(t *testing.T) {
		scope := EventListScope(&Actor{ID: uuid.New(), Role: RoleParticipant})

		assert.Equal(t, VisibilityScope{}, scope)
	})

	t.Run("anonymous sees public only", func(t *testing.T) {
		assert.Equal(t, VisibilityScope{}, EventListScope(nil))
	})
}
