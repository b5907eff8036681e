package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-app/eventhub-api/internal/domain"
)

func TestLocationServiceCreate(t *testing.T) {
	organizer := &domain.Actor{ID: uuid.New(), Role: domain.RoleOrganizer}
	svc := NewLocationService(newFakeLocationRepo())

	created, err := svc.Create(context.Background(), organizer, domain.Location{
		Name:        "Community Hall",
		Status:      domain.LocationApproved,
		CreatedByID: uuid.New(),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.LocationPending, created.Status)
	assert.Equal(t, organizer.ID, created.CreatedByID)
	assert.Nil(t, created.ValidatedBy)
}

func TestLocationServiceGetVisibility(t *testing.T) {
	ctx := context.Background()
	creator := &domain.Actor{ID: uuid.New(), Role: domain.RoleOrganizer}

	pending := domain.Location{
		ID:          uuid.New(),
		Name:        "Community Hall",
		Status:      domain.LocationPending,
		CreatedByID: creator.ID,
	}
	svc := NewLocationService(newFakeLocationRepo(pending))

	t.Run("creator sees own pending location", func(t *testing.T) {
		_, err := svc.Get(ctx, creator, pending.ID)
		require.NoError(t, err)
	})

	t.Run("stranger gets not-found", func(t *testing.T) {
		_, err := svc.Get(ctx, &domain.Actor{ID: uuid.New(), Role: domain.RoleParticipant}, pending.ID)
		require.ErrorIs(t, err, ErrLocationNotFound)
	})

	t.Run("anonymous gets not-found", func(t *testing.T) {
		_, err := svc.Get(ctx, nil, pending.ID)
		require.ErrorIs(t, err, ErrLocationNotFound)
	})
}

func TestLocationServiceUpdate(t *testing.T) {
	ctx := context.Background()
	creator := &domain.Actor{ID: uuid.New(), Role: domain.RoleOrganizer}
	admin := &domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	newApproved := func() (*LocationService, domain.Location) {
		validatedBy := admin.ID
		location := domain.Location{
			ID:          uuid.New(),
			Name:        "Community Hall",
			Status:      domain.LocationApproved,
			CreatedByID: creator.ID,
			ValidatedBy: &validatedBy,
		}
		return NewLocationService(newFakeLocationRepo(location)), location
	}

	t.Run("creator edit resets moderation", func(t *testing.T) {
		svc, location := newApproved()

		updated, err := svc.Update(ctx, creator, location.ID, domain.Location{Name: "Grand Hall"})

		require.NoError(t, err)
		assert.Equal(t, "Grand Hall", updated.Name)
		assert.Equal(t, domain.LocationPending, updated.Status)
		assert.Nil(t, updated.ValidatedBy)
	})

	t.Run("admin edit keeps the status", func(t *testing.T) {
		svc, location := newApproved()

		updated, err := svc.Update(ctx, admin, location.ID, domain.Location{Name: "Grand Hall"})

		require.NoError(t, err)
		assert.Equal(t, domain.LocationApproved, updated.Status)
	})

	t.Run("non-creator cannot edit", func(t *testing.T) {
		svc, location := newApproved()

		_, err := svc.Update(ctx, &domain.Actor{ID: uuid.New(), Role: domain.RoleOrganizer}, location.ID, domain.Location{Name: "Grand Hall"})

		require.ErrorIs(t, err, ErrNotAllowed)
	})
}

func TestLocationServiceModeration(t *testing.T) {
	ctx := context.Background()
	admin := &domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	pending := domain.Location{
		ID:          uuid.New(),
		Name:        "Community Hall",
		Status:      domain.LocationPending,
		CreatedByID: uuid.New(),
	}
	svc := NewLocationService(newFakeLocationRepo(pending))

	approved, err := svc.Approve(ctx, admin, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LocationApproved, approved.Status)
	require.NotNil(t, approved.ValidatedBy)
	assert.Equal(t, admin.ID, *approved.ValidatedBy)

	rejected, err := svc.Reject(ctx, admin, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LocationRejected, rejected.Status)

	back, err := svc.SetPending(ctx, admin, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LocationPending, back.Status)
	assert.Nil(t, back.ValidatedBy)
}

func TestLocationServiceDelete(t *testing.T) {
	ctx := context.Background()
	creator := &domain.Actor{ID: uuid.New(), Role: domain.RoleOrganizer}
	admin := &domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	location := domain.Location{
		ID:          uuid.New(),
		Name:        "Community Hall",
		Status:      domain.LocationApproved,
		CreatedByID: creator.ID,
	}

	t.Run("creator may not delete their own location", func(t *testing.T) {
		repo := newFakeLocationRepo(location)
		svc := NewLocationService(repo)

		err := svc.Delete(ctx, creator, location.ID)

		require.ErrorIs(t, err, ErrNotAllowed)
		assert.Empty(t, repo.deleted)
	})

	t.Run("admin deletes", func(t *testing.T) {
		repo := newFakeLocationRepo(location)
		svc := NewLocationService(repo)

		err := svc.Delete(ctx, admin, location.ID)

		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{location.ID}, repo.deleted)
	})
}
