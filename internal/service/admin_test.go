package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

type fakeStatusCounter struct {
	byStatus map[domain.EventStatus]int64
	activity []repository.EventActivity
}

func (f *fakeStatusCounter) CountByStatus(_ context.Context, _ *uuid.UUID) (map[domain.EventStatus]int64, error) {
	return f.byStatus, nil
}

func (f *fakeStatusCounter) CountByMonth(_ context.Context, _ time.Time) ([]repository.EventActivity, error) {
	return f.activity, nil
}

func TestAdminServiceUpdateUserRole(t *testing.T) {
	ctx := context.Background()
	admin := &domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	newService := func(users ...domain.User) (*AdminService, *fakeUserRepo) {
		repo := newFakeUserRepo(users...)
		svc := NewAdminService(repo, &fakeStatusCounter{}, newFakeLocationRepo(), newFakeCategoryRepo())
		return svc, repo
	}

	t.Run("promotes a participant", func(t *testing.T) {
		target := domain.User{ID: uuid.New(), Role: domain.RoleParticipant}
		svc, repo := newService(target)

		updated, err := svc.UpdateUserRole(ctx, admin, target.ID, domain.RoleOrganizer)

		require.NoError(t, err)
		assert.Equal(t, domain.RoleOrganizer, updated.Role)
		assert.Equal(t, domain.RoleOrganizer, repo.users[target.ID].Role)
	})

	t.Run("refuses a self role change", func(t *testing.T) {
		svc, _ := newService(domain.User{ID: admin.ID, Role: domain.RoleAdmin})

		_, err := svc.UpdateUserRole(ctx, admin, admin.ID, domain.RoleParticipant)

		require.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("refuses an unknown role", func(t *testing.T) {
		target := domain.User{ID: uuid.New(), Role: domain.RoleParticipant}
		svc, _ := newService(target)

		_, err := svc.UpdateUserRole(ctx, admin, target.ID, domain.Role("superuser"))

		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newService()

		_, err := svc.UpdateUserRole(ctx, admin, uuid.New(), domain.RoleOrganizer)

		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAdminServiceDeleteUser(t *testing.T) {
	ctx := context.Background()
	admin := &domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}

	t.Run("deletes another user", func(t *testing.T) {
		target := domain.User{ID: uuid.New(), Role: domain.RoleParticipant}
		repo := newFakeUserRepo(target)
		svc := NewAdminService(repo, &fakeStatusCounter{}, newFakeLocationRepo(), newFakeCategoryRepo())

		require.NoError(t, svc.DeleteUser(ctx, admin, target.ID))
		assert.NotContains(t, repo.users, target.ID)
	})

	t.Run("refuses self delete", func(t *testing.T) {
		repo := newFakeUserRepo(domain.User{ID: admin.ID, Role: domain.RoleAdmin})
		svc := NewAdminService(repo, &fakeStatusCounter{}, newFakeLocationRepo(), newFakeCategoryRepo())

		err := svc.DeleteUser(ctx, admin, admin.ID)

		require.ErrorIs(t, err, ErrNotAllowed)
		assert.Contains(t, repo.users, admin.ID)
	})
}

func TestAdminServiceDashboardStats(t *testing.T) {
	users := newFakeUserRepo(
		domain.User{ID: uuid.New(), Role: domain.RoleAdmin},
		domain.User{ID: uuid.New(), Role: domain.RoleOrganizer},
		domain.User{ID: uuid.New(), Role: domain.RoleParticipant},
	)
	events := &fakeStatusCounter{byStatus: map[domain.EventStatus]int64{
		domain.EventDraft:           2,
		domain.EventPendingApproval: 3,
		domain.EventPublished:       5,
	}}
	locations := newFakeLocationRepo(
		domain.Location{ID: uuid.New(), Status: domain.LocationPending},
		domain.Location{ID: uuid.New(), Status: domain.LocationApproved},
	)
	categories := newFakeCategoryRepo(domain.Category{ID: uuid.New(), Name: "Tech"})

	svc := NewAdminService(users, events, locations, categories)

	stats, err := svc.DashboardStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(10), stats.TotalEvents)
	assert.Equal(t, int64(3), stats.PendingEvents)
	assert.Equal(t, int64(1), stats.PendingLocations)
	assert.Equal(t, int64(1), stats.TotalCategories)
}

func TestAdminServiceEventActivity(t *testing.T) {
	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	events := &fakeStatusCounter{activity: []repository.EventActivity{
		{Month: march, Count: 4},
		{Month: march.AddDate(0, 1, 0), Count: 7},
	}}

	svc := NewAdminService(newFakeUserRepo(), events, newFakeLocationRepo(), newFakeCategoryRepo())

	rows, err := svc.EventActivity(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, march, rows[0].Month)
	assert.Equal(t, int64(4), rows[0].Count)
	assert.Equal(t, int64(7), rows[1].Count)
}
