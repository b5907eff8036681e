package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventhub-app/eventhub-api/internal/domain"
)

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to the participant role and hashes the password", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo)

		created, err := svc.Signup(ctx, domain.User{
			Email:    "jean@example.com",
			Password: "Secret123",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.RoleParticipant, created.Role)
		assert.NotEqual(t, "Secret123", created.Password)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("Secret123")))
	})

	t.Run("allows the organizer role", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo())

		created, err := svc.Signup(ctx, domain.User{
			Email:    "jean@example.com",
			Password: "Secret123",
			Role:     domain.RoleOrganizer,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.RoleOrganizer, created.Role)
	})

	t.Run("refuses the admin role", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo())

		_, err := svc.Signup(ctx, domain.User{
			Email:    "jean@example.com",
			Password: "Secret123",
			Role:     domain.RoleAdmin,
		})

		require.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("refuses an unknown role", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo())

		_, err := svc.Signup(ctx, domain.User{
			Email:    "jean@example.com",
			Password: "Secret123",
			Role:     domain.Role("superuser"),
		})

		require.ErrorIs(t, err, ErrNotAllowed)
	})

	t.Run("reports a duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo)

		_, err := svc.Signup(ctx, domain.User{Email: "jean@example.com", Password: "Secret123"})
		require.NoError(t, err)

		_, err = svc.Signup(ctx, domain.User{Email: "jean@example.com", Password: "Other4567"})
		require.ErrorIs(t, err, ErrUserEmailExists)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	newAccount := func(t *testing.T) (*AuthService, domain.User) {
		t.Helper()

		svc := NewAuthService(newFakeUserRepo())
		created, err := svc.Signup(ctx, domain.User{Email: "jean@example.com", Password: "Secret123"})
		require.NoError(t, err)

		return svc, created
	}

	t.Run("valid credentials", func(t *testing.T) {
		svc, created := newAccount(t)

		user, err := svc.Login(ctx, "jean@example.com", "Secret123")

		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := newAccount(t)

		_, err := svc.Login(ctx, "jean@example.com", "not-the-password")

		require.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _ := newAccount(t)

		_, err := svc.Login(ctx, "nobody@example.com", "Secret123")

		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
