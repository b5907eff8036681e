package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("dockertest.NewPool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("docker is not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=eventhub",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=eventhub_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("pool.RunWithOptions: %v", err)
	}

	dsn := fmt.Sprintf(
		"host=localhost port=%s user=eventhub password=secret dbname=eventhub_test sslmode=disable",
		resource.GetPort("5432/tcp"),
	)

	if err = pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Discard,
		})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err = sqlDB.Ping(); err != nil {
			return err
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("InitTables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("pool.Purge: %v", err)
	}

	os.Exit(code)
}

func createTestUser(t *testing.T) User {
	t.Helper()

	d := NewUserDAO(testDB)
	user, err := d.Insert(context.Background(), User{
		FirstName: "Test",
		LastName:  "User",
		Email:     uuid.NewString() + "@example.com",
		Password:  "irrelevant-hash",
		Role:      "participant",
	})
	require.NoError(t, err)

	return user
}

func createTestCategory(t *testing.T) Category {
	t.Helper()

	d := NewCategoryDAO(testDB)
	category, err := d.Insert(context.Background(), Category{
		Name: "cat-" + uuid.NewString(),
	})
	require.NoError(t, err)

	return category
}

func createTestEvent(t *testing.T, status string, maxParticipants int) Event {
	t.Helper()

	organizer := createTestUser(t)
	category := createTestCategory(t)

	d := NewEventDAO(testDB)
	event, err := d.Insert(context.Background(), Event{
		Name:            "Test Event",
		Description:     "integration fixture",
		StartDate:       time.Now().Add(24 * time.Hour),
		EndDate:         time.Now().Add(26 * time.Hour),
		IsOnline:        true,
		OnlineURL:       "https://meet.example.com/test",
		CategoryID:      category.ID,
		OrganizerID:     organizer.ID,
		Status:          status,
		MaxParticipants: maxParticipants,
	})
	require.NoError(t, err)

	return event
}

func newTestTicket(eventID, userID uuid.UUID) Ticket {
	return Ticket{
		EventID:      eventID,
		UserID:       userID,
		TicketNumber: "TKT-TEST-" + uuid.NewString(),
		QRCodeData:   "qr",
		Status:       "valid",
		PurchaseDate: time.Now(),
	}
}

func eventByID(t *testing.T, id uuid.UUID) Event {
	t.Helper()

	event, err := NewEventDAO(testDB).FindByID(context.Background(), id)
	require.NoError(t, err)

	return event
}

func TestUserEmailUniqueness(t *testing.T) {
	ctx := context.Background()
	d := NewUserDAO(testDB)

	user := createTestUser(t)

	_, err := d.Insert(ctx, User{
		FirstName: "Other",
		LastName:  "User",
		Email:     user.Email,
		Password:  "irrelevant-hash",
		Role:      "participant",
	})
	require.ErrorIs(t, err, ErrUserEmailExists)

	// A soft-deleted account releases its email.
	require.NoError(t, d.SoftDelete(ctx, user.ID, user.ID))

	_, err = d.Insert(ctx, User{
		FirstName: "Other",
		LastName:  "User",
		Email:     user.Email,
		Password:  "irrelevant-hash",
		Role:      "participant",
	})
	require.NoError(t, err)
}

func TestInsertWithRegistrationConcurrentCapacity(t *testing.T) {
	ctx := context.Background()
	d := NewTicketDAO(testDB)

	const capacity = 3
	const contenders = 10

	event := createTestEvent(t, "published", capacity)

	users := make([]User, contenders)
	for i := range users {
		users[i] = createTestUser(t)
	}

	var wg sync.WaitGroup
	var issued, full int64

	wg.Add(contenders)
	for i := 0; i < contenders; i++ {
		go func(userID uuid.UUID) {
			defer wg.Done()

			_, err := d.InsertWithRegistration(ctx, newTestTicket(event.ID, userID))
			switch {
			case err == nil:
				atomic.AddInt64(&issued, 1)
			case err == ErrEventFull:
				atomic.AddInt64(&full, 1)
			default:
				t.Errorf("InsertWithRegistration: %v", err)
			}
		}(users[i].ID)
	}
	wg.Wait()

	assert.Equal(t, int64(capacity), issued)
	assert.Equal(t, int64(contenders-capacity), full)
	assert.Equal(t, capacity, eventByID(t, event.ID).ParticipantCount)
}

func TestInsertWithRegistrationDuplicate(t *testing.T) {
	ctx := context.Background()
	d := NewTicketDAO(testDB)

	event := createTestEvent(t, "published", 10)
	user := createTestUser(t)

	_, err := d.InsertWithRegistration(ctx, newTestTicket(event.ID, user.ID))
	require.NoError(t, err)

	_, err = d.InsertWithRegistration(ctx, newTestTicket(event.ID, user.ID))
	require.ErrorIs(t, err, ErrAlreadyRegistered)

	// The losing insert must not leak its reserved seat.
	assert.Equal(t, 1, eventByID(t, event.ID).ParticipantCount)
}

func TestInsertWithRegistrationAfterCancel(t *testing.T) {
	ctx := context.Background()
	d := NewTicketDAO(testDB)

	event := createTestEvent(t, "published", 10)
	user := createTestUser(t)

	_, err := d.InsertWithRegistration(ctx, newTestTicket(event.ID, user.ID))
	require.NoError(t, err)

	require.NoError(t, d.CancelRegistration(ctx, event.ID, user.ID))
	assert.Equal(t, 0, eventByID(t, event.ID).ParticipantCount)

	active, err := d.HasActive(ctx, event.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, active)

	// A cancelled ticket stays on record but frees the partial unique
	// index, so the user can register again.
	_, err = d.InsertWithRegistration(ctx, newTestTicket(event.ID, user.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, eventByID(t, event.ID).ParticipantCount)
}

func TestInsertWithRegistrationTicketNumberTaken(t *testing.T) {
	ctx := context.Background()
	d := NewTicketDAO(testDB)

	event := createTestEvent(t, "published", 10)
	first := createTestUser(t)
	second := createTestUser(t)

	ticket := newTestTicket(event.ID, first.ID)
	_, err := d.InsertWithRegistration(ctx, ticket)
	require.NoError(t, err)

	duplicate := newTestTicket(event.ID, second.ID)
	duplicate.TicketNumber = ticket.TicketNumber

	_, err = d.InsertWithRegistration(ctx, duplicate)
	require.ErrorIs(t, err, ErrTicketNumberTaken)
	assert.Equal(t, 1, eventByID(t, event.ID).ParticipantCount)
}

func TestInsertWithRegistrationRefusals(t *testing.T) {
	ctx := context.Background()
	d := NewTicketDAO(testDB)

	t.Run("event not open", func(t *testing.T) {
		event := createTestEvent(t, "draft", 10)
		user := createTestUser(t)

		_, err := d.InsertWithRegistration(ctx, newTestTicket(event.ID, user.ID))

		require.ErrorIs(t, err, ErrEventNotOpen)
	})

	t.Run("event missing", func(t *testing.T) {
		user := createTestUser(t)

		_, err := d.InsertWithRegistration(ctx, newTestTicket(uuid.New(), user.ID))

		require.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestCancelRegistrationNotRegistered(t *testing.T) {
	ctx := context.Background()
	d := NewTicketDAO(testDB)

	event := createTestEvent(t, "published", 10)
	user := createTestUser(t)

	err := d.CancelRegistration(ctx, event.ID, user.ID)
	require.ErrorIs(t, err, ErrNotRegistered)

	_, err = d.InsertWithRegistration(ctx, newTestTicket(event.ID, user.ID))
	require.NoError(t, err)

	require.NoError(t, d.CancelRegistration(ctx, event.ID, user.ID))

	// The second cancel races against nothing but must still lose
	// cleanly.
	err = d.CancelRegistration(ctx, event.ID, user.ID)
	require.ErrorIs(t, err, ErrNotRegistered)
	assert.Equal(t, 0, eventByID(t, event.ID).ParticipantCount)
}

func TestMarkPastFinished(t *testing.T) {
	ctx := context.Background()
	d := NewEventDAO(testDB)

	past := createTestEvent(t, "published", 10)
	past.StartDate = time.Now().Add(-4 * time.Hour)
	past.EndDate = time.Now().Add(-2 * time.Hour)
	_, err := d.Update(ctx, past)
	require.NoError(t, err)

	upcoming := createTestEvent(t, "published", 10)

	pastDraft := createTestEvent(t, "draft", 10)
	pastDraft.StartDate = time.Now().Add(-4 * time.Hour)
	pastDraft.EndDate = time.Now().Add(-2 * time.Hour)
	_, err = d.Update(ctx, pastDraft)
	require.NoError(t, err)

	swept, err := d.MarkPastFinished(ctx, time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, swept, int64(1))

	assert.Equal(t, eventFinishedStatus, eventByID(t, past.ID).Status)
	assert.Equal(t, eventPublicStatus, eventByID(t, upcoming.ID).Status)
	assert.Equal(t, "draft", eventByID(t, pastDraft.ID).Status)

	// The sweep is idempotent.
	again, err := d.MarkPastFinished(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, again)
	assert.Equal(t, eventFinishedStatus, eventByID(t, past.ID).Status)
}

func TestCountByMonth(t *testing.T) {
	ctx := context.Background()
	d := NewEventDAO(testDB)

	// Dates far in the future keep the buckets clear of other fixtures.
	january := time.Date(2031, time.January, 10, 18, 0, 0, 0, time.UTC)
	february := time.Date(2031, time.February, 5, 18, 0, 0, 0, time.UTC)

	for _, start := range []time.Time{january, january.AddDate(0, 0, 7), february} {
		event := createTestEvent(t, "published", 10)
		event.StartDate = start
		event.EndDate = start.Add(2 * time.Hour)
		_, err := d.Update(ctx, event)
		require.NoError(t, err)
	}

	rows, err := d.CountByMonth(ctx, time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].Count)
	assert.Equal(t, int64(1), rows[1].Count)
	assert.True(t, rows[0].Month.Before(rows[1].Month))
}
