package domain

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ticketNumberPattern = regexp.MustCompile(`^TKT-[0-9A-F]{5}-[0-9A-F]{5}-[0-9A-F]{4}$`)

func TestNewTicketNumber(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New()

	number, err := NewTicketNumber(eventID, userID)

	require.NoError(t, err)
	assert.Regexp(t, ticketNumberPattern, number)

	parts := strings.Split(number, "-")
	require.Len(t, parts, 4)
	assert.Equal(t, strings.ToUpper(eventID.String()[len(eventID.String())-5:]), parts[1])
	assert.Equal(t, strings.ToUpper(userID.String()[len(userID.String())-5:]), parts[2])
}

func TestNewTicketNumberVaries(t *testing.T) {
	eventID := uuid.New()
	userID := uuid.New()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		number, err := NewTicketNumber(eventID, userID)
		require.NoError(t, err)
		seen[number] = true
	}

	// Two random bytes give 65536 suffixes; 50 draws colliding down to
	// a single number would mean the salt is broken.
	assert.Greater(t, len(seen), 1)
}
