package v1

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingContactNotifier struct {
	emails []string
}

func (n *recordingContactNotifier) ContactMessage(_, email, _, _ string) {
	n.emails = append(n.emails, email)
}

func TestContactHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	perform := func(notifier *recordingContactNotifier, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(rec)
		ctx.Request = httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
		ctx.Request.Header.Set("Content-Type", "application/json")

		NewContactHandler(notifier).HandleContact(ctx)
		ctx.Writer.WriteHeaderNow()

		return rec
	}

	t.Run("forwards a valid message", func(t *testing.T) {
		notifier := &recordingContactNotifier{}

		rec := perform(notifier, `{
			"name": "Jamie Doe",
			"email": "jamie@example.com",
			"subject": "Venue question",
			"message": "Is the hall reachable by wheelchair?"
		}`)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		require.Len(t, notifier.emails, 1)
		assert.Equal(t, "jamie@example.com", notifier.emails[0])
	})

	t.Run("rejects a message without a sender address", func(t *testing.T) {
		notifier := &recordingContactNotifier{}

		rec := perform(notifier, `{"name": "Jamie Doe", "subject": "Hi", "message": "Hello there"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, notifier.emails)
	})
}
