// AngelaMos | 2026
// handler_test.go

package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBroadcaster struct {
	title, body string
	accept      bool
}

func (f *fakeBroadcaster) Broadcast(title, body string) bool {
	f.title, f.body = title, body
	return f.accept
}

func passthrough(next http.Handler) http.Handler { return next }

func newRouter(b Broadcaster) chi.Router {
	r := chi.NewRouter()
	NewHandler(b).RegisterRoutes(r, passthrough, passthrough)
	return r
}

func TestHandler_SendReminder(t *testing.T) {
	b := &fakeBroadcaster{accept: true}
	rec := httptest.NewRecorder()
	newRouter(b).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reminders", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, ReminderTitle, b.title)
	assert.Equal(t, ReminderBody, b.body)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}

func TestHandler_SendReminderQueueFull(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeBroadcaster{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reminders", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "QUEUE_FULL")
}

func TestHandler_Send(t *testing.T) {
	b := &fakeBroadcaster{accept: true}
	body := strings.NewReader(`{"title":"Holiday","message":"Mess closed on Friday"}`)
	rec := httptest.NewRecorder()
	newRouter(b).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/notifications/send", body))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "Holiday", b.title)
	assert.Equal(t, "Mess closed on Friday", b.body)
}

func TestHandler_SendValidation(t *testing.T) {
	b := &fakeBroadcaster{accept: true}
	rec := httptest.NewRecorder()
	newRouter(b).ServeHTTP(rec, httptest.NewRequest(
		http.MethodPost, "/notifications/send", strings.NewReader(`{"title":""}`),
	))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
	assert.Empty(t, b.title)
}
