// AngelaMos | 2026
// handler_test.go

package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/messhall/internal/core"
	"github.com/carterperez-dev/messhall/internal/middleware"
)

func asUser(id string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), id, "student")))
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.ErrorBody `json:"error"`
}

func serve(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func newRouter(f *fixture, userID string) chi.Router {
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, asUser(userID), passthrough)
	return r
}

func TestHandler_SubmitCreatesThenUpdates(t *testing.T) {
	f := newFixture(t, "2025-05-31 10:00")
	router := newRouter(f, "u-1")

	body := `{"booking_date":"2025-06-01","lunch_pick":["veg"],"dinner_pick":["veg"]}`
	rec, env := serve(t, router, http.MethodPost, "/bookings", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var got BookingResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "2025-06-01", got.BookingDate.String())
	assert.Equal(t, []string{"veg"}, got.LunchPick)

	body = `{"booking_date":"2025-06-01","lunch_pick":["nonveg"]}`
	rec, env = serve(t, router, http.MethodPost, "/bookings", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, []string{"nonveg"}, got.LunchPick)
	assert.Nil(t, got.DinnerPick)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		now    string
		user   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{
			name:   "past date",
			now:    "2025-06-02 09:00",
			user:   "u-1",
			method: http.MethodPost,
			path:   "/bookings",
			body:   `{"booking_date":"2025-06-01"}`,
			status: http.StatusBadRequest,
			code:   "PAST_DATE",
		},
		{
			name:   "today cutoff",
			now:    "2025-06-01 19:00",
			user:   "u-1",
			method: http.MethodPost,
			path:   "/bookings",
			body:   `{"booking_date":"2025-06-01","dinner_pick":["veg"]}`,
			status: http.StatusForbidden,
			code:   "TODAY_CUTOFF",
		},
		{
			name:   "next day only window",
			now:    "2025-05-30 21:30",
			user:   "u-1",
			method: http.MethodPost,
			path:   "/bookings",
			body:   `{"booking_date":"2025-06-01"}`,
			status: http.StatusForbidden,
			code:   "WINDOW_RESTRICTED",
		},
		{
			name:   "lunch cutoff",
			now:    "2025-06-01 08:00",
			user:   "u-1",
			method: http.MethodPost,
			path:   "/bookings",
			body:   `{"booking_date":"2025-06-01","lunch_pick":["veg"]}`,
			status: http.StatusForbidden,
			code:   "LUNCH_CUTOFF",
		},
		{
			name:   "invalid item",
			now:    "2025-05-31 10:00",
			user:   "u-1",
			method: http.MethodPost,
			path:   "/bookings",
			body:   `{"booking_date":"2025-06-01","lunch_pick":["fish"]}`,
			status: http.StatusBadRequest,
			code:   "INVALID_MENU_SELECTION",
		},
		{
			name:   "menu not set",
			now:    "2025-05-31 10:00",
			user:   "u-1",
			method: http.MethodPost,
			path:   "/bookings",
			body:   `{"booking_date":"2025-06-03"}`,
			status: http.StatusNotFound,
			code:   "MENU_NOT_SET",
		},
		{
			name:   "mess inactive",
			now:    "2025-05-31 10:00",
			user:   "u-off",
			method: http.MethodPost,
			path:   "/bookings",
			body:   `{"booking_date":"2025-06-01"}`,
			status: http.StatusForbidden,
			code:   "MESS_INACTIVE",
		},
		{
			name:   "unknown user",
			now:    "2025-05-31 10:00",
			user:   "ghost",
			method: http.MethodPost,
			path:   "/bookings",
			body:   `{"booking_date":"2025-06-01"}`,
			status: http.StatusUnauthorized,
			code:   "UNAUTHORIZED",
		},
		{
			name:   "missing date",
			now:    "2025-05-31 10:00",
			user:   "u-1",
			method: http.MethodPost,
			path:   "/bookings",
			body:   `{"lunch_pick":["veg"]}`,
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
		{
			name:   "partial update without booking",
			now:    "2025-05-31 10:00",
			user:   "u-1",
			method: http.MethodPatch,
			path:   "/bookings/update-dinner",
			body:   `{"booking_date":"2025-06-01","dinner_pick":["veg"]}`,
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "cancel without booking",
			now:    "2025-05-31 10:00",
			user:   "u-1",
			method: http.MethodDelete,
			path:   "/bookings/2025-06-01",
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
		},
		{
			name:   "cancel with malformed date",
			now:    "2025-05-31 10:00",
			user:   "u-1",
			method: http.MethodDelete,
			path:   "/bookings/june-first",
			status: http.StatusBadRequest,
			code:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now)

			rec, env := serve(t, newRouter(f, tt.user), tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, env.Error)
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestHandler_CancelAndHistory(t *testing.T) {
	f := newFixture(t, "2025-05-31 10:00")
	router := newRouter(f, "u-1")

	rec, _ := serve(t, router, http.MethodPost, "/bookings",
		`{"booking_date":"2025-06-01","dinner_pick":["veg"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := serve(t, router, http.MethodGet, "/bookings/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var history []HistoryItem
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	assert.Nil(t, history[0].LunchPick)

	rec, _ = serve(t, router, http.MethodDelete, "/bookings/2025-06-01", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, env = serve(t, router, http.MethodGet, "/bookings/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	rec, env = serve(t, router, http.MethodGet, "/bookings/me/today", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No booking found for 2025-05-31.", env.Error.Message)
}
