// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/messhall/internal/core"
	"github.com/carterperez-dev/messhall/internal/middleware"
)

func passthrough(next http.Handler) http.Handler { return next }

func newRouter(f *fixture) chi.Router {
	r := chi.NewRouter()
	NewHandler(f.svc).RegisterRoutes(r, middleware.Authenticator(f.svc), passthrough)
	return r
}

func do(router http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Data
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) core.ErrorBody {
	t.Helper()
	var env struct {
		Error *core.ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	return *env.Error
}

const registerBody = `{"name":"Asha","email":"asha@hostel.test","password":"secret-pass","room_number":101}`

func TestHandler_RegisterVerifyLogin(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	rec := do(router, http.MethodPost, "/auth/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, registeredMessage, decodeData[MessageResponse](t, rec).Message)

	rec = do(router, http.MethodPost, "/auth/register", registerBody, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	login := `{"email":"asha@hostel.test","password":"secret-pass"}`
	rec = do(router, http.MethodPost, "/auth/login", login, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, inactiveLoginMessage, errorBody(t, rec).Message)

	token := url.QueryEscape(f.mailer.verify[0].token)
	rec = do(router, http.MethodGet, "/auth/verify-email?token="+token, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), verifiedMessage)

	rec = do(router, http.MethodPost, "/auth/login", login, "")
	require.Equal(t, http.StatusOK, rec.Code)
	auth := decodeData[AuthResponse](t, rec)

	rec = do(router, http.MethodGet, "/auth/me", "", auth.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "asha@hostel.test", decodeData[UserResponse](t, rec).Email)
}

func TestHandler_RegisterValidation(t *testing.T) {
	router := newRouter(newFixture(t))

	rec := do(router, http.MethodPost, "/auth/register",
		`{"name":"Asha","email":"asha@hostel.test","password":"secret-pass"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec).Message, "room_number")

	rec = do(router, http.MethodPost, "/auth/register", `{`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_VerifyEmailBadToken(t *testing.T) {
	router := newRouter(newFixture(t))

	rec := do(router, http.MethodGet, "/auth/verify-email?token=nope", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), verifyFailedMessage)

	rec = do(router, http.MethodGet, "/auth/verify-email", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_LoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	f.registerActive(t, "asha@hostel.test", "secret-pass")

	rec := do(newRouter(f), http.MethodPost, "/auth/login",
		`{"email":"asha@hostel.test","password":"nope-nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_RefreshReuse(t *testing.T) {
	f := newFixture(t)
	f.registerActive(t, "asha@hostel.test", "secret-pass")
	router := newRouter(f)

	rec := do(router, http.MethodPost, "/auth/login",
		`{"email":"asha@hostel.test","password":"secret-pass"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	refresh := decodeData[AuthResponse](t, rec).Tokens.RefreshToken
	body := `{"refresh_token":"` + refresh + `"}`

	rec = do(router, http.MethodPost, "/auth/refresh", body, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodPost, "/auth/refresh", body, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REUSE_DETECTED", errorBody(t, rec).Code)
}

func TestHandler_LogoutAll(t *testing.T) {
	f := newFixture(t)
	f.registerActive(t, "asha@hostel.test", "secret-pass")
	router := newRouter(f)

	rec := do(router, http.MethodPost, "/auth/login",
		`{"email":"asha@hostel.test","password":"secret-pass"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	access := decodeData[AuthResponse](t, rec).Tokens.AccessToken

	rec = do(router, http.MethodPost, "/auth/logout-all", "", access)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodGet, "/auth/me", "", access)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REVOKED", errorBody(t, rec).Code)
}

func TestHandler_PasswordReset(t *testing.T) {
	f := newFixture(t)
	f.registerActive(t, "asha@hostel.test", "secret-pass")
	router := newRouter(f)

	rec := do(router, http.MethodPost, "/auth/forgot-password", `{"email":"nobody@hostel.test"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, forgotMessage, decodeData[MessageResponse](t, rec).Message)
	assert.Empty(t, f.mailer.reset)

	rec = do(router, http.MethodPost, "/auth/forgot-password", `{"email":"asha@hostel.test"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.mailer.reset, 1)

	body := `{"token":"` + f.mailer.reset[0].token + `","new_password":"new-secret-pass"}`
	rec = do(router, http.MethodPost, "/auth/reset-password", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, resetMessage, decodeData[MessageResponse](t, rec).Message)

	rec = do(router, http.MethodPost, "/auth/reset-password", body, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, invalidTokenMessage, errorBody(t, rec).Message)
}

func TestHandler_MeRequiresToken(t *testing.T) {
	rec := do(newRouter(newFixture(t)), http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExtractIPAddress(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "10.1.2.3", extractIPAddress(req))

	req.Header.Set("X-Forwarded-For", "1.1.1.1, 2.2.2.2")
	assert.Equal(t, "2.2.2.2", extractIPAddress(req))
}
