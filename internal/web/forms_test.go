package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"balift/internal/auth"
	"balift/internal/store"
	"balift/internal/workout"
)

type testWeb struct {
	handler *Handler
	users   *auth.Service
}

func newTestWeb(t *testing.T) *testWeb {
	t.Helper()

	log := zaptest.NewLogger(t)
	st := store.NewTestStore(t)
	users := auth.NewService(st, log)
	sessions := auth.NewSessions([]byte("test-secret"), false)
	return &testWeb{
		handler: NewHandler(log, users, workout.NewService(st, log), sessions),
		users:   users,
	}
}

func (tw *testWeb) postForm(t *testing.T, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	tw.handler.ServeHTTP(rec, req)
	return rec
}

func (tw *testWeb) login(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()

	rec := tw.postForm(t, "/login", url.Values{
		"username": {username},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	return rec.Result().Cookies()
}

func TestLoginFlow(t *testing.T) {
	t.Parallel()

	tw := newTestWeb(t)
	_, err := tw.users.Register(context.Background(), "alice", "secret1", false)
	require.NoError(t, err)

	// wrong password re-renders the form with the error
	rec := tw.postForm(t, "/login", url.Values{
		"username": {"alice"},
		"password": {"not-it"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid username or password")

	// correct credentials redirect home with a session cookie
	cookies := tw.login(t, "alice", "secret1")
	require.NotEmpty(t, cookies)

	// the session opens the guarded pages
	req := httptest.NewRequest(http.MethodGet, "/workouts", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	tw.handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestGuardedPagesRedirectToLogin(t *testing.T) {
	t.Parallel()

	tw := newTestWeb(t)
	for _, path := range []string{"/", "/workouts", "/workouts/add", "/exercises", "/change-password"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		tw.handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusFound, rec.Code, path)
		require.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()

	tw := newTestWeb(t)
	_, err := tw.users.Register(context.Background(), "alice", "secret1", false)
	require.NoError(t, err)
	cookies := tw.login(t, "alice", "secret1")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	tw.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAddUserRequiresAdmin(t *testing.T) {
	t.Parallel()

	tw := newTestWeb(t)
	_, err := tw.users.Register(context.Background(), "alice", "secret1", false)
	require.NoError(t, err)
	_, err = tw.users.Register(context.Background(), "root", "secret1", true)
	require.NoError(t, err)

	// non-admin is bounced to the index
	alice := tw.login(t, "alice", "secret1")
	req := httptest.NewRequest(http.MethodGet, "/admin/add-user", nil)
	for _, c := range alice {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	tw.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))

	// admin creates a user through the form
	root := tw.login(t, "root", "secret1")
	rec = tw.postForm(t, "/admin/add-user", url.Values{
		"username": {"bob"},
		"password": {"secret1"},
		"is_admin": {"on"},
	}, root)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "user bob created")

	u, err := tw.users.Authenticate(context.Background(), "bob", "secret1")
	require.NoError(t, err)
	require.True(t, u.IsAdmin)

	// duplicate username re-renders with the conflict error
	rec = tw.postForm(t, "/admin/add-user", url.Values{
		"username": {"bob"},
		"password": {"secret1"},
	}, root)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "already exists")
}

func TestChangePasswordForm(t *testing.T) {
	t.Parallel()

	tw := newTestWeb(t)
	_, err := tw.users.Register(context.Background(), "alice", "secret1", false)
	require.NoError(t, err)
	cookies := tw.login(t, "alice", "secret1")

	// mismatched confirmation
	rec := tw.postForm(t, "/change-password", url.Values{
		"current_password": {"secret1"},
		"new_password":     {"newsecret"},
		"confirm_password": {"different"},
	}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "do not match")

	rec = tw.postForm(t, "/change-password", url.Values{
		"current_password": {"secret1"},
		"new_password":     {"newsecret"},
		"confirm_password": {"newsecret"},
	}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "password changed")

	_, err = tw.users.Authenticate(context.Background(), "alice", "newsecret")
	require.NoError(t, err)
}
