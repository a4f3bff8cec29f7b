package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/linkwatch/internal/db/memorystorage"
	"github.com/patric-chuzhbe/linkwatch/internal/logger"
	"github.com/patric-chuzhbe/linkwatch/internal/user"
)

func init() {
	if err := logger.Init("error"); err != nil {
		panic(err)
	}
}

const testCookieName = "test_session"

func newTestAuth(t *testing.T) (*Auth, string) {
	t.Helper()

	theStorage, err := memorystorage.New()
	require.NoError(t, err)

	userID, err := theStorage.CreateUser(
		context.Background(),
		&user.User{Username: "somebody", PasswordHash: "some hash"},
		nil,
	)
	require.NoError(t, err)

	return New(theStorage, testCookieName, []byte("secret"), time.Hour), userID
}

func sessionCookie(t *testing.T, a *Auth, userID string) *http.Cookie {
	t.Helper()

	recorder := httptest.NewRecorder()
	require.NoError(t, a.IssueSession(recorder, userID))
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	return cookies[0]
}

func TestRequireUserResolvesSession(t *testing.T) {
	a, userID := newTestAuth(t)

	var seenUserID string
	handler := a.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID = UserIDFromContext(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/user/"+userID, nil)
	request.AddCookie(sessionCookie(t, a, userID))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, userID, seenUserID)
}

func TestRequireUserRedirectsAnonymous(t *testing.T) {
	a, _ := newTestAuth(t)

	handler := a.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("the wrapped handler must not run for anonymous callers")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/user/whoever", nil))

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
}

func TestRequireUserRejectsForgedCookie(t *testing.T) {
	a, userID := newTestAuth(t)
	forger := New(nil, testCookieName, []byte("wrong key"), time.Hour)

	handler := a.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("a cookie signed with another key must not authenticate")
	}))

	request := httptest.NewRequest(http.MethodGet, "/user/"+userID, nil)
	request.AddCookie(sessionCookie(t, forger, userID))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusFound, recorder.Code)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	a, userID := newTestAuth(t)

	handler := a.RedirectIfAuthenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/login", nil)
	request.AddCookie(sessionCookie(t, a, userID))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/user/"+userID, recorder.Header().Get("Location"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestClearSession(t *testing.T) {
	a, _ := newTestAuth(t)

	recorder := httptest.NewRecorder()
	a.ClearSession(recorder)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
