package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/linkwatch/internal/auth"
	"github.com/patric-chuzhbe/linkwatch/internal/db/memorystorage"
	"github.com/patric-chuzhbe/linkwatch/internal/logger"
	"github.com/patric-chuzhbe/linkwatch/internal/models"
	"github.com/patric-chuzhbe/linkwatch/internal/prober"
	"github.com/patric-chuzhbe/linkwatch/internal/registry"
	"github.com/patric-chuzhbe/linkwatch/internal/view"
)

func init() {
	if err := logger.Init("error"); err != nil {
		panic(err)
	}
}

type testEnv struct {
	server  *httptest.Server
	target  *httptest.Server
	storage *memorystorage.MemoryStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	theStorage, err := memorystorage.New()
	require.NoError(t, err)

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(target.Close)

	views, err := view.New()
	require.NoError(t, err)

	reg := registry.New(theStorage, prober.New(time.Second))
	authGate := auth.New(theStorage, "test_session", []byte("secret"), time.Hour)

	server := httptest.NewServer(New(reg, authGate, views))
	t.Cleanup(server.Close)

	return &testEnv{
		server:  server,
		target:  target,
		storage: theStorage,
	}
}

func newClient() *resty.Client {
	return resty.New()
}

func registerAndLogin(t *testing.T, env *testEnv, client *resty.Client, username string) {
	t.Helper()

	resp, err := client.R().
		SetFormData(map[string]string{"username": username, "password": "password"}).
		Post(env.server.URL + "/register")
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "Log in", "registration should land on the login page")

	resp, err = client.R().
		SetFormData(map[string]string{"username": username, "password": "password"}).
		Post(env.server.URL + "/login")
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "Monitored links of "+username)
}

func TestPing(t *testing.T) {
	env := newTestEnv(t)

	resp, err := newClient().R().Get(env.server.URL + "/ping")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestRootRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, err := newClient().R().Get(env.server.URL + "/")
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "Log in")
}

func TestAnonymousUserPageRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, err := newClient().R().Get(env.server.URL + "/user/whoever")
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "Log in")
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	client := newClient()

	resp, err := client.R().
		SetFormData(map[string]string{"username": "ab", "password": "password"}).
		Post(env.server.URL + "/register")
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "Username must be at least 3 characters long.")

	resp, err = client.R().
		SetFormData(map[string]string{"username": "somebody", "password": "pwd"}).
		Post(env.server.URL + "/register")
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "Password must be at least 4 characters long.")

	_, found, err := env.storage.FindUserByUsername(context.Background(), "ab", nil)
	require.NoError(t, err)
	assert.False(t, found, "a rejected registration must not create a user")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	client := newClient()
	registerAndLogin(t, env, client, "somebody")

	resp, err := newClient().R().
		SetFormData(map[string]string{"username": "somebody", "password": "different"}).
		Post(env.server.URL + "/register")
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "This username is already taken.")
}

func TestLoginFailure(t *testing.T) {
	env := newTestEnv(t)
	client := newClient()
	registerAndLogin(t, env, client, "somebody")

	resp, err := newClient().R().
		SetFormData(map[string]string{"username": "somebody", "password": "wrong"}).
		Post(env.server.URL + "/login")
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "No such user.")
}

func TestAddListAndDeleteLink(t *testing.T) {
	env := newTestEnv(t)
	client := newClient()
	registerAndLogin(t, env, client, "somebody")

	usr, found, err := env.storage.FindUserByUsername(context.Background(), "somebody", nil)
	require.NoError(t, err)
	require.True(t, found)

	linkURL := env.target.URL + "/health"
	resp, err := client.R().
		SetFormData(map[string]string{"link": linkURL}).
		Post(env.server.URL + "/user/" + usr.ID)
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), linkURL)

	links, err := env.storage.FindLinksByOwner(context.Background(), usr.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.NotNil(t, links[0].LastPingMs)
	assert.GreaterOrEqual(t, *links[0].LastPingMs, 0.0)

	resp, err = client.R().
		Post(env.server.URL + "/user/" + usr.ID + "/link/" + links[0].ID + "/delete")
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "No links yet.")

	resp, err = client.R().
		Post(env.server.URL + "/user/" + usr.ID + "/link/" + links[0].ID + "/delete")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode(), "deleting a missing link should still land on the page")
	assert.NotContains(t, string(resp.Body()), "error", "no user-visible error for a missing link")
}

func TestAddLinkErrors(t *testing.T) {
	env := newTestEnv(t)
	client := newClient()
	registerAndLogin(t, env, client, "somebody")

	usr, found, err := env.storage.FindUserByUsername(context.Background(), "somebody", nil)
	require.NoError(t, err)
	require.True(t, found)

	resp, err := client.R().
		SetFormData(map[string]string{"link": "not a url"}).
		Post(env.server.URL + "/user/" + usr.ID)
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "Invalid URL format!")

	for i := 0; i < models.MaxLinksPerUser; i++ {
		resp, err = client.R().
			SetFormData(map[string]string{"link": fmt.Sprintf("%s/%d", env.target.URL, i)}).
			Post(env.server.URL + "/user/" + usr.ID)
		require.NoError(t, err)
	}

	resp, err = client.R().
		SetFormData(map[string]string{"link": env.target.URL + "/one-too-many"}).
		Post(env.server.URL + "/user/" + usr.ID)
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "Non-admin users may monitor at most 3 links!")

	resp, err = client.R().
		SetFormData(map[string]string{"link": fmt.Sprintf("%s/%d", env.target.URL, 0)}).
		Post(env.server.URL + "/user/" + usr.ID)
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "Non-admin users may monitor at most 3 links!",
		"the quota check runs before the duplicate check")
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	client := newClient()
	registerAndLogin(t, env, client, "somebody")

	resp, err := client.R().Post(env.server.URL + "/logout")
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "Log in")

	usr, _, err := env.storage.FindUserByUsername(context.Background(), "somebody", nil)
	require.NoError(t, err)

	resp, err = client.R().Get(env.server.URL + "/user/" + usr.ID)
	require.NoError(t, err)
	assert.Contains(t, string(resp.Body()), "Log in", "the cleared session must not reach the user page")
}
