package session_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajeshprivate007/taskflow-frontend/internal/api"
	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
	"github.com/rajeshprivate007/taskflow-frontend/internal/session"
	"github.com/rajeshprivate007/taskflow-frontend/internal/storage"
	"github.com/rajeshprivate007/taskflow-frontend/internal/testutil"
)

func newTestSession(t *testing.T) (*session.Store, *testutil.Server, storage.Store) {
	t.Helper()
	server := testutil.NewServer(t)
	kv := storage.NewMemory()
	client := api.NewClient(server.URL(), kv)
	return session.New(client, kv, zerolog.Nop()), server, kv
}

func TestInitialStateIsUnauthenticated(t *testing.T) {
	store, _, _ := newTestSession(t)
	assert.Equal(t, session.StateUnauthenticated, store.State())
	assert.Nil(t, store.User())
}

func TestLoginPersistsTokenAndUser(t *testing.T) {
	store, server, kv := newTestSession(t)
	server.RegisterUser("Alice", "alice@example.com", "secret")

	user, err := store.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, session.StateAuthenticated, store.State())

	token, ok, err := kv.Get(storage.KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	cached, ok, err := kv.Get(storage.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	var snapshot model.User
	require.NoError(t, json.Unmarshal([]byte(cached), &snapshot))
	assert.Equal(t, "alice@example.com", snapshot.Email)
}

func TestFailedLoginLeavesStateUnchanged(t *testing.T) {
	store, server, kv := newTestSession(t)
	server.RegisterUser("Alice", "alice@example.com", "secret")

	_, err := store.Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", api.Message(err))
	assert.Equal(t, session.StateUnauthenticated, store.State())

	_, ok, _ := kv.Get(storage.KeyToken)
	assert.False(t, ok, "no token may be persisted on failure")
}

func TestRegisterAuthenticates(t *testing.T) {
	store, _, _ := newTestSession(t)

	user, err := store.Register(context.Background(), "Bob", "bob@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Bob", user.Name)
	assert.Equal(t, session.StateAuthenticated, store.State())
}

func TestBootstrapWithValidToken(t *testing.T) {
	store, server, kv := newTestSession(t)
	user := server.RegisterUser("Alice", "alice@example.com", "secret")
	require.NoError(t, kv.Set(storage.KeyToken, server.TokenFor(user.Email)))

	require.NoError(t, store.Bootstrap(context.Background()))
	assert.Equal(t, session.StateAuthenticated, store.State())
	require.NotNil(t, store.User())
	assert.Equal(t, "alice@example.com", store.User().Email)
}

func TestBootstrapWithRejectedTokenClearsSession(t *testing.T) {
	store, _, kv := newTestSession(t)
	require.NoError(t, kv.Set(storage.KeyToken, "garbage-token"))

	require.NoError(t, store.Bootstrap(context.Background()))
	assert.Equal(t, session.StateUnauthenticated, store.State())

	_, ok, _ := kv.Get(storage.KeyToken)
	assert.False(t, ok, "rejected token must not remain stored")
}

func TestBootstrapWithExpiredTokenSkipsRoundTrip(t *testing.T) {
	store, server, kv := newTestSession(t)
	user := server.RegisterUser("Alice", "alice@example.com", "secret")
	require.NoError(t, kv.Set(storage.KeyToken, server.ExpiredTokenFor(user.Email)))

	// An expired exp claim is detectable locally; the server never
	// needs to see the request.
	server.Fail = true
	require.NoError(t, store.Bootstrap(context.Background()))
	assert.Equal(t, session.StateUnauthenticated, store.State())

	_, ok, _ := kv.Get(storage.KeyToken)
	assert.False(t, ok)
}

func TestBootstrapWithoutToken(t *testing.T) {
	store, _, _ := newTestSession(t)
	require.NoError(t, store.Bootstrap(context.Background()))
	assert.Equal(t, session.StateUnauthenticated, store.State())
}

func TestLogoutClearsEvenWhenServerDown(t *testing.T) {
	store, server, kv := newTestSession(t)
	server.RegisterUser("Alice", "alice@example.com", "secret")
	_, err := store.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	server.Fail = true
	store.Logout(context.Background())

	assert.Equal(t, session.StateUnauthenticated, store.State())
	_, ok, _ := kv.Get(storage.KeyToken)
	assert.False(t, ok)
	_, ok, _ = kv.Get(storage.KeyUser)
	assert.False(t, ok)
}

func TestUpdateProfileMutatesLocalUser(t *testing.T) {
	store, server, kv := newTestSession(t)
	server.RegisterUser("Alice", "alice@example.com", "secret")
	_, err := store.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	name := "Alice Cooper"
	updated, err := store.UpdateProfile(context.Background(), api.ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "Alice Cooper", store.User().Name)
	assert.Equal(t, session.StateAuthenticated, store.State())

	cached, _, _ := kv.Get(storage.KeyUser)
	assert.Contains(t, cached, "Alice Cooper")
}

func TestChangePassword(t *testing.T) {
	store, server, _ := newTestSession(t)
	server.RegisterUser("Alice", "alice@example.com", "secret")
	_, err := store.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, store.ChangePassword(context.Background(), "secret", "better-secret"))

	err = store.ChangePassword(context.Background(), "secret", "again")
	require.Error(t, err)
	assert.Equal(t, "Current password is incorrect", api.Message(err))
}

func TestDeleteAccountActsAsLogout(t *testing.T) {
	store, server, kv := newTestSession(t)
	server.RegisterUser("Alice", "alice@example.com", "secret")
	_, err := store.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, store.DeleteAccount(context.Background(), "secret"))
	assert.Equal(t, session.StateUnauthenticated, store.State())
	_, ok, _ := kv.Get(storage.KeyToken)
	assert.False(t, ok)
}

func TestUnauthorizedResponseClearsSession(t *testing.T) {
	server := testutil.NewServer(t)
	kv := storage.NewMemory()
	client := api.NewClient(server.URL(), kv)
	store := session.New(client, kv, zerolog.Nop())

	server.RegisterUser("Alice", "alice@example.com", "secret")
	_, err := store.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)

	// Swap the stored token for junk and make any authed call; the 401
	// must flow through the hook and drop the session.
	require.NoError(t, kv.Set(storage.KeyToken, "junk"))
	_, err = client.Profile(context.Background())
	require.Error(t, err)

	assert.Equal(t, session.StateUnauthenticated, store.State())
	_, ok, _ := kv.Get(storage.KeyToken)
	assert.False(t, ok)
}
