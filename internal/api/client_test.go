package api_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajeshprivate007/taskflow-frontend/internal/api"
	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
	"github.com/rajeshprivate007/taskflow-frontend/internal/storage"
	"github.com/rajeshprivate007/taskflow-frontend/internal/testutil"
)

func newTestClient(t *testing.T) (*api.Client, *testutil.Server, storage.Store) {
	t.Helper()
	server := testutil.NewServer(t)
	kv := storage.NewMemory()
	client := api.NewClient(server.URL(), kv)
	return client, server, kv
}

func loginTestUser(t *testing.T, server *testutil.Server, kv storage.Store) model.User {
	t.Helper()
	user := server.RegisterUser("Alice", "alice@example.com", "secret")
	require.NoError(t, kv.Set(storage.KeyToken, server.TokenFor(user.Email)))
	return user
}

func TestRegisterReturnsUserAndToken(t *testing.T) {
	client, _, _ := newTestClient(t)

	payload, err := client.Register(context.Background(), api.RegisterRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob", payload.User.Name)
	assert.NotEmpty(t, payload.User.ID, "native _id must land in the canonical field")
	assert.NotEmpty(t, payload.Token)
}

func TestBearerTokenAttachedToCalls(t *testing.T) {
	client, server, kv := newTestClient(t)
	user := loginTestUser(t, server, kv)
	server.SeedTask(user.ID, model.Task{Title: "Buy milk"})

	page, err := client.ListTodos(context.Background(), model.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, page.Todos, 1)
	assert.Equal(t, "Buy milk", page.Todos[0].Title)
	assert.NotEmpty(t, page.Todos[0].ID)
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	client, _, _ := newTestClient(t)

	_, err := client.ListTodos(context.Background(), model.DefaultFilter())
	require.Error(t, err)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.Status)
}

func TestUnauthorizedHookFires(t *testing.T) {
	client, server, kv := newTestClient(t)
	loginTestUser(t, server, kv)

	fired := 0
	client.OnUnauthorized(func() { fired++ })

	require.NoError(t, kv.Set(storage.KeyToken, "not-a-valid-token"))
	_, err := client.ListTodos(context.Background(), model.DefaultFilter())
	require.Error(t, err)
	assert.Equal(t, 1, fired, "401 must be reported exactly once per call")
}

func TestServerMessagePreferredInErrors(t *testing.T) {
	client, server, kv := newTestClient(t)
	loginTestUser(t, server, kv)

	_, err := client.CreateTodo(context.Background(), api.TaskInput{Title: "   "})
	require.Error(t, err)
	assert.Equal(t, "Title is required", api.Message(err))
}

func TestTransportFailureMessage(t *testing.T) {
	kv := storage.NewMemory()
	client := api.NewClient("http://127.0.0.1:1", kv)

	_, err := client.Stats(context.Background())
	require.Error(t, err)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

func TestToggleRoundTrip(t *testing.T) {
	client, server, kv := newTestClient(t)
	user := loginTestUser(t, server, kv)
	seeded := server.SeedTask(user.ID, model.Task{Title: "Toggle me", Status: model.StatusInProgress})

	once, err := client.ToggleTodo(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, once.Status)

	twice, err := client.ToggleTodo(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, twice.Status)
}

func TestSubtasksAndCommentsReturnParent(t *testing.T) {
	client, server, kv := newTestClient(t)
	user := loginTestUser(t, server, kv)
	seeded := server.SeedTask(user.ID, model.Task{Title: "Parent"})

	withSubtask, err := client.AddSubtask(context.Background(), seeded.ID, "step one")
	require.NoError(t, err)
	require.Len(t, withSubtask.Subtasks, 1)
	assert.NotEmpty(t, withSubtask.Subtasks[0].ID, "nested _id must be normalized too")
	assert.False(t, withSubtask.Subtasks[0].Completed)

	toggled, err := client.ToggleSubtask(context.Background(), seeded.ID, withSubtask.Subtasks[0].ID)
	require.NoError(t, err)
	assert.True(t, toggled.Subtasks[0].Completed)

	commented, err := client.AddComment(context.Background(), seeded.ID, "looks good")
	require.NoError(t, err)
	require.Len(t, commented.Comments, 1)
	assert.Equal(t, "looks good", commented.Comments[0].Text)
	assert.Equal(t, "Alice", commented.Comments[0].Author)
}

func TestListFiltersSentUpstream(t *testing.T) {
	client, server, kv := newTestClient(t)
	user := loginTestUser(t, server, kv)
	server.SeedTask(user.ID, model.Task{Title: "High", Priority: model.PriorityHigh})
	server.SeedTask(user.ID, model.Task{Title: "Low", Priority: model.PriorityLow})

	filter := model.DefaultFilter()
	filter.Priority = model.PriorityHigh
	page, err := client.ListTodos(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, page.Todos, 1)
	assert.Equal(t, "High", page.Todos[0].Title)
}

func TestStatsSnapshot(t *testing.T) {
	client, server, kv := newTestClient(t)
	user := loginTestUser(t, server, kv)
	server.SeedTask(user.ID, model.Task{Title: "a", Status: model.StatusCompleted})
	server.SeedTask(user.ID, model.Task{Title: "b", Status: model.StatusPending, Priority: model.PriorityHigh})

	stats, err := client.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.HighPriority)
}
