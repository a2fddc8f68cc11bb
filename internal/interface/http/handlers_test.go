package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streakie-app/streakie-api/internal/application"
	"github.com/streakie-app/streakie-api/internal/domain/entity"
	"github.com/streakie-app/streakie-api/internal/domain/repository"
	handlers "github.com/streakie-app/streakie-api/internal/interface/http"
	"github.com/streakie-app/streakie-api/internal/router"
	"github.com/streakie-app/streakie-api/internal/router/modules"
	"github.com/streakie-app/streakie-api/pkg/helpers"
	"github.com/streakie-app/streakie-api/pkg/validation"
)

const testSecret = "handler-test-secret"

// ---- in-memory stores ----

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	seq   int
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.users {
		if other.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.CreatedAt = time.Now().UTC()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) UpdateStreakCAS(_ context.Context, id string, prev, next entity.StreakState) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.CurrentStreak != prev.Current {
		return false, nil
	}
	u.CurrentStreak = next.Current
	u.HighestStreak = next.Highest
	u.LastCompleted = next.LastCompleted
	return true, nil
}

type memTodoRepo struct {
	mu    sync.Mutex
	todos map[string]*entity.Todo
	seq   int
}

func (r *memTodoRepo) Create(_ context.Context, t *entity.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t.ID = fmt.Sprintf("todo-%d", r.seq)
	t.CreatedAt = time.Now().UTC()
	cp := *t
	r.todos[t.ID] = &cp
	return nil
}

func (r *memTodoRepo) ListByDate(_ context.Context, userID string, date time.Time) ([]entity.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Todo, 0)
	for _, t := range r.todos {
		if t.UserID == userID && t.Date.Equal(helpers.DateOf(date)) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memTodoRepo) SetCompleted(_ context.Context, userID, todoID string, completed bool) (*entity.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[todoID]
	if !ok || t.UserID != userID {
		return nil, repository.ErrNotFound
	}
	t.Completed = completed
	cp := *t
	return &cp, nil
}

func (r *memTodoRepo) Delete(_ context.Context, userID, todoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[todoID]
	if !ok || t.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.todos, todoID)
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// ---- router under test ----

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	users := &memUserRepo{users: map[string]*entity.User{}}
	todos := &memTodoRepo{todos: map[string]*entity.Todo{}}
	clock := fixedClock{t: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)}
	jwtm := helpers.NewJWTManager(testSecret, time.Hour)

	streaks := application.NewStreakEngine(users, todos, nil, logger)
	authSvc := application.NewAuthService(users, jwtm, logger)
	todoSvc := application.NewTodoService(todos, streaks, clock, logger)
	userSvc := application.NewUserService(users, nil, 0, logger)

	cookies := helpers.NewCookie("localhost", false)

	engine := gin.New()
	reg := router.NewRegistry(engine)
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger, cookies), jwtm, nil))
	reg.Add(modules.NewTodoModule(handlers.NewTodoHandler(todoSvc, logger), jwtm, nil))
	reg.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger), jwtm, nil))
	reg.RegisterAll()
	return engine
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func register(t *testing.T, r *gin.Engine, email string) {
	t.Helper()
	w, _ := do(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email": email, "password": "password123", "name": "Tester",
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func login(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/api/login", "", gin.H{
		"email": email, "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

// ---- tests ----

func TestRegisterValidation(t *testing.T) {
	r := newTestRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email": "not-an-email", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)

	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "name")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "dup@streakie.app")

	w, env := do(t, r, http.MethodPost, "/api/register", "", gin.H{
		"email": "dup@streakie.app", "password": "password123", "name": "Tester",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email already exists", env.Message)
}

func TestLoginInvalidCredentials(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "alice@streakie.app")

	w, _ := do(t, r, http.MethodPost, "/api/login", "", gin.H{
		"email": "alice@streakie.app", "password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/todos"},
		{http.MethodPost, "/api/todos"},
		{http.MethodGet, "/api/user/stats"},
	} {
		w, _ := do(t, r, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "alice@streakie.app")

	// Same secret, but the token is already past its validity window.
	expired := helpers.NewJWTManager(testSecret, -time.Minute)
	token, _, err := expired.GenerateToken("user-1")
	require.NoError(t, err)

	w, _ := do(t, r, http.MethodGet, "/api/todos", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTodoLifecycleAndStats(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "alice@streakie.app")
	token := login(t, r, "alice@streakie.app")

	// Empty list to begin with.
	w, env := do(t, r, http.MethodGet, "/api/todos", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var todos []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &todos))
	assert.Empty(t, todos)

	// Create with a deadline; timestamps come back RFC3339 UTC and the
	// grouping date as YYYY-MM-DD.
	w, env = do(t, r, http.MethodPost, "/api/todos", token, gin.H{
		"title": "water the plants", "deadline": "2024-03-10T18:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "water the plants", created["title"])
	assert.Equal(t, false, created["completed"])
	assert.Equal(t, "2024-03-10T18:00:00Z", created["deadline"])
	assert.Equal(t, "2024-03-10", created["date"])

	// Complete it; the streak engine runs before the response.
	id := created["id"].(string)
	w, env = do(t, r, http.MethodPut, "/api/todos/"+id, token, gin.H{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, true, updated["completed"])

	w, env = do(t, r, http.MethodGet, "/api/user/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		CurrentStreak int `json:"current_streak"`
		HighestStreak int `json:"highest_streak"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.HighestStreak)

	// Delete and confirm the list is empty again.
	w, _ = do(t, r, http.MethodDelete, "/api/todos/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = do(t, r, http.MethodGet, "/api/todos", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &todos))
	assert.Empty(t, todos)
}

func TestForeignTodoLooksAbsent(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "alice@streakie.app")
	register(t, r, "bob@streakie.app")
	alice := login(t, r, "alice@streakie.app")
	bob := login(t, r, "bob@streakie.app")

	_, env := do(t, r, http.MethodPost, "/api/todos", alice, gin.H{"title": "private"})
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id := created["id"].(string)

	w, _ := do(t, r, http.MethodPut, "/api/todos/"+id, bob, gin.H{"completed": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = do(t, r, http.MethodDelete, "/api/todos/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateRequiresCompletedField(t *testing.T) {
	r := newTestRouter(t)
	register(t, r, "alice@streakie.app")
	token := login(t, r, "alice@streakie.app")

	_, env := do(t, r, http.MethodPost, "/api/todos", token, gin.H{"title": "something"})
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, _ := do(t, r, http.MethodPut, "/api/todos/"+created["id"].(string), token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
