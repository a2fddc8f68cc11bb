package application

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/streakie-app/streakie-api/internal/domain/entity"
	"github.com/streakie-app/streakie-api/internal/domain/repository"
	"github.com/streakie-app/streakie-api/pkg/helpers"
)

// ---- in-memory repositories ----

type memUserRepo struct {
	mu         sync.Mutex
	users      map[string]*entity.User
	seq        int
	casCalls   int
	casRejects int // reject this many CAS attempts before accepting
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
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
	u.UpdatedAt = u.CreatedAt
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

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return helpers.DateOf(*a).Equal(helpers.DateOf(*b))
}

func (r *memUserRepo) UpdateStreakCAS(_ context.Context, id string, prev, next entity.StreakState) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.casCalls++
	if r.casRejects > 0 {
		r.casRejects--
		return false, nil
	}
	u, ok := r.users[id]
	if !ok {
		return false, nil
	}
	if u.CurrentStreak != prev.Current || !sameDay(u.LastCompleted, prev.LastCompleted) {
		return false, nil
	}
	u.CurrentStreak = next.Current
	u.HighestStreak = next.Highest
	u.LastCompleted = next.LastCompleted
	u.UpdatedAt = time.Now().UTC()
	return true, nil
}

var _ repository.UserRepository = (*memUserRepo)(nil)

type memTodoRepo struct {
	mu    sync.Mutex
	todos map[string]*entity.Todo
	seq   int
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{todos: map[string]*entity.Todo{}}
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
		if t.UserID == userID && helpers.DateOf(t.Date).Equal(helpers.DateOf(date)) {
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

var _ repository.TodoRepository = (*memTodoRepo)(nil)

// ---- fake clock ----

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
