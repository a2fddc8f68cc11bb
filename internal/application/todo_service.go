package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/streakie-app/streakie-api/internal/domain/entity"
	"github.com/streakie-app/streakie-api/internal/domain/repository"
	"github.com/streakie-app/streakie-api/pkg/helpers"
)

// TodoService manages per-user, per-day todos and feeds completions
// into the streak engine.
type TodoService struct {
	Todos   repository.TodoRepository
	Streaks *StreakEngine
	Clock   helpers.Clock
	Logger  *logrus.Logger
}

func NewTodoService(todos repository.TodoRepository, streaks *StreakEngine, clock helpers.Clock, logger *logrus.Logger) *TodoService {
	return &TodoService{Todos: todos, Streaks: streaks, Clock: clock, Logger: logger}
}

// Create stores a new incomplete todo dated today (server clock, UTC).
// The date never changes afterwards.
func (s *TodoService) Create(ctx context.Context, userID, title string, deadline *time.Time) (*entity.Todo, error) {
	t := &entity.Todo{
		UserID:   userID,
		Title:    title,
		Deadline: deadline,
		Date:     helpers.DateOf(s.Clock.Now()),
	}
	if err := s.Todos.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListToday returns the todos owned by userID dated today.
func (s *TodoService) ListToday(ctx context.Context, userID string) ([]entity.Todo, error) {
	return s.Todos.ListByDate(ctx, userID, helpers.DateOf(s.Clock.Now()))
}

// SetCompleted flips the completed flag. When a todo transitions to
// completed the streak engine evaluates the day before we return.
func (s *TodoService) SetCompleted(ctx context.Context, userID, todoID string, completed bool) (*entity.Todo, error) {
	t, err := s.Todos.SetCompleted(ctx, userID, todoID, completed)
	if err != nil {
		return nil, err
	}
	if completed {
		if err := s.Streaks.Evaluate(ctx, userID, s.Clock.Now()); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Error("streak evaluation failed")
			return nil, err
		}
	}
	return t, nil
}

// Delete removes a todo owned by userID. Returns
// repository.ErrNotFound for missing and foreign todos alike.
func (s *TodoService) Delete(ctx context.Context, userID, todoID string) error {
	return s.Todos.Delete(ctx, userID, todoID)
}
