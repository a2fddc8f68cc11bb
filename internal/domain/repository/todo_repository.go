package repository

import (
	"context"
	"time"

	"github.com/streakie-app/streakie-api/internal/domain/entity"
)

// TodoRepository defines the interface for todo-related database operations.
// Every method is scoped to the owning user; a todo owned by someone
// else behaves exactly like a missing one.
type TodoRepository interface {
	Create(ctx context.Context, t *entity.Todo) error
	ListByDate(ctx context.Context, userID string, date time.Time) ([]entity.Todo, error)
	SetCompleted(ctx context.Context, userID, todoID string, completed bool) (*entity.Todo, error)
	Delete(ctx context.Context, userID, todoID string) error
}
