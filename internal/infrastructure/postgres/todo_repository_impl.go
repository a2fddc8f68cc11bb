package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streakie-app/streakie-api/internal/domain/entity"
	"github.com/streakie-app/streakie-api/internal/domain/repository"
)

type TodoRepository struct {
	pool *pgxpool.Pool
}

func NewTodoRepository(pool *pgxpool.Pool) *TodoRepository {
	return &TodoRepository{pool: pool}
}

func (r *TodoRepository) Create(ctx context.Context, t *entity.Todo) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO todos (user_id, title, completed, deadline, todo_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, t.UserID, t.Title, t.Completed, t.Deadline, t.Date)

	return row.Scan(&t.ID, &t.CreatedAt)
}

func (r *TodoRepository) ListByDate(ctx context.Context, userID string, date time.Time) ([]entity.Todo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, completed, deadline, todo_date, created_at
		FROM todos
		WHERE user_id = $1 AND todo_date = $2
		ORDER BY created_at
	`, userID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := make([]entity.Todo, 0)
	for rows.Next() {
		var t entity.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.Deadline, &t.Date, &t.CreatedAt); err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// SetCompleted updates the completed flag on a todo owned by userID.
// A todo owned by another user is reported as ErrNotFound so existence
// does not leak across accounts.
func (r *TodoRepository) SetCompleted(ctx context.Context, userID, todoID string, completed bool) (*entity.Todo, error) {
	t := &entity.Todo{}

	row := r.pool.QueryRow(ctx, `
		UPDATE todos
		SET completed = $1
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, title, completed, deadline, todo_date, created_at
	`, completed, todoID, userID)

	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Completed, &t.Deadline, &t.Date, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TodoRepository) Delete(ctx context.Context, userID, todoID string) error {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM todos
		WHERE id = $1 AND user_id = $2
	`, todoID, userID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TodoRepository = (*TodoRepository)(nil)
