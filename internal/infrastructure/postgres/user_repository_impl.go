package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streakie-app/streakie-api/internal/domain/entity"
	"github.com/streakie-app/streakie-api/internal/domain/repository"
)

const uniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		RETURNING id, current_streak, highest_streak, created_at, updated_at
	`, u.Email, u.Password, u.Name)

	err := row.Scan(&u.ID, &u.CurrentStreak, &u.HighestStreak, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*entity.User, error) {
	u := &entity.User{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, current_streak, highest_streak, last_completed_date, created_at, updated_at
		FROM users
		WHERE `+column+` = $1
	`, value)

	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.CurrentStreak,
		&u.HighestStreak, &u.LastCompleted, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

// UpdateStreakCAS writes the new streak fields only if the stored row
// still matches prev. Concurrent completions by the same user race to
// evaluate "all done for today"; the guarded UPDATE makes the
// read-then-write atomic so the streak cannot double-increment.
func (r *UserRepository) UpdateStreakCAS(ctx context.Context, id string, prev, next entity.StreakState) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET current_streak = $1, highest_streak = $2, last_completed_date = $3, updated_at = now()
		WHERE id = $4
		  AND current_streak = $5
		  AND last_completed_date IS NOT DISTINCT FROM $6
	`, next.Current, next.Highest, next.LastCompleted, id, prev.Current, prev.LastCompleted)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
