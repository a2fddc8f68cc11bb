package repository

import (
	"context"

	"github.com/streakie-app/streakie-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateStreakCAS applies next only if the stored streak fields
	// still equal prev. Returns false when a concurrent update won.
	UpdateStreakCAS(ctx context.Context, id string, prev, next entity.StreakState) (bool, error)
}
