package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/streakie-app/streakie-api/internal/domain/entity"
	"github.com/streakie-app/streakie-api/internal/domain/repository"
	"github.com/streakie-app/streakie-api/pkg/helpers"
)

// StreakEngine derives streak transitions from todo completion state.
// It runs synchronously whenever a todo flips to completed: if every
// todo dated today is complete, the user's streak fields advance.
type StreakEngine struct {
	Users  repository.UserRepository
	Todos  repository.TodoRepository
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewStreakEngine(users repository.UserRepository, todos repository.TodoRepository, rdb *redis.Client, logger *logrus.Logger) *StreakEngine {
	return &StreakEngine{Users: users, Todos: todos, Redis: rdb, Logger: logger}
}

// Transition computes the next streak state for a day whose todos are
// all complete. The second return value is false when nothing changes.
//
// A gap of exactly one day continues the streak; a missed day or a
// first-ever completion starts over at 1. A gap of zero means today is
// already recorded: re-completing after an edit is a no-op so the
// streak cannot reset within the same day.
func Transition(prev entity.StreakState, now time.Time) (entity.StreakState, bool) {
	day := helpers.DateOf(now)
	if prev.LastCompleted != nil {
		switch gap := helpers.DaysBetween(*prev.LastCompleted, day); {
		case gap == 0:
			return prev, false
		case gap == 1:
			next := entity.StreakState{Current: prev.Current + 1, Highest: prev.Highest, LastCompleted: &day}
			if next.Current > next.Highest {
				next.Highest = next.Current
			}
			return next, true
		}
	}
	// Start over at 1. The highest streak survives a reset, but must
	// still cover the new current value on a first-ever completion.
	next := entity.StreakState{Current: 1, Highest: prev.Highest, LastCompleted: &day}
	if next.Highest < next.Current {
		next.Highest = next.Current
	}
	return next, true
}

func allCompleted(todos []entity.Todo) bool {
	for _, t := range todos {
		if !t.Completed {
			return false
		}
	}
	// A day with zero todos is vacuously complete.
	return true
}

// Evaluate checks whether every todo dated now's UTC day is complete
// and, if so, advances the streak via a compare-and-set update.
// Losing the CAS race means a concurrent completion already evaluated
// the same day; one re-read settles it.
func (e *StreakEngine) Evaluate(ctx context.Context, userID string, now time.Time) error {
	today := helpers.DateOf(now)
	for attempt := 0; attempt < 2; attempt++ {
		todos, err := e.Todos.ListByDate(ctx, userID, today)
		if err != nil {
			return err
		}
		if !allCompleted(todos) {
			return nil
		}

		u, err := e.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		prev := u.Streak()
		next, changed := Transition(prev, today)
		if !changed {
			return nil
		}

		applied, err := e.Users.UpdateStreakCAS(ctx, userID, prev, next)
		if err != nil {
			return err
		}
		if applied {
			e.invalidateStats(ctx, userID)
			e.Logger.WithFields(logrus.Fields{
				"user_id":        userID,
				"current_streak": next.Current,
				"highest_streak": next.Highest,
			}).Info("streak updated")
			return nil
		}
	}
	e.Logger.WithField("user_id", userID).Debug("streak update lost compare-and-set race")
	return nil
}

func (e *StreakEngine) invalidateStats(ctx context.Context, userID string) {
	if e.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, e.Redis, statsKey(userID)); err != nil {
		e.Logger.WithError(err).WithField("user_id", userID).Warn("stats cache invalidation failed")
	}
}
