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

func statsKey(userID string) string {
	return "user:stats:" + userID
}

// Stats is the streak summary exposed by GET /api/user/stats.
type Stats struct {
	CurrentStreak int `json:"current_streak"`
	HighestStreak int `json:"highest_streak"`
}

// UserService reads user profiles and streak stats, with a small redis
// cache in front of the stats query. The streak engine invalidates the
// cache whenever it advances a streak.
type UserService struct {
	Users    repository.UserRepository
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   *logrus.Logger
}

func NewUserService(users repository.UserRepository, rdb *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, Redis: rdb, CacheTTL: cacheTTL, Logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetStats(ctx context.Context, userID string) (*Stats, error) {
	if s.Redis != nil && s.CacheTTL > 0 {
		var cached Stats
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, statsKey(userID), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := &Stats{CurrentStreak: u.CurrentStreak, HighestStreak: u.HighestStreak}

	if s.Redis != nil && s.CacheTTL > 0 {
		if err := helpers.RedisSetJSON(ctx, s.Redis, statsKey(userID), stats, s.CacheTTL); err != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("stats cache write failed")
		}
	}
	return stats, nil
}
