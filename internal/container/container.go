package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/streakie-app/streakie-api/config"
	"github.com/streakie-app/streakie-api/pkg/helpers"
)

// Container carries the infrastructure collaborators constructed in
// main and hands them to the router modules. Passed explicitly so the
// process has no package-level singletons.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	PG     *pgxpool.Pool
	Redis  *redis.Client
	JWT    *helpers.JWTManager
	Clock  helpers.Clock
}

func New(cfg *config.Config, logger *logrus.Logger, pg *pgxpool.Pool, rdb *redis.Client, jwt *helpers.JWTManager, clock helpers.Clock) *Container {
	return &Container{Cfg: cfg, Logger: logger, PG: pg, Redis: rdb, JWT: jwt, Clock: clock}
}
