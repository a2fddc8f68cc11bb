package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/streakie-app/streakie-api/pkg/response"
)

// HealthModule exposes a liveness probe that pings the backing stores.
type HealthModule struct {
	PG  *pgxpool.Pool
	RDB *redis.Client
}

func NewHealthModule(pg *pgxpool.Pool, rdb *redis.Client) *HealthModule {
	return &HealthModule{PG: pg, RDB: rdb}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		status := gin.H{"postgres": "ok", "redis": "ok"}
		code := http.StatusOK
		if m.PG != nil {
			if err := m.PG.Ping(c.Request.Context()); err != nil {
				status["postgres"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		if m.RDB != nil {
			if err := m.RDB.Ping(c.Request.Context()).Err(); err != nil {
				status["redis"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		if code != http.StatusOK {
			response.Error(c, code, "unhealthy", status)
			return
		}
		response.Success(c, code, status, "health", nil)
	})
}
