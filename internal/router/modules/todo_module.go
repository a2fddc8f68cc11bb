package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/streakie-app/streakie-api/internal/interface/http"
	"github.com/streakie-app/streakie-api/internal/interface/middleware"
	"github.com/streakie-app/streakie-api/pkg/helpers"
)

// TodoModule wires the authenticated todo CRUD routes:
// GET/POST /api/todos, PUT/DELETE /api/todos/:id
type TodoModule struct {
	Handler *handlers.TodoHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
}

func NewTodoModule(h *handlers.TodoHandler, jwt *helpers.JWTManager, rdb *redis.Client) *TodoModule {
	return &TodoModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *TodoModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.JWTAuth(m.JWT))
	auth.Use(
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByIP(), nil),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.GET("/todos", m.Handler.List)
		auth.POST("/todos", m.Handler.Create)
		auth.PUT("/todos/:id", m.Handler.Update)
		auth.DELETE("/todos/:id", m.Handler.Delete)
	}
}
