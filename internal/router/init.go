package router

import (
	"github.com/streakie-app/streakie-api/internal/application"
	"github.com/streakie-app/streakie-api/internal/container"
	pginfra "github.com/streakie-app/streakie-api/internal/infrastructure/postgres"
	handlers "github.com/streakie-app/streakie-api/internal/interface/http"
	"github.com/streakie-app/streakie-api/internal/router/modules"
	"github.com/streakie-app/streakie-api/pkg/helpers"
)

// InitModules wires repositories, services, and handlers, and registers
// every feature module with the router registry. Called once during
// application startup.
func InitModules(r *Registry, c *container.Container) {
	users := pginfra.NewUserRepository(c.PG)
	todos := pginfra.NewTodoRepository(c.PG)

	engine := application.NewStreakEngine(users, todos, c.Redis, c.Logger)
	authSvc := application.NewAuthService(users, c.JWT, c.Logger)
	todoSvc := application.NewTodoService(todos, engine, c.Clock, c.Logger)
	userSvc := application.NewUserService(users, c.Redis, c.Cfg.StatsCacheTTL, c.Logger)

	cookies := helpers.NewCookie(c.Cfg.CookieDomain, c.Cfg.CookieSecure)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, c.Logger, cookies), c.JWT, c.Redis))
	r.Add(modules.NewTodoModule(handlers.NewTodoHandler(todoSvc, c.Logger), c.JWT, c.Redis))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, c.Logger), c.JWT, c.Redis))
	r.Add(modules.NewHealthModule(c.PG, c.Redis))
}
