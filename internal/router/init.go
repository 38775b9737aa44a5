package router

import (
	"github.com/tkarls/memberbase/internal/application"
	"github.com/tkarls/memberbase/internal/container"
	sqliteinfra "github.com/tkarls/memberbase/internal/infrastructure/sqlite"
	handlers "github.com/tkarls/memberbase/internal/interface/http"
	"github.com/tkarls/memberbase/internal/router/modules"
)

// InitModules builds the account feature from the container's components and
// registers every module with the router registry. Called once at startup.
func InitModules(r *Registry, c *container.Container) {
	repo := sqliteinfra.NewUserRepository(c.Store)
	service := application.NewService(repo, c.JWT, c.Hasher, c.Logger)
	handler := handlers.NewAccountHandler(service, c.Logger)

	r.Add(modules.NewAccountModule(handler, c.JWT))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
