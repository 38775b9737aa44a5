package container

import (
	"github.com/sirupsen/logrus"

	"github.com/tkarls/memberbase/config"
	"github.com/tkarls/memberbase/internal/infrastructure/sqlite"
	"github.com/tkarls/memberbase/pkg/helpers"
)

// Container carries the components constructed in main to the router wiring.
// Everything travels explicitly; there is no package-level state, so tests
// can assemble as many independent stacks as they need.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  *sqlite.Store
	JWT    *helpers.JWTManager
	Hasher *helpers.Hasher
}
