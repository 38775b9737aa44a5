package modules

import (
	"net/http"

	"github.com/gin-gonic/gin"

	handlers "github.com/tkarls/memberbase/internal/interface/http"
	"github.com/tkarls/memberbase/internal/interface/middleware"
	"github.com/tkarls/memberbase/pkg/helpers"
)

// AccountModule wires the account handlers into routes
// Public: POST /api/register, POST /api/login, GET /api/healthz
// Protected: GET /api/profile, PUT /api/profile
type AccountModule struct {
	Handler *handlers.AccountHandler
	JWT     *helpers.JWTManager
}

func NewAccountModule(h *handlers.AccountHandler, jwt *helpers.JWTManager) *AccountModule {
	return &AccountModule{Handler: h, JWT: jwt}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	rg.POST("/register", m.Handler.Register)
	rg.POST("/login", m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
	}
}
