package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/beixa/Reactivities/internal/auth"
	"github.com/beixa/Reactivities/internal/config"
	"github.com/beixa/Reactivities/internal/core"
)

// NewServer builds the HTTP server hosting the API and the /chat endpoint.
func NewServer(hub *core.Hub, authService *auth.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(LoggerMiddleware(logger), gin.Recovery())

	r.GET("/health", healthHandler)

	api := NewAPIHandlers(authService, logger)
	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/register", api.Register)
		apiGroup.POST("/login", api.Login)
		apiGroup.POST("/guest", api.GuestLogin)
		apiGroup.GET("/me", AuthMiddleware(authService, logger), api.Me)
	}

	ws := NewWSHandler(hub, authService, cfg, logger)
	r.GET(ChatPath, gin.WrapH(ws))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
