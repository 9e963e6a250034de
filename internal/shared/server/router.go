package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/chat"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/config"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/metrics"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/server/middleware"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/server/respond"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/web"
)

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config      config.Config
	ChatHandler *chat.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	var panicResponders []middleware.PanicResponder
	if deps.ChatHandler != nil {
		panicResponders = append(panicResponders, deps.ChatHandler.RecoverPanic)
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(panicResponders...),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	web.RegisterRoutes(r)
	r.GET("/healthz", func(c *gin.Context) {
		respond.OK(c, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(r)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
