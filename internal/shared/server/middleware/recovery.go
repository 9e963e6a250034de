package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/server/respond"
	"github.com/karthiksamak-git/karthik-voice-bot/internal/shared/telemetry"
)

// PanicResponder answers a request whose handler panicked. It reports false
// when the route is not its own, leaving the standard 500 envelope.
type PanicResponder func(c *gin.Context) bool

// Recovery logs panics and lets the first matching responder write the reply.
func Recovery(responders ...PanicResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			for _, answer := range responders {
				if answer != nil && answer(c) {
					c.Abort()
					return
				}
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
