package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/recipebook/internal/pkg"
)

// Recovery returns a gin middleware that turns a panic in a later handler
// into the standard 500 envelope:
//
//	{"code": 500, "message": "internal server error", "data": null}
//
// The panic value and stack are logged with the matched route. A response
// that was already partly written is left as is.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			log.LogAttrs(c.Request.Context(), slog.LevelError, "panic recovered",
				slog.Any("panic", v),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("route", c.FullPath()),
				slog.String("stack", string(debug.Stack())),
			)

			c.Abort()
			if !c.Writer.Written() {
				pkg.Respond(c, http.StatusInternalServerError, "internal server error", nil)
			}
		}()
		c.Next()
	}
}
