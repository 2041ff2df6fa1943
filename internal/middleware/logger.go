package middleware

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/recipebook/internal/domain"
)

// Logger returns a gin middleware that writes one structured record per
// request: 5xx at Error, 4xx at Warn, everything else at Info.
//
// Requests to a catalog route carry the collection as "resource". The last
// error a handler attached (pkg.Error does this) is logged with its
// application error code, so causes hidden from the client stay visible here.
// The record is written with the request context, which carries the
// request_id set by RequestID.
func Logger(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("size", c.Writer.Size()),
			slog.String("client_ip", c.ClientIP()),
		}
		if resource := resourceOf(route); resource != "" {
			attrs = append(attrs, slog.String("resource", resource))
		}
		if last := c.Errors.Last(); last != nil {
			attrs = append(attrs, slog.String("error", last.Err.Error()))
			var appErr *domain.AppError
			if errors.As(last.Err, &appErr) {
				attrs = append(attrs, slog.Int("error_code", appErr.Code))
			}
		}

		log.LogAttrs(c.Request.Context(), levelFor(status), "request", attrs...)
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// resourceOf returns the collection segment of a versioned API route, e.g.
// "recipes" for /api/v1/recipes/:ref.
func resourceOf(route string) string {
	rest, ok := strings.CutPrefix(route, "/api/")
	if !ok {
		return ""
	}
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
