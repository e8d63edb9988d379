// Package middleware provides Gin HTTP middleware for the note backend.
//
// Middleware ordering matters and is enforced in router.go:
//
//	Security → RequestID → Metrics → Logger → RateLimit → Audit → Auth → Role gate → Handler
//
// Security headers run first so they appear on all responses including errors.
// Rate limiting runs before auth to block brute-force attacks before any crypto or
// store work. Auth populates the caller identity; the role gate reads it from the
// context and must run before any handler so a denied request never reaches the
// repository layer. Audit registers before auth but logs after the handler
// returns, so it sees both the final status and the identity auth stored.
package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/notebase/notebase/internal/telemetry"
)

// Metrics returns a Gin handler that records a request counter and a latency
// histogram for every request passing through the router.
//
// The path label is set from c.FullPath(), which returns the matched route
// template (e.g. /api/v1/notes/:id) rather than the raw URL, so user-supplied ids
// cannot inflate label cardinality. Requests that match no route use the literal
// "<no-route>".
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "<no-route>"
		}

		duration := time.Since(start).Seconds()
		method := c.Request.Method
		status := fmt.Sprintf("%d", c.Writer.Status())

		telemetry.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		telemetry.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}
