// audit.go provides Gin middleware that records successful authenticated write
// operations to the structured log.
package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// Audit logs successful mutations (non-GET, non-OPTIONS, status < 400) after the
// handler has run. Read operations and failures are skipped: failures are already
// visible in request metrics, and logging reads would swamp the log with noise.
func Audit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		method := c.Request.Method
		if method == "GET" || method == "OPTIONS" {
			return
		}
		if c.Writer.Status() >= 400 {
			return
		}

		attrs := []any{
			slog.String("action", method+" "+c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.String("ip", c.ClientIP()),
		}
		if requestID := c.GetString(RequestIDKey); requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		if userID := c.GetString(UserIDKey); userID != "" {
			attrs = append(attrs, slog.String("user_id", userID))
		}
		if orgID := c.GetString(OrgIDKey); orgID != "" {
			attrs = append(attrs, slog.String("organization_id", orgID))
		}

		slog.Info("audit", attrs...)
	}
}
