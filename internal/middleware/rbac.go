// rbac.go implements role-based authorization middleware.
//
// The caller's role is read from the token-derived identity in the request
// context, so authorization is decided before any handler or repository code
// runs. A denied request never touches the store.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notebase/notebase/internal/auth"
	"github.com/notebase/notebase/internal/telemetry"
)

// RequireAction checks that the authenticated caller's role permits the given
// action. Unknown roles and missing identities fail closed with 403.
func RequireAction(action auth.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		if !auth.Can(identity.Role, action) {
			telemetry.AuthorizationDeniedTotal.WithLabelValues(string(action)).Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "Insufficient permissions",
				"details": "Required permission: " + string(action),
			})
			return
		}

		c.Next()
	}
}
