// auth.go provides the bearer-token authentication middleware. Authentication is
// fully stateless: the middleware verifies the token signature and expiry and
// trusts the identity snapshot inside the claims without a store lookup, so a
// role change takes effect only when the user's token is reissued.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/notebase/notebase/internal/auth"
)

// Context keys populated by RequireAuth for downstream middleware and handlers.
const (
	IdentityKey = "identity"
	UserIDKey   = "user_id"
	OrgIDKey    = "organization_id"
	RoleKey     = "role"
)

// RequireAuth validates the Authorization bearer token and stores the resolved
// identity in the request context. Requests with a missing, malformed, invalid,
// or expired token are rejected with 401.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing authorization header",
			})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header must start with 'Bearer '",
			})
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is empty",
			})
			return
		}

		identity, err := tokens.Authenticate(token)
		if err != nil {
			msg := "Invalid token"
			if err == auth.ErrTokenExpired {
				msg = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": msg,
			})
			return
		}

		c.Set(IdentityKey, identity)
		c.Set(UserIDKey, identity.UserID)
		c.Set(OrgIDKey, identity.OrgID)
		c.Set(RoleKey, identity.Role)

		c.Next()
	}
}

// IdentityFrom retrieves the authenticated identity set by RequireAuth.
// It returns false on routes where RequireAuth did not run.
func IdentityFrom(c *gin.Context) (*auth.Identity, bool) {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return nil, false
	}
	identity, ok := val.(*auth.Identity)
	return identity, ok && identity != nil
}
