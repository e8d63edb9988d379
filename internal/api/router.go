// Package api wires together all HTTP routes for the note backend.
//
// Route grouping philosophy:
//   - Provisioning routes (create organization, register user, login) are public:
//     they are how a caller obtains credentials in the first place. Login carries
//     its own stricter rate limit because each attempt costs a bcrypt comparison.
//   - Note routes always require a valid bearer token and the role permission for
//     the specific operation. The permission check runs as middleware so a denied
//     request never reaches a handler or the store.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/notebase/notebase/internal/api/notes"
	"github.com/notebase/notebase/internal/api/orgs"
	"github.com/notebase/notebase/internal/auth"
	"github.com/notebase/notebase/internal/config"
	"github.com/notebase/notebase/internal/db/repositories"
	"github.com/notebase/notebase/internal/middleware"
)

// Stores groups the persistence interfaces the handlers consume. Production code
// fills it from Mongo-backed repositories via NewStores; tests substitute fakes.
type Stores struct {
	Organizations orgs.OrganizationStore
	Users         orgs.UserStore
	Notes         notes.NoteStore
}

// NewStores builds the production store set backed by MongoDB.
func NewStores(database *mongo.Database) Stores {
	return Stores{
		Organizations: repositories.NewOrganizationRepository(database),
		Users:         repositories.NewUserRepository(database),
		Notes:         repositories.NewNoteRepository(database),
	}
}

// BackgroundServices holds resources with background goroutines that must be
// stopped during graceful shutdown. The caller (cmd/server) is responsible for
// calling Shutdown() after the HTTP server has drained.
type BackgroundServices struct {
	rateLimiters []*middleware.RateLimiter
}

// Shutdown stops all background goroutines.
func (bg *BackgroundServices) Shutdown() {
	for _, rl := range bg.rateLimiters {
		rl.Stop()
	}
	slog.Info("background services stopped")
}

// NewRouter creates and configures the Gin router. healthCheck probes the
// backing store for the /health endpoint; a nil healthCheck reports healthy
// unconditionally.
func NewRouter(cfg *config.Config, stores Stores, tokens *auth.TokenService, healthCheck func(context.Context) error) (*gin.Engine, *BackgroundServices) {
	router := gin.New()
	bg := &BackgroundServices{}

	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders(middleware.APISecurityHeadersConfig()))
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(LoggerMiddleware())

	if cfg.Security.RateLimiting.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
			RequestsPerMinute: cfg.Security.RateLimiting.RequestsPerMinute,
			BurstSize:         cfg.Security.RateLimiting.Burst,
			CleanupInterval:   5 * time.Minute,
		})
		bg.rateLimiters = append(bg.rateLimiters, limiter)
		router.Use(middleware.RateLimit(limiter))
	}

	router.Use(middleware.Audit())

	router.GET("/health", healthCheckHandler(healthCheck))
	router.GET("/version", versionHandler())

	orgHandlers := orgs.NewHandlers(stores.Organizations, stores.Users, tokens)
	noteHandlers := notes.NewHandlers(stores.Notes)

	v1 := router.Group("/api/v1")

	// Public provisioning endpoints. Login gets its own token bucket on top of
	// the global limiter.
	v1.POST("/organizations", orgHandlers.CreateOrganization())
	v1.POST("/organizations/:orgID/users", orgHandlers.RegisterUser())

	loginLimiter := middleware.NewRateLimiter(middleware.AuthRateLimitConfig())
	bg.rateLimiters = append(bg.rateLimiters, loginLimiter)
	v1.POST("/organizations/:orgID/users/login",
		middleware.RateLimit(loginLimiter),
		orgHandlers.Login(),
	)

	// Authenticated note endpoints, each gated on the role permission for its
	// specific operation.
	authed := v1.Group("/notes")
	authed.Use(middleware.RequireAuth(tokens))
	{
		authed.POST("", middleware.RequireAction(auth.ActionCreateNote), noteHandlers.Create())
		authed.GET("", middleware.RequireAction(auth.ActionViewNote), noteHandlers.List())
		authed.GET("/:id", middleware.RequireAction(auth.ActionViewNote), noteHandlers.Get())
		authed.PUT("/:id", middleware.RequireAction(auth.ActionUpdateNote), noteHandlers.Update())
		authed.DELETE("/:id", middleware.RequireAction(auth.ActionDeleteNote), noteHandlers.Delete())
	}

	return router, bg
}

// healthCheckHandler reports liveness, probing the store when a check is wired.
func healthCheckHandler(check func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "unhealthy",
					"error":  "database connection failed",
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// versionHandler returns the API version.
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v1",
		})
	}
}

// LoggerMiddleware emits one structured log record per request. Output format
// (json or text) follows the global slog handler configured at startup.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		slog.LogAttrs(
			c.Request.Context(),
			slog.LevelInfo,
			"http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.Int("status", c.Writer.Status()),
			slog.Int("size", c.Writer.Size()),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.ClientIP()),
			slog.String("request_id", c.GetString(middleware.RequestIDKey)),
			slog.String("user_agent", c.Request.UserAgent()),
		)
	}
}
