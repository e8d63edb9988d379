// Package orgs implements HTTP handlers for organization provisioning, user
// registration, and login. These are the public (unauthenticated) endpoints:
// everything else in the API requires a token issued here.
package orgs

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notebase/notebase/internal/auth"
	"github.com/notebase/notebase/internal/db/models"
	"github.com/notebase/notebase/internal/db/repositories"
	"github.com/notebase/notebase/internal/telemetry"
)

// OrganizationStore is the subset of organization persistence these handlers need.
type OrganizationStore interface {
	Create(ctx context.Context, name, displayName string) (*models.Organization, error)
	GetByID(ctx context.Context, id string) (*models.Organization, error)
}

// UserStore is the subset of user persistence these handlers need.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, orgID, email string) (*models.User, error)
}

// Handlers bundles the organization and user endpoints with their dependencies.
type Handlers struct {
	orgs   OrganizationStore
	users  UserStore
	tokens *auth.TokenService
}

// NewHandlers creates the handler set.
func NewHandlers(orgs OrganizationStore, users UserStore, tokens *auth.TokenService) *Handlers {
	return &Handlers{orgs: orgs, users: users, tokens: tokens}
}

type createOrganizationRequest struct {
	Name        string `json:"name" binding:"required"`
	DisplayName string `json:"display_name"`
}

// CreateOrganization provisions a new tenant.
// POST /api/v1/organizations
func (h *Handlers) CreateOrganization() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrganizationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}

		org, err := h.orgs.Create(c.Request.Context(), req.Name, req.DisplayName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
			return
		}

		c.JSON(http.StatusCreated, org)
	}
}

type registerUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required"`
}

// RegisterUser creates an account inside an organization. The role is fixed at
// registration; changing it later means registering a new account or waiting for
// an admin workflow that does not exist yet.
// POST /api/v1/organizations/:orgID/users
func (h *Handlers) RegisterUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param("orgID")

		var req registerUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email, password (min 8 chars), and role are required"})
			return
		}

		role, err := auth.ParseRole(req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role must be one of: reader, writer, admin"})
			return
		}

		// The organization must exist before accounts can be attached to it.
		if _, err := h.orgs.GetByID(c.Request.Context(), orgID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up organization"})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
			return
		}

		user := &models.User{
			OrganizationID: orgID,
			Email:          req.Email,
			PasswordHash:   hash,
			Role:           string(role),
		}
		if err := h.users.Create(c.Request.Context(), user); err != nil {
			if errors.Is(err, repositories.ErrDuplicateEmail) {
				c.JSON(http.StatusConflict, gin.H{"error": "Email already registered in this organization"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials within an organization and issues a bearer token.
// Every failure mode — unknown org, unknown email, wrong password — produces the
// same 401 body so callers cannot probe which accounts exist.
// POST /api/v1/organizations/:orgID/users/login
func (h *Handlers) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param("orgID")

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		fail := func() {
			telemetry.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		}

		user, err := h.users.FindByEmail(c.Request.Context(), orgID, req.Email)
		if err != nil {
			fail()
			return
		}

		if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
			fail()
			return
		}

		role, err := auth.ParseRole(user.Role)
		if err != nil {
			// A stored role outside the closed set means the record was tampered with
			// or written by an incompatible version. Treat it as a failed login.
			fail()
			return
		}

		token, expiresAt, err := h.tokens.Issue(user.ID, user.OrganizationID, role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}

		telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_at": expiresAt,
		})
	}
}
