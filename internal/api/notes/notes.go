// Package notes implements the authenticated note CRUD endpoints. The tenant
// scope for every operation comes from the caller's token identity, never from
// the request: a note id belonging to another organization simply does not
// resolve, so cross-tenant probes get 404 rather than 403.
package notes

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/notebase/notebase/internal/db/models"
	"github.com/notebase/notebase/internal/db/repositories"
	"github.com/notebase/notebase/internal/middleware"
)

// NoteStore is the subset of note persistence these handlers need.
type NoteStore interface {
	Create(ctx context.Context, orgID, ownerID, title, content string) (*models.Note, error)
	GetByID(ctx context.Context, orgID, noteID string) (*models.Note, error)
	List(ctx context.Context, orgID string) ([]*models.Note, error)
	Update(ctx context.Context, orgID, noteID, title, content string) (*models.Note, error)
	Delete(ctx context.Context, orgID, noteID string) error
}

// Handlers bundles the note endpoints with their store.
type Handlers struct {
	notes NoteStore
}

// NewHandlers creates the handler set.
func NewHandlers(notes NoteStore) *Handlers {
	return &Handlers{notes: notes}
}

type noteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// Create adds a note to the caller's organization.
// POST /api/v1/notes
func (h *Handlers) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		var req noteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}

		note, err := h.notes.Create(c.Request.Context(), identity.OrgID, identity.UserID, req.Title, req.Content)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
			return
		}

		c.JSON(http.StatusCreated, note)
	}
}

// List returns all notes in the caller's organization, oldest first.
// GET /api/v1/notes
func (h *Handlers) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		notes, err := h.notes.List(c.Request.Context(), identity.OrgID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notes"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"notes": notes,
			"count": len(notes),
		})
	}
}

// Get returns a single note by id within the caller's organization.
// GET /api/v1/notes/:id
func (h *Handlers) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		note, err := h.notes.GetByID(c.Request.Context(), identity.OrgID, c.Param("id"))
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get note"})
			return
		}

		c.JSON(http.StatusOK, note)
	}
}

// Update replaces a note's title and content.
// PUT /api/v1/notes/:id
func (h *Handlers) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		var req noteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}

		note, err := h.notes.Update(c.Request.Context(), identity.OrgID, c.Param("id"), req.Title, req.Content)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
			return
		}

		c.JSON(http.StatusOK, note)
	}
}

// Delete removes a note. Deleting an id that does not resolve in the caller's
// organization — absent, already deleted, or another tenant's — returns 404.
// DELETE /api/v1/notes/:id
func (h *Handlers) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.IdentityFrom(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		if err := h.notes.Delete(c.Request.Context(), identity.OrgID, c.Param("id")); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
