package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notebase/notebase/internal/db"
	"github.com/notebase/notebase/internal/db/models"
)

// NoteRepository handles note document operations. Every query filters on org_id at
// the store level; a note id from another tenant matches nothing and comes back as
// ErrNotFound.
type NoteRepository struct {
	coll *mongo.Collection
}

// NewNoteRepository creates a new NoteRepository.
func NewNoteRepository(database *mongo.Database) *NoteRepository {
	return &NoteRepository{coll: database.Collection(db.CollNotes)}
}

// Create persists a note under orgID with a freshly generated id.
func (r *NoteRepository) Create(ctx context.Context, orgID, ownerID, title, content string) (*models.Note, error) {
	now := time.Now().UTC()
	note := &models.Note{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		OwnerID:        ownerID,
		Title:          title,
		Content:        content,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := r.coll.InsertOne(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to insert note: %w", err)
	}
	return note, nil
}

// GetByID fetches a note by id within an organization.
func (r *NoteRepository) GetByID(ctx context.Context, orgID, noteID string) (*models.Note, error) {
	note := &models.Note{}
	err := r.coll.FindOne(ctx, tenantFilter(orgID, noteID)).Decode(note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}
	return note, nil
}

// List returns all notes for an organization in insertion order. Each call issues a
// fresh query and materializes the full result, so the returned slice is a
// restartable snapshot, not a live cursor.
func (r *NoteRepository) List(ctx context.Context, orgID string) ([]*models.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"org_id": orgID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := make([]*models.Note, 0)
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}

// Update replaces a note's title and content. Last write wins on concurrent
// updates; no optimistic locking.
func (r *NoteRepository) Update(ctx context.Context, orgID, noteID, title, content string) (*models.Note, error) {
	update := bson.M{"$set": bson.M{
		"title":      title,
		"content":    content,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	note := &models.Note{}
	err := r.coll.FindOneAndUpdate(ctx, tenantFilter(orgID, noteID), update, opts).Decode(note)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return note, nil
}

// Delete removes a note if it belongs to orgID. Deleting an id that is absent — or
// already deleted, or owned by another tenant — returns ErrNotFound.
func (r *NoteRepository) Delete(ctx context.Context, orgID, noteID string) error {
	res, err := r.coll.DeleteOne(ctx, tenantFilter(orgID, noteID))
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
