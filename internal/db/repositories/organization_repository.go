package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/notebase/notebase/internal/db"
	"github.com/notebase/notebase/internal/db/models"
)

// OrganizationRepository handles organization document operations. Organizations
// are the one entity not scoped by org_id — they ARE the scope.
type OrganizationRepository struct {
	coll *mongo.Collection
}

// NewOrganizationRepository creates a new OrganizationRepository.
func NewOrganizationRepository(database *mongo.Database) *OrganizationRepository {
	return &OrganizationRepository{coll: database.Collection(db.CollOrganizations)}
}

// Create persists a new organization with a freshly generated id.
func (r *OrganizationRepository) Create(ctx context.Context, name, displayName string) (*models.Organization, error) {
	org := &models.Organization{
		ID:          uuid.New().String(),
		Name:        name,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to insert organization: %w", err)
	}
	return org, nil
}

// GetByID retrieves an organization by id.
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	org := &models.Organization{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(org)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}
