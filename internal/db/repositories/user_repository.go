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

// UserRepository handles user document operations. Lookups are always scoped to an
// organization; there is no cross-tenant "find user by email".
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(database *mongo.Database) *UserRepository {
	return &UserRepository{coll: database.Collection(db.CollUsers)}
}

// Create persists a new user. The organization id must already be set on the
// model; it is immutable for the lifetime of the account. A duplicate email within
// the same organization surfaces as ErrDuplicateEmail via the unique
// {org_id, email} index rather than a read-then-insert check, so two concurrent
// registrations cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// FindByEmail retrieves a user by email within an organization.
func (r *UserRepository) FindByEmail(ctx context.Context, orgID, email string) (*models.User, error) {
	user := &models.User{}
	err := r.coll.FindOne(ctx, bson.M{"org_id": orgID, "email": email}).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by id within an organization.
func (r *UserRepository) GetByID(ctx context.Context, orgID, id string) (*models.User, error) {
	user := &models.User{}
	err := r.coll.FindOne(ctx, tenantFilter(orgID, id)).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
