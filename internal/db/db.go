// Package db manages the MongoDB client lifecycle and index bootstrap for the note
// backend. The server creates indexes on startup so a freshly deployed container
// never needs a separate provisioning step. The unique compound index on
// {org_id, email} is what turns a duplicate registration into a first-class
// conflict at the store level instead of a racy read-then-insert check.
package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notebase/notebase/internal/telemetry"
)

// Collection names used across the repository layer.
const (
	CollOrganizations = "organizations"
	CollUsers         = "users"
	CollNotes         = "notes"
)

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// registers the telemetry pool monitor so connection counts show up in Prometheus.
func Connect(ctx context.Context, uri string, maxPoolSize uint64) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetPoolMonitor(telemetry.MongoPoolMonitor())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on. Index creation is
// idempotent; running it on every startup is safe.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	// Per-organization email uniqueness. Global uniqueness would be wrong: the same
	// address may register independently in two tenants.
	_, err := database.Collection(CollUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "org_id", Value: 1}, {Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("org_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	// Supports the tenant-filtered list in insertion order.
	_, err = database.Collection(CollNotes).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "org_id", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("org_created_at"),
	})
	if err != nil {
		return fmt.Errorf("failed to create notes index: %w", err)
	}

	return nil
}
