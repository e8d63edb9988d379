// Package models - note.go defines the Note document scoped to an organization.
package models

import "time"

// Note represents a note owned by an organization. OwnerID records the user who
// created it and may be empty for notes seeded out-of-band.
type Note struct {
	ID             string    `bson:"_id" json:"id"`
	OrganizationID string    `bson:"org_id" json:"organization_id"`
	OwnerID        string    `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	Title          string    `bson:"title" json:"title"`
	Content        string    `bson:"content" json:"content"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}
