// Package models - user.go defines the User document. A user belongs to exactly one
// organization for its lifetime; the organization id is assigned at creation and
// never reassigned. Email uniqueness is enforced per organization (compound unique
// index on {org_id, email}), not globally.
package models

import "time"

// User represents an account within an organization.
//
// PasswordHash holds a bcrypt hash and is never serialized to JSON. Role is one of
// the closed set defined in internal/auth (reader, writer, admin) and is stored as
// its string form.
type User struct {
	ID             string    `bson:"_id" json:"id"`
	OrganizationID string    `bson:"org_id" json:"organization_id"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"password_hash" json:"-"`
	Role           string    `bson:"role" json:"role"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}
