// Package models - organization.go defines the Organization document representing a tenant
// boundary: every user and note in the system belongs to exactly one organization.
package models

import "time"

// Organization represents a tenant. It is created once and immutable thereafter.
type Organization struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
