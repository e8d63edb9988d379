// Package repositories implements the tenant-scoped data access layer for the note
// backend. Each repository type encapsulates all document-store queries for one
// entity. Handlers never touch collections directly — all access goes through this
// layer, and every query on tenant-owned data carries an org_id equality filter.
// That filter is the tenancy isolation boundary: a caller cannot reach another
// organization's documents by supplying a foreign id, because the id is only ever
// matched together with the caller's own org_id. A document that exists under a
// different organization is reported as ErrNotFound, never as a permission error,
// so cross-tenant probes cannot learn whether an id exists.
package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	// ErrNotFound is returned when an entity is absent — or belongs to a different
	// organization, which must be indistinguishable from absence.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when a user registration collides with an
	// existing email inside the same organization.
	ErrDuplicateEmail = errors.New("email already registered in organization")
)

// tenantFilter builds the filter used by every by-id lookup on tenant-owned
// collections: id AND org_id must both match. Kept as a helper so the invariant is
// testable in isolation.
func tenantFilter(orgID, id string) bson.M {
	return bson.M{"_id": id, "org_id": orgID}
}
