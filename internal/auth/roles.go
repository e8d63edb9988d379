// Package auth - roles.go defines the closed role set, the note actions, and the
// fixed role→action permission table used to gate every note operation.
package auth

import "fmt"

// Role is one of exactly three values. Anything else is rejected at parse time and
// denied at authorization time.
type Role string

const (
	RoleReader Role = "reader"
	RoleWriter Role = "writer"
	RoleAdmin  Role = "admin"
)

// ParseRole converts a raw string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleReader, RoleWriter, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

// Action represents a permission-gated operation on notes.
type Action string

const (
	ActionViewNote   Action = "notes:view"
	ActionCreateNote Action = "notes:create"
	ActionUpdateNote Action = "notes:update"
	ActionDeleteNote Action = "notes:delete"
)

// permissions is the full authorization table. It is the single source of truth:
// there is no scope aggregation and no wildcard — an action is allowed if and only
// if its cell here is true.
var permissions = map[Role]map[Action]bool{
	RoleReader: {
		ActionViewNote: true,
	},
	RoleWriter: {
		ActionViewNote:   true,
		ActionCreateNote: true,
		ActionUpdateNote: true,
	},
	RoleAdmin: {
		ActionViewNote:   true,
		ActionCreateNote: true,
		ActionUpdateNote: true,
		ActionDeleteNote: true,
	},
}

// Can reports whether role may perform action. Unknown roles and unknown actions
// are denied (fail closed). Pure function of its arguments.
func Can(role Role, action Action) bool {
	return permissions[role][action]
}
