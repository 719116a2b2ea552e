package model

// Package model contains the domain entities of the document management
// system. These are pure structs with no database-specific dependencies
// or tags, usable across layers (HTTP, service, storage).

// Role is the access level of a user.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

const (
	AssignmentOpen AssignmentStatus = "OPEN"
	AssignmentDone AssignmentStatus = "DONE"
)

// Valid reports whether s is a known assignment status.
func (s AssignmentStatus) Valid() bool {
	return s == AssignmentOpen || s == AssignmentDone
}
