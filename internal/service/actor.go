package service

import "ministrydocs/internal/model"

// Actor is the authenticated principal a request acts as, extracted from
// the verified token by the HTTP layer.
type Actor struct {
	ID         string
	Role       model.Role
	DivisionID *string
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// CanAccessDivision reports whether the actor may read documents of the
// given division. Admins see everything; staff only their own division.
func (a Actor) CanAccessDivision(divisionID string) bool {
	if a.IsAdmin() {
		return true
	}
	return a.DivisionID != nil && *a.DivisionID == divisionID
}

// ref returns a pointer to the actor's ID for audit records.
func (a Actor) ref() *string {
	id := a.ID
	return &id
}
