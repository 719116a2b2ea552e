package model

import "time"

// User is an application account. PasswordHash is opaque to every layer
// except the password hasher and is never serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	DivisionID   *string   `json:"division_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserSummary is the identity projection nested inside documents,
// assignments and audit entries.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Summary projects a user to its nested identity form.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserWithDivision is a user joined with its division for listings.
type UserWithDivision struct {
	User
	Division *Division `json:"division"`
}

// UserPatch is a partial administrative update. Nil fields are left
// untouched. PasswordHash is set when a password reset was requested.
type UserPatch struct {
	PasswordHash *string
	DivisionID   *string
	ClearDiv     bool
	IsActive     *bool
}

// Changed returns the names of the fields the patch will modify, for
// audit metadata.
func (p UserPatch) Changed() []string {
	var fields []string
	if p.PasswordHash != nil {
		fields = append(fields, "passwordHash")
	}
	if p.DivisionID != nil || p.ClearDiv {
		fields = append(fields, "divisionId")
	}
	if p.IsActive != nil {
		fields = append(fields, "isActive")
	}
	return fields
}
