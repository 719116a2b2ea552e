package model

import "time"

// Division is a named organizational unit owning users and documents.
// It is the unit of staff-level access scoping.
type Division struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// DivisionSummary is a division with its member/document counts, used by
// the administrative listing.
type DivisionSummary struct {
	Division
	UserCount     int `json:"user_count"`
	DocumentCount int `json:"document_count"`
}

// DivisionDetail is the full administrative view of a division: counts,
// member users and a histogram of documents per current-status name.
type DivisionDetail struct {
	DivisionSummary
	Users        []UserSummary  `json:"users"`
	StatusCounts map[string]int `json:"status_counts"`
}
