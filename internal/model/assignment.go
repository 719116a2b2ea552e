package model

import (
	"math"
	"time"
)

// Assignment is a work item tying a document to an assignee with an
// optional due date, independent of the document's status timeline.
// Created OPEN; transitions to DONE via an explicit update.
type Assignment struct {
	ID           string           `json:"id"`
	DocumentID   string           `json:"document_id"`
	AssigneeID   string           `json:"assignee_id"`
	AssignedByID string           `json:"assigned_by_id"`
	DueDate      *time.Time       `json:"due_date"`
	Note         *string          `json:"note"`
	Status       AssignmentStatus `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Overdue reports whether the assignment is open with a due date
// strictly in the past. A due date equal to now is not overdue.
func (a *Assignment) Overdue(now time.Time) bool {
	return a.Status == AssignmentOpen && a.DueDate != nil && a.DueDate.Before(now)
}

// DaysOverdue returns ceil((now - dueDate) / 1 day), or 0 when the
// assignment has no due date.
func (a *Assignment) DaysOverdue(now time.Time) int {
	if a.DueDate == nil {
		return 0
	}
	return int(math.Ceil(now.Sub(*a.DueDate).Hours() / 24))
}

// AssignmentWithUsers pairs an assignment with assignee/assigner
// identity summaries for the document detail view.
type AssignmentWithUsers struct {
	Assignment
	Assignee   UserSummary `json:"assignee"`
	AssignedBy UserSummary `json:"assigned_by"`
}

// AssignmentOverview is the administrative oversight projection with the
// owning document's division and current status.
type AssignmentOverview struct {
	AssignmentWithUsers
	LetterNo          string  `json:"letter_no"`
	DivisionName      string  `json:"division_name"`
	CurrentStatusName *string `json:"current_status_name"`
}

// AssignmentBucket is the computed oversight filter.
type AssignmentBucket string

const (
	BucketAll     AssignmentBucket = "ALL"
	BucketOpen    AssignmentBucket = "OPEN"
	BucketOverdue AssignmentBucket = "OVERDUE"
	BucketDone    AssignmentBucket = "DONE"
)
