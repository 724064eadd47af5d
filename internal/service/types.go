// Package service defines the backend-agnostic task model and remote API contract.
package service

// Status is a task status as stored by the backend.
type Status string

const (
	// StatusPending marks an open task.
	StatusPending Status = "pending"

	// StatusCompleted marks a finished task.
	StatusCompleted Status = "completed"

	// StatusLegacyComplete is an older spelling of StatusCompleted that some
	// backends still return. It is never written back.
	StatusLegacyComplete Status = "complete"
)

// Task represents a single task item.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
}

// Draft is the payload for creating a task. It has no ID; the backend assigns one.
type Draft struct {
	Title       string
	Description string
	Status      Status
}

// Changes is a partial task update. Nil fields are left as they are.
type Changes struct {
	Title       *string
	Description *string
	Status      *Status
}

// IsEmpty reports whether no field is set.
func (c Changes) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Status == nil
}

// Apply returns t with every present field of c copied over it.
func (c Changes) Apply(t Task) Task {
	if c.Title != nil {
		t.Title = *c.Title
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.Status != nil {
		t.Status = *c.Status
	}
	return t
}

// StatusChange is shorthand for a Changes that only sets the status.
func StatusChange(s Status) Changes {
	return Changes{Status: &s}
}
