package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the closed set of task priorities.
type Priority string

// Allowed priorities. The zero value means "not specified".
const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is empty or one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is the lifecycle state of a task. Only the value assigned at
// creation is ever stored; there is no transition operation.
type Status string

// Allowed statuses.
const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusComplete   Status = "Complete"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusComplete:
		return true
	}
	return false
}

// dateOnlyLayout is accepted for due dates alongside RFC 3339.
const dateOnlyLayout = "2006-01-02"

// Task is a work item owned by the user who created it and assigned to a
// free-text party identified by name and email.
type Task struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Assignee      string     `json:"assignee"`
	AssigneeEmail string     `json:"assigneeEmail"`
	Priority      Priority   `json:"priority,omitempty"`
	Status        Status     `json:"status"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	OwnerID       uuid.UUID  `json:"owner"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// TaskFields holds the client-controlled fields of a task. Owner, ID and
// creation time are deliberately absent.
type TaskFields struct {
	Title         string
	Description   string
	Assignee      string
	AssigneeEmail string
	Priority      string
	Status        string
	DueDate       string
}

// NewTask builds a task owned by ownerID from client fields. Text fields are
// trimmed, the assignee email is lowercased and the status defaults to To Do.
func NewTask(ownerID uuid.UUID, fields TaskFields) (*Task, error) {
	if ownerID == uuid.Nil {
		return nil, NewValidationError("owner", "cannot be empty", ErrInvalidID)
	}

	task := &Task{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(fields.Title),
		Description:   strings.TrimSpace(fields.Description),
		Assignee:      strings.TrimSpace(fields.Assignee),
		AssigneeEmail: NormalizeEmail(fields.AssigneeEmail),
		Priority:      Priority(strings.TrimSpace(fields.Priority)),
		Status:        Status(strings.TrimSpace(fields.Status)),
		OwnerID:       ownerID,
		CreatedAt:     Now(),
	}

	if task.Status == "" {
		task.Status = StatusToDo
	}

	if due := strings.TrimSpace(fields.DueDate); due != "" {
		parsed, err := ParseDueDate(due)
		if err != nil {
			return nil, err
		}
		task.DueDate = &parsed
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the task invariants.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.OwnerID == uuid.Nil {
		return NewValidationError("owner", "cannot be empty", ErrInvalidID)
	}

	var missing []string
	if t.Title == "" {
		missing = append(missing, "title")
	}
	if t.Assignee == "" {
		missing = append(missing, "assignee")
	}
	if t.AssigneeEmail == "" {
		missing = append(missing, "assigneeEmail")
	}
	if len(missing) > 0 {
		return NewMissingFieldsError(missing...)
	}

	if !ValidEmail(t.AssigneeEmail) {
		return NewValidationError("assigneeEmail", "must be a valid email address", ErrInvalidEmail)
	}
	if !t.Priority.Valid() {
		return NewValidationError("priority", "must be one of Low, Medium, High", ErrInvalidPriority)
	}
	if !t.Status.Valid() {
		return NewValidationError(
			"status",
			"must be one of To Do, In Progress, Complete",
			ErrInvalidStatus,
		)
	}

	return nil
}

// ParseDueDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates
// (interpreted as midnight UTC).
func ParseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, NewValidationError("dueDate", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp", ErrInvalidDueDate)
}

// Now returns the current UTC time at millisecond precision, the finest
// resolution every supported store keeps. Timestamps assigned here read back
// unchanged after a round trip.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
