package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// SignupRequest defines the payload for the signup endpoint. Presence and
// email shape are checked by the domain so that every missing field is
// reported at once; the tags only cap addresses at the 254-byte SMTP limit.
type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"max=254"`
	Password  string `json:"password"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"max=254"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user. The password hash is never
// part of it.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse defines the successful response for signup and login.
type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	// Token is the bearer token for subsequent requests
	Token string `json:"token"`
}

// CreateTaskRequest defines the payload for creating a task. Any owner sent
// by the client is ignored because the struct has no such field.
type CreateTaskRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Assignee      string `json:"assignee"`
	AssigneeEmail string `json:"assigneeEmail" validate:"max=254"`
	Priority      string `json:"priority"`
	Status        string `json:"status"`
	DueDate       string `json:"dueDate"`
}

// TaskResponse is the API representation of a task.
type TaskResponse struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Assignee      string     `json:"assignee"`
	AssigneeEmail string     `json:"assigneeEmail"`
	Priority      string     `json:"priority,omitempty"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	Owner         uuid.UUID  `json:"owner"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// CreateTaskResponse is returned by POST /api/tasks.
type CreateTaskResponse struct {
	Message   string       `json:"message"`
	Task      TaskResponse `json:"task"`
	EmailSent bool         `json:"emailSent"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Assignee:      t.Assignee,
		AssigneeEmail: t.AssigneeEmail,
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		DueDate:       t.DueDate,
		Owner:         t.OwnerID,
		CreatedAt:     t.CreatedAt,
	}
}

func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskToResponse(t))
	}
	return out
}
