package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// TaskHandler handles the owner-scoped task endpoints.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.taskService.Create(r.Context(), userID, service.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Assignee:      req.Assignee,
		AssigneeEmail: req.AssigneeEmail,
		Priority:      req.Priority,
		Status:        req.Status,
		DueDate:       req.DueDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created", slog.String("task_id", result.Task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, CreateTaskResponse{
		Message:   "Task created successfully",
		Task:      taskToResponse(result.Task),
		EmailSent: result.EmailSent,
	})
}

// ListTasks handles GET /api/tasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	tasks, err := h.taskService.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// DeleteTask handles DELETE /api/tasks/{id}. A malformed ID is reported
// like any other task the caller does not own.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		log.Debug("invalid task id", slog.String("error", err.Error()))
		HandleAPIError(w, r, store.ErrTaskNotFound, "")
		return
	}

	if _, err := h.taskService.Delete(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	log.Debug("task deleted", slog.String("task_id", taskID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Task deleted successfully"})
}
