package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/taskkeeper-server/internal/api/http/respond"
	"github.com/dtroode/taskkeeper-server/internal/api/http/validate"
	apiErrors "github.com/dtroode/taskkeeper-server/internal/apierrors"
	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
)

// TaskService defines business operations for task management.
type TaskService interface {
	CreateTask(ctx context.Context, params model.CreateTaskParams) (model.Task, error)
	GetTasks(ctx context.Context, userID uuid.UUID, filter model.TaskFilter) ([]model.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (model.Task, error)
	UpdateTask(ctx context.Context, params model.UpdateTaskParams) (model.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	User        string    `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type taskEnvelope struct {
	Message string       `json:"message,omitempty"`
	Task    taskResponse `json:"task"`
}

type tasksEnvelope struct {
	Tasks []taskResponse `json:"tasks"`
}

func toTaskResponse(t model.Task) taskResponse {
	return taskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		User:        t.OwnerID.String(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Task handles HTTP endpoints for tasks of the authenticated user.
type Task struct {
	taskService    TaskService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewTask creates a new Task handler.
func NewTask(taskService TaskService, contextManager model.ContextManager, logger *logger.Logger) *Task {
	return &Task{
		taskService:    taskService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Task) userID(r *http.Request) (uuid.UUID, error) {
	identity, ok := h.contextManager.GetIdentityFromContext(r.Context())
	if !ok {
		return uuid.Nil, apiErrors.NewErrMissingAuthorizationToken()
	}

	return identity.ID, nil
}

func (h *Task) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	req, err := request[CreateTaskBody, validate.None, validate.None](r)
	if err != nil {
		handleError(w, h.logger, "Task handler: create task failed", err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), model.CreateTaskParams{
		OwnerID:     userID,
		Title:       req.Body.Title,
		Description: req.Body.Description,
	})
	if err != nil {
		handleError(w, h.logger, "Task handler: create task failed", err,
			"user_id", userID)
		return
	}

	h.logger.Info("Task handler: task created",
		"user_id", userID,
		"task_id", task.ID)

	respond.JSON(w, http.StatusCreated, taskEnvelope{
		Message: "Task created successfully",
		Task:    toTaskResponse(task),
	})
}

// GetTasks lists the caller's tasks, optionally filtered by ?completed=.
func (h *Task) GetTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	req, err := request[validate.None, validate.None, ListTasksQuery](r)
	if err != nil {
		handleError(w, h.logger, "Task handler: list tasks failed", err)
		return
	}

	var filter model.TaskFilter
	if req.Query.Completed != "" {
		completed := req.Query.Completed == "true"
		filter.Completed = &completed
	}

	tasks, err := h.taskService.GetTasks(r.Context(), userID, filter)
	if err != nil {
		handleError(w, h.logger, "Task handler: list tasks failed", err,
			"user_id", userID)
		return
	}

	resp := tasksEnvelope{Tasks: make([]taskResponse, 0, len(tasks))}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(t))
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Task) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	req, err := request[validate.None, TaskParams, validate.None](r)
	if err != nil {
		handleError(w, h.logger, "Task handler: get task failed", err)
		return
	}
	taskID, err := parseTaskID(req.Params.ID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		handleError(w, h.logger, "Task handler: get task failed", err,
			"user_id", userID,
			"task_id", taskID)
		return
	}

	respond.JSON(w, http.StatusOK, taskEnvelope{Task: toTaskResponse(task)})
}

func (h *Task) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	req, err := request[UpdateTaskBody, TaskParams, validate.None](r)
	if err != nil {
		handleError(w, h.logger, "Task handler: update task failed", err)
		return
	}
	taskID, err := parseTaskID(req.Params.ID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), model.UpdateTaskParams{
		OwnerID:     userID,
		ID:          taskID,
		Title:       &req.Body.Title,
		Description: &req.Body.Description,
		Completed:   req.Body.Completed,
	})
	if err != nil {
		handleError(w, h.logger, "Task handler: update task failed", err,
			"user_id", userID,
			"task_id", taskID)
		return
	}

	respond.JSON(w, http.StatusOK, taskEnvelope{
		Message: "Task updated successfully",
		Task:    toTaskResponse(task),
	})
}

func (h *Task) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	req, err := request[validate.None, TaskParams, validate.None](r)
	if err != nil {
		handleError(w, h.logger, "Task handler: delete task failed", err)
		return
	}
	taskID, err := parseTaskID(req.Params.ID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		handleError(w, h.logger, "Task handler: delete task failed", err,
			"user_id", userID,
			"task_id", taskID)
		return
	}

	respond.Message(w, http.StatusOK, "Task deleted successfully")
}
