package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apiErrors "github.com/dtroode/taskkeeper-server/internal/apierrors"
	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
)

type Task struct {
	taskStore model.TaskStore
	logger    *logger.Logger
	now       func() time.Time
}

func NewTask(taskStore model.TaskStore, logger *logger.Logger) *Task {
	return &Task{
		taskStore: taskStore,
		logger:    logger,
		now:       time.Now,
	}
}

// timestamp returns now at millisecond precision, the finest every store
// keeps, so a created task reads back unchanged.
func (s *Task) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Task) CreateTask(ctx context.Context, params model.CreateTaskParams) (model.Task, error) {
	now := s.timestamp()
	task := model.Task{
		ID:          uuid.New(),
		OwnerID:     params.OwnerID,
		Title:       params.Title,
		Description: params.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	saved, err := s.taskStore.Create(ctx, task)
	if err != nil {
		s.logger.Error("Task service: failed to create task",
			"user_id", params.OwnerID,
			"error", err.Error())
		return model.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return saved, nil
}

func (s *Task) GetTasks(ctx context.Context, userID uuid.UUID, filter model.TaskFilter) ([]model.Task, error) {
	tasks, err := s.taskStore.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks by user id: %w", err)
	}

	if tasks == nil {
		tasks = []model.Task{}
	}

	return tasks, nil
}

func (s *Task) GetTask(ctx context.Context, userID, taskID uuid.UUID) (model.Task, error) {
	task, err := s.taskStore.GetByID(ctx, userID, taskID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Task{}, apiErrors.NewErrTaskNotFound(taskID.String())
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to get task by id: %w", err)
	}

	return task, nil
}

// UpdateTask applies the non-nil fields of params to the caller's task.
func (s *Task) UpdateTask(ctx context.Context, params model.UpdateTaskParams) (model.Task, error) {
	task, err := s.GetTask(ctx, params.OwnerID, params.ID)
	if err != nil {
		return model.Task{}, err
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Completed != nil {
		task.Completed = *params.Completed
	}
	task.UpdatedAt = s.timestamp()

	updated, err := s.taskStore.Update(ctx, task)
	if errors.Is(err, model.ErrNotFound) {
		return model.Task{}, apiErrors.NewErrTaskNotFound(params.ID.String())
	}
	if err != nil {
		s.logger.Error("Task service: failed to update task",
			"user_id", params.OwnerID,
			"task_id", params.ID,
			"error", err.Error())
		return model.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return updated, nil
}

func (s *Task) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	err := s.taskStore.Delete(ctx, userID, taskID)
	if errors.Is(err, model.ErrNotFound) {
		return apiErrors.NewErrTaskNotFound(taskID.String())
	}
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Info("Task service: task deleted",
		"user_id", userID,
		"task_id", taskID)

	return nil
}
