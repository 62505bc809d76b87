package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/taskkeeper-server/internal/model"
)

// TaskStore implements model.TaskStore.
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]model.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[uuid.UUID]model.Task)}
}

func (s *TaskStore) Create(_ context.Context, task model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; ok {
		return model.Task{}, model.ErrAlreadyExists
	}

	s.tasks[task.ID] = task
	return task, nil
}

func (s *TaskStore) GetByID(_ context.Context, ownerID, id uuid.UUID) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return model.Task{}, model.ErrNotFound
	}
	return task, nil
}

// List returns the owner's tasks oldest first.
func (s *TaskStore) List(_ context.Context, ownerID uuid.UUID, filter model.TaskFilter) ([]model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []model.Task{}
	for _, task := range s.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	return tasks, nil
}

func (s *TaskStore) Update(_ context.Context, task model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tasks[task.ID]
	if !ok || stored.OwnerID != task.OwnerID {
		return model.Task{}, model.ErrNotFound
	}

	task.CreatedAt = stored.CreatedAt
	s.tasks[task.ID] = task
	return task, nil
}

func (s *TaskStore) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return model.ErrNotFound
	}

	delete(s.tasks, id)
	return nil
}
