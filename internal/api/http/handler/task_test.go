package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskkeeper-server/internal/api/http/respond"
	"github.com/dtroode/taskkeeper-server/internal/api/http/validate"
	apiErrors "github.com/dtroode/taskkeeper-server/internal/apierrors"
	"github.com/dtroode/taskkeeper-server/internal/mocks"
	"github.com/dtroode/taskkeeper-server/internal/model"
	"github.com/dtroode/taskkeeper-server/internal/testutil"
)

func newTaskHandler(t *testing.T, userID uuid.UUID) (*Task, *mocks.TaskService) {
	t.Helper()

	svc := mocks.NewTaskService(t)
	cm := mocks.NewContextManager(t)
	cm.On("GetIdentityFromContext", mock.Anything).Return(model.Identity{ID: userID}, true).Maybe()

	return NewTask(svc, cm, testutil.MakeNoopLogger()), svc
}

func sampleTask(owner uuid.UUID) model.Task {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return model.Task{
		ID:          uuid.New(),
		OwnerID:     owner,
		Title:       "Buy milk",
		Description: "2L",
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func TestTask_CreateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	h, svc := newTaskHandler(t, userID)
	task := sampleTask(userID)

	svc.On("CreateTask", mock.Anything, model.CreateTaskParams{OwnerID: userID, Title: "Buy milk", Description: "2L"}).
		Return(task, nil)

	route := mount(http.MethodPost, "/tasks", validate.Middleware[CreateTaskBody, validate.None, validate.None], h.CreateTask)
	rec := do(t, route, http.MethodPost, "/tasks", `{"title":"Buy milk","description":"2L"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode[taskEnvelope](t, rec)
	assert.Equal(t, "Task created successfully", body.Message)
	assert.Equal(t, task.ID.String(), body.Task.ID)
	assert.Equal(t, userID.String(), body.Task.User)
	assert.False(t, body.Task.Completed)
}

func TestTask_CreateTask_StoreError(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	h, svc := newTaskHandler(t, userID)

	svc.On("CreateTask", mock.Anything, mock.Anything).Return(model.Task{}, assert.AnError)

	route := mount(http.MethodPost, "/tasks", validate.Middleware[CreateTaskBody, validate.None, validate.None], h.CreateTask)
	rec := do(t, route, http.MethodPost, "/tasks", `{"title":"a","description":"b"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode[respond.ErrorBody](t, rec)
	assert.Equal(t, "Server error", body.Message)
	assert.Equal(t, assert.AnError.Error(), body.Error)
}

func TestTask_GetTasks(t *testing.T) {
	t.Parallel()

	done, open := true, false

	tests := []struct {
		name       string
		target     string
		filter     model.TaskFilter
		stored     []model.Task
		wantStatus int
		wantLen    int
	}{
		{name: "empty", target: "/tasks", stored: []model.Task{}, wantStatus: http.StatusOK},
		{name: "completed filter", target: "/tasks?completed=true", filter: model.TaskFilter{Completed: &done}, stored: []model.Task{{}}, wantStatus: http.StatusOK, wantLen: 1},
		{name: "open filter", target: "/tasks?completed=false", filter: model.TaskFilter{Completed: &open}, stored: []model.Task{{}, {}}, wantStatus: http.StatusOK, wantLen: 2},
		{name: "bad filter", target: "/tasks?completed=yes", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userID := uuid.New()
			h, svc := newTaskHandler(t, userID)
			if tt.wantStatus == http.StatusOK {
				svc.On("GetTasks", mock.Anything, userID, tt.filter).Return(tt.stored, nil)
			}

			route := mount(http.MethodGet, "/tasks", validate.Middleware[validate.None, validate.None, ListTasksQuery], h.GetTasks)
			rec := do(t, route, http.MethodGet, tt.target, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.NotContains(t, rec.Body.String(), "null")
			body := decode[tasksEnvelope](t, rec)
			assert.Len(t, body.Tasks, tt.wantLen)
		})
	}
}

func TestTask_GetTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		id          string
		svcErr      error
		callsSvc    bool
		wantStatus  int
		wantMessage string
	}{
		{name: "found", id: uuid.NewString(), callsSvc: true, wantStatus: http.StatusOK},
		{name: "not found", id: uuid.NewString(), callsSvc: true, svcErr: apiErrors.NewErrTaskNotFound("x"), wantStatus: http.StatusNotFound, wantMessage: "Task not found"},
		{name: "invalid id", id: "not-a-uuid", wantStatus: http.StatusBadRequest, wantMessage: "Validation error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userID := uuid.New()
			h, svc := newTaskHandler(t, userID)
			if tt.callsSvc {
				task := sampleTask(userID)
				task.ID = uuid.MustParse(tt.id)
				svc.On("GetTask", mock.Anything, userID, task.ID).Return(task, tt.svcErr)
			}

			route := mount(http.MethodGet, "/tasks/{id}", validate.Middleware[validate.None, TaskParams, validate.None], h.GetTask)
			rec := do(t, route, http.MethodGet, "/tasks/"+tt.id, "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				body := decode[taskEnvelope](t, rec)
				assert.Equal(t, tt.id, body.Task.ID)
				assert.Empty(t, body.Message)
				return
			}
			body := decode[respond.ErrorBody](t, rec)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestTask_UpdateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	h, svc := newTaskHandler(t, userID)
	task := sampleTask(userID)
	task.Completed = true

	svc.On("UpdateTask", mock.Anything, mock.MatchedBy(func(p model.UpdateTaskParams) bool {
		return p.OwnerID == userID &&
			p.ID == task.ID &&
			p.Title != nil && *p.Title == "Buy milk" &&
			p.Description != nil && *p.Description == "2L" &&
			p.Completed != nil && *p.Completed
	})).Return(task, nil)

	route := mount(http.MethodPut, "/tasks/{id}", validate.Middleware[UpdateTaskBody, TaskParams, validate.None], h.UpdateTask)
	rec := do(t, route, http.MethodPut, "/tasks/"+task.ID.String(), `{"title":"Buy milk","description":"2L","completed":true}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[taskEnvelope](t, rec)
	assert.Equal(t, "Task updated successfully", body.Message)
	assert.True(t, body.Task.Completed)
}

func TestTask_UpdateTask_RequiresTitle(t *testing.T) {
	t.Parallel()

	h, _ := newTaskHandler(t, uuid.New())

	route := mount(http.MethodPut, "/tasks/{id}", validate.Middleware[UpdateTaskBody, TaskParams, validate.None], h.UpdateTask)
	rec := do(t, route, http.MethodPut, "/tasks/"+uuid.NewString(), `{"title":"","description":"x"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[respond.ErrorBody](t, rec)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "body.title", body.Errors[0].Field)
}

func TestTask_DeleteTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		svcErr      error
		wantStatus  int
		wantMessage string
	}{
		{name: "deleted", wantStatus: http.StatusOK, wantMessage: "Task deleted successfully"},
		{name: "not found", svcErr: apiErrors.NewErrTaskNotFound("x"), wantStatus: http.StatusNotFound, wantMessage: "Task not found"},
		{name: "store failure", svcErr: assert.AnError, wantStatus: http.StatusInternalServerError, wantMessage: "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			userID, taskID := uuid.New(), uuid.New()
			h, svc := newTaskHandler(t, userID)
			svc.On("DeleteTask", mock.Anything, userID, taskID).Return(tt.svcErr)

			route := mount(http.MethodDelete, "/tasks/{id}", validate.Middleware[validate.None, TaskParams, validate.None], h.DeleteTask)
			rec := do(t, route, http.MethodDelete, "/tasks/"+taskID.String(), "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode[respond.ErrorBody](t, rec)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestTask_MissingIdentity(t *testing.T) {
	t.Parallel()

	svc := mocks.NewTaskService(t)
	cm := mocks.NewContextManager(t)
	cm.On("GetIdentityFromContext", mock.Anything).Return(model.Identity{}, false)

	h := NewTask(svc, cm, testutil.MakeNoopLogger())

	route := mount(http.MethodGet, "/tasks", validate.Middleware[validate.None, validate.None, ListTasksQuery], h.GetTasks)
	rec := do(t, route, http.MethodGet, "/tasks", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
