package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/St1cky1/task-manager/internal/api/handlers"
	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockTaskService - мок для handlers.ITaskService
type mockTaskService struct {
	CreateTaskFunc             func(ctx context.Context, req *entity.CreateTaskRequest) (*entity.TaskDTO, error)
	GetTaskByIdFunc            func(ctx context.Context, id int) (*entity.TaskDTO, error)
	GetAllTasksFunc            func(ctx context.Context) ([]entity.TaskDTO, error)
	GetTasksByOwnerFunc        func(ctx context.Context, ownerID int) ([]entity.TaskDTO, error)
	GetDeletedTasksFunc        func(ctx context.Context) ([]entity.TaskDTO, error)
	GetDeletedTasksByOwnerFunc func(ctx context.Context, ownerID int) ([]entity.TaskDTO, error)
	UpdateTaskFunc             func(ctx context.Context, id int, req *entity.UpdateTaskRequest) (*entity.TaskDTO, error)
	DeleteTaskFunc             func(ctx context.Context, id int) error
}

var _ handlers.ITaskService = (*mockTaskService)(nil)

func (m *mockTaskService) CreateTask(ctx context.Context, req *entity.CreateTaskRequest) (*entity.TaskDTO, error) {
	if m.CreateTaskFunc != nil {
		return m.CreateTaskFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockTaskService) GetTaskById(ctx context.Context, id int) (*entity.TaskDTO, error) {
	if m.GetTaskByIdFunc != nil {
		return m.GetTaskByIdFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTaskService) GetAllTasks(ctx context.Context) ([]entity.TaskDTO, error) {
	if m.GetAllTasksFunc != nil {
		return m.GetAllTasksFunc(ctx)
	}
	return nil, nil
}

func (m *mockTaskService) GetTasksByOwner(ctx context.Context, ownerID int) ([]entity.TaskDTO, error) {
	if m.GetTasksByOwnerFunc != nil {
		return m.GetTasksByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTaskService) GetDeletedTasks(ctx context.Context) ([]entity.TaskDTO, error) {
	if m.GetDeletedTasksFunc != nil {
		return m.GetDeletedTasksFunc(ctx)
	}
	return nil, nil
}

func (m *mockTaskService) GetDeletedTasksByOwner(ctx context.Context, ownerID int) ([]entity.TaskDTO, error) {
	if m.GetDeletedTasksByOwnerFunc != nil {
		return m.GetDeletedTasksByOwnerFunc(ctx, ownerID)
	}
	return nil, nil
}

func (m *mockTaskService) UpdateTask(ctx context.Context, id int, req *entity.UpdateTaskRequest) (*entity.TaskDTO, error) {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, id, req)
	}
	return nil, nil
}

func (m *mockTaskService) DeleteTask(ctx context.Context, id int) error {
	if m.DeleteTaskFunc != nil {
		return m.DeleteTaskFunc(ctx, id)
	}
	return nil
}

// mockHealth - мок для handlers.IHealthChecker
type mockHealth struct {
	err error
}

func (m *mockHealth) HealthCheck(ctx context.Context) error {
	return m.err
}

func doRequest(t *testing.T, svc handlers.ITaskService, method, path string, body interface{}, withToken bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if withToken {
		req.Header.Set("Authorization", "Bearer whatever")
	}

	rec := httptest.NewRecorder()
	NewRouter(svc, &mockHealth{}, zap.NewNop(), 5*time.Second).ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["message"]
}

func TestHealthWithoutToken(t *testing.T) {
	// health открыт для проб оркестратора, токен не нужен
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	NewRouter(&mockTaskService{}, &mockHealth{}, zap.NewNop(), 5*time.Second).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", decodeMessage(t, rec))
}

func TestHealthDatabaseDown(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	health := &mockHealth{err: errors.New("connection refused")}
	NewRouter(&mockTaskService{}, health, zap.NewNop(), 5*time.Second).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Database is unavailable", decodeMessage(t, rec))
}

func TestMissingAuthorizationHeader(t *testing.T) {
	rec := doRequest(t, &mockTaskService{}, http.MethodGet, "/tasks", nil, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token is required", decodeMessage(t, rec))
}

func TestAnyNonEmptyTokenPasses(t *testing.T) {
	svc := &mockTaskService{
		GetAllTasksFunc: func(ctx context.Context) ([]entity.TaskDTO, error) {
			return []entity.TaskDTO{}, nil
		},
	}

	// значение заголовка не проверяется, важно только его наличие
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "not-even-a-token")
	rec := httptest.NewRecorder()
	NewRouter(svc, &mockHealth{}, zap.NewNop(), 5*time.Second).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCreateTask(t *testing.T) {
	now := time.Now().UTC()
	svc := &mockTaskService{
		CreateTaskFunc: func(ctx context.Context, req *entity.CreateTaskRequest) (*entity.TaskDTO, error) {
			return &entity.TaskDTO{
				ID:          1,
				Name:        req.Name,
				Description: req.Description,
				Status:      req.Status,
				CreatedAt:   now,
				UpdatedAt:   now,
				UserID:      req.UserID,
			}, nil
		},
	}

	rec := doRequest(t, svc, http.MethodPost, "/tasks", map[string]interface{}{
		"name":        "Write spec",
		"description": "draft",
		"status":      "pending",
		"userId":      7,
	}, true)

	require.Equal(t, http.StatusCreated, rec.Code)

	var dto entity.TaskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, 1, dto.ID)
	assert.Equal(t, "Write spec", dto.Name)
	assert.Equal(t, "draft", dto.Description)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, 7, dto.UserID)
	assert.Nil(t, dto.DeletedAt)
}

func TestCreateTaskValidation(t *testing.T) {
	svc := &mockTaskService{
		CreateTaskFunc: func(ctx context.Context, req *entity.CreateTaskRequest) (*entity.TaskDTO, error) {
			t.Fatal("service must not be reached on invalid payload")
			return nil, nil
		},
	}

	cases := []struct {
		name    string
		payload map[string]interface{}
		message string
	}{
		{
			name:    "empty name",
			payload: map[string]interface{}{"name": "", "description": "d", "status": "s", "userId": 1},
			message: "Name is required",
		},
		{
			name:    "missing description",
			payload: map[string]interface{}{"name": "n", "status": "s", "userId": 1},
			message: "Description is required",
		},
		{
			name:    "empty status",
			payload: map[string]interface{}{"name": "n", "description": "d", "status": "", "userId": 1},
			message: "Status is required",
		},
		{
			name:    "non-positive userId",
			payload: map[string]interface{}{"name": "n", "description": "d", "status": "s", "userId": 0},
			message: "User ID must be a positive integer",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, svc, http.MethodPost, "/tasks", tc.payload, true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, decodeMessage(t, rec))
		})
	}
}

func TestCreateTaskUnknownOwner(t *testing.T) {
	svc := &mockTaskService{
		CreateTaskFunc: func(ctx context.Context, req *entity.CreateTaskRequest) (*entity.TaskDTO, error) {
			return nil, entity.ErrUserNotFound
		},
	}

	rec := doRequest(t, svc, http.MethodPost, "/tasks", map[string]interface{}{
		"name":        "n",
		"description": "d",
		"status":      "s",
		"userId":      999,
	}, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
}

func TestGetTaskByIdNotFound(t *testing.T) {
	svc := &mockTaskService{
		GetTaskByIdFunc: func(ctx context.Context, id int) (*entity.TaskDTO, error) {
			return nil, entity.ErrTaskNotFound
		},
	}

	rec := doRequest(t, svc, http.MethodGet, "/tasks/999", nil, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Task not found"}`, rec.Body.String())
}

func TestGetTaskByIdInvalidId(t *testing.T) {
	rec := doRequest(t, &mockTaskService{}, http.MethodGet, "/tasks/abc", nil, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletedRouteIsNotParsedAsId(t *testing.T) {
	called := false
	svc := &mockTaskService{
		GetDeletedTasksFunc: func(ctx context.Context) ([]entity.TaskDTO, error) {
			called = true
			return []entity.TaskDTO{}, nil
		},
	}

	rec := doRequest(t, svc, http.MethodGet, "/tasks/deleted", nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called, "GET /tasks/deleted must hit the deleted handler")
}

func TestGetTasksByUser(t *testing.T) {
	svc := &mockTaskService{
		GetTasksByOwnerFunc: func(ctx context.Context, ownerID int) ([]entity.TaskDTO, error) {
			assert.Equal(t, 3, ownerID)
			return []entity.TaskDTO{{ID: 1, UserID: 3}}, nil
		},
	}

	rec := doRequest(t, svc, http.MethodGet, "/tasks/user/3", nil, true)

	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []entity.TaskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, 3, tasks[0].UserID)
}

func TestGetDeletedTasksByUser(t *testing.T) {
	svc := &mockTaskService{
		GetDeletedTasksByOwnerFunc: func(ctx context.Context, ownerID int) ([]entity.TaskDTO, error) {
			assert.Equal(t, 4, ownerID)
			return []entity.TaskDTO{}, nil
		},
	}

	rec := doRequest(t, svc, http.MethodGet, "/tasks/deleted/user/4", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateTaskNotFound(t *testing.T) {
	svc := &mockTaskService{
		UpdateTaskFunc: func(ctx context.Context, id int, req *entity.UpdateTaskRequest) (*entity.TaskDTO, error) {
			return nil, entity.ErrTaskNotFound
		},
	}

	rec := doRequest(t, svc, http.MethodPut, "/tasks/5", map[string]interface{}{
		"name": "new name",
	}, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Task not found"}`, rec.Body.String())
}

func TestUpdateTaskPartialPayload(t *testing.T) {
	svc := &mockTaskService{
		UpdateTaskFunc: func(ctx context.Context, id int, req *entity.UpdateTaskRequest) (*entity.TaskDTO, error) {
			require.NotNil(t, req.Status)
			assert.Equal(t, "completed", *req.Status)
			assert.Nil(t, req.Name)
			assert.Nil(t, req.Description)
			assert.Nil(t, req.UserID)
			return &entity.TaskDTO{ID: id, Status: *req.Status, UserID: 1}, nil
		},
	}

	rec := doRequest(t, svc, http.MethodPut, "/tasks/5", map[string]interface{}{
		"status": "completed",
	}, true)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateTaskValidation(t *testing.T) {
	rec := doRequest(t, &mockTaskService{}, http.MethodPut, "/tasks/5", map[string]interface{}{
		"userId": -1,
	}, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User ID must be a positive integer", decodeMessage(t, rec))
}

func TestDeleteTask(t *testing.T) {
	svc := &mockTaskService{
		DeleteTaskFunc: func(ctx context.Context, id int) error {
			assert.Equal(t, 5, id)
			return nil
		},
	}

	rec := doRequest(t, svc, http.MethodDelete, "/tasks/5", nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Task deleted"}`, rec.Body.String())
}

func TestDeleteTaskNotFound(t *testing.T) {
	svc := &mockTaskService{
		DeleteTaskFunc: func(ctx context.Context, id int) error {
			return entity.ErrTaskNotFound
		},
	}

	rec := doRequest(t, svc, http.MethodDelete, "/tasks/999", nil, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Task not found"}`, rec.Body.String())
}

func TestInternalErrorIsGeneric(t *testing.T) {
	svc := &mockTaskService{
		GetTaskByIdFunc: func(ctx context.Context, id int) (*entity.TaskDTO, error) {
			return nil, context.DeadlineExceeded
		},
	}

	rec := doRequest(t, svc, http.MethodGet, "/tasks/1", nil, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeMessage(t, rec))
}
