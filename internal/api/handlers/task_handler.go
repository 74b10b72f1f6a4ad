package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ITaskService - интерфейс сервиса задач для хендлеров
type ITaskService interface {
	CreateTask(ctx context.Context, req *entity.CreateTaskRequest) (*entity.TaskDTO, error)
	GetTaskById(ctx context.Context, id int) (*entity.TaskDTO, error)
	GetAllTasks(ctx context.Context) ([]entity.TaskDTO, error)
	GetTasksByOwner(ctx context.Context, ownerID int) ([]entity.TaskDTO, error)
	GetDeletedTasks(ctx context.Context) ([]entity.TaskDTO, error)
	GetDeletedTasksByOwner(ctx context.Context, ownerID int) ([]entity.TaskDTO, error)
	UpdateTask(ctx context.Context, id int, req *entity.UpdateTaskRequest) (*entity.TaskDTO, error)
	DeleteTask(ctx context.Context, id int) error
}

type TaskHandler struct {
	taskService ITaskService
	validate    *validator.Validate
	log         *zap.Logger
}

func NewTaskHandler(taskService ITaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validate:    validator.New(),
		log:         log,
	}
}

// создаем новую задачу
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), &req)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			respondMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTaskById(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTaskById(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrTaskNotFound) {
			respondMessage(w, http.StatusNotFound, "Task not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.GetAllTasks(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTasksByUserId(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "userId")
	if !ok {
		return
	}

	tasks, err := h.taskService.GetTasksByOwner(r.Context(), userID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetDeletedTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.GetDeletedTasks(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetDeletedTasksByUserId(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathID(w, r, "userId")
	if !ok {
		return
	}

	tasks, err := h.taskService.GetDeletedTasksByOwner(r.Context(), userID)
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req entity.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, entity.ErrTaskNotFound) {
			respondMessage(w, http.StatusNotFound, "Task not found")
			return
		}
		if errors.Is(err, entity.ErrUserNotFound) {
			respondMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrTaskNotFound) {
			respondMessage(w, http.StatusNotFound, "Task not found")
			return
		}
		h.internalError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "Task deleted")
}

func (h *TaskHandler) pathID(w http.ResponseWriter, r *http.Request, param string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id <= 0 {
		respondMessage(w, http.StatusBadRequest, "Invalid "+param)
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondMessage(w, http.StatusInternalServerError, "Internal server error")
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}
