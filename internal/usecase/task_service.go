package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/St1cky1/task-manager/internal/repository"
	"go.uber.org/zap"
)

// TaskService - единственное место с бизнес-правилами жизненного цикла
// задач. Валидация полей происходит выше (хендлеры), сюда приходят уже
// проверенные данные.
type TaskService struct {
	taskRepo repository.ITaskRepository
	userRepo repository.IUserRepository
	log      *zap.Logger
}

func NewTaskService(taskRepo repository.ITaskRepository, userRepo repository.IUserRepository, log *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		log:      log,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, req *entity.CreateTaskRequest) (*entity.TaskDTO, error) {
	// проверяем что владелец существует
	if err := s.checkOwner(ctx, req.UserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	task := &entity.Task{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
		OwnerID:     req.UserID,
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.log.Info("task created",
		zap.Int("task_id", created.ID),
		zap.Int("owner_id", created.OwnerID),
		zap.String("status", created.Status),
	)

	return s.toDTO(created)
}

func (s *TaskService) GetTaskById(ctx context.Context, id int) (*entity.TaskDTO, error) {
	task, err := s.taskRepo.GetActiveById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}

	return s.toDTO(task)
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]entity.TaskDTO, error) {
	tasks, err := s.taskRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return s.toDTOs(tasks)
}

func (s *TaskService) GetTasksByOwner(ctx context.Context, ownerID int) ([]entity.TaskDTO, error) {
	tasks, err := s.taskRepo.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks of user %d: %w", ownerID, err)
	}
	return s.toDTOs(tasks)
}

func (s *TaskService) GetDeletedTasks(ctx context.Context) ([]entity.TaskDTO, error) {
	tasks, err := s.taskRepo.ListDeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deleted tasks: %w", err)
	}
	return s.toDTOs(tasks)
}

func (s *TaskService) GetDeletedTasksByOwner(ctx context.Context, ownerID int) ([]entity.TaskDTO, error) {
	tasks, err := s.taskRepo.ListDeletedByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list deleted tasks of user %d: %w", ownerID, err)
	}
	return s.toDTOs(tasks)
}

// UpdateTask - загружаем активную запись, заменяем присланные поля,
// обновляем updated_at. Удаленная задача для этого пути не существует:
// lookup идет с активным фильтром, воскрешения нет.
func (s *TaskService) UpdateTask(ctx context.Context, id int, req *entity.UpdateTaskRequest) (*entity.TaskDTO, error) {
	task, err := s.taskRepo.GetActiveById(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task %d for update: %w", id, err)
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}

	if req.Name != nil {
		task.Name = *req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.UserID != nil {
		if err := s.checkOwner(ctx, *req.UserID); err != nil {
			return nil, err
		}
		task.OwnerID = *req.UserID
	}
	task.UpdatedAt = time.Now().UTC()

	updated, err := s.taskRepo.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	if updated == nil {
		// задачу успели удалить между lookup и update
		return nil, entity.ErrTaskNotFound
	}

	s.log.Info("task updated",
		zap.Int("task_id", updated.ID),
		zap.Int("owner_id", updated.OwnerID),
	)

	return s.toDTO(updated)
}

func (s *TaskService) DeleteTask(ctx context.Context, id int) error {
	if err := s.taskRepo.SoftDelete(ctx, id); err != nil {
		if err == entity.ErrTaskNotFound {
			return err
		}
		return fmt.Errorf("delete task %d: %w", id, err)
	}

	s.log.Info("task deleted", zap.Int("task_id", id))
	return nil
}

func (s *TaskService) checkOwner(ctx context.Context, userID int) error {
	user, err := s.userRepo.GetById(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user %d: %w", userID, err)
	}
	if user == nil {
		return entity.ErrUserNotFound
	}
	return nil
}

// toDTO - конвертация с контролем инварианта. Owner == nil на этом
// этапе означает битые данные или баг репозитория, это не 404.
func (s *TaskService) toDTO(task *entity.Task) (*entity.TaskDTO, error) {
	dto, err := task.ToDTO()
	if err != nil {
		s.log.Error("task owner is not resolvable",
			zap.Int("task_id", task.ID),
			zap.Int("owner_id", task.OwnerID),
		)
		return nil, fmt.Errorf("task %d: %w", task.ID, err)
	}
	return dto, nil
}

func (s *TaskService) toDTOs(tasks []entity.Task) ([]entity.TaskDTO, error) {
	dtos := make([]entity.TaskDTO, 0, len(tasks))
	for i := range tasks {
		dto, err := s.toDTO(&tasks[i])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}
