package repository

import (
	"context"

	"github.com/St1cky1/task-manager/internal/entity"
)

// ITaskRepository - интерфейс для TaskRepository.
// Методы Get/List возвращают (nil, nil) если записи нет,
// маппинг в сентинел-ошибки делает usecase-слой.
type ITaskRepository interface {
	Create(ctx context.Context, task *entity.Task) (*entity.Task, error)
	GetActiveById(ctx context.Context, id int) (*entity.Task, error)
	ListActive(ctx context.Context) ([]entity.Task, error)
	ListActiveByOwner(ctx context.Context, ownerID int) ([]entity.Task, error)
	ListDeleted(ctx context.Context) ([]entity.Task, error)
	ListDeletedByOwner(ctx context.Context, ownerID int) ([]entity.Task, error)
	Update(ctx context.Context, task *entity.Task) (*entity.Task, error)
	SoftDelete(ctx context.Context, id int) error
}

// IUserRepository - интерфейс для UserRepository
type IUserRepository interface {
	Create(ctx context.Context, user *entity.CreateUserRequest) (*entity.User, error)
	GetById(ctx context.Context, id int) (*entity.User, error)
}
