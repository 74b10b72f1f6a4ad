package entity

import "time"

// Task - запись в таблице task. Owner подтягивается репозиторием
// через JOIN на users; DeletedAt == nil означает активную задачу.
type Task struct {
	ID          int
	Name        string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
	OwnerID     int
	Owner       *User
}

// Deleted сообщает, помечена ли задача как удаленная.
func (t *Task) Deleted() bool {
	return t.DeletedAt != nil
}

// TaskDTO - внешнее представление задачи (тело ответов API).
type TaskDTO struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
	UserID      int        `json:"userId"`
}

// ToDTO конвертирует запись во внешнее представление. Owner обязан
// быть подтянут из БД: его отсутствие - нарушение инварианта данных,
// а не обычный "not found".
func (t *Task) ToDTO() (*TaskDTO, error) {
	if t.Owner == nil {
		return nil, ErrOwnerNotResolved
	}

	return &TaskDTO{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DeletedAt:   t.DeletedAt,
		UserID:      t.Owner.ID,
	}, nil
}

// валидация
type CreateTaskRequest struct {
	Name        string `json:"name" validate:"required,min=1"`
	Description string `json:"description" validate:"required,min=1"`
	Status      string `json:"status" validate:"required,min=1"`
	UserID      int    `json:"userId" validate:"required,gt=0"`
}

// UpdateTaskRequest - все поля опциональные, но должны быть валидными
// если присутствуют.
type UpdateTaskRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Status      *string `json:"status" validate:"omitempty,min=1"`
	UserID      *int    `json:"userId" validate:"omitempty,gt=0"`
}
