package repository

import (
	"context"
	"database/sql"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Единый фильтр активная/удаленная, чтобы два семейства запросов
// не разъезжались между собой.
const (
	activeFilter  = "t.deleted_at IS NULL"
	deletedFilter = "t.deleted_at IS NOT NULL"
)

// Базовый SELECT с подтягиванием владельца. LEFT JOIN вместо INNER,
// чтобы битая ссылка на пользователя была видна как Owner == nil,
// а не молча пропадала из выдачи.
const selectTask = `
	SELECT t.id, t.name, t.description, t.status,
	       t.created_at, t.updated_at, t.deleted_at, t.owner_id,
	       u.id, u.name
	FROM "task" t
	LEFT JOIN "users" u ON u.id = t.owner_id
`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {

	query := `
	INSERT INTO "task" (name, description, status, owner_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, name, description, status, created_at, updated_at, deleted_at, owner_id
	`

	var created entity.Task
	err := r.db.QueryRow(ctx, query,
		task.Name,
		task.Description,
		task.Status,
		task.OwnerID,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(
		&created.ID,
		&created.Name,
		&created.Description,
		&created.Status,
		&created.CreatedAt,
		&created.UpdatedAt,
		&created.DeletedAt,
		&created.OwnerID,
	)
	if err != nil {
		return nil, err
	}

	if err := r.attachOwner(ctx, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *TaskRepository) GetActiveById(ctx context.Context, id int) (*entity.Task, error) {
	return r.getOne(ctx, selectTask+` WHERE t.id = $1 AND `+activeFilter, id)
}

func (r *TaskRepository) ListActive(ctx context.Context) ([]entity.Task, error) {
	return r.list(ctx, selectTask+` WHERE `+activeFilter+` ORDER BY t.id`)
}

func (r *TaskRepository) ListActiveByOwner(ctx context.Context, ownerID int) ([]entity.Task, error) {
	return r.list(ctx, selectTask+` WHERE t.owner_id = $1 AND `+activeFilter+` ORDER BY t.id`, ownerID)
}

func (r *TaskRepository) ListDeleted(ctx context.Context) ([]entity.Task, error) {
	return r.list(ctx, selectTask+` WHERE `+deletedFilter+` ORDER BY t.id`)
}

func (r *TaskRepository) ListDeletedByOwner(ctx context.Context, ownerID int) ([]entity.Task, error) {
	return r.list(ctx, selectTask+` WHERE t.owner_id = $1 AND `+deletedFilter+` ORDER BY t.id`, ownerID)
}

// Update - полная замена изменяемых полей активной задачи.
// Удаленные строки не попадают под WHERE, их нельзя "воскресить".
func (r *TaskRepository) Update(ctx context.Context, task *entity.Task) (*entity.Task, error) {

	query := `
	UPDATE "task"
	SET name = $1, description = $2, status = $3, owner_id = $4, updated_at = $5
	WHERE id = $6 AND deleted_at IS NULL
	RETURNING id, name, description, status, created_at, updated_at, deleted_at, owner_id
	`

	var updated entity.Task
	err := r.db.QueryRow(ctx, query,
		task.Name,
		task.Description,
		task.Status,
		task.OwnerID,
		task.UpdatedAt,
		task.ID,
	).Scan(
		&updated.ID,
		&updated.Name,
		&updated.Description,
		&updated.Status,
		&updated.CreatedAt,
		&updated.UpdatedAt,
		&updated.DeletedAt,
		&updated.OwnerID,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := r.attachOwner(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// SoftDelete помечает задачу удаленной. COALESCE сохраняет исходный
// deleted_at при повторном вызове: пометка никогда не перезаписывается.
func (r *TaskRepository) SoftDelete(ctx context.Context, id int) error {
	query := `UPDATE "task" SET deleted_at = COALESCE(deleted_at, now()) WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) getOne(ctx context.Context, query string, args ...interface{}) (*entity.Task, error) {
	task, err := scanTask(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...interface{}) ([]entity.Task, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

// Вторичный lookup владельца для путей без JOIN (insert/update RETURNING).
func (r *TaskRepository) attachOwner(ctx context.Context, task *entity.Task) error {
	var owner entity.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name FROM "users" WHERE id = $1`, task.OwnerID,
	).Scan(&owner.ID, &owner.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			// FK должен такое исключать; оставляем Owner == nil,
			// нарушение инварианта всплывет при конвертации в DTO
			return nil
		}
		return err
	}
	task.Owner = &owner
	return nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var (
		task      entity.Task
		ownerID   sql.NullInt64
		ownerName sql.NullString
	)

	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.Description,
		&task.Status,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.DeletedAt,
		&task.OwnerID,
		&ownerID,
		&ownerName,
	)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		task.Owner = &entity.User{
			ID:   int(ownerID.Int64),
			Name: ownerName.String,
		}
	}

	return &task, nil
}
