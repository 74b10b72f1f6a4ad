package repository

import (
	"context"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// создаем пользователя (HTTP-ручек для users нет, используется сидом при старте)
func (r *UserRepository) Create(ctx context.Context, user *entity.CreateUserRequest) (*entity.User, error) {

	query := `
	INSERT INTO "users" (name)
	VALUES ($1)
	RETURNING id, name, created_at, updated_at
	`

	var createdUser entity.User

	err := r.db.QueryRow(ctx, query, user.Name).Scan(
		&createdUser.ID,
		&createdUser.Name,
		&createdUser.CreatedAt,
		&createdUser.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &createdUser, nil
}

// получаем данные по id
func (r *UserRepository) GetById(ctx context.Context, id int) (*entity.User, error) {
	query := `
	SELECT id, name, created_at, updated_at
	FROM "users"
	WHERE id = ($1)
	`
	var user entity.User

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}
