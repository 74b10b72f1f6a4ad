package main

import (
	"context"
	"testing"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/St1cky1/task-manager/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubUserRepo - мок для IUserRepository
type stubUserRepo struct {
	GetByIdFunc func(ctx context.Context, id int) (*entity.User, error)
	CreateFunc  func(ctx context.Context, user *entity.CreateUserRequest) (*entity.User, error)
}

var _ repository.IUserRepository = (*stubUserRepo)(nil)

func (s *stubUserRepo) GetById(ctx context.Context, id int) (*entity.User, error) {
	if s.GetByIdFunc != nil {
		return s.GetByIdFunc(ctx, id)
	}
	return nil, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *entity.CreateUserRequest) (*entity.User, error) {
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, user)
	}
	return &entity.User{ID: 1, Name: user.Name}, nil
}

func TestEnsureDemoUserCreatesWhenMissing(t *testing.T) {
	var createdName string
	repo := &stubUserRepo{
		CreateFunc: func(ctx context.Context, user *entity.CreateUserRequest) (*entity.User, error) {
			createdName = user.Name
			return &entity.User{ID: 1, Name: user.Name}, nil
		},
	}

	require.NoError(t, ensureDemoUser(context.Background(), repo, zap.NewNop()))
	assert.Equal(t, "demo", createdName)
}

func TestEnsureDemoUserSkipsWhenExists(t *testing.T) {
	repo := &stubUserRepo{
		GetByIdFunc: func(ctx context.Context, id int) (*entity.User, error) {
			return &entity.User{ID: id, Name: "existing"}, nil
		},
		CreateFunc: func(ctx context.Context, user *entity.CreateUserRequest) (*entity.User, error) {
			t.Fatal("user must not be created twice")
			return nil, nil
		},
	}

	require.NoError(t, ensureDemoUser(context.Background(), repo, zap.NewNop()))
}
