package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/pagination"
	"github.com/monocle-dev/taskboard/internal/repository"
	"gorm.io/gorm"
)

type UserService struct {
	db    *gorm.DB
	users *repository.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, users: repository.NewUserRepository()}
}

// Find returns nil when the user does not exist.
func (s *UserService) Find(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (*dto.UserResponse, error) {
		return s.users.FindByID(tx, id)
	})
}

func (s *UserService) Search(ctx context.Context, query string, page pagination.Request) (pagination.Page[dto.UserResponse], error) {
	return inTx(ctx, s.db, func(tx *gorm.DB) (pagination.Page[dto.UserResponse], error) {
		return s.users.Search(tx, query, page)
	})
}
