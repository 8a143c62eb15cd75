package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/pagination"
	"gorm.io/gorm"
)

const userColumns = "users.id, users.email, users.display_name, users.created_at"

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(tx *gorm.DB, user *models.User) (*dto.UserResponse, error) {
	if err := tx.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return toUserResponse(user), nil
}

func (r *UserRepository) FindByID(tx *gorm.DB, id uuid.UUID) (*dto.UserResponse, error) {
	var out dto.UserResponse

	res := tx.Table("users").Select(userColumns).Where("users.id = ?", id).Limit(1).Scan(&out)
	if res.Error != nil {
		return nil, fmt.Errorf("find user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

// FindByEmail returns the stored row including credentials.
func (r *UserRepository) FindByEmail(tx *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByGoogleID(tx *gorm.DB, googleID string) (*models.User, error) {
	var user models.User
	if err := tx.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by google id: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) ExistsByEmail(tx *gorm.DB, email string) (bool, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

func (r *UserRepository) Exists(tx *gorm.DB, id uuid.UUID) (bool, error) {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

// LinkGoogleID attaches a Google account to an existing user.
func (r *UserRepository) LinkGoogleID(tx *gorm.DB, id uuid.UUID, googleID string) (bool, error) {
	res := tx.Model(&models.User{}).Where("id = ?", id).Update("google_id", googleID)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return false, ErrDuplicate
		}
		return false, fmt.Errorf("link google id: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Search pages through users whose email or display name contains query.
func (r *UserRepository) Search(tx *gorm.DB, query string, page pagination.Request) (pagination.Page[dto.UserResponse], error) {
	filter := pagination.Search(query, "users.email", "users.display_name")

	var total int64
	if err := tx.Table("users").Scopes(filter).Count(&total).Error; err != nil {
		return pagination.Page[dto.UserResponse]{}, fmt.Errorf("count users: %w", err)
	}

	var items []dto.UserResponse
	err := tx.Table("users").
		Select(userColumns).
		Scopes(filter, pagination.Scope(page)).
		Order("users.display_name ASC, users.id ASC").
		Scan(&items).Error
	if err != nil {
		return pagination.Page[dto.UserResponse]{}, fmt.Errorf("list users: %w", err)
	}

	return pagination.New(items, total, page), nil
}

func toUserResponse(u *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}
