package repository

import (
	"context"
	"errors"

	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	domainRepo "github.com/RouteClouds/Health-Care-Management-System/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	if err := db.WithContext(ctx).Omit("Role").Create(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainRepo.ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByUsername(ctx context.Context, db *gorm.DB, username string) (*entity.User, error) {
	return r.first(db.WithContext(ctx).Where("username = ?", username))
}

func (r *userRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.first(db.WithContext(ctx).Preload("Role").Where("id = ?", id))
}

func (r *userRepository) FindByUsernameOrEmail(ctx context.Context, db *gorm.DB, username, email string) (*entity.User, error) {
	return r.first(db.WithContext(ctx).Where("username = ? OR email = ?", username, email))
}

func (r *userRepository) first(query *gorm.DB) (*entity.User, error) {
	var user entity.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

type roleRepository struct{}

func NewRoleRepository() domainRepo.RoleRepository {
	return &roleRepository{}
}

// FindByName matches role names case-insensitively.
func (r *roleRepository) FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error) {
	var role entity.Role
	err := db.WithContext(ctx).Where("UPPER(role_name) = UPPER(?)", name).Take(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}
