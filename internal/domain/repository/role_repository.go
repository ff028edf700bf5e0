package repository

import (
	"context"

	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error)
}
