package repository

import (
	"context"

	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error)
	FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, int64, error)
	Count(ctx context.Context) (int64, error)
}

type DepartmentRepository interface {
	FindByCode(ctx context.Context, code string) (*entity.Department, error)
	FindAllWithDoctorCount(ctx context.Context) ([]entity.DepartmentSummary, error)
	Count(ctx context.Context) (int64, error)
}
