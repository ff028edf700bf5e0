package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	domainRepo "github.com/RouteClouds/Health-Care-Management-System/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) domainRepo.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Doctor{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *doctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := r.db.WithContext(ctx).Preload("Department").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

// FindAll lists doctors ordered by last name. Search is matched with LOWER(..) LIKE
// so it behaves the same on every dialect.
func (r *doctorRepository) FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, int64, error) {
	var doctors []entity.Doctor
	var total int64

	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&entity.Doctor{})
		if filter.DepartmentCode != "" {
			query = query.Joins("JOIN departments ON departments.id = doctors.department_id").
				Where("departments.code = ?", strings.ToUpper(filter.DepartmentCode))
		}
		if filter.Search != "" {
			pattern := "%" + strings.ToLower(filter.Search) + "%"
			query = query.Where(
				"LOWER(doctors.first_name) LIKE ? OR LOWER(doctors.last_name) LIKE ? OR LOWER(doctors.specialization) LIKE ?",
				pattern, pattern, pattern,
			)
		}
		return query
	}

	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := scoped().Preload("Department").Order("doctors.last_name ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := query.Find(&doctors).Error; err != nil {
		return nil, 0, err
	}

	return doctors, total, nil
}

func (r *doctorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Doctor{}).Count(&count).Error
	return count, err
}

type departmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) domainRepo.DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) FindByCode(ctx context.Context, code string) (*entity.Department, error) {
	var department entity.Department
	err := r.db.WithContext(ctx).
		Preload("Doctors", func(db *gorm.DB) *gorm.DB { return db.Order("last_name ASC") }).
		Where("code = ?", strings.ToUpper(code)).
		First(&department).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &department, nil
}

func (r *departmentRepository) FindAllWithDoctorCount(ctx context.Context) ([]entity.DepartmentSummary, error) {
	var summaries []entity.DepartmentSummary
	err := r.db.WithContext(ctx).
		Table("departments").
		Select("departments.id, departments.name, departments.code, departments.description, COUNT(doctors.id) AS doctor_count").
		Joins("LEFT JOIN doctors ON doctors.department_id = departments.id").
		Group("departments.id, departments.name, departments.code, departments.description").
		Order("departments.name ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *departmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Department{}).Count(&count).Error
	return count, err
}
