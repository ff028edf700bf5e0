package repository

import (
	"context"
	"errors"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	domainRepo "github.com/RouteClouds/Health-Care-Management-System/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository binds the repository to db, which may be a transaction.
func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) FindConflicting(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID *uuid.UUID) (*entity.Appointment, error) {
	query := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date_time = ? AND status <> ?", doctorID, at.UTC(), entity.AppointmentStatusCancelled)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var appointment entity.Appointment
	if err := query.First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindInWindow(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date_time >= ? AND date_time <= ? AND status <> ?",
			doctorID, start.UTC(), end.UTC(), entity.AppointmentStatusCancelled).
		Order("date_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Insert(ctx context.Context, appointment *entity.Appointment) error {
	appointment.DateTime = appointment.DateTime.UTC()
	if err := r.db.WithContext(ctx).Omit("Doctor").Create(appointment).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainRepo.ErrSlotTaken
		}
		return err
	}
	return nil
}

// UpdateFields is guarded on the current status so a concurrent cancel or
// status change makes it a no-op instead of overwriting the newer state.
func (r *appointmentRepository) UpdateFields(ctx context.Context, id uuid.UUID, expected entity.AppointmentStatus, fields map[string]interface{}) (bool, error) {
	if at, ok := fields["date_time"].(time.Time); ok {
		fields["date_time"] = at.UTC()
	}
	fields["updated_at"] = time.Now().UTC()

	result := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(fields)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return false, domainRepo.ErrSlotTaken
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *appointmentRepository) FindOwned(ctx context.Context, id, patientID uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Where("id = ? AND patient_id = ?", id, patientID).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Preload("Doctor.Department").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatient(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	var appointments []entity.Appointment
	var total int64

	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&entity.Appointment{}).Where("patient_id = ?", filter.PatientID)
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		return query
	}

	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := scoped().Preload("Doctor.Department").
		Order("date_time DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}
