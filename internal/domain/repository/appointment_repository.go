package repository

import (
	"context"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentRepository persists appointments for the scheduler.
// Single-row lookups return (nil, nil) when nothing matches.
type AppointmentRepository interface {
	// FindConflicting returns an active appointment of doctorID at exactly at,
	// ignoring excludeID when it is non-nil.
	FindConflicting(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID *uuid.UUID) (*entity.Appointment, error)
	// FindInWindow returns the active appointments of doctorID with start <= dateTime <= end.
	FindInWindow(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]entity.Appointment, error)
	// Insert returns ErrSlotTaken when the slot is already held.
	Insert(ctx context.Context, appointment *entity.Appointment) error
	// UpdateFields applies fields only while the row is still in status expected.
	// It reports false when no row matched and ErrSlotTaken on a slot collision.
	UpdateFields(ctx context.Context, id uuid.UUID, expected entity.AppointmentStatus, fields map[string]interface{}) (bool, error)
	FindOwned(ctx context.Context, id, patientID uuid.UUID) (*entity.Appointment, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	FindByPatient(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error)
}
