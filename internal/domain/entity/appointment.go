package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "SCHEDULED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow    AppointmentStatus = "NO_SHOW"
)

// AppointmentType represents how the consultation takes place
type AppointmentType string

const (
	AppointmentTypeInPerson     AppointmentType = "IN_PERSON"
	AppointmentTypeTelemedicine AppointmentType = "TELEMEDICINE"
)

// Appointment is a patient's booking of one doctor slot
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PatientID uuid.UUID         `gorm:"type:uuid;not null;index" json:"patientId"`
	DoctorID  uuid.UUID         `gorm:"type:uuid;not null" json:"doctorId"`
	DateTime  time.Time         `gorm:"column:date_time;not null" json:"dateTime"`
	Type      AppointmentType   `gorm:"type:varchar(20);not null;default:'IN_PERSON'" json:"type"`
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED'" json:"status"`
	Notes     *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// IsActive reports whether the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// Cancel changes appointment status to cancelled
func (a *Appointment) Cancel() {
	a.Status = AppointmentStatusCancelled
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// IsActive reports whether an appointment in this status holds its slot.
func (s AppointmentStatus) IsActive() bool {
	return s != AppointmentStatusCancelled
}

// IsTerminal reports whether the appointment's time and status are final.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled || s == AppointmentStatusNoShow
}

// CanTransitionTo reports whether an update may move an appointment from s to next.
// Staying in the same status is always allowed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s == next {
		return true
	}
	if s != AppointmentStatusScheduled {
		return false
	}
	switch next {
	case AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

func (t AppointmentType) IsValid() bool {
	return t == AppointmentTypeInPerson || t == AppointmentTypeTelemedicine
}
