package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID string  `json:"doctorId" validate:"required,uuid"`
	DateTime string  `json:"dateTime" validate:"required"`
	Type     string  `json:"type" validate:"omitempty,oneof=IN_PERSON TELEMEDICINE"`
	Notes    *string `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateAppointmentRequest struct {
	DateTime *string `json:"dateTime" validate:"omitempty,min=1"`
	Type     *string `json:"type" validate:"omitempty,oneof=IN_PERSON TELEMEDICINE"`
	Notes    *string `json:"notes" validate:"omitempty,max=1000"`
	Status   *string `json:"status" validate:"omitempty,oneof=SCHEDULED COMPLETED CANCELLED NO_SHOW"`
}

type ListAppointmentsQuery struct {
	PageQuery
	Status string // "all" or empty means any status
}

// Response DTOs

type TimeSlotResponse struct {
	Time      string    `json:"time"`
	Available bool      `json:"available"`
	DoctorID  uuid.UUID `json:"doctorId"`
}

type AppointmentResponse struct {
	ID        uuid.UUID       `json:"id"`
	PatientID uuid.UUID       `json:"patientId"`
	DoctorID  uuid.UUID       `json:"doctorId"`
	DateTime  time.Time       `json:"dateTime"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
	Notes     *string         `json:"notes,omitempty"`
	Doctor    *DoctorResponse `json:"doctor,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int64                 `json:"total"`
}
