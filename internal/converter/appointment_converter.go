package converter

import (
	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/dto"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	"github.com/RouteClouds/Health-Care-Management-System/internal/scheduler"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:        appointment.ID,
		PatientID: appointment.PatientID,
		DoctorID:  appointment.DoctorID,
		DateTime:  appointment.DateTime.UTC(),
		Type:      string(appointment.Type),
		Status:    string(appointment.Status),
		Notes:     appointment.Notes,
		Doctor:    DoctorToResponse(appointment.Doctor),
		CreatedAt: appointment.CreatedAt,
		UpdatedAt: appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func SlotsToResponses(slots []scheduler.Slot) []dto.TimeSlotResponse {
	responses := make([]dto.TimeSlotResponse, len(slots))
	for i, s := range slots {
		responses[i] = dto.TimeSlotResponse{Time: s.Time, Available: s.Available, DoctorID: s.DoctorID}
	}
	return responses
}
