package entity

import "github.com/google/uuid"

// DoctorFilter is a domain-level filter for listing doctors.
// Used by repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	DepartmentCode string // exact department code, upper-case
	Search         string // case-insensitive match on first name, last name or specialization
	Limit          int
	Offset         int
}

// AppointmentFilter selects a page of one patient's appointments.
type AppointmentFilter struct {
	PatientID uuid.UUID
	Status    AppointmentStatus // empty means any status
	Limit     int
	Offset    int
}

type AuditLogFilter struct {
	Action string
	Limit  int
	Offset int
}
