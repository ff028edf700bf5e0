// Package scheduler decides slot availability and admits or rejects
// appointment bookings, reschedules and cancellations.
//
// A doctor holds at most one active (non-cancelled) appointment per instant.
// The scheduler checks this before every write, and the repository backs it
// with a partial unique index, reported as repository.ErrSlotTaken.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/repository"

	"github.com/google/uuid"
)

// Slot is one catalog entry of a doctor's day.
type Slot struct {
	Time      string    `json:"time"`
	Available bool      `json:"available"`
	DoctorID  uuid.UUID `json:"doctorId"`
}

// CreateInput describes a new booking. DoctorID and DateTime are required;
// Type defaults to IN_PERSON.
type CreateInput struct {
	DoctorID uuid.UUID
	DateTime string
	Type     string
	Notes    *string
}

// UpdateInput carries the fields to change; nil means "keep".
type UpdateInput struct {
	DateTime *string
	Type     *string
	Notes    *string
	Status   *string
}

// Scheduler is stateless; every call reads and writes through its repositories.
type Scheduler struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	loc          *time.Location
}

// New returns a Scheduler. loc defines the clock used for day boundaries and slot times.
func New(appointments repository.AppointmentRepository, doctors repository.DoctorRepository, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		appointments: appointments,
		doctors:      doctors,
		loc:          loc,
	}
}

// Availability reports, for each catalog slot of date, whether doctorID is free.
func (s *Scheduler) Availability(ctx context.Context, doctorID uuid.UUID, date string) ([]Slot, error) {
	if err := s.requireDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	day, err := ParseDate(date, s.loc)
	if err != nil {
		return nil, err
	}
	start, end := DayWindow(day, s.loc)

	booked, err := s.appointments.FindInWindow(ctx, doctorID, start, end)
	if err != nil {
		return nil, fmt.Errorf("find appointments in window: %w", err)
	}

	occupied := make(map[string]struct{}, len(booked))
	for _, a := range booked {
		if a.IsActive() {
			occupied[ClockTime(a.DateTime, s.loc)] = struct{}{}
		}
	}

	times := Catalog()
	slots := make([]Slot, 0, len(times))
	for _, t := range times {
		_, taken := occupied[t]
		slots = append(slots, Slot{Time: t, Available: !taken, DoctorID: doctorID})
	}
	return slots, nil
}

// Create books a new SCHEDULED appointment for patientID.
func (s *Scheduler) Create(ctx context.Context, patientID uuid.UUID, in CreateInput) (*entity.Appointment, error) {
	if in.DoctorID == uuid.Nil {
		return nil, fmt.Errorf("%w: doctorId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.DateTime) == "" {
		return nil, fmt.Errorf("%w: dateTime is required", ErrInvalidInput)
	}
	at, err := ParseDateTime(in.DateTime, s.loc)
	if err != nil {
		return nil, err
	}
	apptType, err := parseType(in.Type)
	if err != nil {
		return nil, err
	}

	if err := s.requireDoctor(ctx, in.DoctorID); err != nil {
		return nil, err
	}
	if err := s.checkSlot(ctx, in.DoctorID, at, nil); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID: patientID,
		DoctorID:  in.DoctorID,
		DateTime:  at.UTC(),
		Type:      apptType,
		Status:    entity.AppointmentStatusScheduled,
		Notes:     in.Notes,
	}
	if err := s.appointments.Insert(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotBooked
		}
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	return appointment, nil
}

// Update applies the supplied fields to one of patientID's appointments.
// A new dateTime is re-checked against the doctor's other active appointments.
// Completed, cancelled and no-show appointments only accept notes and type.
func (s *Scheduler) Update(ctx context.Context, patientID, appointmentID uuid.UUID, in UpdateInput) (*entity.Appointment, error) {
	current, err := s.loadOwned(ctx, patientID, appointmentID)
	if err != nil {
		return nil, err
	}

	updated := *current
	fields := make(map[string]interface{})

	if in.Status != nil {
		status := entity.AppointmentStatus(strings.ToUpper(strings.TrimSpace(*in.Status)))
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *in.Status)
		}
		if status != current.Status {
			updated.Status = status
			fields["status"] = status
		}
	}
	if in.Type != nil {
		apptType, err := parseType(*in.Type)
		if err != nil {
			return nil, err
		}
		updated.Type = apptType
		fields["type"] = apptType
	}
	if in.DateTime != nil {
		at, err := ParseDateTime(*in.DateTime, s.loc)
		if err != nil {
			return nil, err
		}
		updated.DateTime = at.UTC()
		fields["date_time"] = updated.DateTime
	}
	if in.Notes != nil {
		notes := *in.Notes
		updated.Notes = &notes
		fields["notes"] = notes
	}

	if len(fields) == 0 {
		return current, nil
	}
	if current.Status.IsTerminal() {
		// Closed appointments keep their slot and status; notes and type stay editable.
		_, moved := fields["date_time"]
		_, restated := fields["status"]
		if moved || restated {
			return nil, ErrNotModifiable
		}
	}
	if !current.Status.CanTransitionTo(updated.Status) {
		return nil, ErrInvalidTransition
	}

	if in.DateTime != nil && updated.IsActive() {
		if err := s.checkSlot(ctx, updated.DoctorID, updated.DateTime, &updated.ID); err != nil {
			return nil, err
		}
	}

	if err := s.write(ctx, current, fields); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Cancel marks one of patientID's appointments CANCELLED, freeing its slot.
func (s *Scheduler) Cancel(ctx context.Context, patientID, appointmentID uuid.UUID) (*entity.Appointment, error) {
	current, err := s.loadOwned(ctx, patientID, appointmentID)
	if err != nil {
		return nil, err
	}
	if current.IsCancelled() {
		return nil, ErrAlreadyCancelled
	}

	fields := map[string]interface{}{"status": entity.AppointmentStatusCancelled}
	if err := s.write(ctx, current, fields); err != nil {
		return nil, err
	}

	cancelled := *current
	cancelled.Cancel()
	return &cancelled, nil
}

// Location is the clock the scheduler uses for slot times.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

func (s *Scheduler) requireDoctor(ctx context.Context, doctorID uuid.UUID) error {
	exists, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return fmt.Errorf("check doctor: %w", err)
	}
	if !exists {
		return ErrDoctorNotFound
	}
	return nil
}

func (s *Scheduler) checkSlot(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID *uuid.UUID) error {
	existing, err := s.appointments.FindConflicting(ctx, doctorID, at, excludeID)
	if err != nil {
		return fmt.Errorf("find conflicting appointment: %w", err)
	}
	if existing != nil {
		return ErrSlotBooked
	}
	return nil
}

func (s *Scheduler) loadOwned(ctx context.Context, patientID, appointmentID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := s.appointments.FindOwned(ctx, appointmentID, patientID)
	if err != nil {
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func (s *Scheduler) write(ctx context.Context, current *entity.Appointment, fields map[string]interface{}) error {
	ok, err := s.appointments.UpdateFields(ctx, current.ID, current.Status, fields)
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return ErrSlotBooked
		}
		return fmt.Errorf("update appointment: %w", err)
	}
	if !ok {
		return ErrConcurrentChange
	}
	return nil
}

func parseType(raw string) (entity.AppointmentType, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return entity.AppointmentTypeInPerson, nil
	}
	t := entity.AppointmentType(raw)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown appointment type %q", ErrInvalidInput, raw)
	}
	return t, nil
}
