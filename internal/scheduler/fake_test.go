package scheduler

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/repository"

	"github.com/google/uuid"
)

// memoryAppointments mimics the appointments table, including the partial
// unique index on (doctor_id, date_time) for active rows.
type memoryAppointments struct {
	rows map[uuid.UUID]entity.Appointment

	// hideConflicts makes FindConflicting miss, as a concurrent writer would.
	hideConflicts bool
	// staleUpdates makes UpdateFields match no row.
	staleUpdates bool
	failWith     error
}

func newMemoryAppointments() *memoryAppointments {
	return &memoryAppointments{rows: make(map[uuid.UUID]entity.Appointment)}
}

func (m *memoryAppointments) add(a entity.Appointment) entity.Appointment {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Type == "" {
		a.Type = entity.AppointmentTypeInPerson
	}
	if a.Status == "" {
		a.Status = entity.AppointmentStatusScheduled
	}
	a.DateTime = a.DateTime.UTC()
	m.rows[a.ID] = a
	return a
}

func (m *memoryAppointments) activeAt(doctorID uuid.UUID, at time.Time, excludeID *uuid.UUID) *entity.Appointment {
	for _, a := range m.rows {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.DoctorID == doctorID && a.DateTime.Equal(at) && a.IsActive() {
			found := a
			return &found
		}
	}
	return nil
}

func (m *memoryAppointments) FindConflicting(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID *uuid.UUID) (*entity.Appointment, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	if m.hideConflicts {
		return nil, nil
	}
	return m.activeAt(doctorID, at, excludeID), nil
}

func (m *memoryAppointments) FindInWindow(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]entity.Appointment, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []entity.Appointment
	for _, a := range m.rows {
		if a.DoctorID != doctorID || !a.IsActive() {
			continue
		}
		if a.DateTime.Before(start) || a.DateTime.After(end) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	return out, nil
}

func (m *memoryAppointments) Insert(ctx context.Context, a *entity.Appointment) error {
	if m.failWith != nil {
		return m.failWith
	}
	if a.IsActive() && m.activeAt(a.DoctorID, a.DateTime, nil) != nil {
		return repository.ErrSlotTaken
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memoryAppointments) UpdateFields(ctx context.Context, id uuid.UUID, expected entity.AppointmentStatus, fields map[string]interface{}) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	a, ok := m.rows[id]
	if !ok || a.Status != expected || m.staleUpdates {
		return false, nil
	}
	for k, v := range fields {
		switch k {
		case "status":
			a.Status = v.(entity.AppointmentStatus)
		case "type":
			a.Type = v.(entity.AppointmentType)
		case "date_time":
			a.DateTime = v.(time.Time).UTC()
		case "notes":
			notes := v.(string)
			a.Notes = &notes
		default:
			return false, errors.New("unexpected column " + k)
		}
	}
	if a.IsActive() && m.activeAt(a.DoctorID, a.DateTime, &a.ID) != nil {
		return false, repository.ErrSlotTaken
	}
	m.rows[id] = a
	return true, nil
}

func (m *memoryAppointments) FindOwned(ctx context.Context, id, patientID uuid.UUID) (*entity.Appointment, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	a, ok := m.rows[id]
	if !ok || a.PatientID != patientID {
		return nil, nil
	}
	return &a, nil
}

func (m *memoryAppointments) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memoryAppointments) FindByPatient(ctx context.Context, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error) {
	var out []entity.Appointment
	for _, a := range m.rows {
		if a.PatientID == filter.PatientID {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

type memoryDoctors struct {
	ids map[uuid.UUID]bool
}

func newMemoryDoctors(ids ...uuid.UUID) *memoryDoctors {
	d := &memoryDoctors{ids: make(map[uuid.UUID]bool)}
	for _, id := range ids {
		d.ids[id] = true
	}
	return d
}

func (d *memoryDoctors) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return d.ids[id], nil
}

func (d *memoryDoctors) FindByID(ctx context.Context, id uuid.UUID) (*entity.Doctor, error) {
	if !d.ids[id] {
		return nil, nil
	}
	return &entity.Doctor{ID: id}, nil
}

func (d *memoryDoctors) FindAll(ctx context.Context, filter entity.DoctorFilter) ([]entity.Doctor, int64, error) {
	return nil, 0, nil
}

func (d *memoryDoctors) Count(ctx context.Context) (int64, error) {
	return int64(len(d.ids)), nil
}
