package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/dto"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	"github.com/RouteClouds/Health-Care-Management-System/internal/repository"
	"github.com/RouteClouds/Health-Care-Management-System/internal/scheduler"
	"github.com/RouteClouds/Health-Care-Management-System/internal/service"
	"github.com/RouteClouds/Health-Care-Management-System/internal/testutil"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/metrics"

	"github.com/google/uuid"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"
)

type appointmentFixture struct {
	db        *gorm.DB
	uc        AppointmentUsecase
	metrics   *metrics.Collector
	doctorID  uuid.UUID
	patientID uuid.UUID
	otherID   uuid.UUID
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()
	db := testutil.OpenDB(t)
	log := testutil.Logger(t)

	department := testutil.CreateDepartment(t, db, "CARD", "Cardiology")
	doctor := testutil.CreateDoctor(t, db, department, "John", "Smith", "Interventional Cardiology")
	patient := testutil.CreatePatient(t, db, "alice")
	other := testutil.CreatePatient(t, db, "bob")

	collector := metrics.NewCollector("test")
	audit := service.NewAuditService(log, repository.NewAuditLogRepository())

	return &appointmentFixture{
		db: db,
		uc: NewAppointmentUsecase(db, log,
			repository.NewAppointmentRepository, repository.NewDoctorRepository,
			audit, collector, time.UTC),
		metrics:   collector,
		doctorID:  doctor.ID,
		patientID: patient.ID,
		otherID:   other.ID,
	}
}

func (f *appointmentFixture) book(t *testing.T, patientID uuid.UUID, at string) *dto.AppointmentResponse {
	t.Helper()
	resp, err := f.uc.CreateAppointment(context.Background(), patientID, &dto.CreateAppointmentRequest{
		DoctorID: f.doctorID.String(),
		DateTime: at,
	})
	if err != nil {
		t.Fatalf("book %s: %v", at, err)
	}
	return resp
}

func (f *appointmentFixture) auditActions(t *testing.T) []string {
	t.Helper()
	var actions []string
	if err := f.db.Model(&entity.AuditLog{}).Order("id").Pluck("action", &actions).Error; err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	return actions
}

func TestCreateAppointmentBooksAndAudits(t *testing.T) {
	f := newAppointmentFixture(t)

	resp := f.book(t, f.patientID, "2025-06-02T10:00:00.000Z")

	if resp.Status != string(entity.AppointmentStatusScheduled) || resp.Type != string(entity.AppointmentTypeInPerson) {
		t.Fatalf("unexpected appointment: %+v", resp)
	}
	if !resp.DateTime.Equal(time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("dateTime = %v", resp.DateTime)
	}
	if resp.Doctor == nil || resp.Doctor.Department == nil || resp.Doctor.Department.Code != "CARD" {
		t.Fatal("response should carry doctor and department")
	}

	if actions := f.auditActions(t); len(actions) != 1 || actions[0] != entity.AuditActionAppointmentCreate {
		t.Fatalf("audit actions = %v", actions)
	}
	if got := promtestutil.ToFloat64(f.metrics.AppointmentsTotal.WithLabelValues(metrics.OutcomeBooked)); got != 1 {
		t.Fatalf("booked counter = %v", got)
	}
}

func TestCreateAppointmentConflictLeavesNoTrace(t *testing.T) {
	f := newAppointmentFixture(t)
	f.book(t, f.patientID, "2025-06-02T10:00:00Z")

	_, err := f.uc.CreateAppointment(context.Background(), f.otherID, &dto.CreateAppointmentRequest{
		DoctorID: f.doctorID.String(),
		DateTime: "2025-06-02T10:00:00Z",
	})
	if !errors.Is(err, scheduler.ErrConflict) {
		t.Fatalf("error = %v, want conflict", err)
	}

	if actions := f.auditActions(t); len(actions) != 1 {
		t.Fatalf("rejected booking wrote audit rows: %v", actions)
	}
	if got := promtestutil.ToFloat64(f.metrics.AppointmentsTotal.WithLabelValues(metrics.OutcomeConflict)); got != 1 {
		t.Fatalf("conflict counter = %v", got)
	}
}

func TestCreateAppointmentValidatesInput(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateAppointmentRequest
		kind error
	}{
		{"malformed doctor id", dto.CreateAppointmentRequest{DoctorID: "nope", DateTime: "2025-06-02T10:00:00Z"}, scheduler.ErrInvalidInput},
		{"unknown doctor", dto.CreateAppointmentRequest{DoctorID: uuid.NewString(), DateTime: "2025-06-02T10:00:00Z"}, scheduler.ErrNotFound},
		{"bad timestamp", dto.CreateAppointmentRequest{DoctorID: f.doctorID.String(), DateTime: "soon"}, scheduler.ErrInvalidInput},
		{"bad type", dto.CreateAppointmentRequest{DoctorID: f.doctorID.String(), DateTime: "2025-06-02T10:00:00Z", Type: "HOUSE_CALL"}, scheduler.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			if _, err := f.uc.CreateAppointment(ctx, f.patientID, &req); !errors.Is(err, tc.kind) {
				t.Fatalf("error = %v, want %v", err, tc.kind)
			}
		})
	}
}

func TestAvailabilityReflectsBookingsAndCancellations(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	booked := f.book(t, f.patientID, "2025-06-02T09:30:00Z")

	slots, err := f.uc.GetAvailability(ctx, f.doctorID, "2025-06-02")
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(slots) != len(scheduler.Catalog()) {
		t.Fatalf("got %d slots", len(slots))
	}
	for _, s := range slots {
		if want := s.Time != "09:30"; s.Available != want {
			t.Fatalf("slot %s available=%v, want %v", s.Time, s.Available, want)
		}
	}

	if _, err := f.uc.CancelAppointment(ctx, f.patientID, booked.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	slots, _ = f.uc.GetAvailability(ctx, f.doctorID, "2025-06-02")
	for _, s := range slots {
		if !s.Available {
			t.Fatalf("slot %s still taken after cancellation", s.Time)
		}
	}

	// The freed slot can be booked again by someone else
	f.book(t, f.otherID, "2025-06-02T09:30:00Z")
}

func TestUpdateAppointmentReschedules(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	mine := f.book(t, f.patientID, "2025-06-02T10:00:00Z")
	f.book(t, f.otherID, "2025-06-02T11:00:00Z")

	taken := "2025-06-02T11:00:00Z"
	if _, err := f.uc.UpdateAppointment(ctx, f.patientID, mine.ID, &dto.UpdateAppointmentRequest{DateTime: &taken}); !errors.Is(err, scheduler.ErrConflict) {
		t.Fatalf("reschedule onto taken slot error = %v", err)
	}

	free := "2025-06-02T13:30:00Z"
	telemedicine := "TELEMEDICINE"
	updated, err := f.uc.UpdateAppointment(ctx, f.patientID, mine.ID, &dto.UpdateAppointmentRequest{DateTime: &free, Type: &telemedicine})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if updated.Type != telemedicine || updated.DateTime.UTC().Format("15:04") != "13:30" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := f.uc.UpdateAppointment(ctx, f.otherID, mine.ID, &dto.UpdateAppointmentRequest{Type: &telemedicine}); !errors.Is(err, scheduler.ErrNotFound) {
		t.Fatalf("foreign update error = %v, want not found", err)
	}

	actions := f.auditActions(t)
	if actions[len(actions)-1] != entity.AuditActionAppointmentUpdate {
		t.Fatalf("audit actions = %v", actions)
	}
	if got := promtestutil.ToFloat64(f.metrics.AppointmentsTotal.WithLabelValues(metrics.OutcomeRescheduled)); got != 1 {
		t.Fatalf("rescheduled counter = %v", got)
	}
}

func TestUpdateAppointmentWithoutChangeWritesNoAudit(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	appt := f.book(t, f.patientID, "2025-06-02T10:00:00Z")
	written := len(f.auditActions(t))

	scheduled := string(entity.AppointmentStatusScheduled)
	inPerson := string(entity.AppointmentTypeInPerson)
	same := "2025-06-02T10:00:00Z"
	got, err := f.uc.UpdateAppointment(ctx, f.patientID, appt.ID, &dto.UpdateAppointmentRequest{
		Status: &scheduled, Type: &inPerson, DateTime: &same,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Status != scheduled {
		t.Fatalf("status = %s", got.Status)
	}
	if n := len(f.auditActions(t)); n != written {
		t.Fatalf("audit rows = %d, want %d", n, written)
	}

	notes := "bring previous ECG"
	if _, err := f.uc.UpdateAppointment(ctx, f.patientID, appt.ID, &dto.UpdateAppointmentRequest{Notes: &notes}); err != nil {
		t.Fatalf("notes update: %v", err)
	}
	if n := len(f.auditActions(t)); n != written+1 {
		t.Fatalf("audit rows = %d, want %d", n, written+1)
	}
}

func TestCancelAppointmentTwiceIsRejected(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()
	appt := f.book(t, f.patientID, "2025-06-02T10:00:00Z")

	cancelled, err := f.uc.CancelAppointment(ctx, f.patientID, appt.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != string(entity.AppointmentStatusCancelled) {
		t.Fatalf("status = %s", cancelled.Status)
	}

	if _, err := f.uc.CancelAppointment(ctx, f.patientID, appt.ID); !errors.Is(err, scheduler.ErrInvalidState) {
		t.Fatalf("second cancel error = %v, want invalid state", err)
	}
	if _, err := f.uc.CancelAppointment(ctx, f.patientID, uuid.New()); !errors.Is(err, scheduler.ErrNotFound) {
		t.Fatalf("unknown cancel error = %v, want not found", err)
	}
}

func TestListMyAppointments(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	f.book(t, f.patientID, "2025-06-02T09:00:00Z")
	second := f.book(t, f.patientID, "2025-06-03T09:00:00Z")
	f.book(t, f.otherID, "2025-06-04T09:00:00Z")
	if _, err := f.uc.CancelAppointment(ctx, f.patientID, second.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	all, err := f.uc.ListMyAppointments(ctx, f.patientID, dto.ListAppointmentsQuery{
		PageQuery: dto.PageQuery{}.Normalize(), Status: "all",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Total != 2 || all.Appointments[0].ID != second.ID {
		t.Fatalf("unexpected listing: total=%d", all.Total)
	}

	scheduled, _ := f.uc.ListMyAppointments(ctx, f.patientID, dto.ListAppointmentsQuery{
		PageQuery: dto.PageQuery{}.Normalize(), Status: "scheduled",
	})
	if scheduled.Total != 1 {
		t.Fatalf("scheduled total = %d", scheduled.Total)
	}

	if _, err := f.uc.ListMyAppointments(ctx, f.patientID, dto.ListAppointmentsQuery{
		PageQuery: dto.PageQuery{}.Normalize(), Status: "LOST",
	}); !errors.Is(err, scheduler.ErrInvalidInput) {
		t.Fatalf("unknown status error = %v", err)
	}
}

func TestConcurrentBookingsAdmitOne(t *testing.T) {
	f := newAppointmentFixture(t)
	ctx := context.Background()

	patients := []uuid.UUID{f.patientID, f.otherID}
	for i := 0; i < 4; i++ {
		patients = append(patients, testutil.CreatePatient(t, f.db, "racer"+string(rune('a'+i))).ID)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for _, id := range patients {
		wg.Add(1)
		go func(patientID uuid.UUID) {
			defer wg.Done()
			_, err := f.uc.CreateAppointment(ctx, patientID, &dto.CreateAppointmentRequest{
				DoctorID: f.doctorID.String(),
				DateTime: "2025-06-02T14:00:00Z",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, scheduler.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	if succeeded != 1 || conflicts != len(patients)-1 {
		t.Fatalf("succeeded=%d conflicts=%d", succeeded, conflicts)
	}
}
