package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/internal/converter"
	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/dto"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/repository"
	"github.com/RouteClouds/Health-Care-Management-System/internal/scheduler"
	"github.com/RouteClouds/Health-Care-Management-System/internal/service"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AppointmentUsecase interface {
	GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) ([]dto.TimeSlotResponse, error)
	ListMyAppointments(ctx context.Context, patientID uuid.UUID, query dto.ListAppointmentsQuery) (*dto.AppointmentListResponse, error)
	CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, patientID, appointmentID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	CancelAppointment(ctx context.Context, patientID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
}

// Repository factories bind a repository to a connection or transaction.
type (
	AppointmentRepoFactory func(db *gorm.DB) repository.AppointmentRepository
	DoctorRepoFactory      func(db *gorm.DB) repository.DoctorRepository
)

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	newAppointments AppointmentRepoFactory
	newDoctors      DoctorRepoFactory
	auditService    service.AuditService
	metrics         *metrics.Collector
	loc             *time.Location
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	newAppointments AppointmentRepoFactory,
	newDoctors DoctorRepoFactory,
	auditService service.AuditService,
	metrics *metrics.Collector,
	loc *time.Location,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		newAppointments: newAppointments,
		newDoctors:      newDoctors,
		auditService:    auditService,
		metrics:         metrics,
		loc:             loc,
	}
}

func (u *appointmentUsecase) scheduler(db *gorm.DB) *scheduler.Scheduler {
	return scheduler.New(u.newAppointments(db), u.newDoctors(db), u.loc)
}

func (u *appointmentUsecase) GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) ([]dto.TimeSlotResponse, error) {
	slots, err := u.scheduler(u.db).Availability(ctx, doctorID, date)
	if err != nil {
		u.logInternal(err, "Failed to compute availability for doctor %s on %s", doctorID, date)
		return nil, err
	}

	u.metrics.AvailabilityChecks.Inc()
	return converter.SlotsToResponses(slots), nil
}

func (u *appointmentUsecase) ListMyAppointments(ctx context.Context, patientID uuid.UUID, query dto.ListAppointmentsQuery) (*dto.AppointmentListResponse, error) {
	filter := entity.AppointmentFilter{
		PatientID: patientID,
		Limit:     query.Limit,
		Offset:    query.Offset(),
	}
	if status := strings.ToUpper(strings.TrimSpace(query.Status)); status != "" && status != "ALL" {
		filter.Status = entity.AppointmentStatus(status)
		if !filter.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", scheduler.ErrInvalidInput, query.Status)
		}
	}

	appointments, total, err := u.newAppointments(u.db).FindByPatient(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        total,
	}, nil
}

func (u *appointmentUsecase) CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("%w: doctorId must be a UUID", scheduler.ErrInvalidInput)
	}

	var created *entity.Appointment
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err = u.scheduler(tx).Create(ctx, patientID, scheduler.CreateInput{
			DoctorID: doctorID,
			DateTime: req.DateTime,
			Type:     req.Type,
			Notes:    req.Notes,
		})
		if err != nil {
			return err
		}

		return u.auditService.LogCreate(ctx, tx, &patientID, entity.AuditActionAppointmentCreate,
			entity.AuditEntityAppointment, created.ID.String(), converter.AppointmentToResponse(created))
	})
	if err != nil {
		u.recordRejection(err)
		u.logInternal(err, "Failed to create appointment for patient %s", patientID)
		return nil, err
	}

	u.metrics.AppointmentsTotal.WithLabelValues(metrics.OutcomeBooked).Inc()
	u.log.Infof("Appointment created: id=%s doctor=%s at=%s", created.ID, created.DoctorID, created.DateTime.Format(time.RFC3339))
	return u.reload(ctx, created), nil
}

func (u *appointmentUsecase) UpdateAppointment(ctx context.Context, patientID, appointmentID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	var before, after *entity.Appointment
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		before, err = u.newAppointments(tx).FindOwned(ctx, appointmentID, patientID)
		if err != nil {
			return err
		}

		after, err = u.scheduler(tx).Update(ctx, patientID, appointmentID, scheduler.UpdateInput{
			DateTime: req.DateTime,
			Type:     req.Type,
			Notes:    req.Notes,
			Status:   req.Status,
		})
		if err != nil {
			return err
		}
		if !appointmentChanged(before, after) {
			return nil
		}

		return u.auditService.LogUpdate(ctx, tx, &patientID, entity.AuditActionAppointmentUpdate,
			entity.AuditEntityAppointment, appointmentID.String(),
			converter.AppointmentToResponse(before), converter.AppointmentToResponse(after))
	})
	if err != nil {
		u.recordRejection(err)
		u.logInternal(err, "Failed to update appointment %s", appointmentID)
		return nil, err
	}

	if !before.DateTime.Equal(after.DateTime) {
		u.metrics.AppointmentsTotal.WithLabelValues(metrics.OutcomeRescheduled).Inc()
	}
	return u.reload(ctx, after), nil
}

func (u *appointmentUsecase) CancelAppointment(ctx context.Context, patientID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	var cancelled *entity.Appointment
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		before, err := u.newAppointments(tx).FindOwned(ctx, appointmentID, patientID)
		if err != nil {
			return err
		}

		cancelled, err = u.scheduler(tx).Cancel(ctx, patientID, appointmentID)
		if err != nil {
			return err
		}

		return u.auditService.LogUpdate(ctx, tx, &patientID, entity.AuditActionAppointmentCancel,
			entity.AuditEntityAppointment, appointmentID.String(),
			map[string]interface{}{"status": before.Status},
			map[string]interface{}{"status": cancelled.Status})
	})
	if err != nil {
		u.recordRejection(err)
		u.logInternal(err, "Failed to cancel appointment %s", appointmentID)
		return nil, err
	}

	u.metrics.AppointmentsTotal.WithLabelValues(metrics.OutcomeCancelled).Inc()
	return u.reload(ctx, cancelled), nil
}

// reload fetches the stored row with its doctor and department. The written
// value is returned as-is if the read fails, since the change has committed.
func (u *appointmentUsecase) reload(ctx context.Context, appointment *entity.Appointment) *dto.AppointmentResponse {
	full, err := u.newAppointments(u.db).FindByID(ctx, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment)
	}
	return converter.AppointmentToResponse(full)
}

func (u *appointmentUsecase) recordRejection(err error) {
	switch scheduler.Kind(err) {
	case scheduler.ErrConflict:
		u.metrics.AppointmentsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
	case nil:
	default:
		u.metrics.AppointmentsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
	}
}

func (u *appointmentUsecase) logInternal(err error, format string, args ...interface{}) {
	if err == nil || scheduler.Kind(err) != nil || errors.Is(err, context.Canceled) {
		return
	}
	u.log.Warnf(format+": %+v", append(args, err)...)
}

func appointmentChanged(before, after *entity.Appointment) bool {
	if !before.DateTime.Equal(after.DateTime) || before.Type != after.Type || before.Status != after.Status {
		return true
	}
	if (before.Notes == nil) != (after.Notes == nil) {
		return true
	}
	return before.Notes != nil && *before.Notes != *after.Notes
}
