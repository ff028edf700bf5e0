package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/dto"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	"github.com/RouteClouds/Health-Care-Management-System/internal/repository"
	"github.com/RouteClouds/Health-Care-Management-System/internal/service"
	"github.com/RouteClouds/Health-Care-Management-System/internal/testutil"
)

func TestAuditLogUsecase(t *testing.T) {
	db := testutil.OpenDB(t)
	log := testutil.Logger(t)
	patient := testutil.CreatePatient(t, db, "alice")
	repo := repository.NewAuditLogRepository()
	audit := service.NewAuditService(log, repo)
	ctx := context.Background()

	if err := audit.LogEvent(ctx, db, &patient.ID, entity.AuditActionUserLogin, map[string]interface{}{"username": "alice"}); err != nil {
		t.Fatalf("log event: %v", err)
	}
	if err := audit.LogCreate(ctx, db, &patient.ID, entity.AuditActionAppointmentCreate, entity.AuditEntityAppointment, "a1", map[string]interface{}{"status": "SCHEDULED"}); err != nil {
		t.Fatalf("log create: %v", err)
	}

	uc := NewAuditLogUsecase(db, log, repo)

	all, err := uc.GetAllAuditLogs(ctx, dto.ListAuditLogsQuery{PageQuery: dto.PageQuery{}.Normalize()})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if all.Total != 2 || all.Logs[0].Action != entity.AuditActionAppointmentCreate {
		t.Fatalf("unexpected logs: %+v", all)
	}
	if all.Logs[0].User == nil || all.Logs[0].User.Username != "alice" {
		t.Fatal("user not attached to audit log")
	}
	if all.Logs[0].Metadata["entity_id"] != "a1" {
		t.Fatalf("metadata = %v", all.Logs[0].Metadata)
	}

	logins, _ := uc.GetAllAuditLogs(ctx, dto.ListAuditLogsQuery{PageQuery: dto.PageQuery{}.Normalize(), Action: entity.AuditActionUserLogin})
	if logins.Total != 1 {
		t.Fatalf("login total = %d", logins.Total)
	}

	one, err := uc.GetAuditLog(ctx, logins.Logs[0].ID)
	if err != nil || one.Action != entity.AuditActionUserLogin {
		t.Fatalf("get: %+v %v", one, err)
	}
	if _, err := uc.GetAuditLog(ctx, 9999); !errors.Is(err, ErrAuditLogNotFound) {
		t.Fatalf("missing log error = %v", err)
	}
}
