package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/dto"
	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/http/middleware"
	"github.com/RouteClouds/Health-Care-Management-System/internal/scheduler"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/response"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type fakeAppointmentUsecase struct {
	err        error
	gotPatient uuid.UUID
	gotCreate  *dto.CreateAppointmentRequest
	gotQuery   dto.ListAppointmentsQuery
}

func (f *fakeAppointmentUsecase) GetAvailability(ctx context.Context, doctorID uuid.UUID, date string) ([]dto.TimeSlotResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []dto.TimeSlotResponse{{Time: "09:00", Available: true, DoctorID: doctorID}}, nil
}

func (f *fakeAppointmentUsecase) ListMyAppointments(ctx context.Context, patientID uuid.UUID, query dto.ListAppointmentsQuery) (*dto.AppointmentListResponse, error) {
	f.gotPatient, f.gotQuery = patientID, query
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AppointmentListResponse{Appointments: []dto.AppointmentResponse{}, Total: 25}, nil
}

func (f *fakeAppointmentUsecase) CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	f.gotPatient, f.gotCreate = patientID, req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AppointmentResponse{ID: uuid.New(), PatientID: patientID, Status: "SCHEDULED"}, nil
}

func (f *fakeAppointmentUsecase) UpdateAppointment(ctx context.Context, patientID, appointmentID uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	f.gotPatient = patientID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AppointmentResponse{ID: appointmentID}, nil
}

func (f *fakeAppointmentUsecase) CancelAppointment(ctx context.Context, patientID, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	f.gotPatient = patientID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.AppointmentResponse{ID: appointmentID, Status: "CANCELLED"}, nil
}

func withCaller(r *http.Request, userID uuid.UUID) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserIDKey, userID))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestCreateAppointmentPassesCallerAndMapsErrors(t *testing.T) {
	caller := uuid.New()
	doctorID := uuid.New()

	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"created", fmt.Sprintf(`{"doctorId":%q,"dateTime":"2025-06-02T10:00:00Z"}`, doctorID), nil, http.StatusCreated},
		{"missing dateTime", fmt.Sprintf(`{"doctorId":%q}`, doctorID), nil, http.StatusBadRequest},
		{"bad json", `{`, nil, http.StatusBadRequest},
		{"slot taken", fmt.Sprintf(`{"doctorId":%q,"dateTime":"2025-06-02T10:00:00Z"}`, doctorID), scheduler.ErrSlotBooked, http.StatusConflict},
		{"unknown doctor", fmt.Sprintf(`{"doctorId":%q,"dateTime":"2025-06-02T10:00:00Z"}`, doctorID), scheduler.ErrDoctorNotFound, http.StatusNotFound},
		{"bad timestamp", fmt.Sprintf(`{"doctorId":%q,"dateTime":"later"}`, doctorID), fmt.Errorf("%w: dateTime", scheduler.ErrInvalidInput), http.StatusBadRequest},
		{"internal", fmt.Sprintf(`{"doctorId":%q,"dateTime":"2025-06-02T10:00:00Z"}`, doctorID), fmt.Errorf("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeAppointmentUsecase{err: tt.err}
			h := NewAppointmentHandler(uc, validator.NewValidator())

			req := withCaller(httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(tt.body)), caller)
			rec := httptest.NewRecorder()
			h.CreateAppointment(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusCreated && uc.gotPatient != caller {
				t.Fatalf("usecase got patient %s, want %s", uc.gotPatient, caller)
			}
		})
	}
}

func TestAppointmentStateErrorsAreConflicts(t *testing.T) {
	for _, err := range []error{scheduler.ErrAlreadyCancelled, scheduler.ErrNotModifiable, scheduler.ErrConcurrentChange} {
		h := NewAppointmentHandler(&fakeAppointmentUsecase{err: err}, validator.NewValidator())
		id := uuid.New()

		req := withCaller(httptest.NewRequest(http.MethodDelete, "/api/appointments/"+id.String(), nil), uuid.New())
		req = mux.SetURLVars(req, map[string]string{"id": id.String()})
		rec := httptest.NewRecorder()
		h.CancelAppointment(rec, req)

		if rec.Code != http.StatusConflict {
			t.Fatalf("%v: status = %d, want 409", err, rec.Code)
		}
	}
}

func TestCancelAppointmentRejectsMalformedID(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())

	req := withCaller(httptest.NewRequest(http.MethodDelete, "/api/appointments/abc", nil), uuid.New())
	req = mux.SetURLVars(req, map[string]string{"id": "abc"})
	rec := httptest.NewRecorder()
	h.CancelAppointment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetMyAppointmentsReturnsPaginationMeta(t *testing.T) {
	uc := &fakeAppointmentUsecase{}
	h := NewAppointmentHandler(uc, validator.NewValidator())

	req := withCaller(httptest.NewRequest(http.MethodGet, "/api/appointments?page=2&limit=500&status=all", nil), uuid.New())
	rec := httptest.NewRecorder()
	h.GetMyAppointments(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if uc.gotQuery.Limit != dto.MaxLimit || uc.gotQuery.Page != 2 || uc.gotQuery.Status != "all" {
		t.Fatalf("query = %+v", uc.gotQuery)
	}

	body := decode(t, rec)
	if body.Meta == nil || body.Meta.Total != 25 || body.Meta.TotalPages != 1 {
		t.Fatalf("meta = %+v", body.Meta)
	}
}

func TestGetAvailability(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())
	doctorID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = mux.SetURLVars(req, map[string]string{"doctorId": doctorID.String(), "date": "2025-06-02"})
	rec := httptest.NewRecorder()
	h.GetAvailability(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"doctorId": "x", "date": "2025-06-02"})
	rec = httptest.NewRecorder()
	h.GetAvailability(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed doctor id status = %d", rec.Code)
	}
}

func TestAppointmentHandlersRequireCaller(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.GetMyAppointments(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
