package handler

import (
	"errors"
	"net/http"

	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/dto"
	"github.com/RouteClouds/Health-Care-Management-System/internal/usecase"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
	}
}

func (h *DoctorHandler) GetAllDoctors(w http.ResponseWriter, r *http.Request) {
	query := dto.ListDoctorsQuery{
		PageQuery:  pageQuery(r),
		Department: r.URL.Query().Get("department"),
		Search:     r.URL.Query().Get("search"),
	}

	result, err := h.doctorUsecase.ListDoctors(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get doctors")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Doctors retrieved successfully", result.Doctors,
		response.NewMeta(query.Page, query.Limit, result.Total))
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid doctor ID")
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), doctorID)
	if err != nil {
		if errors.Is(err, usecase.ErrDoctorNotFound) {
			response.NotFound(w, "Doctor not found")
			return
		}
		response.InternalServerError(w, "Failed to get doctor")
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.doctorUsecase.ListDepartments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get departments")
		return
	}

	response.Success(w, http.StatusOK, "Departments retrieved successfully", departments)
}

func (h *DoctorHandler) GetDepartmentDoctors(w http.ResponseWriter, r *http.Request) {
	result, err := h.doctorUsecase.GetDepartmentDoctors(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		if errors.Is(err, usecase.ErrDepartmentNotFound) {
			response.NotFound(w, "Department not found")
			return
		}
		response.InternalServerError(w, "Failed to get department doctors")
		return
	}

	response.Success(w, http.StatusOK, "Department doctors retrieved successfully", result)
}

func (h *DoctorHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.doctorUsecase.GetStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get doctor statistics")
		return
	}

	response.Success(w, http.StatusOK, "Doctor statistics retrieved successfully", stats)
}
