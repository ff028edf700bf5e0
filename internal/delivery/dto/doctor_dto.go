package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ListDoctorsQuery struct {
	PageQuery
	Department string
	Search     string
}

// Response DTOs

type DepartmentResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	DoctorCount *int64    `json:"doctorCount,omitempty"`
}

type DoctorResponse struct {
	ID              uuid.UUID           `json:"id"`
	FirstName       string              `json:"firstName"`
	LastName        string              `json:"lastName"`
	Email           string              `json:"email"`
	Specialization  string              `json:"specialization"`
	Qualifications  []string            `json:"qualifications"`
	ExperienceYears int                 `json:"experienceYears"`
	ConsultationFee decimal.Decimal     `json:"consultationFee"`
	Department      *DepartmentResponse `json:"department,omitempty"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int64            `json:"total"`
}

type DepartmentDoctorsResponse struct {
	Department DepartmentResponse `json:"department"`
	Doctors    []DoctorResponse   `json:"doctors"`
}

type DepartmentBreakdown struct {
	Department  string `json:"department"`
	Code        string `json:"code"`
	DoctorCount int64  `json:"doctorCount"`
}

type DoctorStatsResponse struct {
	TotalDoctors        int64                 `json:"totalDoctors"`
	TotalDepartments    int64                 `json:"totalDepartments"`
	DepartmentBreakdown []DepartmentBreakdown `json:"departmentBreakdown"`
	LastUpdated         time.Time             `json:"lastUpdated"`
}
