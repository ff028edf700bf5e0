package converter

import (
	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/dto"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
)

// DepartmentToResponse converts a Department entity to DepartmentResponse DTO
func DepartmentToResponse(department *entity.Department) *dto.DepartmentResponse {
	if department == nil {
		return nil
	}

	return &dto.DepartmentResponse{
		ID:          department.ID,
		Name:        department.Name,
		Code:        department.Code,
		Description: department.Description,
	}
}

func DepartmentSummariesToResponses(summaries []entity.DepartmentSummary) []dto.DepartmentResponse {
	responses := make([]dto.DepartmentResponse, len(summaries))
	for i, s := range summaries {
		count := s.DoctorCount
		responses[i] = dto.DepartmentResponse{
			ID:          s.ID,
			Name:        s.Name,
			Code:        s.Code,
			Description: s.Description,
			DoctorCount: &count,
		}
	}
	return responses
}

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	qualifications := []string(doctor.Qualifications)
	if qualifications == nil {
		qualifications = []string{}
	}

	return &dto.DoctorResponse{
		ID:              doctor.ID,
		FirstName:       doctor.FirstName,
		LastName:        doctor.LastName,
		Email:           doctor.Email,
		Specialization:  doctor.Specialization,
		Qualifications:  qualifications,
		ExperienceYears: doctor.ExperienceYears,
		ConsultationFee: doctor.ConsultationFee,
		Department:      DepartmentToResponse(doctor.Department),
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
