package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/internal/converter"
	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/dto"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrDepartmentNotFound = errors.New("department not found")
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, query dto.ListDoctorsQuery) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error)
	GetDepartmentDoctors(ctx context.Context, code string) (*dto.DepartmentDoctorsResponse, error)
	GetStats(ctx context.Context) (*dto.DoctorStatsResponse, error)
}

type doctorUsecase struct {
	log            *logrus.Logger
	doctorRepo     repository.DoctorRepository
	departmentRepo repository.DepartmentRepository
	now            func() time.Time
}

func NewDoctorUsecase(
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	departmentRepo repository.DepartmentRepository,
) DoctorUsecase {
	return &doctorUsecase{
		log:            log,
		doctorRepo:     doctorRepo,
		departmentRepo: departmentRepo,
		now:            time.Now,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, query dto.ListDoctorsQuery) (*dto.DoctorListResponse, error) {
	doctors, total, err := u.doctorRepo.FindAll(ctx, entity.DoctorFilter{
		DepartmentCode: strings.ToUpper(strings.TrimSpace(query.Department)),
		Search:         strings.TrimSpace(query.Search),
		Limit:          query.Limit,
		Offset:         query.Offset(),
	})
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   total,
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	summaries, err := u.departmentRepo.FindAllWithDoctorCount(ctx)
	if err != nil {
		u.log.Warnf("Failed to find departments: %+v", err)
		return nil, err
	}

	return converter.DepartmentSummariesToResponses(summaries), nil
}

func (u *doctorUsecase) GetDepartmentDoctors(ctx context.Context, code string) (*dto.DepartmentDoctorsResponse, error) {
	department, err := u.departmentRepo.FindByCode(ctx, code)
	if err != nil {
		u.log.Warnf("Failed to find department %s: %+v", code, err)
		return nil, err
	}
	if department == nil {
		return nil, ErrDepartmentNotFound
	}

	// Doctors are loaded without their department; attach it for the response
	doctors := make([]entity.Doctor, len(department.Doctors))
	for i, d := range department.Doctors {
		d.Department = department
		doctors[i] = d
	}

	return &dto.DepartmentDoctorsResponse{
		Department: *converter.DepartmentToResponse(department),
		Doctors:    converter.DoctorsToResponses(doctors),
	}, nil
}

func (u *doctorUsecase) GetStats(ctx context.Context) (*dto.DoctorStatsResponse, error) {
	totalDoctors, err := u.doctorRepo.Count(ctx)
	if err != nil {
		u.log.Warnf("Failed to count doctors: %+v", err)
		return nil, err
	}

	summaries, err := u.departmentRepo.FindAllWithDoctorCount(ctx)
	if err != nil {
		u.log.Warnf("Failed to find departments: %+v", err)
		return nil, err
	}

	breakdown := make([]dto.DepartmentBreakdown, len(summaries))
	for i, s := range summaries {
		breakdown[i] = dto.DepartmentBreakdown{
			Department:  s.Name,
			Code:        s.Code,
			DoctorCount: s.DoctorCount,
		}
	}

	return &dto.DoctorStatsResponse{
		TotalDoctors:        totalDoctors,
		TotalDepartments:    int64(len(summaries)),
		DepartmentBreakdown: breakdown,
		LastUpdated:         u.now().UTC(),
	}, nil
}
