// Package seed loads the reference departments and doctors, and optionally
// demo patients with booked appointments.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"
	"github.com/RouteClouds/Health-Care-Management-System/internal/repository"
	"github.com/RouteClouds/Health-Care-Management-System/internal/scheduler"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoPassword is the password of every generated patient.
const DemoPassword = "patient123"

type doctorSeed struct {
	department entity.Department
	doctor     entity.Doctor
}

var reference = []doctorSeed{
	{
		department: entity.Department{Name: "Cardiology", Code: "CARD", Description: "Heart and cardiovascular system"},
		doctor: entity.Doctor{
			FirstName: "John", LastName: "Smith", Email: "dr.smith@routeclouds.health",
			Specialization:  "Interventional Cardiology",
			Qualifications:  datatypes.JSONSlice[string]{"MD", "FACC", "Board Certified Cardiologist"},
			ExperienceYears: 15, ConsultationFee: decimal.NewFromInt(200),
		},
	},
	{
		department: entity.Department{Name: "Pulmonology", Code: "PULM", Description: "Lungs and respiratory system"},
		doctor: entity.Doctor{
			FirstName: "Sarah", LastName: "Johnson", Email: "dr.johnson@routeclouds.health",
			Specialization:  "Critical Care Pulmonology",
			Qualifications:  datatypes.JSONSlice[string]{"MD", "FCCP", "Pulmonary Disease Specialist"},
			ExperienceYears: 12, ConsultationFee: decimal.NewFromInt(180),
		},
	},
	{
		department: entity.Department{Name: "Neurology", Code: "NEUR", Description: "Brain and nervous system"},
		doctor: entity.Doctor{
			FirstName: "Michael", LastName: "Williams", Email: "dr.williams@routeclouds.health",
			Specialization:  "Clinical Neurology",
			Qualifications:  datatypes.JSONSlice[string]{"MD", "PhD", "Board Certified Neurologist"},
			ExperienceYears: 18, ConsultationFee: decimal.NewFromInt(220),
		},
	},
	{
		department: entity.Department{Name: "Orthopedics", Code: "ORTH", Description: "Bones, joints, and musculoskeletal system"},
		doctor: entity.Doctor{
			FirstName: "Emily", LastName: "Brown", Email: "dr.brown@routeclouds.health",
			Specialization:  "Orthopedic Surgery",
			Qualifications:  datatypes.JSONSlice[string]{"MD", "FAAOS", "Orthopedic Surgeon"},
			ExperienceYears: 10, ConsultationFee: decimal.NewFromInt(250),
		},
	},
	{
		department: entity.Department{Name: "Nephrology", Code: "NEPH", Description: "Kidneys and urinary system"},
		doctor: entity.Doctor{
			FirstName: "David", LastName: "Davis", Email: "dr.davis@routeclouds.health",
			Specialization:  "Clinical Nephrology",
			Qualifications:  datatypes.JSONSlice[string]{"MD", "FASN", "Kidney Disease Specialist"},
			ExperienceYears: 14, ConsultationFee: decimal.NewFromInt(190),
		},
	},
}

type Seeder struct {
	db  *gorm.DB
	log *logrus.Logger
	loc *time.Location
}

func NewSeeder(db *gorm.DB, log *logrus.Logger, loc *time.Location) *Seeder {
	return &Seeder{db: db, log: log, loc: loc}
}

// Reference upserts the departments and doctors. Running it twice leaves one
// copy of each, keyed by department code and doctor email.
func (s *Seeder) Reference(ctx context.Context) ([]entity.Doctor, error) {
	doctors := make([]entity.Doctor, 0, len(reference))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ref := range reference {
			department := ref.department
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "description"}),
			}).Omit("Doctors").Create(&department).Error; err != nil {
				return fmt.Errorf("upsert department %s: %w", department.Code, err)
			}
			// The conflict path keeps the stored ID; read it back
			var stored entity.Department
			if err := tx.Where("code = ?", department.Code).Take(&stored).Error; err != nil {
				return err
			}
			department = stored

			doctor := ref.doctor
			doctor.DepartmentID = department.ID
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "email"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"first_name", "last_name", "specialization", "department_id",
					"qualifications", "experience_years", "consultation_fee",
				}),
			}).Omit("Department").Create(&doctor).Error; err != nil {
				return fmt.Errorf("upsert doctor %s: %w", doctor.Email, err)
			}
			var storedDoctor entity.Doctor
			if err := tx.Where("email = ?", doctor.Email).Take(&storedDoctor).Error; err != nil {
				return err
			}
			doctor = storedDoctor

			s.log.Infof("Seeded Dr. %s (%s)", doctor.FullName(), department.Name)
			doctors = append(doctors, doctor)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

// Patients creates count demo patients, each holding up to perPatient
// appointments in the next two weeks. Slots already taken are skipped.
func (s *Seeder) Patients(ctx context.Context, doctors []entity.Doctor, count, perPatient int, fakeSeed uint64) (int, error) {
	if len(doctors) == 0 || count <= 0 {
		return 0, nil
	}

	fake := gofakeit.New(fakeSeed)
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	userRepo := repository.NewUserRepository()
	slots := scheduler.Catalog()
	today := time.Now().In(s.loc)
	booked := 0

	for i := 0; i < count; i++ {
		user := &entity.User{
			RoleID:    entity.RoleIDPatient,
			Username:  fmt.Sprintf("patient%d%s", i+1, fake.LetterN(4)),
			Email:     fmt.Sprintf("patient%d.%s@example.com", i+1, fake.LetterN(6)),
			Password:  string(hash),
			FirstName: fake.FirstName(),
			LastName:  fake.LastName(),
			IsActive:  true,
		}
		if err := userRepo.Create(ctx, s.db, user); err != nil {
			return booked, fmt.Errorf("create patient %s: %w", user.Username, err)
		}

		sched := scheduler.New(repository.NewAppointmentRepository(s.db), repository.NewDoctorRepository(s.db), s.loc)
		for j := 0; j < perPatient; j++ {
			doctor := doctors[fake.Number(0, len(doctors)-1)]
			day := today.AddDate(0, 0, fake.Number(1, 14))
			at := day.Format("2006-01-02") + "T" + slots[fake.Number(0, len(slots)-1)]
			apptType := fake.RandomString([]string{string(entity.AppointmentTypeInPerson), string(entity.AppointmentTypeTelemedicine)})

			_, err := sched.Create(ctx, user.ID, scheduler.CreateInput{
				DoctorID: doctor.ID,
				DateTime: at,
				Type:     apptType,
			})
			if errors.Is(err, scheduler.ErrSlotBooked) {
				continue
			}
			if err != nil {
				return booked, fmt.Errorf("book %s for %s: %w", at, user.Username, err)
			}
			booked++
		}
	}

	s.log.Infof("Seeded %d patients with %d appointments", count, booked)
	return booked, nil
}
