// Package testutil opens in-memory SQLite databases carrying the same tables,
// constraints and partial unique index as the Postgres migrations.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/RouteClouds/Health-Care-Management-System/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE roles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		role_name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	);`,
	`INSERT INTO roles (id, role_name, description) VALUES
		(1, 'ADMIN', 'System administrator'),
		(2, 'DOCTOR', 'Medical practitioner'),
		(3, 'PATIENT', 'Patient booking appointments');`,
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		role_id INTEGER NOT NULL REFERENCES roles (id),
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE departments (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		code TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE doctors (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		specialization TEXT NOT NULL,
		department_id TEXT NOT NULL REFERENCES departments (id),
		qualifications JSON,
		experience_years INTEGER NOT NULL DEFAULT 0,
		consultation_fee NUMERIC NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE appointments (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL,
		doctor_id TEXT NOT NULL,
		date_time DATETIME NOT NULL,
		type TEXT NOT NULL DEFAULT 'IN_PERSON' CHECK (type IN ('IN_PERSON', 'TELEMEDICINE')),
		status TEXT NOT NULL DEFAULT 'SCHEDULED' CHECK (status IN ('SCHEDULED', 'COMPLETED', 'CANCELLED', 'NO_SHOW')),
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE UNIQUE INDEX ux_appointments_doctor_active_slot
		ON appointments (doctor_id, date_time)
		WHERE status <> 'CANCELLED';`,
	`CREATE TABLE audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT,
		action TEXT NOT NULL,
		metadata TEXT,
		created_at DATETIME
	);`,
}

var dbSeq atomic.Int64

// OpenDB returns a fresh database private to t. A single connection keeps
// the shared-cache memory database alive for the whole test.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

// Logger discards output unless the test runs verbose.
func Logger(t testing.TB) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(testWriter{t})
	return log
}

type testWriter struct{ t testing.TB }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func CreateDepartment(t testing.TB, db *gorm.DB, code, name string) *entity.Department {
	t.Helper()
	department := &entity.Department{Name: name, Code: code, Description: name + " department"}
	if err := db.Omit("Doctors").Create(department).Error; err != nil {
		t.Fatalf("create department %s: %v", code, err)
	}
	return department
}

func CreateDoctor(t testing.TB, db *gorm.DB, department *entity.Department, firstName, lastName, specialization string) *entity.Doctor {
	t.Helper()
	doctor := &entity.Doctor{
		FirstName:       firstName,
		LastName:        lastName,
		Email:           strings.ToLower(firstName+"."+lastName) + "@clinic.test",
		Specialization:  specialization,
		DepartmentID:    department.ID,
		Qualifications:  datatypes.JSONSlice[string]{"MD"},
		ExperienceYears: 5,
		ConsultationFee: decimal.NewFromInt(150),
	}
	if err := db.Omit("Department").Create(doctor).Error; err != nil {
		t.Fatalf("create doctor %s: %v", lastName, err)
	}
	return doctor
}

func CreatePatient(t testing.TB, db *gorm.DB, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:        uuid.New(),
		RoleID:    entity.RoleIDPatient,
		Username:  username,
		Email:     username + "@example.com",
		Password:  "not-a-hash",
		FirstName: "Test",
		LastName:  "Patient",
		IsActive:  true,
	}
	if err := db.Omit("Role").Create(user).Error; err != nil {
		t.Fatalf("create patient %s: %v", username, err)
	}
	return user
}
