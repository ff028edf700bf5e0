package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Doctor is a bookable practitioner within a department
type Doctor struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName       string                      `gorm:"type:varchar(50);not null" json:"firstName"`
	LastName        string                      `gorm:"type:varchar(50);not null" json:"lastName"`
	Email           string                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Specialization  string                      `gorm:"type:varchar(150);not null" json:"specialization"`
	DepartmentID    uuid.UUID                   `gorm:"type:uuid;not null;index" json:"departmentId"`
	Qualifications  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"qualifications"`
	ExperienceYears int                         `gorm:"not null;default:0" json:"experienceYears"`
	ConsultationFee decimal.Decimal             `gorm:"type:numeric(10,2);not null" json:"consultationFee"`
	CreatedAt       time.Time                   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time                   `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Department *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// FullName returns "FirstName LastName"
func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}
