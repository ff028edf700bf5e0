package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department groups doctors by medical specialty
type Department struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Code        string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	Doctors []Doctor `gorm:"foreignKey:DepartmentID" json:"doctors,omitempty"`
}

func (Department) TableName() string {
	return "departments"
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DepartmentSummary is a department together with the number of doctors assigned to it
type DepartmentSummary struct {
	ID          uuid.UUID
	Name        string
	Code        string
	Description string
	DoctorCount int64
}
