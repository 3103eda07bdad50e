// file: internals/features/academics/academic_years/model/academic_year_model.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AcademicYear: referensi tahun ajaran per sekolah ("2025/2026").
// Invoice dan fee plan selalu ber-scope ke satu tahun ajaran.
type AcademicYear struct {
	AcademicYearID uuid.UUID `gorm:"column:academic_year_id;type:uuid;primaryKey" json:"academic_year_id"`

	AcademicYearSchoolCode string `gorm:"column:academic_year_school_code;type:varchar(40);not null;index:ix_academic_year_school;uniqueIndex:uq_academic_year_school_name,priority:1" json:"academic_year_school_code"`
	AcademicYearName       string `gorm:"column:academic_year_name;type:varchar(20);not null;uniqueIndex:uq_academic_year_school_name,priority:2" json:"academic_year_name"`

	AcademicYearStartDate *time.Time `gorm:"column:academic_year_start_date;type:date" json:"academic_year_start_date,omitempty"`
	AcademicYearEndDate   *time.Time `gorm:"column:academic_year_end_date;type:date" json:"academic_year_end_date,omitempty"`

	AcademicYearIsActive bool `gorm:"column:academic_year_is_active;not null;index:ix_academic_year_active" json:"academic_year_is_active"`

	AcademicYearCreatedAt time.Time `gorm:"column:academic_year_created_at;not null" json:"academic_year_created_at"`
	AcademicYearUpdatedAt time.Time `gorm:"column:academic_year_updated_at;not null" json:"academic_year_updated_at"`
}

func (AcademicYear) TableName() string { return "academic_years" }

func (m *AcademicYear) BeforeCreate(tx *gorm.DB) error {
	if m.AcademicYearID == uuid.Nil {
		m.AcademicYearID = uuid.New()
	}
	if strings.TrimSpace(m.AcademicYearSchoolCode) == "" {
		return fmt.Errorf("academic_year_school_code is required")
	}
	if strings.TrimSpace(m.AcademicYearName) == "" {
		return fmt.Errorf("academic_year_name is required")
	}
	now := time.Now()
	if m.AcademicYearCreatedAt.IsZero() {
		m.AcademicYearCreatedAt = now
	}
	m.AcademicYearUpdatedAt = now
	return nil
}

func (m *AcademicYear) BeforeUpdate(tx *gorm.DB) error {
	m.AcademicYearUpdatedAt = time.Now()
	return nil
}
