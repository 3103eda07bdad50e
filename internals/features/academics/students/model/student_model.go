// file: internals/features/academics/students/model/student_model.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student merepresentasikan tabel students (murid terdaftar per sekolah).
type Student struct {
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`

	StudentSchoolCode string `gorm:"column:student_school_code;type:varchar(40);not null;index:ix_student_school;uniqueIndex:uq_student_school_nis,priority:1" json:"student_school_code"`

	StudentName string  `gorm:"column:student_name;type:varchar(120);not null" json:"student_name"`
	StudentNIS  *string `gorm:"column:student_nis;type:varchar(30);uniqueIndex:uq_student_school_nis,priority:2" json:"student_nis,omitempty"` // nomor induk siswa

	StudentIsActive bool `gorm:"column:student_is_active;not null;index:ix_student_active" json:"student_is_active"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;not null" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;not null" json:"student_updated_at"`
}

func (Student) TableName() string { return "students" }

func (m *Student) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	if strings.TrimSpace(m.StudentSchoolCode) == "" {
		return fmt.Errorf("student_school_code is required")
	}
	if strings.TrimSpace(m.StudentName) == "" {
		return fmt.Errorf("student_name is required")
	}
	now := time.Now()
	if m.StudentCreatedAt.IsZero() {
		m.StudentCreatedAt = now
	}
	m.StudentUpdatedAt = now
	return nil
}

func (m *Student) BeforeUpdate(tx *gorm.DB) error {
	m.StudentUpdatedAt = time.Now()
	return nil
}
