// file: internals/features/academics/classes/model/class_student_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassStudent: keanggotaan murid pada satu kelas (enrollment).
// "Terdaftar di kelas" = baris dengan is_active = true.
type ClassStudent struct {
	ClassStudentID uuid.UUID `gorm:"column:class_student_id;type:uuid;primaryKey" json:"class_student_id"`

	ClassStudentClassID   uuid.UUID `gorm:"column:class_student_class_id;type:uuid;not null;index;uniqueIndex:uq_class_student,priority:1" json:"class_student_class_id"`
	ClassStudentStudentID uuid.UUID `gorm:"column:class_student_student_id;type:uuid;not null;index;uniqueIndex:uq_class_student,priority:2" json:"class_student_student_id"`

	ClassStudentIsActive bool `gorm:"column:class_student_is_active;not null;index:ix_class_student_active" json:"class_student_is_active"`

	ClassStudentCreatedAt time.Time `gorm:"column:class_student_created_at;not null" json:"class_student_created_at"`
	ClassStudentUpdatedAt time.Time `gorm:"column:class_student_updated_at;not null" json:"class_student_updated_at"`
}

func (ClassStudent) TableName() string { return "class_students" }

func (m *ClassStudent) BeforeCreate(tx *gorm.DB) error {
	if m.ClassStudentID == uuid.Nil {
		m.ClassStudentID = uuid.New()
	}
	if m.ClassStudentClassID == uuid.Nil {
		return fmt.Errorf("class_student_class_id is required")
	}
	if m.ClassStudentStudentID == uuid.Nil {
		return fmt.Errorf("class_student_student_id is required")
	}
	now := time.Now()
	if m.ClassStudentCreatedAt.IsZero() {
		m.ClassStudentCreatedAt = now
	}
	m.ClassStudentUpdatedAt = now
	return nil
}

func (m *ClassStudent) BeforeUpdate(tx *gorm.DB) error {
	m.ClassStudentUpdatedAt = time.Now()
	return nil
}
