// file: internals/features/academics/classes/model/class_model.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Class: rombongan belajar pada satu tahun ajaran.
type Class struct {
	ClassID uuid.UUID `gorm:"column:class_id;type:uuid;primaryKey" json:"class_id"`

	ClassSchoolCode     string    `gorm:"column:class_school_code;type:varchar(40);not null;index:ix_class_school;uniqueIndex:uq_class_scope_name,priority:1" json:"class_school_code"`
	ClassAcademicYearID uuid.UUID `gorm:"column:class_academic_year_id;type:uuid;not null;index;uniqueIndex:uq_class_scope_name,priority:2" json:"class_academic_year_id"`
	ClassName           string    `gorm:"column:class_name;type:varchar(60);not null;uniqueIndex:uq_class_scope_name,priority:3" json:"class_name"`

	ClassIsActive bool `gorm:"column:class_is_active;not null" json:"class_is_active"`

	ClassCreatedAt time.Time `gorm:"column:class_created_at;not null" json:"class_created_at"`
	ClassUpdatedAt time.Time `gorm:"column:class_updated_at;not null" json:"class_updated_at"`
}

func (Class) TableName() string { return "classes" }

func (m *Class) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	if strings.TrimSpace(m.ClassSchoolCode) == "" {
		return fmt.Errorf("class_school_code is required")
	}
	if m.ClassAcademicYearID == uuid.Nil {
		return fmt.Errorf("class_academic_year_id is required")
	}
	if strings.TrimSpace(m.ClassName) == "" {
		return fmt.Errorf("class_name is required")
	}
	now := time.Now()
	if m.ClassCreatedAt.IsZero() {
		m.ClassCreatedAt = now
	}
	m.ClassUpdatedAt = now
	return nil
}

func (m *Class) BeforeUpdate(tx *gorm.DB) error {
	m.ClassUpdatedAt = time.Now()
	return nil
}
