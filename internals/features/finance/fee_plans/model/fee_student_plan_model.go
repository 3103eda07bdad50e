// file: internals/features/finance/fee_plans/model/fee_student_plan_model.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeeStudentPlan: rencana tagihan satu siswa untuk satu tahun ajaran.
// Maksimal satu plan per (siswa, tahun ajaran, sekolah) — idempotensi
// get-or-create bertumpu pada unique index ini.
type FeeStudentPlan struct {
	FeeStudentPlanID uuid.UUID `gorm:"column:fee_student_plan_id;type:uuid;primaryKey" json:"fee_student_plan_id"`

	FeeStudentPlanStudentID      uuid.UUID `gorm:"column:fee_student_plan_student_id;type:uuid;not null;index:ix_fee_plan_student;uniqueIndex:uq_fee_plan_student_year,priority:1" json:"fee_student_plan_student_id"`
	FeeStudentPlanAcademicYearID uuid.UUID `gorm:"column:fee_student_plan_academic_year_id;type:uuid;not null;index:ix_fee_plan_year;uniqueIndex:uq_fee_plan_student_year,priority:2" json:"fee_student_plan_academic_year_id"`
	FeeStudentPlanSchoolCode     string    `gorm:"column:fee_student_plan_school_code;type:varchar(40);not null;index:ix_fee_plan_school;uniqueIndex:uq_fee_plan_student_year,priority:3" json:"fee_student_plan_school_code"`

	// Kelas asal saat plan dibuat (jejak untuk apply-to-class).
	FeeStudentPlanClassID *uuid.UUID `gorm:"column:fee_student_plan_class_id;type:uuid;index:ix_fee_plan_class" json:"fee_student_plan_class_id,omitempty"`

	FeeStudentPlanCreatedAt time.Time `gorm:"column:fee_student_plan_created_at;not null" json:"fee_student_plan_created_at"`
	FeeStudentPlanUpdatedAt time.Time `gorm:"column:fee_student_plan_updated_at;not null" json:"fee_student_plan_updated_at"`

	// Diisi saat query detail (bukan kolom).
	Items []FeeStudentPlanItem `gorm:"foreignKey:FeeStudentPlanItemPlanID;references:FeeStudentPlanID" json:"items,omitempty"`
}

func (FeeStudentPlan) TableName() string { return "fee_student_plans" }

func (m *FeeStudentPlan) BeforeCreate(tx *gorm.DB) error {
	if m.FeeStudentPlanID == uuid.Nil {
		m.FeeStudentPlanID = uuid.New()
	}
	if m.FeeStudentPlanStudentID == uuid.Nil {
		return fmt.Errorf("fee_student_plan_student_id is required")
	}
	if m.FeeStudentPlanAcademicYearID == uuid.Nil {
		return fmt.Errorf("fee_student_plan_academic_year_id is required")
	}
	if strings.TrimSpace(m.FeeStudentPlanSchoolCode) == "" {
		return fmt.Errorf("fee_student_plan_school_code is required")
	}
	now := time.Now()
	if m.FeeStudentPlanCreatedAt.IsZero() {
		m.FeeStudentPlanCreatedAt = now
	}
	m.FeeStudentPlanUpdatedAt = now
	return nil
}

func (m *FeeStudentPlan) BeforeUpdate(tx *gorm.DB) error {
	m.FeeStudentPlanUpdatedAt = time.Now()
	return nil
}
