// file: internals/features/finance/fee_plans/model/fee_student_plan_item_model.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeeStudentPlanItem: satu komponen biaya di dalam plan.
// Satu komponen hanya boleh muncul sekali per plan; kuantitas minimal 1.
type FeeStudentPlanItem struct {
	FeeStudentPlanItemID uuid.UUID `gorm:"column:fee_student_plan_item_id;type:uuid;primaryKey" json:"fee_student_plan_item_id"`

	FeeStudentPlanItemPlanID          uuid.UUID `gorm:"column:fee_student_plan_item_plan_id;type:uuid;not null;index:ix_fee_plan_item_plan;uniqueIndex:uq_fee_plan_item_component,priority:1" json:"fee_student_plan_item_plan_id"`
	FeeStudentPlanItemComponentTypeID uuid.UUID `gorm:"column:fee_student_plan_item_component_type_id;type:uuid;not null;index:ix_fee_plan_item_component;uniqueIndex:uq_fee_plan_item_component,priority:2" json:"fee_student_plan_item_component_type_id"`

	FeeStudentPlanItemAmountIDR int64 `gorm:"column:fee_student_plan_item_amount_idr;not null;check:fee_student_plan_item_amount_idr>=0" json:"fee_student_plan_item_amount_idr"`
	FeeStudentPlanItemQuantity  int   `gorm:"column:fee_student_plan_item_quantity;not null;default:1;check:fee_student_plan_item_quantity>=1" json:"fee_student_plan_item_quantity"`

	FeeStudentPlanItemCreatedAt time.Time `gorm:"column:fee_student_plan_item_created_at;not null" json:"fee_student_plan_item_created_at"`
	FeeStudentPlanItemUpdatedAt time.Time `gorm:"column:fee_student_plan_item_updated_at;not null" json:"fee_student_plan_item_updated_at"`
}

func (FeeStudentPlanItem) TableName() string { return "fee_student_plan_items" }

// Subtotal = amount × quantity.
func (m *FeeStudentPlanItem) Subtotal() int64 {
	return m.FeeStudentPlanItemAmountIDR * int64(m.FeeStudentPlanItemQuantity)
}

func (m *FeeStudentPlanItem) BeforeCreate(tx *gorm.DB) error {
	if m.FeeStudentPlanItemID == uuid.Nil {
		m.FeeStudentPlanItemID = uuid.New()
	}
	if m.FeeStudentPlanItemPlanID == uuid.Nil {
		return fmt.Errorf("fee_student_plan_item_plan_id is required")
	}
	if m.FeeStudentPlanItemComponentTypeID == uuid.Nil {
		return fmt.Errorf("fee_student_plan_item_component_type_id is required")
	}
	if m.FeeStudentPlanItemAmountIDR < 0 {
		return fmt.Errorf("fee_student_plan_item_amount_idr must be >= 0")
	}
	if m.FeeStudentPlanItemQuantity < 1 {
		m.FeeStudentPlanItemQuantity = 1
	}
	now := time.Now()
	if m.FeeStudentPlanItemCreatedAt.IsZero() {
		m.FeeStudentPlanItemCreatedAt = now
	}
	m.FeeStudentPlanItemUpdatedAt = now
	return nil
}

func (m *FeeStudentPlanItem) BeforeUpdate(tx *gorm.DB) error {
	m.FeeStudentPlanItemUpdatedAt = time.Now()
	return nil
}
