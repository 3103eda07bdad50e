// file: internals/features/finance/fee_components/model/fee_component_type_model.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeeComponentType: kategori biaya per sekolah ("SPP", "Transport", dst).
// Referensi — begitu dipakai plan item atau payment, baris ini tidak boleh
// diubah/dihapus lagi (dicek di controller sebelum update/delete).
type FeeComponentType struct {
	FeeComponentTypeID uuid.UUID `gorm:"column:fee_component_type_id;type:uuid;primaryKey" json:"fee_component_type_id"`

	FeeComponentTypeSchoolCode string `gorm:"column:fee_component_type_school_code;type:varchar(40);not null;index:ix_fee_component_school;uniqueIndex:uq_fee_component_school_name,priority:1" json:"fee_component_type_school_code"`
	FeeComponentTypeName       string `gorm:"column:fee_component_type_name;type:varchar(80);not null;uniqueIndex:uq_fee_component_school_name,priority:2" json:"fee_component_type_name"`

	FeeComponentTypeDefaultAmountIDR *int64 `gorm:"column:fee_component_type_default_amount_idr;check:fee_component_type_default_amount_idr>=0" json:"fee_component_type_default_amount_idr,omitempty"`

	FeeComponentTypeCreatedAt time.Time      `gorm:"column:fee_component_type_created_at;not null" json:"fee_component_type_created_at"`
	FeeComponentTypeUpdatedAt time.Time      `gorm:"column:fee_component_type_updated_at;not null" json:"fee_component_type_updated_at"`
	FeeComponentTypeDeletedAt gorm.DeletedAt `gorm:"column:fee_component_type_deleted_at;index" json:"-"`
}

func (FeeComponentType) TableName() string { return "fee_component_types" }

func (m *FeeComponentType) BeforeCreate(tx *gorm.DB) error {
	if m.FeeComponentTypeID == uuid.Nil {
		m.FeeComponentTypeID = uuid.New()
	}
	if strings.TrimSpace(m.FeeComponentTypeSchoolCode) == "" {
		return fmt.Errorf("fee_component_type_school_code is required")
	}
	if strings.TrimSpace(m.FeeComponentTypeName) == "" {
		return fmt.Errorf("fee_component_type_name is required")
	}
	if m.FeeComponentTypeDefaultAmountIDR != nil && *m.FeeComponentTypeDefaultAmountIDR < 0 {
		return fmt.Errorf("fee_component_type_default_amount_idr must be >= 0")
	}
	now := time.Now()
	if m.FeeComponentTypeCreatedAt.IsZero() {
		m.FeeComponentTypeCreatedAt = now
	}
	m.FeeComponentTypeUpdatedAt = now
	return nil
}

func (m *FeeComponentType) BeforeUpdate(tx *gorm.DB) error {
	m.FeeComponentTypeUpdatedAt = time.Now()
	return nil
}
