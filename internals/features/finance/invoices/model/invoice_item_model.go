// file: internals/features/finance/invoices/model/invoice_item_model.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceItem: baris tagihan. Amount boleh negatif (diskon/penyesuaian);
// yang dijaga adalah total invoice, bukan per baris.
type InvoiceItem struct {
	InvoiceItemID uuid.UUID `gorm:"column:invoice_item_id;type:uuid;primaryKey" json:"invoice_item_id"`

	InvoiceItemInvoiceID uuid.UUID `gorm:"column:invoice_item_invoice_id;type:uuid;not null;index:ix_invoice_item_invoice" json:"invoice_item_invoice_id"`

	// Jejak asal komponen; null untuk baris manual.
	InvoiceItemComponentTypeID *uuid.UUID `gorm:"column:invoice_item_component_type_id;type:uuid;index:ix_invoice_item_component" json:"invoice_item_component_type_id,omitempty"`

	InvoiceItemLabel     string `gorm:"column:invoice_item_label;type:varchar(120);not null" json:"invoice_item_label"`
	InvoiceItemAmountIDR int64  `gorm:"column:invoice_item_amount_idr;not null" json:"invoice_item_amount_idr"`

	InvoiceItemCreatedAt time.Time `gorm:"column:invoice_item_created_at;not null" json:"invoice_item_created_at"`
	InvoiceItemUpdatedAt time.Time `gorm:"column:invoice_item_updated_at;not null" json:"invoice_item_updated_at"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

func (m *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if m.InvoiceItemID == uuid.Nil {
		m.InvoiceItemID = uuid.New()
	}
	if m.InvoiceItemInvoiceID == uuid.Nil {
		return fmt.Errorf("invoice_item_invoice_id is required")
	}
	if strings.TrimSpace(m.InvoiceItemLabel) == "" {
		return fmt.Errorf("invoice_item_label is required")
	}
	now := time.Now()
	if m.InvoiceItemCreatedAt.IsZero() {
		m.InvoiceItemCreatedAt = now
	}
	m.InvoiceItemUpdatedAt = now
	return nil
}

func (m *InvoiceItem) BeforeUpdate(tx *gorm.DB) error {
	m.InvoiceItemUpdatedAt = time.Now()
	return nil
}
