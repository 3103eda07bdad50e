// file: internals/features/finance/invoices/model/invoice_model.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/ledger"
)

// Invoice: tagihan satu siswa untuk satu periode (mis. "2026-07").
// total = Σ item, paid = Σ payment completed; status dihitung ulang dari
// keduanya — tidak pernah di-set manual. Maksimal satu invoice per
// (siswa, periode, sekolah). Hard delete: hapus invoice ikut menghapus
// item & payment-nya di dalam satu transaksi service.
type Invoice struct {
	InvoiceID uuid.UUID `gorm:"column:invoice_id;type:uuid;primaryKey" json:"invoice_id"`

	InvoiceStudentID     uuid.UUID `gorm:"column:invoice_student_id;type:uuid;not null;index:ix_invoice_student;uniqueIndex:uq_invoice_student_period,priority:1" json:"invoice_student_id"`
	InvoiceBillingPeriod string    `gorm:"column:invoice_billing_period;type:varchar(40);not null;uniqueIndex:uq_invoice_student_period,priority:2" json:"invoice_billing_period"`
	InvoiceSchoolCode    string    `gorm:"column:invoice_school_code;type:varchar(40);not null;index:ix_invoice_school;uniqueIndex:uq_invoice_student_period,priority:3" json:"invoice_school_code"`

	InvoiceAcademicYearID uuid.UUID  `gorm:"column:invoice_academic_year_id;type:uuid;not null;index:ix_invoice_year" json:"invoice_academic_year_id"`
	InvoiceClassID        *uuid.UUID `gorm:"column:invoice_class_id;type:uuid;index:ix_invoice_class" json:"invoice_class_id,omitempty"`

	InvoiceDueDate time.Time `gorm:"column:invoice_due_date;type:date;not null" json:"invoice_due_date"`
	InvoiceNotes   *string   `gorm:"column:invoice_notes;type:text" json:"invoice_notes,omitempty"`

	InvoiceTotalAmountIDR int64                `gorm:"column:invoice_total_amount_idr;not null;default:0" json:"invoice_total_amount_idr"`
	InvoicePaidAmountIDR  int64                `gorm:"column:invoice_paid_amount_idr;not null;default:0;check:invoice_paid_amount_idr>=0" json:"invoice_paid_amount_idr"`
	InvoiceStatus         ledger.InvoiceStatus `gorm:"column:invoice_status;type:varchar(16);not null;default:'unpaid';index:ix_invoice_status" json:"invoice_status"`

	InvoiceCreatedAt time.Time `gorm:"column:invoice_created_at;not null" json:"invoice_created_at"`
	InvoiceUpdatedAt time.Time `gorm:"column:invoice_updated_at;not null" json:"invoice_updated_at"`

	// Diisi saat query detail (bukan kolom).
	Items []InvoiceItem `gorm:"foreignKey:InvoiceItemInvoiceID;references:InvoiceID" json:"items,omitempty"`
}

func (Invoice) TableName() string { return "invoices" }

func (m *Invoice) BeforeCreate(tx *gorm.DB) error {
	if m.InvoiceID == uuid.Nil {
		m.InvoiceID = uuid.New()
	}
	if m.InvoiceStudentID == uuid.Nil {
		return fmt.Errorf("invoice_student_id is required")
	}
	if strings.TrimSpace(m.InvoiceBillingPeriod) == "" {
		return fmt.Errorf("invoice_billing_period is required")
	}
	if strings.TrimSpace(m.InvoiceSchoolCode) == "" {
		return fmt.Errorf("invoice_school_code is required")
	}
	if m.InvoiceAcademicYearID == uuid.Nil {
		return fmt.Errorf("invoice_academic_year_id is required")
	}
	if m.InvoiceDueDate.IsZero() {
		return fmt.Errorf("invoice_due_date is required")
	}
	if m.InvoiceStatus == "" {
		m.InvoiceStatus = ledger.InvoiceStatusUnpaid
	}
	now := time.Now()
	if m.InvoiceCreatedAt.IsZero() {
		m.InvoiceCreatedAt = now
	}
	m.InvoiceUpdatedAt = now
	return nil
}

func (m *Invoice) BeforeUpdate(tx *gorm.DB) error {
	m.InvoiceUpdatedAt = time.Now()
	return nil
}
