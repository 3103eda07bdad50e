// file: internals/features/finance/payments/model/payment_model.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ================================
   ENUM mirror (harus cocok dgn DB)
================================ */

type PaymentMethod string
type PaymentStatus string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodOnline       PaymentMethod = "online"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

const (
	// pending: menunggu settlement gateway. Sudah memesan sisa tagihan
	// (ikut dihitung saat cek overpayment) tapi belum masuk paid_amount.
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusCanceled  PaymentStatus = "canceled"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline,
		PaymentMethodCheque, PaymentMethodBankTransfer:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed,
		PaymentStatusExpired, PaymentStatusCanceled:
		return true
	}
	return false
}

// CountsTowardPaid: hanya completed yang masuk invoice_paid_amount_idr.
func (s PaymentStatus) CountsTowardPaid() bool { return s == PaymentStatusCompleted }

// ReservesBalance: status yang ikut dihitung saat cek overpayment.
func (s PaymentStatus) ReservesBalance() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusPending
}

/* ================================
   MODEL: payments
================================ */

// Payment: satu setoran. Targetnya salah satu dari tiga scope:
// invoice (ter-alokasi ke total), invoice item, atau komponen langsung
// (component_type + student, dicek terhadap plan item siswa).
type Payment struct {
	PaymentID uuid.UUID `json:"payment_id" gorm:"column:payment_id;type:uuid;primaryKey"`

	// ===== Target scope (salah satu WAJIB terisi) =====
	PaymentInvoiceID       *uuid.UUID `json:"payment_invoice_id,omitempty"        gorm:"column:payment_invoice_id;type:uuid;index:ix_payment_invoice"`
	PaymentInvoiceItemID   *uuid.UUID `json:"payment_invoice_item_id,omitempty"   gorm:"column:payment_invoice_item_id;type:uuid;index:ix_payment_invoice_item"`
	PaymentComponentTypeID *uuid.UUID `json:"payment_component_type_id,omitempty" gorm:"column:payment_component_type_id;type:uuid;index:ix_payment_component"`

	// Tenant & subjek
	PaymentStudentID  uuid.UUID `json:"payment_student_id"  gorm:"column:payment_student_id;type:uuid;not null;index:ix_payment_student"`
	PaymentSchoolCode string    `json:"payment_school_code" gorm:"column:payment_school_code;type:varchar(40);not null;index:ix_payment_school"`

	// Nominal & metode
	PaymentAmountIDR int64         `json:"payment_amount_idr" gorm:"column:payment_amount_idr;not null;check:payment_amount_idr>0"`
	PaymentMethod    PaymentMethod `json:"payment_method"     gorm:"column:payment_method;type:varchar(20);not null"`
	PaymentStatus    PaymentStatus `json:"payment_status"     gorm:"column:payment_status;type:varchar(20);not null;default:'completed';index:ix_payment_status"`

	PaymentDate          time.Time `json:"payment_date"                    gorm:"column:payment_date;not null"`
	PaymentReceiptNumber *string   `json:"payment_receipt_number,omitempty" gorm:"column:payment_receipt_number;type:varchar(60)"`
	PaymentNotes         *string   `json:"payment_notes,omitempty"          gorm:"column:payment_notes;type:text"`

	// Snapshot nama pencatat saat transaksi (bukan FK).
	PaymentRecordedBy *string `json:"payment_recorded_by,omitempty" gorm:"column:payment_recorded_by;type:varchar(120)"`

	// Info gateway (NULL jika manual)
	PaymentGatewayOrderID       *string        `json:"payment_gateway_order_id,omitempty"       gorm:"column:payment_gateway_order_id;type:varchar(64);uniqueIndex:uq_payment_gateway_order"`
	PaymentGatewayTransactionID *string        `json:"payment_gateway_transaction_id,omitempty" gorm:"column:payment_gateway_transaction_id;type:varchar(80)"`
	PaymentGatewayMeta          datatypes.JSON `json:"payment_gateway_meta,omitempty"           gorm:"column:payment_gateway_meta;type:jsonb"`

	// Timestamps status gateway
	PaymentPaidAt     *time.Time `json:"payment_paid_at,omitempty"     gorm:"column:payment_paid_at"`
	PaymentFailedAt   *time.Time `json:"payment_failed_at,omitempty"   gorm:"column:payment_failed_at"`
	PaymentCanceledAt *time.Time `json:"payment_canceled_at,omitempty" gorm:"column:payment_canceled_at"`

	// Audit
	PaymentCreatedAt time.Time `json:"payment_created_at" gorm:"column:payment_created_at;not null"`
	PaymentUpdatedAt time.Time `json:"payment_updated_at" gorm:"column:payment_updated_at;not null"`
}

func (Payment) TableName() string { return "payments" }

func (m *Payment) BeforeCreate(tx *gorm.DB) error {
	if m.PaymentID == uuid.Nil {
		m.PaymentID = uuid.New()
	}
	if m.PaymentStudentID == uuid.Nil {
		return fmt.Errorf("payment_student_id is required")
	}
	if strings.TrimSpace(m.PaymentSchoolCode) == "" {
		return fmt.Errorf("payment_school_code is required")
	}
	if m.PaymentAmountIDR <= 0 {
		return fmt.Errorf("payment_amount_idr must be > 0")
	}
	if !m.PaymentMethod.Valid() {
		return fmt.Errorf("payment_method %q is not valid", m.PaymentMethod)
	}
	if m.PaymentStatus == "" {
		m.PaymentStatus = PaymentStatusCompleted
	}
	if !m.PaymentStatus.Valid() {
		return fmt.Errorf("payment_status %q is not valid", m.PaymentStatus)
	}
	now := time.Now()
	if m.PaymentDate.IsZero() {
		m.PaymentDate = now
	}
	if m.PaymentCreatedAt.IsZero() {
		m.PaymentCreatedAt = now
	}
	m.PaymentUpdatedAt = now
	return nil
}

func (m *Payment) BeforeUpdate(tx *gorm.DB) error {
	m.PaymentUpdatedAt = time.Now()
	return nil
}
