// file: internals/features/finance/payments/dto/payment_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/finance/payments/model"
)

////////////////////////////////////////////////////////////////////////////////
// RECORD PAYMENT — DTO (tiga scope, satu jalur validasi di service)
////////////////////////////////////////////////////////////////////////////////

// Data pembeli untuk Snap (opsional, hanya relevan method=online).
type PaymentCustomerDTO struct {
	FirstName string `json:"first_name" validate:"omitempty,max=80"`
	LastName  string `json:"last_name" validate:"omitempty,max=80"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,max=30"`
}

// Bayar ke invoice (dialokasikan ke total).
type PaymentRecordInvoiceDTO struct {
	InvoiceID     uuid.UUID           `json:"invoice_id" validate:"required"`
	AmountIDR     int64               `json:"amount_idr" validate:"required,gt=0"`
	Method        string              `json:"method" validate:"required,oneof=cash card online cheque bank_transfer"`
	ReceiptNumber *string             `json:"receipt_number,omitempty" validate:"omitempty,max=60"`
	Notes         *string             `json:"notes,omitempty"`
	Customer      *PaymentCustomerDTO `json:"customer,omitempty"`
}

// Bayar ke satu baris invoice.
type PaymentRecordInvoiceItemDTO struct {
	InvoiceItemID uuid.UUID           `json:"invoice_item_id" validate:"required"`
	AmountIDR     int64               `json:"amount_idr" validate:"required,gt=0"`
	Method        string              `json:"method" validate:"required,oneof=cash card online cheque bank_transfer"`
	ReceiptNumber *string             `json:"receipt_number,omitempty" validate:"omitempty,max=60"`
	Notes         *string             `json:"notes,omitempty"`
	Customer      *PaymentCustomerDTO `json:"customer,omitempty"`
}

// Bayar komponen langsung (tanpa invoice): dicek terhadap plan item siswa.
type PaymentRecordComponentDTO struct {
	StudentID       uuid.UUID           `json:"student_id" validate:"required"`
	ComponentTypeID uuid.UUID           `json:"component_type_id" validate:"required"`
	AcademicYearID  uuid.UUID           `json:"academic_year_id" validate:"required"`
	AmountIDR       int64               `json:"amount_idr" validate:"required,gt=0"`
	Method          string              `json:"method" validate:"required,oneof=cash card online cheque bank_transfer"`
	ReceiptNumber   *string             `json:"receipt_number,omitempty" validate:"omitempty,max=60"`
	Notes           *string             `json:"notes,omitempty"`
	Customer        *PaymentCustomerDTO `json:"customer,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// Responses
////////////////////////////////////////////////////////////////////////////////

type PaymentResponse struct {
	PaymentID uuid.UUID `json:"payment_id"`

	PaymentInvoiceID       *uuid.UUID `json:"payment_invoice_id,omitempty"`
	PaymentInvoiceItemID   *uuid.UUID `json:"payment_invoice_item_id,omitempty"`
	PaymentComponentTypeID *uuid.UUID `json:"payment_component_type_id,omitempty"`

	PaymentStudentID  uuid.UUID `json:"payment_student_id"`
	PaymentSchoolCode string    `json:"payment_school_code"`

	PaymentAmountIDR int64  `json:"payment_amount_idr"`
	PaymentMethod    string `json:"payment_method"`
	PaymentStatus    string `json:"payment_status"`

	PaymentDate          time.Time `json:"payment_date"`
	PaymentReceiptNumber *string   `json:"payment_receipt_number,omitempty"`
	PaymentNotes         *string   `json:"payment_notes,omitempty"`
	PaymentRecordedBy    *string   `json:"payment_recorded_by,omitempty"`

	// Terisi hanya untuk method=online (Snap).
	PaymentGatewayOrderID *string `json:"payment_gateway_order_id,omitempty"`
	PaymentSnapToken      *string `json:"payment_snap_token,omitempty"`
	PaymentSnapRedirect   *string `json:"payment_snap_redirect,omitempty"`

	PaymentCreatedAt time.Time `json:"payment_created_at"`
}

// Status invoice setelah pembayaran tercatat.
type PaymentWithInvoiceResponse struct {
	Payment PaymentResponse `json:"payment"`

	InvoiceID             *uuid.UUID `json:"invoice_id,omitempty"`
	InvoiceTotalAmountIDR *int64     `json:"invoice_total_amount_idr,omitempty"`
	InvoicePaidAmountIDR  *int64     `json:"invoice_paid_amount_idr,omitempty"`
	InvoiceBalanceIDR     *int64     `json:"invoice_balance_idr,omitempty"`
	InvoiceStatus         *string    `json:"invoice_status,omitempty"`
}

// Saldo komponen (due/paid/remaining) untuk cek sebelum bayar.
// academic_year_id nil = gabungan seluruh plan siswa.
type ComponentBalanceResponse struct {
	StudentID       uuid.UUID  `json:"student_id"`
	ComponentTypeID uuid.UUID  `json:"component_type_id"`
	AcademicYearID  *uuid.UUID `json:"academic_year_id,omitempty"`
	DueIDR          int64      `json:"due_idr"`
	PaidIDR         int64      `json:"paid_idr"`
	RemainingIDR    int64      `json:"remaining_idr"`
}

////////////////////////////////////////////////////////////////////////////////
// Mappers
////////////////////////////////////////////////////////////////////////////////

func ToPaymentResponse(m model.Payment, snapToken, snapRedirect *string) PaymentResponse {
	return PaymentResponse{
		PaymentID:              m.PaymentID,
		PaymentInvoiceID:       m.PaymentInvoiceID,
		PaymentInvoiceItemID:   m.PaymentInvoiceItemID,
		PaymentComponentTypeID: m.PaymentComponentTypeID,
		PaymentStudentID:       m.PaymentStudentID,
		PaymentSchoolCode:      m.PaymentSchoolCode,
		PaymentAmountIDR:       m.PaymentAmountIDR,
		PaymentMethod:          string(m.PaymentMethod),
		PaymentStatus:          string(m.PaymentStatus),
		PaymentDate:            m.PaymentDate,
		PaymentReceiptNumber:   m.PaymentReceiptNumber,
		PaymentNotes:           m.PaymentNotes,
		PaymentRecordedBy:      m.PaymentRecordedBy,
		PaymentGatewayOrderID:  m.PaymentGatewayOrderID,
		PaymentSnapToken:       snapToken,
		PaymentSnapRedirect:    snapRedirect,
		PaymentCreatedAt:       m.PaymentCreatedAt,
	}
}

func ToPaymentResponses(list []model.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(list))
	for _, v := range list {
		out = append(out, ToPaymentResponse(v, nil, nil))
	}
	return out
}
