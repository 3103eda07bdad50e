// file: internals/features/finance/invoices/dto/invoice_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"sekolahku_backend/internals/features/finance/invoices/model"
	"sekolahku_backend/internals/features/finance/ledger"
)

////////////////////////////////////////////////////////////////////////////////
// GENERATE — DTO
////////////////////////////////////////////////////////////////////////////////

// Satu baris item snapshot untuk generate. Amount nol sah (gratis);
// label kosong / amount negatif di-drop generator.
type InvoiceGenerateItemDTO struct {
	Label           string     `json:"label"`
	AmountIDR       int64      `json:"amount_idr"`
	ComponentTypeID *uuid.UUID `json:"component_type_id,omitempty"`
}

// Generate invoice massal untuk satu kelas & satu periode.
// Idempotent: siswa yang sudah punya invoice periode itu dihitung skipped.
// academic_year_id opsional — default mengikuti tahun ajaran kelasnya.
type InvoiceGenerateDTO struct {
	ClassID        uuid.UUID                `json:"class_id" validate:"required"`
	BillingPeriod  string                   `json:"billing_period" validate:"required,min=4,max=40"` // contoh: "2026-07"
	AcademicYearID *uuid.UUID               `json:"academic_year_id,omitempty"`
	DueDate        string                   `json:"due_date" validate:"required,datetime=2006-01-02"`
	Items          []InvoiceGenerateItemDTO `json:"items" validate:"required"`
	Notes          *string                  `json:"notes,omitempty"`
}

type InvoiceGenerateResultResponse struct {
	ClassID       uuid.UUID   `json:"class_id"`
	BillingPeriod string      `json:"billing_period"`
	Created       int         `json:"created"`
	Skipped       int         `json:"skipped"`
	InvoiceIDs    []uuid.UUID `json:"invoice_ids"`
}

////////////////////////////////////////////////////////////////////////////////
// ITEM MUTATIONS — DTO
////////////////////////////////////////////////////////////////////////////////

type InvoiceItemInputDTO struct {
	InvoiceItemComponentTypeID *uuid.UUID `json:"invoice_item_component_type_id,omitempty"`
	InvoiceItemLabel           string     `json:"invoice_item_label" validate:"required,min=1,max=120"`
	// Boleh negatif (diskon/penyesuaian).
	InvoiceItemAmountIDR int64 `json:"invoice_item_amount_idr"`
}

type InvoiceAddItemsDTO struct {
	Items []InvoiceItemInputDTO `json:"items" validate:"required,min=1,dive"`
}

type InvoiceRemoveItemsDTO struct {
	ItemIDs []uuid.UUID `json:"item_ids" validate:"required,min=1,dive,required"`
}

type InvoiceItemUpdateDTO struct {
	InvoiceItemLabel     *string `json:"invoice_item_label,omitempty" validate:"omitempty,min=1,max=120"`
	InvoiceItemAmountIDR *int64  `json:"invoice_item_amount_idr,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// INVOICE PATCH — DTO
////////////////////////////////////////////////////////////////////////////////

type InvoiceUpdateDTO struct {
	InvoiceDueDate *string `json:"invoice_due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	InvoiceNotes   *string `json:"invoice_notes,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// Responses
////////////////////////////////////////////////////////////////////////////////

type InvoiceItemResponse struct {
	InvoiceItemID              uuid.UUID  `json:"invoice_item_id"`
	InvoiceItemInvoiceID       uuid.UUID  `json:"invoice_item_invoice_id"`
	InvoiceItemComponentTypeID *uuid.UUID `json:"invoice_item_component_type_id,omitempty"`
	InvoiceItemLabel           string     `json:"invoice_item_label"`
	InvoiceItemAmountIDR       int64      `json:"invoice_item_amount_idr"`
	InvoiceItemCreatedAt       time.Time  `json:"invoice_item_created_at"`
	InvoiceItemUpdatedAt       time.Time  `json:"invoice_item_updated_at"`
}

type InvoiceResponse struct {
	InvoiceID             uuid.UUID  `json:"invoice_id"`
	InvoiceStudentID      uuid.UUID  `json:"invoice_student_id"`
	InvoiceBillingPeriod  string     `json:"invoice_billing_period"`
	InvoiceSchoolCode     string     `json:"invoice_school_code"`
	InvoiceAcademicYearID uuid.UUID  `json:"invoice_academic_year_id"`
	InvoiceClassID        *uuid.UUID `json:"invoice_class_id,omitempty"`

	InvoiceDueDate time.Time `json:"invoice_due_date"`
	InvoiceNotes   *string   `json:"invoice_notes,omitempty"`

	InvoiceTotalAmountIDR int64  `json:"invoice_total_amount_idr"`
	InvoicePaidAmountIDR  int64  `json:"invoice_paid_amount_idr"`
	InvoiceBalanceIDR     int64  `json:"invoice_balance_idr"` // display: dijepit ke 0
	InvoiceStatus         string `json:"invoice_status"`
	// true bila total turun di bawah paid setelah edit item (tidak pernah dijepit).
	InvoiceOverpaid bool `json:"invoice_overpaid,omitempty"`

	Items []InvoiceItemResponse `json:"items,omitempty"`

	InvoiceCreatedAt time.Time `json:"invoice_created_at"`
	InvoiceUpdatedAt time.Time `json:"invoice_updated_at"`
}

////////////////////////////////////////////////////////////////////////////////
// Mappers
////////////////////////////////////////////////////////////////////////////////

func ToInvoiceItemResponse(m model.InvoiceItem) InvoiceItemResponse {
	return InvoiceItemResponse{
		InvoiceItemID:              m.InvoiceItemID,
		InvoiceItemInvoiceID:       m.InvoiceItemInvoiceID,
		InvoiceItemComponentTypeID: m.InvoiceItemComponentTypeID,
		InvoiceItemLabel:           m.InvoiceItemLabel,
		InvoiceItemAmountIDR:       m.InvoiceItemAmountIDR,
		InvoiceItemCreatedAt:       m.InvoiceItemCreatedAt,
		InvoiceItemUpdatedAt:       m.InvoiceItemUpdatedAt,
	}
}

func ToInvoiceItemResponses(list []model.InvoiceItem) []InvoiceItemResponse {
	out := make([]InvoiceItemResponse, 0, len(list))
	for _, v := range list {
		out = append(out, ToInvoiceItemResponse(v))
	}
	return out
}

func ToInvoiceResponse(m model.Invoice, withItems bool) InvoiceResponse {
	r := InvoiceResponse{
		InvoiceID:             m.InvoiceID,
		InvoiceStudentID:      m.InvoiceStudentID,
		InvoiceBillingPeriod:  m.InvoiceBillingPeriod,
		InvoiceSchoolCode:     m.InvoiceSchoolCode,
		InvoiceAcademicYearID: m.InvoiceAcademicYearID,
		InvoiceClassID:        m.InvoiceClassID,
		InvoiceDueDate:        m.InvoiceDueDate,
		InvoiceNotes:          m.InvoiceNotes,
		InvoiceTotalAmountIDR: m.InvoiceTotalAmountIDR,
		InvoicePaidAmountIDR:  m.InvoicePaidAmountIDR,
		InvoiceBalanceIDR:     ledger.Balance(m.InvoiceTotalAmountIDR, m.InvoicePaidAmountIDR),
		InvoiceStatus:         string(m.InvoiceStatus),
		InvoiceOverpaid:       ledger.Overpaid(m.InvoiceTotalAmountIDR, m.InvoicePaidAmountIDR),
		InvoiceCreatedAt:      m.InvoiceCreatedAt,
		InvoiceUpdatedAt:      m.InvoiceUpdatedAt,
	}
	if withItems {
		r.Items = ToInvoiceItemResponses(m.Items)
	}
	return r
}

func ToInvoiceResponses(list []model.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for _, v := range list {
		out = append(out, ToInvoiceResponse(v, false))
	}
	return out
}
