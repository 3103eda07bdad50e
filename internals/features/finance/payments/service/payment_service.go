// file: internals/features/finance/payments/service/payment_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	planModel "sekolahku_backend/internals/features/finance/fee_plans/model"
	invoiceModel "sekolahku_backend/internals/features/finance/invoices/model"
	invoiceSvc "sekolahku_backend/internals/features/finance/invoices/service"
	"sekolahku_backend/internals/features/finance/ledger"
	model "sekolahku_backend/internals/features/finance/payments/model"
	helper "sekolahku_backend/internals/helpers"
)

/* =========================================================
   Input / output
========================================================= */

// RecordInput: target pembayaran salah satu dari tiga scope —
// invoice (InvoiceID), invoice item (InvoiceItemID), atau komponen
// (StudentID + ComponentTypeID). Satu jalur validasi untuk semuanya.
type RecordInput struct {
	InvoiceID       *uuid.UUID
	InvoiceItemID   *uuid.UUID
	StudentID       *uuid.UUID
	ComponentTypeID *uuid.UUID
	AcademicYearID  *uuid.UUID // scope komponen: nil = semua plan siswa

	SchoolCode    string
	AmountIDR     int64
	Method        model.PaymentMethod
	ReceiptNumber *string
	Notes         *string
	RecordedBy    *string
	PaymentDate   *time.Time

	Customer *CustomerInput // data pembeli untuk Snap (opsional)
}

type RecordResult struct {
	Payment      model.Payment
	Invoice      *invoiceModel.Invoice // terisi untuk scope invoice/item
	SnapToken    *string
	SnapRedirect *string
}

/* =========================================================
   Record — cek saldo + insert dalam SATU transaksi
========================================================= */

// RecordPayment mencatat pembayaran. Sisa tagihan dihitung ulang di dalam
// transaksi dengan row invoice terkunci, bukan dari bacaan lama — dua
// submit bersamaan tidak bisa sama-sama lolos cek overpayment.
// Method online menyisipkan status pending (memesan sisa tagihan) lalu
// membuat transaksi Snap; metode lain langsung completed.
func RecordPayment(ctx context.Context, db *gorm.DB, in RecordInput) (RecordResult, error) {
	var res RecordResult

	if in.AmountIDR <= 0 {
		return res, helper.NewAppError(400, "INVALID_AMOUNT", "amount must be greater than zero")
	}
	if !in.Method.Valid() {
		return res, helper.NewAppError(400, "INVALID_METHOD", fmt.Sprintf("unknown payment method %q", in.Method))
	}

	status := model.PaymentStatusCompleted
	if in.Method == model.PaymentMethodOnline {
		status = model.PaymentStatusPending
	}

	p := model.Payment{
		PaymentSchoolCode:    in.SchoolCode,
		PaymentAmountIDR:     in.AmountIDR,
		PaymentMethod:        in.Method,
		PaymentStatus:        status,
		PaymentReceiptNumber: in.ReceiptNumber,
		PaymentNotes:         in.Notes,
		PaymentRecordedBy:    in.RecordedBy,
	}
	if in.PaymentDate != nil {
		p.PaymentDate = *in.PaymentDate
	}
	if in.Method == model.PaymentMethodOnline {
		orderID := GenOrderID("FEE")
		p.PaymentGatewayOrderID = &orderID
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch {
		case in.InvoiceItemID != nil:
			return recordAgainstItem(tx, &p, in)
		case in.InvoiceID != nil:
			return recordAgainstInvoice(tx, &p, in)
		case in.StudentID != nil && in.ComponentTypeID != nil:
			return recordAgainstComponent(tx, &p, in)
		default:
			return helper.NewAppError(400, "TARGET_REQUIRED",
				"provide invoice_id, invoice_item_id, or student_id+component_type_id")
		}
	})
	if err != nil {
		return res, err
	}
	res.Payment = p

	// Refleksikan keadaan invoice terbaru untuk scope invoice/item.
	if p.PaymentInvoiceID != nil {
		var inv invoiceModel.Invoice
		if err := db.WithContext(ctx).First(&inv, "invoice_id = ?", *p.PaymentInvoiceID).Error; err == nil {
			res.Invoice = &inv
		}
	}

	// Snap dibuat di luar transaksi (panggilan jaringan). Gagal → payment
	// ditandai failed supaya reservasinya lepas.
	if in.Method == model.PaymentMethodOnline {
		cust := CustomerInput{}
		if in.Customer != nil {
			cust = *in.Customer
		}
		token, redirect, err := GenerateSnapToken(p, cust)
		if err != nil {
			now := time.Now()
			_ = db.WithContext(ctx).Model(&model.Payment{}).
				Where("payment_id = ?", p.PaymentID).
				Updates(map[string]any{
					"payment_status":     model.PaymentStatusFailed,
					"payment_failed_at":  now,
					"payment_updated_at": now,
				}).Error
			return res, helper.NewAppError(502, "GATEWAY_ERROR", "midtrans error: "+err.Error())
		}
		res.SnapToken = &token
		res.SnapRedirect = &redirect
	}

	return res, nil
}

/* =========================================================
   Scope: invoice
========================================================= */

func recordAgainstInvoice(tx *gorm.DB, p *model.Payment, in RecordInput) error {
	inv, err := lockInvoiceRow(tx, in.SchoolCode, *in.InvoiceID)
	if err != nil {
		return err
	}

	reserved, err := sumReservedForInvoice(tx, inv.InvoiceID)
	if err != nil {
		return err
	}
	remaining := ledger.Outstanding(inv.InvoiceTotalAmountIDR, reserved)
	if in.AmountIDR > remaining {
		return overpaymentError("OVERPAYMENT", inv.InvoiceTotalAmountIDR, reserved, remaining)
	}

	p.PaymentInvoiceID = &inv.InvoiceID
	p.PaymentStudentID = inv.InvoiceStudentID
	if err := tx.Create(p).Error; err != nil {
		return err
	}

	if p.PaymentStatus.CountsTowardPaid() {
		if _, err := invoiceSvc.RecalcInvoiceTx(tx, inv.InvoiceID); err != nil {
			return err
		}
	}
	return nil
}

/* =========================================================
   Scope: invoice item
========================================================= */

func recordAgainstItem(tx *gorm.DB, p *model.Payment, in RecordInput) error {
	var item invoiceModel.InvoiceItem
	if err := tx.First(&item, "invoice_item_id = ?", *in.InvoiceItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.NewAppError(404, "ITEM_NOT_FOUND", "invoice item not found")
		}
		return err
	}
	if in.InvoiceID != nil && *in.InvoiceID != item.InvoiceItemInvoiceID {
		return helper.NewAppError(400, "ITEM_NOT_FOUND", "item does not belong to the given invoice")
	}

	inv, err := lockInvoiceRow(tx, in.SchoolCode, item.InvoiceItemInvoiceID)
	if err != nil {
		return err
	}

	var paid int64
	if err := tx.Raw(`
		SELECT COALESCE(SUM(payment_amount_idr), 0)
		FROM payments
		WHERE payment_invoice_item_id = ?
		  AND payment_status IN (?, ?)
	`, item.InvoiceItemID, model.PaymentStatusCompleted, model.PaymentStatusPending).
		Scan(&paid).Error; err != nil {
		return err
	}

	remaining := ledger.Outstanding(item.InvoiceItemAmountIDR, paid)
	if remaining <= 0 {
		return helper.NewAppErrorWithData(422, "OVERPAYMENT",
			"invoice item already fully paid — cannot accept additional payments",
			balancePayload(item.InvoiceItemAmountIDR, paid, remaining))
	}
	if in.AmountIDR > remaining {
		return overpaymentError("OVERPAYMENT", item.InvoiceItemAmountIDR, paid, remaining)
	}

	p.PaymentInvoiceID = &inv.InvoiceID
	p.PaymentInvoiceItemID = &item.InvoiceItemID
	p.PaymentComponentTypeID = item.InvoiceItemComponentTypeID
	p.PaymentStudentID = inv.InvoiceStudentID
	if err := tx.Create(p).Error; err != nil {
		return err
	}

	if p.PaymentStatus.CountsTowardPaid() {
		if _, err := invoiceSvc.RecalcInvoiceTx(tx, inv.InvoiceID); err != nil {
			return err
		}
	}
	return nil
}

/* =========================================================
   Scope: komponen (tanpa invoice)
========================================================= */

func recordAgainstComponent(tx *gorm.DB, p *model.Payment, in RecordInput) error {
	// Serialisasi cek-lalu-insert per siswa: kunci row plan yang jadi dasar
	// due sebelum menjumlah, seperti lockInvoiceRow pada scope invoice.
	if err := lockStudentPlanRows(tx, in.SchoolCode, *in.StudentID, in.AcademicYearID); err != nil {
		return err
	}

	bal, err := componentBalanceTx(tx, in.SchoolCode, *in.StudentID, *in.ComponentTypeID, in.AcademicYearID)
	if err != nil {
		return err
	}
	if bal.Due == 0 && bal.Paid == 0 {
		return helper.NewAppError(404, "COMPONENT_NOT_PLANNED",
			"student has no fee plan item for this component")
	}
	if bal.Remaining <= 0 {
		return helper.NewAppErrorWithData(422, "ALREADY_PAID",
			"component already fully paid — cannot accept additional payments",
			balancePayload(bal.Due, bal.Paid, bal.Remaining))
	}
	if in.AmountIDR > bal.Remaining {
		return helper.NewAppErrorWithData(422, "EXCEEDS_BALANCE",
			fmt.Sprintf("amount exceeds remaining balance (%d)", bal.Remaining),
			balancePayload(bal.Due, bal.Paid, bal.Remaining))
	}

	p.PaymentStudentID = *in.StudentID
	p.PaymentComponentTypeID = in.ComponentTypeID
	return tx.Create(p).Error
}

/* =========================================================
   Component balance
========================================================= */

// ComponentBalance: due dari plan item siswa (amount × qty), paid dari
// SEMUA payment (completed+pending) untuk (siswa, komponen) — tidak peduli
// lewat invoice mana. academicYearID nil = semua plan.
func ComponentBalance(
	ctx context.Context,
	db *gorm.DB,
	schoolCode string,
	studentID, componentTypeID uuid.UUID,
	academicYearID *uuid.UUID,
) (ledger.ComponentBalance, error) {
	return componentBalanceTx(db.WithContext(ctx), schoolCode, studentID, componentTypeID, academicYearID)
}

func componentBalanceTx(
	tx *gorm.DB,
	schoolCode string,
	studentID, componentTypeID uuid.UUID,
	academicYearID *uuid.UUID,
) (ledger.ComponentBalance, error) {
	var due int64
	dueQ := tx.Table("fee_student_plan_items").
		Joins("JOIN fee_student_plans ON fee_student_plans.fee_student_plan_id = fee_student_plan_items.fee_student_plan_item_plan_id").
		Where("fee_student_plans.fee_student_plan_student_id = ?", studentID).
		Where("fee_student_plans.fee_student_plan_school_code = ?", schoolCode).
		Where("fee_student_plan_items.fee_student_plan_item_component_type_id = ?", componentTypeID)
	if academicYearID != nil && *academicYearID != uuid.Nil {
		dueQ = dueQ.Where("fee_student_plans.fee_student_plan_academic_year_id = ?", *academicYearID)
	}
	if err := dueQ.
		Select("COALESCE(SUM(fee_student_plan_item_amount_idr * fee_student_plan_item_quantity), 0)").
		Scan(&due).Error; err != nil {
		return ledger.ComponentBalance{}, err
	}

	var paid int64
	if err := tx.Raw(`
		SELECT COALESCE(SUM(payment_amount_idr), 0)
		FROM payments
		WHERE payment_student_id = ?
		  AND payment_component_type_id = ?
		  AND payment_school_code = ?
		  AND payment_status IN (?, ?)
	`, studentID, componentTypeID, schoolCode,
		model.PaymentStatusCompleted, model.PaymentStatusPending).
		Scan(&paid).Error; err != nil {
		return ledger.ComponentBalance{}, err
	}

	return ledger.ComputeComponentBalance(due, paid), nil
}

/* =========================================================
   List (admin)
========================================================= */

type ListFilter struct {
	StudentID       *uuid.UUID
	InvoiceID       *uuid.UUID
	ComponentTypeID *uuid.UUID
	Method          *model.PaymentMethod
	Status          *model.PaymentStatus
	DateFrom        *time.Time
	DateTo          *time.Time
}

func ListPayments(
	ctx context.Context,
	db *gorm.DB,
	schoolCode string,
	f ListFilter,
	limit, offset int,
	orderClause string,
) ([]model.Payment, int64, error) {
	q := db.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_school_code = ?", schoolCode)

	if f.StudentID != nil {
		q = q.Where("payment_student_id = ?", *f.StudentID)
	}
	if f.InvoiceID != nil {
		q = q.Where("payment_invoice_id = ?", *f.InvoiceID)
	}
	if f.ComponentTypeID != nil {
		q = q.Where("payment_component_type_id = ?", *f.ComponentTypeID)
	}
	if f.Method != nil {
		q = q.Where("payment_method = ?", *f.Method)
	}
	if f.Status != nil {
		q = q.Where("payment_status = ?", *f.Status)
	}
	if f.DateFrom != nil {
		q = q.Where("payment_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("payment_date < ?", *f.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.Payment
	if err := q.Order(orderClause).Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

/* =========================================================
   Internal
========================================================= */

// lockInvoiceRow: FOR UPDATE di postgres; dialect lain (sqlite test)
// dilewati karena writer-nya sudah serial.
func lockInvoiceRow(tx *gorm.DB, schoolCode string, invoiceID uuid.UUID) (invoiceModel.Invoice, error) {
	var inv invoiceModel.Invoice
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&inv, "invoice_id = ? AND invoice_school_code = ?", invoiceID, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inv, helper.NewAppError(404, "NOT_FOUND", "invoice not found")
		}
		return inv, err
	}
	return inv, nil
}

// lockStudentPlanRows: FOR UPDATE pada plan siswa (scope komponen tidak
// punya row invoice untuk dikunci). Dua submit bersamaan untuk siswa yang
// sama antre di sini, jadi keduanya melihat jumlah payment yang sudah final.
// Dialect non-postgres dilewati seperti lockInvoiceRow.
func lockStudentPlanRows(tx *gorm.DB, schoolCode string, studentID uuid.UUID, academicYearID *uuid.UUID) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	q := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("fee_student_plan_student_id = ?", studentID).
		Where("fee_student_plan_school_code = ?", schoolCode)
	if academicYearID != nil && *academicYearID != uuid.Nil {
		q = q.Where("fee_student_plan_academic_year_id = ?", *academicYearID)
	}
	var rows []planModel.FeeStudentPlan
	return q.Find(&rows).Error
}

// sumReservedForInvoice: completed + pending — pending ikut memesan saldo.
func sumReservedForInvoice(tx *gorm.DB, invoiceID uuid.UUID) (int64, error) {
	var sum int64
	err := tx.Raw(`
		SELECT COALESCE(SUM(payment_amount_idr), 0)
		FROM payments
		WHERE payment_invoice_id = ?
		  AND payment_status IN (?, ?)
	`, invoiceID, model.PaymentStatusCompleted, model.PaymentStatusPending).
		Scan(&sum).Error
	return sum, err
}

func balancePayload(due, paid, remaining int64) map[string]any {
	return map[string]any{"due": due, "paid": paid, "remaining": remaining}
}

func overpaymentError(code string, due, paid, remaining int64) error {
	return helper.NewAppErrorWithData(422, code,
		fmt.Sprintf("payment exceeds remaining balance (%d)", remaining),
		balancePayload(due, paid, remaining))
}
