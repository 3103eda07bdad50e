// file: internals/features/finance/invoices/service/invoice_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	classModel "sekolahku_backend/internals/features/academics/classes/model"
	model "sekolahku_backend/internals/features/finance/invoices/model"
	"sekolahku_backend/internals/features/finance/ledger"
	paymentModel "sekolahku_backend/internals/features/finance/payments/model"
	helper "sekolahku_backend/internals/helpers"
)

/* =========================================================
   Input / output types
========================================================= */

type GenerateItemInput struct {
	Label           string
	AmountIDR       int64
	ComponentTypeID *uuid.UUID
}

type GenerateInput struct {
	ClassID        uuid.UUID
	SchoolCode     string
	BillingPeriod  string
	AcademicYearID *uuid.UUID // nil → pakai tahun ajaran kelas
	DueDate        time.Time
	Items          []GenerateItemInput
	Notes          *string
}

type GenerateResult struct {
	ClassID       uuid.UUID
	BillingPeriod string
	Created       int
	Skipped       int
	InvoiceIDs    []uuid.UUID
}

/* =========================================================
   Generate (atomic-with-skip)
========================================================= */

// GenerateForClass membuat satu invoice per siswa aktif kelas untuk satu
// periode. Siswa yang sudah punya invoice periode itu dihitung skipped
// (ON CONFLICT DO NOTHING) dan tidak membatalkan batch; error storage lain
// me-rollback seluruh batch. Aman diulang: run kedua created=0, skipped=N.
func GenerateForClass(ctx context.Context, db *gorm.DB, in GenerateInput) (GenerateResult, error) {
	res := GenerateResult{
		ClassID:       in.ClassID,
		BillingPeriod: strings.TrimSpace(in.BillingPeriod),
		InvoiceIDs:    []uuid.UUID{},
	}

	if res.BillingPeriod == "" {
		return res, helper.NewAppError(400, "INVALID_PERIOD", "billing_period is required")
	}

	var class classModel.Class
	if err := db.WithContext(ctx).
		First(&class, "class_id = ? AND class_school_code = ?", in.ClassID, in.SchoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, helper.NewAppError(404, "CLASS_NOT_FOUND", "class not found in this school")
		}
		return res, err
	}

	yearID := class.ClassAcademicYearID
	if in.AcademicYearID != nil && *in.AcademicYearID != uuid.Nil {
		yearID = *in.AcademicYearID
		var n int64
		if err := db.WithContext(ctx).
			Table("academic_years").
			Where("academic_year_id = ? AND academic_year_school_code = ?", yearID, in.SchoolCode).
			Count(&n).Error; err != nil {
			return res, err
		}
		if n == 0 {
			return res, helper.NewAppError(400, "NO_ACADEMIC_YEAR", "academic year not found in this school")
		}
	}
	if yearID == uuid.Nil {
		return res, helper.NewAppError(400, "NO_ACADEMIC_YEAR", "academic year is required")
	}

	if in.DueDate.IsZero() {
		return res, helper.NewAppError(400, "NO_DUE_DATE", "due date is required")
	}

	// Drop label kosong / amount negatif; nol sah (komponen gratis).
	valid := make([]GenerateItemInput, 0, len(in.Items))
	var total int64
	for _, it := range in.Items {
		label := strings.TrimSpace(it.Label)
		if label == "" || it.AmountIDR < 0 {
			continue
		}
		it.Label = label
		valid = append(valid, it)
		total += it.AmountIDR
	}
	if len(valid) == 0 {
		return res, helper.NewAppError(400, "NO_VALID_ITEMS", "no valid invoice items supplied")
	}

	var studentIDs []uuid.UUID
	if err := db.WithContext(ctx).
		Table("class_students").
		Where("class_student_class_id = ? AND class_student_is_active = ?", in.ClassID, true).
		Order("class_student_created_at ASC").
		Pluck("class_student_student_id", &studentIDs).Error; err != nil {
		return res, err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sid := range studentIDs {
			inv := model.Invoice{
				InvoiceStudentID:      sid,
				InvoiceBillingPeriod:  res.BillingPeriod,
				InvoiceSchoolCode:     in.SchoolCode,
				InvoiceAcademicYearID: yearID,
				InvoiceClassID:        &in.ClassID,
				InvoiceDueDate:        in.DueDate,
				InvoiceNotes:          in.Notes,
				InvoiceTotalAmountIDR: total,
				InvoicePaidAmountIDR:  0,
				InvoiceStatus:         ledger.InvoiceStatusUnpaid,
			}
			ins := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "invoice_student_id"},
					{Name: "invoice_billing_period"},
					{Name: "invoice_school_code"},
				},
				DoNothing: true,
			}).Create(&inv)
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected == 0 {
				res.Skipped++
				continue
			}

			for _, it := range valid {
				row := model.InvoiceItem{
					InvoiceItemInvoiceID:       inv.InvoiceID,
					InvoiceItemComponentTypeID: it.ComponentTypeID,
					InvoiceItemLabel:           it.Label,
					InvoiceItemAmountIDR:       it.AmountIDR,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
			res.Created++
			res.InvoiceIDs = append(res.InvoiceIDs, inv.InvoiceID)
		}
		return nil
	})
	if err != nil {
		// rollback total → laporan kosong, bukan hitungan setengah jalan
		res.Created, res.Skipped = 0, 0
		res.InvoiceIDs = res.InvoiceIDs[:0]
		return res, err
	}
	return res, nil
}

/* =========================================================
   Recalc (dipanggil di dalam transaksi mutasi/pembayaran)
========================================================= */

// RecalcInvoiceTx menghitung ulang total dari item, paid dari payment
// completed, lalu menurunkan status. Selalu dari DB, bukan cache.
func RecalcInvoiceTx(tx *gorm.DB, invoiceID uuid.UUID) (model.Invoice, error) {
	var inv model.Invoice

	var total int64
	if err := tx.Raw(`
		SELECT COALESCE(SUM(invoice_item_amount_idr), 0)
		FROM invoice_items
		WHERE invoice_item_invoice_id = ?
	`, invoiceID).Scan(&total).Error; err != nil {
		return inv, err
	}

	var paid int64
	if err := tx.Raw(`
		SELECT COALESCE(SUM(payment_amount_idr), 0)
		FROM payments
		WHERE payment_invoice_id = ? AND payment_status = ?
	`, invoiceID, paymentModel.PaymentStatusCompleted).Scan(&paid).Error; err != nil {
		return inv, err
	}

	status := ledger.ComputeStatus(total, paid)
	if err := tx.Model(&model.Invoice{}).
		Where("invoice_id = ?", invoiceID).
		Updates(map[string]any{
			"invoice_total_amount_idr": total,
			"invoice_paid_amount_idr":  paid,
			"invoice_status":           status,
			"invoice_updated_at":       time.Now(),
		}).Error; err != nil {
		return inv, err
	}

	if err := tx.First(&inv, "invoice_id = ?", invoiceID).Error; err != nil {
		return inv, err
	}
	return inv, nil
}

/* =========================================================
   Reads
========================================================= */

// GetDetail: invoice + items + seluruh payment yang menunjuk invoice ini.
func GetDetail(ctx context.Context, db *gorm.DB, schoolCode string, invoiceID uuid.UUID) (model.Invoice, []paymentModel.Payment, error) {
	var inv model.Invoice
	if err := db.WithContext(ctx).
		First(&inv, "invoice_id = ? AND invoice_school_code = ?", invoiceID, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inv, nil, helper.NewAppError(404, "NOT_FOUND", "invoice not found")
		}
		return inv, nil, err
	}
	if err := db.WithContext(ctx).
		Order("invoice_item_created_at ASC").
		Find(&inv.Items, "invoice_item_invoice_id = ?", inv.InvoiceID).Error; err != nil {
		return inv, nil, err
	}

	var payments []paymentModel.Payment
	if err := db.WithContext(ctx).
		Order("payment_date ASC, payment_created_at ASC").
		Find(&payments, "payment_invoice_id = ?", inv.InvoiceID).Error; err != nil {
		return inv, nil, err
	}
	return inv, payments, nil
}

// GetByStudent: semua invoice siswa (opsional difilter tahun ajaran).
func GetByStudent(ctx context.Context, db *gorm.DB, schoolCode string, studentID uuid.UUID, academicYearID *uuid.UUID) ([]model.Invoice, error) {
	q := db.WithContext(ctx).
		Where("invoice_student_id = ? AND invoice_school_code = ?", studentID, schoolCode)
	if academicYearID != nil && *academicYearID != uuid.Nil {
		q = q.Where("invoice_academic_year_id = ?", *academicYearID)
	}
	var rows []model.Invoice
	if err := q.Order("invoice_created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByClass: semua invoice yang digenerate untuk satu kelas.
func GetByClass(ctx context.Context, db *gorm.DB, schoolCode string, classID uuid.UUID, billingPeriod *string) ([]model.Invoice, error) {
	q := db.WithContext(ctx).
		Where("invoice_class_id = ? AND invoice_school_code = ?", classID, schoolCode)
	if billingPeriod != nil && strings.TrimSpace(*billingPeriod) != "" {
		q = q.Where("invoice_billing_period = ?", strings.TrimSpace(*billingPeriod))
	}
	var rows []model.Invoice
	if err := q.Order("invoice_created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
