// file: internals/features/finance/payments/service/payment_service_test.go
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	yearModel "sekolahku_backend/internals/features/academics/academic_years/model"
	classModel "sekolahku_backend/internals/features/academics/classes/model"
	studentModel "sekolahku_backend/internals/features/academics/students/model"
	componentModel "sekolahku_backend/internals/features/finance/fee_components/model"
	planModel "sekolahku_backend/internals/features/finance/fee_plans/model"
	invoiceModel "sekolahku_backend/internals/features/finance/invoices/model"
	invoiceSvc "sekolahku_backend/internals/features/finance/invoices/service"
	"sekolahku_backend/internals/features/finance/ledger"
	model "sekolahku_backend/internals/features/finance/payments/model"
	helper "sekolahku_backend/internals/helpers"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// satu koneksi supaya ":memory:" tidak pecah antar pool
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&yearModel.AcademicYear{},
		&studentModel.Student{},
		&classModel.Class{},
		&classModel.ClassStudent{},
		&componentModel.FeeComponentType{},
		&planModel.FeeStudentPlan{},
		&planModel.FeeStudentPlanItem{},
		&invoiceModel.Invoice{},
		&invoiceModel.InvoiceItem{},
		&model.Payment{},
		&model.PaymentGatewayEventModel{},
	))
	return db
}

type payFixture struct {
	School   string
	Year     yearModel.AcademicYear
	Class    classModel.Class
	Students []studentModel.Student
	SPP      componentModel.FeeComponentType
}

func seedPayFixture(t *testing.T, db *gorm.DB, studentCount int) payFixture {
	t.Helper()
	fx := payFixture{School: "SCH01"}

	fx.Year = yearModel.AcademicYear{
		AcademicYearSchoolCode: fx.School,
		AcademicYearName:       "2025/2026",
		AcademicYearIsActive:   true,
	}
	require.NoError(t, db.Create(&fx.Year).Error)

	fx.Class = classModel.Class{
		ClassSchoolCode:     fx.School,
		ClassAcademicYearID: fx.Year.AcademicYearID,
		ClassName:           "7A",
		ClassIsActive:       true,
	}
	require.NoError(t, db.Create(&fx.Class).Error)

	for i := 0; i < studentCount; i++ {
		s := studentModel.Student{
			StudentSchoolCode: fx.School,
			StudentName:       fmt.Sprintf("Siswa %02d", i+1),
			StudentIsActive:   true,
		}
		require.NoError(t, db.Create(&s).Error)
		require.NoError(t, db.Create(&classModel.ClassStudent{
			ClassStudentClassID:   fx.Class.ClassID,
			ClassStudentStudentID: s.StudentID,
			ClassStudentIsActive:  true,
		}).Error)
		fx.Students = append(fx.Students, s)
	}

	fx.SPP = componentModel.FeeComponentType{
		FeeComponentTypeSchoolCode: fx.School,
		FeeComponentTypeName:       "SPP",
	}
	require.NoError(t, db.Create(&fx.SPP).Error)
	return fx
}

// generateInvoice: satu invoice untuk siswa tunggal kelas fixture.
func generateInvoice(t *testing.T, db *gorm.DB, fx payFixture, period string, items []invoiceSvc.GenerateItemInput) invoiceModel.Invoice {
	t.Helper()
	res, err := invoiceSvc.GenerateForClass(context.Background(), db, invoiceSvc.GenerateInput{
		ClassID:       fx.Class.ClassID,
		SchoolCode:    fx.School,
		BillingPeriod: period,
		DueDate:       time.Date(2025, 7, 31, 12, 0, 0, 0, time.UTC),
		Items:         items,
	})
	require.NoError(t, err)
	require.Len(t, res.InvoiceIDs, 1, "fixture mengasumsikan satu siswa di kelas")

	var inv invoiceModel.Invoice
	require.NoError(t, db.First(&inv, "invoice_id = ?", res.InvoiceIDs[0]).Error)
	return inv
}

func seedPlanItem(t *testing.T, db *gorm.DB, fx payFixture, studentID, componentID uuid.UUID, amount int64, qty int) planModel.FeeStudentPlan {
	t.Helper()
	plan := planModel.FeeStudentPlan{
		FeeStudentPlanStudentID:      studentID,
		FeeStudentPlanAcademicYearID: fx.Year.AcademicYearID,
		FeeStudentPlanSchoolCode:     fx.School,
	}
	require.NoError(t, db.Create(&plan).Error)
	require.NoError(t, db.Create(&planModel.FeeStudentPlanItem{
		FeeStudentPlanItemPlanID:          plan.FeeStudentPlanID,
		FeeStudentPlanItemComponentTypeID: componentID,
		FeeStudentPlanItemAmountIDR:       amount,
		FeeStudentPlanItemQuantity:        qty,
	}).Error)
	return plan
}

func seedPendingOnline(t *testing.T, db *gorm.DB, inv invoiceModel.Invoice, amount int64, orderID string) model.Payment {
	t.Helper()
	p := model.Payment{
		PaymentInvoiceID:      &inv.InvoiceID,
		PaymentStudentID:      inv.InvoiceStudentID,
		PaymentSchoolCode:     inv.InvoiceSchoolCode,
		PaymentAmountIDR:      amount,
		PaymentMethod:         model.PaymentMethodOnline,
		PaymentStatus:         model.PaymentStatusPending,
		PaymentGatewayOrderID: &orderID,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func payErr(t *testing.T, err error) *helper.AppError {
	t.Helper()
	require.Error(t, err)
	ae, ok := helper.AsAppError(err)
	require.True(t, ok, "expected *helper.AppError, got %T: %v", err, err)
	return ae
}

func payloadInt(t *testing.T, ae *helper.AppError, key string) int64 {
	t.Helper()
	m, ok := ae.Data.(map[string]any)
	require.True(t, ok, "expected map payload, got %T", ae.Data)
	v, ok := m[key].(int64)
	require.True(t, ok, "payload %q missing or not int64", key)
	return v
}

/* =========================================================
   Record — validasi dasar
========================================================= */

func TestRecordPayment_Validation(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()
	invID := uuid.New()

	_, err := RecordPayment(ctx, db, RecordInput{
		InvoiceID: &invID, SchoolCode: fx.School, AmountIDR: 0, Method: model.PaymentMethodCash,
	})
	assert.Equal(t, "INVALID_AMOUNT", payErr(t, err).Code)

	_, err = RecordPayment(ctx, db, RecordInput{
		InvoiceID: &invID, SchoolCode: fx.School, AmountIDR: -100, Method: model.PaymentMethodCash,
	})
	assert.Equal(t, "INVALID_AMOUNT", payErr(t, err).Code)

	_, err = RecordPayment(ctx, db, RecordInput{
		InvoiceID: &invID, SchoolCode: fx.School, AmountIDR: 1000, Method: "gopay",
	})
	assert.Equal(t, "INVALID_METHOD", payErr(t, err).Code)

	_, err = RecordPayment(ctx, db, RecordInput{
		SchoolCode: fx.School, AmountIDR: 1000, Method: model.PaymentMethodCash,
	})
	assert.Equal(t, "TARGET_REQUIRED", payErr(t, err).Code)

	_, err = RecordPayment(ctx, db, RecordInput{
		InvoiceID: &invID, SchoolCode: fx.School, AmountIDR: 1000, Method: model.PaymentMethodCash,
	})
	assert.Equal(t, "NOT_FOUND", payErr(t, err).Code)
}

/* =========================================================
   Record — scope invoice
========================================================= */

func TestRecordPayment_InvoiceScope(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()

	inv := generateInvoice(t, db, fx, "2025-07", []invoiceSvc.GenerateItemInput{
		{Label: "Tuition", AmountIDR: 5000},
	})

	receipt := "KW-0001"
	res, err := RecordPayment(ctx, db, RecordInput{
		InvoiceID: &inv.InvoiceID, SchoolCode: fx.School,
		AmountIDR: 3000, Method: model.PaymentMethodCash, ReceiptNumber: &receipt,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, res.Payment.PaymentStatus)
	assert.Equal(t, inv.InvoiceStudentID, res.Payment.PaymentStudentID)
	require.NotNil(t, res.Payment.PaymentInvoiceID)
	require.NotNil(t, res.Invoice)
	assert.Equal(t, int64(3000), res.Invoice.InvoicePaidAmountIDR)
	assert.Equal(t, ledger.InvoiceStatusPartial, res.Invoice.InvoiceStatus)

	// sisa 2000 — 2500 harus ditolak dengan posisi saldo di payload
	_, err = RecordPayment(ctx, db, RecordInput{
		InvoiceID: &inv.InvoiceID, SchoolCode: fx.School,
		AmountIDR: 2500, Method: model.PaymentMethodCash,
	})
	ae := payErr(t, err)
	assert.Equal(t, "OVERPAYMENT", ae.Code)
	assert.Equal(t, 422, ae.Status)
	assert.Equal(t, int64(5000), payloadInt(t, ae, "due"))
	assert.Equal(t, int64(3000), payloadInt(t, ae, "paid"))
	assert.Equal(t, int64(2000), payloadInt(t, ae, "remaining"))

	// pas sisa → lunas
	res, err = RecordPayment(ctx, db, RecordInput{
		InvoiceID: &inv.InvoiceID, SchoolCode: fx.School,
		AmountIDR: 2000, Method: model.PaymentMethodBankTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), res.Invoice.InvoicePaidAmountIDR)
	assert.Equal(t, ledger.InvoiceStatusPaid, res.Invoice.InvoiceStatus)

	// invoice lunas menolak sekecil apa pun
	_, err = RecordPayment(ctx, db, RecordInput{
		InvoiceID: &inv.InvoiceID, SchoolCode: fx.School,
		AmountIDR: 1, Method: model.PaymentMethodCash,
	})
	assert.Equal(t, "OVERPAYMENT", payErr(t, err).Code)
}

func TestRecordPayment_PendingReservesBalance(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()

	inv := generateInvoice(t, db, fx, "2025-07", []invoiceSvc.GenerateItemInput{
		{Label: "Tuition", AmountIDR: 5000},
	})
	seedPendingOnline(t, db, inv, 3000, "FEE-TEST-RESERVE-1")

	// pending 3000 memesan saldo: sisa efektif tinggal 2000
	_, err := RecordPayment(ctx, db, RecordInput{
		InvoiceID: &inv.InvoiceID, SchoolCode: fx.School,
		AmountIDR: 3000, Method: model.PaymentMethodCash,
	})
	ae := payErr(t, err)
	assert.Equal(t, "OVERPAYMENT", ae.Code)
	assert.Equal(t, int64(2000), payloadInt(t, ae, "remaining"))

	res, err := RecordPayment(ctx, db, RecordInput{
		InvoiceID: &inv.InvoiceID, SchoolCode: fx.School,
		AmountIDR: 2000, Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)
	// pending tidak masuk paid_amount — hanya cash 2000 yang terhitung
	assert.Equal(t, int64(2000), res.Invoice.InvoicePaidAmountIDR)
	assert.Equal(t, ledger.InvoiceStatusPartial, res.Invoice.InvoiceStatus)
}

/* =========================================================
   Record — scope item
========================================================= */

func TestRecordPayment_ItemScope(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()

	inv := generateInvoice(t, db, fx, "2025-07", []invoiceSvc.GenerateItemInput{
		{Label: "SPP Juli", AmountIDR: 5000, ComponentTypeID: &fx.SPP.FeeComponentTypeID},
		{Label: "Transport", AmountIDR: 2000},
	})

	var items []invoiceModel.InvoiceItem
	require.NoError(t, db.Order("invoice_item_created_at ASC").
		Find(&items, "invoice_item_invoice_id = ?", inv.InvoiceID).Error)
	require.Len(t, items, 2)
	sppItem, transportItem := items[0], items[1]

	// melebihi nominal baris → tolak
	_, err := RecordPayment(ctx, db, RecordInput{
		InvoiceItemID: &transportItem.InvoiceItemID, SchoolCode: fx.School,
		AmountIDR: 2500, Method: model.PaymentMethodCash,
	})
	ae := payErr(t, err)
	assert.Equal(t, "OVERPAYMENT", ae.Code)
	assert.Equal(t, int64(2000), payloadInt(t, ae, "due"))
	assert.Equal(t, int64(2000), payloadInt(t, ae, "remaining"))

	res, err := RecordPayment(ctx, db, RecordInput{
		InvoiceItemID: &transportItem.InvoiceItemID, SchoolCode: fx.School,
		AmountIDR: 2000, Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Payment.PaymentInvoiceItemID)
	assert.Equal(t, transportItem.InvoiceItemID, *res.Payment.PaymentInvoiceItemID)
	assert.Nil(t, res.Payment.PaymentComponentTypeID) // baris manual tanpa komponen
	require.NotNil(t, res.Invoice)
	assert.Equal(t, int64(2000), res.Invoice.InvoicePaidAmountIDR)

	// baris ber-komponen: payment otomatis membawa component_type_id
	res, err = RecordPayment(ctx, db, RecordInput{
		InvoiceItemID: &sppItem.InvoiceItemID, SchoolCode: fx.School,
		AmountIDR: 1000, Method: model.PaymentMethodCard,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Payment.PaymentComponentTypeID)
	assert.Equal(t, fx.SPP.FeeComponentTypeID, *res.Payment.PaymentComponentTypeID)
	assert.Equal(t, int64(3000), res.Invoice.InvoicePaidAmountIDR)

	// baris yang sudah lunas menolak pembayaran berikutnya
	_, err = RecordPayment(ctx, db, RecordInput{
		InvoiceItemID: &transportItem.InvoiceItemID, SchoolCode: fx.School,
		AmountIDR: 1, Method: model.PaymentMethodCash,
	})
	ae = payErr(t, err)
	assert.Equal(t, "OVERPAYMENT", ae.Code)
	assert.Equal(t, int64(0), payloadInt(t, ae, "remaining"))
	// pesan membedakan "sudah lunas" dari kelebihan bayar biasa
	assert.Contains(t, ae.Message, "already fully paid")

	// cross-check invoice_id salah
	other := generateInvoice(t, db, fx, "2025-08", []invoiceSvc.GenerateItemInput{
		{Label: "SPP Agustus", AmountIDR: 5000},
	})
	_, err = RecordPayment(ctx, db, RecordInput{
		InvoiceID: &other.InvoiceID, InvoiceItemID: &sppItem.InvoiceItemID,
		SchoolCode: fx.School, AmountIDR: 100, Method: model.PaymentMethodCash,
	})
	assert.Equal(t, "ITEM_NOT_FOUND", payErr(t, err).Code)

	_, err = RecordPayment(ctx, db, RecordInput{
		InvoiceItemID: &inv.InvoiceID, // bukan id item
		SchoolCode:    fx.School, AmountIDR: 100, Method: model.PaymentMethodCash,
	})
	assert.Equal(t, "ITEM_NOT_FOUND", payErr(t, err).Code)
}

/* =========================================================
   Record — scope komponen
========================================================= */

func TestRecordPayment_ComponentScope(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 2)
	ctx := context.Background()
	sid := fx.Students[0].StudentID
	sppID := fx.SPP.FeeComponentTypeID

	seedPlanItem(t, db, fx, sid, sppID, 5000, 1)

	res, err := RecordPayment(ctx, db, RecordInput{
		StudentID: &sid, ComponentTypeID: &sppID, SchoolCode: fx.School,
		AmountIDR: 3000, Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Payment.PaymentInvoiceID) // tidak lewat invoice mana pun
	assert.Nil(t, res.Invoice)
	require.NotNil(t, res.Payment.PaymentComponentTypeID)
	assert.Equal(t, sppID, *res.Payment.PaymentComponentTypeID)

	bal, err := ComponentBalance(ctx, db, fx.School, sid, sppID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), bal.Due)
	assert.Equal(t, int64(3000), bal.Paid)
	assert.Equal(t, int64(2000), bal.Remaining)

	// melebihi sisa → tolak dengan posisi saldo
	_, err = RecordPayment(ctx, db, RecordInput{
		StudentID: &sid, ComponentTypeID: &sppID, SchoolCode: fx.School,
		AmountIDR: 2001, Method: model.PaymentMethodCash,
	})
	ae := payErr(t, err)
	assert.Equal(t, "EXCEEDS_BALANCE", ae.Code)
	assert.Equal(t, 422, ae.Status)
	assert.Equal(t, int64(5000), payloadInt(t, ae, "due"))
	assert.Equal(t, int64(3000), payloadInt(t, ae, "paid"))
	assert.Equal(t, int64(2000), payloadInt(t, ae, "remaining"))

	_, err = RecordPayment(ctx, db, RecordInput{
		StudentID: &sid, ComponentTypeID: &sppID, SchoolCode: fx.School,
		AmountIDR: 2000, Method: model.PaymentMethodCheque,
	})
	require.NoError(t, err)

	// lunas: bahkan 1 rupiah ditolak
	_, err = RecordPayment(ctx, db, RecordInput{
		StudentID: &sid, ComponentTypeID: &sppID, SchoolCode: fx.School,
		AmountIDR: 1, Method: model.PaymentMethodCash,
	})
	ae = payErr(t, err)
	assert.Equal(t, "ALREADY_PAID", ae.Code)
	assert.Equal(t, int64(5000), payloadInt(t, ae, "paid"))
	assert.Equal(t, int64(0), payloadInt(t, ae, "remaining"))

	// siswa tanpa plan item untuk komponen ini
	other := fx.Students[1].StudentID
	_, err = RecordPayment(ctx, db, RecordInput{
		StudentID: &other, ComponentTypeID: &sppID, SchoolCode: fx.School,
		AmountIDR: 1000, Method: model.PaymentMethodCash,
	})
	assert.Equal(t, "COMPONENT_NOT_PLANNED", payErr(t, err).Code)
}

func TestRecordPayment_ComponentScope_ConcurrentSubmitsSingleWinner(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()
	sid := fx.Students[0].StudentID
	sppID := fx.SPP.FeeComponentTypeID

	seedPlanItem(t, db, fx, sid, sppID, 5000, 1)
	_, err := RecordPayment(ctx, db, RecordInput{
		StudentID: &sid, ComponentTypeID: &sppID, SchoolCode: fx.School,
		AmountIDR: 4000, Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)

	// dua kasir menyetor sisa 1000 yang sama bersamaan; cek saldo dan insert
	// berada dalam satu transaksi ber-lock, jadi tepat satu yang lolos
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = RecordPayment(ctx, db, RecordInput{
				StudentID: &sid, ComponentTypeID: &sppID, SchoolCode: fx.School,
				AmountIDR: 1000, Method: model.PaymentMethodCash,
			})
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, e := range errs {
		if e == nil {
			accepted++
			continue
		}
		ae := payErr(t, e)
		assert.Contains(t, []string{"ALREADY_PAID", "EXCEEDS_BALANCE"}, ae.Code)
	}
	assert.Equal(t, 1, accepted)

	// paid tidak pernah melewati due
	bal, err := ComponentBalance(ctx, db, fx.School, sid, sppID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), bal.Paid)
	assert.Equal(t, int64(0), bal.Remaining)
}

func TestComponentBalance_UnifiesItemPayments(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()
	sid := fx.Students[0].StudentID
	sppID := fx.SPP.FeeComponentTypeID

	seedPlanItem(t, db, fx, sid, sppID, 5000, 1)

	// bayar 3000 lewat baris invoice ber-komponen SPP
	inv := generateInvoice(t, db, fx, "2025-07", []invoiceSvc.GenerateItemInput{
		{Label: "SPP Juli", AmountIDR: 3000, ComponentTypeID: &fx.SPP.FeeComponentTypeID},
	})
	var items []invoiceModel.InvoiceItem
	require.NoError(t, db.Find(&items, "invoice_item_invoice_id = ?", inv.InvoiceID).Error)
	require.Len(t, items, 1)
	_, err := RecordPayment(ctx, db, RecordInput{
		InvoiceItemID: &items[0].InvoiceItemID, SchoolCode: fx.School,
		AmountIDR: 3000, Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)

	// ledger komponen melihat pembayaran itu walau lewat invoice
	bal, err := ComponentBalance(ctx, db, fx.School, sid, sppID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), bal.Paid)
	assert.Equal(t, int64(2000), bal.Remaining)

	// sisa 2000 masih bisa dibayar langsung per komponen
	_, err = RecordPayment(ctx, db, RecordInput{
		StudentID: &sid, ComponentTypeID: &sppID, SchoolCode: fx.School,
		AmountIDR: 2000, Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)

	_, err = RecordPayment(ctx, db, RecordInput{
		StudentID: &sid, ComponentTypeID: &sppID, SchoolCode: fx.School,
		AmountIDR: 1, Method: model.PaymentMethodCash,
	})
	assert.Equal(t, "ALREADY_PAID", payErr(t, err).Code)
}

func TestComponentBalance_AcademicYearFilter(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()
	sid := fx.Students[0].StudentID
	sppID := fx.SPP.FeeComponentTypeID

	year2 := yearModel.AcademicYear{
		AcademicYearSchoolCode: fx.School,
		AcademicYearName:       "2026/2027",
	}
	require.NoError(t, db.Create(&year2).Error)

	seedPlanItem(t, db, fx, sid, sppID, 5000, 1)
	plan2 := planModel.FeeStudentPlan{
		FeeStudentPlanStudentID:      sid,
		FeeStudentPlanAcademicYearID: year2.AcademicYearID,
		FeeStudentPlanSchoolCode:     fx.School,
	}
	require.NoError(t, db.Create(&plan2).Error)
	require.NoError(t, db.Create(&planModel.FeeStudentPlanItem{
		FeeStudentPlanItemPlanID:          plan2.FeeStudentPlanID,
		FeeStudentPlanItemComponentTypeID: sppID,
		FeeStudentPlanItemAmountIDR:       4000,
		FeeStudentPlanItemQuantity:        1,
	}).Error)

	bal, err := ComponentBalance(ctx, db, fx.School, sid, sppID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), bal.Due) // dua tahun ajaran digabung

	bal, err = ComponentBalance(ctx, db, fx.School, sid, sppID, &fx.Year.AcademicYearID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), bal.Due)

	// scope tahun membatasi due yang dipakai cek
	_, err = RecordPayment(ctx, db, RecordInput{
		StudentID: &sid, ComponentTypeID: &sppID, AcademicYearID: &fx.Year.AcademicYearID,
		SchoolCode: fx.School, AmountIDR: 5001, Method: model.PaymentMethodCash,
	})
	assert.Equal(t, "EXCEEDS_BALANCE", payErr(t, err).Code)

	_, err = RecordPayment(ctx, db, RecordInput{
		StudentID: &sid, ComponentTypeID: &sppID, AcademicYearID: &fx.Year.AcademicYearID,
		SchoolCode: fx.School, AmountIDR: 4500, Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)

	bal, err = ComponentBalance(ctx, db, fx.School, sid, sppID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4500), bal.Paid)
	assert.Equal(t, int64(4500), bal.Remaining)
}

/* =========================================================
   List
========================================================= */

func TestListPayments_Filters(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 2)
	ctx := context.Background()
	sppID := fx.SPP.FeeComponentTypeID

	for i, s := range fx.Students {
		seedPlanItem(t, db, fx, s.StudentID, sppID, 10000, 1)
		sid := s.StudentID
		method := model.PaymentMethodCash
		if i == 1 {
			method = model.PaymentMethodBankTransfer
		}
		_, err := RecordPayment(ctx, db, RecordInput{
			StudentID: &sid, ComponentTypeID: &sppID, SchoolCode: fx.School,
			AmountIDR: 1000, Method: method,
		})
		require.NoError(t, err)
		_, err = RecordPayment(ctx, db, RecordInput{
			StudentID: &sid, ComponentTypeID: &sppID, SchoolCode: fx.School,
			AmountIDR: 2000, Method: method,
		})
		require.NoError(t, err)
	}

	rows, total, err := ListPayments(ctx, db, fx.School, ListFilter{}, 10, 0, "payment_created_at ASC")
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, rows, 4)

	sid := fx.Students[0].StudentID
	rows, total, err = ListPayments(ctx, db, fx.School, ListFilter{StudentID: &sid}, 10, 0, "payment_created_at ASC")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, rows, 2)

	cash := model.PaymentMethodCash
	_, total, err = ListPayments(ctx, db, fx.School, ListFilter{Method: &cash}, 10, 0, "payment_created_at ASC")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	// paging: total tetap, halaman mengecil
	rows, total, err = ListPayments(ctx, db, fx.School, ListFilter{}, 3, 3, "payment_created_at ASC")
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, rows, 1)

	// tenant lain kosong
	_, total, err = ListPayments(ctx, db, "SCH02", ListFilter{}, 10, 0, "payment_created_at ASC")
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

/* =========================================================
   Gateway helpers
========================================================= */

func TestGenOrderID_Format(t *testing.T) {
	id := GenOrderID("FEE")
	parts := strings.Split(id, "-")
	require.Len(t, parts, 4)
	assert.Equal(t, "FEE", parts[0])
	assert.Len(t, parts[1], 8) // yyyymmdd
	assert.Len(t, parts[2], 6) // hhmmss
	assert.Len(t, parts[3], 8)
	assert.Equal(t, strings.ToUpper(parts[3]), parts[3])

	assert.NotEqual(t, GenOrderID("FEE"), GenOrderID("FEE"))
}

func TestGenerateSnapToken_InputGuards(t *testing.T) {
	_, _, err := GenerateSnapToken(model.Payment{PaymentAmountIDR: 0}, CustomerInput{})
	assert.Error(t, err)

	// tanpa order id → tolak sebelum menyentuh jaringan
	_, _, err = GenerateSnapToken(model.Payment{PaymentAmountIDR: 5000}, CustomerInput{})
	assert.Error(t, err)
}
