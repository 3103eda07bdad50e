// file: internals/features/finance/invoices/service/invoice_service_test.go
package service

import (
	"context"
	"fmt"
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
	model "sekolahku_backend/internals/features/finance/invoices/model"
	"sekolahku_backend/internals/features/finance/ledger"
	paymentModel "sekolahku_backend/internals/features/finance/payments/model"
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
		&model.Invoice{},
		&model.InvoiceItem{},
		&paymentModel.Payment{},
	))
	return db
}

type invoiceFixture struct {
	School   string
	Year     yearModel.AcademicYear
	Class    classModel.Class
	Students []studentModel.Student
}

func seedClass(t *testing.T, db *gorm.DB, studentCount int) invoiceFixture {
	t.Helper()
	fx := invoiceFixture{School: "SCH01"}

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
	return fx
}

func (fx invoiceFixture) generateInput(period string, items []GenerateItemInput) GenerateInput {
	return GenerateInput{
		ClassID:       fx.Class.ClassID,
		SchoolCode:    fx.School,
		BillingPeriod: period,
		DueDate:       time.Date(2025, 7, 31, 12, 0, 0, 0, time.UTC),
		Items:         items,
	}
}

func tuitionTransport() []GenerateItemInput {
	return []GenerateItemInput{
		{Label: "Tuition", AmountIDR: 5000},
		{Label: "Transport", AmountIDR: 2000},
	}
}

func addCompletedPayment(t *testing.T, db *gorm.DB, inv model.Invoice, amount int64) paymentModel.Payment {
	t.Helper()
	p := paymentModel.Payment{
		PaymentInvoiceID:  &inv.InvoiceID,
		PaymentStudentID:  inv.InvoiceStudentID,
		PaymentSchoolCode: inv.InvoiceSchoolCode,
		PaymentAmountIDR:  amount,
		PaymentMethod:     paymentModel.PaymentMethodCash,
		PaymentStatus:     paymentModel.PaymentStatusCompleted,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func invCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	ae, ok := helper.AsAppError(err)
	require.True(t, ok, "expected *helper.AppError, got %T: %v", err, err)
	return ae.Code
}

/* =========================================================
   Generate
========================================================= */

func TestGenerateForClass_OneInvoicePerStudent(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 3)
	ctx := context.Background()

	res, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 0, res.Skipped)
	require.Len(t, res.InvoiceIDs, 3)

	for _, id := range res.InvoiceIDs {
		var inv model.Invoice
		require.NoError(t, db.First(&inv, "invoice_id = ?", id).Error)
		assert.Equal(t, int64(7000), inv.InvoiceTotalAmountIDR)
		assert.Equal(t, int64(0), inv.InvoicePaidAmountIDR)
		assert.Equal(t, ledger.InvoiceStatusUnpaid, inv.InvoiceStatus)
		assert.Equal(t, "2025-07", inv.InvoiceBillingPeriod)
		assert.Equal(t, fx.Year.AcademicYearID, inv.InvoiceAcademicYearID)
		require.NotNil(t, inv.InvoiceClassID)
		assert.Equal(t, fx.Class.ClassID, *inv.InvoiceClassID)

		var items []model.InvoiceItem
		require.NoError(t, db.Find(&items, "invoice_item_invoice_id = ?", id).Error)
		assert.Len(t, items, 2)
	}
}

func TestGenerateForClass_RerunSkipsAll(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 3)
	ctx := context.Background()

	_, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)

	res, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 3, res.Skipped)
	assert.Empty(t, res.InvoiceIDs)

	var n int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&n).Error)
	assert.Equal(t, int64(3), n)
}

func TestGenerateForClass_NewStudentOnlyOnRerun(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 3)
	ctx := context.Background()

	_, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)

	// siswa pindahan masuk setelah batch pertama
	late := studentModel.Student{StudentSchoolCode: fx.School, StudentName: "Siswa Pindahan", StudentIsActive: true}
	require.NoError(t, db.Create(&late).Error)
	require.NoError(t, db.Create(&classModel.ClassStudent{
		ClassStudentClassID:   fx.Class.ClassID,
		ClassStudentStudentID: late.StudentID,
		ClassStudentIsActive:  true,
	}).Error)

	res, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 3, res.Skipped)
	require.Len(t, res.InvoiceIDs, 1)

	var inv model.Invoice
	require.NoError(t, db.First(&inv, "invoice_id = ?", res.InvoiceIDs[0]).Error)
	assert.Equal(t, late.StudentID, inv.InvoiceStudentID)
}

func TestGenerateForClass_InactiveStudentExcluded(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 3)
	ctx := context.Background()

	require.NoError(t, db.Model(&classModel.ClassStudent{}).
		Where("class_student_student_id = ?", fx.Students[0].StudentID).
		Update("class_student_is_active", false).Error)

	res, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
}

func TestGenerateForClass_ItemFilter(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 1)
	ctx := context.Background()

	// label kosong & amount negatif dibuang; nol tetap sah
	res, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", []GenerateItemInput{
		{Label: "  Tuition  ", AmountIDR: 5000},
		{Label: "", AmountIDR: 100},
		{Label: "Diskon ilegal", AmountIDR: -50},
		{Label: "Beasiswa", AmountIDR: 0},
	}))
	require.NoError(t, err)
	require.Equal(t, 1, res.Created)

	var inv model.Invoice
	require.NoError(t, db.First(&inv, "invoice_id = ?", res.InvoiceIDs[0]).Error)
	assert.Equal(t, int64(5000), inv.InvoiceTotalAmountIDR)

	var items []model.InvoiceItem
	require.NoError(t, db.Order("invoice_item_created_at ASC").
		Find(&items, "invoice_item_invoice_id = ?", inv.InvoiceID).Error)
	require.Len(t, items, 2)
	assert.Equal(t, "Tuition", items[0].InvoiceItemLabel) // label ter-trim
	assert.Equal(t, "Beasiswa", items[1].InvoiceItemLabel)
}

func TestGenerateForClass_Validation(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 1)
	ctx := context.Background()
	wrongYear := uuid.New()

	cases := []struct {
		name string
		in   GenerateInput
		code string
	}{
		{"periode kosong", GenerateInput{ClassID: fx.Class.ClassID, SchoolCode: fx.School, BillingPeriod: "   ", DueDate: time.Now(), Items: tuitionTransport()}, "INVALID_PERIOD"},
		{"kelas tidak ada", GenerateInput{ClassID: uuid.New(), SchoolCode: fx.School, BillingPeriod: "2025-07", DueDate: time.Now(), Items: tuitionTransport()}, "CLASS_NOT_FOUND"},
		{"tahun ajaran asing", GenerateInput{ClassID: fx.Class.ClassID, SchoolCode: fx.School, BillingPeriod: "2025-07", AcademicYearID: &wrongYear, DueDate: time.Now(), Items: tuitionTransport()}, "NO_ACADEMIC_YEAR"},
		{"tanpa due date", GenerateInput{ClassID: fx.Class.ClassID, SchoolCode: fx.School, BillingPeriod: "2025-07", Items: tuitionTransport()}, "NO_DUE_DATE"},
		{"semua item invalid", fx.generateInput("2025-07", []GenerateItemInput{{Label: "", AmountIDR: 100}, {Label: "X", AmountIDR: -1}}), "NO_VALID_ITEMS"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GenerateForClass(ctx, db, tc.in)
			assert.Equal(t, tc.code, invCode(t, err))
		})
	}
}

/* =========================================================
   Recalc
========================================================= */

func TestRecalcInvoiceTx_PaidSumsCompletedOnly(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 1)
	ctx := context.Background()

	res, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)
	invID := res.InvoiceIDs[0]

	inv, err := RecalcInvoiceTx(db, invID)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), inv.InvoiceTotalAmountIDR)
	assert.Equal(t, ledger.InvoiceStatusUnpaid, inv.InvoiceStatus)

	addCompletedPayment(t, db, inv, 3000)
	inv, err = RecalcInvoiceTx(db, invID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), inv.InvoicePaidAmountIDR)
	assert.Equal(t, ledger.InvoiceStatusPartial, inv.InvoiceStatus)

	// pending memesan saldo tapi tidak pernah masuk paid_amount
	orderID := "FEE-TEST-PENDING-1"
	pending := paymentModel.Payment{
		PaymentInvoiceID:      &invID,
		PaymentStudentID:      inv.InvoiceStudentID,
		PaymentSchoolCode:     fx.School,
		PaymentAmountIDR:      4000,
		PaymentMethod:         paymentModel.PaymentMethodOnline,
		PaymentStatus:         paymentModel.PaymentStatusPending,
		PaymentGatewayOrderID: &orderID,
	}
	require.NoError(t, db.Create(&pending).Error)
	inv, err = RecalcInvoiceTx(db, invID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), inv.InvoicePaidAmountIDR)
	assert.Equal(t, ledger.InvoiceStatusPartial, inv.InvoiceStatus)

	addCompletedPayment(t, db, inv, 4000)
	inv, err = RecalcInvoiceTx(db, invID)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), inv.InvoicePaidAmountIDR)
	assert.Equal(t, ledger.InvoiceStatusPaid, inv.InvoiceStatus)
}

/* =========================================================
   Item mutations
========================================================= */

func TestAddItems_Recomputes(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 1)
	ctx := context.Background()

	res, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)
	invID := res.InvoiceIDs[0]

	inv, err := AddItems(ctx, db, fx.School, invID, []ItemInput{{Label: "Buku paket", AmountIDR: 1500}})
	require.NoError(t, err)
	assert.Equal(t, int64(8500), inv.InvoiceTotalAmountIDR)
	assert.Len(t, inv.Items, 3)

	_, err = AddItems(ctx, db, fx.School, invID, []ItemInput{{Label: "   ", AmountIDR: 100}})
	assert.Equal(t, "INVALID_ITEMS", invCode(t, err))

	_, err = AddItems(ctx, db, fx.School, invID, nil)
	assert.Equal(t, "INVALID_ITEMS", invCode(t, err))

	_, err = AddItems(ctx, db, fx.School, uuid.New(), []ItemInput{{Label: "Buku", AmountIDR: 100}})
	assert.Equal(t, "NOT_FOUND", invCode(t, err))
}

func TestRemoveItems_OwnershipChecked(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 2)
	ctx := context.Background()

	res, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)
	require.Len(t, res.InvoiceIDs, 2)
	a, b := res.InvoiceIDs[0], res.InvoiceIDs[1]

	var itemsA, itemsB []model.InvoiceItem
	require.NoError(t, db.Order("invoice_item_created_at ASC").Find(&itemsA, "invoice_item_invoice_id = ?", a).Error)
	require.NoError(t, db.Order("invoice_item_created_at ASC").Find(&itemsB, "invoice_item_invoice_id = ?", b).Error)
	require.Len(t, itemsA, 2)

	inv, err := RemoveItems(ctx, db, fx.School, a, []uuid.UUID{itemsA[1].InvoiceItemID})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), inv.InvoiceTotalAmountIDR)
	assert.Len(t, inv.Items, 1)

	// baris milik invoice lain → seluruh permintaan ditolak
	_, err = RemoveItems(ctx, db, fx.School, a, []uuid.UUID{itemsA[0].InvoiceItemID, itemsB[0].InvoiceItemID})
	assert.Equal(t, "ITEM_NOT_FOUND", invCode(t, err))

	var stillThere int64
	require.NoError(t, db.Model(&model.InvoiceItem{}).
		Where("invoice_item_invoice_id = ?", a).Count(&stillThere).Error)
	assert.Equal(t, int64(1), stillThere)

	_, err = RemoveItems(ctx, db, fx.School, a, nil)
	assert.Equal(t, "INVALID_ITEMS", invCode(t, err))
}

func TestUpdateItem_NegativeAmountAndOverpaid(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 1)
	ctx := context.Background()

	res, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)
	invID := res.InvoiceIDs[0]

	var inv model.Invoice
	require.NoError(t, db.First(&inv, "invoice_id = ?", invID).Error)
	addCompletedPayment(t, db, inv, 7000)
	inv, err = RecalcInvoiceTx(db, invID)
	require.NoError(t, err)
	require.Equal(t, ledger.InvoiceStatusPaid, inv.InvoiceStatus)

	var items []model.InvoiceItem
	require.NoError(t, db.Order("invoice_item_created_at ASC").Find(&items, "invoice_item_invoice_id = ?", invID).Error)

	// total turun di bawah paid: dibiarkan overpaid, tidak dijepit
	newAmount := int64(-1000)
	inv, err = UpdateItem(ctx, db, fx.School, items[1].InvoiceItemID, ItemPatch{AmountIDR: &newAmount})
	require.NoError(t, err)
	assert.Equal(t, int64(4000), inv.InvoiceTotalAmountIDR) // 5000 + (-1000)
	assert.Equal(t, int64(7000), inv.InvoicePaidAmountIDR)
	assert.Equal(t, ledger.InvoiceStatusPaid, inv.InvoiceStatus)
	assert.True(t, ledger.Overpaid(inv.InvoiceTotalAmountIDR, inv.InvoicePaidAmountIDR))
	assert.Equal(t, int64(0), ledger.Balance(inv.InvoiceTotalAmountIDR, inv.InvoicePaidAmountIDR))

	newLabel := "Transport (koreksi)"
	inv, err = UpdateItem(ctx, db, fx.School, items[1].InvoiceItemID, ItemPatch{Label: &newLabel})
	require.NoError(t, err)
	assert.Equal(t, newLabel, inv.Items[1].InvoiceItemLabel)

	_, err = UpdateItem(ctx, db, fx.School, items[0].InvoiceItemID, ItemPatch{})
	assert.Equal(t, "INVALID_ITEMS", invCode(t, err))

	_, err = UpdateItem(ctx, db, fx.School, uuid.New(), ItemPatch{Label: &newLabel})
	assert.Equal(t, "ITEM_NOT_FOUND", invCode(t, err))
}

func TestUpdateInvoice_MetadataOnly(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 1)
	ctx := context.Background()

	res, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)
	invID := res.InvoiceIDs[0]

	due := time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC)
	notes := "dispensasi sampai pertengahan Agustus"
	inv, err := UpdateInvoice(ctx, db, fx.School, invID, InvoicePatch{DueDate: &due, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "2025-08-15", inv.InvoiceDueDate.UTC().Format("2006-01-02"))
	require.NotNil(t, inv.InvoiceNotes)
	assert.Equal(t, notes, *inv.InvoiceNotes)
	// tanpa recompute — angka tidak tersentuh
	assert.Equal(t, int64(7000), inv.InvoiceTotalAmountIDR)
	assert.Equal(t, int64(0), inv.InvoicePaidAmountIDR)

	_, err = UpdateInvoice(ctx, db, fx.School, uuid.New(), InvoicePatch{Notes: &notes})
	assert.Equal(t, "NOT_FOUND", invCode(t, err))
}

func TestDeleteInvoice_CascadesOwnPaymentsOnly(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 1)
	ctx := context.Background()

	res, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)
	invID := res.InvoiceIDs[0]

	var inv model.Invoice
	require.NoError(t, db.First(&inv, "invoice_id = ?", invID).Error)
	addCompletedPayment(t, db, inv, 1000)

	// pembayaran komponen langsung (tanpa invoice) harus selamat
	componentID := uuid.New()
	comp := paymentModel.Payment{
		PaymentComponentTypeID: &componentID,
		PaymentStudentID:       inv.InvoiceStudentID,
		PaymentSchoolCode:      fx.School,
		PaymentAmountIDR:       2500,
		PaymentMethod:          paymentModel.PaymentMethodCash,
		PaymentStatus:          paymentModel.PaymentStatusCompleted,
	}
	require.NoError(t, db.Create(&comp).Error)

	require.NoError(t, DeleteInvoice(ctx, db, fx.School, invID))

	var n int64
	require.NoError(t, db.Model(&model.Invoice{}).Where("invoice_id = ?", invID).Count(&n).Error)
	assert.Equal(t, int64(0), n)
	require.NoError(t, db.Model(&model.InvoiceItem{}).Where("invoice_item_invoice_id = ?", invID).Count(&n).Error)
	assert.Equal(t, int64(0), n)
	require.NoError(t, db.Model(&paymentModel.Payment{}).Where("payment_invoice_id = ?", invID).Count(&n).Error)
	assert.Equal(t, int64(0), n)
	require.NoError(t, db.Model(&paymentModel.Payment{}).Where("payment_id = ?", comp.PaymentID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	err = DeleteInvoice(ctx, db, fx.School, invID)
	assert.Equal(t, "NOT_FOUND", invCode(t, err))
}

/* =========================================================
   Reads
========================================================= */

func TestInvoiceReads(t *testing.T) {
	db := openTestDB(t)
	fx := seedClass(t, db, 2)
	ctx := context.Background()

	_, err := GenerateForClass(ctx, db, fx.generateInput("2025-07", tuitionTransport()))
	require.NoError(t, err)
	_, err = GenerateForClass(ctx, db, fx.generateInput("2025-08", tuitionTransport()))
	require.NoError(t, err)

	sid := fx.Students[0].StudentID
	rows, err := GetByStudent(ctx, db, fx.School, sid, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = GetByStudent(ctx, db, fx.School, sid, &fx.Year.AcademicYearID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	otherYear := uuid.New()
	rows, err = GetByStudent(ctx, db, fx.School, sid, &otherYear)
	require.NoError(t, err)
	assert.Empty(t, rows)

	period := "2025-07"
	rows, err = GetByClass(ctx, db, fx.School, fx.Class.ClassID, &period)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = GetByClass(ctx, db, fx.School, fx.Class.ClassID, nil)
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	inv, payments, err := GetDetail(ctx, db, fx.School, rows[0].InvoiceID)
	require.NoError(t, err)
	assert.Len(t, inv.Items, 2)
	assert.Empty(t, payments)

	addCompletedPayment(t, db, inv, 500)
	_, payments, err = GetDetail(ctx, db, fx.School, inv.InvoiceID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	_, _, err = GetDetail(ctx, db, fx.School, uuid.New())
	assert.Equal(t, "NOT_FOUND", invCode(t, err))

	// tenant lain tidak bisa mengintip
	_, _, err = GetDetail(ctx, db, "SCH02", inv.InvoiceID)
	assert.Equal(t, "NOT_FOUND", invCode(t, err))
}
