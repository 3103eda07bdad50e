// file: internals/databases/migrate.go
package database

import (
	"log"

	"gorm.io/gorm"

	yearModel "sekolahku_backend/internals/features/academics/academic_years/model"
	classModel "sekolahku_backend/internals/features/academics/classes/model"
	studentModel "sekolahku_backend/internals/features/academics/students/model"
	componentModel "sekolahku_backend/internals/features/finance/fee_components/model"
	planModel "sekolahku_backend/internals/features/finance/fee_plans/model"
	invoiceModel "sekolahku_backend/internals/features/finance/invoices/model"
	paymentModel "sekolahku_backend/internals/features/finance/payments/model"
	userModel "sekolahku_backend/internals/features/users/user/model"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

// MigrateAll menjalankan AutoMigrate untuk seluruh tabel. Urutan mengikuti
// arah FK: referensi dulu, baru tabel yang menunjuknya.
func MigrateAll(db *gorm.DB) error {
	log.Println("🛠️  AutoMigrate dimulai...")

	if err := db.AutoMigrate(
		// auth & user
		&userModel.User{},
		&helperAuth.TokenBlacklistModel{},

		// akademik
		&yearModel.AcademicYear{},
		&studentModel.Student{},
		&classModel.Class{},
		&classModel.ClassStudent{},

		// keuangan
		&componentModel.FeeComponentType{},
		&planModel.FeeStudentPlan{},
		&planModel.FeeStudentPlanItem{},
		&invoiceModel.Invoice{},
		&invoiceModel.InvoiceItem{},
		&paymentModel.Payment{},
		&paymentModel.PaymentGatewayEventModel{},
	); err != nil {
		return err
	}

	log.Println("✅ AutoMigrate selesai.")
	return nil
}
