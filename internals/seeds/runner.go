// file: internals/seeds/runner.go
package seeds

import (
	academicyear "sekolahku_backend/internals/seeds/academics/academic_years"
	class "sekolahku_backend/internals/seeds/academics/classes"
	feecomponent "sekolahku_backend/internals/seeds/finance/fee_components"
	user "sekolahku_backend/internals/seeds/users"

	"gorm.io/gorm"
)

// RunAllSeeds mengisi data awal deploy pertama / staging. Semua seeder
// idempoten: baris yang sudah ada dilewati, aman dijalankan berulang.
func RunAllSeeds(db *gorm.DB) {

	//* User
	user.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json")

	//* Referensi akademik (urutan penting: tahun ajaran dulu, kelas merujuknya)
	academicyear.SeedAcademicYearsFromJSON(db, "internals/seeds/academics/academic_years/data_academic_years.json")
	class.SeedClassesFromJSON(db, "internals/seeds/academics/classes/data_classes.json")

	//* Komponen biaya
	feecomponent.SeedFeeComponentTypesFromJSON(db, "internals/seeds/finance/fee_components/data_fee_components.json")
}
