// file: internals/route/details/academic_routes.go
package details

import (
	academicYearRoute "sekolahku_backend/internals/features/academics/academic_years/route"
	classRoute "sekolahku_backend/internals/features/academics/classes/route"
	studentRoute "sekolahku_backend/internals/features/academics/students/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AcademicAdminRoutes — data pendukung (tahun ajaran, kelas, siswa).
func AcademicAdminRoutes(r fiber.Router, db *gorm.DB) {
	academicYearRoute.AcademicYearAdminRoutes(r, db)
	classRoute.ClassAdminRoutes(r, db)
	studentRoute.StudentAdminRoutes(r, db)
}
