// file: internals/features/academics/academic_years/route/academic_year_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	academicYearController "sekolahku_backend/internals/features/academics/academic_years/controller"
)

// AcademicYearAdminRoutes — mount di /api/a.
func AcademicYearAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := academicYearController.NewAcademicYearController(db)

	g := r.Group("/academic-years")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Update)
}
