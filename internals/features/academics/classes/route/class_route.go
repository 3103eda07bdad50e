// file: internals/features/academics/classes/route/class_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	classController "sekolahku_backend/internals/features/academics/classes/controller"
)

// ClassAdminRoutes — mount di /api/a.
func ClassAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := classController.NewClassController(db)

	g := r.Group("/classes")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Update)

	// Enrolment siswa ke kelas
	g.Post("/:id/students", ctl.EnrollStudents)
	g.Get("/:id/students", ctl.ListStudents)
	g.Delete("/:id/students/:studentId", ctl.UnenrollStudent)
}
