// file: internals/features/finance/fee_plans/route/fee_student_plan_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feePlanController "sekolahku_backend/internals/features/finance/fee_plans/controller"
	middlewares "sekolahku_backend/internals/middlewares"
)

// FeeStudentPlanAdminRoutes — mount di /api/a.
func FeeStudentPlanAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := feePlanController.NewFeeStudentPlanController(db)
	writeLimit := middlewares.FinanceWriteRateLimiter()

	g := r.Group("/fee-plans")
	g.Post("/get-or-create", writeLimit, ctl.GetOrCreate)
	g.Post("/apply-to-class", writeLimit, ctl.ApplyToClass)
	g.Put("/:id/items", writeLimit, ctl.UpsertItems)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
}
