// file: internals/features/finance/fee_components/route/fee_component_type_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	feeComponentController "sekolahku_backend/internals/features/finance/fee_components/controller"
)

// FeeComponentTypeAdminRoutes — mount di /api/a.
func FeeComponentTypeAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := feeComponentController.NewFeeComponentTypeController(db)

	g := r.Group("/fee-components")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}
