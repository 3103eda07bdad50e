// file: internals/features/finance/invoices/route/invoice_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	invoiceController "sekolahku_backend/internals/features/finance/invoices/controller"
	middlewares "sekolahku_backend/internals/middlewares"
)

// InvoiceAdminRoutes — mount di /api/a.
func InvoiceAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := invoiceController.NewInvoiceController(db)
	writeLimit := middlewares.FinanceWriteRateLimiter()

	g := r.Group("/invoices")
	g.Post("/generate", writeLimit, ctl.Generate)
	g.Get("/", ctl.List)

	// Path statis didaftarkan sebelum :id supaya tidak tertelan param.
	g.Patch("/items/:itemId", writeLimit, ctl.UpdateItem)

	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id", writeLimit, ctl.Update)
	g.Delete("/:id", writeLimit, ctl.Delete)
	g.Post("/:id/items", writeLimit, ctl.AddItems)
	g.Delete("/:id/items", writeLimit, ctl.RemoveItems)
}

// InvoiceUserRoutes — mount di /api/u (baca milik sendiri).
func InvoiceUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := invoiceController.NewInvoiceController(db)

	g := r.Group("/invoices")
	g.Get("/", ctl.ListMine)
	g.Get("/:id", ctl.GetMineByID)
}
