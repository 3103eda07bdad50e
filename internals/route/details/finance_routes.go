// file: internals/route/details/finance_routes.go
package details

import (
	feeComponentRoute "sekolahku_backend/internals/features/finance/fee_components/route"
	feePlanRoute "sekolahku_backend/internals/features/finance/fee_plans/route"
	invoiceRoute "sekolahku_backend/internals/features/finance/invoices/route"
	paymentRoute "sekolahku_backend/internals/features/finance/payments/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FinancePublicRoutes — webhook gateway (tanpa JWT, rate-limit sendiri).
func FinancePublicRoutes(r fiber.Router, db *gorm.DB) {
	paymentRoute.PaymentWebhookRoutes(r, db)
}

// FinanceUserRoutes — tagihan & pembayaran milik murid/wali yang login.
func FinanceUserRoutes(r fiber.Router, db *gorm.DB) {
	invoiceRoute.InvoiceUserRoutes(r, db)
	paymentRoute.PaymentUserRoutes(r, db)
}

// FinanceAdminRoutes — surface bendahara/staf.
func FinanceAdminRoutes(r fiber.Router, db *gorm.DB) {
	feeComponentRoute.FeeComponentTypeAdminRoutes(r, db)
	feePlanRoute.FeeStudentPlanAdminRoutes(r, db)
	invoiceRoute.InvoiceAdminRoutes(r, db)
	paymentRoute.PaymentAdminRoutes(r, db)
}
