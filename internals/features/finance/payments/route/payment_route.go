// file: internals/features/finance/payments/route/payment_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	paymentController "sekolahku_backend/internals/features/finance/payments/controller"
	middlewares "sekolahku_backend/internals/middlewares"
)

// PaymentAdminRoutes — mount di /api/a: pencatatan + baca ledger.
func PaymentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewPaymentController(db)
	webhookCtl := paymentController.NewPaymentWebhookController(db, configs.MidtransServerKey)
	writeLimit := middlewares.FinanceWriteRateLimiter()

	g := r.Group("/payments")
	g.Post("/invoice", writeLimit, ctl.RecordInvoicePayment)
	g.Post("/invoice-item", writeLimit, ctl.RecordItemPayment)
	g.Post("/component", writeLimit, ctl.RecordComponentPayment)

	g.Get("/", ctl.ListPayments)
	g.Get("/component-balance", ctl.GetComponentBalance)

	// audit log webhook
	g.Get("/gateway-events", webhookCtl.ListGatewayEvents)
	g.Get("/gateway-events/:id", webhookCtl.GetGatewayEventByID)

	g.Get("/:id", ctl.GetPaymentByID)
}

// PaymentUserRoutes — mount di /api/u: riwayat milik sendiri.
func PaymentUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewPaymentController(db)

	g := r.Group("/payments")
	g.Get("/", ctl.MyPayments)
	g.Get("/:id", ctl.MyPaymentByID)
}

// PaymentWebhookRoutes — mount di /api/public: callback Midtrans.
func PaymentWebhookRoutes(r fiber.Router, db *gorm.DB) {
	ctl := paymentController.NewPaymentWebhookController(db, configs.MidtransServerKey)

	g := r.Group("/payments")
	g.Post("/midtrans/webhook", middlewares.WebhookRateLimiter(), ctl.MidtransWebhook)
}
