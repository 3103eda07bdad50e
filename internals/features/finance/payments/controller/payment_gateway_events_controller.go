// file: internals/features/finance/payments/controller/payment_gateway_events_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/model"
	svc "sekolahku_backend/internals/features/finance/payments/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/* =======================================================================
   Webhook Midtrans + log event gateway
======================================================================= */

type PaymentWebhookController struct {
	DB                *gorm.DB
	MidtransServerKey string
}

func NewPaymentWebhookController(db *gorm.DB, midtransServerKey string) *PaymentWebhookController {
	return &PaymentWebhookController{DB: db, MidtransServerKey: midtransServerKey}
}

// POST /api/public/payments/midtrans/webhook
// Selalu balas 200 untuk notifikasi yang tertangani (termasuk duplicate /
// order tak dikenal) supaya Midtrans berhenti retry; 401 hanya untuk
// signature yang tidak cocok.
func (h *PaymentWebhookController) MidtransWebhook(c *fiber.Ctx) error {
	var notif svc.MidtransNotification
	if err := c.BodyParser(&notif); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload: "+err.Error())
	}
	if strings.TrimSpace(notif.OrderID) == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "order_id is required")
	}

	signatureOK := svc.VerifyNotificationSignature(notif, h.MidtransServerKey)
	// Server key kosong = sandbox tanpa enforcement; event tetap dicatat
	// dengan signature_ok=false.
	if h.MidtransServerKey != "" && !signatureOK {
		return helper.JsonError(c, fiber.StatusUnauthorized, "invalid signature")
	}

	res, err := svc.SettleGatewayPayment(c.Context(), h.DB, notif, signatureOK)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	switch {
	case res.Duplicate:
		return helper.JsonOK(c, "duplicate notification, already processed", fiber.Map{
			"order_id": notif.OrderID,
			"status":   "duplicate",
		})
	case res.Ignored:
		return helper.JsonOK(c, "payment not found for order_id, logged", fiber.Map{
			"order_id": notif.OrderID,
			"status":   "ignored",
		})
	default:
		return helper.JsonOK(c, "notification processed", fiber.Map{
			"order_id":   notif.OrderID,
			"payment_id": res.PaymentID,
			"old_status": res.OldStatus,
			"new_status": res.NewStatus,
		})
	}
}

/* =======================================================================
   Log event (audit) — staf
======================================================================= */

// GET /api/a/payments/gateway-events?order_id=&processed=&page=&per_page=
func (h *PaymentWebhookController) ListGatewayEvents(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureStaffSchool(c, schoolCode); err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 25, 200)

	q := h.DB.WithContext(c.Context()).Model(&model.PaymentGatewayEventModel{})

	if oid := strings.TrimSpace(c.Query("order_id")); oid != "" {
		q = q.Where("gateway_event_order_id = ?", oid)
	}
	switch strings.ToLower(strings.TrimSpace(c.Query("processed"))) {
	case "true", "1":
		q = q.Where("gateway_event_processed_at IS NOT NULL")
	case "false", "0":
		q = q.Where("gateway_event_processed_at IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []model.PaymentGatewayEventModel
	if err := q.Order("gateway_event_received_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/a/payments/gateway-events/:id
func (h *PaymentWebhookController) GetGatewayEventByID(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureStaffSchool(c, schoolCode); err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var ev model.PaymentGatewayEventModel
	if err := h.DB.WithContext(c.Context()).
		First(&ev, "gateway_event_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "gateway event not found", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "ok", ev)
}
