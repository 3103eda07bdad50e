// file: internals/features/finance/payments/service/gateway_settlement_service.go
package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	invoiceSvc "sekolahku_backend/internals/features/finance/invoices/service"
	model "sekolahku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Notification payload (Midtrans HTTP notification)
========================================================= */

type MidtransNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, refund, partial_refund, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"` // string dari Midtrans
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
	// field lain aman diabaikan
}

// VerifyNotificationSignature — SHA512(order_id + status_code + gross_amount + ServerKey).
func VerifyNotificationSignature(n MidtransNotification, serverKey string) bool {
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if want == "" {
		return false
	}
	raw := n.OrderID + n.StatusCode + n.GrossAmount + serverKey
	sum := sha512.Sum512([]byte(raw))
	return hex.EncodeToString(sum[:]) == want
}

/* =========================================================
   Status mapping
========================================================= */

// MappedFields menyimpan field waktu yang perlu di-set saat map status.
type MappedFields struct {
	PaidAt     *time.Time
	FailedAt   *time.Time
	CanceledAt *time.Time
}

// MapMidtransStatus mengonversi status Midtrans menjadi status internal.
func MapMidtransStatus(current model.PaymentStatus, transactionStatus, fraudStatus string, now time.Time) (model.PaymentStatus, MappedFields) {
	ts := strings.ToLower(transactionStatus)
	fraud := strings.ToLower(fraudStatus)

	switch ts {
	case "capture":
		// cc: capture + fraud=accept → completed, fraud=challenge → tetap pending
		if fraud == "accept" {
			return model.PaymentStatusCompleted, MappedFields{PaidAt: &now}
		}
		if fraud == "challenge" {
			return model.PaymentStatusPending, MappedFields{}
		}
		return model.PaymentStatusFailed, MappedFields{FailedAt: &now}

	case "settlement":
		return model.PaymentStatusCompleted, MappedFields{PaidAt: &now}

	case "pending":
		return model.PaymentStatusPending, MappedFields{}

	case "deny", "failure":
		return model.PaymentStatusFailed, MappedFields{FailedAt: &now}

	case "cancel":
		return model.PaymentStatusCanceled, MappedFields{CanceledAt: &now}

	case "expire":
		return model.PaymentStatusExpired, MappedFields{}

	// refund di luar scope — uang kembali berarti reservasi lepas.
	case "refund", "partial_refund":
		return model.PaymentStatusCanceled, MappedFields{CanceledAt: &now}
	}

	return current, MappedFields{}
}

/* =========================================================
   Settlement
========================================================= */

type SettleResult struct {
	EventID   uuid.UUID
	PaymentID *uuid.UUID
	OldStatus model.PaymentStatus
	NewStatus model.PaymentStatus
	Duplicate bool // notifikasi (order_id, status) sudah pernah diproses
	Ignored   bool // payment untuk order_id tidak ditemukan
}

// SettleGatewayPayment memproses satu notifikasi Midtrans:
// log event (dedup lewat unique (provider, order_id, transaction_status)),
// flip status payment, lalu recalc invoice bila payment menunjuk invoice.
// Retry Midtrans dengan isi sama berhenti di dedup — tidak diproses dua kali.
func SettleGatewayPayment(ctx context.Context, db *gorm.DB, notif MidtransNotification, signatureOK bool) (SettleResult, error) {
	var res SettleResult

	payload, _ := json.Marshal(notif)
	ev := model.PaymentGatewayEventModel{
		GatewayEventProvider:          "midtrans",
		GatewayEventOrderID:           notif.OrderID,
		GatewayEventTransactionStatus: strings.ToLower(notif.TransactionStatus),
		GatewayEventSignatureOK:       signatureOK,
		GatewayEventPayload:           datatypes.JSON(payload),
	}
	ins := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "gateway_event_provider"},
			{Name: "gateway_event_order_id"},
			{Name: "gateway_event_transaction_status"},
		},
		DoNothing: true,
	}).Create(&ev)
	if ins.Error != nil {
		return res, ins.Error
	}
	if ins.RowsAffected == 0 {
		res.Duplicate = true
		return res, nil
	}
	res.EventID = ev.GatewayEventID

	var p model.Payment
	if err := db.WithContext(ctx).
		First(&p, "payment_gateway_order_id = ?", notif.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res.Ignored = true
			_ = markEventProcessed(db, ev.GatewayEventID, nil, "payment not found for order_id="+notif.OrderID)
			return res, nil
		}
		return res, err
	}
	res.PaymentID = &p.PaymentID
	res.OldStatus = p.PaymentStatus

	now := time.Now()
	newStatus, setFields := MapMidtransStatus(p.PaymentStatus, notif.TransactionStatus, notif.FraudStatus, now)
	res.NewStatus = newStatus

	if newStatus == p.PaymentStatus && notif.TransactionID == "" {
		_ = markEventProcessed(db, ev.GatewayEventID, &p.PaymentID, "")
		return res, nil
	}

	txErr := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"payment_status":     newStatus,
			"payment_updated_at": now,
		}
		if setFields.PaidAt != nil {
			updates["payment_paid_at"] = *setFields.PaidAt
		}
		if setFields.FailedAt != nil {
			updates["payment_failed_at"] = *setFields.FailedAt
		}
		if setFields.CanceledAt != nil {
			updates["payment_canceled_at"] = *setFields.CanceledAt
		}
		if notif.TransactionID != "" {
			updates["payment_gateway_transaction_id"] = notif.TransactionID
		}
		if err := tx.Model(&model.Payment{}).
			Where("payment_id = ?", p.PaymentID).
			Updates(updates).Error; err != nil {
			return err
		}

		// Invoice ikut bergerak hanya bila sum completed-nya berubah.
		if p.PaymentInvoiceID != nil && newStatus != p.PaymentStatus {
			if _, err := invoiceSvc.RecalcInvoiceTx(tx, *p.PaymentInvoiceID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		// Lepas klaim dedup: kalau row event dibiarkan, retry Midtrans
		// berikutnya dianggap duplicate dan settlement hilang selamanya.
		_ = db.WithContext(ctx).
			Delete(&model.PaymentGatewayEventModel{}, "gateway_event_id = ?", ev.GatewayEventID).Error
		return res, txErr
	}

	_ = markEventProcessed(db, ev.GatewayEventID, &p.PaymentID, "")
	return res, nil
}

func markEventProcessed(db *gorm.DB, eventID uuid.UUID, paymentID *uuid.UUID, errMsg string) error {
	now := time.Now()
	updates := map[string]any{
		"gateway_event_processed_at": now,
		"gateway_event_updated_at":   now,
	}
	if paymentID != nil {
		updates["gateway_event_payment_id"] = *paymentID
	}
	if errMsg != "" {
		updates["gateway_event_error"] = errMsg
	}
	return db.Model(&model.PaymentGatewayEventModel{}).
		Where("gateway_event_id = ?", eventID).
		Updates(updates).Error
}
