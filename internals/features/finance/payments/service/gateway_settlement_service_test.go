// file: internals/features/finance/payments/service/gateway_settlement_service_test.go
package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invoiceModel "sekolahku_backend/internals/features/finance/invoices/model"
	invoiceSvc "sekolahku_backend/internals/features/finance/invoices/service"
	"sekolahku_backend/internals/features/finance/ledger"
	model "sekolahku_backend/internals/features/finance/payments/model"
)

func signedNotif(orderID, statusCode, grossAmount, serverKey string) MidtransNotification {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return MidtransNotification{
		OrderID:      orderID,
		StatusCode:   statusCode,
		GrossAmount:  grossAmount,
		SignatureKey: hex.EncodeToString(sum[:]),
	}
}

func TestVerifyNotificationSignature(t *testing.T) {
	serverKey := "SB-Mid-server-abc123"
	n := signedNotif("FEE-20250701-120000-AAAA1111", "200", "5000.00", serverKey)

	assert.True(t, VerifyNotificationSignature(n, serverKey))

	// hex huruf besar tetap diterima
	upper := n
	upper.SignatureKey = strings.ToUpper(n.SignatureKey)
	assert.True(t, VerifyNotificationSignature(upper, serverKey))

	assert.False(t, VerifyNotificationSignature(n, "kunci-lain"))

	tampered := n
	tampered.GrossAmount = "9999.00"
	assert.False(t, VerifyNotificationSignature(tampered, serverKey))

	empty := n
	empty.SignatureKey = ""
	assert.False(t, VerifyNotificationSignature(empty, serverKey))
}

func TestMapMidtransStatus(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name       string
		ts         string
		fraud      string
		want       model.PaymentStatus
		paidAt     bool
		failedAt   bool
		canceledAt bool
	}{
		{"capture accept", "capture", "accept", model.PaymentStatusCompleted, true, false, false},
		{"capture challenge tetap pending", "capture", "challenge", model.PaymentStatusPending, false, false, false},
		{"capture fraud deny", "capture", "deny", model.PaymentStatusFailed, false, true, false},
		{"settlement", "settlement", "", model.PaymentStatusCompleted, true, false, false},
		{"settlement huruf besar", "SETTLEMENT", "", model.PaymentStatusCompleted, true, false, false},
		{"pending", "pending", "", model.PaymentStatusPending, false, false, false},
		{"deny", "deny", "", model.PaymentStatusFailed, false, true, false},
		{"failure", "failure", "", model.PaymentStatusFailed, false, true, false},
		{"cancel", "cancel", "", model.PaymentStatusCanceled, false, false, true},
		{"expire", "expire", "", model.PaymentStatusExpired, false, false, false},
		{"refund", "refund", "", model.PaymentStatusCanceled, false, false, true},
		{"partial refund", "partial_refund", "", model.PaymentStatusCanceled, false, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, fields := MapMidtransStatus(model.PaymentStatusPending, tc.ts, tc.fraud, now)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.paidAt, fields.PaidAt != nil)
			assert.Equal(t, tc.failedAt, fields.FailedAt != nil)
			assert.Equal(t, tc.canceledAt, fields.CanceledAt != nil)
		})
	}

	// status asing tidak mengubah apa pun
	got, fields := MapMidtransStatus(model.PaymentStatusCompleted, "chargeback", "", now)
	assert.Equal(t, model.PaymentStatusCompleted, got)
	assert.Nil(t, fields.PaidAt)
}

func TestSettleGatewayPayment_SettlementFlow(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()

	inv := generateInvoice(t, db, fx, "2025-07", []invoiceSvc.GenerateItemInput{
		{Label: "Tuition", AmountIDR: 5000},
	})
	orderID := "FEE-TEST-SETTLE-1"
	p := seedPendingOnline(t, db, inv, 3000, orderID)

	notif := MidtransNotification{
		OrderID:           orderID,
		TransactionStatus: "settlement",
		StatusCode:        "200",
		GrossAmount:       "3000.00",
		TransactionID:     "MID-123",
	}
	res, err := SettleGatewayPayment(ctx, db, notif, true)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.False(t, res.Ignored)
	assert.Equal(t, model.PaymentStatusPending, res.OldStatus)
	assert.Equal(t, model.PaymentStatusCompleted, res.NewStatus)
	require.NotNil(t, res.PaymentID)
	assert.Equal(t, p.PaymentID, *res.PaymentID)

	var got model.Payment
	require.NoError(t, db.First(&got, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusCompleted, got.PaymentStatus)
	require.NotNil(t, got.PaymentPaidAt)
	require.NotNil(t, got.PaymentGatewayTransactionID)
	assert.Equal(t, "MID-123", *got.PaymentGatewayTransactionID)

	// settlement menggerakkan invoice
	require.NoError(t, db.First(&inv, "invoice_id = ?", inv.InvoiceID).Error)
	assert.Equal(t, int64(3000), inv.InvoicePaidAmountIDR)
	assert.Equal(t, ledger.InvoiceStatusPartial, inv.InvoiceStatus)

	var ev model.PaymentGatewayEventModel
	require.NoError(t, db.First(&ev, "gateway_event_order_id = ?", orderID).Error)
	assert.True(t, ev.GatewayEventSignatureOK)
	require.NotNil(t, ev.GatewayEventProcessedAt)
	require.NotNil(t, ev.GatewayEventPaymentID)
	assert.Equal(t, p.PaymentID, *ev.GatewayEventPaymentID)
	assert.Nil(t, ev.GatewayEventError)

	// retry Midtrans dengan isi sama berhenti di dedup
	res, err = SettleGatewayPayment(ctx, db, notif, true)
	require.NoError(t, err)
	assert.True(t, res.Duplicate)

	var n int64
	require.NoError(t, db.Model(&model.PaymentGatewayEventModel{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
	require.NoError(t, db.First(&inv, "invoice_id = ?", inv.InvoiceID).Error)
	assert.Equal(t, int64(3000), inv.InvoicePaidAmountIDR)
}

func TestSettleGatewayPayment_UnknownOrderIgnored(t *testing.T) {
	db := openTestDB(t)
	seedPayFixture(t, db, 1)
	ctx := context.Background()

	notif := MidtransNotification{
		OrderID:           "FEE-TIDAK-ADA",
		TransactionStatus: "settlement",
	}
	res, err := SettleGatewayPayment(ctx, db, notif, false)
	require.NoError(t, err)
	assert.True(t, res.Ignored)
	assert.False(t, res.Duplicate)

	// event tetap tercatat untuk audit, lengkap dengan error note
	var ev model.PaymentGatewayEventModel
	require.NoError(t, db.First(&ev, "gateway_event_order_id = ?", "FEE-TIDAK-ADA").Error)
	assert.False(t, ev.GatewayEventSignatureOK)
	require.NotNil(t, ev.GatewayEventError)
	assert.Contains(t, *ev.GatewayEventError, "payment not found")
	require.NotNil(t, ev.GatewayEventProcessedAt)

	res, err = SettleGatewayPayment(ctx, db, notif, false)
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
}

func TestSettleGatewayPayment_ExpireReleasesReservation(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()

	inv := generateInvoice(t, db, fx, "2025-07", []invoiceSvc.GenerateItemInput{
		{Label: "Tuition", AmountIDR: 5000},
	})
	orderID := "FEE-TEST-EXPIRE-1"
	p := seedPendingOnline(t, db, inv, 3000, orderID)

	// pending memesan saldo: full payment tunai tertolak dulu
	_, err := RecordPayment(ctx, db, RecordInput{
		InvoiceID: &inv.InvoiceID, SchoolCode: fx.School,
		AmountIDR: 5000, Method: model.PaymentMethodCash,
	})
	assert.Equal(t, "OVERPAYMENT", payErr(t, err).Code)

	res, err := SettleGatewayPayment(ctx, db, MidtransNotification{
		OrderID:           orderID,
		TransactionStatus: "expire",
	}, true)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusExpired, res.NewStatus)

	var got model.Payment
	require.NoError(t, db.First(&got, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusExpired, got.PaymentStatus)

	// reservasi lepas → pembayaran penuh lewat kasir jalan lagi
	out, err := RecordPayment(ctx, db, RecordInput{
		InvoiceID: &inv.InvoiceID, SchoolCode: fx.School,
		AmountIDR: 5000, Method: model.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), out.Invoice.InvoicePaidAmountIDR)
	assert.Equal(t, ledger.InvoiceStatusPaid, out.Invoice.InvoiceStatus)
}

func TestSettleGatewayPayment_PendingThenSettlement(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()

	inv := generateInvoice(t, db, fx, "2025-07", []invoiceSvc.GenerateItemInput{
		{Label: "Tuition", AmountIDR: 5000},
	})
	orderID := "FEE-TEST-FLOW-1"
	p := seedPendingOnline(t, db, inv, 3000, orderID)

	// notifikasi pending: status tetap, transaction_id tersimpan
	res, err := SettleGatewayPayment(ctx, db, MidtransNotification{
		OrderID:           orderID,
		TransactionStatus: "pending",
		TransactionID:     "MID-PND-1",
	}, true)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, model.PaymentStatusPending, res.NewStatus)

	var got model.Payment
	require.NoError(t, db.First(&got, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusPending, got.PaymentStatus)
	require.NotNil(t, got.PaymentGatewayTransactionID)
	assert.Equal(t, "MID-PND-1", *got.PaymentGatewayTransactionID)
	require.NoError(t, db.First(&inv, "invoice_id = ?", inv.InvoiceID).Error)
	assert.Equal(t, int64(0), inv.InvoicePaidAmountIDR)

	// settlement menyusul: transaction_status beda → bukan duplicate
	res, err = SettleGatewayPayment(ctx, db, MidtransNotification{
		OrderID:           orderID,
		TransactionStatus: "settlement",
		TransactionID:     "MID-PND-1",
	}, true)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, model.PaymentStatusCompleted, res.NewStatus)

	require.NoError(t, db.First(&inv, "invoice_id = ?", inv.InvoiceID).Error)
	assert.Equal(t, int64(3000), inv.InvoicePaidAmountIDR)

	var n int64
	require.NoError(t, db.Model(&model.PaymentGatewayEventModel{}).
		Where("gateway_event_order_id = ?", orderID).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestSettleGatewayPayment_RetryAfterStorageFailureReprocessed(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()

	inv := generateInvoice(t, db, fx, "2025-07", []invoiceSvc.GenerateItemInput{
		{Label: "Tuition", AmountIDR: 5000},
	})
	orderID := "FEE-TEST-RETRY-1"
	p := seedPendingOnline(t, db, inv, 3000, orderID)

	notif := MidtransNotification{
		OrderID:           orderID,
		TransactionStatus: "settlement",
		TransactionID:     "MID-RTY-1",
	}

	// gangguan storage di tengah settlement pertama (recalc invoice gagal)
	require.NoError(t, db.Migrator().RenameTable("invoice_items", "invoice_items_offline"))
	_, err := SettleGatewayPayment(ctx, db, notif, true)
	require.Error(t, err)
	require.NoError(t, db.Migrator().RenameTable("invoice_items_offline", "invoice_items"))

	// transaksi rollback: payment belum bergerak, dan klaim dedup DILEPAS —
	// kalau row event dibiarkan, retry di bawah mati sebagai duplicate dan
	// uang yang sudah settle tidak pernah masuk paid_amount
	var got model.Payment
	require.NoError(t, db.First(&got, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusPending, got.PaymentStatus)

	var n int64
	require.NoError(t, db.Model(&model.PaymentGatewayEventModel{}).
		Where("gateway_event_order_id = ?", orderID).Count(&n).Error)
	assert.Equal(t, int64(0), n)

	// retry Midtrans dengan isi sama diproses penuh, bukan duplicate
	res, err := SettleGatewayPayment(ctx, db, notif, true)
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.Equal(t, model.PaymentStatusCompleted, res.NewStatus)

	require.NoError(t, db.First(&got, "payment_id = ?", p.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusCompleted, got.PaymentStatus)
	require.NoError(t, db.First(&inv, "invoice_id = ?", inv.InvoiceID).Error)
	assert.Equal(t, int64(3000), inv.InvoicePaidAmountIDR)
	assert.Equal(t, ledger.InvoiceStatusPartial, inv.InvoiceStatus)
}

func TestSettleGatewayPayment_ComponentScopeSkipsInvoiceRecalc(t *testing.T) {
	db := openTestDB(t)
	fx := seedPayFixture(t, db, 1)
	ctx := context.Background()
	sid := fx.Students[0].StudentID
	sppID := fx.SPP.FeeComponentTypeID

	seedPlanItem(t, db, fx, sid, sppID, 5000, 1)

	orderID := "FEE-TEST-COMP-1"
	p := model.Payment{
		PaymentComponentTypeID: &sppID,
		PaymentStudentID:       sid,
		PaymentSchoolCode:      fx.School,
		PaymentAmountIDR:       2000,
		PaymentMethod:          model.PaymentMethodOnline,
		PaymentStatus:          model.PaymentStatusPending,
		PaymentGatewayOrderID:  &orderID,
	}
	require.NoError(t, db.Create(&p).Error)

	res, err := SettleGatewayPayment(ctx, db, MidtransNotification{
		OrderID:           orderID,
		TransactionStatus: "settlement",
	}, true)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, res.NewStatus)

	bal, err := ComponentBalance(ctx, db, fx.School, sid, sppID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), bal.Paid)
	assert.Equal(t, int64(3000), bal.Remaining)

	var n int64
	require.NoError(t, db.Model(&invoiceModel.Invoice{}).Count(&n).Error)
	assert.Equal(t, int64(0), n) // tidak ada invoice yang tersentuh
}
