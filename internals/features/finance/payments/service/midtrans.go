// file: internals/features/finance/payments/service/midtrans.go
package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	model "sekolahku_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Midtrans Client
========================================================= */

var SnapClient snap.Client

// InitMidtrans harus dipanggil saat bootstrap app.
// useProduction=true untuk Production, false untuk Sandbox.
func InitMidtrans(serverKey string, useProduction bool) {
	if useProduction {
		SnapClient.New(serverKey, midtrans.Production)
	} else {
		SnapClient.New(serverKey, midtrans.Sandbox)
	}
}

/* =========================================================
   Input helper untuk data customer
========================================================= */

type CustomerInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

/* =========================================================
   Generate Snap Token
========================================================= */

func GenerateSnapToken(p model.Payment, cust CustomerInput) (string, string, error) {
	if p.PaymentAmountIDR <= 0 {
		return "", "", errors.New("invalid payment_amount_idr")
	}
	if p.PaymentGatewayOrderID == nil || *p.PaymentGatewayOrderID == "" {
		return "", "", errors.New("payment_gateway_order_id is required (used as OrderID)")
	}

	itemName := "School fee payment"
	if p.PaymentNotes != nil && strings.TrimSpace(*p.PaymentNotes) != "" {
		itemName = truncate(strings.TrimSpace(*p.PaymentNotes), 50)
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  *p.PaymentGatewayOrderID,
			GrossAmt: p.PaymentAmountIDR,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			LName: cust.LastName,
			Email: cust.Email,
			Phone: cust.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       *p.PaymentGatewayOrderID,
				Price:    p.PaymentAmountIDR,
				Qty:      1,
				Name:     itemName,
				Category: "FEES",
			},
		},
	}

	resp, err := SnapClient.CreateTransaction(req)
	if err != nil {
		return "", "", err
	}
	return resp.Token, resp.RedirectURL, nil
}

/* =========================================================
   Utils
========================================================= */

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

// GenOrderID membuat order_id dengan prefix tertentu (dipakai di Midtrans).
func GenOrderID(prefix string) string {
	now := time.Now().In(time.Local).Format("20060102-150405")
	u := uuid.New().String()
	if len(u) > 8 {
		u = u[:8]
	}
	return prefix + "-" + now + "-" + strings.ToUpper(u)
}
