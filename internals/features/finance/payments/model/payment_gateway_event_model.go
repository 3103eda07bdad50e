// file: internals/features/finance/payments/model/payment_gateway_event_model.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/*
  payment_gateway_events = LOG WEBHOOK / CALLBACK PAYMENT GATEWAY
  - Satu row per notifikasi unik (provider, order_id, transaction_status);
    retry dengan isi sama tidak menambah row (dedup via unique index).
  - Nyimpen raw payload + hasil verifikasi signature buat audit/replay.
*/

type PaymentGatewayEventModel struct {
	GatewayEventID uuid.UUID `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`

	GatewayEventProvider          string `gorm:"column:gateway_event_provider;type:varchar(20);not null;default:'midtrans';uniqueIndex:uq_gateway_event_dedup,priority:1" json:"gateway_event_provider"`
	GatewayEventOrderID           string `gorm:"column:gateway_event_order_id;type:varchar(64);not null;index:ix_gateway_event_order;uniqueIndex:uq_gateway_event_dedup,priority:2" json:"gateway_event_order_id"`
	GatewayEventTransactionStatus string `gorm:"column:gateway_event_transaction_status;type:varchar(30);not null;uniqueIndex:uq_gateway_event_dedup,priority:3" json:"gateway_event_transaction_status"`

	GatewayEventPaymentID *uuid.UUID `gorm:"column:gateway_event_payment_id;type:uuid;index:ix_gateway_event_payment" json:"gateway_event_payment_id,omitempty"`

	GatewayEventSignatureOK bool           `gorm:"column:gateway_event_signature_ok;not null" json:"gateway_event_signature_ok"`
	GatewayEventPayload     datatypes.JSON `gorm:"column:gateway_event_payload;type:jsonb" json:"gateway_event_payload,omitempty"`
	GatewayEventError       *string        `gorm:"column:gateway_event_error;type:text" json:"gateway_event_error,omitempty"`

	GatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null" json:"gateway_event_received_at"`
	GatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at,omitempty"`

	GatewayEventCreatedAt time.Time `gorm:"column:gateway_event_created_at;not null" json:"gateway_event_created_at"`
	GatewayEventUpdatedAt time.Time `gorm:"column:gateway_event_updated_at;not null" json:"gateway_event_updated_at"`
}

func (PaymentGatewayEventModel) TableName() string {
	return "payment_gateway_events"
}

func (m *PaymentGatewayEventModel) BeforeCreate(tx *gorm.DB) error {
	if m.GatewayEventID == uuid.Nil {
		m.GatewayEventID = uuid.New()
	}
	if strings.TrimSpace(m.GatewayEventProvider) == "" {
		m.GatewayEventProvider = "midtrans"
	}
	if strings.TrimSpace(m.GatewayEventOrderID) == "" {
		return fmt.Errorf("gateway_event_order_id is required")
	}
	if strings.TrimSpace(m.GatewayEventTransactionStatus) == "" {
		return fmt.Errorf("gateway_event_transaction_status is required")
	}
	now := time.Now()
	if m.GatewayEventReceivedAt.IsZero() {
		m.GatewayEventReceivedAt = now
	}
	if m.GatewayEventCreatedAt.IsZero() {
		m.GatewayEventCreatedAt = now
	}
	m.GatewayEventUpdatedAt = now
	return nil
}

func (m *PaymentGatewayEventModel) BeforeUpdate(tx *gorm.DB) error {
	m.GatewayEventUpdatedAt = time.Now()
	return nil
}
