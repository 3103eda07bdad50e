// file: internals/features/finance/invoices/service/invoice_mutation_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "sekolahku_backend/internals/features/finance/invoices/model"
	helper "sekolahku_backend/internals/helpers"
)

/* =========================================================
   Item mutations — semua recompute total+status di satu tx
========================================================= */

type ItemInput struct {
	Label           string
	AmountIDR       int64 // boleh negatif (diskon/penyesuaian)
	ComponentTypeID *uuid.UUID
}

type ItemPatch struct {
	Label     *string
	AmountIDR *int64
}

type InvoicePatch struct {
	DueDate *time.Time
	Notes   *string
}

// AddItems menambah baris lalu menghitung ulang total & status.
// Total boleh turun di bawah paid lewat item negatif — dibiarkan dan
// tampil sebagai overpaid, tidak pernah dijepit.
func AddItems(ctx context.Context, db *gorm.DB, schoolCode string, invoiceID uuid.UUID, items []ItemInput) (model.Invoice, error) {
	var out model.Invoice
	if len(items) == 0 {
		return out, helper.NewAppError(400, "INVALID_ITEMS", "items must not be empty")
	}
	for _, it := range items {
		if strings.TrimSpace(it.Label) == "" {
			return out, helper.NewAppError(400, "INVALID_ITEMS", "item label must not be blank")
		}
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, schoolCode, invoiceID)
		if err != nil {
			return err
		}
		for _, it := range items {
			row := model.InvoiceItem{
				InvoiceItemInvoiceID:       inv.InvoiceID,
				InvoiceItemComponentTypeID: it.ComponentTypeID,
				InvoiceItemLabel:           strings.TrimSpace(it.Label),
				InvoiceItemAmountIDR:       it.AmountIDR,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		out, err = RecalcInvoiceTx(tx, inv.InvoiceID)
		return err
	})
	if err != nil {
		return out, err
	}
	return withItems(ctx, db, out)
}

// RemoveItems menghapus baris-baris milik invoice lalu recompute.
func RemoveItems(ctx context.Context, db *gorm.DB, schoolCode string, invoiceID uuid.UUID, itemIDs []uuid.UUID) (model.Invoice, error) {
	var out model.Invoice
	if len(itemIDs) == 0 {
		return out, helper.NewAppError(400, "INVALID_ITEMS", "item_ids must not be empty")
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, schoolCode, invoiceID)
		if err != nil {
			return err
		}

		var owned int64
		if err := tx.Model(&model.InvoiceItem{}).
			Where("invoice_item_id IN ? AND invoice_item_invoice_id = ?", itemIDs, inv.InvoiceID).
			Count(&owned).Error; err != nil {
			return err
		}
		if int(owned) != len(itemIDs) {
			return helper.NewAppError(404, "ITEM_NOT_FOUND", "one or more items do not belong to this invoice")
		}

		if err := tx.
			Where("invoice_item_id IN ? AND invoice_item_invoice_id = ?", itemIDs, inv.InvoiceID).
			Delete(&model.InvoiceItem{}).Error; err != nil {
			return err
		}
		out, err = RecalcInvoiceTx(tx, inv.InvoiceID)
		return err
	})
	if err != nil {
		return out, err
	}
	return withItems(ctx, db, out)
}

// UpdateItem mengubah label/amount satu baris lalu recompute induknya.
func UpdateItem(ctx context.Context, db *gorm.DB, schoolCode string, itemID uuid.UUID, patch ItemPatch) (model.Invoice, error) {
	var out model.Invoice
	if patch.Label == nil && patch.AmountIDR == nil {
		return out, helper.NewAppError(400, "INVALID_ITEMS", "nothing to update")
	}
	if patch.Label != nil && strings.TrimSpace(*patch.Label) == "" {
		return out, helper.NewAppError(400, "INVALID_ITEMS", "item label must not be blank")
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.InvoiceItem
		if err := tx.
			Select("invoice_items.*").
			Joins("JOIN invoices ON invoices.invoice_id = invoice_items.invoice_item_invoice_id").
			Where("invoice_items.invoice_item_id = ? AND invoices.invoice_school_code = ?", itemID, schoolCode).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helper.NewAppError(404, "ITEM_NOT_FOUND", "invoice item not found")
			}
			return err
		}

		if _, err := lockInvoice(tx, schoolCode, item.InvoiceItemInvoiceID); err != nil {
			return err
		}

		updates := map[string]any{"invoice_item_updated_at": time.Now()}
		if patch.Label != nil {
			updates["invoice_item_label"] = strings.TrimSpace(*patch.Label)
		}
		if patch.AmountIDR != nil {
			updates["invoice_item_amount_idr"] = *patch.AmountIDR
		}
		if err := tx.Model(&model.InvoiceItem{}).
			Where("invoice_item_id = ?", item.InvoiceItemID).
			Updates(updates).Error; err != nil {
			return err
		}

		var err error
		out, err = RecalcInvoiceTx(tx, item.InvoiceItemInvoiceID)
		return err
	})
	if err != nil {
		return out, err
	}
	return withItems(ctx, db, out)
}

/* =========================================================
   Invoice metadata & delete
========================================================= */

// UpdateInvoice: due_date/notes saja — tanpa recompute.
func UpdateInvoice(ctx context.Context, db *gorm.DB, schoolCode string, invoiceID uuid.UUID, patch InvoicePatch) (model.Invoice, error) {
	var inv model.Invoice
	if err := db.WithContext(ctx).
		First(&inv, "invoice_id = ? AND invoice_school_code = ?", invoiceID, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inv, helper.NewAppError(404, "NOT_FOUND", "invoice not found")
		}
		return inv, err
	}

	updates := map[string]any{"invoice_updated_at": time.Now()}
	if patch.DueDate != nil {
		updates["invoice_due_date"] = *patch.DueDate
	}
	if patch.Notes != nil {
		updates["invoice_notes"] = *patch.Notes
	}
	if err := db.WithContext(ctx).Model(&model.Invoice{}).
		Where("invoice_id = ?", inv.InvoiceID).
		Updates(updates).Error; err != nil {
		return inv, err
	}

	if err := db.WithContext(ctx).First(&inv, "invoice_id = ?", inv.InvoiceID).Error; err != nil {
		return inv, err
	}
	return withItems(ctx, db, inv)
}

// DeleteInvoice: hard delete berantai — payment dulu, item, lalu invoice.
// Payment ber-scope komponen tidak ikut terhapus (tidak menunjuk invoice).
func DeleteInvoice(ctx context.Context, db *gorm.DB, schoolCode string, invoiceID uuid.UUID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inv, err := lockInvoice(tx, schoolCode, invoiceID)
		if err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM payments WHERE payment_invoice_id = ?`, inv.InvoiceID).Error; err != nil {
			return err
		}
		if err := tx.
			Where("invoice_item_invoice_id = ?", inv.InvoiceID).
			Delete(&model.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Invoice{}, "invoice_id = ?", inv.InvoiceID).Error
	})
}

/* =========================================================
   Internal
========================================================= */

// lockInvoice mengunci row invoice (FOR UPDATE) supaya mutasi & pembayaran
// terhadap satu invoice tersusun serial. Di dialect non-postgres (sqlite
// test) lock dilewati — single writer di sana sudah serial.
func lockInvoice(tx *gorm.DB, schoolCode string, invoiceID uuid.UUID) (model.Invoice, error) {
	var inv model.Invoice
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&inv, "invoice_id = ? AND invoice_school_code = ?", invoiceID, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inv, helper.NewAppError(404, "NOT_FOUND", "invoice not found")
		}
		return inv, err
	}
	return inv, nil
}

func withItems(ctx context.Context, db *gorm.DB, inv model.Invoice) (model.Invoice, error) {
	if err := db.WithContext(ctx).
		Order("invoice_item_created_at ASC").
		Find(&inv.Items, "invoice_item_invoice_id = ?", inv.InvoiceID).Error; err != nil {
		return inv, err
	}
	return inv, nil
}
