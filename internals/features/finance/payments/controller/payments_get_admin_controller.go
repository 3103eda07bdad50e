// file: internals/features/finance/payments/controller/payments_get_admin_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/dto"
	"sekolahku_backend/internals/features/finance/payments/model"
	svc "sekolahku_backend/internals/features/finance/payments/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/* =========================================================
   Staf — baca ledger pembayaran
   GET /api/a/payments
   Query:
     - student_id, invoice_id, component_type_id (uuid)
     - method, status (enum)
     - from, to (YYYY-MM-DD, to inklusif)
     - sort=created_at_asc|amount_desc|amount_asc (default terbaru dulu)
========================================================= */

func (h *PaymentController) ListPayments(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureStaffSchool(c, schoolCode); err != nil {
		return err
	}

	var f svc.ListFilter

	if sid, err := helper.ParseUUIDQuery(c, "student_id"); err != nil {
		return err
	} else {
		f.StudentID = sid
	}
	if iid, err := helper.ParseUUIDQuery(c, "invoice_id"); err != nil {
		return err
	} else {
		f.InvoiceID = iid
	}
	if cid, err := helper.ParseUUIDQuery(c, "component_type_id"); err != nil {
		return err
	} else {
		f.ComponentTypeID = cid
	}

	if m := strings.TrimSpace(c.Query("method")); m != "" {
		pm := model.PaymentMethod(m)
		if !pm.Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid method filter")
		}
		f.Method = &pm
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		ps := model.PaymentStatus(s)
		if !ps.Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid status filter")
		}
		f.Status = &ps
	}

	if from, err := helper.ParseDateYMD(c.Query("from")); err != nil {
		return err
	} else {
		f.DateFrom = from
	}
	if to, err := helper.ParseDateYMD(c.Query("to")); err != nil {
		return err
	} else if to != nil {
		end := to.AddDate(0, 0, 1) // inklusif sampai akhir hari
		f.DateTo = &end
	}

	p := helper.ResolvePaging(c, 25, 200)

	order := "payment_date DESC, payment_created_at DESC"
	switch strings.ToLower(strings.TrimSpace(c.Query("sort"))) {
	case "created_at_asc":
		order = "payment_created_at ASC"
	case "amount_desc":
		order = "payment_amount_idr DESC, payment_created_at DESC"
	case "amount_asc":
		order = "payment_amount_idr ASC, payment_created_at DESC"
	}

	rows, total, err := svc.ListPayments(c.Context(), h.DB, schoolCode, f, p.Limit, p.Offset, order)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	return helper.JsonList(c, "ok",
		dto.ToPaymentResponses(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/a/payments/:id
func (h *PaymentController) GetPaymentByID(c *fiber.Ctx) error {
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

	var m model.Payment
	if err := h.DB.WithContext(c.Context()).
		First(&m, "payment_id = ? AND payment_school_code = ?", id, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "payment not found", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToPaymentResponse(m, nil, nil))
}
