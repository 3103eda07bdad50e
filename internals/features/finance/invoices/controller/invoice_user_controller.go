// file: internals/features/finance/invoices/controller/invoice_user_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/features/finance/invoices/dto"
	svc "sekolahku_backend/internals/features/finance/invoices/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"

	paymentDTO "sekolahku_backend/internals/features/finance/payments/dto"
)

/* =======================================================================
   Surface murid/wali — baca tagihan milik sendiri.
   student_id diambil dari token, bukan dari query.
======================================================================= */

// GET /api/u/invoices
func (h *InvoiceController) ListMine(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureMemberSchool(c, schoolCode); err != nil {
		return err
	}

	studentID := helperAuth.GetStudentIDFromToken(c)
	if studentID == nil {
		return helper.JsonError(c, fiber.StatusForbidden, "sesi murid/wali diperlukan")
	}

	yearID, err := helper.ParseUUIDQuery(c, "academic_year_id")
	if err != nil {
		return err
	}

	rows, err := svc.GetByStudent(c.Context(), h.DB, schoolCode, *studentID, yearID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToInvoiceResponses(rows))
}

// GET /api/u/invoices/:id
func (h *InvoiceController) GetMineByID(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureMemberSchool(c, schoolCode); err != nil {
		return err
	}

	studentID := helperAuth.GetStudentIDFromToken(c)
	if studentID == nil {
		return helper.JsonError(c, fiber.StatusForbidden, "sesi murid/wali diperlukan")
	}

	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	inv, payments, err := svc.GetDetail(c.Context(), h.DB, schoolCode, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	// kepemilikan: invoice orang lain tampil sebagai tidak ditemukan
	if inv.InvoiceStudentID != *studentID {
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "invoice not found", nil)
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"invoice":  dto.ToInvoiceResponse(inv, true),
		"payments": paymentDTO.ToPaymentResponses(payments),
	})
}
