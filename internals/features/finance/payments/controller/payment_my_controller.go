// file: internals/features/finance/payments/controller/payment_my_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/payments/dto"
	"sekolahku_backend/internals/features/finance/payments/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/* =======================================================================
   Surface murid/wali — riwayat pembayaran milik sendiri.
   student_id diambil dari token, bukan dari query.
======================================================================= */

// GET /api/u/payments?status=&page=&per_page=
func (h *PaymentController) MyPayments(c *fiber.Ctx) error {
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

	p := helper.ResolvePaging(c, 20, 100)

	q := h.DB.WithContext(c.Context()).
		Model(&model.Payment{}).
		Where("payment_school_code = ? AND payment_student_id = ?", schoolCode, *studentID)

	if s := strings.TrimSpace(c.Query("status")); s != "" {
		ps := model.PaymentStatus(strings.ToLower(s))
		if !ps.Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid status filter")
		}
		q = q.Where("payment_status = ?", ps)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []model.Payment
	if err := q.Order("payment_date DESC, payment_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	return helper.JsonList(c, "my payments",
		dto.ToPaymentResponses(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/u/payments/:id — detail satu pembayaran milik sendiri.
func (h *PaymentController) MyPaymentByID(c *fiber.Ctx) error {
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

	var m model.Payment
	if err := h.DB.WithContext(c.Context()).
		First(&m, "payment_id = ? AND payment_school_code = ?", id, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "payment not found", nil)
		}
		return helper.WritePGError(c, err)
	}
	// kepemilikan: pembayaran siswa lain tampil sebagai tidak ditemukan
	if m.PaymentStudentID != *studentID {
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "payment not found", nil)
	}

	return helper.JsonOK(c, "payment detail", dto.ToPaymentResponse(m, nil, nil))
}
