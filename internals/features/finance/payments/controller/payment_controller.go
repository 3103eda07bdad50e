// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/ledger"
	"sekolahku_backend/internals/features/finance/payments/dto"
	"sekolahku_backend/internals/features/finance/payments/model"
	svc "sekolahku_backend/internals/features/finance/payments/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/* =======================================================================
   Controller — pencatatan pembayaran (tiga scope: invoice, item, komponen)
======================================================================= */

type PaymentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, Validator: validator.New()}
}

func toCustomerInput(d *dto.PaymentCustomerDTO) *svc.CustomerInput {
	if d == nil {
		return nil
	}
	return &svc.CustomerInput{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
	}
}

func recordedBy(c *fiber.Ctx) *string {
	if name := helperAuth.GetUserNameFromToken(c); name != "" {
		return &name
	}
	return nil
}

// recordResponse: payment + ringkasan invoice terbaru (bila ada).
func recordResponse(res svc.RecordResult) dto.PaymentWithInvoiceResponse {
	out := dto.PaymentWithInvoiceResponse{
		Payment: dto.ToPaymentResponse(res.Payment, res.SnapToken, res.SnapRedirect),
	}
	if res.Invoice != nil {
		inv := res.Invoice
		balance := ledger.Balance(inv.InvoiceTotalAmountIDR, inv.InvoicePaidAmountIDR)
		status := string(inv.InvoiceStatus)
		out.InvoiceID = &inv.InvoiceID
		out.InvoiceTotalAmountIDR = &inv.InvoiceTotalAmountIDR
		out.InvoicePaidAmountIDR = &inv.InvoicePaidAmountIDR
		out.InvoiceBalanceIDR = &balance
		out.InvoiceStatus = &status
	}
	return out
}

/* =======================================================================
   Record handlers
======================================================================= */

// POST /payments/invoice — bayar ke total invoice.
func (h *PaymentController) RecordInvoicePayment(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}

	var req dto.PaymentRecordInvoiceDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := svc.RecordPayment(c.Context(), h.DB, svc.RecordInput{
		InvoiceID:     &req.InvoiceID,
		SchoolCode:    schoolCode,
		AmountIDR:     req.AmountIDR,
		Method:        model.PaymentMethod(req.Method),
		ReceiptNumber: req.ReceiptNumber,
		Notes:         req.Notes,
		RecordedBy:    recordedBy(c),
		Customer:      toCustomerInput(req.Customer),
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "payment recorded", recordResponse(res))
}

// POST /payments/invoice-item — bayar ke satu baris invoice.
func (h *PaymentController) RecordItemPayment(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}

	var req dto.PaymentRecordInvoiceItemDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := svc.RecordPayment(c.Context(), h.DB, svc.RecordInput{
		InvoiceItemID: &req.InvoiceItemID,
		SchoolCode:    schoolCode,
		AmountIDR:     req.AmountIDR,
		Method:        model.PaymentMethod(req.Method),
		ReceiptNumber: req.ReceiptNumber,
		Notes:         req.Notes,
		RecordedBy:    recordedBy(c),
		Customer:      toCustomerInput(req.Customer),
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "payment recorded", recordResponse(res))
}

// POST /payments/component — bayar komponen langsung, dicek terhadap
// plan item siswa (EXCEEDS_BALANCE / ALREADY_PAID).
func (h *PaymentController) RecordComponentPayment(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}

	var req dto.PaymentRecordComponentDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := svc.RecordPayment(c.Context(), h.DB, svc.RecordInput{
		StudentID:       &req.StudentID,
		ComponentTypeID: &req.ComponentTypeID,
		AcademicYearID:  &req.AcademicYearID,
		SchoolCode:      schoolCode,
		AmountIDR:       req.AmountIDR,
		Method:          model.PaymentMethod(req.Method),
		ReceiptNumber:   req.ReceiptNumber,
		Notes:           req.Notes,
		RecordedBy:      recordedBy(c),
		Customer:        toCustomerInput(req.Customer),
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "payment recorded", recordResponse(res))
}

/* =======================================================================
   Component balance (pra-cek sebelum bayar)
======================================================================= */

// GET /payments/component-balance?student_id=&component_type_id=&academic_year_id=
func (h *PaymentController) GetComponentBalance(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureStaffSchool(c, schoolCode); err != nil {
		return err
	}

	studentID, err := helper.ParseUUIDQuery(c, "student_id")
	if err != nil {
		return err
	}
	componentID, err := helper.ParseUUIDQuery(c, "component_type_id")
	if err != nil {
		return err
	}
	if studentID == nil || componentID == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id dan component_type_id wajib")
	}
	yearID, err := helper.ParseUUIDQuery(c, "academic_year_id")
	if err != nil {
		return err
	}

	bal, err := svc.ComponentBalance(c.Context(), h.DB, schoolCode, *studentID, *componentID, yearID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	return helper.JsonOK(c, "ok", dto.ComponentBalanceResponse{
		StudentID:       *studentID,
		ComponentTypeID: *componentID,
		AcademicYearID:  yearID,
		DueIDR:          bal.Due,
		PaidIDR:         bal.Paid,
		RemainingIDR:    bal.Remaining,
	})
}
