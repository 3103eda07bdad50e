// file: internals/features/finance/invoices/controller/invoice_controller.go
package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/invoices/dto"
	"sekolahku_backend/internals/features/finance/invoices/model"
	svc "sekolahku_backend/internals/features/finance/invoices/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"

	paymentDTO "sekolahku_backend/internals/features/finance/payments/dto"
)

/* =======================================================================
   Controller — invoice (generate massal + mutasi per baris)
======================================================================= */

type InvoiceController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewInvoiceController(db *gorm.DB) *InvoiceController {
	return &InvoiceController{DB: db, Validator: validator.New()}
}

/* =======================================================================
   Generate
======================================================================= */

// POST /invoices/generate — satu invoice per siswa aktif kelas, idempotent
// per periode (rerun: created=0, skipped=N).
func (h *InvoiceController) Generate(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}

	var req dto.InvoiceGenerateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	due, err := helper.ParseDateYMD(req.DueDate)
	if err != nil {
		return err
	}
	if due == nil {
		return helper.JsonErrorCode(c, fiber.StatusBadRequest, "NO_DUE_DATE", "due_date is required", nil)
	}

	items := make([]svc.GenerateItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, svc.GenerateItemInput{
			Label:           it.Label,
			AmountIDR:       it.AmountIDR,
			ComponentTypeID: it.ComponentTypeID,
		})
	}

	res, err := svc.GenerateForClass(c.Context(), h.DB, svc.GenerateInput{
		ClassID:        req.ClassID,
		SchoolCode:     schoolCode,
		BillingPeriod:  strings.TrimSpace(req.BillingPeriod),
		AcademicYearID: req.AcademicYearID,
		DueDate:        *due,
		Items:          items,
		Notes:          req.Notes,
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	return helper.JsonCreated(c, "invoices generated", dto.InvoiceGenerateResultResponse{
		ClassID:       res.ClassID,
		BillingPeriod: res.BillingPeriod,
		Created:       res.Created,
		Skipped:       res.Skipped,
		InvoiceIDs:    res.InvoiceIDs,
	})
}

/* =======================================================================
   Reads
======================================================================= */

// GET /invoices/:id — detail + item + riwayat pembayaran.
func (h *InvoiceController) GetByID(c *fiber.Ctx) error {
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

	inv, payments, err := svc.GetDetail(c.Context(), h.DB, schoolCode, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"invoice":  dto.ToInvoiceResponse(inv, true),
		"payments": paymentDTO.ToPaymentResponses(payments),
	})
}

// GET /invoices — filter student_id / class_id / academic_year_id /
// status / billing_period; paginated.
func (h *InvoiceController) List(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureStaffSchool(c, schoolCode); err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 25, 200)

	q := h.DB.WithContext(c.Context()).
		Model(&model.Invoice{}).
		Where("invoice_school_code = ?", schoolCode)

	if sid, err := helper.ParseUUIDQuery(c, "student_id"); err != nil {
		return err
	} else if sid != nil {
		q = q.Where("invoice_student_id = ?", *sid)
	}
	if cid, err := helper.ParseUUIDQuery(c, "class_id"); err != nil {
		return err
	} else if cid != nil {
		q = q.Where("invoice_class_id = ?", *cid)
	}
	if yid, err := helper.ParseUUIDQuery(c, "academic_year_id"); err != nil {
		return err
	} else if yid != nil {
		q = q.Where("invoice_academic_year_id = ?", *yid)
	}
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		switch st {
		case "unpaid", "partial", "paid":
			q = q.Where("invoice_status = ?", st)
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid status filter")
		}
	}
	if bp := strings.TrimSpace(c.Query("billing_period")); bp != "" {
		q = q.Where("invoice_billing_period = ?", bp)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []model.Invoice
	if err := q.Order("invoice_due_date DESC, invoice_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	return helper.JsonList(c, "ok",
		dto.ToInvoiceResponses(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

/* =======================================================================
   Mutations (selalu diikuti recompute total/paid/status di service)
======================================================================= */

// POST /invoices/:id/items
func (h *InvoiceController) AddItems(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.InvoiceAddItemsDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	items := make([]svc.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, svc.ItemInput{
			Label:           it.InvoiceItemLabel,
			AmountIDR:       it.InvoiceItemAmountIDR,
			ComponentTypeID: it.InvoiceItemComponentTypeID,
		})
	}

	inv, err := svc.AddItems(c.Context(), h.DB, schoolCode, id, items)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "invoice items added", dto.ToInvoiceResponse(inv, true))
}

// DELETE /invoices/:id/items — body berisi item_ids yang dihapus.
func (h *InvoiceController) RemoveItems(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.InvoiceRemoveItemsDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	inv, err := svc.RemoveItems(c.Context(), h.DB, schoolCode, id, req.ItemIDs)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "invoice items removed", dto.ToInvoiceResponse(inv, true))
}

// PATCH /invoices/items/:itemId
func (h *InvoiceController) UpdateItem(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}
	itemID, err := helper.ParseUUIDParam(c, "itemId")
	if err != nil {
		return err
	}

	var req dto.InvoiceItemUpdateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	inv, err := svc.UpdateItem(c.Context(), h.DB, schoolCode, itemID, svc.ItemPatch{
		Label:     req.InvoiceItemLabel,
		AmountIDR: req.InvoiceItemAmountIDR,
	})
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "invoice item updated", dto.ToInvoiceResponse(inv, true))
}

// PATCH /invoices/:id — metadata saja (due date, notes); angka tidak tersentuh.
func (h *InvoiceController) Update(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.InvoiceUpdateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	patch := svc.InvoicePatch{Notes: req.InvoiceNotes}
	if req.InvoiceDueDate != nil {
		due, err := helper.ParseDateYMD(*req.InvoiceDueDate)
		if err != nil {
			return err
		}
		patch.DueDate = due
	}

	inv, err := svc.UpdateInvoice(c.Context(), h.DB, schoolCode, id, patch)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "invoice updated", dto.ToInvoiceResponse(inv, true))
}

// DELETE /invoices/:id — hapus invoice + item + pembayaran miliknya.
func (h *InvoiceController) Delete(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := svc.DeleteInvoice(c.Context(), h.DB, schoolCode, id); err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonDeleted(c, "invoice deleted", fiber.Map{"invoice_id": id})
}
