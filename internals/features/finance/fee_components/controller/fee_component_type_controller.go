// file: internals/features/finance/fee_components/controller/fee_component_type_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/fee_components/dto"
	"sekolahku_backend/internals/features/finance/fee_components/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"

	planModel "sekolahku_backend/internals/features/finance/fee_plans/model"
	invoiceModel "sekolahku_backend/internals/features/finance/invoices/model"
	paymentModel "sekolahku_backend/internals/features/finance/payments/model"
)

/* =======================================================================
   Controller — referensi komponen biaya ("SPP", "Transport", dst)
======================================================================= */

type FeeComponentTypeController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewFeeComponentTypeController(db *gorm.DB) *FeeComponentTypeController {
	return &FeeComponentTypeController{DB: db, Validator: validator.New()}
}

// componentInUse: true bila komponen sudah dirujuk plan item, invoice item,
// atau payment. Komponen terpakai dibekukan: no update, no delete.
func (h *FeeComponentTypeController) componentInUse(c *fiber.Ctx, id string) (bool, error) {
	var n int64
	if err := h.DB.WithContext(c.Context()).
		Model(&planModel.FeeStudentPlanItem{}).
		Where("fee_student_plan_item_component_type_id = ?", id).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	if err := h.DB.WithContext(c.Context()).
		Model(&invoiceModel.InvoiceItem{}).
		Where("invoice_item_component_type_id = ?", id).
		Count(&n).Error; err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	if err := h.DB.WithContext(c.Context()).
		Model(&paymentModel.Payment{}).
		Where("payment_component_type_id = ?", id).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

/* =======================================================================
   Handlers
======================================================================= */

// POST /fee-components
func (h *FeeComponentTypeController) Create(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}

	var req dto.FeeComponentTypeCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	req.FeeComponentTypeName = strings.TrimSpace(req.FeeComponentTypeName)
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m := req.ToModel(schoolCode)
	if err := h.DB.WithContext(c.Context()).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
				"component name already exists for this school", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "fee component created", dto.ToFeeComponentTypeResponse(m))
}

// GET /fee-components
func (h *FeeComponentTypeController) List(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureStaffSchool(c, schoolCode); err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 25, 200)

	q := h.DB.WithContext(c.Context()).
		Model(&model.FeeComponentType{}).
		Where("fee_component_type_school_code = ?", schoolCode)
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		q = q.Where("fee_component_type_name ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []model.FeeComponentType
	if err := q.Order("fee_component_type_name ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	return helper.JsonList(c, "ok",
		dto.ToFeeComponentTypeResponses(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /fee-components/:id
func (h *FeeComponentTypeController) GetByID(c *fiber.Ctx) error {
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

	var m model.FeeComponentType
	if err := h.DB.WithContext(c.Context()).
		First(&m, "fee_component_type_id = ? AND fee_component_type_school_code = ?", id, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "fee component not found", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToFeeComponentTypeResponse(m))
}

// PATCH /fee-components/:id — ditolak IN_USE bila sudah dirujuk.
func (h *FeeComponentTypeController) Update(c *fiber.Ctx) error {
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

	var m model.FeeComponentType
	if err := h.DB.WithContext(c.Context()).
		First(&m, "fee_component_type_id = ? AND fee_component_type_school_code = ?", id, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "fee component not found", nil)
		}
		return helper.WritePGError(c, err)
	}

	inUse, err := h.componentInUse(c, id.String())
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if inUse {
		return helper.JsonErrorCode(c, fiber.StatusConflict, "IN_USE",
			"component is already referenced by plans, invoices, or payments", nil)
	}

	var req dto.FeeComponentTypeUpdateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	dto.ApplyFeeComponentTypeUpdate(&m, req)
	if err := h.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
				"component name already exists for this school", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "fee component updated", dto.ToFeeComponentTypeResponse(m))
}

// DELETE /fee-components/:id — soft delete; ditolak IN_USE bila dirujuk.
func (h *FeeComponentTypeController) Delete(c *fiber.Ctx) error {
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

	var m model.FeeComponentType
	if err := h.DB.WithContext(c.Context()).
		First(&m, "fee_component_type_id = ? AND fee_component_type_school_code = ?", id, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "fee component not found", nil)
		}
		return helper.WritePGError(c, err)
	}

	inUse, err := h.componentInUse(c, id.String())
	if err != nil {
		return helper.WritePGError(c, err)
	}
	if inUse {
		return helper.JsonErrorCode(c, fiber.StatusConflict, "IN_USE",
			"component is already referenced by plans, invoices, or payments", nil)
	}

	if err := h.DB.WithContext(c.Context()).Delete(&m).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonDeleted(c, "fee component deleted", fiber.Map{"fee_component_type_id": id})
}
