// file: internals/features/finance/fee_plans/controller/fee_student_plan_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/fee_plans/dto"
	"sekolahku_backend/internals/features/finance/fee_plans/model"
	svc "sekolahku_backend/internals/features/finance/fee_plans/service"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

/* =======================================================================
   Controller — plan biaya per siswa per tahun ajaran
======================================================================= */

type FeeStudentPlanController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewFeeStudentPlanController(db *gorm.DB) *FeeStudentPlanController {
	return &FeeStudentPlanController{DB: db, Validator: validator.New()}
}

func toPlanItemInputs(items []dto.FeeStudentPlanItemInputDTO) []svc.PlanItemInput {
	out := make([]svc.PlanItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, svc.PlanItemInput{
			ComponentTypeID: it.FeeStudentPlanItemComponentTypeID,
			AmountIDR:       it.FeeStudentPlanItemAmountIDR,
			Quantity:        it.FeeStudentPlanItemQuantity,
		})
	}
	return out
}

/* =======================================================================
   Handlers
======================================================================= */

// POST /fee-plans/get-or-create — idempotent per (siswa, tahun ajaran).
func (h *FeeStudentPlanController) GetOrCreate(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}

	var req dto.FeeStudentPlanGetOrCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	plan, created, err := svc.GetOrCreatePlan(c.Context(), h.DB, schoolCode,
		req.FeeStudentPlanStudentID, req.FeeStudentPlanAcademicYearID, req.FeeStudentPlanClassID)
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	resp := dto.ToFeeStudentPlanResponse(plan, created)
	if created {
		return helper.JsonCreated(c, "fee plan created", resp)
	}
	return helper.JsonOK(c, "fee plan already exists", resp)
}

// GET /fee-plans/:id
func (h *FeeStudentPlanController) GetByID(c *fiber.Ctx) error {
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

	plan, err := svc.GetPlanWithItems(c.Context(), h.DB, schoolCode, id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToFeeStudentPlanResponse(plan, false))
}

// GET /fee-plans — filter student_id / academic_year_id / class_id.
func (h *FeeStudentPlanController) List(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureStaffSchool(c, schoolCode); err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 25, 200)

	q := h.DB.WithContext(c.Context()).
		Model(&model.FeeStudentPlan{}).
		Where("fee_student_plan_school_code = ?", schoolCode)

	if sid, err := helper.ParseUUIDQuery(c, "student_id"); err != nil {
		return err
	} else if sid != nil {
		q = q.Where("fee_student_plan_student_id = ?", *sid)
	}
	if yid, err := helper.ParseUUIDQuery(c, "academic_year_id"); err != nil {
		return err
	} else if yid != nil {
		q = q.Where("fee_student_plan_academic_year_id = ?", *yid)
	}
	if cid, err := helper.ParseUUIDQuery(c, "class_id"); err != nil {
		return err
	} else if cid != nil {
		q = q.Where("fee_student_plan_class_id = ?", *cid)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []model.FeeStudentPlan
	if err := q.Preload("Items").
		Order("fee_student_plan_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	out := make([]dto.FeeStudentPlanResponse, 0, len(rows))
	for _, plan := range rows {
		out = append(out, dto.ToFeeStudentPlanResponse(plan, false))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// PUT /fee-plans/:id/items — full replace daftar item.
func (h *FeeStudentPlanController) UpsertItems(c *fiber.Ctx) error {
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

	var req dto.FeeStudentPlanUpsertItemsDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	plan, err := svc.UpsertPlanItems(c.Context(), h.DB, schoolCode, id, toPlanItemInputs(req.Items))
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "fee plan items replaced", dto.ToFeeStudentPlanResponse(plan, false))
}

// POST /fee-plans/apply-to-class — set plan items seragam untuk seluruh
// siswa aktif satu kelas (batch, satu transaksi).
func (h *FeeStudentPlanController) ApplyToClass(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}

	var req dto.FeeStudentPlanApplyToClassDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	yearID := uuid.Nil // Nil → service fallback ke tahun ajaran kelas
	if req.AcademicYearID != nil {
		yearID = *req.AcademicYearID
	}

	res, err := svc.ApplyPlanToClass(c.Context(), h.DB, schoolCode,
		req.ClassID, yearID, toPlanItemInputs(req.Items))
	if err != nil {
		return helper.JsonFromError(c, err)
	}

	return helper.JsonOK(c, "fee plan applied to class", dto.FeeStudentPlanApplyResultResponse{
		ClassID:      res.ClassID,
		PlanIDs:      res.PlanIDs,
		StudentCount: res.StudentCount,
		CreatedPlans: res.CreatedPlans,
		UpdatedPlans: res.UpdatedPlans,
	})
}
