// file: internals/features/academics/academic_years/controller/academic_year_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/academics/academic_years/dto"
	"sekolahku_backend/internals/features/academics/academic_years/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

type AcademicYearController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAcademicYearController(db *gorm.DB) *AcademicYearController {
	return &AcademicYearController{DB: db, Validator: validator.New()}
}

// POST /academic-years
func (h *AcademicYearController) Create(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}

	var req dto.AcademicYearCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	req.AcademicYearName = strings.TrimSpace(req.AcademicYearName)
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m := req.ToModel(schoolCode)
	if err := h.DB.WithContext(c.Context()).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
				"academic year name already exists for this school", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "academic year created", dto.ToAcademicYearResponse(m))
}

// GET /academic-years
func (h *AcademicYearController) List(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureStaffSchool(c, schoolCode); err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 25, 100)

	q := h.DB.WithContext(c.Context()).
		Model(&model.AcademicYear{}).
		Where("academic_year_school_code = ?", schoolCode)
	switch strings.ToLower(strings.TrimSpace(c.Query("is_active"))) {
	case "true", "1":
		q = q.Where("academic_year_is_active = ?", true)
	case "false", "0":
		q = q.Where("academic_year_is_active = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []model.AcademicYear
	if err := q.Order("academic_year_name DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	return helper.JsonList(c, "ok",
		dto.ToAcademicYearResponses(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /academic-years/:id
func (h *AcademicYearController) GetByID(c *fiber.Ctx) error {
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

	var m model.AcademicYear
	if err := h.DB.WithContext(c.Context()).
		First(&m, "academic_year_id = ? AND academic_year_school_code = ?", id, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "academic year not found", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToAcademicYearResponse(m))
}

// PATCH /academic-years/:id
func (h *AcademicYearController) Update(c *fiber.Ctx) error {
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

	var m model.AcademicYear
	if err := h.DB.WithContext(c.Context()).
		First(&m, "academic_year_id = ? AND academic_year_school_code = ?", id, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "academic year not found", nil)
		}
		return helper.WritePGError(c, err)
	}

	var req dto.AcademicYearUpdateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	dto.ApplyAcademicYearUpdate(&m, req)
	if err := h.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
				"academic year name already exists for this school", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "academic year updated", dto.ToAcademicYearResponse(m))
}
