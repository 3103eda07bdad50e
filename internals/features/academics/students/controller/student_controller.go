// file: internals/features/academics/students/controller/student_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/academics/students/dto"
	"sekolahku_backend/internals/features/academics/students/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

type StudentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Validator: validator.New()}
}

// POST /students
func (h *StudentController) Create(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}

	var req dto.StudentCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	req.StudentName = strings.TrimSpace(req.StudentName)
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m := req.ToModel(schoolCode)
	if err := h.DB.WithContext(c.Context()).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
				"NIS already exists for this school", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "student created", dto.ToStudentResponse(m))
}

// GET /students?q=&is_active=&page=&per_page=
func (h *StudentController) List(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureStaffSchool(c, schoolCode); err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 25, 200)

	q := h.DB.WithContext(c.Context()).
		Model(&model.Student{}).
		Where("student_school_code = ?", schoolCode)
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + s + "%"
		q = q.Where("student_name ILIKE ? OR COALESCE(student_nis,'') ILIKE ?", like, like)
	}
	switch strings.ToLower(strings.TrimSpace(c.Query("is_active"))) {
	case "true", "1":
		q = q.Where("student_is_active = ?", true)
	case "false", "0":
		q = q.Where("student_is_active = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []model.Student
	if err := q.Order("student_name ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	return helper.JsonList(c, "ok",
		dto.ToStudentResponses(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /students/:id
func (h *StudentController) GetByID(c *fiber.Ctx) error {
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

	var m model.Student
	if err := h.DB.WithContext(c.Context()).
		First(&m, "student_id = ? AND student_school_code = ?", id, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "student not found", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToStudentResponse(m))
}

// PATCH /students/:id
func (h *StudentController) Update(c *fiber.Ctx) error {
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

	var m model.Student
	if err := h.DB.WithContext(c.Context()).
		First(&m, "student_id = ? AND student_school_code = ?", id, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "student not found", nil)
		}
		return helper.WritePGError(c, err)
	}

	var req dto.StudentUpdateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	dto.ApplyStudentUpdate(&m, req)
	if err := h.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
				"NIS already exists for this school", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "student updated", dto.ToStudentResponse(m))
}
