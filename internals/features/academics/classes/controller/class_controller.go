// file: internals/features/academics/classes/controller/class_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sekolahku_backend/internals/features/academics/classes/dto"
	"sekolahku_backend/internals/features/academics/classes/model"
	helper "sekolahku_backend/internals/helpers"
	helperAuth "sekolahku_backend/internals/helpers/auth"

	studentModel "sekolahku_backend/internals/features/academics/students/model"
)

type ClassController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db, Validator: validator.New()}
}

func (h *ClassController) findClass(c *fiber.Ctx, schoolCode string, id uuid.UUID) (model.Class, error) {
	var m model.Class
	if err := h.DB.WithContext(c.Context()).
		First(&m, "class_id = ? AND class_school_code = ?", id, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return m, helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "class not found", nil)
		}
		return m, helper.WritePGError(c, err)
	}
	return m, nil
}

/* =======================================================================
   CRUD
======================================================================= */

// POST /classes
func (h *ClassController) Create(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureTreasurerSchool(c, schoolCode); err != nil {
		return err
	}

	var req dto.ClassCreateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	req.ClassName = strings.TrimSpace(req.ClassName)
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	// tahun ajaran harus milik sekolah yang sama
	var yearCount int64
	if err := h.DB.WithContext(c.Context()).
		Table("academic_years").
		Where("academic_year_id = ? AND academic_year_school_code = ?", req.ClassAcademicYearID, schoolCode).
		Count(&yearCount).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if yearCount == 0 {
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "ACADEMIC_YEAR_NOT_FOUND",
			"academic year not found in this school", nil)
	}

	m := req.ToModel(schoolCode)
	if err := h.DB.WithContext(c.Context()).Create(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
				"class name already exists for this academic year", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonCreated(c, "class created", dto.ToClassResponse(m))
}

// GET /classes?academic_year_id=&is_active=
func (h *ClassController) List(c *fiber.Ctx) error {
	schoolCode, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return err
	}
	if err := helperAuth.EnsureStaffSchool(c, schoolCode); err != nil {
		return err
	}

	p := helper.ResolvePaging(c, 25, 200)

	q := h.DB.WithContext(c.Context()).
		Model(&model.Class{}).
		Where("class_school_code = ?", schoolCode)
	if yid, err := helper.ParseUUIDQuery(c, "academic_year_id"); err != nil {
		return err
	} else if yid != nil {
		q = q.Where("class_academic_year_id = ?", *yid)
	}
	switch strings.ToLower(strings.TrimSpace(c.Query("is_active"))) {
	case "true", "1":
		q = q.Where("class_is_active = ?", true)
	case "false", "0":
		q = q.Where("class_is_active = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	var rows []model.Class
	if err := q.Order("class_name ASC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}

	return helper.JsonList(c, "ok",
		dto.ToClassResponses(rows),
		helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /classes/:id
func (h *ClassController) GetByID(c *fiber.Ctx) error {
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

	m, err := h.findClass(c, schoolCode, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.ToClassResponse(m))
}

// PATCH /classes/:id
func (h *ClassController) Update(c *fiber.Ctx) error {
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

	m, err := h.findClass(c, schoolCode, id)
	if err != nil {
		return err
	}

	var req dto.ClassUpdateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	dto.ApplyClassUpdate(&m, req)
	if err := h.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonErrorCode(c, fiber.StatusConflict, "CONFLICT",
				"class name already exists for this academic year", nil)
		}
		return helper.WritePGError(c, err)
	}
	return helper.JsonUpdated(c, "class updated", dto.ToClassResponse(m))
}

/* =======================================================================
   Enrollment
======================================================================= */

// POST /classes/:id/students — daftarkan batch siswa ke kelas.
// Idempotent per (class, student): yang sudah terdaftar dihitung skipped.
func (h *ClassController) EnrollStudents(c *fiber.Ctx) error {
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

	if _, err := h.findClass(c, schoolCode, id); err != nil {
		return err
	}

	var req dto.ClassEnrollDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	// seluruh siswa harus milik sekolah yang sama
	var known int64
	if err := h.DB.WithContext(c.Context()).
		Model(&studentModel.Student{}).
		Where("student_id IN ? AND student_school_code = ?", req.StudentIDs, schoolCode).
		Count(&known).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	if int(known) != len(req.StudentIDs) {
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "STUDENT_NOT_FOUND",
			"one or more students not found in this school", nil)
	}

	enrolled := 0
	skipped := 0
	err = h.DB.WithContext(c.Context()).Transaction(func(tx *gorm.DB) error {
		for _, sid := range req.StudentIDs {
			cs := model.ClassStudent{
				ClassStudentClassID:   id,
				ClassStudentStudentID: sid,
				ClassStudentIsActive:  true,
			}
			ins := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "class_student_class_id"},
					{Name: "class_student_student_id"},
				},
				DoNothing: true,
			}).Create(&cs)
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected == 0 {
				skipped++
			} else {
				enrolled++
			}
		}
		return nil
	})
	if err != nil {
		return helper.WritePGError(c, err)
	}

	return helper.JsonCreated(c, "students enrolled", fiber.Map{
		"class_id": id,
		"enrolled": enrolled,
		"skipped":  skipped,
	})
}

// GET /classes/:id/students — daftar enrollment kelas.
func (h *ClassController) ListStudents(c *fiber.Ctx) error {
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

	if _, err := h.findClass(c, schoolCode, id); err != nil {
		return err
	}

	var rows []model.ClassStudent
	if err := h.DB.WithContext(c.Context()).
		Where("class_student_class_id = ?", id).
		Order("class_student_created_at ASC").
		Find(&rows).Error; err != nil {
		return helper.WritePGError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToClassStudentResponses(rows))
}

// DELETE /classes/:id/students/:studentId — cabut enrollment (soft:
// is_active=false, jejak historis tetap ada).
func (h *ClassController) UnenrollStudent(c *fiber.Ctx) error {
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
	studentID, err := helper.ParseUUIDParam(c, "studentId")
	if err != nil {
		return err
	}

	if _, err := h.findClass(c, schoolCode, id); err != nil {
		return err
	}

	res := h.DB.WithContext(c.Context()).
		Model(&model.ClassStudent{}).
		Where("class_student_class_id = ? AND class_student_student_id = ?", id, studentID).
		Updates(map[string]any{
			"class_student_is_active":  false,
			"class_student_updated_at": time.Now(),
		})
	if res.Error != nil {
		return helper.WritePGError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return helper.JsonErrorCode(c, fiber.StatusNotFound, "NOT_FOUND", "enrollment not found", nil)
	}
	return helper.JsonDeleted(c, "student unenrolled", fiber.Map{
		"class_id":   id,
		"student_id": studentID,
	})
}
