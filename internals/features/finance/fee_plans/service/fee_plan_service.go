// file: internals/features/finance/fee_plans/service/fee_plan_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	classModel "sekolahku_backend/internals/features/academics/classes/model"
	studentModel "sekolahku_backend/internals/features/academics/students/model"
	componentModel "sekolahku_backend/internals/features/finance/fee_components/model"
	model "sekolahku_backend/internals/features/finance/fee_plans/model"
	helper "sekolahku_backend/internals/helpers"
)

/* =========================================================
   Input types
========================================================= */

type PlanItemInput struct {
	ComponentTypeID uuid.UUID
	AmountIDR       int64
	Quantity        int
}

type ApplyToClassResult struct {
	ClassID      uuid.UUID
	PlanIDs      []uuid.UUID
	StudentCount int
	CreatedPlans int
	UpdatedPlans int
}

/* =========================================================
   Get-or-create
========================================================= */

// GetOrCreatePlan: idempotent lewat unique (student, academic_year, school).
// Insert DoNothing; kalau ke-skip berarti plan sudah ada → baca ulang.
func GetOrCreatePlan(
	ctx context.Context,
	db *gorm.DB,
	schoolCode string,
	studentID, academicYearID uuid.UUID,
	classID *uuid.UUID,
) (model.FeeStudentPlan, bool, error) {
	var out model.FeeStudentPlan

	// Validasi referensi dalam tenant yang sama
	var student studentModel.Student
	if err := db.WithContext(ctx).
		First(&student, "student_id = ? AND student_school_code = ?", studentID, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return out, false, helper.NewAppError(404, "STUDENT_NOT_FOUND", "student not found in this school")
		}
		return out, false, err
	}

	var exists int64
	if err := db.WithContext(ctx).
		Table("academic_years").
		Where("academic_year_id = ? AND academic_year_school_code = ?", academicYearID, schoolCode).
		Count(&exists).Error; err != nil {
		return out, false, err
	}
	if exists == 0 {
		return out, false, helper.NewAppError(404, "ACADEMIC_YEAR_NOT_FOUND", "academic year not found in this school")
	}

	plan := model.FeeStudentPlan{
		FeeStudentPlanStudentID:      studentID,
		FeeStudentPlanAcademicYearID: academicYearID,
		FeeStudentPlanSchoolCode:     schoolCode,
		FeeStudentPlanClassID:        classID,
	}
	ins := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "fee_student_plan_student_id"},
			{Name: "fee_student_plan_academic_year_id"},
			{Name: "fee_student_plan_school_code"},
		},
		DoNothing: true,
	}).Create(&plan)
	if ins.Error != nil {
		return out, false, ins.Error
	}

	created := ins.RowsAffected > 0
	if created {
		out = plan
	} else {
		// sudah ada → ambil row eksisting
		if err := db.WithContext(ctx).
			First(&out,
				"fee_student_plan_student_id = ? AND fee_student_plan_academic_year_id = ? AND fee_student_plan_school_code = ?",
				studentID, academicYearID, schoolCode,
			).Error; err != nil {
			return out, false, err
		}
	}

	if err := db.WithContext(ctx).
		Order("fee_student_plan_item_created_at ASC").
		Find(&out.Items, "fee_student_plan_item_plan_id = ?", out.FeeStudentPlanID).Error; err != nil {
		return out, false, err
	}
	return out, created, nil
}

// GetPlanWithItems memuat plan (scoped sekolah) beserta item-nya.
func GetPlanWithItems(ctx context.Context, db *gorm.DB, schoolCode string, planID uuid.UUID) (model.FeeStudentPlan, error) {
	var plan model.FeeStudentPlan
	if err := db.WithContext(ctx).
		First(&plan, "fee_student_plan_id = ? AND fee_student_plan_school_code = ?", planID, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return plan, helper.NewAppError(404, "PLAN_NOT_FOUND", "fee plan not found")
		}
		return plan, err
	}
	if err := db.WithContext(ctx).
		Order("fee_student_plan_item_created_at ASC").
		Find(&plan.Items, "fee_student_plan_item_plan_id = ?", plan.FeeStudentPlanID).Error; err != nil {
		return plan, err
	}
	return plan, nil
}

/* =========================================================
   Upsert items (full replace)
========================================================= */

// UpsertPlanItems mengganti seluruh daftar item plan dengan input baru.
// Komponen tidak boleh dobel dan harus milik sekolah yang sama.
func UpsertPlanItems(
	ctx context.Context,
	db *gorm.DB,
	schoolCode string,
	planID uuid.UUID,
	items []PlanItemInput,
) (model.FeeStudentPlan, error) {
	var plan model.FeeStudentPlan
	if err := db.WithContext(ctx).
		First(&plan, "fee_student_plan_id = ? AND fee_student_plan_school_code = ?", planID, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return plan, helper.NewAppError(404, "PLAN_NOT_FOUND", "fee plan not found")
		}
		return plan, err
	}

	if err := validatePlanItems(ctx, db, schoolCode, items); err != nil {
		return plan, err
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("fee_student_plan_item_plan_id = ?", plan.FeeStudentPlanID).
			Delete(&model.FeeStudentPlanItem{}).Error; err != nil {
			return err
		}
		return insertPlanItems(tx, plan.FeeStudentPlanID, items)
	})
	if err != nil {
		return plan, err
	}

	if err := db.WithContext(ctx).
		Order("fee_student_plan_item_created_at ASC").
		Find(&plan.Items, "fee_student_plan_item_plan_id = ?", plan.FeeStudentPlanID).Error; err != nil {
		return plan, err
	}
	return plan, nil
}

/* =========================================================
   Apply to class
========================================================= */

// ApplyPlanToClass: get-or-create plan untuk semua siswa aktif kelas, lalu
// full-replace item tiap plan dengan daftar yang sama. Satu transaksi.
func ApplyPlanToClass(
	ctx context.Context,
	db *gorm.DB,
	schoolCode string,
	classID uuid.UUID,
	academicYearID uuid.UUID,
	items []PlanItemInput,
) (ApplyToClassResult, error) {
	res := ApplyToClassResult{ClassID: classID, PlanIDs: []uuid.UUID{}}

	var class classModel.Class
	if err := db.WithContext(ctx).
		First(&class, "class_id = ? AND class_school_code = ?", classID, schoolCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, helper.NewAppError(404, "CLASS_NOT_FOUND", "class not found in this school")
		}
		return res, err
	}
	if academicYearID == uuid.Nil {
		academicYearID = class.ClassAcademicYearID
	}

	if err := validatePlanItems(ctx, db, schoolCode, items); err != nil {
		return res, err
	}

	var studentIDs []uuid.UUID
	if err := db.WithContext(ctx).
		Table("class_students").
		Where("class_student_class_id = ? AND class_student_is_active = ?", classID, true).
		Order("class_student_created_at ASC").
		Pluck("class_student_student_id", &studentIDs).Error; err != nil {
		return res, err
	}
	res.StudentCount = len(studentIDs)
	if len(studentIDs) == 0 {
		return res, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sid := range studentIDs {
			plan := model.FeeStudentPlan{
				FeeStudentPlanStudentID:      sid,
				FeeStudentPlanAcademicYearID: academicYearID,
				FeeStudentPlanSchoolCode:     schoolCode,
				FeeStudentPlanClassID:        &classID,
			}
			ins := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "fee_student_plan_student_id"},
					{Name: "fee_student_plan_academic_year_id"},
					{Name: "fee_student_plan_school_code"},
				},
				DoNothing: true,
			}).Create(&plan)
			if ins.Error != nil {
				return ins.Error
			}

			planID := plan.FeeStudentPlanID
			if ins.RowsAffected > 0 {
				res.CreatedPlans++
			} else {
				res.UpdatedPlans++
				var existing model.FeeStudentPlan
				if err := tx.
					Select("fee_student_plan_id").
					First(&existing,
						"fee_student_plan_student_id = ? AND fee_student_plan_academic_year_id = ? AND fee_student_plan_school_code = ?",
						sid, academicYearID, schoolCode,
					).Error; err != nil {
					return err
				}
				planID = existing.FeeStudentPlanID
			}

			if err := tx.
				Where("fee_student_plan_item_plan_id = ?", planID).
				Delete(&model.FeeStudentPlanItem{}).Error; err != nil {
				return err
			}
			if err := insertPlanItems(tx, planID, items); err != nil {
				return err
			}
			res.PlanIDs = append(res.PlanIDs, planID)
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	return res, nil
}

/* =========================================================
   Internal
========================================================= */

func validatePlanItems(ctx context.Context, db *gorm.DB, schoolCode string, items []PlanItemInput) error {
	seen := map[uuid.UUID]bool{}
	for _, it := range items {
		if it.ComponentTypeID == uuid.Nil {
			return helper.NewAppError(400, "INVALID_COMPONENT", "component_type_id is required on every item")
		}
		if seen[it.ComponentTypeID] {
			return helper.NewAppError(400, "DUPLICATE_COMPONENT",
				fmt.Sprintf("component %s appears more than once", it.ComponentTypeID))
		}
		seen[it.ComponentTypeID] = true
		if it.AmountIDR < 0 {
			return helper.NewAppError(400, "INVALID_AMOUNT", "item amount must be >= 0")
		}
	}
	if len(seen) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	var count int64
	if err := db.WithContext(ctx).
		Model(&componentModel.FeeComponentType{}).
		Where("fee_component_type_id IN ? AND fee_component_type_school_code = ?", ids, schoolCode).
		Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(ids) {
		return helper.NewAppError(404, "COMPONENT_NOT_FOUND", "one or more fee components do not exist in this school")
	}
	return nil
}

func insertPlanItems(tx *gorm.DB, planID uuid.UUID, items []PlanItemInput) error {
	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		row := model.FeeStudentPlanItem{
			FeeStudentPlanItemPlanID:          planID,
			FeeStudentPlanItemComponentTypeID: it.ComponentTypeID,
			FeeStudentPlanItemAmountIDR:       it.AmountIDR,
			FeeStudentPlanItemQuantity:        qty,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
