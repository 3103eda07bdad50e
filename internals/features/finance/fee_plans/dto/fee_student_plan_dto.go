// file: internals/features/finance/fee_plans/dto/fee_student_plan_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/finance/fee_plans/model"
)

////////////////////////////////////////////////////////////////////////////////
// FEE STUDENT PLANS — DTO
////////////////////////////////////////////////////////////////////////////////

// Get-or-create: idempotent per (student, academic_year, school).
type FeeStudentPlanGetOrCreateDTO struct {
	FeeStudentPlanStudentID      uuid.UUID  `json:"fee_student_plan_student_id" validate:"required"`
	FeeStudentPlanAcademicYearID uuid.UUID  `json:"fee_student_plan_academic_year_id" validate:"required"`
	FeeStudentPlanClassID        *uuid.UUID `json:"fee_student_plan_class_id,omitempty"`
}

// Satu baris item saat upsert (full replace daftar item plan).
type FeeStudentPlanItemInputDTO struct {
	FeeStudentPlanItemComponentTypeID uuid.UUID `json:"fee_student_plan_item_component_type_id" validate:"required"`
	FeeStudentPlanItemAmountIDR       int64     `json:"fee_student_plan_item_amount_idr" validate:"min=0"`
	FeeStudentPlanItemQuantity        int       `json:"fee_student_plan_item_quantity" validate:"omitempty,min=1"`
}

type FeeStudentPlanUpsertItemsDTO struct {
	Items []FeeStudentPlanItemInputDTO `json:"items" validate:"required,dive"`
}

// Apply plan ke seluruh siswa aktif satu kelas.
// academic_year_id opsional — default mengikuti tahun ajaran kelasnya.
type FeeStudentPlanApplyToClassDTO struct {
	ClassID        uuid.UUID                    `json:"class_id" validate:"required"`
	AcademicYearID *uuid.UUID                   `json:"academic_year_id,omitempty"`
	Items          []FeeStudentPlanItemInputDTO `json:"items" validate:"required,min=1,dive"`
}

////////////////////////////////////////////////////////////////////////////////
// Responses
////////////////////////////////////////////////////////////////////////////////

type FeeStudentPlanItemResponse struct {
	FeeStudentPlanItemID              uuid.UUID `json:"fee_student_plan_item_id"`
	FeeStudentPlanItemPlanID          uuid.UUID `json:"fee_student_plan_item_plan_id"`
	FeeStudentPlanItemComponentTypeID uuid.UUID `json:"fee_student_plan_item_component_type_id"`
	FeeStudentPlanItemAmountIDR       int64     `json:"fee_student_plan_item_amount_idr"`
	FeeStudentPlanItemQuantity        int       `json:"fee_student_plan_item_quantity"`
	FeeStudentPlanItemSubtotalIDR     int64     `json:"fee_student_plan_item_subtotal_idr"`
}

type FeeStudentPlanResponse struct {
	FeeStudentPlanID             uuid.UUID  `json:"fee_student_plan_id"`
	FeeStudentPlanStudentID      uuid.UUID  `json:"fee_student_plan_student_id"`
	FeeStudentPlanAcademicYearID uuid.UUID  `json:"fee_student_plan_academic_year_id"`
	FeeStudentPlanSchoolCode     string     `json:"fee_student_plan_school_code"`
	FeeStudentPlanClassID        *uuid.UUID `json:"fee_student_plan_class_id,omitempty"`
	FeeStudentPlanCreated        bool       `json:"fee_student_plan_created"` // true bila get-or-create barusan membuat
	FeeStudentPlanTotalIDR       int64      `json:"fee_student_plan_total_idr"`

	Items []FeeStudentPlanItemResponse `json:"items"`

	FeeStudentPlanCreatedAt time.Time `json:"fee_student_plan_created_at"`
	FeeStudentPlanUpdatedAt time.Time `json:"fee_student_plan_updated_at"`
}

// Hasil apply-to-class per siswa.
type FeeStudentPlanApplyResultResponse struct {
	ClassID      uuid.UUID   `json:"class_id"`
	PlanIDs      []uuid.UUID `json:"plan_ids"`
	StudentCount int         `json:"student_count"`
	CreatedPlans int         `json:"created_plans"`
	UpdatedPlans int         `json:"updated_plans"`
}

////////////////////////////////////////////////////////////////////////////////
// Mappers
////////////////////////////////////////////////////////////////////////////////

func ToFeeStudentPlanItemResponse(m model.FeeStudentPlanItem) FeeStudentPlanItemResponse {
	return FeeStudentPlanItemResponse{
		FeeStudentPlanItemID:              m.FeeStudentPlanItemID,
		FeeStudentPlanItemPlanID:          m.FeeStudentPlanItemPlanID,
		FeeStudentPlanItemComponentTypeID: m.FeeStudentPlanItemComponentTypeID,
		FeeStudentPlanItemAmountIDR:       m.FeeStudentPlanItemAmountIDR,
		FeeStudentPlanItemQuantity:        m.FeeStudentPlanItemQuantity,
		FeeStudentPlanItemSubtotalIDR:     m.Subtotal(),
	}
}

func ToFeeStudentPlanResponse(m model.FeeStudentPlan, created bool) FeeStudentPlanResponse {
	items := make([]FeeStudentPlanItemResponse, 0, len(m.Items))
	var total int64
	for _, it := range m.Items {
		items = append(items, ToFeeStudentPlanItemResponse(it))
		total += it.Subtotal()
	}
	return FeeStudentPlanResponse{
		FeeStudentPlanID:             m.FeeStudentPlanID,
		FeeStudentPlanStudentID:      m.FeeStudentPlanStudentID,
		FeeStudentPlanAcademicYearID: m.FeeStudentPlanAcademicYearID,
		FeeStudentPlanSchoolCode:     m.FeeStudentPlanSchoolCode,
		FeeStudentPlanClassID:        m.FeeStudentPlanClassID,
		FeeStudentPlanCreated:        created,
		FeeStudentPlanTotalIDR:       total,
		Items:                        items,
		FeeStudentPlanCreatedAt:      m.FeeStudentPlanCreatedAt,
		FeeStudentPlanUpdatedAt:      m.FeeStudentPlanUpdatedAt,
	}
}
