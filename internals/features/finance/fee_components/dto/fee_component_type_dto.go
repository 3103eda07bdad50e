// file: internals/features/finance/fee_components/dto/fee_component_type_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/finance/fee_components/model"
)

type FeeComponentTypeCreateDTO struct {
	FeeComponentTypeName             string `json:"fee_component_type_name" validate:"required,min=2,max=80"` // contoh: "SPP"
	FeeComponentTypeDefaultAmountIDR *int64 `json:"fee_component_type_default_amount_idr,omitempty" validate:"omitempty,min=0"`
}

// Update hanya boleh selama komponen belum dipakai plan/payment mana pun
// (dicek controller sebelum apply).
type FeeComponentTypeUpdateDTO struct {
	FeeComponentTypeName             *string `json:"fee_component_type_name,omitempty" validate:"omitempty,min=2,max=80"`
	FeeComponentTypeDefaultAmountIDR *int64  `json:"fee_component_type_default_amount_idr,omitempty" validate:"omitempty,min=0"`
}

type FeeComponentTypeResponse struct {
	FeeComponentTypeID               uuid.UUID `json:"fee_component_type_id"`
	FeeComponentTypeSchoolCode       string    `json:"fee_component_type_school_code"`
	FeeComponentTypeName             string    `json:"fee_component_type_name"`
	FeeComponentTypeDefaultAmountIDR *int64    `json:"fee_component_type_default_amount_idr,omitempty"`
	FeeComponentTypeCreatedAt        time.Time `json:"fee_component_type_created_at"`
	FeeComponentTypeUpdatedAt        time.Time `json:"fee_component_type_updated_at"`
}

func (d FeeComponentTypeCreateDTO) ToModel(schoolCode string) model.FeeComponentType {
	return model.FeeComponentType{
		FeeComponentTypeSchoolCode:       schoolCode,
		FeeComponentTypeName:             d.FeeComponentTypeName,
		FeeComponentTypeDefaultAmountIDR: d.FeeComponentTypeDefaultAmountIDR,
	}
}

func ApplyFeeComponentTypeUpdate(m *model.FeeComponentType, d FeeComponentTypeUpdateDTO) {
	if d.FeeComponentTypeName != nil {
		m.FeeComponentTypeName = *d.FeeComponentTypeName
	}
	if d.FeeComponentTypeDefaultAmountIDR != nil {
		m.FeeComponentTypeDefaultAmountIDR = d.FeeComponentTypeDefaultAmountIDR
	}
}

func ToFeeComponentTypeResponse(m model.FeeComponentType) FeeComponentTypeResponse {
	return FeeComponentTypeResponse{
		FeeComponentTypeID:               m.FeeComponentTypeID,
		FeeComponentTypeSchoolCode:       m.FeeComponentTypeSchoolCode,
		FeeComponentTypeName:             m.FeeComponentTypeName,
		FeeComponentTypeDefaultAmountIDR: m.FeeComponentTypeDefaultAmountIDR,
		FeeComponentTypeCreatedAt:        m.FeeComponentTypeCreatedAt,
		FeeComponentTypeUpdatedAt:        m.FeeComponentTypeUpdatedAt,
	}
}

func ToFeeComponentTypeResponses(list []model.FeeComponentType) []FeeComponentTypeResponse {
	out := make([]FeeComponentTypeResponse, 0, len(list))
	for _, v := range list {
		out = append(out, ToFeeComponentTypeResponse(v))
	}
	return out
}
