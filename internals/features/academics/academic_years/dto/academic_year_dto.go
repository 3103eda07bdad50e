// file: internals/features/academics/academic_years/dto/academic_year_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/academics/academic_years/model"
)

type AcademicYearCreateDTO struct {
	AcademicYearName      string  `json:"academic_year_name" validate:"required,min=4,max=20"` // contoh: "2026/2027"
	AcademicYearStartDate *string `json:"academic_year_start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AcademicYearEndDate   *string `json:"academic_year_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AcademicYearIsActive  *bool   `json:"academic_year_is_active,omitempty"`
}

type AcademicYearUpdateDTO struct {
	AcademicYearName      *string `json:"academic_year_name,omitempty" validate:"omitempty,min=4,max=20"`
	AcademicYearStartDate *string `json:"academic_year_start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AcademicYearEndDate   *string `json:"academic_year_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AcademicYearIsActive  *bool   `json:"academic_year_is_active,omitempty"`
}

type AcademicYearResponse struct {
	AcademicYearID         uuid.UUID  `json:"academic_year_id"`
	AcademicYearSchoolCode string     `json:"academic_year_school_code"`
	AcademicYearName       string     `json:"academic_year_name"`
	AcademicYearStartDate  *time.Time `json:"academic_year_start_date,omitempty"`
	AcademicYearEndDate    *time.Time `json:"academic_year_end_date,omitempty"`
	AcademicYearIsActive   bool       `json:"academic_year_is_active"`
	AcademicYearCreatedAt  time.Time  `json:"academic_year_created_at"`
	AcademicYearUpdatedAt  time.Time  `json:"academic_year_updated_at"`
}

func parseYMD(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil
	}
	return &t
}

func (d AcademicYearCreateDTO) ToModel(schoolCode string) model.AcademicYear {
	m := model.AcademicYear{
		AcademicYearSchoolCode: schoolCode,
		AcademicYearName:       d.AcademicYearName,
		AcademicYearStartDate:  parseYMD(d.AcademicYearStartDate),
		AcademicYearEndDate:    parseYMD(d.AcademicYearEndDate),
	}
	if d.AcademicYearIsActive != nil {
		m.AcademicYearIsActive = *d.AcademicYearIsActive
	}
	return m
}

func ApplyAcademicYearUpdate(m *model.AcademicYear, d AcademicYearUpdateDTO) {
	if d.AcademicYearName != nil {
		m.AcademicYearName = *d.AcademicYearName
	}
	if d.AcademicYearStartDate != nil {
		m.AcademicYearStartDate = parseYMD(d.AcademicYearStartDate)
	}
	if d.AcademicYearEndDate != nil {
		m.AcademicYearEndDate = parseYMD(d.AcademicYearEndDate)
	}
	if d.AcademicYearIsActive != nil {
		m.AcademicYearIsActive = *d.AcademicYearIsActive
	}
}

func ToAcademicYearResponse(m model.AcademicYear) AcademicYearResponse {
	return AcademicYearResponse{
		AcademicYearID:         m.AcademicYearID,
		AcademicYearSchoolCode: m.AcademicYearSchoolCode,
		AcademicYearName:       m.AcademicYearName,
		AcademicYearStartDate:  m.AcademicYearStartDate,
		AcademicYearEndDate:    m.AcademicYearEndDate,
		AcademicYearIsActive:   m.AcademicYearIsActive,
		AcademicYearCreatedAt:  m.AcademicYearCreatedAt,
		AcademicYearUpdatedAt:  m.AcademicYearUpdatedAt,
	}
}

func ToAcademicYearResponses(list []model.AcademicYear) []AcademicYearResponse {
	out := make([]AcademicYearResponse, 0, len(list))
	for _, v := range list {
		out = append(out, ToAcademicYearResponse(v))
	}
	return out
}
