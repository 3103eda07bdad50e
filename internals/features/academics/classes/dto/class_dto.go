// file: internals/features/academics/classes/dto/class_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/academics/classes/model"
)

////////////////////////////////////////////////////////////////////////////////
// CLASSES — DTO
////////////////////////////////////////////////////////////////////////////////

type ClassCreateDTO struct {
	ClassAcademicYearID uuid.UUID `json:"class_academic_year_id" validate:"required"`
	ClassName           string    `json:"class_name" validate:"required,min=1,max=60"` // contoh: "7A"
	ClassIsActive       *bool     `json:"class_is_active,omitempty"`
}

type ClassUpdateDTO struct {
	ClassName     *string `json:"class_name,omitempty" validate:"omitempty,min=1,max=60"`
	ClassIsActive *bool   `json:"class_is_active,omitempty"`
}

type ClassResponse struct {
	ClassID             uuid.UUID `json:"class_id"`
	ClassSchoolCode     string    `json:"class_school_code"`
	ClassAcademicYearID uuid.UUID `json:"class_academic_year_id"`
	ClassName           string    `json:"class_name"`
	ClassIsActive       bool      `json:"class_is_active"`
	ClassCreatedAt      time.Time `json:"class_created_at"`
	ClassUpdatedAt      time.Time `json:"class_updated_at"`
}

func (d ClassCreateDTO) ToModel(schoolCode string) model.Class {
	m := model.Class{
		ClassSchoolCode:     schoolCode,
		ClassAcademicYearID: d.ClassAcademicYearID,
		ClassName:           d.ClassName,
		ClassIsActive:       true,
	}
	if d.ClassIsActive != nil {
		m.ClassIsActive = *d.ClassIsActive
	}
	return m
}

func ApplyClassUpdate(m *model.Class, d ClassUpdateDTO) {
	if d.ClassName != nil {
		m.ClassName = *d.ClassName
	}
	if d.ClassIsActive != nil {
		m.ClassIsActive = *d.ClassIsActive
	}
}

func ToClassResponse(m model.Class) ClassResponse {
	return ClassResponse{
		ClassID:             m.ClassID,
		ClassSchoolCode:     m.ClassSchoolCode,
		ClassAcademicYearID: m.ClassAcademicYearID,
		ClassName:           m.ClassName,
		ClassIsActive:       m.ClassIsActive,
		ClassCreatedAt:      m.ClassCreatedAt,
		ClassUpdatedAt:      m.ClassUpdatedAt,
	}
}

func ToClassResponses(list []model.Class) []ClassResponse {
	out := make([]ClassResponse, 0, len(list))
	for _, v := range list {
		out = append(out, ToClassResponse(v))
	}
	return out
}

////////////////////////////////////////////////////////////////////////////////
// CLASS STUDENTS (enrollment) — DTO
////////////////////////////////////////////////////////////////////////////////

type ClassEnrollDTO struct {
	StudentIDs []uuid.UUID `json:"student_ids" validate:"required,min=1,dive,required"`
}

type ClassStudentResponse struct {
	ClassStudentID        uuid.UUID `json:"class_student_id"`
	ClassStudentClassID   uuid.UUID `json:"class_student_class_id"`
	ClassStudentStudentID uuid.UUID `json:"class_student_student_id"`
	ClassStudentIsActive  bool      `json:"class_student_is_active"`
	ClassStudentCreatedAt time.Time `json:"class_student_created_at"`
}

func ToClassStudentResponse(m model.ClassStudent) ClassStudentResponse {
	return ClassStudentResponse{
		ClassStudentID:        m.ClassStudentID,
		ClassStudentClassID:   m.ClassStudentClassID,
		ClassStudentStudentID: m.ClassStudentStudentID,
		ClassStudentIsActive:  m.ClassStudentIsActive,
		ClassStudentCreatedAt: m.ClassStudentCreatedAt,
	}
}

func ToClassStudentResponses(list []model.ClassStudent) []ClassStudentResponse {
	out := make([]ClassStudentResponse, 0, len(list))
	for _, v := range list {
		out = append(out, ToClassStudentResponse(v))
	}
	return out
}
