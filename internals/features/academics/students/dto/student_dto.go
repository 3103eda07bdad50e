// file: internals/features/academics/students/dto/student_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	model "sekolahku_backend/internals/features/academics/students/model"
)

// Create — school_code diisi controller dari token, bukan dari body.
type StudentCreateDTO struct {
	StudentName     string  `json:"student_name" validate:"required,min=2,max=120"`
	StudentNIS      *string `json:"student_nis,omitempty" validate:"omitempty,max=30"`
	StudentIsActive *bool   `json:"student_is_active,omitempty"`
}

// Update (partial)
type StudentUpdateDTO struct {
	StudentName     *string `json:"student_name,omitempty" validate:"omitempty,min=2,max=120"`
	StudentNIS      *string `json:"student_nis,omitempty" validate:"omitempty,max=30"`
	StudentIsActive *bool   `json:"student_is_active,omitempty"`
}

type StudentResponse struct {
	StudentID         uuid.UUID `json:"student_id"`
	StudentSchoolCode string    `json:"student_school_code"`
	StudentName       string    `json:"student_name"`
	StudentNIS        *string   `json:"student_nis,omitempty"`
	StudentIsActive   bool      `json:"student_is_active"`
	StudentCreatedAt  time.Time `json:"student_created_at"`
	StudentUpdatedAt  time.Time `json:"student_updated_at"`
}

func (d StudentCreateDTO) ToModel(schoolCode string) model.Student {
	m := model.Student{
		StudentSchoolCode: schoolCode,
		StudentName:       d.StudentName,
		StudentNIS:        d.StudentNIS,
		StudentIsActive:   true,
	}
	if d.StudentIsActive != nil {
		m.StudentIsActive = *d.StudentIsActive
	}
	return m
}

func ApplyStudentUpdate(m *model.Student, d StudentUpdateDTO) {
	if d.StudentName != nil {
		m.StudentName = *d.StudentName
	}
	if d.StudentNIS != nil {
		m.StudentNIS = d.StudentNIS
	}
	if d.StudentIsActive != nil {
		m.StudentIsActive = *d.StudentIsActive
	}
}

func ToStudentResponse(m model.Student) StudentResponse {
	return StudentResponse{
		StudentID:         m.StudentID,
		StudentSchoolCode: m.StudentSchoolCode,
		StudentName:       m.StudentName,
		StudentNIS:        m.StudentNIS,
		StudentIsActive:   m.StudentIsActive,
		StudentCreatedAt:  m.StudentCreatedAt,
		StudentUpdatedAt:  m.StudentUpdatedAt,
	}
}

func ToStudentResponses(list []model.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(list))
	for _, v := range list {
		out = append(out, ToStudentResponse(v))
	}
	return out
}
