// file: internals/seeds/academics/classes/seed_classes.go
package class

import (
	"encoding/json"
	"log"
	"os"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	yearModel "sekolahku_backend/internals/features/academics/academic_years/model"
	classModel "sekolahku_backend/internals/features/academics/classes/model"
	studentModel "sekolahku_backend/internals/features/academics/students/model"
)

// ClassSeed: satu kelas demo lengkap dengan murid dan enrolmennya.
// Tahun ajaran dirujuk lewat nama, jadi seeder tahun ajaran harus jalan dulu.
type ClassSeed struct {
	SchoolCode       string            `json:"school_code"`
	AcademicYearName string            `json:"academic_year_name"`
	ClassName        string            `json:"class_name"`
	Students         []StudentSeedItem `json:"students"`
}

type StudentSeedItem struct {
	Name string `json:"name"`
	NIS  string `json:"nis"`
}

func SeedClassesFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file kelas demo:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var inputs []ClassSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	for _, data := range inputs {
		var year yearModel.AcademicYear
		if err := db.
			Where("academic_year_school_code = ? AND academic_year_name = ?", data.SchoolCode, data.AcademicYearName).
			First(&year).Error; err != nil {
			log.Printf("⚠️ Tahun ajaran '%s' (%s) belum ada, kelas '%s' dilewati.", data.AcademicYearName, data.SchoolCode, data.ClassName)
			continue
		}

		cls := classModel.Class{
			ClassSchoolCode:     data.SchoolCode,
			ClassAcademicYearID: year.AcademicYearID,
			ClassName:           data.ClassName,
			ClassIsActive:       true,
		}
		if err := db.
			Where("class_school_code = ? AND class_academic_year_id = ? AND class_name = ?", data.SchoolCode, year.AcademicYearID, data.ClassName).
			First(&cls).Error; err != nil {
			if err := db.Create(&cls).Error; err != nil {
				log.Printf("❌ Gagal insert kelas '%s': %v", data.ClassName, err)
				continue
			}
			log.Printf("✅ Berhasil insert kelas '%s' (%s)", data.ClassName, data.SchoolCode)
		}

		for _, s := range data.Students {
			student := seedStudent(db, data.SchoolCode, s)
			if student == nil {
				continue
			}

			cs := classModel.ClassStudent{
				ClassStudentClassID:   cls.ClassID,
				ClassStudentStudentID: student.StudentID,
				ClassStudentIsActive:  true,
			}
			res := db.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "class_student_class_id"},
					{Name: "class_student_student_id"},
				},
				DoNothing: true,
			}).Create(&cs)
			if res.Error != nil {
				log.Printf("❌ Gagal enrol '%s' ke '%s': %v", s.Name, data.ClassName, res.Error)
			} else if res.RowsAffected > 0 {
				log.Printf("✅ Enrol '%s' ke kelas '%s'", s.Name, data.ClassName)
			}
		}
	}
}

func seedStudent(db *gorm.DB, schoolCode string, s StudentSeedItem) *studentModel.Student {
	var existing studentModel.Student
	if err := db.
		Where("student_school_code = ? AND student_nis = ?", schoolCode, s.NIS).
		First(&existing).Error; err == nil {
		return &existing
	}

	nis := s.NIS
	row := studentModel.Student{
		StudentSchoolCode: schoolCode,
		StudentName:       s.Name,
		StudentNIS:        &nis,
		StudentIsActive:   true,
	}
	if err := db.Create(&row).Error; err != nil {
		log.Printf("❌ Gagal insert murid '%s': %v", s.Name, err)
		return nil
	}
	log.Printf("✅ Berhasil insert murid '%s' (NIS %s)", s.Name, s.NIS)
	return &row
}
