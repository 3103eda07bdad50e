// file: internals/seeds/academics/academic_years/seed_academic_years.go
package academicyear

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"sekolahku_backend/internals/features/academics/academic_years/model"
)

type AcademicYearSeed struct {
	SchoolCode string `json:"school_code"`
	Name       string `json:"name"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD, boleh kosong
	EndDate    string `json:"end_date"`
	IsActive   bool   `json:"is_active"`
}

func SeedAcademicYearsFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file tahun ajaran:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var inputs []AcademicYearSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	for _, data := range inputs {
		var existing model.AcademicYear
		if err := db.
			Where("academic_year_school_code = ? AND academic_year_name = ?", data.SchoolCode, data.Name).
			First(&existing).Error; err == nil {
			log.Printf("ℹ️ Tahun ajaran '%s' (%s) sudah ada, dilewati.", data.Name, data.SchoolCode)
			continue
		}

		row := model.AcademicYear{
			AcademicYearSchoolCode: data.SchoolCode,
			AcademicYearName:       data.Name,
			AcademicYearStartDate:  parseDate(data.StartDate),
			AcademicYearEndDate:    parseDate(data.EndDate),
			AcademicYearIsActive:   data.IsActive,
		}

		if err := db.Create(&row).Error; err != nil {
			log.Printf("❌ Gagal insert tahun ajaran '%s': %v", data.Name, err)
		} else {
			log.Printf("✅ Berhasil insert tahun ajaran '%s' (%s)", data.Name, data.SchoolCode)
		}
	}
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}
