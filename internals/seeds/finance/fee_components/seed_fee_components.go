// file: internals/seeds/finance/fee_components/seed_fee_components.go
package feecomponent

import (
	"encoding/json"
	"log"
	"os"

	"gorm.io/gorm"

	"sekolahku_backend/internals/features/finance/fee_components/model"
)

type FeeComponentTypeSeed struct {
	SchoolCode       string `json:"school_code"`
	Name             string `json:"name"`
	DefaultAmountIDR *int64 `json:"default_amount_idr,omitempty"`
}

func SeedFeeComponentTypesFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file komponen biaya:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal membaca file JSON: %v", err)
	}

	var inputs []FeeComponentTypeSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Fatalf("❌ Gagal decode JSON: %v", err)
	}

	for _, data := range inputs {
		var existing model.FeeComponentType
		if err := db.
			Where("fee_component_type_school_code = ? AND fee_component_type_name = ?", data.SchoolCode, data.Name).
			First(&existing).Error; err == nil {
			log.Printf("ℹ️ Komponen '%s' (%s) sudah ada, dilewati.", data.Name, data.SchoolCode)
			continue
		}

		row := model.FeeComponentType{
			FeeComponentTypeSchoolCode:       data.SchoolCode,
			FeeComponentTypeName:             data.Name,
			FeeComponentTypeDefaultAmountIDR: data.DefaultAmountIDR,
		}

		if err := db.Create(&row).Error; err != nil {
			log.Printf("❌ Gagal insert komponen '%s': %v", data.Name, err)
		} else {
			log.Printf("✅ Berhasil insert komponen '%s' (%s)", data.Name, data.SchoolCode)
		}
	}
}
