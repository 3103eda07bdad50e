// file: internals/features/users/user/model/user_model.go
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User merepresentasikan tabel users. Subsistem keuangan tidak mengelola
// login interaktif (token diterbitkan layanan lain); tabel ini dipakai
// seeder admin dan sebagai asal display name recorded_by.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string    `gorm:"size:50;not null" json:"user_name"`
	Email    string    `gorm:"size:255;unique;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"` // hash bcrypt, tidak pernah diserialisasi
	IsActive bool      `gorm:"not null" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (m *User) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if strings.TrimSpace(m.UserName) == "" {
		return fmt.Errorf("user_name is required")
	}
	if strings.TrimSpace(m.Email) == "" {
		return fmt.Errorf("email is required")
	}
	return nil
}
