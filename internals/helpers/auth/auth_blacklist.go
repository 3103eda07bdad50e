// file: internals/helpers/auth/auth_blacklist.go
package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

/*
   =========================================================
   Token blacklist (sesi yang sudah logout / dicabut)
   =========================================================
   Token disimpan sebagai HMAC-SHA256(raw, secret) supaya tabel tidak
   berisi JWT mentah. Dicek oleh AuthJWT lewat opsi BlacklistChecker.
*/

// TokenBlacklistModel: satu baris per token yang dicabut.
type TokenBlacklistModel struct {
	TokenBlacklistToken     string    `gorm:"column:token_blacklist_token;primaryKey" json:"token_blacklist_token"`
	TokenBlacklistExpiredAt time.Time `gorm:"column:token_blacklist_expired_at;not null;index" json:"token_blacklist_expired_at"`
	TokenBlacklistCreatedAt time.Time `gorm:"column:token_blacklist_created_at;autoCreateTime" json:"token_blacklist_created_at"`
}

func (TokenBlacklistModel) TableName() string { return "token_blacklist" }

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil))
}

// Add: simpan HMAC(access_token) sampai expiresAt.
func Add(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string, expiresAt time.Time) error {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return nil
	}
	tokenHex := hmacHex(rawAccessToken, jwtSecret)
	return db.WithContext(ctx).Exec(`
		INSERT INTO token_blacklist (token_blacklist_token, token_blacklist_expired_at)
		VALUES (?, ?)
		ON CONFLICT (token_blacklist_token) DO UPDATE
		SET token_blacklist_expired_at = EXCLUDED.token_blacklist_expired_at
	`, tokenHex, expiresAt).Error
}

// IsBlacklisted: ada baris yang belum expired untuk token ini?
func IsBlacklisted(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string) (bool, error) {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return false, nil
	}
	tokenHex := hmacHex(rawAccessToken, jwtSecret)
	var exists bool
	err := db.WithContext(ctx).Raw(`
		SELECT EXISTS (
		  SELECT 1
		  FROM token_blacklist
		  WHERE token_blacklist_token = ?
		    AND token_blacklist_expired_at > ?
		)
	`, tokenHex, time.Now()).Scan(&exists).Error
	return exists, err
}

// PurgeExpired: hapus baris yang sudah lewat masa berlakunya.
func PurgeExpired(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.WithContext(ctx).
		Exec(`DELETE FROM token_blacklist WHERE token_blacklist_expired_at <= ?`, time.Now()).Error
}

// StartBlacklistPurgeLoop: bersihkan blacklist tiap interval; panggil sekali
// dari main setelah DB siap.
func StartBlacklistPurgeLoop(db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			if err := PurgeExpired(context.Background(), db); err != nil {
				log.Printf("⚠️ purge token blacklist gagal: %v", err)
			}
		}
	}()
}
