// file: internals/helpers/pg_errors.go
package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
)

/* ===============================================
   Pemetaan error Postgres → (status, code, message)
   ===============================================
   Kode yang relevan untuk ledger:
   - 23505 unique_violation      → CONFLICT (duplikasi invoice/plan/komponen)
   - 23503 foreign_key_violation → referensi tidak valid / masih dipakai
   - 23P01 exclusion_violation   → CONFLICT
*/

func MapPGError(err error) (int, string, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fiber.StatusConflict, "CONFLICT", "duplicate data for a unique scope"
		case "23503":
			return fiber.StatusUnprocessableEntity, "FK_VIOLATION", "related data is missing or still referenced"
		case "23P01":
			return fiber.StatusConflict, "CONFLICT", "conflicting data range"
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key value"), strings.Contains(msg, "unique constraint"):
		return fiber.StatusConflict, "CONFLICT", "duplicate data for a unique scope"
	case strings.Contains(msg, "foreign key constraint"):
		return fiber.StatusUnprocessableEntity, "FK_VIOLATION", "related data is missing or still referenced"
	}
	return fiber.StatusInternalServerError, "INTERNAL_ERROR", err.Error()
}

// IsUniqueViolation: deteksi pelanggaran unique index, apapun drivernya.
// String-match dipertahankan sebagai fallback karena error bisa sudah
// dibungkus dan kehilangan tipe *pq.Error (mis. lewat GORM / dialect lain).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "unique constraint")
}

// IsForeignKeyViolation: deteksi pelanggaran foreign key.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// WritePGError: jalan pintas controller → render hasil MapPGError.
func WritePGError(c *fiber.Ctx, err error) error {
	status, code, msg := MapPGError(err)
	return JsonErrorCode(c, status, code, msg, nil)
}
