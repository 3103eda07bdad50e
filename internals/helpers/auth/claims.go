// file: internals/helpers/auth/claims.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/* ============================================
   Locals Keys (middleware harus mengisi ini)
   ============================================ */

const (
	LocUserID   = "user_id"   // string | uuid
	LocUserName = "user_name" // display name, dipakai utk recorded_by

	// Structured claims (dari middleware terverifikasi → locals)
	LocRolesGlobal     = "roles_global"       // []string
	LocSchoolRoles     = "school_roles"       // []SchoolRolesEntry | []map[string]any
	LocIsOwner         = "is_owner"           // bool | "true"/"false"
	LocActiveSchool    = "active_school_code" // string, school aktif di sesi ini
	LocStudentID       = "student_id"         // string uuid, untuk sesi murid/wali
	LocFeesGuardOK     = "fees_guard_ok"      // bool, diset guard setelah lolos
	LocFeesGuardSchool = "fees_guard_school"  // string school_code yang lolos guard
)

/* ============================================
   Types for structured claims
   ============================================ */

// SchoolRolesEntry: role user pada satu sekolah (di-scope school_code).
type SchoolRolesEntry struct {
	SchoolCode string   `json:"school_code"`
	Roles      []string `json:"roles"`
}

type RolesClaim struct {
	RolesGlobal []string           `json:"roles_global"`
	SchoolRoles []SchoolRolesEntry `json:"school_roles"`
}

/* ============================================
   Tiny shared helpers
   ============================================ */

func normalizeLocalsToStrings(v any) []string {
	out := make([]string, 0)
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range t {
			if s, ok := it.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func localBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "1" || s == "yes"
	}
	return false
}

/* ============================================
   Readers
   ============================================ */

// GetUserIDFromToken: user_id dari locals (diset middleware AuthJWT).
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	switch t := v.(type) {
	case uuid.UUID:
		if t != uuid.Nil {
			return t, nil
		}
	case string:
		if id, err := uuid.Parse(strings.TrimSpace(t)); err == nil && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user_id tidak ditemukan di token")
}

// GetUserNameFromToken: display name untuk jejak recorded_by (boleh kosong).
func GetUserNameFromToken(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocUserName).(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// GetActiveSchoolCode: school_code sesi aktif; wajib ada untuk semua rute ber-scope.
func GetActiveSchoolCode(c *fiber.Ctx) (string, error) {
	if s, ok := c.Locals(LocActiveSchool).(string); ok {
		if code := strings.TrimSpace(s); code != "" {
			return code, nil
		}
	}
	return "", fiber.NewError(fiber.StatusUnauthorized, "school_code tidak ditemukan di token")
}

// GetStudentIDFromToken: student_id sesi murid/wali (nil jika bukan sesi murid).
func GetStudentIDFromToken(c *fiber.Ctx) *uuid.UUID {
	if s, ok := c.Locals(LocStudentID).(string); ok {
		if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil && id != uuid.Nil {
			return &id
		}
	}
	return nil
}

func GetRolesGlobal(c *fiber.Ctx) []string {
	return normalizeLocalsToStrings(c.Locals(LocRolesGlobal))
}

func IsOwner(c *fiber.Ctx) bool {
	if localBool(c.Locals(LocIsOwner)) {
		return true
	}
	for _, r := range GetRolesGlobal(c) {
		if strings.EqualFold(r, "owner") {
			return true
		}
	}
	return false
}

// schoolRolesEntries: normalisasi isi LocSchoolRoles ke bentuk struct.
func schoolRolesEntries(c *fiber.Ctx) []SchoolRolesEntry {
	v := c.Locals(LocSchoolRoles)
	out := make([]SchoolRolesEntry, 0)
	switch t := v.(type) {
	case []SchoolRolesEntry:
		return t
	case []any:
		for _, it := range t {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			code, _ := m["school_code"].(string)
			out = append(out, SchoolRolesEntry{
				SchoolCode: strings.TrimSpace(code),
				Roles:      normalizeLocalsToStrings(m["roles"]),
			})
		}
	case []map[string]any:
		for _, m := range t {
			code, _ := m["school_code"].(string)
			out = append(out, SchoolRolesEntry{
				SchoolCode: strings.TrimSpace(code),
				Roles:      normalizeLocalsToStrings(m["roles"]),
			})
		}
	}
	return out
}

// HasRoleInSchool: apakah token membawa role tsb untuk school_code tsb.
func HasRoleInSchool(c *fiber.Ctx, schoolCode, role string) bool {
	schoolCode = strings.TrimSpace(schoolCode)
	role = strings.ToLower(strings.TrimSpace(role))
	if schoolCode == "" || role == "" {
		return false
	}
	for _, e := range schoolRolesEntries(c) {
		if !strings.EqualFold(e.SchoolCode, schoolCode) {
			continue
		}
		for _, r := range e.Roles {
			if strings.EqualFold(r, role) {
				return true
			}
		}
	}
	return false
}

// isSchoolPresentInToken: presence gate — school tsb memang ada di token.
func isSchoolPresentInToken(c *fiber.Ctx, schoolCode string) bool {
	schoolCode = strings.TrimSpace(schoolCode)
	if schoolCode == "" {
		return false
	}
	if s, ok := c.Locals(LocActiveSchool).(string); ok && strings.EqualFold(strings.TrimSpace(s), schoolCode) {
		return true
	}
	for _, e := range schoolRolesEntries(c) {
		if strings.EqualFold(e.SchoolCode, schoolCode) {
			return true
		}
	}
	return false
}
