// file: internals/middlewares/features/school_scope.go
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/constants"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

func trimLower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// UseSchoolScope: pastikan sesi punya school_code aktif (dari token).
// Satu sesi = satu sekolah; endpoint tidak menerima school_code dari path.
func UseSchoolScope() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code, err := helperAuth.GetActiveSchoolCode(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "school_code wajib ada di token")
		}
		c.Locals(helperAuth.LocActiveSchool, code)
		return c.Next()
	}
}

// roleAtActiveSchool: role terbaik user pada school aktif, "" jika tak ada.
func roleAtActiveSchool(c *fiber.Ctx, wanted []string) string {
	code, err := helperAuth.GetActiveSchoolCode(c)
	if err != nil {
		return ""
	}
	for _, r := range wanted {
		if helperAuth.HasRoleInSchool(c, code, r) {
			return r
		}
	}
	return ""
}

// IsSchoolStaff: gerbang grup /api/a — teacher/admin/bendahara (owner bypass).
// Guard per-handler (EnsureTreasurerSchool) tetap jalan untuk operasi tulis.
func IsSchoolStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helperAuth.IsOwner(c) {
			return c.Next()
		}
		role := roleAtActiveSchool(c, constants.StaffRoles)
		if role == "" {
			log.Println("🔐 [MIDDLEWARE] IsSchoolStaff tolak | Path:", c.Path())
			return fiber.NewError(fiber.StatusForbidden, "Role tidak berhak mengakses endpoint ini")
		}
		c.Locals("active_role", trimLower(role))
		return c.Next()
	}
}

// IsSchoolMember: gerbang grup /api/u — semua anggota school (termasuk murid).
func IsSchoolMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helperAuth.IsOwner(c) {
			return c.Next()
		}
		role := roleAtActiveSchool(c, constants.AllRoles)
		if role == "" {
			return fiber.NewError(fiber.StatusForbidden, "Bukan anggota pada school yang diminta")
		}
		c.Locals("active_role", trimLower(role))
		return c.Next()
	}
}
