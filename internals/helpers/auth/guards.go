// file: internals/helpers/auth/guards.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/constants"
	helper "sekolahku_backend/internals/helpers"
)

/* ============================================
   Guards per school (capability check)
   ============================================
   Ledger hanya menegakkan invariant domain; akses diputuskan di sini.
   Semua guard menulis response sendiri via helper.JsonError saat menolak,
   jadi controller cukup: if err := EnsureX(c, code); err != nil { return err }.
*/

func markGuardOK(c *fiber.Ctx, schoolCode string) {
	c.Locals(LocFeesGuardOK, true)
	c.Locals(LocFeesGuardSchool, schoolCode)
}

func isPrivileged(c *fiber.Ctx) bool {
	if IsOwner(c) {
		return true
	}
	for _, r := range GetRolesGlobal(c) {
		if strings.EqualFold(r, constants.RoleAdmin) {
			return true
		}
	}
	return false
}

func ensureRolesInSchool(c *fiber.Ctx, schoolCode string, roles []string, forbidMessage string) error {
	schoolCode = strings.TrimSpace(schoolCode)
	if schoolCode == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "school_code wajib")
	}

	// 1) Global bypass (owner / admin global)
	if isPrivileged(c) {
		markGuardOK(c, schoolCode)
		return nil
	}

	// 2) Presence gate (STRICT)
	if !isSchoolPresentInToken(c, schoolCode) {
		return helper.JsonError(c, fiber.StatusForbidden, "School ini tidak ada dalam token Anda")
	}

	// 3) Cek peran terstruktur
	for _, r := range roles {
		if HasRoleInSchool(c, schoolCode, r) {
			markGuardOK(c, schoolCode)
			return nil
		}
	}

	if strings.TrimSpace(forbidMessage) == "" {
		forbidMessage = "Tidak diizinkan"
	}
	return helper.JsonError(c, fiber.StatusForbidden, forbidMessage)
}

/* ============================================
   Publik wrappers
   ============================================ */

// EnsureMemberSchool: anggota school (murid/guru/staff) — akses baca.
func EnsureMemberSchool(c *fiber.Ctx, schoolCode string) error {
	roles := []string{
		constants.RoleStudent,
		constants.RoleTeacher,
		constants.RoleAdmin,
		constants.RoleBendahara,
	}
	return ensureRolesInSchool(c, schoolCode, roles, "Akses hanya untuk anggota school ini")
}

// EnsureStaffSchool: guru/admin/bendahara — baca data keuangan.
func EnsureStaffSchool(c *fiber.Ctx, schoolCode string) error {
	return ensureRolesInSchool(c, schoolCode, constants.StaffRoles,
		"Hanya guru/admin/bendahara yang diizinkan")
}

// EnsureTreasurerSchool: bendahara/admin — tulis ledger (invoice, payment, plan).
// Inilah capability "fees.write" yang dipakai semua rute mutasi keuangan.
func EnsureTreasurerSchool(c *fiber.Ctx, schoolCode string) error {
	return ensureRolesInSchool(c, schoolCode, constants.TreasurerRoles,
		"Hanya bendahara/admin yang diizinkan menulis data keuangan")
}

// EnsureStudentSelf: sesi murid hanya boleh membaca data miliknya sendiri.
// studentID target dibandingkan dengan student_id di token; staff lolos via
// EnsureStaffSchool terlebih dahulu oleh pemanggil.
func EnsureStudentSelf(c *fiber.Ctx, schoolCode string, studentID string) error {
	if err := ensureRolesInSchool(c, schoolCode, []string{constants.RoleStudent},
		"Hanya murid yang diizinkan"); err != nil {
		return err
	}
	own := GetStudentIDFromToken(c)
	if own == nil || !strings.EqualFold(own.String(), strings.TrimSpace(studentID)) {
		return helper.JsonError(c, fiber.StatusForbidden, "Hanya boleh mengakses data milik sendiri")
	}
	return nil
}

// OwnerOnly: middleware gaya handler untuk grup khusus owner.
func OwnerOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsOwner(c) {
			return helper.JsonError(c, fiber.StatusForbidden, "Hanya owner yang diizinkan")
		}
		return c.Next()
	}
}
