package constants

import "fmt"

// Role dasar yang dikenal di token (per school maupun global).
const (
	RoleUser      = "user"
	RoleStudent   = "student"
	RoleTeacher   = "teacher"
	RoleAdmin     = "admin"
	RoleBendahara = "bendahara" // pemegang kas; satu-satunya role non-admin yang boleh tulis ledger
	RoleOwner     = "owner"
)

// Template pesan error role
const (
	ErrOnlyStaffCanAccess     = "❌ Hanya teacher, admin, atau bendahara yang boleh mengakses fitur %s."
	ErrOnlyTreasurerCanAccess = "❌ Hanya bendahara atau admin yang boleh mengakses fitur %s."
	ErrOnlyOwnersCanAccess    = "❌ Hanya owner yang boleh mengakses fitur %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorTreasurer(feature string) string {
	return fmt.Sprintf(ErrOnlyTreasurerCanAccess, feature)
}

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnersCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleStudent,
		RoleTeacher,
		RoleAdmin,
		RoleBendahara,
		RoleOwner,
	}

	// StaffRoles: boleh membaca data keuangan sekolah.
	StaffRoles = []string{
		RoleTeacher,
		RoleAdmin,
		RoleBendahara,
	}

	// TreasurerRoles: boleh menulis ledger (invoice, payment, plan).
	TreasurerRoles = []string{
		RoleBendahara,
		RoleAdmin,
	}

	OwnerAndAbove = []string{
		RoleOwner,
		RoleAdmin,
	}
)
