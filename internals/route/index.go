// file: internals/route/index.go
package routes

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	helperAuth "sekolahku_backend/internals/helpers/auth"
	authMiddleware "sekolahku_backend/internals/middlewares/auth"
	featuresMiddleware "sekolahku_backend/internals/middlewares/features"
	routeDetails "sekolahku_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	// Satu guard JWT dipakai ulang untuk /api/u dan /api/a; pembedaan
	// member vs staf vs bendahara terjadi di guard dalam controller.
	jwtGuard := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		BlacklistChecker:    blacklistChecker(db),
		AllowCookieFallback: true,
	})

	// ===================== PUBLIC =====================
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")
	BaseRoutes(app, public)
	routeDetails.FinancePublicRoutes(public, db)

	// ===================== USER (murid/wali) =====================
	log.Println("[INFO] Setting up USER group (Auth + Scope + Member)...")
	user := app.Group("/api/u",
		jwtGuard,
		featuresMiddleware.UseSchoolScope(),
		featuresMiddleware.IsSchoolMember(),
	)
	routeDetails.FinanceUserRoutes(user, db)

	// ===================== ADMIN (staf/bendahara per sekolah) =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + Scope + Staff)...")
	admin := app.Group("/api/a",
		jwtGuard,
		featuresMiddleware.UseSchoolScope(),
		featuresMiddleware.IsSchoolStaff(),
	)

	log.Println("[INFO] Mounting Academic routes...")
	routeDetails.AcademicAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinanceAdminRoutes(admin, db)
}

// blacklistChecker menolak access token yang sudah dicabut saat logout.
func blacklistChecker(db *gorm.DB) func(string) (bool, error) {
	return func(raw string) (bool, error) {
		return helperAuth.IsBlacklisted(context.Background(), db, raw, configs.JWTSecret)
	}
}
