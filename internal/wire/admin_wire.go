package wire

import (
	"medroute/internal/adaptor"
	"medroute/internal/data/entity"
	"medroute/pkg/middleware"
	"medroute/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, log))
		r.Use(middleware.RequireRole(log, string(entity.RoleAdmin)))

		r.Post("/api/admin/verify-pharmacy", adminHandler.VerifyPharmacy)
		r.Get("/api/admin/dashboard", adminHandler.Dashboard)
	})
}
