package wire

import (
	"medroute/internal/adaptor"
	"medroute/internal/data/entity"
	"medroute/pkg/middleware"
	"medroute/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePharmacy(
	r chi.Router,
	pharmacyHandler *adaptor.PharmacyHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/pharmacy/register", pharmacyHandler.Register)

	// ==================== PROTECTED ROUTES ====================
	// Inventory and dashboard are pharmacy-only
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, log))
		r.Use(middleware.RequireRole(log, string(entity.RolePharmacy)))

		r.Post("/api/pharmacy/stock", pharmacyHandler.AddStock)
		r.Put("/api/pharmacy/stock/{medicineId}", pharmacyHandler.UpdateStock)
		r.Get("/api/pharmacy/dashboard", pharmacyHandler.Dashboard)
	})
}
