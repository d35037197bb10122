package wire

import (
	"medroute/internal/adaptor"
	"medroute/pkg/middleware"
	"medroute/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMedicine(
	r chi.Router,
	medicineHandler *adaptor.MedicineHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Search takes an optional identity so logged-in users build history
	r.With(middleware.OptionalAuth(config.JWT, log)).Get("/api/medicine/search", medicineHandler.Search)
	r.Get("/api/medicine/alternatives", medicineHandler.Alternatives)
	r.Get("/api/medicine/{id}", medicineHandler.Detail)
	r.Get("/api/pharmacy/nearby", medicineHandler.Nearby)
}
