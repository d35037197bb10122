package wire

import (
	"medroute/internal/adaptor"
	"medroute/internal/data/entity"
	"medroute/pkg/middleware"
	"medroute/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrder(
	r chi.Router,
	orderHandler *adaptor.OrderHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Tracking works from the code alone, no login needed
	r.Get("/api/orders/track/{code}", orderHandler.Track)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, log))

		r.Post("/api/payment/process", orderHandler.ProcessPayment)
		r.Get("/api/orders/{id}", orderHandler.GetOrder)
		r.Get("/api/user/orders", orderHandler.ListUserOrders)
		r.Post("/api/delivery/emergency", orderHandler.Emergency)
	})

	// Status changes come from the selling pharmacy or an admin
	r.With(
		middleware.Auth(config.JWT, log),
		middleware.RequireRole(log, string(entity.RolePharmacy), string(entity.RoleAdmin)),
	).Put("/api/orders/{id}/status", orderHandler.UpdateStatus)
}
