package wire

import (
	"medroute/internal/adaptor"
	"medroute/pkg/middleware"
	"medroute/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/contact", userHandler.Contact)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, log))

		r.Get("/api/user/profile", userHandler.Profile)
		r.Put("/api/user/profile", userHandler.UpdateProfile)
		r.Get("/api/user/dashboard", userHandler.Dashboard)
	})
}
