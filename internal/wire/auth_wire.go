package wire

import (
	"medroute/internal/adaptor"
	"medroute/pkg/middleware"
	"medroute/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.Auth(config.JWT, log)).Get("/api/auth/me", authHandler.Me)
	r.With(middleware.Auth(config.JWT, log)).Post("/api/logout", authHandler.Logout)
}
