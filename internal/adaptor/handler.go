package adaptor

import (
	"medroute/internal/usecase"
	"medroute/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Medicine *MedicineHandler
	Pharmacy *PharmacyHandler
	Order    *OrderHandler
	Admin    *AdminHandler
	User     *UserHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, config, log),
		Medicine: NewMedicineHandler(service.Search, log),
		Pharmacy: NewPharmacyHandler(service.Pharmacy, config, log),
		Order:    NewOrderHandler(service.Order, log),
		Admin:    NewAdminHandler(service.Admin, log),
		User:     NewUserHandler(service.User, log),
	}
}
