package usecase

import (
	"medroute/internal/data/repository"
	"medroute/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	Search   SearchService
	Pharmacy PharmacyService
	Order    OrderService
	Admin    AdminService
	User     UserService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, log),
		Search:   NewSearchService(repo, log),
		Pharmacy: NewPharmacyService(repo, config, log),
		Order:    NewOrderService(repo, NewMockPaymentGateway(config.Payment.SuccessRate), log),
		Admin:    NewAdminService(repo, log),
		User:     NewUserService(repo, log),
	}
}
