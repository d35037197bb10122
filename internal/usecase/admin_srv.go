package usecase

import (
	"context"
	"fmt"
	"time"

	"medroute/internal/data/repository"
	"medroute/internal/dto/request"
	"medroute/internal/dto/response"
	"medroute/pkg/utils"

	"go.uber.org/zap"
)

type AdminService interface {
	// VerifyPharmacy flips a pharmacy's verification flag. Only verified
	// pharmacies surface in search, nearby and checkout.
	VerifyPharmacy(ctx context.Context, req *request.VerifyPharmacyRequest) (*response.PharmacyResponse, error)
	Dashboard(ctx context.Context) (*response.AdminDashboardResponse, error)
}

type adminService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAdminService(repo *repository.Repository, log *zap.Logger) AdminService {
	return &adminService{
		repo: repo,
		log:  log,
	}
}

func (s *adminService) VerifyPharmacy(ctx context.Context, req *request.VerifyPharmacyRequest) (*response.PharmacyResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify pharmacy validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	pharmacyID, err := utils.ParseUUID(req.PharmacyID)
	if err != nil {
		return nil, fmt.Errorf("validation failed: invalid pharmacy_id")
	}

	pharmacy, err := s.repo.Pharmacy.FindByID(ctx, pharmacyID)
	if err != nil {
		s.log.Error("Failed to load pharmacy", zap.Error(err), zap.String("pharmacy_id", req.PharmacyID))
		return nil, fmt.Errorf("failed to verify pharmacy")
	}
	if pharmacy == nil {
		return nil, fmt.Errorf("pharmacy not found")
	}

	if err := s.repo.Pharmacy.SetVerified(ctx, pharmacyID, *req.Verified); err != nil {
		s.log.Error("Failed to set verification",
			zap.Error(err),
			zap.String("pharmacy_id", req.PharmacyID),
			zap.Bool("verified", *req.Verified),
		)
		return nil, fmt.Errorf("failed to verify pharmacy")
	}

	pharmacy.IsVerified = *req.Verified

	s.log.Info("Pharmacy verification updated",
		zap.String("pharmacy_id", req.PharmacyID),
		zap.Bool("verified", *req.Verified))

	resp := response.PharmacyToResponse(pharmacy)
	return &resp, nil
}

func (s *adminService) Dashboard(ctx context.Context) (*response.AdminDashboardResponse, error) {
	totalUsers, err := s.repo.User.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	totalPharmacies, err := s.repo.Pharmacy.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count pharmacies", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	totalMedicines, err := s.repo.Medicine.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count medicines", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	totalOrders, err := s.repo.Order.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count orders", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	monthStart := time.Now().AddDate(0, -1, 0)
	revenue, err := s.repo.Order.SumRevenueSince(ctx, monthStart)
	if err != nil {
		s.log.Error("Failed to sum revenue", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	pharmacies, err := s.repo.Pharmacy.FindAll(ctx, 100, 0)
	if err != nil {
		s.log.Error("Failed to list pharmacies", zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	pending := make([]response.PharmacyResponse, 0)
	for _, pharmacy := range pharmacies {
		if !pharmacy.IsVerified {
			pending = append(pending, response.PharmacyToResponse(pharmacy))
		}
	}

	return &response.AdminDashboardResponse{
		TotalUsers:           totalUsers,
		TotalPharmacies:      totalPharmacies,
		PendingVerifications: len(pending),
		TotalMedicines:       totalMedicines,
		TotalOrders:          totalOrders,
		MonthlyRevenue:       revenue,
		PendingPharmacies:    pending,
	}, nil
}
