package usecase

import (
	"context"
	"fmt"
	"time"

	"medroute/internal/data/entity"
	"medroute/internal/data/repository"
	"medroute/internal/dto/request"
	"medroute/internal/dto/response"
	"medroute/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PharmacyService interface {
	Register(ctx context.Context, req *request.RegisterPharmacyRequest) (*response.AuthResponse, error)
	// AddStock creates the catalog entry when the (name, compound) pair is
	// new and tops up the pharmacy's quantity. Verified pharmacies only.
	AddStock(ctx context.Context, pharmacyID uuid.UUID, req *request.AddStockRequest) (*response.StockLineResponse, error)
	UpdateStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, req *request.UpdateStockRequest) (*response.StockLineResponse, error)
	Dashboard(ctx context.Context, pharmacyID uuid.UUID) (*response.PharmacyDashboardResponse, error)
}

// lowStockThreshold flags inventory lines the dashboard calls out.
const lowStockThreshold = 10

type pharmacyService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewPharmacyService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) PharmacyService {
	return &pharmacyService{
		repo:   repo,
		config: config,
		log:    log,
	}
}

func (s *pharmacyService) Register(ctx context.Context, req *request.RegisterPharmacyRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Pharmacy register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Email must be free across both account kinds
	existingPharmacy, err := s.repo.Pharmacy.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check pharmacy email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingPharmacy != nil {
		return nil, fmt.Errorf("email already registered")
	}

	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check user email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	// 3. One account per license
	existingLicense, err := s.repo.Pharmacy.FindByLicense(ctx, req.LicenseNumber)
	if err != nil {
		s.log.Error("Failed to check license", zap.Error(err), zap.String("license", req.LicenseNumber))
		return nil, fmt.Errorf("failed to check license number")
	}
	if existingLicense != nil {
		return nil, fmt.Errorf("license number already registered")
	}

	// 4. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	// 5. Create pharmacy; verification waits for an admin
	now := time.Now()
	pharmacy := &entity.Pharmacy{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:              req.Name,
		Email:             req.Email,
		PasswordHash:      hashedPassword,
		Phone:             req.Phone,
		Address:           req.Address,
		City:              req.City,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		LicenseNumber:     req.LicenseNumber,
		IsVerified:        false,
		DeliveryAvailable: req.DeliveryAvailable,
		DeliveryRadiusKm:  req.DeliveryRadiusKm,
	}

	if err := s.repo.Pharmacy.Create(ctx, pharmacy); err != nil {
		s.log.Error("Failed to create pharmacy", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	token, expiresAt, err := utils.GenerateToken(s.config.JWT, pharmacy.ID, pharmacy.Email, string(entity.RolePharmacy))
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("pharmacy_id", pharmacy.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("Pharmacy registered, pending verification",
		zap.String("pharmacy_id", pharmacy.ID.String()),
		zap.String("license", pharmacy.LicenseNumber))

	return &response.AuthResponse{
		UserID:     pharmacy.ID.String(),
		Token:      token,
		ExpiresAt:  expiresAt,
		Name:       pharmacy.Name,
		Email:      pharmacy.Email,
		Role:       entity.RolePharmacy,
		IsVerified: pharmacy.IsVerified,
	}, nil
}

func (s *pharmacyService) AddStock(ctx context.Context, pharmacyID uuid.UUID, req *request.AddStockRequest) (*response.StockLineResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Add stock validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	pharmacy, err := s.requireVerified(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	// Reuse the catalog entry when the same medicine already exists
	medicine, err := s.repo.Medicine.FindByNameAndCompound(ctx, req.MedicineName, req.ActiveCompound)
	if err != nil {
		s.log.Error("Failed to look up medicine", zap.Error(err), zap.String("name", req.MedicineName))
		return nil, fmt.Errorf("failed to add stock")
	}
	if medicine == nil {
		now := time.Now()
		medicine = &entity.Medicine{
			Base: entity.Base{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Name:              req.MedicineName,
			ActiveCompound:    req.ActiveCompound,
			Category:          req.Category,
			Manufacturer:      req.Manufacturer,
			Description:       req.Description,
			Dosage:            req.Dosage,
			SideEffects:       req.SideEffects,
			Contraindications: req.Contraindications,
		}
		if err := s.repo.Medicine.Create(ctx, medicine); err != nil {
			s.log.Error("Failed to create medicine", zap.Error(err), zap.String("name", req.MedicineName))
			return nil, fmt.Errorf("failed to add stock")
		}
	}

	var expiry *time.Time
	if req.ExpiryDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("validation failed: expiry_date must be YYYY-MM-DD")
		}
		expiry = &parsed
	}

	if err := s.repo.Pharmacy.AddStock(ctx, pharmacy.ID, medicine.ID, req.Quantity, req.Price, expiry); err != nil {
		s.log.Error("Failed to add stock",
			zap.Error(err),
			zap.String("pharmacy_id", pharmacy.ID.String()),
			zap.String("medicine_id", medicine.ID.String()),
		)
		return nil, fmt.Errorf("failed to add stock")
	}

	s.log.Info("Stock added",
		zap.String("pharmacy_id", pharmacy.ID.String()),
		zap.String("medicine_id", medicine.ID.String()),
		zap.Int("quantity", req.Quantity))

	line, err := s.findStockLine(ctx, pharmacy.ID, medicine.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to add stock")
	}

	resp := response.StockLineToResponse(*line)
	return &resp, nil
}

func (s *pharmacyService) UpdateStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, req *request.UpdateStockRequest) (*response.StockLineResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update stock validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	if req.Quantity == nil && req.Price == nil {
		return nil, fmt.Errorf("validation failed: nothing to update")
	}

	pharmacy, err := s.requireVerified(ctx, pharmacyID)
	if err != nil {
		return nil, err
	}

	line, err := s.findStockLine(ctx, pharmacy.ID, medicineID)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock")
	}
	if line == nil {
		return nil, fmt.Errorf("stock entry not found")
	}

	quantity := line.Quantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	price := line.Price
	if req.Price != nil {
		price = *req.Price
	}

	if err := s.repo.Pharmacy.SetStock(ctx, pharmacy.ID, medicineID, quantity, price); err != nil {
		s.log.Error("Failed to update stock",
			zap.Error(err),
			zap.String("pharmacy_id", pharmacy.ID.String()),
			zap.String("medicine_id", medicineID.String()),
		)
		return nil, fmt.Errorf("failed to update stock")
	}

	line, err = s.findStockLine(ctx, pharmacy.ID, medicineID)
	if err != nil || line == nil {
		return nil, fmt.Errorf("failed to update stock")
	}

	resp := response.StockLineToResponse(*line)
	return &resp, nil
}

func (s *pharmacyService) Dashboard(ctx context.Context, pharmacyID uuid.UUID) (*response.PharmacyDashboardResponse, error) {
	pharmacy, err := s.repo.Pharmacy.FindByID(ctx, pharmacyID)
	if err != nil {
		s.log.Error("Failed to load pharmacy", zap.Error(err), zap.String("pharmacy_id", pharmacyID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}
	if pharmacy == nil {
		return nil, fmt.Errorf("pharmacy not found")
	}

	inventory, err := s.repo.Pharmacy.FindInventory(ctx, pharmacyID)
	if err != nil {
		s.log.Error("Failed to load inventory", zap.Error(err), zap.String("pharmacy_id", pharmacyID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	orders, err := s.repo.Order.FindByPharmacy(ctx, pharmacyID)
	if err != nil {
		s.log.Error("Failed to load orders", zap.Error(err), zap.String("pharmacy_id", pharmacyID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	totalStock := 0
	lowStock := 0
	for _, line := range inventory {
		totalStock += line.Quantity
		if line.Quantity < lowStockThreshold {
			lowStock++
		}
	}

	return &response.PharmacyDashboardResponse{
		Pharmacy:      response.PharmacyToResponse(pharmacy),
		Inventory:     response.StockLinesToResponse(inventory),
		Orders:        response.OrdersToResponse(orders),
		TotalStock:    totalStock,
		LowStockCount: lowStock,
	}, nil
}

func (s *pharmacyService) requireVerified(ctx context.Context, pharmacyID uuid.UUID) (*entity.Pharmacy, error) {
	pharmacy, err := s.repo.Pharmacy.FindByID(ctx, pharmacyID)
	if err != nil {
		s.log.Error("Failed to load pharmacy", zap.Error(err), zap.String("pharmacy_id", pharmacyID.String()))
		return nil, fmt.Errorf("failed to load pharmacy")
	}
	if pharmacy == nil {
		return nil, fmt.Errorf("pharmacy not found")
	}
	if !pharmacy.IsVerified {
		return nil, fmt.Errorf("pharmacy not verified")
	}
	return pharmacy, nil
}

func (s *pharmacyService) findStockLine(ctx context.Context, pharmacyID, medicineID uuid.UUID) (*entity.StockLine, error) {
	inventory, err := s.repo.Pharmacy.FindInventory(ctx, pharmacyID)
	if err != nil {
		s.log.Error("Failed to load inventory", zap.Error(err), zap.String("pharmacy_id", pharmacyID.String()))
		return nil, err
	}
	for i := range inventory {
		if inventory[i].MedicineID == medicineID {
			return &inventory[i], nil
		}
	}
	return nil, nil
}
