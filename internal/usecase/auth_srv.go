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

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Me(ctx context.Context, accountID uuid.UUID, role string) (*response.MeResponse, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Check the email is free across both account kinds
	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	existingPharmacy, err := s.repo.Pharmacy.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check pharmacy email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingPharmacy != nil {
		return nil, fmt.Errorf("email already registered")
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	// 4. Create user entity. Customer accounts are usable right away.
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         entity.RoleUser,
		IsVerified:   true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	// 5. Auto login after register
	token, expiresAt, err := utils.GenerateToken(s.config.JWT, user.ID, user.Email, string(user.Role))
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, token, expiresAt)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Customer and admin accounts first
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check credentials")
	}
	if user != nil {
		if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
			return nil, fmt.Errorf("invalid credentials")
		}

		token, expiresAt, err := utils.GenerateToken(s.config.JWT, user.ID, user.Email, string(user.Role))
		if err != nil {
			s.log.Error("Failed to sign token", zap.Error(err), zap.String("user_id", user.ID.String()))
			return nil, fmt.Errorf("failed to create session")
		}

		s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
		resp := response.AuthToResponse(user, token, expiresAt)
		return &resp, nil
	}

	// 3. Fall back to pharmacy accounts; same error either way so the
	// response does not leak which table the email lives in
	pharmacy, err := s.repo.Pharmacy.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find pharmacy", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check credentials")
	}
	if pharmacy == nil || !utils.CheckPasswordHash(req.Password, pharmacy.PasswordHash) {
		return nil, fmt.Errorf("invalid credentials")
	}

	token, expiresAt, err := utils.GenerateToken(s.config.JWT, pharmacy.ID, pharmacy.Email, string(entity.RolePharmacy))
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("pharmacy_id", pharmacy.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("Pharmacy logged in", zap.String("pharmacy_id", pharmacy.ID.String()))

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

func (s *authService) Me(ctx context.Context, accountID uuid.UUID, role string) (*response.MeResponse, error) {
	if role == string(entity.RolePharmacy) {
		pharmacy, err := s.repo.Pharmacy.FindByID(ctx, accountID)
		if err != nil {
			s.log.Error("Failed to load pharmacy", zap.Error(err), zap.String("pharmacy_id", accountID.String()))
			return nil, fmt.Errorf("failed to load account")
		}
		if pharmacy == nil {
			return nil, fmt.Errorf("account not found")
		}

		resp := response.PharmacyToResponse(pharmacy)
		return &response.MeResponse{
			Role:     entity.RolePharmacy,
			Pharmacy: &resp,
		}, nil
	}

	user, err := s.repo.User.FindByID(ctx, accountID)
	if err != nil {
		s.log.Error("Failed to load user", zap.Error(err), zap.String("user_id", accountID.String()))
		return nil, fmt.Errorf("failed to load account")
	}
	if user == nil {
		return nil, fmt.Errorf("account not found")
	}

	resp := response.UserToResponse(user)
	return &response.MeResponse{
		Role: user.Role,
		User: &resp,
	}, nil
}
