package usecase

import (
	"context"
	"fmt"
	"time"

	"medroute/internal/data/repository"
	"medroute/internal/dto/request"
	"medroute/internal/dto/response"
	"medroute/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	Profile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*response.UserDashboardResponse, error)
	// Contact files a support message and returns the ticket ID.
	Contact(ctx context.Context, req *request.ContactRequest) (string, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log,
	}
}

func (s *userService) Profile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load profile")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Profile update validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update profile")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update profile")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) Dashboard(ctx context.Context, userID uuid.UUID) (*response.UserDashboardResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	orders, err := s.repo.Order.FindByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load orders", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	searches, err := s.repo.User.FindRecentSearches(ctx, userID, 10)
	if err != nil {
		s.log.Error("Failed to load recent searches", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	return &response.UserDashboardResponse{
		Profile:        response.UserToResponse(user),
		Orders:         response.OrdersToResponse(orders),
		RecentSearches: response.RecentSearchesToResponse(searches),
	}, nil
}

func (s *userService) Contact(ctx context.Context, req *request.ContactRequest) (string, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Contact validation failed", zap.Any("errors", errs))
		return "", fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	ticketID := utils.GenerateTicketID()

	// Support inbox integration is out of scope; the ticket lands in the
	// log where ops picks it up
	s.log.Info("Contact message received",
		zap.String("ticket_id", ticketID),
		zap.String("email", req.Email),
		zap.String("subject", req.Subject))

	return ticketID, nil
}
