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

type OrderService interface {
	// ProcessPayment charges the caller, decrements the reserved stock and
	// creates the order with a tracking code in one go.
	ProcessPayment(ctx context.Context, userID uuid.UUID, req *request.ProcessPaymentRequest) (*response.PaymentResultResponse, error)
	GetOrder(ctx context.Context, actorID uuid.UUID, role string, orderID uuid.UUID) (*response.OrderResponse, error)
	// TrackByCode resolves a tracking code without authentication. The
	// delivery partner only shows once the order is out for delivery.
	TrackByCode(ctx context.Context, trackingCode string) (*response.TrackingResponse, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]response.OrderResponse, error)
	// UpdateStatus advances the order lifecycle. Pharmacies may only touch
	// orders they sell in; admins may touch any order.
	UpdateStatus(ctx context.Context, actorID uuid.UUID, role string, orderID uuid.UUID, req *request.UpdateOrderStatusRequest) (*response.OrderResponse, error)
	RequestEmergency(ctx context.Context, userID uuid.UUID, req *request.EmergencyDeliveryRequest) (*response.EmergencyDeliveryResponse, error)
}

// estimatedDeliveryWindow is the promise made at checkout time.
const estimatedDeliveryWindow = 45 * time.Minute

// emergencyETA is the dispatch promise for emergency requests.
const emergencyETA = 30 * time.Minute

type orderService struct {
	repo    *repository.Repository
	gateway PaymentGateway
	log     *zap.Logger
}

func NewOrderService(repo *repository.Repository, gateway PaymentGateway, log *zap.Logger) OrderService {
	return &orderService{
		repo:    repo,
		gateway: gateway,
		log:     log,
	}
}

func (s *orderService) ProcessPayment(ctx context.Context, userID uuid.UUID, req *request.ProcessPaymentRequest) (*response.PaymentResultResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Payment validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Resolve every line against the live catalog and inventory
	now := time.Now()
	var total float64
	items := make([]entity.OrderItem, 0, len(req.Items))

	for _, line := range req.Items {
		medicineID, err := utils.ParseUUID(line.MedicineID)
		if err != nil {
			return nil, fmt.Errorf("validation failed: invalid medicine_id")
		}
		pharmacyID, err := utils.ParseUUID(line.PharmacyID)
		if err != nil {
			return nil, fmt.Errorf("validation failed: invalid pharmacy_id")
		}

		medicine, err := s.repo.Medicine.FindByID(ctx, medicineID)
		if err != nil {
			s.log.Error("Failed to load medicine", zap.Error(err), zap.String("medicine_id", line.MedicineID))
			return nil, fmt.Errorf("failed to process payment")
		}
		if medicine == nil {
			return nil, fmt.Errorf("medicine not found")
		}

		pharmacy, err := s.repo.Pharmacy.FindByID(ctx, pharmacyID)
		if err != nil {
			s.log.Error("Failed to load pharmacy", zap.Error(err), zap.String("pharmacy_id", line.PharmacyID))
			return nil, fmt.Errorf("failed to process payment")
		}
		if pharmacy == nil {
			return nil, fmt.Errorf("pharmacy not found")
		}
		if !pharmacy.IsVerified {
			return nil, fmt.Errorf("pharmacy not verified")
		}

		stock, err := s.findStockLine(ctx, pharmacyID, medicineID)
		if err != nil {
			return nil, fmt.Errorf("failed to process payment")
		}
		if stock == nil || stock.Quantity < line.Quantity {
			return nil, fmt.Errorf("insufficient stock for %s at %s", medicine.Name, pharmacy.Name)
		}

		total += stock.Price * float64(line.Quantity)
		items = append(items, entity.OrderItem{
			ID:           utils.GenerateUUID(),
			MedicineID:   medicineID,
			PharmacyID:   pharmacyID,
			MedicineName: medicine.Name,
			PharmacyName: pharmacy.Name,
			Quantity:     line.Quantity,
			Price:        stock.Price,
		})
	}

	// 3. Charge before touching stock
	transactionID, err := s.gateway.Charge(ctx, total, req.PaymentMethod)
	if err != nil {
		s.log.Warn("Payment declined",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Float64("amount", total),
		)
		return nil, err
	}

	// 4. Decrement stock per line; the guard in the repository keeps a
	// concurrent checkout from driving quantities negative
	for _, item := range items {
		if err := s.repo.Pharmacy.DecrementStock(ctx, item.PharmacyID, item.MedicineID, item.Quantity); err != nil {
			s.log.Error("Failed to decrement stock",
				zap.Error(err),
				zap.String("medicine_id", item.MedicineID.String()),
				zap.String("pharmacy_id", item.PharmacyID.String()),
			)
			return nil, err
		}
	}

	// 5. Persist the order
	estimated := now.Add(estimatedDeliveryWindow)
	paymentStatus := entity.PaymentStatusCompleted
	if req.PaymentMethod == "cod" {
		paymentStatus = entity.PaymentStatusPending
	}

	order := &entity.Order{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:        userID,
		Items:         items,
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: paymentStatus,
		Status:        entity.OrderStatusConfirmed,
		TrackingCode:  utils.GenerateTrackingCode(),
		DeliveryAddress: entity.DeliveryAddress{
			Address: req.DeliveryAddress.Address,
			City:    req.DeliveryAddress.City,
			Pincode: req.DeliveryAddress.Pincode,
			Phone:   req.DeliveryAddress.Phone,
		},
		EstimatedDelivery: &estimated,
	}

	if err := s.repo.Order.Create(ctx, order); err != nil {
		s.log.Error("Failed to create order", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to create order")
	}

	s.log.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("tracking_code", order.TrackingCode),
		zap.Float64("total", total))

	return &response.PaymentResultResponse{
		OrderID:           order.ID.String(),
		TrackingCode:      order.TrackingCode,
		TransactionID:     transactionID,
		PaymentStatus:     order.PaymentStatus,
		Total:             total,
		EstimatedDelivery: order.EstimatedDelivery,
	}, nil
}

func (s *orderService) GetOrder(ctx context.Context, actorID uuid.UUID, role string, orderID uuid.UUID) (*response.OrderResponse, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !canViewOrder(order, actorID, role) {
		return nil, fmt.Errorf("not allowed to view this order")
	}

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) TrackByCode(ctx context.Context, trackingCode string) (*response.TrackingResponse, error) {
	if trackingCode == "" {
		return nil, fmt.Errorf("validation failed: tracking code is required")
	}

	order, err := s.repo.Order.FindByTrackingCode(ctx, trackingCode)
	if err != nil {
		s.log.Error("Failed to find order by tracking code", zap.Error(err), zap.String("tracking_code", trackingCode))
		return nil, fmt.Errorf("failed to track order")
	}
	if order == nil {
		return nil, fmt.Errorf("order not found")
	}

	resp := response.OrderToResponse(order)

	// The partner block is withheld until the rider actually leaves
	if order.Status != entity.OrderStatusOutForDelivery && order.Status != entity.OrderStatusDelivered {
		resp.Partner = nil
	}

	return &response.TrackingResponse{
		Order:    resp,
		Timeline: buildTimeline(order),
	}, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]response.OrderResponse, error) {
	orders, err := s.repo.Order.FindByUser(ctx, userID)
	if err != nil {
		s.log.Error("Failed to list orders", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list orders")
	}

	return response.OrdersToResponse(orders), nil
}

func (s *orderService) UpdateStatus(ctx context.Context, actorID uuid.UUID, role string, orderID uuid.UUID, req *request.UpdateOrderStatusRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Status update validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if role != string(entity.RoleAdmin) && !orderInvolvesPharmacy(order, actorID) {
		return nil, fmt.Errorf("not allowed to update this order")
	}

	target := entity.OrderStatus(req.Status)
	if !order.CanTransition(target) {
		return nil, fmt.Errorf("invalid status transition from %s to %s", order.Status, target)
	}

	now := time.Now()
	switch target {
	case entity.OrderStatusOutForDelivery:
		if req.Partner == nil {
			return nil, fmt.Errorf("validation failed: delivery partner is required for out-for-delivery")
		}
		order.Partner = &entity.DeliveryPartner{
			Name:          req.Partner.Name,
			Phone:         req.Partner.Phone,
			VehicleNumber: req.Partner.VehicleNumber,
		}

	case entity.OrderStatusDelivered:
		order.ActualDelivery = &now
		if order.PaymentMethod == "cod" {
			order.PaymentStatus = entity.PaymentStatusCompleted
		}

	case entity.OrderStatusCancelled:
		if order.PaymentStatus == entity.PaymentStatusCompleted {
			order.PaymentStatus = entity.PaymentStatusRefunded
		}
	}

	order.Status = target
	order.UpdatedAt = now

	if err := s.repo.Order.UpdateStatus(ctx, order); err != nil {
		s.log.Error("Failed to update order status",
			zap.Error(err),
			zap.String("order_id", orderID.String()),
			zap.String("status", req.Status),
		)
		return nil, fmt.Errorf("failed to update order")
	}

	s.log.Info("Order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", req.Status))

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) RequestEmergency(ctx context.Context, userID uuid.UUID, req *request.EmergencyDeliveryRequest) (*response.EmergencyDeliveryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Emergency request validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	requestID := utils.GenerateEmergencyID()

	s.log.Info("Emergency delivery requested",
		zap.String("request_id", requestID),
		zap.String("user_id", userID.String()),
		zap.String("medicine", req.MedicineName),
		zap.String("city", req.City))

	return &response.EmergencyDeliveryResponse{
		RequestID:    requestID,
		MedicineName: req.MedicineName,
		Status:       "dispatched",
		ETA:          time.Now().Add(emergencyETA),
	}, nil
}

func (s *orderService) loadOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	order, err := s.repo.Order.FindByID(ctx, orderID)
	if err != nil {
		s.log.Error("Failed to load order", zap.Error(err), zap.String("order_id", orderID.String()))
		return nil, fmt.Errorf("failed to load order")
	}
	if order == nil {
		return nil, fmt.Errorf("order not found")
	}
	return order, nil
}

func (s *orderService) findStockLine(ctx context.Context, pharmacyID, medicineID uuid.UUID) (*entity.StockLine, error) {
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

func canViewOrder(order *entity.Order, actorID uuid.UUID, role string) bool {
	if role == string(entity.RoleAdmin) || order.UserID == actorID {
		return true
	}
	if role == string(entity.RolePharmacy) {
		return orderInvolvesPharmacy(order, actorID)
	}
	return false
}

func orderInvolvesPharmacy(order *entity.Order, pharmacyID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.PharmacyID == pharmacyID {
			return true
		}
	}
	return false
}

// buildTimeline derives the tracking steps from the order's status and
// stamps. Cancelled orders collapse to placed + cancelled.
func buildTimeline(order *entity.Order) []response.TrackingEventResponse {
	placedAt := order.CreatedAt

	if order.Status == entity.OrderStatusCancelled {
		cancelledAt := order.UpdatedAt
		return []response.TrackingEventResponse{
			{Status: entity.OrderStatusPending, Label: "Order placed", Done: true, At: &placedAt},
			{Status: entity.OrderStatusCancelled, Label: "Order cancelled", Done: true, At: &cancelledAt},
		}
	}

	steps := []struct {
		status entity.OrderStatus
		label  string
	}{
		{entity.OrderStatusPending, "Order placed"},
		{entity.OrderStatusConfirmed, "Order confirmed"},
		{entity.OrderStatusPreparing, "Preparing order"},
		{entity.OrderStatusOutForDelivery, "Out for delivery"},
		{entity.OrderStatusDelivered, "Delivered"},
	}

	rank := map[entity.OrderStatus]int{
		entity.OrderStatusPending:        0,
		entity.OrderStatusConfirmed:      1,
		entity.OrderStatusPreparing:      2,
		entity.OrderStatusOutForDelivery: 3,
		entity.OrderStatusDelivered:      4,
	}
	current := rank[order.Status]

	timeline := make([]response.TrackingEventResponse, 0, len(steps))
	for i, step := range steps {
		event := response.TrackingEventResponse{
			Status: step.status,
			Label:  step.label,
			Done:   i <= current,
		}

		switch {
		case i == 0:
			event.At = &placedAt
		case step.status == entity.OrderStatusDelivered && order.ActualDelivery != nil:
			event.At = order.ActualDelivery
		case i == current:
			updatedAt := order.UpdatedAt
			event.At = &updatedAt
		}

		timeline = append(timeline, event)
	}

	return timeline
}
