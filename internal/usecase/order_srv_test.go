package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"medroute/internal/data/entity"
	"medroute/internal/data/repository"
	"medroute/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func placeOrder(t *testing.T, svc *Service, repo *repository.Repository) (uuid.UUID, *entity.Pharmacy, *entity.Medicine, string) {
	t.Helper()
	ctx := context.Background()

	medicine := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")
	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, medicine.ID, 20, 30)

	userID := uuid.New()
	result, err := svc.Order.ProcessPayment(ctx, userID, &request.ProcessPaymentRequest{
		Items: []request.OrderItemRequest{
			{MedicineID: medicine.ID.String(), PharmacyID: pharmacy.ID.String(), Quantity: 2},
		},
		PaymentMethod: "card",
		DeliveryAddress: request.DeliveryAddressRequest{
			Address: "42 Park Street",
			City:    "Delhi",
			Pincode: "110001",
			Phone:   "9876543210",
		},
	})
	require.NoError(t, err)
	return userID, pharmacy, medicine, result.OrderID
}

func TestProcessPaymentCreatesOrderAndDecrementsStock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	medicine := seedMedicine(t, repo, "Dolo 650", "Paracetamol", "Pain Relief")
	pharmacy := seedPharmacy(t, repo, "medplus", "DL-PHARM-001", true, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, medicine.ID, 10, 28)

	userID := uuid.New()
	result, err := svc.Order.ProcessPayment(ctx, userID, &request.ProcessPaymentRequest{
		Items: []request.OrderItemRequest{
			{MedicineID: medicine.ID.String(), PharmacyID: pharmacy.ID.String(), Quantity: 3},
		},
		PaymentMethod: "upi",
		DeliveryAddress: request.DeliveryAddressRequest{
			Address: "42 Park Street",
			City:    "Delhi",
			Pincode: "110001",
			Phone:   "9876543210",
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.TrackingCode, "MR"))
	assert.Equal(t, entity.PaymentStatusCompleted, result.PaymentStatus)
	assert.InDelta(t, 84, result.Total, 0.01)
	require.NotNil(t, result.EstimatedDelivery)
	assert.WithinDuration(t, time.Now().Add(45*time.Minute), *result.EstimatedDelivery, time.Minute)

	inventory, err := repo.Pharmacy.FindInventory(ctx, pharmacy.ID)
	require.NoError(t, err)
	require.Len(t, inventory, 1)
	assert.Equal(t, 7, inventory[0].Quantity)

	orders, err := svc.Order.ListUserOrders(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.OrderStatusConfirmed, orders[0].Status)
}

func TestProcessPaymentInsufficientStock(t *testing.T) {
	svc, repo := newTestService(t)

	medicine := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")
	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, medicine.ID, 2, 30)

	_, err := svc.Order.ProcessPayment(context.Background(), uuid.New(), &request.ProcessPaymentRequest{
		Items: []request.OrderItemRequest{
			{MedicineID: medicine.ID.String(), PharmacyID: pharmacy.ID.String(), Quantity: 5},
		},
		PaymentMethod: "card",
		DeliveryAddress: request.DeliveryAddressRequest{
			Address: "42 Park Street",
			City:    "Delhi",
			Pincode: "110001",
			Phone:   "9876543210",
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestProcessPaymentRejectsUnverifiedPharmacy(t *testing.T) {
	svc, repo := newTestService(t)

	medicine := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")
	pharmacy := seedPharmacy(t, repo, "shady", "DL-PHARM-009", false, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, medicine.ID, 50, 30)

	_, err := svc.Order.ProcessPayment(context.Background(), uuid.New(), &request.ProcessPaymentRequest{
		Items: []request.OrderItemRequest{
			{MedicineID: medicine.ID.String(), PharmacyID: pharmacy.ID.String(), Quantity: 1},
		},
		PaymentMethod: "card",
		DeliveryAddress: request.DeliveryAddressRequest{
			Address: "42 Park Street",
			City:    "Delhi",
			Pincode: "110001",
			Phone:   "9876543210",
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not verified")
}

func TestProcessPaymentDeclinedLeavesStockUntouched(t *testing.T) {
	_, repo := newTestService(t)
	ctx := context.Background()

	medicine := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")
	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, medicine.ID, 10, 30)

	// Gateway that declines everything
	orders := NewOrderService(repo, NewMockPaymentGateway(0), zap.NewNop())

	_, err := orders.ProcessPayment(ctx, uuid.New(), &request.ProcessPaymentRequest{
		Items: []request.OrderItemRequest{
			{MedicineID: medicine.ID.String(), PharmacyID: pharmacy.ID.String(), Quantity: 2},
		},
		PaymentMethod: "card",
		DeliveryAddress: request.DeliveryAddressRequest{
			Address: "42 Park Street",
			City:    "Delhi",
			Pincode: "110001",
			Phone:   "9876543210",
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment failed")

	inventory, err := repo.Pharmacy.FindInventory(ctx, pharmacy.ID)
	require.NoError(t, err)
	require.Len(t, inventory, 1)
	assert.Equal(t, 10, inventory[0].Quantity)
}

func TestCodOrdersSkipTheCharge(t *testing.T) {
	_, repo := newTestService(t)
	ctx := context.Background()

	medicine := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")
	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, medicine.ID, 10, 30)

	// Even a gateway that declines everything lets COD through
	orders := NewOrderService(repo, NewMockPaymentGateway(0), zap.NewNop())

	result, err := orders.ProcessPayment(ctx, uuid.New(), &request.ProcessPaymentRequest{
		Items: []request.OrderItemRequest{
			{MedicineID: medicine.ID.String(), PharmacyID: pharmacy.ID.String(), Quantity: 1},
		},
		PaymentMethod: "cod",
		DeliveryAddress: request.DeliveryAddressRequest{
			Address: "42 Park Street",
			City:    "Delhi",
			Pincode: "110001",
			Phone:   "9876543210",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, result.PaymentStatus)
}

func TestTrackingHidesPartnerBeforeDispatch(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, pharmacy, _, orderID := placeOrder(t, svc, repo)

	order, err := repo.Order.FindByID(ctx, uuid.MustParse(orderID))
	require.NoError(t, err)

	tracked, err := svc.Order.TrackByCode(ctx, order.TrackingCode)
	require.NoError(t, err)
	assert.Nil(t, tracked.Order.Partner)

	// Advance to out-for-delivery with a partner attached
	admin := uuid.New()
	_, err = svc.Order.UpdateStatus(ctx, pharmacy.ID, string(entity.RolePharmacy), order.ID,
		&request.UpdateOrderStatusRequest{Status: "preparing"})
	require.NoError(t, err)

	_, err = svc.Order.UpdateStatus(ctx, admin, string(entity.RoleAdmin), order.ID,
		&request.UpdateOrderStatusRequest{
			Status: "out-for-delivery",
			Partner: &request.DeliveryPartnerRequest{
				Name:          "Ravi Kumar",
				Phone:         "9812345678",
				VehicleNumber: "DL-01-AB-1234",
			},
		})
	require.NoError(t, err)

	tracked, err = svc.Order.TrackByCode(ctx, order.TrackingCode)
	require.NoError(t, err)
	require.NotNil(t, tracked.Order.Partner)
	assert.Equal(t, "Ravi Kumar", tracked.Order.Partner.Name)

	var dispatched bool
	for _, event := range tracked.Timeline {
		if event.Status == entity.OrderStatusOutForDelivery {
			dispatched = event.Done
		}
	}
	assert.True(t, dispatched)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, pharmacy, _, orderID := placeOrder(t, svc, repo)

	_, err := svc.Order.UpdateStatus(ctx, pharmacy.ID, string(entity.RolePharmacy),
		uuid.MustParse(orderID), &request.UpdateOrderStatusRequest{Status: "delivered"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status transition")
}

func TestUpdateStatusRequiresPartnerForDispatch(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, pharmacy, _, orderID := placeOrder(t, svc, repo)
	id := uuid.MustParse(orderID)

	_, err := svc.Order.UpdateStatus(ctx, pharmacy.ID, string(entity.RolePharmacy), id,
		&request.UpdateOrderStatusRequest{Status: "preparing"})
	require.NoError(t, err)

	_, err = svc.Order.UpdateStatus(ctx, pharmacy.ID, string(entity.RolePharmacy), id,
		&request.UpdateOrderStatusRequest{Status: "out-for-delivery"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delivery partner is required")
}

func TestUpdateStatusRejectsUninvolvedPharmacy(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, _, _, orderID := placeOrder(t, svc, repo)
	stranger := seedPharmacy(t, repo, "other", "DL-PHARM-099", true, 28.65, 77.25)

	_, err := svc.Order.UpdateStatus(ctx, stranger.ID, string(entity.RolePharmacy),
		uuid.MustParse(orderID), &request.UpdateOrderStatusRequest{Status: "preparing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestGetOrderOwnership(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	userID, pharmacy, _, orderID := placeOrder(t, svc, repo)
	id := uuid.MustParse(orderID)

	_, err := svc.Order.GetOrder(ctx, userID, string(entity.RoleUser), id)
	assert.NoError(t, err)

	_, err = svc.Order.GetOrder(ctx, pharmacy.ID, string(entity.RolePharmacy), id)
	assert.NoError(t, err)

	_, err = svc.Order.GetOrder(ctx, uuid.New(), string(entity.RoleUser), id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")
}

func TestTrackByCodeNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Order.TrackByCode(context.Background(), "MR0000XXXX")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCancellationRefundsCompletedPayment(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	_, _, _, orderID := placeOrder(t, svc, repo)
	id := uuid.MustParse(orderID)

	admin := uuid.New()
	resp, err := svc.Order.UpdateStatus(ctx, admin, string(entity.RoleAdmin), id,
		&request.UpdateOrderStatusRequest{Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, resp.Status)
	assert.Equal(t, entity.PaymentStatusRefunded, resp.PaymentStatus)
}

func TestEmergencyRequest(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Order.RequestEmergency(context.Background(), uuid.New(), &request.EmergencyDeliveryRequest{
		MedicineName: "Insulin Glargine",
		Address:      "42 Park Street",
		City:         "Delhi",
		Phone:        "9876543210",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.RequestID, "EMR"))
	assert.Equal(t, "dispatched", resp.Status)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), resp.ETA, time.Minute)
}
