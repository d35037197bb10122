package usecase

import (
	"context"
	"strings"
	"testing"

	"medroute/internal/dto/request"
	"medroute/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, svc *Service, email string) uuid.UUID {
	t.Helper()

	resp, err := svc.Auth.Register(context.Background(), &request.RegisterRequest{
		Name:     "Asha Rao",
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)

	id, err := utils.ParseUUID(resp.UserID)
	require.NoError(t, err)
	return id
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	userID := registerUser(t, svc, "asha@example.com")

	name := "Asha R."
	phone := "9876543210"
	updated, err := svc.User.UpdateProfile(ctx, userID, &request.UpdateProfileRequest{
		Name:  &name,
		Phone: &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha R.", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "9876543210", *updated.Phone)

	// Untouched fields survive a partial update
	profile, err := svc.User.Profile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", profile.Email)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	name := "Ghost"
	_, err := svc.User.UpdateProfile(context.Background(), uuid.New(), &request.UpdateProfileRequest{
		Name: &name,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUserDashboard(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	userID := registerUser(t, svc, "asha@example.com")

	medicine := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")
	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, medicine.ID, 10, 30)

	_, err := svc.Search.SearchMedicines(ctx, "crocin", "Delhi", nil, nil, &userID)
	require.NoError(t, err)

	_, err = svc.Order.ProcessPayment(ctx, userID, &request.ProcessPaymentRequest{
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
	require.NoError(t, err)

	dashboard, err := svc.User.Dashboard(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", dashboard.Profile.Email)
	assert.Len(t, dashboard.Orders, 1)
	require.Len(t, dashboard.RecentSearches, 1)
	assert.Equal(t, "crocin", dashboard.RecentSearches[0].Medicine)
}

func TestContactReturnsTicket(t *testing.T) {
	svc, _ := newTestService(t)

	ticket, err := svc.User.Contact(context.Background(), &request.ContactRequest{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Subject: "Order stuck",
		Message: "My order has been preparing for two days.",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ticket, "TICKET-"))
}
