package usecase

import (
	"context"
	"testing"

	"medroute/internal/data/entity"
	"medroute/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerPharmacyRequest(name, email, license string) *request.RegisterPharmacyRequest {
	lat, lng := 28.61, 77.20
	return &request.RegisterPharmacyRequest{
		Name:          name,
		Email:         email,
		Password:      "secret123",
		Phone:         "9876543210",
		Address:       "12 Main Road",
		City:          "Delhi",
		Latitude:      &lat,
		Longitude:     &lng,
		LicenseNumber: license,
	}
}

func TestRegisterPharmacyStartsUnverified(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Pharmacy.Register(context.Background(),
		registerPharmacyRequest("Apollo Pharmacy", "apollo@example.com", "DL-PHARM-001"))
	require.NoError(t, err)
	assert.Equal(t, entity.RolePharmacy, resp.Role)
	assert.False(t, resp.IsVerified)
	assert.NotEmpty(t, resp.Token)
}

func TestRegisterPharmacyDuplicateLicense(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Pharmacy.Register(ctx,
		registerPharmacyRequest("Apollo Pharmacy", "apollo@example.com", "DL-PHARM-001"))
	require.NoError(t, err)

	_, err = svc.Pharmacy.Register(ctx,
		registerPharmacyRequest("Copycat Chemist", "copycat@example.com", "DL-PHARM-001"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "license number already registered")
}

func TestRegisterPharmacyDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Pharmacy.Register(ctx,
		registerPharmacyRequest("Apollo Pharmacy", "apollo@example.com", "DL-PHARM-001"))
	require.NoError(t, err)

	_, err = svc.Pharmacy.Register(ctx,
		registerPharmacyRequest("Apollo Two", "apollo@example.com", "DL-PHARM-002"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email already registered")
}

func TestAddStockRequiresVerification(t *testing.T) {
	svc, repo := newTestService(t)

	pharmacy := seedPharmacy(t, repo, "newcomer", "DL-PHARM-010", false, 28.61, 77.20)

	_, err := svc.Pharmacy.AddStock(context.Background(), pharmacy.ID, &request.AddStockRequest{
		MedicineName:   "Crocin 650",
		ActiveCompound: "Paracetamol",
		Category:       "Pain Relief",
		Quantity:       10,
		Price:          30,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not verified")
}

func TestAddStockAccumulatesQuantity(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)

	req := &request.AddStockRequest{
		MedicineName:   "Crocin 650",
		ActiveCompound: "Paracetamol",
		Category:       "Pain Relief",
		Quantity:       10,
		Price:          30,
	}

	line, err := svc.Pharmacy.AddStock(ctx, pharmacy.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 10, line.Quantity)

	// Same (name, compound) pair tops up the existing entry instead of
	// creating a second catalog row
	req.Quantity = 5
	line, err = svc.Pharmacy.AddStock(ctx, pharmacy.ID, req)
	require.NoError(t, err)
	assert.Equal(t, 15, line.Quantity)

	count, err := repo.Medicine.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateStock(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	medicine := seedMedicine(t, repo, "Dolo 650", "Paracetamol", "Pain Relief")
	seedStock(t, repo, pharmacy.ID, medicine.ID, 10, 28)

	quantity := 4
	line, err := svc.Pharmacy.UpdateStock(ctx, pharmacy.ID, medicine.ID, &request.UpdateStockRequest{
		Quantity: &quantity,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)
	assert.Equal(t, 28.0, line.Price)

	_, err = svc.Pharmacy.UpdateStock(ctx, pharmacy.ID, medicine.ID, &request.UpdateStockRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestUpdateStockUnknownMedicine(t *testing.T) {
	svc, repo := newTestService(t)

	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	medicine := seedMedicine(t, repo, "Dolo 650", "Paracetamol", "Pain Relief")

	quantity := 4
	_, err := svc.Pharmacy.UpdateStock(context.Background(), pharmacy.ID, medicine.ID,
		&request.UpdateStockRequest{Quantity: &quantity})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPharmacyDashboard(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	crocin := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")
	dolo := seedMedicine(t, repo, "Dolo 650", "Paracetamol", "Pain Relief")

	seedStock(t, repo, pharmacy.ID, crocin.ID, 50, 30)
	seedStock(t, repo, pharmacy.ID, dolo.ID, 3, 28)

	dashboard, err := svc.Pharmacy.Dashboard(ctx, pharmacy.ID)
	require.NoError(t, err)
	assert.Equal(t, 53, dashboard.TotalStock)
	assert.Equal(t, 1, dashboard.LowStockCount)
	assert.Len(t, dashboard.Inventory, 2)
	assert.Empty(t, dashboard.Orders)
}
