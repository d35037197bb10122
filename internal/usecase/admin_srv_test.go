package usecase

import (
	"context"
	"testing"

	"medroute/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyPharmacyMakesItSearchable(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", false, 28.61, 77.20)
	medicine := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")
	seedStock(t, repo, pharmacy.ID, medicine.ID, 10, 30)

	// Hidden while unverified
	found, err := svc.Search.SearchMedicines(ctx, "crocin", "", nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, found.Results)

	verified := true
	resp, err := svc.Admin.VerifyPharmacy(ctx, &request.VerifyPharmacyRequest{
		PharmacyID: pharmacy.ID.String(),
		Verified:   &verified,
	})
	require.NoError(t, err)
	assert.True(t, resp.IsVerified)

	found, err = svc.Search.SearchMedicines(ctx, "crocin", "", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, found.Results, 1)

	// And revocation pulls it back out
	revoked := false
	_, err = svc.Admin.VerifyPharmacy(ctx, &request.VerifyPharmacyRequest{
		PharmacyID: pharmacy.ID.String(),
		Verified:   &revoked,
	})
	require.NoError(t, err)

	found, err = svc.Search.SearchMedicines(ctx, "crocin", "", nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, found.Results)
}

func TestVerifyPharmacyNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	verified := true
	_, err := svc.Admin.VerifyPharmacy(context.Background(), &request.VerifyPharmacyRequest{
		PharmacyID: "7b0d1c1e-0000-4000-8000-000000000000",
		Verified:   &verified,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAdminDashboardCounts(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	seedPharmacy(t, repo, "newcomer", "DL-PHARM-002", false, 28.63, 77.22)
	seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")

	dashboard, err := svc.Admin.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dashboard.TotalPharmacies)
	assert.Equal(t, int64(1), dashboard.TotalMedicines)
	assert.Equal(t, 1, dashboard.PendingVerifications)
	require.Len(t, dashboard.PendingPharmacies, 1)
	assert.Equal(t, "newcomer", dashboard.PendingPharmacies[0].Name)
}
