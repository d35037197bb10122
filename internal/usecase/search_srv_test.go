package usecase

import (
	"context"
	"testing"
	"time"

	"medroute/internal/data/entity"
	"medroute/internal/data/repository"
	"medroute/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (*Service, *repository.Repository) {
	t.Helper()

	repo := repository.NewMemoryRepository()
	config := &utils.Config{
		JWT:     utils.JWTConfig{Secret: "test-secret", ExpiryDays: 7, CookieName: "token"},
		Payment: utils.PaymentConfig{SuccessRate: 1},
	}
	return NewService(repo, config, zap.NewNop()), repo
}

func seedPharmacy(t *testing.T, repo *repository.Repository, name, license string, verified bool, lat, lng float64) *entity.Pharmacy {
	t.Helper()

	now := time.Now()
	pharmacy := &entity.Pharmacy{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          name,
		Email:         name + "@example.com",
		PasswordHash:  "x",
		Phone:         "9876543210",
		Address:       "12 Main Road",
		City:          "Delhi",
		Latitude:      &lat,
		Longitude:     &lng,
		LicenseNumber: license,
		IsVerified:    verified,
	}
	require.NoError(t, repo.Pharmacy.Create(context.Background(), pharmacy))
	return pharmacy
}

func seedPharmacyIn(t *testing.T, repo *repository.Repository, name, license, address, city string, lat, lng float64) *entity.Pharmacy {
	t.Helper()

	now := time.Now()
	pharmacy := &entity.Pharmacy{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          name,
		Email:         name + "@example.com",
		PasswordHash:  "x",
		Phone:         "9876543210",
		Address:       address,
		City:          city,
		Latitude:      &lat,
		Longitude:     &lng,
		LicenseNumber: license,
		IsVerified:    true,
	}
	require.NoError(t, repo.Pharmacy.Create(context.Background(), pharmacy))
	return pharmacy
}

func seedMedicine(t *testing.T, repo *repository.Repository, name, compound, category string) *entity.Medicine {
	t.Helper()

	now := time.Now()
	medicine := &entity.Medicine{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:           name,
		ActiveCompound: compound,
		Category:       category,
	}
	require.NoError(t, repo.Medicine.Create(context.Background(), medicine))
	return medicine
}

func seedStock(t *testing.T, repo *repository.Repository, pharmacyID, medicineID uuid.UUID, quantity int, price float64) {
	t.Helper()
	require.NoError(t, repo.Pharmacy.AddStock(context.Background(), pharmacyID, medicineID, quantity, price, nil))
}

func TestSearchMedicinesRejectsEmptyQuery(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Search.SearchMedicines(context.Background(), "   ", "", nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestSearchMedicinesExcludesUnstocked(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	stocked := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")
	seedMedicine(t, repo, "Crocin Advance", "Paracetamol", "Pain Relief")

	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, stocked.ID, 25, 30)

	resp, err := svc.Search.SearchMedicines(ctx, "crocin", "", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Crocin 650", resp.Results[0].Name)
	assert.Equal(t, int64(1), resp.Results[0].SupplierCount)
}

func TestSearchMedicinesIgnoresUnverifiedStock(t *testing.T) {
	svc, repo := newTestService(t)

	medicine := seedMedicine(t, repo, "Dolo 650", "Paracetamol", "Pain Relief")
	pharmacy := seedPharmacy(t, repo, "shady", "DL-PHARM-002", false, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, medicine.ID, 100, 28)

	resp, err := svc.Search.SearchMedicines(context.Background(), "dolo", "", nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestSearchMedicinesRecordsHistory(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	medicine := seedMedicine(t, repo, "Azithral 500", "Azithromycin", "Antibiotic")
	pharmacy := seedPharmacy(t, repo, "medplus", "DL-PHARM-003", true, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, medicine.ID, 10, 90)

	userID := uuid.New()
	_, err := svc.Search.SearchMedicines(ctx, "azithral", "Delhi", nil, nil, &userID)
	require.NoError(t, err)

	searches, err := repo.User.FindRecentSearches(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.Equal(t, "azithral", searches[0].Medicine)
	require.NotNil(t, searches[0].Location)
	assert.Equal(t, "Delhi", *searches[0].Location)
}

func TestSearchMedicinesUnmatchedQueryReturnsEmpty(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	medicine := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")
	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, medicine.ID, 25, 30)

	resp, err := svc.Search.SearchMedicines(ctx, "zzz999", "", nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.Pharmacies)
	assert.Zero(t, resp.Total)
}

func TestSearchMedicinesLocationHintNarrowsStockists(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	medicine := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")

	delhi := seedPharmacyIn(t, repo, "apollo-cp", "DL-PHARM-001", "Block A, Connaught Place", "New Delhi", 28.63, 77.21)
	mumbai := seedPharmacyIn(t, repo, "wellness-bandra", "MH-PHARM-001", "Hill Road, Bandra", "Mumbai", 19.05, 72.83)
	seedStock(t, repo, delhi.ID, medicine.ID, 50, 25)
	seedStock(t, repo, mumbai.ID, medicine.ID, 30, 27)

	// No hint: both stockists count
	resp, err := svc.Search.SearchMedicines(ctx, "crocin", "", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, int64(2), resp.Results[0].SupplierCount)
	assert.Len(t, resp.Pharmacies, 2)

	// City hint, case-insensitive
	resp, err = svc.Search.SearchMedicines(ctx, "crocin", "delhi", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, int64(1), resp.Results[0].SupplierCount)
	require.Len(t, resp.Pharmacies, 1)
	assert.Equal(t, "apollo-cp", resp.Pharmacies[0].Name)

	// Address hint
	resp, err = svc.Search.SearchMedicines(ctx, "crocin", "bandra", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.Pharmacies, 1)
	assert.Equal(t, "wellness-bandra", resp.Pharmacies[0].Name)

	// Hint matching no pharmacy drops the medicine entirely
	resp, err = svc.Search.SearchMedicines(ctx, "crocin", "Chennai", nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.Pharmacies)
}

func TestSearchMedicinesRanksStockistsByDistance(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	medicine := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")

	// Inserted far-first so the ranking cannot ride on storage order
	mumbai := seedPharmacyIn(t, repo, "mumbai-meds", "MH-PHARM-001", "Hill Road, Bandra", "Mumbai", 19.07, 72.87)
	delhi := seedPharmacyIn(t, repo, "delhi-meds", "DL-PHARM-001", "Block A, Connaught Place", "New Delhi", 28.62, 77.21)
	seedStock(t, repo, mumbai.ID, medicine.ID, 30, 27)
	seedStock(t, repo, delhi.ID, medicine.ID, 50, 25)

	lat, lng := 28.61, 77.20
	resp, err := svc.Search.SearchMedicines(ctx, "crocin", "", &lat, &lng, nil)
	require.NoError(t, err)
	require.Len(t, resp.Pharmacies, 2)

	assert.Equal(t, "delhi-meds", resp.Pharmacies[0].Name)
	assert.Equal(t, "mumbai-meds", resp.Pharmacies[1].Name)
	require.NotNil(t, resp.Pharmacies[0].DistanceKm)
	require.NotNil(t, resp.Pharmacies[1].DistanceKm)
	assert.Less(t, *resp.Pharmacies[0].DistanceKm, *resp.Pharmacies[1].DistanceKm)

	// Each stockist carries its own quantity and price for the medicine
	require.Len(t, resp.Pharmacies[0].Stock, 1)
	assert.Equal(t, 50, resp.Pharmacies[0].Stock[0].Quantity)
	assert.Equal(t, 25.0, resp.Pharmacies[0].Stock[0].Price)
}

func TestFindAlternativesFiltersAndAverages(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	crocin := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")
	dolo := seedMedicine(t, repo, "Dolo 650", "Paracetamol", "Pain Relief")
	seedMedicine(t, repo, "Calpol 500", "Paracetamol", "Pain Relief") // never stocked

	apollo := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	medplus := seedPharmacy(t, repo, "medplus", "DL-PHARM-002", true, 28.63, 77.22)

	seedStock(t, repo, apollo.ID, crocin.ID, 10, 10)
	seedStock(t, repo, medplus.ID, crocin.ID, 5, 15)
	seedStock(t, repo, apollo.ID, dolo.ID, 8, 28)

	resp, err := svc.Search.FindAlternatives(ctx, "paracetamol")
	require.NoError(t, err)
	require.Len(t, resp.Alternatives, 2)

	byName := map[string]int{}
	for _, alt := range resp.Alternatives {
		byName[alt.Name] = alt.AvgPrice
	}
	// (10 + 15) / 2 = 12.5 rounds to 13
	assert.Equal(t, 13, byName["Crocin 650"])
	assert.Equal(t, 28, byName["Dolo 650"])
}

func TestAveragePriceSkipsZeroListings(t *testing.T) {
	assert.Equal(t, 20, averagePrice([]float64{0, 20}))
	assert.Equal(t, 0, averagePrice([]float64{0, 0}))
	assert.Equal(t, 0, averagePrice(nil))
}

func TestFindNearbyRanksByDistance(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	medicine := seedMedicine(t, repo, "Crocin 650", "Paracetamol", "Pain Relief")

	// Inserted far-first so the ranking cannot ride on storage order
	mumbai := seedPharmacy(t, repo, "mumbai-meds", "MH-PHARM-001", true, 19.07, 72.87)
	delhi := seedPharmacy(t, repo, "delhi-meds", "DL-PHARM-001", true, 28.62, 77.21)

	seedStock(t, repo, mumbai.ID, medicine.ID, 10, 30)
	seedStock(t, repo, delhi.ID, medicine.ID, 10, 32)

	lat, lng := 28.61, 77.20
	resp, err := svc.Search.FindNearby(ctx, medicine.ID, &lat, &lng)
	require.NoError(t, err)
	require.Len(t, resp.Pharmacies, 2)

	assert.Equal(t, "delhi-meds", resp.Pharmacies[0].Name)
	assert.Equal(t, "mumbai-meds", resp.Pharmacies[1].Name)
	require.NotNil(t, resp.Pharmacies[0].DistanceKm)
	require.NotNil(t, resp.Pharmacies[1].DistanceKm)
	assert.Less(t, *resp.Pharmacies[0].DistanceKm, *resp.Pharmacies[1].DistanceKm)
}

func TestFindNearbyWithoutCoordinates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	medicine := seedMedicine(t, repo, "Dolo 650", "Paracetamol", "Pain Relief")
	pharmacy := seedPharmacy(t, repo, "apollo", "DL-PHARM-001", true, 28.61, 77.20)
	seedStock(t, repo, pharmacy.ID, medicine.ID, 10, 30)

	resp, err := svc.Search.FindNearby(ctx, medicine.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, resp.Pharmacies, 1)
	assert.Nil(t, resp.Pharmacies[0].DistanceKm)
}

func TestGetMedicineNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Search.GetMedicine(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
