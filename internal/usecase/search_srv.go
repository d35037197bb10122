package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"medroute/internal/data/entity"
	"medroute/internal/data/repository"
	"medroute/internal/dto/response"
	"medroute/pkg/geo"
	"medroute/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SearchService interface {
	// SearchMedicines matches the query against name, active compound and
	// category, keeping only medicines a verified pharmacy actually stocks.
	// A location hint narrows the stockists to pharmacies whose address or
	// city mentions it; caller coordinates rank the stockists by distance.
	// A non-nil userID records the search in the user's history.
	SearchMedicines(ctx context.Context, query, location string, lat, lng *float64, userID *uuid.UUID) (*response.SearchResponse, error)
	GetMedicine(ctx context.Context, id uuid.UUID) (*response.MedicineDetailResponse, error)
	// FindAlternatives lists medicines sharing the active compound that are
	// in stock somewhere, with supplier counts and average prices.
	FindAlternatives(ctx context.Context, compound string) (*response.AlternativesResponse, error)
	// FindNearby ranks verified stockists of a medicine by distance from
	// the caller. Without coordinates the stockists come back unranked.
	FindNearby(ctx context.Context, medicineID uuid.UUID, lat, lng *float64) (*response.NearbyResponse, error)
}

type searchService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewSearchService(repo *repository.Repository, log *zap.Logger) SearchService {
	return &searchService{
		repo: repo,
		log:  log,
	}
}

func (s *searchService) SearchMedicines(ctx context.Context, query, location string, lat, lng *float64, userID *uuid.UUID) (*response.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("validation failed: search query is required")
	}
	location = strings.TrimSpace(location)

	medicines, err := s.repo.Medicine.Search(ctx, query)
	if err != nil {
		s.log.Error("Medicine search failed", zap.Error(err), zap.String("query", query))
		return nil, fmt.Errorf("failed to search medicines")
	}

	var stockists []*entity.PharmacyStock
	if len(medicines) > 0 {
		ids := make([]uuid.UUID, 0, len(medicines))
		for _, medicine := range medicines {
			ids = append(ids, medicine.ID)
		}

		stockists, err = s.repo.Pharmacy.FindStockists(ctx, ids)
		if err != nil {
			s.log.Error("Failed to find stockists", zap.Error(err), zap.String("query", query))
			return nil, fmt.Errorf("failed to search medicines")
		}
	}

	// The location hint narrows the join to pharmacies whose address or
	// city mentions it, before anything is counted
	if location != "" {
		narrowed := make([]*entity.PharmacyStock, 0, len(stockists))
		for _, stockist := range stockists {
			if matchesLocation(stockist.Pharmacy, location) {
				narrowed = append(narrowed, stockist)
			}
		}
		stockists = narrowed
	}

	suppliers := make(map[uuid.UUID]int64, len(medicines))
	for _, stockist := range stockists {
		for _, line := range stockist.Lines {
			suppliers[line.MedicineID]++
		}
	}

	results := make([]response.SearchResultResponse, 0, len(medicines))
	for _, medicine := range medicines {
		// Medicines no surviving pharmacy stocks never reach the caller
		count := suppliers[medicine.ID]
		if count == 0 {
			continue
		}

		results = append(results, response.SearchResultResponse{
			MedicineResponse: response.MedicineToResponse(medicine),
			SupplierCount:    count,
		})
	}

	if userID != nil {
		s.recordSearch(ctx, *userID, query, location)
	}

	return &response.SearchResponse{
		Query:      query,
		Location:   location,
		Results:    results,
		Pharmacies: rankStockists(stockists, lat, lng),
		Total:      len(results),
	}, nil
}

// matchesLocation reports whether the pharmacy's address or city mentions
// the hint, case-insensitively.
func matchesLocation(pharmacy *entity.Pharmacy, hint string) bool {
	hint = strings.ToLower(hint)
	return strings.Contains(strings.ToLower(pharmacy.Address), hint) ||
		strings.Contains(strings.ToLower(pharmacy.City), hint)
}

func (s *searchService) recordSearch(ctx context.Context, userID uuid.UUID, query, location string) {
	search := &entity.RecentSearch{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: time.Now(),
		},
		UserID:   userID,
		Medicine: query,
	}
	if location != "" {
		search.Location = &location
	}

	// History is best effort; a failed insert never fails the search
	if err := s.repo.User.AddRecentSearch(ctx, search); err != nil {
		s.log.Warn("Failed to record recent search",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
	}
}

func (s *searchService) GetMedicine(ctx context.Context, id uuid.UUID) (*response.MedicineDetailResponse, error) {
	medicine, err := s.repo.Medicine.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to load medicine", zap.Error(err), zap.String("medicine_id", id.String()))
		return nil, fmt.Errorf("failed to load medicine")
	}
	if medicine == nil {
		return nil, fmt.Errorf("medicine not found")
	}

	count, err := s.repo.Pharmacy.CountStockists(ctx, medicine.ID)
	if err != nil {
		s.log.Error("Failed to count stockists", zap.Error(err), zap.String("medicine_id", id.String()))
		return nil, fmt.Errorf("failed to load medicine")
	}

	alternatives, err := s.resolveAlternatives(ctx, medicine.ActiveCompound, &medicine.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load medicine")
	}

	return &response.MedicineDetailResponse{
		MedicineResponse: response.MedicineToResponse(medicine),
		SupplierCount:    count,
		Alternatives:     alternatives,
	}, nil
}

func (s *searchService) FindAlternatives(ctx context.Context, compound string) (*response.AlternativesResponse, error) {
	compound = strings.TrimSpace(compound)
	if compound == "" {
		return nil, fmt.Errorf("validation failed: compound is required")
	}

	alternatives, err := s.resolveAlternatives(ctx, compound, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find alternatives")
	}

	return &response.AlternativesResponse{
		Compound:     compound,
		Alternatives: alternatives,
	}, nil
}

// resolveAlternatives returns the stocked medicines matching the compound,
// excluding one medicine when the lookup comes from its own detail page.
func (s *searchService) resolveAlternatives(ctx context.Context, compound string, exclude *uuid.UUID) ([]response.AlternativeResponse, error) {
	medicines, err := s.repo.Medicine.FindByCompound(ctx, compound)
	if err != nil {
		s.log.Error("Failed to find medicines by compound", zap.Error(err), zap.String("compound", compound))
		return nil, err
	}

	alternatives := make([]response.AlternativeResponse, 0, len(medicines))
	for _, medicine := range medicines {
		if exclude != nil && medicine.ID == *exclude {
			continue
		}

		count, err := s.repo.Pharmacy.CountStockists(ctx, medicine.ID)
		if err != nil {
			s.log.Error("Failed to count stockists",
				zap.Error(err),
				zap.String("medicine_id", medicine.ID.String()),
			)
			return nil, err
		}
		if count == 0 {
			continue
		}

		prices, err := s.repo.Pharmacy.FindPricesForMedicine(ctx, medicine.ID)
		if err != nil {
			s.log.Error("Failed to load prices",
				zap.Error(err),
				zap.String("medicine_id", medicine.ID.String()),
			)
			return nil, err
		}

		alternatives = append(alternatives, response.AlternativeResponse{
			MedicineResponse: response.MedicineToResponse(medicine),
			SupplierCount:    count,
			AvgPrice:         averagePrice(prices),
		})
	}

	return alternatives, nil
}

// averagePrice averages the strictly positive prices, rounded to the
// nearest rupee. Free or zero-priced listings don't drag the average down.
func averagePrice(prices []float64) int {
	var sum float64
	var n int
	for _, price := range prices {
		if price > 0 {
			sum += price
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(sum / float64(n)))
}

func (s *searchService) FindNearby(ctx context.Context, medicineID uuid.UUID, lat, lng *float64) (*response.NearbyResponse, error) {
	medicine, err := s.repo.Medicine.FindByID(ctx, medicineID)
	if err != nil {
		s.log.Error("Failed to load medicine", zap.Error(err), zap.String("medicine_id", medicineID.String()))
		return nil, fmt.Errorf("failed to find pharmacies")
	}
	if medicine == nil {
		return nil, fmt.Errorf("medicine not found")
	}

	stockists, err := s.repo.Pharmacy.FindStockists(ctx, []uuid.UUID{medicineID})
	if err != nil {
		s.log.Error("Failed to find stockists", zap.Error(err), zap.String("medicine_id", medicineID.String()))
		return nil, fmt.Errorf("failed to find pharmacies")
	}

	pharmacies := rankStockists(stockists, lat, lng)

	return &response.NearbyResponse{
		Medicine:   response.MedicineToResponse(medicine),
		Pharmacies: pharmacies,
		Total:      len(pharmacies),
	}, nil
}

// rankStockists converts stockists to pharmacy responses, nearest first
// when caller coordinates are present.
func rankStockists(stockists []*entity.PharmacyStock, lat, lng *float64) []response.NearbyPharmacyResponse {
	pharmacies := make([]response.NearbyPharmacyResponse, 0, len(stockists))
	for _, stockist := range stockists {
		item := response.NearbyPharmacyResponse{
			PharmacyResponse: response.PharmacyToResponse(stockist.Pharmacy),
			Stock:            response.StockLinesToResponse(stockist.Lines),
		}

		if lat != nil && lng != nil &&
			stockist.Pharmacy.Latitude != nil && stockist.Pharmacy.Longitude != nil {
			distance := geo.Distance(*lat, *lng, *stockist.Pharmacy.Latitude, *stockist.Pharmacy.Longitude)
			item.DistanceKm = &distance
		}

		pharmacies = append(pharmacies, item)
	}

	// Stable sort keeps the storage order for ties and for pharmacies
	// without coordinates, which rank last
	sort.SliceStable(pharmacies, func(i, j int) bool {
		a, b := pharmacies[i].DistanceKm, pharmacies[j].DistanceKm
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})

	return pharmacies
}
