package response

import (
	"time"

	"medroute/internal/data/entity"
)

type MedicineResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ActiveCompound    string    `json:"active_compound"`
	Category          string    `json:"category"`
	Manufacturer      string    `json:"manufacturer,omitempty"`
	Description       string    `json:"description,omitempty"`
	Dosage            string    `json:"dosage,omitempty"`
	SideEffects       []string  `json:"side_effects,omitempty"`
	Contraindications []string  `json:"contraindications,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// SearchResultResponse is one ranked hit of a medicine search: the catalog
// entry plus its verified supplier count.
type SearchResultResponse struct {
	MedicineResponse
	SupplierCount int64 `json:"supplier_count"`
}

// SearchResponse carries the matched medicines plus the pharmacies that
// stock them, with quantity, price and distance where available.
type SearchResponse struct {
	Query      string                   `json:"query"`
	Location   string                   `json:"location,omitempty"`
	Results    []SearchResultResponse   `json:"results"`
	Pharmacies []NearbyPharmacyResponse `json:"pharmacies"`
	Total      int                      `json:"total"`
}

// AlternativeResponse is a substitute medicine sharing the active compound,
// with supplier count and the rounded average price across verified stock.
type AlternativeResponse struct {
	MedicineResponse
	SupplierCount int64 `json:"supplier_count"`
	AvgPrice      int   `json:"avg_price"`
}

type AlternativesResponse struct {
	Compound     string                `json:"compound"`
	Alternatives []AlternativeResponse `json:"alternatives"`
}

type MedicineDetailResponse struct {
	MedicineResponse
	SupplierCount int64                 `json:"supplier_count"`
	Alternatives  []AlternativeResponse `json:"alternatives,omitempty"`
}

// Helper converters
func MedicineToResponse(medicine *entity.Medicine) MedicineResponse {
	return MedicineResponse{
		ID:                medicine.ID.String(),
		Name:              medicine.Name,
		ActiveCompound:    medicine.ActiveCompound,
		Category:          medicine.Category,
		Manufacturer:      medicine.Manufacturer,
		Description:       medicine.Description,
		Dosage:            medicine.Dosage,
		SideEffects:       medicine.SideEffects,
		Contraindications: medicine.Contraindications,
		CreatedAt:         medicine.CreatedAt,
	}
}
