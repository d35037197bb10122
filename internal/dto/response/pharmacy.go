package response

import (
	"time"

	"medroute/internal/data/entity"
)

type PharmacyResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	Latitude          *float64  `json:"latitude,omitempty"`
	Longitude         *float64  `json:"longitude,omitempty"`
	LicenseNumber     string    `json:"license_number"`
	IsVerified        bool      `json:"is_verified"`
	DeliveryAvailable bool      `json:"delivery_available"`
	DeliveryRadiusKm  float64   `json:"delivery_radius_km"`
	CreatedAt         time.Time `json:"created_at"`
}

type StockLineResponse struct {
	MedicineID     string     `json:"medicine_id"`
	MedicineName   string     `json:"medicine_name"`
	ActiveCompound string     `json:"active_compound"`
	Quantity       int        `json:"quantity"`
	Price          float64    `json:"price"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	LastUpdated    time.Time  `json:"last_updated"`
}

// NearbyPharmacyResponse is a verified stockist ranked by distance from the
// caller. DistanceKm is omitted when the caller sent no coordinates.
type NearbyPharmacyResponse struct {
	PharmacyResponse
	DistanceKm *float64            `json:"distance_km,omitempty"`
	Stock      []StockLineResponse `json:"stock"`
}

type NearbyResponse struct {
	Medicine   MedicineResponse         `json:"medicine"`
	Pharmacies []NearbyPharmacyResponse `json:"pharmacies"`
	Total      int                      `json:"total"`
}

type PharmacyDashboardResponse struct {
	Pharmacy      PharmacyResponse    `json:"pharmacy"`
	Inventory     []StockLineResponse `json:"inventory"`
	Orders        []OrderResponse     `json:"orders"`
	TotalStock    int                 `json:"total_stock"`
	LowStockCount int                 `json:"low_stock_count"`
}

// Helper converters
func PharmacyToResponse(pharmacy *entity.Pharmacy) PharmacyResponse {
	return PharmacyResponse{
		ID:                pharmacy.ID.String(),
		Name:              pharmacy.Name,
		Email:             pharmacy.Email,
		Phone:             pharmacy.Phone,
		Address:           pharmacy.Address,
		City:              pharmacy.City,
		Latitude:          pharmacy.Latitude,
		Longitude:         pharmacy.Longitude,
		LicenseNumber:     pharmacy.LicenseNumber,
		IsVerified:        pharmacy.IsVerified,
		DeliveryAvailable: pharmacy.DeliveryAvailable,
		DeliveryRadiusKm:  pharmacy.DeliveryRadiusKm,
		CreatedAt:         pharmacy.CreatedAt,
	}
}

func StockLineToResponse(line entity.StockLine) StockLineResponse {
	return StockLineResponse{
		MedicineID:     line.MedicineID.String(),
		MedicineName:   line.MedicineName,
		ActiveCompound: line.ActiveCompound,
		Quantity:       line.Quantity,
		Price:          line.Price,
		ExpiryDate:     line.ExpiryDate,
		LastUpdated:    line.LastUpdated,
	}
}

func StockLinesToResponse(lines []entity.StockLine) []StockLineResponse {
	responses := make([]StockLineResponse, 0, len(lines))
	for _, line := range lines {
		responses = append(responses, StockLineToResponse(line))
	}
	return responses
}
