package request

type RegisterPharmacyRequest struct {
	Name              string   `json:"name" validate:"required,min=2,max=150"`
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=6"`
	Phone             string   `json:"phone" validate:"required,min=10,max=15"`
	Address           string   `json:"address" validate:"required,max=255"`
	City              string   `json:"city" validate:"required,max=100"`
	Latitude          *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude         *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	LicenseNumber     string   `json:"license_number" validate:"required,min=5,max=50"`
	DeliveryAvailable bool     `json:"delivery_available"`
	DeliveryRadiusKm  float64  `json:"delivery_radius_km" validate:"omitempty,gt=0,lte=50"`
}

// AddStockRequest carries the medicine catalog fields alongside the stock
// line; an unknown (name, active compound) pair creates the catalog entry.
type AddStockRequest struct {
	MedicineName      string   `json:"medicine_name" validate:"required,min=2,max=150"`
	ActiveCompound    string   `json:"active_compound" validate:"required,min=2,max=150"`
	Category          string   `json:"category" validate:"required,max=100"`
	Manufacturer      string   `json:"manufacturer" validate:"omitempty,max=150"`
	Description       string   `json:"description" validate:"omitempty,max=1000"`
	Dosage            string   `json:"dosage" validate:"omitempty,max=100"`
	SideEffects       []string `json:"side_effects,omitempty"`
	Contraindications []string `json:"contraindications,omitempty"`
	Quantity          int      `json:"quantity" validate:"required,gt=0"`
	Price             float64  `json:"price" validate:"required,gt=0"`
	ExpiryDate        *string  `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateStockRequest struct {
	Quantity *int     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}
