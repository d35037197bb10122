package entity

import (
	"time"

	"github.com/google/uuid"
)

type Pharmacy struct {
	Base
	Name              string   `db:"name"`
	Email             string   `db:"email"`
	PasswordHash      string   `db:"password"`
	Phone             string   `db:"phone"`
	Address           string   `db:"address"`
	City              string   `db:"city"`
	Latitude          *float64 `db:"latitude"`
	Longitude         *float64 `db:"longitude"`
	LicenseNumber     string   `db:"license_number"`
	IsVerified        bool     `db:"is_verified"`
	DeliveryAvailable bool     `db:"delivery_available"`
	DeliveryRadiusKm  float64  `db:"delivery_radius_km"`
}

// InventoryEntry is a pharmacy's stock record for one medicine.
// Quantity is never negative.
type InventoryEntry struct {
	PharmacyID  uuid.UUID  `db:"pharmacy_id"`
	MedicineID  uuid.UUID  `db:"medicine_id"`
	Quantity    int        `db:"quantity"`
	Price       float64    `db:"price"`
	ExpiryDate  *time.Time `db:"expiry_date"`
	LastUpdated time.Time  `db:"last_updated"`
}

// StockLine is an inventory entry joined with its medicine, the shape the
// dashboards and the stock join work with.
type StockLine struct {
	MedicineID     uuid.UUID
	MedicineName   string
	ActiveCompound string
	Quantity       int
	Price          float64
	ExpiryDate     *time.Time
	LastUpdated    time.Time
}

// PharmacyStock is a pharmacy together with the stock lines that matched a
// search; only verified pharmacies with positive quantities qualify.
type PharmacyStock struct {
	Pharmacy *Pharmacy
	Lines    []StockLine
}
