package repository

import (
	"medroute/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Medicine MedicineRepository
	Pharmacy PharmacyRepository
	Order    OrderRepository
}

// NewRepository wires the postgres-backed repositories.
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		Medicine: NewMedicineRepository(db, log),
		Pharmacy: NewPharmacyRepository(db, log),
		Order:    NewOrderRepository(db, log),
	}
}

// NewMemoryRepository wires the in-memory driver over one shared store.
// Selected with STORE_DRIVER=memory; used for demos and tests.
func NewMemoryRepository() *Repository {
	store := newMemoryStore()
	return &Repository{
		User:     &memoryUserRepository{store: store},
		Medicine: &memoryMedicineRepository{store: store},
		Pharmacy: &memoryPharmacyRepository{store: store},
		Order:    &memoryOrderRepository{store: store},
	}
}
