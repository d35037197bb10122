package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"medroute/internal/data/entity"

	"github.com/google/uuid"
)

// memoryStore backs the in-memory driver. Slices keep storage order, which
// the search contract relies on for tie-breaking; the single RWMutex is
// enough for a fixture store.
type memoryStore struct {
	mu             sync.RWMutex
	users          []entity.User
	recentSearches []entity.RecentSearch
	medicines      []entity.Medicine
	pharmacies     []entity.Pharmacy
	inventory      []entity.InventoryEntry
	orders         []entity.Order
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ==================== USERS ====================

type memoryUserRepository struct {
	store *memoryStore
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.store.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("create user %s: duplicate email", user.Email)
		}
	}

	r.store.users = append(r.store.users, *user)
	return nil
}

func (r *memoryUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.users {
		if r.store.users[i].ID == id {
			user := r.store.users[i]
			return &user, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.users {
		if strings.EqualFold(r.store.users[i].Email, email) {
			user := r.store.users[i]
			return &user, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sorted := make([]entity.User, len(r.store.users))
	copy(sorted, r.store.users)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	var users []*entity.User
	for i := offset; i < len(sorted) && i < offset+limit; i++ {
		user := sorted[i]
		users = append(users, &user)
	}
	return users, nil
}

func (r *memoryUserRepository) CountAll(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return int64(len(r.store.users)), nil
}

func (r *memoryUserRepository) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.users {
		if r.store.users[i].ID == user.ID {
			r.store.users[i] = *user
			return nil
		}
	}
	return fmt.Errorf("user %s not found", user.ID.String())
}

func (r *memoryUserRepository) AddRecentSearch(ctx context.Context, search *entity.RecentSearch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.recentSearches = append(r.store.recentSearches, *search)
	return nil
}

func (r *memoryUserRepository) FindRecentSearches(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.RecentSearch, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var searches []*entity.RecentSearch
	for i := len(r.store.recentSearches) - 1; i >= 0 && len(searches) < limit; i-- {
		if r.store.recentSearches[i].UserID == userID {
			search := r.store.recentSearches[i]
			searches = append(searches, &search)
		}
	}
	return searches, nil
}

// ==================== MEDICINES ====================

type memoryMedicineRepository struct {
	store *memoryStore
}

func (r *memoryMedicineRepository) Create(ctx context.Context, medicine *entity.Medicine) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.medicines = append(r.store.medicines, *medicine)
	return nil
}

func (r *memoryMedicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.medicines {
		if r.store.medicines[i].ID == id {
			medicine := r.store.medicines[i]
			return &medicine, nil
		}
	}
	return nil, nil
}

func (r *memoryMedicineRepository) FindByNameAndCompound(ctx context.Context, name, compound string) (*entity.Medicine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.medicines {
		m := &r.store.medicines[i]
		if strings.EqualFold(m.Name, name) && strings.EqualFold(m.ActiveCompound, compound) {
			medicine := *m
			return &medicine, nil
		}
	}
	return nil, nil
}

func (r *memoryMedicineRepository) Search(ctx context.Context, query string) ([]*entity.Medicine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var medicines []*entity.Medicine
	for i := range r.store.medicines {
		m := r.store.medicines[i]
		if containsFold(m.Name, query) ||
			containsFold(m.ActiveCompound, query) ||
			containsFold(m.Category, query) {
			medicine := m
			medicines = append(medicines, &medicine)
		}
	}
	return medicines, nil
}

func (r *memoryMedicineRepository) FindByCompound(ctx context.Context, compound string) ([]*entity.Medicine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var medicines []*entity.Medicine
	for i := range r.store.medicines {
		if containsFold(r.store.medicines[i].ActiveCompound, compound) {
			medicine := r.store.medicines[i]
			medicines = append(medicines, &medicine)
		}
	}
	return medicines, nil
}

func (r *memoryMedicineRepository) CountAll(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return int64(len(r.store.medicines)), nil
}

// ==================== PHARMACIES ====================

type memoryPharmacyRepository struct {
	store *memoryStore
}

func (r *memoryPharmacyRepository) Create(ctx context.Context, pharmacy *entity.Pharmacy) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, p := range r.store.pharmacies {
		if strings.EqualFold(p.Email, pharmacy.Email) {
			return fmt.Errorf("create pharmacy %s: duplicate email", pharmacy.Email)
		}
		if p.LicenseNumber == pharmacy.LicenseNumber {
			return fmt.Errorf("create pharmacy %s: duplicate license number", pharmacy.Email)
		}
	}

	r.store.pharmacies = append(r.store.pharmacies, *pharmacy)
	return nil
}

func (r *memoryPharmacyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Pharmacy, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.findByIDLocked(id), nil
}

func (r *memoryPharmacyRepository) findByIDLocked(id uuid.UUID) *entity.Pharmacy {
	for i := range r.store.pharmacies {
		if r.store.pharmacies[i].ID == id {
			pharmacy := r.store.pharmacies[i]
			return &pharmacy
		}
	}
	return nil
}

func (r *memoryPharmacyRepository) FindByEmail(ctx context.Context, email string) (*entity.Pharmacy, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.pharmacies {
		if strings.EqualFold(r.store.pharmacies[i].Email, email) {
			pharmacy := r.store.pharmacies[i]
			return &pharmacy, nil
		}
	}
	return nil, nil
}

func (r *memoryPharmacyRepository) FindByLicense(ctx context.Context, licenseNumber string) (*entity.Pharmacy, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.pharmacies {
		if r.store.pharmacies[i].LicenseNumber == licenseNumber {
			pharmacy := r.store.pharmacies[i]
			return &pharmacy, nil
		}
	}
	return nil, nil
}

func (r *memoryPharmacyRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Pharmacy, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sorted := make([]entity.Pharmacy, len(r.store.pharmacies))
	copy(sorted, r.store.pharmacies)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	var pharmacies []*entity.Pharmacy
	for i := offset; i < len(sorted) && i < offset+limit; i++ {
		pharmacy := sorted[i]
		pharmacies = append(pharmacies, &pharmacy)
	}
	return pharmacies, nil
}

func (r *memoryPharmacyRepository) CountAll(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return int64(len(r.store.pharmacies)), nil
}

func (r *memoryPharmacyRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.pharmacies {
		if r.store.pharmacies[i].ID == id {
			r.store.pharmacies[i].IsVerified = verified
			r.store.pharmacies[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("pharmacy %s not found", id.String())
}

func (r *memoryPharmacyRepository) AddStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, quantity int, price float64, expiry *time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.inventory {
		entry := &r.store.inventory[i]
		if entry.PharmacyID == pharmacyID && entry.MedicineID == medicineID {
			entry.Quantity += quantity
			entry.Price = price
			entry.ExpiryDate = expiry
			entry.LastUpdated = time.Now()
			return nil
		}
	}

	r.store.inventory = append(r.store.inventory, entity.InventoryEntry{
		PharmacyID:  pharmacyID,
		MedicineID:  medicineID,
		Quantity:    quantity,
		Price:       price,
		ExpiryDate:  expiry,
		LastUpdated: time.Now(),
	})
	return nil
}

func (r *memoryPharmacyRepository) SetStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, quantity int, price float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.inventory {
		entry := &r.store.inventory[i]
		if entry.PharmacyID == pharmacyID && entry.MedicineID == medicineID {
			entry.Quantity = quantity
			entry.Price = price
			entry.LastUpdated = time.Now()
			return nil
		}
	}
	return fmt.Errorf("inventory entry not found for pharmacy %s medicine %s",
		pharmacyID.String(), medicineID.String())
}

func (r *memoryPharmacyRepository) DecrementStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, quantity int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.inventory {
		entry := &r.store.inventory[i]
		if entry.PharmacyID == pharmacyID && entry.MedicineID == medicineID {
			if entry.Quantity < quantity {
				return fmt.Errorf("insufficient stock for medicine %s", medicineID.String())
			}
			entry.Quantity -= quantity
			entry.LastUpdated = time.Now()
			return nil
		}
	}
	return fmt.Errorf("insufficient stock for medicine %s", medicineID.String())
}

func (r *memoryPharmacyRepository) FindInventory(ctx context.Context, pharmacyID uuid.UUID) ([]entity.StockLine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var lines []entity.StockLine
	for _, entry := range r.store.inventory {
		if entry.PharmacyID != pharmacyID {
			continue
		}
		lines = append(lines, r.stockLineLocked(entry))
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].MedicineName < lines[j].MedicineName
	})
	return lines, nil
}

func (r *memoryPharmacyRepository) stockLineLocked(entry entity.InventoryEntry) entity.StockLine {
	line := entity.StockLine{
		MedicineID:  entry.MedicineID,
		Quantity:    entry.Quantity,
		Price:       entry.Price,
		ExpiryDate:  entry.ExpiryDate,
		LastUpdated: entry.LastUpdated,
	}
	for i := range r.store.medicines {
		if r.store.medicines[i].ID == entry.MedicineID {
			line.MedicineName = r.store.medicines[i].Name
			line.ActiveCompound = r.store.medicines[i].ActiveCompound
			break
		}
	}
	return line
}

func (r *memoryPharmacyRepository) FindStockists(ctx context.Context, medicineIDs []uuid.UUID) ([]*entity.PharmacyStock, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	wanted := make(map[uuid.UUID]bool, len(medicineIDs))
	for _, id := range medicineIDs {
		wanted[id] = true
	}

	var result []*entity.PharmacyStock
	for i := range r.store.pharmacies {
		pharmacy := r.store.pharmacies[i]
		if !pharmacy.IsVerified {
			continue
		}

		var lines []entity.StockLine
		for _, entry := range r.store.inventory {
			if entry.PharmacyID != pharmacy.ID || entry.Quantity <= 0 || !wanted[entry.MedicineID] {
				continue
			}
			lines = append(lines, r.stockLineLocked(entry))
		}
		if len(lines) == 0 {
			continue
		}

		result = append(result, &entity.PharmacyStock{
			Pharmacy: &pharmacy,
			Lines:    lines,
		})
	}
	return result, nil
}

func (r *memoryPharmacyRepository) CountStockists(ctx context.Context, medicineID uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, entry := range r.store.inventory {
		if entry.MedicineID != medicineID || entry.Quantity <= 0 {
			continue
		}
		if p := r.findByIDLocked(entry.PharmacyID); p != nil && p.IsVerified {
			count++
		}
	}
	return count, nil
}

func (r *memoryPharmacyRepository) FindPricesForMedicine(ctx context.Context, medicineID uuid.UUID) ([]float64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var prices []float64
	for _, entry := range r.store.inventory {
		if entry.MedicineID != medicineID || entry.Quantity <= 0 {
			continue
		}
		if p := r.findByIDLocked(entry.PharmacyID); p != nil && p.IsVerified {
			prices = append(prices, entry.Price)
		}
	}
	return prices, nil
}

// ==================== ORDERS ====================

type memoryOrderRepository struct {
	store *memoryStore
}

func (r *memoryOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, o := range r.store.orders {
		if o.TrackingCode == order.TrackingCode {
			return fmt.Errorf("insert order %s: duplicate tracking code", order.ID.String())
		}
	}

	stored := *order
	stored.Items = make([]entity.OrderItem, len(order.Items))
	copy(stored.Items, order.Items)

	r.store.orders = append(r.store.orders, stored)
	return nil
}

func (r *memoryOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.orders {
		if r.store.orders[i].ID == id {
			return copyOrder(&r.store.orders[i]), nil
		}
	}
	return nil, nil
}

func (r *memoryOrderRepository) FindByTrackingCode(ctx context.Context, trackingCode string) (*entity.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.orders {
		if r.store.orders[i].TrackingCode == trackingCode {
			return copyOrder(&r.store.orders[i]), nil
		}
	}
	return nil, nil
}

func (r *memoryOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var orders []*entity.Order
	for i := range r.store.orders {
		if r.store.orders[i].UserID == userID {
			orders = append(orders, copyOrder(&r.store.orders[i]))
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *memoryOrderRepository) FindByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]*entity.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var orders []*entity.Order
	for i := range r.store.orders {
		for _, item := range r.store.orders[i].Items {
			if item.PharmacyID == pharmacyID {
				orders = append(orders, copyOrder(&r.store.orders[i]))
				break
			}
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *memoryOrderRepository) UpdateStatus(ctx context.Context, order *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i := range r.store.orders {
		if r.store.orders[i].ID == order.ID {
			r.store.orders[i].Status = order.Status
			r.store.orders[i].PaymentStatus = order.PaymentStatus
			r.store.orders[i].Partner = order.Partner
			r.store.orders[i].ActualDelivery = order.ActualDelivery
			r.store.orders[i].UpdatedAt = order.UpdatedAt
			return nil
		}
	}
	return fmt.Errorf("order %s not found", order.ID.String())
}

func (r *memoryOrderRepository) CountAll(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return int64(len(r.store.orders)), nil
}

func (r *memoryOrderRepository) SumRevenueSince(ctx context.Context, since time.Time) (float64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var total float64
	for i := range r.store.orders {
		o := &r.store.orders[i]
		if o.Status != entity.OrderStatusCancelled && !o.CreatedAt.Before(since) {
			total += o.Total
		}
	}
	return total, nil
}

func copyOrder(src *entity.Order) *entity.Order {
	order := *src
	order.Items = make([]entity.OrderItem, len(src.Items))
	copy(order.Items, src.Items)
	if src.Partner != nil {
		partner := *src.Partner
		order.Partner = &partner
	}
	return &order
}
