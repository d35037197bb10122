package repository

import (
	"context"
	"fmt"
	"time"

	"medroute/internal/data/entity"
	"medroute/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PharmacyRepository interface {
	Create(ctx context.Context, pharmacy *entity.Pharmacy) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Pharmacy, error)
	FindByEmail(ctx context.Context, email string) (*entity.Pharmacy, error)
	FindByLicense(ctx context.Context, licenseNumber string) (*entity.Pharmacy, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Pharmacy, error)
	CountAll(ctx context.Context) (int64, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
	// AddStock increments the quantity for (pharmacy, medicine) atomically,
	// creating the entry when absent. Price and expiry take the new values.
	AddStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, quantity int, price float64, expiry *time.Time) error
	// SetStock overwrites quantity and price for an existing entry.
	SetStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, quantity int, price float64) error
	// DecrementStock subtracts quantity atomically and fails when the
	// remaining stock would go negative.
	DecrementStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, quantity int) error
	FindInventory(ctx context.Context, pharmacyID uuid.UUID) ([]entity.StockLine, error)
	// FindStockists returns verified pharmacies holding positive stock of
	// any of the given medicines, with the matching lines.
	FindStockists(ctx context.Context, medicineIDs []uuid.UUID) ([]*entity.PharmacyStock, error)
	// CountStockists counts verified pharmacies with positive stock of one medicine.
	CountStockists(ctx context.Context, medicineID uuid.UUID) (int64, error)
	// FindPricesForMedicine lists the prices verified stockists charge for
	// one medicine (positive quantities only; prices as listed).
	FindPricesForMedicine(ctx context.Context, medicineID uuid.UUID) ([]float64, error)
}

type pharmacyRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPharmacyRepository(db database.PgxIface, log *zap.Logger) PharmacyRepository {
	return &pharmacyRepository{
		db:  db,
		log: log,
	}
}

const pharmacyColumns = `id, name, email, password, phone, address, city,
       latitude, longitude, license_number, is_verified,
       delivery_available, delivery_radius_km, created_at, updated_at`

func scanPharmacy(row pgx.Row) (*entity.Pharmacy, error) {
	var p entity.Pharmacy
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.PasswordHash,
		&p.Phone,
		&p.Address,
		&p.City,
		&p.Latitude,
		&p.Longitude,
		&p.LicenseNumber,
		&p.IsVerified,
		&p.DeliveryAvailable,
		&p.DeliveryRadiusKm,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (pr *pharmacyRepository) Create(ctx context.Context, pharmacy *entity.Pharmacy) error {
	query := `
		INSERT INTO pharmacies (id, name, email, password, phone, address, city,
		                        latitude, longitude, license_number, is_verified,
		                        delivery_available, delivery_radius_km,
		                        created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := pr.db.Exec(ctx, query,
		pharmacy.ID,
		pharmacy.Name,
		pharmacy.Email,
		pharmacy.PasswordHash,
		pharmacy.Phone,
		pharmacy.Address,
		pharmacy.City,
		pharmacy.Latitude,
		pharmacy.Longitude,
		pharmacy.LicenseNumber,
		pharmacy.IsVerified,
		pharmacy.DeliveryAvailable,
		pharmacy.DeliveryRadiusKm,
		pharmacy.CreatedAt,
		pharmacy.UpdatedAt,
	)

	if err != nil {
		pr.log.Error("Failed to create pharmacy",
			zap.Error(err),
			zap.String("email", pharmacy.Email),
			zap.String("license", pharmacy.LicenseNumber),
		)
		return fmt.Errorf("create pharmacy %s: %w", pharmacy.Email, err)
	}

	return nil
}

func (pr *pharmacyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Pharmacy, error) {
	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies WHERE id = $1`

	pharmacy, err := scanPharmacy(pr.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		pr.log.Error("Failed to find pharmacy by ID",
			zap.Error(err),
			zap.String("pharmacy_id", id.String()),
		)
		return nil, fmt.Errorf("find pharmacy by ID %s: %w", id.String(), err)
	}

	return pharmacy, nil
}

func (pr *pharmacyRepository) FindByEmail(ctx context.Context, email string) (*entity.Pharmacy, error) {
	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies WHERE email = $1`

	pharmacy, err := scanPharmacy(pr.db.QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		pr.log.Error("Failed to find pharmacy by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find pharmacy by email %s: %w", email, err)
	}

	return pharmacy, nil
}

func (pr *pharmacyRepository) FindByLicense(ctx context.Context, licenseNumber string) (*entity.Pharmacy, error) {
	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies WHERE license_number = $1`

	pharmacy, err := scanPharmacy(pr.db.QueryRow(ctx, query, licenseNumber))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		pr.log.Error("Failed to find pharmacy by license",
			zap.Error(err),
			zap.String("license", licenseNumber),
		)
		return nil, fmt.Errorf("find pharmacy by license %s: %w", licenseNumber, err)
	}

	return pharmacy, nil
}

func (pr *pharmacyRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Pharmacy, error) {
	query := `
		SELECT ` + pharmacyColumns + `
		FROM pharmacies
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := pr.db.Query(ctx, query, limit, offset)
	if err != nil {
		pr.log.Error("Failed to list pharmacies", zap.Error(err))
		return nil, fmt.Errorf("find all pharmacies limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var pharmacies []*entity.Pharmacy
	for rows.Next() {
		pharmacy, err := scanPharmacy(rows)
		if err != nil {
			pr.log.Error("Failed to scan pharmacy row", zap.Error(err))
			return nil, fmt.Errorf("scan pharmacy row: %w", err)
		}
		pharmacies = append(pharmacies, pharmacy)
	}

	if err := rows.Err(); err != nil {
		pr.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate pharmacies rows: %w", err)
	}

	return pharmacies, nil
}

func (pr *pharmacyRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM pharmacies`

	var count int64
	err := pr.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		pr.log.Error("Database error counting pharmacies", zap.Error(err))
		return 0, fmt.Errorf("count all pharmacies: %w", err)
	}

	return count, nil
}

func (pr *pharmacyRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	query := `UPDATE pharmacies SET is_verified = $2, updated_at = NOW() WHERE id = $1`

	result, err := pr.db.Exec(ctx, query, id, verified)
	if err != nil {
		pr.log.Error("Failed to update pharmacy verification",
			zap.Error(err),
			zap.String("pharmacy_id", id.String()),
		)
		return fmt.Errorf("set verified for pharmacy %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pharmacy %s not found", id.String())
	}

	return nil
}

func (pr *pharmacyRepository) AddStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, quantity int, price float64, expiry *time.Time) error {
	// Single statement so concurrent stock additions never lose an update
	query := `
		INSERT INTO inventory (pharmacy_id, medicine_id, quantity, price, expiry_date, last_updated)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (pharmacy_id, medicine_id)
		DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity,
		              price = EXCLUDED.price,
		              expiry_date = EXCLUDED.expiry_date,
		              last_updated = NOW()
	`

	_, err := pr.db.Exec(ctx, query, pharmacyID, medicineID, quantity, price, expiry)
	if err != nil {
		pr.log.Error("Failed to add stock",
			zap.Error(err),
			zap.String("pharmacy_id", pharmacyID.String()),
			zap.String("medicine_id", medicineID.String()),
		)
		return fmt.Errorf("add stock for pharmacy %s medicine %s: %w",
			pharmacyID.String(), medicineID.String(), err)
	}

	return nil
}

func (pr *pharmacyRepository) SetStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, quantity int, price float64) error {
	query := `
		UPDATE inventory
		SET quantity = $3, price = $4, last_updated = NOW()
		WHERE pharmacy_id = $1 AND medicine_id = $2
	`

	result, err := pr.db.Exec(ctx, query, pharmacyID, medicineID, quantity, price)
	if err != nil {
		pr.log.Error("Failed to set stock",
			zap.Error(err),
			zap.String("pharmacy_id", pharmacyID.String()),
			zap.String("medicine_id", medicineID.String()),
		)
		return fmt.Errorf("set stock for pharmacy %s medicine %s: %w",
			pharmacyID.String(), medicineID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("inventory entry not found for pharmacy %s medicine %s",
			pharmacyID.String(), medicineID.String())
	}

	return nil
}

func (pr *pharmacyRepository) DecrementStock(ctx context.Context, pharmacyID, medicineID uuid.UUID, quantity int) error {
	query := `
		UPDATE inventory
		SET quantity = quantity - $3, last_updated = NOW()
		WHERE pharmacy_id = $1 AND medicine_id = $2 AND quantity >= $3
	`

	result, err := pr.db.Exec(ctx, query, pharmacyID, medicineID, quantity)
	if err != nil {
		pr.log.Error("Failed to decrement stock",
			zap.Error(err),
			zap.String("pharmacy_id", pharmacyID.String()),
			zap.String("medicine_id", medicineID.String()),
		)
		return fmt.Errorf("decrement stock for pharmacy %s medicine %s: %w",
			pharmacyID.String(), medicineID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("insufficient stock for medicine %s", medicineID.String())
	}

	return nil
}

func (pr *pharmacyRepository) FindInventory(ctx context.Context, pharmacyID uuid.UUID) ([]entity.StockLine, error) {
	query := `
		SELECT i.medicine_id, m.name, m.active_compound,
		       i.quantity, i.price, i.expiry_date, i.last_updated
		FROM inventory i
		JOIN medicines m ON m.id = i.medicine_id
		WHERE i.pharmacy_id = $1
		ORDER BY m.name ASC
	`

	rows, err := pr.db.Query(ctx, query, pharmacyID)
	if err != nil {
		pr.log.Error("Failed to list inventory",
			zap.Error(err),
			zap.String("pharmacy_id", pharmacyID.String()),
		)
		return nil, fmt.Errorf("find inventory for pharmacy %s: %w", pharmacyID.String(), err)
	}
	defer rows.Close()

	var lines []entity.StockLine
	for rows.Next() {
		var line entity.StockLine
		err := rows.Scan(
			&line.MedicineID,
			&line.MedicineName,
			&line.ActiveCompound,
			&line.Quantity,
			&line.Price,
			&line.ExpiryDate,
			&line.LastUpdated,
		)
		if err != nil {
			pr.log.Error("Failed to scan inventory row", zap.Error(err))
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		pr.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate inventory rows: %w", err)
	}

	return lines, nil
}

func (pr *pharmacyRepository) FindStockists(ctx context.Context, medicineIDs []uuid.UUID) ([]*entity.PharmacyStock, error) {
	query := `
		SELECT ` + prefixedPharmacyColumns + `,
		       i.medicine_id, m.name, m.active_compound,
		       i.quantity, i.price, i.expiry_date, i.last_updated
		FROM pharmacies p
		JOIN inventory i ON i.pharmacy_id = p.id
		JOIN medicines m ON m.id = i.medicine_id
		WHERE p.is_verified = TRUE
		  AND i.quantity > 0
		  AND i.medicine_id = ANY($1)
		ORDER BY p.created_at ASC, m.name ASC
	`

	rows, err := pr.db.Query(ctx, query, medicineIDs)
	if err != nil {
		pr.log.Error("Failed to find stockists", zap.Error(err))
		return nil, fmt.Errorf("find stockists: %w", err)
	}
	defer rows.Close()

	var result []*entity.PharmacyStock
	byID := make(map[uuid.UUID]*entity.PharmacyStock)

	for rows.Next() {
		var p entity.Pharmacy
		var line entity.StockLine
		err := rows.Scan(
			&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.Phone,
			&p.Address, &p.City, &p.Latitude, &p.Longitude,
			&p.LicenseNumber, &p.IsVerified, &p.DeliveryAvailable,
			&p.DeliveryRadiusKm, &p.CreatedAt, &p.UpdatedAt,
			&line.MedicineID, &line.MedicineName, &line.ActiveCompound,
			&line.Quantity, &line.Price, &line.ExpiryDate, &line.LastUpdated,
		)
		if err != nil {
			pr.log.Error("Failed to scan stockist row", zap.Error(err))
			return nil, fmt.Errorf("scan stockist row: %w", err)
		}

		stock, ok := byID[p.ID]
		if !ok {
			pharmacy := p
			stock = &entity.PharmacyStock{Pharmacy: &pharmacy}
			byID[p.ID] = stock
			result = append(result, stock)
		}
		stock.Lines = append(stock.Lines, line)
	}

	if err := rows.Err(); err != nil {
		pr.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate stockist rows: %w", err)
	}

	return result, nil
}

const prefixedPharmacyColumns = `p.id, p.name, p.email, p.password, p.phone,
       p.address, p.city, p.latitude, p.longitude, p.license_number,
       p.is_verified, p.delivery_available, p.delivery_radius_km,
       p.created_at, p.updated_at`

func (pr *pharmacyRepository) CountStockists(ctx context.Context, medicineID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM pharmacies p
		JOIN inventory i ON i.pharmacy_id = p.id
		WHERE p.is_verified = TRUE
		  AND i.medicine_id = $1
		  AND i.quantity > 0
	`

	var count int64
	err := pr.db.QueryRow(ctx, query, medicineID).Scan(&count)
	if err != nil {
		pr.log.Error("Failed to count stockists",
			zap.Error(err),
			zap.String("medicine_id", medicineID.String()),
		)
		return 0, fmt.Errorf("count stockists for medicine %s: %w", medicineID.String(), err)
	}

	return count, nil
}

func (pr *pharmacyRepository) FindPricesForMedicine(ctx context.Context, medicineID uuid.UUID) ([]float64, error) {
	query := `
		SELECT i.price
		FROM pharmacies p
		JOIN inventory i ON i.pharmacy_id = p.id
		WHERE p.is_verified = TRUE
		  AND i.medicine_id = $1
		  AND i.quantity > 0
	`

	rows, err := pr.db.Query(ctx, query, medicineID)
	if err != nil {
		pr.log.Error("Failed to list prices",
			zap.Error(err),
			zap.String("medicine_id", medicineID.String()),
		)
		return nil, fmt.Errorf("find prices for medicine %s: %w", medicineID.String(), err)
	}
	defer rows.Close()

	var prices []float64
	for rows.Next() {
		var price float64
		if err := rows.Scan(&price); err != nil {
			pr.log.Error("Failed to scan price row", zap.Error(err))
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		prices = append(prices, price)
	}

	if err := rows.Err(); err != nil {
		pr.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate price rows: %w", err)
	}

	return prices, nil
}
