package repository

import (
	"context"
	"fmt"

	"medroute/internal/data/entity"
	"medroute/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MedicineRepository interface {
	Create(ctx context.Context, medicine *entity.Medicine) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error)
	FindByNameAndCompound(ctx context.Context, name, compound string) (*entity.Medicine, error)
	// Search matches name, active compound, or category by
	// case-insensitive substring; results keep storage order.
	Search(ctx context.Context, query string) ([]*entity.Medicine, error)
	FindByCompound(ctx context.Context, compound string) ([]*entity.Medicine, error)
	CountAll(ctx context.Context) (int64, error)
}

type medicineRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMedicineRepository(db database.PgxIface, log *zap.Logger) MedicineRepository {
	return &medicineRepository{
		db:  db,
		log: log,
	}
}

const medicineColumns = `id, name, active_compound, category, manufacturer,
       description, dosage, side_effects, contraindications,
       created_at, updated_at`

func scanMedicine(row pgx.Row) (*entity.Medicine, error) {
	var m entity.Medicine
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.ActiveCompound,
		&m.Category,
		&m.Manufacturer,
		&m.Description,
		&m.Dosage,
		&m.SideEffects,
		&m.Contraindications,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (mr *medicineRepository) Create(ctx context.Context, medicine *entity.Medicine) error {
	query := `
		INSERT INTO medicines (id, name, active_compound, category, manufacturer,
		                       description, dosage, side_effects, contraindications,
		                       created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := mr.db.Exec(ctx, query,
		medicine.ID,
		medicine.Name,
		medicine.ActiveCompound,
		medicine.Category,
		medicine.Manufacturer,
		medicine.Description,
		medicine.Dosage,
		medicine.SideEffects,
		medicine.Contraindications,
		medicine.CreatedAt,
		medicine.UpdatedAt,
	)

	if err != nil {
		mr.log.Error("Failed to create medicine",
			zap.Error(err),
			zap.String("name", medicine.Name),
		)
		return fmt.Errorf("create medicine %s: %w", medicine.Name, err)
	}

	return nil
}

func (mr *medicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`

	medicine, err := scanMedicine(mr.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		mr.log.Error("Failed to find medicine by ID",
			zap.Error(err),
			zap.String("medicine_id", id.String()),
		)
		return nil, fmt.Errorf("find medicine by ID %s: %w", id.String(), err)
	}

	return medicine, nil
}

func (mr *medicineRepository) FindByNameAndCompound(ctx context.Context, name, compound string) (*entity.Medicine, error) {
	query := `
		SELECT ` + medicineColumns + `
		FROM medicines
		WHERE LOWER(name) = LOWER($1) AND LOWER(active_compound) = LOWER($2)
	`

	medicine, err := scanMedicine(mr.db.QueryRow(ctx, query, name, compound))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		mr.log.Error("Failed to find medicine by name and compound",
			zap.Error(err),
			zap.String("name", name),
			zap.String("compound", compound),
		)
		return nil, fmt.Errorf("find medicine %s (%s): %w", name, compound, err)
	}

	return medicine, nil
}

func (mr *medicineRepository) Search(ctx context.Context, search string) ([]*entity.Medicine, error) {
	query := `
		SELECT ` + medicineColumns + `
		FROM medicines
		WHERE name ILIKE '%' || $1 || '%'
		   OR active_compound ILIKE '%' || $1 || '%'
		   OR category ILIKE '%' || $1 || '%'
		ORDER BY created_at ASC
	`

	return mr.queryMedicines(ctx, query, search)
}

func (mr *medicineRepository) FindByCompound(ctx context.Context, compound string) ([]*entity.Medicine, error) {
	query := `
		SELECT ` + medicineColumns + `
		FROM medicines
		WHERE active_compound ILIKE '%' || $1 || '%'
		ORDER BY created_at ASC
	`

	return mr.queryMedicines(ctx, query, compound)
}

func (mr *medicineRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM medicines`

	var count int64
	err := mr.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		mr.log.Error("Database error counting medicines", zap.Error(err))
		return 0, fmt.Errorf("count all medicines: %w", err)
	}

	return count, nil
}

func (mr *medicineRepository) queryMedicines(ctx context.Context, query string, args ...any) ([]*entity.Medicine, error) {
	rows, err := mr.db.Query(ctx, query, args...)
	if err != nil {
		mr.log.Error("Failed to query medicines", zap.Error(err))
		return nil, fmt.Errorf("query medicines: %w", err)
	}
	defer rows.Close()

	var medicines []*entity.Medicine
	for rows.Next() {
		medicine, err := scanMedicine(rows)
		if err != nil {
			mr.log.Error("Failed to scan medicine row", zap.Error(err))
			return nil, fmt.Errorf("scan medicine row: %w", err)
		}
		medicines = append(medicines, medicine)
	}

	if err := rows.Err(); err != nil {
		mr.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate medicines rows: %w", err)
	}

	return medicines, nil
}
