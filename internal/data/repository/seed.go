package repository

import (
	"context"
	"fmt"
	"time"

	"medroute/internal/data/entity"
	"medroute/pkg/utils"
)

// SeedDemo loads a small demo dataset. Used with the memory driver so the
// API is explorable without a database: one admin, two verified pharmacies
// around Connaught Place and a handful of stocked medicines.
func SeedDemo(ctx context.Context, repo *Repository) error {
	now := time.Now()

	adminPassword, err := utils.HashPassword("admin123")
	if err != nil {
		return fmt.Errorf("seed admin password: %w", err)
	}
	admin := &entity.User{
		Base:         entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
		Name:         "MedRoute Admin",
		Email:        "admin@medroute.in",
		PasswordHash: adminPassword,
		Role:         entity.RoleAdmin,
		IsVerified:   true,
	}
	if err := repo.User.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	pharmacyPassword, err := utils.HashPassword("pharmacy123")
	if err != nil {
		return fmt.Errorf("seed pharmacy password: %w", err)
	}

	mkCoord := func(v float64) *float64 { return &v }

	pharmacies := []*entity.Pharmacy{
		{
			Base:              entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			Name:              "Apollo Pharmacy CP",
			Email:             "apollo.cp@medroute.in",
			PasswordHash:      pharmacyPassword,
			Phone:             "9810000001",
			Address:           "Block A, Connaught Place",
			City:              "New Delhi",
			Latitude:          mkCoord(28.6315),
			Longitude:         mkCoord(77.2167),
			LicenseNumber:     "DL-PHARM-001",
			IsVerified:        true,
			DeliveryAvailable: true,
			DeliveryRadiusKm:  8,
		},
		{
			Base:              entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			Name:              "MedPlus Karol Bagh",
			Email:             "medplus.kb@medroute.in",
			PasswordHash:      pharmacyPassword,
			Phone:             "9810000002",
			Address:           "Ajmal Khan Road, Karol Bagh",
			City:              "New Delhi",
			Latitude:          mkCoord(28.6519),
			Longitude:         mkCoord(77.1909),
			LicenseNumber:     "DL-PHARM-002",
			IsVerified:        true,
			DeliveryAvailable: true,
			DeliveryRadiusKm:  5,
		},
	}
	for _, pharmacy := range pharmacies {
		if err := repo.Pharmacy.Create(ctx, pharmacy); err != nil {
			return fmt.Errorf("seed pharmacy %s: %w", pharmacy.Name, err)
		}
	}

	medicines := []*entity.Medicine{
		{
			Base:           entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			Name:           "Crocin 650",
			ActiveCompound: "Paracetamol",
			Category:       "Pain Relief",
			Manufacturer:   "GSK",
			Dosage:         "650mg",
			SideEffects:    []string{"Nausea", "Rash"},
		},
		{
			Base:           entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			Name:           "Dolo 650",
			ActiveCompound: "Paracetamol",
			Category:       "Pain Relief",
			Manufacturer:   "Micro Labs",
			Dosage:         "650mg",
		},
		{
			Base:              entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			Name:              "Azithral 500",
			ActiveCompound:    "Azithromycin",
			Category:          "Antibiotic",
			Manufacturer:      "Alembic",
			Dosage:            "500mg",
			Contraindications: []string{"Liver disease"},
		},
		{
			Base:           entity.Base{ID: utils.GenerateUUID(), CreatedAt: now, UpdatedAt: now},
			Name:           "Lantus SoloStar",
			ActiveCompound: "Insulin Glargine",
			Category:       "Diabetes",
			Manufacturer:   "Sanofi",
			Dosage:         "100IU/ml",
		},
	}
	for _, medicine := range medicines {
		if err := repo.Medicine.Create(ctx, medicine); err != nil {
			return fmt.Errorf("seed medicine %s: %w", medicine.Name, err)
		}
	}

	stock := []struct {
		pharmacy int
		medicine int
		quantity int
		price    float64
	}{
		{0, 0, 120, 32},
		{0, 1, 80, 30},
		{0, 2, 40, 118},
		{1, 0, 60, 30},
		{1, 3, 15, 680},
	}
	for _, line := range stock {
		err := repo.Pharmacy.AddStock(ctx,
			pharmacies[line.pharmacy].ID, medicines[line.medicine].ID,
			line.quantity, line.price, nil)
		if err != nil {
			return fmt.Errorf("seed stock: %w", err)
		}
	}

	return nil
}
