package db

import (
	"fmt"
	"time"

	"github.com/avelar/pitlane/internal/config"
	"github.com/avelar/pitlane/internal/models"
	"github.com/avelar/pitlane/internal/pipeline"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Organization{},
		&models.Employee{},
		&models.Customer{},
		&models.Vehicle{},
		&models.WorkOrder{},
		&models.OrderImage{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}

// SeedOrganization writes or updates the Organization row from configuration.
func SeedOrganization(db *gorm.DB, cfg *config.Config) error {
	org := models.Organization{
		Slug: cfg.Org.Slug,
		Name: cfg.Org.Name,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&org)
	if result.Error != nil {
		return fmt.Errorf("db: seed organization %q: %w", cfg.Org.Slug, result.Error)
	}
	return nil
}

// SeedEmployees upserts Employee rows from configuration.
func SeedEmployees(db *gorm.DB, cfg *config.Config) error {
	for i, ec := range cfg.Employees {
		emp := models.Employee{
			ID:     fmt.Sprintf("emp-%02d", i+1),
			OrgID:  cfg.Org.Slug,
			Name:   ec.Name,
			Role:   ec.Role,
			Active: true,
		}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "role", "active"}),
		}).Create(&emp)
		if result.Error != nil {
			return fmt.Errorf("db: seed employee %q: %w", ec.Name, result.Error)
		}
	}
	return nil
}

// SeedDemo inserts a small set of customers, vehicles and work orders so a
// fresh install renders a populated board. Existing rows are left alone.
func SeedDemo(db *gorm.DB, orgID string) error {
	var count int64
	if err := db.Model(&models.WorkOrder{}).Where("org_id = ?", orgID).Count(&count).Error; err != nil {
		return fmt.Errorf("db: count orders: %w", err)
	}
	if count > 0 {
		return nil
	}

	customers := []models.Customer{
		{ID: "cus-001", OrgID: orgID, Name: "Maria Lopez", Phone: "555-0147", Email: "maria@example.com"},
		{ID: "cus-002", OrgID: orgID, Name: "Ahmed Haddad", Phone: "555-0230"},
		{ID: "cus-003", OrgID: orgID, Name: "Jon Petrov", Phone: "555-0391"},
	}
	vehicles := []models.Vehicle{
		{ID: "veh-001", OrgID: orgID, CustomerID: "cus-001", Brand: "Honda", Model: "Civic", Year: 2019, LicensePlate: "ABC-123"},
		{ID: "veh-002", OrgID: orgID, CustomerID: "cus-002", Brand: "Toyota", Model: "Hilux", Year: 2021, LicensePlate: "KLM-482"},
		{ID: "veh-003", OrgID: orgID, CustomerID: "cus-003", Brand: "Ford", Model: "Focus", Year: 2016, LicensePlate: "XYZ-907"},
	}

	now := time.Now()
	entry := func(daysAgo int) *time.Time {
		t := now.AddDate(0, 0, -daysAgo)
		return &t
	}
	orders := []models.WorkOrder{
		{ID: "wo-001", OrgID: orgID, Status: pipeline.StageReception, CustomerID: "cus-001", VehicleID: "veh-001",
			Description: "brake pads worn, pedal vibration", EstimatedCost: 180, EntryDate: entry(0)},
		{ID: "wo-002", OrgID: orgID, Status: pipeline.StageDiagnosis, CustomerID: "cus-002", VehicleID: "veh-002",
			Description: "engine warning light", EstimatedCost: 90, EntryDate: entry(1)},
		{ID: "wo-003", OrgID: orgID, Status: pipeline.StageWaitingParts, CustomerID: "cus-003", VehicleID: "veh-003",
			Description: "clutch replacement", EstimatedCost: 640, EntryDate: entry(4)},
		{ID: "wo-004", OrgID: orgID, Status: pipeline.StageTesting, CustomerID: "cus-001", VehicleID: "veh-001",
			Description: "alignment after suspension work", TotalAmount: 120, EntryDate: entry(7)},
		{ID: "wo-005", OrgID: orgID, Status: pipeline.StageCompleted, CustomerID: "cus-002", VehicleID: "veh-002",
			Description: "oil and filter service", TotalAmount: 85, EntryDate: entry(12)},
	}

	for _, c := range customers {
		if err := db.Create(&c).Error; err != nil {
			return fmt.Errorf("db: seed customer %s: %w", c.ID, err)
		}
	}
	for _, v := range vehicles {
		if err := db.Create(&v).Error; err != nil {
			return fmt.Errorf("db: seed vehicle %s: %w", v.ID, err)
		}
	}
	for _, o := range orders {
		if err := db.Create(&o).Error; err != nil {
			return fmt.Errorf("db: seed order %s: %w", o.ID, err)
		}
	}
	return nil
}
