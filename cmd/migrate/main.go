package main

import (
	"log"
	"os"

	"creative-flow-be/internal/model"
	"creative-flow-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. Pre-Migration: extensions GORM AutoMigrate doesn't handle
	color.Cyan("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	color.Cyan("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.Plan{},
		&model.Subscription{},
		&model.PaymentEvent{},
		&model.WaitlistEntry{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 5. Seed reference data
	color.Cyan("Step 3: Seeding plans...")
	if err := seedPlans(db); err != nil {
		color.Red("Error: Plan seeding failed: %v", err)
		os.Exit(1)
	}

	color.Green("✅ Success: Database migration completed.")
}

// seedPlans inserts the catalog if missing; existing rows are left alone so
// price edits made through the database survive re-runs.
func seedPlans(db *gorm.DB) error {
	plans := []model.Plan{
		{
			Name:                "Free",
			Slug:                "free",
			Description:         "Get a feel for the studio",
			Price:               0,
			BillingPeriod:       "monthly",
			MaxRequestsPerMonth: 50,
			MaxFileSizeMB:       10,
			SortOrder:           0,
		},
		{
			Name:                   "Pro",
			Slug:                   "pro",
			Description:            "Full creative toolkit for individuals",
			Price:                  19.99,
			TaxRate:                0.11,
			BillingPeriod:          "monthly",
			ImageGenerationEnabled: true,
			VideoGenerationEnabled: true,
			MaxRequestsPerMonth:    2000,
			MaxFileSizeMB:          200,
			SortOrder:              1,
		},
		{
			Name:                   "Enterprise",
			Slug:                   "enterprise",
			Description:            "Teams, priority rendering and Pro Mode",
			Price:                  49.99,
			TaxRate:                0.11,
			BillingPeriod:          "monthly",
			ImageGenerationEnabled: true,
			VideoGenerationEnabled: true,
			ProModeEnabled:         true,
			MaxRequestsPerMonth:    -1,
			MaxFileSizeMB:          1024,
			SortOrder:              2,
		},
	}

	for _, plan := range plans {
		plan.IsActive = true
		result := db.Where("slug = ?", plan.Slug).FirstOrCreate(&plan)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			color.Green("  seeded plan %q", plan.Slug)
		}
	}
	return nil
}
