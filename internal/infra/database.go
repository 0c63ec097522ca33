package infra

import (
	"fmt"

	"github.com/arnesssr/nextpms-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express on its own.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies the schema. AutoMigrate covers the tables; the patch
// list handles DDL that AutoMigrate skips on existing databases.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.PriceHistory{},
		&model.SavedCalculation{},
		&model.Discount{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL statements. Each statement uses
// IF NOT EXISTS semantics so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// price_history is append-heavy; the hot query is "changes for one
		// product, newest first".
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'price_histories')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_price_histories_product_created') THEN
		    CREATE INDEX idx_price_histories_product_created
		        ON price_histories (product_id, created_at DESC);
		  END IF;
		END $$`,
		// partial index for the bulk selection query over priced products
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'products')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_products_priced') THEN
		    CREATE INDEX idx_products_priced
		        ON products (category_id)
		        WHERE active AND cost_price IS NOT NULL AND selling_price IS NOT NULL;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
