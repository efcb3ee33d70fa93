package database

import (
	"context"
	"fmt"
	"time"

	"freight-admin/config"
	"freight-admin/logger"
	"freight-admin/models/ledger"
	"freight-admin/models/log"
	"freight-admin/models/shipment"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// InitDB opens the PostgreSQL connection and brings the schema up to date.
func InitDB(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
	if !debug {
		gormCfg.Logger = gormLogger.Default.LogMode(gormLogger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success(fmt.Sprintf("Connected to database %s at %s:%d", cfg.DBName, cfg.Host, cfg.Port))

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs auto migration and creates indexes. Foreign keys come from
// the constraint tags on the model associations.
func Migrate(db *gorm.DB) error {
	if err := AutoMigrate(db); err != nil {
		logger.Error("Failed to run auto migration", err)
		return err
	}
	logger.Success("Auto migration completed successfully")

	if err := createIndexes(db); err != nil {
		logger.Error("Failed to create indexes", err)
		return err
	}
	logger.Success("All indexes created successfully")
	return nil
}

// AutoMigrate creates or alters tables in dependency order.
func AutoMigrate(db *gorm.DB) error {
	stages := [][]interface{}{
		// Stage 1: shipments
		{&shipment.Shipment{}},
		// Stage 2: rows referencing shipments
		{&shipment.TrackingEvent{}, &ledger.LedgerEntry{}},
		// Stage 3: request audit
		{&log.Log{}},
	}

	for _, stage := range stages {
		for _, model := range stage {
			if err := db.AutoMigrate(model); err != nil {
				return fmt.Errorf("failed to migrate %T: %w", model, err)
			}
		}
	}
	return nil
}

// Ping checks that the store answers within ctx.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{"shipment status", "CREATE INDEX IF NOT EXISTS idx_shipments_status ON shipments(status)"},
		{"shipment posted_at", "CREATE INDEX IF NOT EXISTS idx_shipments_posted_at ON shipments(posted_at)"},
		{"tracking event order", "CREATE INDEX IF NOT EXISTS idx_tracking_events_shipment_occurred ON tracking_events(shipment_id, occurred_at, id)"},
		{"ledger posted_date", "CREATE INDEX IF NOT EXISTS idx_ledger_entries_posted_date ON ledger_entries(posted_date)"},
		{"log created_at", "CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)"},
		{"log status_code", "CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)"},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create %s index: %w", idx.name, err)
		}
	}
	return nil
}
