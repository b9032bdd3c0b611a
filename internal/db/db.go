package db

import (
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"presentoir-backend/config"
	"presentoir-backend/internal/model"
)

// Models lists every table managed by AutoMigrate.
var Models = []any{
	&model.Organization{},
	&model.Stand{},
	&model.MaintenanceRecord{},
	&model.Publication{},
	&model.PublicationStock{},
	&model.Poster{},
	&model.PosterRequest{},
	&model.HistoryRecord{},
	&model.AlertOpen{},
	&model.AlertHistory{},
	&model.PushSubscription{},
}

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		dialector = postgres.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	zap.L().Info("running database migrations", zap.String("driver", cfg.Driver))
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.Driver != "sqlite" {
		if err := applyPostgresDDL(db); err != nil {
			zap.L().Warn("failed to apply some postgres constraints, continuing without them", zap.Error(err))
		}
	}

	zap.L().Info("database initialization complete")
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return errors.Wrap(err, "automigrate failed")
	}
	return nil
}

// applyPostgresDDL adds the checks gorm tags cannot express. Each statement
// is idempotent.
func applyPostgresDDL(db *gorm.DB) error {
	ddls := []string{
		"ALTER TABLE publication_stocks DROP CONSTRAINT IF EXISTS publication_stocks_quantity_nonneg;",
		"ALTER TABLE publication_stocks ADD CONSTRAINT publication_stocks_quantity_nonneg CHECK (quantity >= 0);",

		"ALTER TABLE publications DROP CONSTRAINT IF EXISTS publications_min_stock_nonneg;",
		"ALTER TABLE publications ADD CONSTRAINT publications_min_stock_nonneg CHECK (min_stock >= 0);",

		// A reservation end, when set, must come after its start.
		"ALTER TABLE stands DROP CONSTRAINT IF EXISTS stands_reservation_window_valid;",
		"ALTER TABLE stands ADD CONSTRAINT stands_reservation_window_valid " +
			"CHECK (reserved_until IS NULL OR reserved_from IS NULL OR reserved_from < reserved_until);",

		"CREATE INDEX IF NOT EXISTS idx_alert_histories_stand_period ON alert_histories (stand_id, period_end DESC);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return errors.Wrapf(err, "DDL failed on %q", ddl)
		}
	}
	return nil
}
