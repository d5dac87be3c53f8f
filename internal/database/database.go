package database

import (
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"newznepal/internal/pkg/logger"
)

// Connect opens Postgres for postgres:// URLs and the pure-Go SQLite driver otherwise.
func Connect(dsn string) (*gorm.DB, error) {
	return ConnectWithConfig(dsn, &gorm.Config{})
}

// ConnectSilent is Connect with gorm's SQL logging switched off. Tests use it.
func ConnectSilent(dsn string) (*gorm.DB, error) {
	return ConnectWithConfig(dsn, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
}

// ConnectWithConfig stores timestamps in UTC so SQLite's text comparison of
// time columns stays ordered.
func ConnectWithConfig(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	if cfg.NowFunc == nil {
		cfg.NowFunc = func() time.Time { return time.Now().UTC() }
	}
	if IsPostgres(dsn) {
		logger.Info().Msg("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	logger.Info().Str("dsn", dsn).Msg("using SQLite for local development")

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        withForeignKeys(dsn),
		}),
		cfg,
	)
}

// withForeignKeys turns on FK enforcement for every pooled SQLite connection;
// ad_analytics rows depend on ON DELETE CASCADE.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
