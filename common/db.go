package common

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteParams make writers wait for the lock instead of failing, and take the
// write lock when a transaction begins so a read-then-write cannot deadlock.
var sqliteParams = []string{"_busy_timeout=5000", "_txlock=immediate"}

// gormLogWriter sends gorm's warnings, SQL errors and slow queries to zerolog
// at warn level. zerolog's own Printf logs at debug.
type gormLogWriter struct{}

func (gormLogWriter) Printf(format string, args ...interface{}) {
	log.Warn().Str("component", "gorm").Msgf(format, args...)
}

// ConnectDb opens the database named by dsn. Postgres URLs and key=value DSNs
// go to the postgres driver; anything else is treated as a sqlite file.
func ConnectDb(dsn string) (*gorm.DB, error) {
	dialector, kind := dialectorFor(dsn)
	log.Info().Str("driver", kind).Msg("connecting to database")

	gormLogger := logger.New(
		gormLogWriter{},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", kind, err)
	}

	if kind == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite pool: %w", err)
		}
		// one writer at a time; also keeps ":memory:" on a single database
		sqlDB.SetMaxOpenConns(1)
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("database health check: %w", err)
	}

	log.Info().Str("driver", kind).Msg("database connected")
	return db, nil
}

func dialectorFor(dsn string) (gorm.Dialector, string) {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.HasPrefix(lower, "host=") {
		return postgres.New(postgres.Config{DSN: dsn}), "postgres"
	}
	return sqlite.Open(sqliteDSN(strings.TrimPrefix(dsn, "sqlite://"))), "sqlite"
}

// sqliteDSN appends the locking parameters the caller did not set.
func sqliteDSN(path string) string {
	var missing []string
	for _, param := range sqliteParams {
		key := param[:strings.IndexByte(param, '=')]
		if !strings.Contains(path, key+"=") {
			missing = append(missing, param)
		}
	}
	if len(missing) == 0 {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(missing, "&")
}
