package db

import (
	"time"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewGorm layers the ORM over an already pooled and pinged MySQL connection,
// so sqlx (migrations, seeding) and gorm (customer store) share one pool.
func NewGorm(conn *sqlx.DB, level string) (*gorm.DB, error) {
	return gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn.DB,
		SkipInitializeWithVersion: true,
	}), GormConfig(level))
}

// GormConfig is shared by the MySQL store and the in-memory stores used in tests.
func GormConfig(level string) *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLevel(level)),
		// DATETIME(6) keeps microseconds; match it so responses equal stored rows.
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
		SkipDefaultTransaction: true,
	}
}

func gormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
