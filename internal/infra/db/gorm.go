package db

import (
	"fmt"
	"strings"

	"github.com/FariidCabrera/marketplace-itpuebla1/internal/config"
	"github.com/FariidCabrera/marketplace-itpuebla1/internal/domain/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		// 一意制約違反を gorm.ErrDuplicatedKey に変換
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	switch cfg.DBDriver {
	case "sqlite":
		return openSQLite(cfg.SQLitePath, gcfg)
	case "postgres":
		return gorm.Open(postgres.Open(postgresDSN(cfg)), gcfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// SQLiteの書き込みは同時に1本だけ。
// 接続を1本にして、注文トランザクション中の他のリクエストは待たせる（database is locked にしない）。
func openSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(sqliteDSN(path)), gcfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return gdb, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "busy_timeout") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(" + sqliteBusyTimeoutMS + ")"
}

const sqliteBusyTimeoutMS = "5000"

// DATABASE_URL があれば最優先で使う
func postgresDSN(cfg config.Config) string {
	if cfg.DatabaseURL != "" {
		return cfg.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresSSLMode,
	)
}

// users / products / orders / order_items
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	)
}
