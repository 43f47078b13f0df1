package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB -> buka koneksi database dari environment. Default sqlite file
// lokal (deployment satu mesin di restoran); DB_DRIVER=mysql untuk
// instalasi yang lebih besar.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	dsn := os.Getenv("DB_DSN")

	switch driver {
	case "mysql":
		if dsn == "" {
			return nil, fmt.Errorf("DB_DSN is required for mysql")
		}
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "", "sqlite":
		if dsn == "" {
			dsn = "restaurant.db"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}
}
