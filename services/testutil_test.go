package services_test

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"restoran-pos/models"
	"restoran-pos/utils"
)

func init() {
	utils.InitLogger()
}

// setupTestDB -> SQLite in-memory per test, satu koneksi supaya akses
// dari banyak goroutine tetap lewat pool yang sama.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.UserStat{},
		&models.Category{},
		&models.Product{},
		&models.Table{},
		&models.TableState{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockMovement{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, trackStock bool, stock, initial int) models.Product {
	t.Helper()
	p := models.Product{
		Name:         name,
		Price:        price,
		TrackStock:   trackStock,
		Stock:        stock,
		InitialStock: initial,
		IsActive:     true,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return p
}

func seedTable(t *testing.T, db *gorm.DB, name string, number int) models.Table {
	t.Helper()
	tbl := models.Table{Name: name, Number: number, IsActive: true}
	if err := db.Create(&tbl).Error; err != nil {
		t.Fatalf("seed table %s: %v", name, err)
	}
	return tbl
}
