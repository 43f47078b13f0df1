package services_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"restoran-pos/models"
	"restoran-pos/services"
)

func TestReserveDecrementsStockAndAppendsMovement(t *testing.T) {
	db := setupTestDB(t)
	inv := services.NewInventoryService(db, nil)
	p := seedProduct(t, db, "Çorba", 45.0, true, 20, 20)

	err := inv.Reserve(p.ID, 3, "Order #1 - Masa 5")
	assert.NoError(t, err)

	var after models.Product
	assert.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, 17, after.Stock)

	var movements []models.StockMovement
	assert.NoError(t, db.Where("product_id = ?", p.ID).Find(&movements).Error)
	assert.Len(t, movements, 1)
	assert.Equal(t, -3, movements[0].Quantity)
	assert.Equal(t, models.MovementSale, movements[0].MovementType)
	assert.Equal(t, "Order #1 - Masa 5", movements[0].Description)
}

func TestReserveInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	inv := services.NewInventoryService(db, nil)
	p := seedProduct(t, db, "Kebap", 120.0, true, 2, 10)

	err := inv.Reserve(p.ID, 5, "Order #1")
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	// Stok tidak berubah dan tidak ada movement yang tercatat.
	var after models.Product
	assert.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, 2, after.Stock)

	var count int64
	db.Model(&models.StockMovement{}).Where("product_id = ?", p.ID).Count(&count)
	assert.Zero(t, count)
}

func TestReserveNonTrackedProductNeverTouchesStock(t *testing.T) {
	db := setupTestDB(t)
	inv := services.NewInventoryService(db, nil)
	p := seedProduct(t, db, "Çay", 15.0, false, 0, 0)

	// Selalu sukses walau stok tersimpan nol.
	assert.NoError(t, inv.Reserve(p.ID, 10, "Order #1"))

	var after models.Product
	assert.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, 0, after.Stock)

	var count int64
	db.Model(&models.StockMovement{}).Where("product_id = ?", p.ID).Count(&count)
	assert.Zero(t, count)
}

func TestReserveUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	inv := services.NewInventoryService(db, nil)

	err := inv.Reserve(999, 1, "Order #1")
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

// Reservasi bersamaan atas N unit terakhir: tepat N yang sukses, sisanya
// insufficient stock, dan stok tidak pernah minus.
func TestConcurrentReservationNeverOversells(t *testing.T) {
	db := setupTestDB(t)
	inv := services.NewInventoryService(db, nil)
	p := seedProduct(t, db, "Baklava", 80.0, true, 5, 5)

	const callers = 12
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- inv.Reserve(p.ID, 1, "concurrent order")
		}()
	}
	wg.Wait()
	close(results)

	succeeded, failed := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, services.ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, callers-5, failed)

	var after models.Product
	assert.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, 0, after.Stock)

	// Tepat lima movement sale senilai total 5 unit.
	var movements []models.StockMovement
	assert.NoError(t, db.Where("product_id = ? AND movement_type = ?", p.ID, models.MovementSale).Find(&movements).Error)
	total := 0
	for _, m := range movements {
		total += -m.Quantity
	}
	assert.Equal(t, 5, total)
}

func TestReleaseRestoresStockWithCancelMovement(t *testing.T) {
	db := setupTestDB(t)
	inv := services.NewInventoryService(db, nil)
	p := seedProduct(t, db, "Pide", 95.0, true, 10, 10)

	assert.NoError(t, inv.Reserve(p.ID, 4, "Order #7"))
	assert.NoError(t, inv.Release(p.ID, 4, "Order #7 iptal"))

	var after models.Product
	assert.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, 10, after.Stock)

	var movements []models.StockMovement
	assert.NoError(t, db.Where("product_id = ?", p.ID).Order("id asc").Find(&movements).Error)
	assert.Len(t, movements, 2)
	assert.Equal(t, models.MovementSale, movements[0].MovementType)
	assert.Equal(t, models.MovementCancel, movements[1].MovementType)
	assert.Equal(t, 4, movements[1].Quantity)
}

func TestAdjustAppliesRawDeltaAndClampsOnRead(t *testing.T) {
	db := setupTestDB(t)
	inv := services.NewInventoryService(db, nil)
	p := seedProduct(t, db, "Ayran", 20.0, true, 3, 0)

	// Delta mentah boleh membawa nilai tersimpan ke minus...
	assert.NoError(t, inv.Adjust(p.ID, -5, models.MovementCorrection, "sayım düzeltmesi"))

	var after models.Product
	assert.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, -2, after.Stock)
	// ...tapi pembacaan di-clamp ke nol.
	assert.Equal(t, 0, after.StockOnHand())

	assert.NoError(t, inv.Adjust(p.ID, 12, models.MovementStockIn, "mal kabul"))
	assert.NoError(t, db.First(&after, p.ID).Error)
	assert.Equal(t, 10, after.Stock)

	var count int64
	db.Model(&models.StockMovement{}).Where("product_id = ?", p.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestAdjustRejectsUnknownMovementType(t *testing.T) {
	db := setupTestDB(t)
	inv := services.NewInventoryService(db, nil)
	p := seedProduct(t, db, "Su", 10.0, true, 5, 5)

	err := inv.Adjust(p.ID, 1, "teleport", "")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, services.ErrProductNotFound))
}

func TestCriticalProducts(t *testing.T) {
	db := setupTestDB(t)
	inv := services.NewInventoryService(db, nil)

	// 20% dari baseline 50 adalah 10: stok 10 kritis, stok 11 tidak.
	critical := seedProduct(t, db, "Kritik", 10, true, 10, 50)
	seedProduct(t, db, "Sağlıklı", 10, true, 11, 50)
	// Tanpa baseline: ambang absolut 10 unit.
	floor := seedProduct(t, db, "Tabansız", 10, true, 9, 0)
	seedProduct(t, db, "Tabansız Bol", 10, true, 11, 0)
	// Produk tanpa track stock tidak pernah dilaporkan.
	seedProduct(t, db, "Takipsiz", 10, false, 0, 0)

	got, err := inv.CriticalProducts()
	assert.NoError(t, err)

	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{critical.Name, floor.Name}, names)
}

func TestMovementsReturnsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	inv := services.NewInventoryService(db, nil)
	p := seedProduct(t, db, "Künefe", 70, true, 30, 30)

	assert.NoError(t, inv.Adjust(p.ID, 10, models.MovementStockIn, "ilk parti"))
	assert.NoError(t, inv.Reserve(p.ID, 2, "Order #3"))

	movements, err := inv.Movements(p.ID)
	assert.NoError(t, err)
	assert.Len(t, movements, 2)
	assert.Equal(t, models.MovementSale, movements[0].MovementType)
	assert.Equal(t, models.MovementStockIn, movements[1].MovementType)
}
