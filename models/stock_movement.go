package models

import "time"

// Jenis pergerakan stok
const (
	MovementStockIn    = "stock_in"   // barang masuk
	MovementSale       = "sale"       // konsumsi order
	MovementCancel     = "cancel"     // pengembalian karena pembatalan
	MovementWaste      = "waste"      // fire / barang rusak
	MovementCorrection = "correction" // koreksi manual admin
)

// StockMovement -> jurnal append-only, satu baris per mutasi stok.
// Tidak pernah diupdate atau dihapus; ini satu-satunya sumber jawaban
// "kenapa stok berubah".
type StockMovement struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"index;not null" json:"product_id"`
	Product      Product   `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity     int       `gorm:"not null" json:"quantity"` // delta bertanda
	MovementType string    `gorm:"type:varchar(20);not null" json:"movement_type"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// ValidMovementType -> cek jenis pergerakan yang dikenal.
func ValidMovementType(t string) bool {
	switch t {
	case MovementStockIn, MovementSale, MovementCancel, MovementWaste, MovementCorrection:
		return true
	}
	return false
}
