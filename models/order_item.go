package models

import "time"

// OrderItem menyimpan snapshot harga saat order dibuat: UnitPrice tidak
// ikut berubah kalau harga produk diubah belakangan.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	Order     Order   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64 `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	// Extras berisi JSON pilihan tambahan dari customer.
	Extras    string    `gorm:"type:text" json:"-"`
	Subtotal  float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"subtotal"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
