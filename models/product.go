package models

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  uint      `gorm:"index" json:"category_id"`
	Category    Category  `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string    `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	IsFeatured  bool      `gorm:"not null;default:false" json:"is_featured"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	// TrackStock = false berarti Stock tidak otoritatif: tidak pernah
	// dicek dan tidak pernah didekremen saat order masuk.
	TrackStock   bool      `gorm:"not null;default:false" json:"track_stock"`
	Stock        int       `gorm:"not null;default:0" json:"stock"`
	InitialStock int       `gorm:"not null;default:0" json:"initial_stock"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// StockOnHand -> stok untuk ditampilkan; nilai tersimpan bisa minus
// karena Adjust tidak di-clamp, pembacaan selalu di-clamp ke nol.
func (p *Product) StockOnHand() int {
	if p.Stock < 0 {
		return 0
	}
	return p.Stock
}
