package models

import "time"

type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Number    int       `gorm:"uniqueIndex;not null" json:"number"`
	QRUrl     string    `gorm:"type:text" json:"qr_url,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// TableState -> record pelengkap satu-satu per meja: flag occupancy dan
// relasi merge opsional ke meja lain. Merge hanya penanda untuk tampilan,
// tidak pernah meng-cascade tagihan.
type TableState struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	TableID           uint      `gorm:"uniqueIndex;not null" json:"table_id"`
	Table             Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	IsOccupied        bool      `gorm:"not null;default:false" json:"is_occupied"`
	MergedWithTableID *uint     `json:"merged_with_table_id,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}
