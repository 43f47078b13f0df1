package models

import "time"

// Role user
const (
	RoleAdmin      = "admin"
	RoleKitchen    = "kitchen"
	RoleWaiter     = "waiter"
	RoleSupervisor = "supervisor"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	FullName     string    `gorm:"type:varchar(255)" json:"full_name"`
	Email        string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'waiter'" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// UserStat -> statistik ringan per user: jumlah order yang sudah diantar
// dan total nilai penjualannya. Diupdate best-effort saat order delivered.
type UserStat struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User            User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TotalOrders     int       `gorm:"not null;default:0" json:"total_orders"`
	TotalSalesScore float64   `gorm:"type:decimal(12,2);not null;default:0.00" json:"total_sales_score"`
	UpdatedAt       time.Time `json:"updated_at"`
}
