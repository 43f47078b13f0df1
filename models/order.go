package models

import (
	"strings"
	"time"
)

// Status order (lima state kanonik)
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// statusSynonyms memetakan token lama (Turki) maupun Inggris ke status
// kanonik. Frontend lama masih mengirim token seperti "hazırlanıyor".
var statusSynonyms = map[string]string{
	"pending":       StatusPending,
	"bekliyor":      StatusPending,
	"preparing":     StatusPreparing,
	"hazirlaniyor":  StatusPreparing,
	"hazırlanıyor":  StatusPreparing,
	"ready":         StatusReady,
	"hazir":         StatusReady,
	"hazır":         StatusReady,
	"delivered":     StatusDelivered,
	"teslim_edildi": StatusDelivered,
	"cancelled":     StatusCancelled,
	"iptal":         StatusCancelled,
}

// NormalizeStatus -> terjemahkan token status bebas (case-insensitive,
// bisa bahasa lama) ke salah satu dari lima status kanonik.
func NormalizeStatus(token string) (string, bool) {
	s, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(token))]
	return s, ok
}

// IsTerminalStatus -> delivered dan cancelled tidak punya transisi lanjutan.
func IsTerminalStatus(status string) bool {
	return status == StatusDelivered || status == StatusCancelled
}

type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	TableID       uint        `gorm:"index;not null" json:"table_id"`
	Table         Table       `gorm:"foreignKey:TableID;references:ID" json:"-"`
	Status        string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CustomerNotes string      `gorm:"type:text" json:"customer_notes"`
	TotalAmount   float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}
