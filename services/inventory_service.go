package services

import (
	"fmt"
	"sync"

	"gorm.io/gorm"

	"restoran-pos/hub"
	"restoran-pos/models"
	"restoran-pos/utils"
)

const (
	// Sisa stok <= nilai ini memicu stock_warning ke admin saat reservasi.
	lowStockWarningAt = 15
	// Produk tanpa baseline InitialStock dianggap kritis di bawah ini.
	criticalAbsoluteFloor = 10
)

// InventoryService -> ledger stok: counter per produk plus jurnal
// StockMovement append-only. Semua mutasi untuk satu produk diserialkan
// lewat mutex per produk, jadi check-and-decrement tidak pernah balapan.
type InventoryService struct {
	db  *gorm.DB
	hub *hub.Hub

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewInventoryService(db *gorm.DB, h *hub.Hub) *InventoryService {
	return &InventoryService{
		db:    db,
		hub:   h,
		locks: make(map[uint]*sync.Mutex),
	}
}

// productLock -> ambil (atau buat) mutex untuk satu produk.
func (s *InventoryService) productLock(productID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[productID] = l
	}
	return l
}

// Reserve -> check-and-decrement atomik untuk satu produk/qty.
// Produk tanpa track_stock selalu sukses tanpa mutasi apa pun.
// Gagal dengan ErrInsufficientStock kalau stok kurang.
func (s *InventoryService) Reserve(productID uint, qty int, description string) error {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrProductNotFound
		}
		return err
	}
	if !product.TrackStock {
		return nil
	}

	l := s.productLock(productID)
	l.Lock()
	defer l.Unlock()

	// Guard stock >= qty di UPDATE-nya, bukan read-then-write terpisah:
	// RowsAffected == 0 berarti stok tidak cukup.
	res := s.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		remaining := 0
		s.db.Model(&models.Product{}).Select("stock").Where("id = ?", productID).Scan(&remaining)
		if remaining < 0 {
			remaining = 0
		}
		return fmt.Errorf("%w: %s (remaining %d)", ErrInsufficientStock, product.Name, remaining)
	}

	movement := models.StockMovement{
		ProductID:    productID,
		Quantity:     -qty,
		MovementType: models.MovementSale,
		Description:  description,
	}
	if err := s.db.Create(&movement).Error; err != nil {
		return err
	}

	var remaining int
	s.db.Model(&models.Product{}).Select("stock").Where("id = ?", productID).Scan(&remaining)
	if remaining <= lowStockWarningAt {
		s.hub.BroadcastToAdmin(hub.Message{
			Type: hub.EventStockWarning,
			Data: map[string]interface{}{
				"product_id": productID,
				"product":    product.Name,
				"remaining":  remaining,
				"message":    fmt.Sprintf("Stok menipis: %s (sisa %d)", product.Name, remaining),
			},
		})
	}
	return nil
}

// Release -> kembalikan stok hasil reservasi yang dibatalkan (kompensasi
// admission yang gagal di tengah, atau order yang di-cancel). Mencatat
// movement jenis cancel supaya jurnal tetap menjelaskan semua mutasi.
func (s *InventoryService) Release(productID uint, qty int, description string) error {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrProductNotFound
		}
		return err
	}
	if !product.TrackStock {
		return nil
	}

	l := s.productLock(productID)
	l.Lock()
	defer l.Unlock()

	if err := s.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error; err != nil {
		return err
	}
	return s.db.Create(&models.StockMovement{
		ProductID:    productID,
		Quantity:     qty,
		MovementType: models.MovementCancel,
		Description:  description,
	}).Error
}

// Adjust -> terapkan delta tanpa syarat (stock-in, fire, koreksi manual).
// Delta ditulis apa adanya; pembacaan yang meng-clamp ke nol ada di
// Product.StockOnHand.
func (s *InventoryService) Adjust(productID uint, delta int, movementType, description string) error {
	if !models.ValidMovementType(movementType) {
		return fmt.Errorf("unknown movement type: %s", movementType)
	}
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrProductNotFound
		}
		return err
	}

	l := s.productLock(productID)
	l.Lock()
	defer l.Unlock()

	if err := s.db.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", delta)).Error; err != nil {
		return err
	}
	if err := s.db.Create(&models.StockMovement{
		ProductID:    productID,
		Quantity:     delta,
		MovementType: movementType,
		Description:  description,
	}).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Stock adjusted: product=%d delta=%+d type=%s", productID, delta, movementType)
	return nil
}

// CriticalProducts -> produk ber-track-stock yang stoknya <= 20% dari
// InitialStock, atau <= 10 unit kalau baseline belum pernah dicatat.
// Hanya view turunan, tidak ada invariant yang dijaga di sini.
func (s *InventoryService) CriticalProducts() ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("track_stock = ? AND is_active = ?", true, true).Find(&products).Error; err != nil {
		return nil, err
	}
	critical := make([]models.Product, 0)
	for _, p := range products {
		stock := p.StockOnHand()
		if p.InitialStock > 0 {
			if stock*5 <= p.InitialStock {
				critical = append(critical, p)
			}
		} else if stock <= criticalAbsoluteFloor {
			critical = append(critical, p)
		}
	}
	return critical, nil
}

// Movements -> riwayat mutasi stok satu produk, terbaru dulu.
func (s *InventoryService) Movements(productID uint) ([]models.StockMovement, error) {
	var movements []models.StockMovement
	err := s.db.Where("product_id = ?", productID).
		Order("created_at desc, id desc").
		Find(&movements).Error
	return movements, err
}
