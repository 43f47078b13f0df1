package services

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"restoran-pos/hub"
	"restoran-pos/models"
	"restoran-pos/utils"
)

// OrderService -> pemilik lifecycle order: admission (validasi meja,
// reservasi stok, persist, occupancy), state machine status, dan antrian
// dapur. Fan-out realtime dilempar ke hub, kegagalan kirim tidak pernah
// menggagalkan operasi bisnisnya.
type OrderService struct {
	db        *gorm.DB
	hub       *hub.Hub
	inventory *InventoryService
	tables    *TableService
}

func NewOrderService(db *gorm.DB, h *hub.Hub, inv *InventoryService, tbl *TableService) *OrderService {
	return &OrderService{db: db, hub: h, inventory: inv, tables: tbl}
}

// ExtraSelection -> satu pilihan tambahan dari customer (nama + harga).
type ExtraSelection struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type OrderItemRequest struct {
	ProductID uint             `json:"product_id" binding:"required"`
	Quantity  int              `json:"quantity"`
	Extras    []ExtraSelection `json:"extras,omitempty"`
}

type CreateOrderRequest struct {
	TableNumber   int                `json:"table_number" binding:"required"`
	Items         []OrderItemRequest `json:"items" binding:"required"`
	CustomerNotes string             `json:"customer_notes"`
}

// OrderItemView -> item order untuk response/broadcast, dengan snapshot
// nama dan harga produk saat order dibuat.
type OrderItemView struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   float64         `json:"unit_price"`
	Extras      json.RawMessage `json:"extras,omitempty"`
	Subtotal    float64         `json:"subtotal"`
}

type OrderView struct {
	ID            uint            `json:"id"`
	TableID       uint            `json:"table_id"`
	TableName     string          `json:"table_name"`
	Status        string          `json:"status"`
	CustomerNotes string          `json:"customer_notes"`
	TotalAmount   float64         `json:"total_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Items         []OrderItemView `json:"items"`
}

// CreateOrder -> admission transaction: resolve meja by number, resolve
// semua produk, reservasi stok item demi item sesuai urutan request,
// persist order + items, tandai meja terisi, lalu fan-out order_created.
// All-or-nothing: kegagalan reservasi item ke-N melepas reservasi item
// sebelumnya dan seluruh order gagal.
func (s *OrderService) CreateOrder(req CreateOrderRequest) (*OrderView, error) {
	var table models.Table
	if err := s.db.Where("number = ? AND is_active = ?", req.TableNumber, true).First(&table).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: number %d", ErrTableNotFound, req.TableNumber)
		}
		return nil, err
	}

	// Resolve semua produk dulu; produk tidak dikenal menggagalkan order
	// sebelum ada stok yang tersentuh.
	type line struct {
		req     OrderItemRequest
		product models.Product
	}
	lines := make([]line, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		var product models.Product
		if err := s.db.First(&product, item.ProductID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, item.ProductID)
			}
			return nil, err
		}
		lines = append(lines, line{req: item, product: product})
	}

	order := models.Order{
		TableID:       table.ID,
		Status:        models.StatusPending,
		CustomerNotes: req.CustomerNotes,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, err
	}

	// Reservasi sesuai urutan request. reserved menyimpan prefix yang
	// sudah sukses untuk kompensasi kalau ada yang gagal.
	type reservation struct {
		productID uint
		qty       int
	}
	reserved := make([]reservation, 0, len(lines))
	releaseAll := func(reason string) {
		for _, r := range reserved {
			if err := s.inventory.Release(r.productID, r.qty, reason); err != nil {
				utils.ErrorLogger.Printf("release after failed admission: product=%d qty=%d: %v", r.productID, r.qty, err)
			}
		}
	}

	for _, l := range lines {
		desc := fmt.Sprintf("Order #%d - Masa %d", order.ID, table.Number)
		if err := s.inventory.Reserve(l.product.ID, l.req.Quantity, desc); err != nil {
			releaseAll(fmt.Sprintf("Order #%d admission failed", order.ID))
			s.db.Delete(&models.Order{}, order.ID)
			return nil, err
		}
		reserved = append(reserved, reservation{productID: l.product.ID, qty: l.req.Quantity})
	}

	var total float64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, l := range lines {
			var extrasCost float64
			for _, e := range l.req.Extras {
				extrasCost += e.Price
			}
			extrasJSON := ""
			if len(l.req.Extras) > 0 {
				raw, err := json.Marshal(l.req.Extras)
				if err != nil {
					return err
				}
				extrasJSON = string(raw)
			}

			subtotal := float64(l.req.Quantity)*l.product.Price + extrasCost
			total += subtotal

			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: l.product.ID,
				Quantity:  l.req.Quantity,
				UnitPrice: l.product.Price,
				Extras:    extrasJSON,
				Subtotal:  subtotal,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{"total_amount": total, "updated_at": time.Now()}).Error
	})
	if err != nil {
		// Persist gagal: stok yang sudah dipotong dikembalikan juga.
		releaseAll(fmt.Sprintf("Order #%d persistence failed", order.ID))
		s.db.Delete(&models.Order{}, order.ID)
		return nil, err
	}

	if err := s.tables.MarkOccupied(table.ID); err != nil {
		utils.ErrorLogger.Printf("mark table %d occupied: %v", table.ID, err)
	}

	view, err := s.GetOrder(order.ID)
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastOrderEvent(hub.EventOrderCreated, view)
	s.hub.BroadcastToAdmin(hub.Message{
		Type: hub.EventTableStatus,
		Data: map[string]interface{}{
			"table_number": table.Number,
			"table_name":   table.Name,
			"is_occupied":  true,
			"total_amount": view.TotalAmount,
		},
	})
	return view, nil
}

// UpdateStatus -> normalisasi token status lalu tulis. State machine-nya
// longgar: status apa pun boleh ditulis ke status lain yang dikenal.
// Menulis status yang sama adalah no-op tanpa side effect tambahan.
func (s *OrderService) UpdateStatus(orderID uint, token string, actingUserID *uint) (*OrderView, error) {
	newStatus, ok := models.NormalizeStatus(token)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, token)
	}

	var order models.Order
	if err := s.db.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if oldStatus == newStatus {
		return s.GetOrder(orderID)
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{"status": newStatus, "updated_at": time.Now()}).Error; err != nil {
		return nil, err
	}

	// Transisi masuk ke cancelled mengembalikan stok item yang ter-track,
	// sekali saja (guard oldStatus di atas).
	if newStatus == models.StatusCancelled {
		for _, it := range order.Items {
			desc := fmt.Sprintf("Order #%d iptal", order.ID)
			if err := s.inventory.Release(it.ProductID, it.Quantity, desc); err != nil {
				utils.ErrorLogger.Printf("restore stock on cancel: product=%d: %v", it.ProductID, err)
			}
		}
	}

	// Leaderboard garson: best-effort, gagal di sini tidak boleh
	// menggagalkan update statusnya.
	if newStatus == models.StatusDelivered && actingUserID != nil {
		s.bumpUserStat(*actingUserID, order.TotalAmount)
	}

	view, err := s.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastOrderEvent(hub.EventOrderUpdated, map[string]interface{}{
		"id":         view.ID,
		"status":     view.Status,
		"table_name": view.TableName,
	})
	return view, nil
}

func (s *OrderService) bumpUserStat(userID uint, amount float64) {
	var stat models.UserStat
	err := s.db.Where("user_id = ?", userID).First(&stat).Error
	if err == gorm.ErrRecordNotFound {
		stat = models.UserStat{UserID: userID}
		if err := s.db.Create(&stat).Error; err != nil {
			utils.ErrorLogger.Printf("create user stat %d: %v", userID, err)
			return
		}
	} else if err != nil {
		utils.ErrorLogger.Printf("load user stat %d: %v", userID, err)
		return
	}

	stat.TotalOrders++
	stat.TotalSalesScore += amount
	stat.UpdatedAt = time.Now()
	if err := s.db.Save(&stat).Error; err != nil {
		utils.ErrorLogger.Printf("save user stat %d: %v", userID, err)
	}
}

// KitchenQueue -> semua order pending/preparing, paling lama lebih dulu
// (antrian FIFO untuk dapur).
func (s *OrderService) KitchenQueue() ([]OrderView, error) {
	var orders []models.Order
	if err := s.db.Preload("Items").Preload("Items.Product").Preload("Table").
		Where("status IN ?", []string{models.StatusPending, models.StatusPreparing}).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, buildOrderView(&orders[i]))
	}
	return views, nil
}

// ListOrders -> daftar order terbaru dulu, filter status/meja opsional.
func (s *OrderService) ListOrders(statusFilter string, tableID uint, offset, limit int) ([]OrderView, error) {
	q := s.db.Preload("Items").Preload("Items.Product").Preload("Table")
	if statusFilter != "" {
		normalized, ok := models.NormalizeStatus(statusFilter)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, statusFilter)
		}
		q = q.Where("status = ?", normalized)
	}
	if tableID != 0 {
		q = q.Where("table_id = ?", tableID)
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var orders []models.Order
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, buildOrderView(&orders[i]))
	}
	return views, nil
}

// GetOrder -> satu order lengkap dengan items dan nama meja.
func (s *OrderService) GetOrder(orderID uint) (*OrderView, error) {
	var order models.Order
	if err := s.db.Preload("Items").Preload("Items.Product").Preload("Table").
		First(&order, orderID).Error; err != nil {
		return nil, err
	}
	view := buildOrderView(&order)
	return &view, nil
}

// CountOrders -> statistik sederhana untuk dashboard.
func (s *OrderService) CountOrders() (int64, error) {
	var count int64
	err := s.db.Model(&models.Order{}).Count(&count).Error
	return count, err
}

func buildOrderView(order *models.Order) OrderView {
	view := OrderView{
		ID:            order.ID,
		TableID:       order.TableID,
		TableName:     order.Table.Name,
		Status:        order.Status,
		CustomerNotes: order.CustomerNotes,
		TotalAmount:   order.TotalAmount,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
		Items:         make([]OrderItemView, 0, len(order.Items)),
	}
	if view.TableName == "" {
		view.TableName = "Masa Bilinmiyor"
	}
	for _, it := range order.Items {
		iv := OrderItemView{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		}
		if it.Extras != "" {
			iv.Extras = json.RawMessage(it.Extras)
		}
		if iv.ProductName == "" {
			iv.ProductName = "Silinmiş Ürün"
		}
		view.Items = append(view.Items, iv)
	}
	return view
}
