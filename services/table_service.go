package services

import (
	"time"

	"gorm.io/gorm"

	"restoran-pos/hub"
	"restoran-pos/models"
)

// TableService -> tracker occupancy dan relasi merge/transfer antar meja.
// Kontensi rendah (cuma beberapa meja berubah per order), cukup update
// per baris lewat gorm.
type TableService struct {
	db  *gorm.DB
	hub *hub.Hub
}

func NewTableService(db *gorm.DB, h *hub.Hub) *TableService {
	return &TableService{db: db, hub: h}
}

// state -> ambil TableState meja, buat barisnya saat pertama dipakai.
func (s *TableService) state(tableID uint) (*models.TableState, error) {
	var ts models.TableState
	err := s.db.Where("table_id = ?", tableID).First(&ts).Error
	if err == gorm.ErrRecordNotFound {
		ts = models.TableState{TableID: tableID}
		if err := s.db.Create(&ts).Error; err != nil {
			return nil, err
		}
		return &ts, nil
	}
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (s *TableService) setOccupied(tableID uint, occupied bool) error {
	ts, err := s.state(tableID)
	if err != nil {
		return err
	}
	ts.IsOccupied = occupied
	ts.UpdatedAt = time.Now()
	return s.db.Save(ts).Error
}

// MarkOccupied -> idempotent; dipanggil engine saat order masuk.
func (s *TableService) MarkOccupied(tableID uint) error {
	return s.setOccupied(tableID, true)
}

// MarkVacant -> idempotent.
func (s *TableService) MarkVacant(tableID uint) error {
	return s.setOccupied(tableID, false)
}

// TransferActiveOrders -> pindahkan semua order non-terminal (pending/
// preparing) dari meja sumber ke meja tujuan, lalu kosongkan sumber dan
// tandai tujuan terisi. Status dan referensi meja adalah kolom ortogonal,
// jadi transfer yang balapan dengan perubahan status tidak saling menimpa.
func (s *TableService) TransferActiveOrders(sourceID, targetID uint) (int, error) {
	var count int64
	if err := s.db.Model(&models.Table{}).Where("id IN ?", []uint{sourceID, targetID}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count != 2 {
		return 0, ErrTableNotFound
	}

	res := s.db.Model(&models.Order{}).
		Where("table_id = ? AND status IN ?", sourceID, []string{models.StatusPending, models.StatusPreparing}).
		Update("table_id", targetID)
	if res.Error != nil {
		return 0, res.Error
	}

	if err := s.MarkVacant(sourceID); err != nil {
		return 0, err
	}
	if err := s.MarkOccupied(targetID); err != nil {
		return 0, err
	}
	return int(res.RowsAffected), nil
}

// Merge -> catat relasi merge tanpa memindahkan order; murni penanda
// untuk tampilan, billing tidak di-cascade.
func (s *TableService) Merge(sourceID, targetID uint) error {
	var count int64
	if err := s.db.Model(&models.Table{}).Where("id IN ?", []uint{sourceID, targetID}).Count(&count).Error; err != nil {
		return err
	}
	if count != 2 {
		return ErrTableNotFound
	}

	ts, err := s.state(sourceID)
	if err != nil {
		return err
	}
	ts.MergedWithTableID = &targetID
	ts.UpdatedAt = time.Now()
	if err := s.db.Save(ts).Error; err != nil {
		return err
	}
	return s.MarkOccupied(targetID)
}

// OpenTable -> ringkasan satu meja terbuka untuk panel admin/garson.
type OpenTable struct {
	TableID     uint            `json:"table_id"`
	TableNumber int             `json:"table_number"`
	TableName   string          `json:"table_name"`
	TotalAmount float64         `json:"total_amount"`
	IsOccupied  bool            `json:"is_occupied"`
	Items       []OpenTableItem `json:"items"`
}

type OpenTableItem struct {
	OrderID   uint    `json:"order_id"`
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// OpenTables -> meja aktif yang terisi atau masih punya order non-terminal,
// beserta total tagihan berjalan.
func (s *TableService) OpenTables() ([]OpenTable, error) {
	var tables []models.Table
	if err := s.db.Where("is_active = ?", true).Order("number asc").Find(&tables).Error; err != nil {
		return nil, err
	}

	result := make([]OpenTable, 0)
	for _, t := range tables {
		var orders []models.Order
		if err := s.db.Preload("Items").
			Where("table_id = ? AND status NOT IN ?", t.ID, []string{models.StatusDelivered, models.StatusCancelled}).
			Find(&orders).Error; err != nil {
			return nil, err
		}

		open := OpenTable{TableID: t.ID, TableNumber: t.Number, TableName: t.Name, Items: []OpenTableItem{}}
		for _, o := range orders {
			open.TotalAmount += o.TotalAmount
			for _, it := range o.Items {
				open.Items = append(open.Items, OpenTableItem{
					OrderID:   o.ID,
					ProductID: it.ProductID,
					Quantity:  it.Quantity,
					Subtotal:  it.Subtotal,
				})
			}
		}

		var ts models.TableState
		if err := s.db.Where("table_id = ?", t.ID).First(&ts).Error; err == nil {
			open.IsOccupied = ts.IsOccupied
		}

		if open.IsOccupied || len(open.Items) > 0 {
			result = append(result, open)
		}
	}
	return result, nil
}
