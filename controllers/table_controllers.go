package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restoran-pos/hub"
	"restoran-pos/models"
	"restoran-pos/services"
	"restoran-pos/utils"
)

type TableController struct {
	DB     *gorm.DB
	Tables *services.TableService
	Hub    *hub.Hub
}

func NewTableController(db *gorm.DB, tables *services.TableService, h *hub.Hub) *TableController {
	return &TableController{DB: db, Tables: tables, Hub: h}
}

// CreateTable -> admin menambah meja baru dengan nomor unik.
func (tc *TableController) CreateTable(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var body struct {
		Name   string `json:"name" binding:"required"`
		Number int    `json:"number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing models.Table
	if err := tc.DB.Where("number = ?", body.Number).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("table number %d already exists", body.Number))
		return
	}

	table := models.Table{Name: body.Name, Number: body.Number, CreatedAt: time.Now()}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// GetTables -> daftar meja aktif urut nomor.
func (tc *TableController) GetTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Where("is_active = ?", true).Order("number asc").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetOpenTables -> meja yang terisi atau masih punya order berjalan,
// dengan total tagihannya.
func (tc *TableController) GetOpenTables(c *gin.Context) {
	open, err := tc.Tables.OpenTables()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Open tables", open)
}

// CallWaiter -> customer memencet tombol panggil garson atau minta bill;
// notifikasi masuk ke panel admin lewat websocket.
func (tc *TableController) CallWaiter(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table id"))
		return
	}

	var body struct {
		Type string `json:"type"`
	}
	// Body opsional; default panggil garson.
	_ = c.ShouldBindJSON(&body)

	// Terima ID maupun nomor meja, frontend lama mengirim dua-duanya.
	var table models.Table
	if err := tc.DB.Where("id = ? OR number = ?", id, id).First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, services.ErrTableNotFound)
		return
	}

	event := hub.EventWaiterCall
	message := fmt.Sprintf("%s garson çağırıyor!", table.Name)
	if body.Type == "hesap" {
		event = hub.EventBillRequest
		message = fmt.Sprintf("%s hesap istiyor!", table.Name)
	}

	tc.Hub.BroadcastToAdmin(hub.Message{
		Type: event,
		Data: map[string]interface{}{
			"table_name": table.Name,
			"message":    message,
			"timestamp":  time.Now().Format("15:04"),
		},
	})
	utils.RespondJSON(c, http.StatusOK, "Notification sent", nil)
}

// TransferOrders -> pindahkan order aktif dari satu meja ke meja lain
// (customer pindah meja secara fisik).
func (tc *TableController) TransferOrders(c *gin.Context) {
	sourceID, err1 := strconv.Atoi(c.Param("source_id"))
	targetID, err2 := strconv.Atoi(c.Param("target_id"))
	if err1 != nil || err2 != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table id"))
		return
	}

	moved, err := tc.Tables.TransferActiveOrders(uint(sourceID), uint(targetID))
	if err != nil {
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders transferred", gin.H{
		"moved_orders":       moved,
		"source_is_occupied": false,
		"target_is_occupied": true,
	})
}

// MergeTables -> catat relasi merge antar meja (penanda tampilan saja).
func (tc *TableController) MergeTables(c *gin.Context) {
	sourceID, err1 := strconv.Atoi(c.Param("source_id"))
	targetID, err2 := strconv.Atoi(c.Param("target_id"))
	if err1 != nil || err2 != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table id"))
		return
	}

	if err := tc.Tables.Merge(uint(sourceID), uint(targetID)); err != nil {
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tables merged", gin.H{"source_merged_with": targetID})
}
