package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restoran-pos/services"
	"restoran-pos/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// respondOrderError -> petakan error taksonomi service ke kode HTTP.
func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTableNotFound), errors.Is(err, services.ErrProductNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrInsufficientStock):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrInvalidStatus):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// CreateOrder -> terima order dari customer (tanpa auth) untuk satu meja.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	view, err := oc.Orders.CreateOrder(req)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", view)
}

// GetOrders -> daftar order, filter status/meja opsional.
func (oc *OrderController) GetOrders(c *gin.Context) {
	statusFilter := c.Query("status")
	tableID, _ := strconv.Atoi(c.DefaultQuery("table_id", "0"))
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	views, err := oc.Orders.ListOrders(statusFilter, uint(tableID), skip, limit)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", views)
}

// GetOrderByID -> detail 1 order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	view, err := oc.Orders.GetOrder(uint(id))
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", view)
}

// UpdateOrderStatus -> dapur/admin memajukan status order. Token status
// boleh bahasa lama ("hazırlanıyor") maupun Inggris.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Acting user opsional: status update boleh anonim, tapi kalau ada
	// user dari token, delivery dihitung ke statistiknya.
	var actingUserID *uint
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			actingUserID = &id
		}
	}

	view, err := oc.Orders.UpdateStatus(uint(id), body.Status, actingUserID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", view)
}

// GetKitchenQueue -> antrian dapur: order pending/preparing, FIFO.
func (oc *OrderController) GetKitchenQueue(c *gin.Context) {
	views, err := oc.Orders.KitchenQueue()
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen queue", views)
}

// GetOrderStats -> hitungan total order untuk dashboard.
func (oc *OrderController) GetOrderStats(c *gin.Context) {
	count, err := oc.Orders.CountOrders()
	if err != nil {
		respondOrderError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order stats", gin.H{"total_orders": count})
}
