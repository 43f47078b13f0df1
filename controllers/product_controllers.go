package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restoran-pos/models"
	"restoran-pos/services"
	"restoran-pos/utils"
)

type ProductController struct {
	DB        *gorm.DB
	Inventory *services.InventoryService
}

func NewProductController(db *gorm.DB, inv *services.InventoryService) *ProductController {
	return &ProductController{DB: db, Inventory: inv}
}

// productPayload -> stok yang ditampilkan selalu di-clamp ke nol.
func productPayload(p *models.Product) gin.H {
	return gin.H{
		"id":            p.ID,
		"category_id":   p.CategoryID,
		"name":          p.Name,
		"description":   p.Description,
		"price":         p.Price,
		"image_url":     p.ImageURL,
		"is_featured":   p.IsFeatured,
		"is_active":     p.IsActive,
		"track_stock":   p.TrackStock,
		"stock":         p.StockOnHand(),
		"initial_stock": p.InitialStock,
	}
}

// GetProducts -> daftar produk aktif.
func (pc *ProductController) GetProducts(c *gin.Context) {
	var products []models.Product
	if err := pc.DB.Where("is_active = ?", true).Order("name asc").Find(&products).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	payload := make([]gin.H, 0, len(products))
	for i := range products {
		payload = append(payload, productPayload(&products[i]))
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", payload)
}

// GetCriticalProducts -> produk ber-stok yang menyentuh ambang kritis
// (<=20% baseline, atau <=10 unit tanpa baseline).
func (pc *ProductController) GetCriticalProducts(c *gin.Context) {
	products, err := pc.Inventory.CriticalProducts()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	payload := make([]gin.H, 0, len(products))
	for i := range products {
		payload = append(payload, productPayload(&products[i]))
	}
	utils.RespondJSON(c, http.StatusOK, "Critical products", payload)
}

// GetStockMovements -> jurnal mutasi stok satu produk.
func (pc *ProductController) GetStockMovements(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid product id"))
		return
	}

	movements, err := pc.Inventory.Movements(uint(id))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock movements", movements)
}

// AdjustStock -> admin menerapkan delta stok manual (barang masuk, fire,
// koreksi). Setiap pemanggilan menghasilkan tepat satu StockMovement.
func (pc *ProductController) AdjustStock(c *gin.Context) {
	role, _ := c.Get("role")
	if role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	id, err := strconv.Atoi(c.Param("product_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid product id"))
		return
	}

	var body struct {
		Delta        int    `json:"delta" binding:"required"`
		MovementType string `json:"movement_type"`
		Description  string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.MovementType == "" {
		if body.Delta > 0 {
			body.MovementType = models.MovementStockIn
		} else {
			body.MovementType = models.MovementCorrection
		}
	}
	if body.Description == "" {
		body.Description = "Admin manuel güncelleme"
	}

	if err := pc.Inventory.Adjust(uint(id), body.Delta, body.MovementType, body.Description); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var product models.Product
	if err := pc.DB.First(&product, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock adjusted", productPayload(&product))
}
