package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"restoran-pos/hub"
	"restoran-pos/models"
	"restoran-pos/router"
	"restoran-pos/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
}

func setupAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.UserStat{},
		&models.Category{},
		&models.Product{},
		&models.Table{},
		&models.TableState{},
		&models.Order{},
		&models.OrderItem{},
		&models.StockMovement{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	h := hub.New()
	go h.Run()
	return router.SetupRouter(db, h), db
}

func jsonBody(t *testing.T, body interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	return &buf
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, utils.JSONResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, jsonBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope utils.JSONResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope %q: %v", w.Body.String(), err)
	}
	return w, envelope
}

func TestCreateOrderEndpoint(t *testing.T) {
	r, db := setupAPI(t)
	tbl := models.Table{Name: "Masa 5", Number: 5, IsActive: true}
	assert.NoError(t, db.Create(&tbl).Error)
	p := models.Product{Name: "Adana Kebap", Price: 120, TrackStock: true, Stock: 10, InitialStock: 10, IsActive: true}
	assert.NoError(t, db.Create(&p).Error)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"table_number": 5,
		"items":        []gin.H{{"product_id": p.ID, "quantity": 2}},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, envelope.Status)
	assert.Equal(t, "Order created", envelope.Message)

	data, ok := envelope.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, 240.0, data["total_amount"])
	assert.Equal(t, models.StatusPending, data["status"])

	var stock int
	db.Model(&models.Product{}).Select("stock").Where("id = ?", p.ID).Scan(&stock)
	assert.Equal(t, 8, stock)
}

func TestCreateOrderInsufficientStockEndpoint(t *testing.T) {
	r, db := setupAPI(t)
	tbl := models.Table{Name: "Masa 1", Number: 1, IsActive: true}
	assert.NoError(t, db.Create(&tbl).Error)
	p := models.Product{Name: "Künefe", Price: 70, TrackStock: true, Stock: 1, InitialStock: 10, IsActive: true}
	assert.NoError(t, db.Create(&p).Error)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"table_number": 1,
		"items":        []gin.H{{"product_id": p.ID, "quantity": 3}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, envelope.Status)
	assert.Contains(t, envelope.Message, "Künefe")
}

func TestCreateOrderUnknownTableEndpoint(t *testing.T) {
	r, _ := setupAPI(t)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"table_number": 99,
		"items":        []gin.H{{"product_id": 1, "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, envelope.Status)
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	r, db := setupAPI(t)
	tbl := models.Table{Name: "Masa 1", Number: 1, IsActive: true}
	assert.NoError(t, db.Create(&tbl).Error)
	p := models.Product{Name: "Çay", Price: 10, IsActive: true}
	assert.NoError(t, db.Create(&p).Error)

	_, created := doJSON(t, r, http.MethodPost, "/api/orders", gin.H{
		"table_number": 1,
		"items":        []gin.H{{"product_id": p.ID, "quantity": 1}},
	})
	orderID := created.Data.(map[string]interface{})["id"].(float64)

	// Token lama diterima dan dinormalkan.
	w, envelope := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/orders/%.0f/status", orderID), gin.H{"status": "hazırlanıyor"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusPreparing, envelope.Data.(map[string]interface{})["status"])

	// Token tidak dikenal ditolak 422.
	w, envelope = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/orders/%.0f/status", orderID), gin.H{"status": "belirsiz"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, envelope.Status)

	// Order tidak ada: 404.
	w, _ = doJSON(t, r, http.MethodPut, "/api/orders/9999/status", gin.H{"status": "ready"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestKitchenQueueEndpointAndAlias(t *testing.T) {
	r, db := setupAPI(t)
	tbl := models.Table{Name: "Masa 1", Number: 1, IsActive: true}
	assert.NoError(t, db.Create(&tbl).Error)
	for _, status := range []string{models.StatusPending, models.StatusPreparing, models.StatusDelivered} {
		o := models.Order{TableID: tbl.ID, Status: status}
		assert.NoError(t, db.Create(&o).Error)
	}

	for _, path := range []string{"/api/orders/kitchen/pending", "/api/kitchen-tickets"} {
		w, envelope := doJSON(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		items, ok := envelope.Data.([]interface{})
		assert.True(t, ok, "path %s", path)
		assert.Len(t, items, 2)
	}
}
