package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"restoran-pos/models"
	"restoran-pos/utils"
)

func TestLogin(t *testing.T) {
	r, db := setupAPI(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("gizli123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := models.User{Username: "mehmet", FullName: "Mehmet", PasswordHash: string(hash), Role: models.RoleWaiter, IsActive: true}
	assert.NoError(t, db.Create(&user).Error)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"username": "mehmet", "password": "gizli123"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envelope.Status)

	data := envelope.Data.(map[string]interface{})
	token, _ := data["token"].(string)
	assert.NotEmpty(t, token)

	claims, err := utils.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleWaiter, claims.Role)

	w, envelope = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"username": "mehmet", "password": "yanlis"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, envelope.Status)
}

func TestCreateTableRequiresAdmin(t *testing.T) {
	r, db := setupAPI(t)
	admin := models.User{Username: "patron", PasswordHash: "x", Role: models.RoleAdmin, IsActive: true}
	waiter := models.User{Username: "garson", PasswordHash: "x", Role: models.RoleWaiter, IsActive: true}
	assert.NoError(t, db.Create(&admin).Error)
	assert.NoError(t, db.Create(&waiter).Error)

	post := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/tables",
			jsonBody(t, gin.H{"name": "Bahçe 1", "number": 11}))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// Tanpa token ditolak.
	assert.Equal(t, http.StatusUnauthorized, post("").Code)

	// Garson login tapi bukan admin.
	waiterToken, err := utils.GenerateToken(waiter.ID, waiter.Role)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, post(waiterToken).Code)

	adminToken, err := utils.GenerateToken(admin.ID, admin.Role)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, post(adminToken).Code)

	var table models.Table
	assert.NoError(t, db.Where("number = ?", 11).First(&table).Error)
	assert.Equal(t, "Bahçe 1", table.Name)

	// Nomor meja duplikat ditolak.
	assert.Equal(t, http.StatusBadRequest, post(adminToken).Code)
}
