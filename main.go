package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"restoran-pos/config"
	"restoran-pos/hub"
	"restoran-pos/models"
	"restoran-pos/router"
	"restoran-pos/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)
	seedDefaults(db)

	// Hub notifikasi jalan sebagai satu goroutine pemilik registry.
	h := hub.New()
	go h.Run()

	r := router.SetupRouter(db, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
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
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

// seedDefaults -> buat admin default saat database masih kosong, supaya
// instalasi baru langsung bisa dipakai.
func seedDefaults(db *gorm.DB) {
	var admin models.User
	err := db.Where("username = ?", "admin").First(&admin).Error
	if err != gorm.ErrRecordNotFound {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.ErrorLogger.Printf("Failed to hash default admin password: %v", err)
		return
	}

	admin = models.User{
		Username:     "admin",
		FullName:     "Administrator",
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to create default admin: %v", err)
		return
	}
	utils.InfoLogger.Println("Default admin user created (username: admin)")
}
