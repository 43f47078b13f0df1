package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restoran-pos/controllers"
	"restoran-pos/hub"
	"restoran-pos/middlewares"
	"restoran-pos/services"
)

func SetupRouter(db *gorm.DB, h *hub.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	inventoryService := services.NewInventoryService(db, h)
	tableService := services.NewTableService(db, h)
	orderService := services.NewOrderService(db, h, inventoryService, tableService)

	authCtrl := controllers.NewAuthController(db)
	orderCtrl := controllers.NewOrderController(orderService)
	tableCtrl := controllers.NewTableController(db, tableService, h)
	productCtrl := controllers.NewProductController(db, inventoryService)
	wsCtrl := controllers.NewWSController(h)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Channel realtime; role diumumkan lewat frame registrasi, bukan auth.
	r.GET("/ws", wsCtrl.Handle)

	api := r.Group("/api")
	{
		api.POST("/auth/login", authCtrl.Login)

		orders := api.Group("/orders")
		{
			// Customer boleh order tanpa login; user login tetap dikenali.
			orders.POST("", middlewares.OptionalAuthMiddleware(), orderCtrl.CreateOrder)
			orders.GET("", orderCtrl.GetOrders)
			orders.GET("/stats", orderCtrl.GetOrderStats)
			orders.GET("/kitchen/pending", orderCtrl.GetKitchenQueue)
			orders.GET("/:order_id", orderCtrl.GetOrderByID)
			orders.PUT("/:order_id/status", middlewares.OptionalAuthMiddleware(), orderCtrl.UpdateOrderStatus)
		}
		// Alias lama yang masih dipanggil layar dapur.
		api.GET("/kitchen-tickets", orderCtrl.GetKitchenQueue)

		tables := api.Group("/tables")
		{
			tables.GET("", tableCtrl.GetTables)
			tables.POST("", middlewares.AuthMiddleware(), tableCtrl.CreateTable)
			tables.GET("/open", tableCtrl.GetOpenTables)
			tables.POST("/:table_id/call-waiter", tableCtrl.CallWaiter)
			tables.POST("/transfer/:source_id/:target_id", tableCtrl.TransferOrders)
			tables.POST("/merge/:source_id/:target_id", tableCtrl.MergeTables)
		}

		products := api.Group("/products")
		{
			products.GET("", productCtrl.GetProducts)
			products.GET("/critical", productCtrl.GetCriticalProducts)
			products.GET("/:product_id/movements", productCtrl.GetStockMovements)
			products.POST("/:product_id/adjust-stock", middlewares.AuthMiddleware(), productCtrl.AdjustStock)
		}
	}

	return r
}
