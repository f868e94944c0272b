package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/bestline-mfg/bestline-orders-api/config"
	"github.com/bestline-mfg/bestline-orders-api/controllers"
	"github.com/bestline-mfg/bestline-orders-api/middleware"
	"github.com/bestline-mfg/bestline-orders-api/models"
	"github.com/bestline-mfg/bestline-orders-api/services"
)

func main() {
	log.Println("Starting Bestline Orders API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.ApplyLogLevel(cfg.LogLevel)

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Company{},
		&models.Contact{},
		&models.Product{},
		&models.RingType{},
		&models.ShippingMethod{},
		&models.Station{},
		&models.Hardware{},
		&models.CordPosition{},
		&models.PullType{},
		&models.Mount{},
		&models.ValanceType{},
		&models.FabricType{},
		&models.Fabric{},
		&models.OptionType{},
		&models.Order{},
		&models.OrderLine{},
		&models.OrderFabric{},
		&models.OrderOption{},
		&models.OptionData{},
		&models.FinalizationRecord{},
		&models.Alert{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// S3 is optional: without credentials the API runs, swatch endpoints 503
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Printf("S3 service unavailable: %v", err)
		} else {
			services.InitSwatchService(s3Service)
			log.Println("S3 swatch storage initialized")
		}
	}

	router := gin.Default()
	router.Use(cors.Default())

	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		orders := v1.Group("/orders")
		{
			orders.GET("", controllers.GetAllOpenOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.GET("/:id/calculate", controllers.PreviewPrice)
			orders.GET("/:id/manufacturing", controllers.GetManufacturingSpec)
			orders.GET("/:id/swatch", controllers.GetSwatch)
			orders.GET("/:id/default-options", controllers.GetDefaultOptions)

			write := orders.Group("")
			write.Use(middleware.EnsureValidToken(cfg), middleware.RequireScope(middleware.ScopeOrdersWrite))
			{
				write.POST("", controllers.CreateOrder)
				write.PUT("/:id", controllers.UpdateOrder)
				write.DELETE("/:id", controllers.DeleteOrder)
				write.POST("/:id/swatch", controllers.UploadSwatch)
				write.DELETE("/:id/swatch", controllers.DeleteSwatch)
			}

			finalize := orders.Group("")
			finalize.Use(middleware.EnsureValidToken(cfg), middleware.RequireScope(middleware.ScopeOrdersFinalize))
			{
				finalize.POST("/:id/finalize", controllers.FinalizeOrder)
				finalize.POST("/:id/unfinalize", controllers.UnfinalizeOrder)
				finalize.POST("/:id/advance-station", controllers.AdvanceStation)
			}
		}
	}

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bestline Orders API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
