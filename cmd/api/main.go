package main

import (
	"log"
	"os"

	_ "invoicedesk/api/swagger" // swagger docs
	"invoicedesk/internal/database"
	"invoicedesk/internal/handler"
	"invoicedesk/internal/middleware"
	"invoicedesk/internal/repository"
	"invoicedesk/internal/service"
	"invoicedesk/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           InvoiceDesk API
// @version         1.0
// @description     Local invoice management backend: customers, products, invoices with sales and advance tax, PDF output and period reports.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/invoices.db"
	}

	db, err := database.NewConnection(dbPath)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Printf("Opened database at %s", dbPath)

	// Set up WebSocket Hub for dashboard live refresh
	wsHub := ws.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	settingsRepo := repository.NewSettingsRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	reportRepo := repository.NewReportRepository(db)
	txManager := repository.NewTxManager(db)

	pricingService := service.NewPricingService(productRepo, settingsRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, companyRepo, settingsRepo, pricingService, txManager, wsHub)
	customerService := service.NewCustomerService(customerRepo, productRepo)
	productService := service.NewProductService(productRepo)
	settingsService := service.NewSettingsService(companyRepo, settingsRepo)
	reportService := service.NewReportService(invoiceRepo, customerRepo, productRepo, reportRepo)
	exportService := service.NewExportService(customerRepo, productRepo)
	pdfService := service.NewPDFService(invoiceRepo, settingsRepo)

	// Initialize Handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, pdfService)
	customerHandler := handler.NewCustomerHandler(customerService)
	productHandler := handler.NewProductHandler(productService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	reportHandler := handler.NewReportHandler(reportService, exportService, pdfService)

	// Set up Gin Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(wsHub, c)
	})

	// Unlock endpoint stays outside the password gate
	settingsHandler.RegisterAuthRoutes(router.Group(""))

	// Everything else sits behind the app password (a no-op until a
	// password is configured)
	protected := router.Group("")
	protected.Use(middleware.RequireUnlocked(settingsService))

	invoiceHandler.RegisterRoutes(protected)
	customerHandler.RegisterRoutes(protected)
	productHandler.RegisterRoutes(protected)
	settingsHandler.RegisterRoutes(protected)
	reportHandler.RegisterRoutes(protected)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
