package main

import (
	"context"
	"log"
	"os"

	_ "panjarku-backend/api/swagger" // swagger docs
	"panjarku-backend/internal/database"
	"panjarku-backend/internal/handler"
	"panjarku-backend/internal/middleware"
	"panjarku-backend/internal/repository"
	"panjarku-backend/internal/service"
	"panjarku-backend/internal/storage"
	"panjarku-backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Panjar Administration API
// @version         1.0
// @description     School administrative backend for budgets and panjar (cash-advance) workflows.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	middleware.InitPermissionMiddleware(db)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	fileStore := storage.NewFileStore(uploadDir)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	budgetYearRepo := repository.NewBudgetYearRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	budgetItemRepo := repository.NewBudgetItemRepository(db)
	panjarRepo := repository.NewPanjarRepository(db)
	panjarItemRepo := repository.NewPanjarItemRepository(db)
	realizationRepo := repository.NewRealizationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	hierarchyService := service.NewHierarchyService(unitRepo, positionRepo, employeeRepo)
	approvalService := service.NewApprovalService(employeeRepo)
	workflowService := service.NewWorkflowService(panjarItemRepo, txManager)
	userService := service.NewUserService(db, userRepo, txManager)
	roleService := service.NewRoleService(db)
	unitService := service.NewUnitService(unitRepo, positionRepo, hierarchyService)
	employeeService := service.NewEmployeeService(employeeRepo, studentRepo, userRepo, unitRepo, positionRepo, hierarchyService)
	budgetService := service.NewBudgetService(budgetYearRepo, budgetRepo, budgetItemRepo, unitRepo, txManager)
	panjarService := service.NewPanjarService(panjarRepo, budgetItemRepo, userRepo, employeeRepo, auditRepo, approvalService, txManager, wsHub)
	realizationService := service.NewRealizationService(realizationRepo, panjarRepo, auditRepo, txManager, wsHub)

	if err := roleService.SeedDefaultRolesAndPermissions(context.Background()); err != nil {
		log.Printf("WARNING: failed to seed roles and permissions: %v", err)
	}

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(userService, approvalService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	unitHandler := handler.NewUnitHandler(unitService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	panjarHandler := handler.NewPanjarHandler(panjarService)
	panjarItemHandler := handler.NewPanjarItemHandler(workflowService, userService)
	realizationHandler := handler.NewRealizationHandler(realizationService, fileStore)
	auditHandler := handler.NewAuditHandler(auditRepo)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
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
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Uploaded receipts and photos
	router.Static("/uploads", uploadDir)

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	roleHandler.RegisterRoutes(router.Group(""))
	unitHandler.RegisterRoutes(router.Group(""))
	employeeHandler.RegisterRoutes(router.Group(""))
	budgetHandler.RegisterRoutes(router.Group(""))
	panjarHandler.RegisterRoutes(router.Group(""))
	panjarItemHandler.RegisterRoutes(router.Group(""))
	realizationHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
