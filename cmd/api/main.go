package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-retail-pos/internal/handler"
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/database"
	"go-retail-pos/pkg/logging"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	log := logging.New()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, relying on environment")
	}

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.Sale{},
		&model.SaleItem{},
		&model.StockTransaction{},
		&model.Setting{},
		&model.User{},
		&model.Privilege{},
		&model.Role{},
	); err != nil {
		log.Fatal("migrate: ", err)
	}

	seedDefaults(db, log)

	wsHub := ws.NewHub()
	go wsHub.Run()

	summaryCache := buildSummaryCache(log)

	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	stockRepo := repository.NewStockTransactionRepo(db)
	settingRepo := repository.NewSettingRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	saleService := service.NewSaleService(productRepo, saleRepo, db, wsHub, summaryCache)
	stockService := service.NewStockService(productRepo, stockRepo, db, wsHub, summaryCache)
	productService := service.NewProductService(productRepo, categoryRepo, db)
	dashService := service.NewDashboardService(productRepo, saleRepo, settingRepo, summaryCache)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, roleRepo)

	saleHandler := handler.NewSaleHandler(saleService, log)
	stockHandler := handler.NewStockHandler(stockService, log)
	productHandler := handler.NewProductHandler(productService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	settingHandler := handler.NewSettingHandler(settingRepo)

	app := fiber.New(fiber.Config{
		AppName: "Retail POS Core v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// Everything below requires a session
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/dashboard/summary", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetSummary)
	protected.Get("/settings", settingHandler.GetSettings)

	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.DeleteProduct)

	protected.Get("/categories", productHandler.GetCategories)
	protected.Post("/categories", middleware.RequirePrivilege("category:manage"), productHandler.CreateCategory)

	protected.Get("/sales", middleware.RequirePrivilege("sale:view"), saleHandler.GetSales)
	protected.Get("/sales/:id", middleware.RequirePrivilege("sale:view"), saleHandler.GetSale)
	protected.Post("/sales", middleware.RequirePrivilege("sale:create"), saleHandler.CreateSale)

	protected.Get("/stock-transactions", middleware.RequirePrivilege("stock:view"), stockHandler.GetStockTransactions)
	protected.Get("/stock-transactions/:id", middleware.RequirePrivilege("stock:view"), stockHandler.GetStockTransaction)
	protected.Post("/stock-transactions", middleware.RequirePrivilege("stock:create"), stockHandler.CreateStockTransaction)

	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)

	// Live stock feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown: ", err)
	}
}
