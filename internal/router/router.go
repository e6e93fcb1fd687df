package router

import (
	"time"

	"dailymart/internal/config"
	"dailymart/internal/handler"
	"dailymart/internal/middleware"
	"dailymart/internal/repository"
	"dailymart/internal/service"
	"dailymart/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	stockRepo := repository.NewStockRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, saleRepo)
	stockSvc := service.NewStockService(stockRepo, productRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, dispatcher)
	reportSvc := service.NewReportService(reportRepo, productRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	stockH := handler.NewStockHandler(stockSvc)
	salesH := handler.NewSalesHandler(saleSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		anyRole := middleware.RequireRole("admin", "cashier")
		adminOnly := middleware.RequireRole("admin")

		// Sales — the counter flow, both roles
		v1.POST("/sales", anyRole, salesH.Create)
		v1.GET("/sales", anyRole, salesH.List)
		v1.GET("/sales/next-bill-number", anyRole, salesH.NextBillNumber)
		v1.GET("/sales/bill/:bill_number", anyRole, salesH.GetByBillNumber)
		v1.GET("/sales/:id/items", anyRole, salesH.GetItems)
		v1.PATCH("/sales/:id/notified", anyRole, salesH.MarkNotified)

		// Products — both roles read, admin writes
		v1.GET("/products", anyRole, productsH.List)
		v1.GET("/products/categories", anyRole, productsH.Categories)
		v1.GET("/products/barcode/:barcode", anyRole, productsH.GetByBarcode)
		v1.GET("/products/:id", anyRole, productsH.GetByID)
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Delete)
			prods.PATCH("/:id/deactivate", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		// Stock ledger — admin only
		stock := v1.Group("/stock", adminOnly)
		{
			stock.POST("/in", stockH.StockIn)
			stock.PATCH("/:id/adjust", stockH.Adjust)
			stock.GET("/history", stockH.History)
			stock.GET("/low", stockH.LowStock)
		}

		// Reports — admin only
		reports := v1.Group("/reports", adminOnly)
		{
			reports.GET("/daily", reportsH.Daily)
			reports.GET("/monthly", reportsH.Monthly)
			reports.GET("/profit", reportsH.Profit)
			reports.GET("/top-products", reportsH.TopProducts)
			reports.GET("/stock-value", reportsH.StockValue)
			reports.GET("/dashboard", reportsH.Dashboard)
		}

		// Users — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.DELETE("/:id", authH.DeactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
