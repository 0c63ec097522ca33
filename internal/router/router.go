package router

import (
	"time"

	"github.com/arnesssr/nextpms-sub000/internal/config"
	"github.com/arnesssr/nextpms-sub000/internal/handler"
	"github.com/arnesssr/nextpms-sub000/internal/middleware"
	"github.com/arnesssr/nextpms-sub000/internal/repository"
	"github.com/arnesssr/nextpms-sub000/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	lowMargin := decimal.NewFromFloat(cfg.LowMarginThreshold)
	overhead := decimal.NewFromFloat(cfg.DefaultOverheadPct)

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewPriceHistoryRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	calculationRepo := repository.NewSavedCalculationRepository(db)
	discountRepo := repository.NewDiscountRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	pricingSvc := service.NewPricingService(productRepo, historyRepo, rdb, lowMargin, overhead)
	bulkSvc := service.NewBulkService(productRepo, historyRepo, rdb, lowMargin)
	calculatorSvc := service.NewCalculatorService(calculationRepo)
	discountSvc := service.NewDiscountService(discountRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	pricesH := handler.NewPricesHandler(productRepo, pricingSvc, rdb,
		time.Duration(cfg.PriceCacheTTLMinutes)*time.Minute)
	bulkH := handler.NewBulkHandler(bulkSvc)
	historyH := handler.NewPriceHistoryHandler(historyRepo)
	calculatorH := handler.NewCalculatorHandler(calculatorSvc)
	discountsH := handler.NewDiscountsHandler(discountSvc)
	categoriesH := handler.NewCategoriesHandler(categoryRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Price lookup — no auth required, cached aggressively
	r.GET("/v1/prices/:product_id", pricesH.GetPrice)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: viewer, manager, admin — declared per-endpoint
		readRoles := middleware.RequireRole("viewer", "manager", "admin")
		writeRoles := middleware.RequireRole("manager", "admin")

		v1.GET("/prices/analytics", readRoles, pricesH.GetAnalytics)
		v1.POST("/prices/update", writeRoles, pricesH.UpdatePrice)

		bulk := v1.Group("/bulk", writeRoles)
		{
			bulk.POST("/preview", bulkH.Preview)
			bulk.POST("/commit", bulkH.Commit)
		}

		hist := v1.Group("/price-history", readRoles)
		{
			hist.GET("/recent", historyH.ListRecent)
			hist.GET("/stats", historyH.Stats)
			hist.GET("/:product_id", historyH.ListByProduct)
		}

		// Calculators are stateless — any authenticated user may run them
		calc := v1.Group("/calculator")
		{
			calc.POST("/single", calculatorH.CalculateSingle)
			calc.POST("/competitor", calculatorH.AnalyzeCompetitor)
			calc.POST("/strategy", calculatorH.CalculateStrategy)
			calc.POST("/break-even", calculatorH.BreakEven)
		}

		calcs := v1.Group("/calculations")
		{
			calcs.POST("", calculatorH.SaveCalculation)
			calcs.GET("", calculatorH.ListCalculations)
			calcs.DELETE("/:id", calculatorH.DeleteCalculation)
		}

		v1.GET("/discounts", readRoles, discountsH.List)
		v1.GET("/discounts/:id", readRoles, discountsH.Get)
		v1.POST("/discounts/:id/applicability", readRoles, discountsH.CheckApplicability)
		discounts := v1.Group("/discounts", writeRoles)
		{
			discounts.POST("", discountsH.Create)
			discounts.PUT("/:id", discountsH.Update)
			discounts.DELETE("/:id", discountsH.Deactivate)
		}

		v1.GET("/categories", readRoles, categoriesH.List)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
