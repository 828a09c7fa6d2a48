package router

import (
	histsvc "folio-backend/internal/application/history"
	holdsvc "folio-backend/internal/application/holdings"
	retsvc "folio-backend/internal/application/returns"
	secsvc "folio-backend/internal/application/securities"
	tradesvc "folio-backend/internal/application/trades"
	"folio-backend/internal/config"
	healthsvc "folio-backend/internal/health"
	"folio-backend/internal/infrastructure/cache"
	"folio-backend/internal/infrastructure/database"
	healthhandler "folio-backend/internal/interfaces/handlers/health"
	histhandler "folio-backend/internal/interfaces/handlers/history"
	holdhandler "folio-backend/internal/interfaces/handlers/holdings"
	rethandler "folio-backend/internal/interfaces/handlers/returns"
	sechandler "folio-backend/internal/interfaces/handlers/securities"
	tradehandler "folio-backend/internal/interfaces/handlers/trades"
	"folio-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. db and rdb are returned so main can verify connectivity
// before listening; either may be nil when not configured.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(cors.New())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	healthHandlers := &healthhandler.Handlers{
		Service: &healthsvc.Service{DB: db, Rdb: rdb},
	}
	app.Get("/health", healthHandlers.JSON)

	if db != nil {
		holdingsCache := &cache.HoldingsCache{Rdb: rdb, TTL: cfg.HoldingsCacheTTL}

		securityService := &secsvc.Service{DB: db, Cache: holdingsCache}
		securityHandlers := &sechandler.Handlers{Service: securityService}
		securityGroup := app.Group("/api/v1/securities")
		securityGroup.Post("/", securityHandlers.CreateSecurity)
		securityGroup.Get("/", securityHandlers.ListSecurities)
		securityGroup.Get("/:id", securityHandlers.GetSecurity)
		securityGroup.Patch("/:id", securityHandlers.UpdateSecurity)
		securityGroup.Delete("/:id", securityHandlers.DeactivateSecurity)

		tradeService := &tradesvc.Service{DB: db, Cache: holdingsCache}
		tradeHandlers := &tradehandler.Handlers{Service: tradeService}
		tradeGroup := app.Group("/api/v1/trades")
		tradeGroup.Post("/", tradeHandlers.CreateTrade)
		tradeGroup.Get("/", tradeHandlers.ListTrades)
		tradeGroup.Get("/:id", tradeHandlers.GetTrade)

		holdingsService := &holdsvc.Service{DB: db, Cache: holdingsCache}
		holdingsHandlers := &holdhandler.Handlers{Service: holdingsService}
		app.Get("/api/v1/holdings", holdingsHandlers.ListHoldings)

		returnsService := &retsvc.Service{Holdings: holdingsService}
		returnsHandlers := &rethandler.Handlers{
			Service:               returnsService,
			DefaultReferencePrice: cfg.ReferencePrice,
		}
		app.Get("/api/v1/returns", returnsHandlers.ListReturns)

		historyService := &histsvc.Service{DB: db}
		historyHandlers := &histhandler.Handlers{Service: historyService}
		app.Get("/api/v1/history", historyHandlers.ListHistory)
	}

	return app, db, rdb, nil
}
