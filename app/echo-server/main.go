package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpmetrics "smartCatalog/app/echo-server/metrics"
	"smartCatalog/app/echo-server/router"
	"smartCatalog/business/catalog"
	"smartCatalog/business/conversation"
	"smartCatalog/business/personalization"
	"smartCatalog/business/product"
	"smartCatalog/business/recommend"
	"smartCatalog/domain"
	"smartCatalog/internal/middleware"
	memRepo "smartCatalog/internal/repository/memory"
	psqlRepo "smartCatalog/internal/repository/postgres"
	redisRepo "smartCatalog/internal/repository/redis"
	"smartCatalog/internal/rest"
	"smartCatalog/pkg/config"
	"smartCatalog/pkg/database"
	redisdb "smartCatalog/pkg/database/redis"
	"smartCatalog/pkg/logger"
	"smartCatalog/pkg/metrics"
	"smartCatalog/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// productStore is what both the CRUD service and the catalog syncer need.
type productStore interface {
	product.ProductRepository
	catalog.ProductRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Smart Catalog", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()
	httpmetrics.Init()

	engineFile, err := config.LoadEngine(cfg.App.EngineFile)
	if err != nil {
		logger.Fatal("Failed to load engine config", "error", err)
	}
	engineCfg, err := recommend.ConfigFromEngine(engineFile)
	if err != nil {
		logger.Fatal("Invalid engine config", "error", err)
	}
	personalizationCfg, err := personalization.ConfigFromEngine(engineFile)
	if err != nil {
		logger.Fatal("Invalid personalization config", "error", err)
	}

	var db *gorm.DB
	if cfg.NeedsPostgres() {
		db, err = database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		defer database.ClosePostgres(db)
		logger.Info("Database connected successfully")
	}

	var redisClient *goredis.Client
	if cfg.NeedsRedis() {
		redisClient, err = redisdb.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisdb.CloseRedisClient(redisClient)
		logger.Info("Redis connected successfully")
	}

	// Init repo
	var productsRepo productStore
	switch cfg.Catalog.Source {
	case config.StorePostgres:
		productsRepo = psqlRepo.NewProductRepository(db)
	default:
		seed, err := seedProducts(cfg.Catalog.File)
		if err != nil {
			logger.Fatal("Failed to read catalog file", "file", cfg.Catalog.File, "error", err)
		}
		productsRepo = memRepo.NewProductRepository(seed)
	}

	var personalizationStore personalization.Store
	switch cfg.Stores.Personalization {
	case config.StorePostgres:
		personalizationStore = psqlRepo.NewPersonalizationRepository(db)
	default:
		personalizationStore = memRepo.NewPersonalizationStore()
	}

	var conversationStore conversation.Store
	var revocations middleware.RevocationChecker
	switch cfg.Stores.Conversation {
	case config.StoreRedis:
		conversationStore = redisRepo.NewConversationRepository(redisClient, cfg.Stores.ConversationTTL)
		revocations = redisRepo.NewTokenRepository(redisClient)
	default:
		conversationStore = memRepo.NewConversationStore()
	}

	// Init service
	holder := catalog.NewHolder()
	syncer := catalog.NewSyncer(productsRepo, holder)
	adapter := personalization.NewAdapter(personalizationStore, personalizationCfg)
	recommendService := recommend.NewService(holder, adapter, engineCfg)
	productService := product.NewProductService(productsRepo)
	conversationService := conversation.NewService(conversationStore, cfg.Stores.MaxMessages, cfg.Stores.ConversationTTL)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	// /healthz and the engine answer 503 until the first refresh publishes a snapshot
	go syncer.Run(bgCtx, cfg.Catalog.RefreshInterval)
	go conversationService.RunJanitor(bgCtx, cfg.Stores.JanitorInterval)
	go adapter.RunJanitor(bgCtx, cfg.Stores.JanitorInterval)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(recommendService, cfg.Server.RequestTimeout)
	productHandler := rest.NewProductHandler(productService)
	catalogAdminHandler := rest.NewCatalogAdminHandler(syncer)
	conversationHandler := rest.NewConversationHandler(conversationService)
	preferenceHandler := rest.NewPreferenceHandler(adapter, cfg.Server.RequestTimeout)
	healthHandler := rest.NewHealthHandler(holder, adapter)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.TraceID())
	e.Use(httpmetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	authRequired := middleware.AuthMiddleware(revocations)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupRecommendationRoutes(api, recommendationHandler, authRequired)
	router.SetupProductRoutes(api, productHandler, authRequired, adminOnly)
	router.SetupCatalogAdminRoutes(api, catalogAdminHandler, authRequired, adminOnly)
	router.SetupConversationRoutes(api, conversationHandler, authRequired)
	router.SetupPreferenceRoutes(api, preferenceHandler, authRequired)
	router.SetupOpsRoutes(e, healthHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}

func seedProducts(path string) ([]domain.Product, error) {
	candidates, err := catalog.ReadCandidatesFile(path)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(candidates))
	for _, c := range candidates {
		p, err := domain.ProductFromCandidate(c)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %s: %w", c.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}
