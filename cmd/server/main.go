package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	catalogapp "github.com/retailcore/backend/internal/application/catalog"
	fiscalapp "github.com/retailcore/backend/internal/application/fiscal"
	"github.com/retailcore/backend/internal/application/importer"
	inventoryapp "github.com/retailcore/backend/internal/application/inventory"
	partyapp "github.com/retailcore/backend/internal/application/party"
	paymentapp "github.com/retailcore/backend/internal/application/payment"
	syncapp "github.com/retailcore/backend/internal/application/sync"
	tradeapp "github.com/retailcore/backend/internal/application/trade"
	workorderapp "github.com/retailcore/backend/internal/application/workorder"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/config"
	"github.com/retailcore/backend/internal/infrastructure/event"
	"github.com/retailcore/backend/internal/infrastructure/ident"
	"github.com/retailcore/backend/internal/infrastructure/logger"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
	syncinfra "github.com/retailcore/backend/internal/infrastructure/sync"
	"github.com/retailcore/backend/internal/interfaces/http/handler"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
	"github.com/retailcore/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	branchID, err := uuid.Parse(cfg.App.BranchID)
	if err != nil {
		log.Fatal("app.branch_id must be a UUID", zap.Error(err))
	}
	stationID, err := uuid.Parse(cfg.App.StationID)
	if err != nil {
		log.Fatal("app.station_id must be a UUID", zap.Error(err))
	}

	log.Info("Starting retail backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("branch", cfg.App.BranchID),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, gormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Every create and update on a synchronized table gets a transaction
	// entry stamp from here on.
	stamper := persistence.NewStamper(branchID, stationID)
	if err := stamper.RegisterCallbacks(db.DB); err != nil {
		log.Fatal("Failed to register stamping callbacks", zap.Error(err))
	}

	identifiers, err := ident.NewSnowflakeFactory(cfg.App.StationID)
	if err != nil {
		log.Fatal("Failed to initialize identifier factory", zap.Error(err))
	}

	eventBus := event.NewInMemoryEventBus(log)

	// Repositories
	personRepo := persistence.NewGormPersonRepository(db.DB)
	locationRepo := persistence.NewGormCityLocationRepository(db.DB)
	sellableRepo := persistence.NewGormSellableRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	storableRepo := persistence.NewGormStorableRepository(db.DB)
	groupRepo := persistence.NewGormGroupRepository(db.DB)
	methodRepo := persistence.NewGormMethodRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	tillRepo := persistence.NewGormTillRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	returnedSaleRepo := persistence.NewGormReturnedSaleRepository(db.DB)
	renegotiationRepo := persistence.NewGormRenegotiationRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	receivingRepo := persistence.NewGormReceivingOrderRepository(db.DB)
	workOrderRepo := persistence.NewGormWorkOrderRepository(db.DB)
	productionRepo := persistence.NewGormProductionOrderRepository(db.DB)
	bookEntryRepo := persistence.NewGormBookEntryRepository(db.DB)
	cfopRepo := persistence.NewGormCFOPRepository(db.DB)
	branchSyncRepo := persistence.NewGormBranchSyncRepository(db.DB)
	quarantineStore := persistence.NewGormQuarantineStore(db.DB)

	// Application services
	personService := partyapp.NewPersonService(personRepo, locationRepo)
	personService.SetEventPublisher(eventBus)
	sellableService := catalogapp.NewSellableService(sellableRepo, categoryRepo, storableRepo)
	inventoryService := inventoryapp.NewInventoryService(storableRepo)
	paymentService := paymentapp.NewPaymentService(groupRepo, paymentRepo, identifiers)
	paymentService.SetEventPublisher(eventBus)
	tillService := paymentapp.NewTillService(tillRepo, paymentRepo, groupRepo)
	tillService.SetEventPublisher(eventBus)
	saleService := tradeapp.NewSaleService(saleRepo, returnedSaleRepo, groupRepo, methodRepo,
		sellableRepo, storableRepo, bookEntryRepo, identifiers)
	saleService.SetEventPublisher(eventBus)
	purchaseService := tradeapp.NewPurchaseService(purchaseRepo, receivingRepo, groupRepo,
		methodRepo, storableRepo, identifiers)
	purchaseService.SetEventPublisher(eventBus)
	renegotiationService := tradeapp.NewRenegotiationService(renegotiationRepo, groupRepo,
		methodRepo, identifiers)
	renegotiationService.SetEventPublisher(eventBus)
	workOrderService := workorderapp.NewWorkOrderService(workOrderRepo, groupRepo, methodRepo,
		sellableRepo, storableRepo, identifiers)
	workOrderService.SetEventPublisher(eventBus)
	productionService := workorderapp.NewProductionService(productionRepo, storableRepo, identifiers)
	bookService := fiscalapp.NewBookService(bookEntryRepo, cfopRepo)
	personImporter := importer.NewPersonImporter(personService, log)
	sellableImporter := importer.NewSellableImporter(sellableService, log)

	// The batch intake endpoint applies peer batches straight to the store.
	registry, err := syncinfra.DefaultRegistry(cfg.Sync.Policies)
	if err != nil {
		log.Fatal("Failed to build table registry", zap.Error(err))
	}
	destination := persistence.NewStoreDestination(db.DB)
	coordinator := syncapp.NewCoordinator(registry, persistence.NewStoreSource(db.DB, branchID), destination,
		branchSyncRepo, quarantineStore, shared.SystemClock{}, log, syncapp.Config{
			Side:          cfg.Sync.SyncSide(),
			BatchSize:     cfg.Params.SyncBatchSize,
			ApplyAttempts: cfg.Sync.ApplyAttempts,
			RetryInterval: cfg.Sync.RetryInterval,
			Interval:      cfg.Sync.Interval,
		})

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORS())
	engine.Use(middleware.RunContext(branchID, stationID, cfg.Params.Parameters(), shared.SystemClock{}, log))

	engine.GET("/health", healthHandler(db))

	r := router.New(engine)
	r.Register(
		handler.NewPersonHandler(personService),
		handler.NewCatalogHandler(sellableService),
		handler.NewInventoryHandler(inventoryService),
		handler.NewPaymentHandler(paymentService),
		handler.NewTillHandler(tillService),
		handler.NewTradeHandler(saleService, purchaseService, renegotiationService),
		handler.NewWorkOrderHandler(workOrderService, productionService),
		handler.NewFiscalHandler(bookService),
		handler.NewImportHandler(personImporter, sellableImporter),
		handler.NewSyncHandler(coordinator, destination),
	)
	r.Setup("v1")

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func gormLogLevel(level string) gormlogger.LogLevel {
	if level == "debug" {
		return gormlogger.Info
	}
	return gormlogger.Warn
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
