package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"solecare-backend/internal/auth"
	"solecare-backend/internal/cache"
	"solecare-backend/internal/config"
	"solecare-backend/internal/database"
	"solecare-backend/internal/db"
	"solecare-backend/internal/events"
	"solecare-backend/internal/handlers"
	"solecare-backend/internal/health"
	h "solecare-backend/internal/http"
	"solecare-backend/internal/middleware"
	"solecare-backend/internal/models"
	"solecare-backend/internal/repositories"
	"solecare-backend/internal/services"
	"solecare-backend/internal/storage"
	"solecare-backend/internal/timeutil"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; everything falls back to the database
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (continuing without cache)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	serviceRepo := repositories.NewServiceRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	branchRepo := repositories.NewBranchRepository(pool)
	transactionRepo := repositories.NewTransactionRepository(pool)
	lineItemRepo := repositories.NewLineItemRepository(pool)
	lineItemEventRepo := repositories.NewLineItemEventRepository(pool)
	paymentRepo := repositories.NewPaymentRecordRepository(pool)
	appointmentRepo := repositories.NewAppointmentRepository(pool)
	settingRepo := repositories.NewSystemSettingRepository(pool)

	// Change feed for live queue views
	bus := events.NewBus()
	hub := events.NewHub(bus)
	go hub.Run()

	// Export archive bucket (optional)
	var uploader *storage.Uploader
	if cfg.Archive.Enabled {
		var err error
		uploader, err = storage.NewUploader(context.Background(),
			cfg.Archive.AccessKey, cfg.Archive.SecretKey,
			cfg.Archive.Endpoint, cfg.Archive.Bucket, cfg.Archive.Region)
		if err != nil {
			log.Printf("[Storage] Export archiving disabled: %v", err)
			uploader = nil
		} else {
			log.Println("[Storage] Export archiving enabled")
		}
	}

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	catalogService := services.NewCatalogService(serviceRepo)
	transactionService := services.NewTransactionService(transactionRepo, lineItemRepo, settingRepo, catalogService, bus)
	pipelineService := services.NewPipelineService(lineItemRepo, lineItemEventRepo, transactionRepo, bus)
	receiptService := services.NewReceiptService("SoleCare Shoe Care & Repair", "Quezon City, Metro Manila")
	paymentService := services.NewPaymentService(transactionRepo, lineItemRepo, paymentRepo, receiptService, bus)
	appointmentService := services.NewAppointmentService(appointmentRepo, bus)
	reportService := services.NewReportService(transactionRepo, branchRepo, uploader)
	nameResolver := services.NewNameResolver(transactionRepo, customerRepo, branchRepo, cache.NewMemoryStore(4096))

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	customerHandler := handlers.NewCustomerHandler(customerRepo)
	branchHandler := handlers.NewBranchHandler(branchRepo)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	pipelineHandler := handlers.NewPipelineHandler(pipelineService, settingRepo, nameResolver)
	paymentHandler := handlers.NewPaymentHandler(paymentService, receiptService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	reportHandler := handlers.NewReportHandler(reportService)
	settingHandler := handlers.NewSystemSettingHandler(settingRepo)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)
	healthChecker := health.NewChecker(pool)

	// Daily storage-fee accrual at midnight business time
	go runDailyAccrual(pipelineService, settingRepo)

	router := h.NewRouter(
		authHandler,
		catalogHandler,
		customerHandler,
		branchHandler,
		transactionHandler,
		pipelineHandler,
		paymentHandler,
		appointmentHandler,
		reportHandler,
		settingHandler,
		healthChecker,
		hub,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// runDailyAccrual sleeps until the next local midnight, runs the storage-fee
// accrual, then repeats. Missed runs after downtime can be triggered via the
// admin endpoint.
func runDailyAccrual(pipelineService *services.PipelineService, settingRepo *repositories.SystemSettingRepository) {
	for {
		now := timeutil.Now()
		next := timeutil.StartOfDay(now).AddDate(0, 0, 1)
		time.Sleep(next.Sub(now))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		graceDays := settingRepo.GetInt(ctx, models.SettingStorageGraceDays, services.DefaultStorageGraceDays)
		ratePerDay := settingRepo.GetFloat(ctx, models.SettingStorageFeePerDay, services.DefaultStorageFeePerDay)
		if _, err := pipelineService.AccrueStorageFees(ctx, graceDays, ratePerDay); err != nil {
			log.Printf("[Accrual] daily run failed: %v", err)
		}
		cancel()
	}
}
