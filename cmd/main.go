package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	calculatePriceHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/calculate_price"
	cancelBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_booking"
	createChargeHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_charge"
	createPricingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_pricing"
	createSiteHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/create_site"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_booking"
	getSiteHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_site"
	getSiteBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_site_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/get_user_bookings"
	healthHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/health"
	listSitesHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/list_sites"
	searchSitesHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/search_sites"
	updateSiteCapacityHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/update_site_capacity"
	verifyPaymentHandler "github.com/m04kA/SMC-ParkingService/internal/api/handlers/verify_payment"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/booking"
	chargeRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/charge"
	locationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/location"
	outboxRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/outbox"
	pricingRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/pricing"
	siteRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/site"
	"github.com/m04kA/SMC-ParkingService/internal/integrations/razorpay"
	bookingsService "github.com/m04kA/SMC-ParkingService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-ParkingService/internal/service/catalog"
	"github.com/m04kA/SMC-ParkingService/internal/service/pricing"
	calculatePriceUC "github.com/m04kA/SMC-ParkingService/internal/usecase/calculate_price"
	createBookingUC "github.com/m04kA/SMC-ParkingService/internal/usecase/create_booking"
	expireBookingsUC "github.com/m04kA/SMC-ParkingService/internal/usecase/expire_bookings"
	getAvailableSlotsUC "github.com/m04kA/SMC-ParkingService/internal/usecase/get_available_slots"
	verifyPaymentUC "github.com/m04kA/SMC-ParkingService/internal/usecase/verify_payment"
	"github.com/m04kA/SMC-ParkingService/internal/worker"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/jwtauth"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/mq"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

const (
	expiryLockKey    = "parking:lock:expiry"
	outboxStaleAfter = 5 * time.Minute
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("PARKING_CONFIG"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ParkingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики (nil, если выключены: все методы безопасны для nil)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Redis (идемпотентность, rate limit, блокировка чистильщика)
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		cancel()
		log.Info("Successfully connected to redis (addr=%s)", cfg.Redis.Addr)
	} else {
		log.Warn("Redis disabled: idempotency keys are not honoured, rate limit is per instance")
	}

	// Брокер событий
	var publisher worker.Publisher
	if cfg.RabbitMQ.Enabled {
		mqPublisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		defer mqPublisher.Close()
		publisher = mqPublisher
		log.Info("RabbitMQ publisher ready (exchange=%s)", cfg.RabbitMQ.Exchange)
	} else {
		publisher = worker.NewLogPublisher(log)
		log.Warn("RabbitMQ disabled: outbox events are written to the log")
	}

	// Платежный шлюз
	gateway := razorpay.NewClient(
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		time.Duration(cfg.Razorpay.Timeout)*time.Second,
		log,
	)
	log.Info("Razorpay client initialized (currency=%s, timeout=%ds)", cfg.Razorpay.Currency, cfg.Razorpay.Timeout)

	// Правила расчета цены
	policy, err := pricing.ParsePolicy(cfg.Pricing.MissingTierPolicy, cfg.Pricing.UnknownChargePolicy)
	if err != nil {
		log.Fatal("Invalid pricing policy: %v", err)
	}
	engine := pricing.NewEngine(policy)

	location, err := cfg.Pricing.Location()
	if err != nil {
		log.Fatal("Invalid timezone %q: %v", cfg.Pricing.Timezone, err)
	}

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	siteRepository := siteRepo.NewRepository(wrappedDB)
	locationRepository := locationRepo.NewRepository(wrappedDB)
	pricingRepository := pricingRepo.NewRepository(wrappedDB)
	chargeRepository := chargeRepo.NewRepository(wrappedDB)
	outboxRepository := outboxRepo.NewRepository(wrappedDB)

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	catalogSvc := catalogService.NewService(
		locationRepository,
		siteRepository,
		pricingRepository,
		chargeRepository,
		txMgr,
		log,
	)

	// Use cases
	calculatePriceUseCase := calculatePriceUC.NewUseCase(
		siteRepository,
		pricingRepository,
		chargeRepository,
		engine,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		siteRepository,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		siteRepository,
		pricingRepository,
		chargeRepository,
		gateway,
		engine,
		txMgr,
		metricsCollector,
		log,
		cfg.Razorpay.Currency,
		cfg.Pricing.QuoteTolerance,
	)
	verifyPaymentUseCase := verifyPaymentUC.NewUseCase(
		bookingRepository,
		outboxRepository,
		gateway,
		txMgr,
		metricsCollector,
		log,
	)
	expireBookingsUseCase := expireBookingsUC.NewUseCase(
		bookingRepository,
		gateway,
		txMgr,
		metricsCollector,
		log,
		cfg.Booking.PaymentWindow(),
		cfg.Workers.ExpiryBatchSize,
	)

	// Handlers
	searchSites := searchSitesHandler.NewHandler(catalogSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	calculatePrice := calculatePriceHandler.NewHandler(calculatePriceUseCase, location, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, location, log)
	verifyPayment := verifyPaymentHandler.NewHandler(verifyPaymentUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getSiteBookings := getSiteBookingsHandler.NewHandler(bookingSvc, location, log)
	createSite := createSiteHandler.NewHandler(catalogSvc, log)
	listSites := listSitesHandler.NewHandler(catalogSvc, log)
	getSite := getSiteHandler.NewHandler(catalogSvc, log)
	updateSiteCapacity := updateSiteCapacityHandler.NewHandler(catalogSvc, log)
	createPricing := createPricingHandler.NewHandler(catalogSvc, log)
	createCharge := createChargeHandler.NewHandler(catalogSvc, log)
	health := healthHandler.NewHandler(wrappedDB, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix; токен необязателен, но если передан, должен быть валиден
	tokens := jwtauth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(tokens, log))

	// ============================================================
	// PUBLIC ROUTES (rate limit по IP клиента)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		rateLimit, err := middleware.RateLimit(cfg.RateLimit.Rate, cfg.RateLimit.TrustForwardHeader, redisClient, log)
		if err != nil {
			log.Fatal("Invalid rate limit %q: %v", cfg.RateLimit.Rate, err)
		}
		public.Use(rateLimit)
		log.Info("Rate limit enabled (%s)", cfg.RateLimit.Rate)
	}

	// --- Каталог и расчет цены ---
	public.HandleFunc("/sites/search", searchSites.Handle).Methods(http.MethodGet)
	public.HandleFunc("/sites/{siteId}/availability", getAvailableSlots.Handle).Methods(http.MethodGet)
	public.HandleFunc("/price/calculate", calculatePrice.Handle).Methods(http.MethodPost)

	// --- Бронирование и оплата ---
	var bookHandler http.Handler = http.HandlerFunc(createBooking.Handle)
	if redisClient != nil {
		ttl := time.Duration(cfg.Booking.IdempotencyTTL) * time.Second
		bookHandler = middleware.Idempotency(redisClient, ttl, metricsCollector, log)(bookHandler)
	}
	public.Handle("/book/", bookHandler).Methods(http.MethodPost)
	public.HandleFunc("/payment/verify/", verifyPayment.Handle).Methods(http.MethodPost)

	public.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	public.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	public.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// ADMIN ROUTES (JWT с ролью admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin(log))

	admin.HandleFunc("/sites", createSite.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/sites", listSites.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/sites/{siteId}", getSite.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/sites/{siteId}/capacity", updateSiteCapacity.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/sites/{siteId}/bookings", getSiteBookings.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/pricing", createPricing.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/charges", createCharge.Handle).Methods(http.MethodPost)

	// Фоновые задачи
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	var expiryLock worker.Locker = worker.NoopLock{}
	expiryInterval := time.Duration(cfg.Workers.ExpiryInterval) * time.Second
	if redisClient != nil {
		expiryLock = worker.NewRedisLock(redisClient, expiryLockKey, cfg.Workers.ExpiryLockDuration())
	}
	expiry := worker.NewExpiryWorker(expireBookingsUseCase, expiryLock, expiryInterval, cfg.Workers.ExpirySweepTimeout(), log)

	relay := worker.NewOutboxRelay(outboxRepository, publisher, metricsCollector, worker.RelayConfig{
		Interval:    time.Duration(cfg.Workers.RelayInterval) * time.Second,
		BatchSize:   cfg.Workers.RelayBatchSize,
		MaxAttempts: cfg.Workers.RelayMaxAttempts,
		StaleAfter:  outboxStaleAfter,
	}, log)

	wg.Add(2)
	go func() {
		defer wg.Done()
		expiry.Run(workersCtx)
	}()
	go func() {
		defer wg.Done()
		relay.Run(workersCtx)
	}()

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopWorkers()
	wg.Wait()
	log.Info("Background workers stopped")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
