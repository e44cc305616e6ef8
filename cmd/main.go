package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SimStudio-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SimStudio-BookingService/internal/api/handlers/create_booking"
	getAvailableSessionsHandler "github.com/m04kA/SimStudio-BookingService/internal/api/handlers/get_available_sessions"
	getBookingHandler "github.com/m04kA/SimStudio-BookingService/internal/api/handlers/get_booking"
	getCreditBalanceHandler "github.com/m04kA/SimStudio-BookingService/internal/api/handlers/get_credit_balance"
	getUserBookingsHandler "github.com/m04kA/SimStudio-BookingService/internal/api/handlers/get_user_bookings"
	"github.com/m04kA/SimStudio-BookingService/internal/api/middleware"
	"github.com/m04kA/SimStudio-BookingService/internal/config"
	bookingRepo "github.com/m04kA/SimStudio-BookingService/internal/infra/storage/booking"
	calendarRepo "github.com/m04kA/SimStudio-BookingService/internal/infra/storage/calendar"
	coachRepo "github.com/m04kA/SimStudio-BookingService/internal/infra/storage/coach"
	creditsRepo "github.com/m04kA/SimStudio-BookingService/internal/infra/storage/credits"
	userServiceClient "github.com/m04kA/SimStudio-BookingService/internal/integrations/userservice"
	"github.com/m04kA/SimStudio-BookingService/internal/jobs/sweeper"
	bookingsService "github.com/m04kA/SimStudio-BookingService/internal/service/bookings"
	creditsService "github.com/m04kA/SimStudio-BookingService/internal/service/credits"
	allocateBookingUC "github.com/m04kA/SimStudio-BookingService/internal/usecase/allocate_booking"
	cancelBookingUC "github.com/m04kA/SimStudio-BookingService/internal/usecase/cancel_booking"
	generateSessionsUC "github.com/m04kA/SimStudio-BookingService/internal/usecase/generate_sessions"
	"github.com/m04kA/SimStudio-BookingService/pkg/dbmetrics"
	"github.com/m04kA/SimStudio-BookingService/pkg/logger"
	"github.com/m04kA/SimStudio-BookingService/pkg/metrics"
	"github.com/m04kA/SimStudio-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/SimStudio-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SimStudio-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Таймзона студии: расписание и слоты считаются в её локальном времени
	studioLoc, err := cfg.Studio.Location()
	if err != nil {
		log.Fatal("Failed to load studio timezone %q: %v", cfg.Studio.Timezone, err)
	}
	log.Info("Studio timezone: %s", studioLoc)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционного клиента
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		calendarRepository *calendarRepo.Repository
		coachRepository    *coachRepo.Repository
		creditsRepository  *creditsRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		calendarRepository = calendarRepo.NewRepository(wrappedDB)
		coachRepository = coachRepo.NewRepository(wrappedDB)
		creditsRepository = creditsRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		calendarRepository = calendarRepo.NewRepository(db)
		coachRepository = coachRepo.NewRepository(db)
		creditsRepository = creditsRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	creditsSvc := creditsService.NewService(creditsRepository, log)

	// Бизнес-метрики use cases: nil-интерфейсы, когда сбор метрик выключен
	var allocMetrics allocateBookingUC.Metrics
	var cancelMetrics cancelBookingUC.Metrics
	if cfg.Metrics.Enabled {
		allocMetrics = metricsCollector
		cancelMetrics = metricsCollector
	}

	// Инициализируем use cases
	generateSessionsUseCase := generateSessionsUC.NewUseCase(
		calendarRepository,
		coachRepository,
		bookingRepository,
		log,
	)

	allocateBookingUseCase := allocateBookingUC.NewUseCase(
		bookingRepository,
		calendarRepository,
		coachRepository,
		creditsRepository,
		userClient,
		txMgr,
		allocMetrics,
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		creditsRepository,
		txMgr,
		cancelMetrics,
		log,
	)

	// Инициализируем handlers
	getAvailableSessions := getAvailableSessionsHandler.NewHandler(generateSessionsUseCase, studioLoc, log)
	createBooking := createBookingHandler.NewHandler(allocateBookingUseCase, studioLoc, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getCreditBalance := getCreditBalanceHandler.NewHandler(creditsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные сессии по горизонту дат
	api.HandleFunc("/sessions", getAvailableSessions.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// Кредитный баланс пользователя
	protected.HandleFunc("/users/{userId}/credits", getCreditBalance.Handle).Methods(http.MethodGet)

	// Фоновые задачи жизненного цикла бронирований
	var bookingSweeper *sweeper.Sweeper
	if cfg.Sweeper.Enabled {
		bookingSweeper = sweeper.New(
			bookingRepository,
			studioLoc,
			time.Duration(cfg.Sweeper.PendingPaymentTTLMinutes)*time.Minute,
			log,
		)
		if err := bookingSweeper.Start(cfg.Sweeper.Schedule); err != nil {
			log.Fatal("Failed to start sweeper: %v", err)
		}
	}

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

	// Останавливаем фоновые задачи
	if bookingSweeper != nil {
		bookingSweeper.Stop()
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
