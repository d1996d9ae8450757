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

	cancelBookingHandler "github.com/m04kA/SMC-HallBooking/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-HallBooking/internal/api/handlers/create_booking"
	exportHallCalendarHandler "github.com/m04kA/SMC-HallBooking/internal/api/handlers/export_hall_calendar"
	getAvailableSlotsHandler "github.com/m04kA/SMC-HallBooking/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-HallBooking/internal/api/handlers/get_booking"
	getHallScheduleHandler "github.com/m04kA/SMC-HallBooking/internal/api/handlers/get_hall_schedule"
	getUserBookingsHandler "github.com/m04kA/SMC-HallBooking/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/SMC-HallBooking/internal/api/handlers/list_bookings"
	listHallsHandler "github.com/m04kA/SMC-HallBooking/internal/api/handlers/list_halls"
	updateBookingStatusHandler "github.com/m04kA/SMC-HallBooking/internal/api/handlers/update_booking_status"
	validateBookingHandler "github.com/m04kA/SMC-HallBooking/internal/api/handlers/validate_booking"
	"github.com/m04kA/SMC-HallBooking/internal/api/middleware"
	"github.com/m04kA/SMC-HallBooking/internal/config"
	"github.com/m04kA/SMC-HallBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HallBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-HallBooking/internal/infra/storage/migrations"
	notifierClient "github.com/m04kA/SMC-HallBooking/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-HallBooking/internal/service/bookings"
	createBookingUC "github.com/m04kA/SMC-HallBooking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-HallBooking/internal/usecase/get_available_slots"
	validateBookingUC "github.com/m04kA/SMC-HallBooking/internal/usecase/validate_booking"
	"github.com/m04kA/SMC-HallBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-HallBooking/pkg/logger"
	"github.com/m04kA/SMC-HallBooking/pkg/metrics"
	"github.com/m04kA/SMC-HallBooking/pkg/txmanager"
)

// bookingNotifier объединяет контракты уведомлений use case создания и сервиса бронирований
type bookingNotifier interface {
	NotifyBookingCreated(ctx context.Context, booking *domain.Booking) error
	NotifyStatusChanged(ctx context.Context, booking *domain.Booking) error
}

func main() {
	configPath := "config.toml"
	if p, ok := os.LookupEnv("HALLBOOKING_CONFIG"); ok && p != "" {
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

	log.Info("Starting SMC-HallBooking...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции схемы
	if cfg.Database.MigrateOnStart {
		if err := migrations.Up(db, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Обёртка над БД: с метриками запросов и pool или без них
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}

	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем клиент уведомлений
	var notifier bookingNotifier = notifierClient.Nop{}
	if cfg.Notifier.Enabled {
		notifier = notifierClient.NewClient(
			cfg.Notifier.URL,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
		log.Info("Notifier client initialized (url=%s timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)
	}

	// Метрики решений валидатора передаём только если они включены,
	// иначе в use case попал бы интерфейс с nil-указателем
	var verdictMetrics createBookingUC.MetricsRecorder
	if metricsCollector != nil {
		verdictMetrics = metricsCollector
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, notifier, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		notifier,
		verdictMetrics,
		txMgr,
		log,
	)
	validateBookingUseCase := validateBookingUC.NewUseCase(bookingRepository, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(bookingRepository, log)

	// Инициализируем handlers
	listHalls, err := listHallsHandler.NewHandler(log)
	if err != nil {
		log.Fatal("Failed to build halls response: %v", err)
	}
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	validateBooking := validateBookingHandler.NewHandler(validateBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getHallSchedule := getHallScheduleHandler.NewHandler(bookingSvc, log)
	exportHallCalendar := exportHallCalendarHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Справочник залов и часы работы
	api.HandleFunc("/halls", listHalls.Handle).Methods(http.MethodGet)

	// Свободные окна зала на день
	api.HandleFunc("/halls/{hallId}/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerMinute,
			cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.IdleTTL)*time.Second,
			log,
		)
		protected.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (%d req/min, burst %d)", cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Предварительная проверка заявки без записи
	protected.HandleFunc("/bookings/validate", validateBooking.Handle).Methods(http.MethodPost)

	// Мои бронирования (до /bookings/{bookingId})
	protected.HandleFunc("/bookings/my", getUserBookings.Handle).Methods(http.MethodGet)

	// Список бронирований с фильтрами (для сотрудников)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Смена статуса (для сотрудников)
	protected.HandleFunc("/bookings/{bookingId:[0-9]+}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Расписание зала на день
	protected.HandleFunc("/halls/{hallId}/bookings", getHallSchedule.Handle).Methods(http.MethodGet)

	// Выгрузка бронирований зала в iCalendar
	protected.HandleFunc("/halls/{hallId}/calendar.ics", exportHallCalendar.Handle).Methods(http.MethodGet)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
