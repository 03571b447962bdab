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

	abandonBookingHandler "github.com/bbconnect/BBC-BookingService/internal/api/handlers/abandon_booking"
	createBookingHandler "github.com/bbconnect/BBC-BookingService/internal/api/handlers/create_booking"
	createBroadcastHandler "github.com/bbconnect/BBC-BookingService/internal/api/handlers/create_broadcast"
	dismissNotificationHandler "github.com/bbconnect/BBC-BookingService/internal/api/handlers/dismiss_notification"
	getBookingHandler "github.com/bbconnect/BBC-BookingService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/bbconnect/BBC-BookingService/internal/api/handlers/get_customer_bookings"
	getNotificationsHandler "github.com/bbconnect/BBC-BookingService/internal/api/handlers/get_notifications"
	getShopBookingsHandler "github.com/bbconnect/BBC-BookingService/internal/api/handlers/get_shop_bookings"
	getShopRequestsHandler "github.com/bbconnect/BBC-BookingService/internal/api/handlers/get_shop_requests"
	getSlotCalendarHandler "github.com/bbconnect/BBC-BookingService/internal/api/handlers/get_slot_calendar"
	respondBookingHandler "github.com/bbconnect/BBC-BookingService/internal/api/handlers/respond_booking"
	"github.com/bbconnect/BBC-BookingService/internal/api/middleware"
	"github.com/bbconnect/BBC-BookingService/internal/config"
	bookingRepo "github.com/bbconnect/BBC-BookingService/internal/infra/storage/booking"
	notificationRepo "github.com/bbconnect/BBC-BookingService/internal/infra/storage/notification"
	paymentGatewayClient "github.com/bbconnect/BBC-BookingService/internal/integrations/paymentgateway"
	bookingsService "github.com/bbconnect/BBC-BookingService/internal/service/bookings"
	notificationsService "github.com/bbconnect/BBC-BookingService/internal/service/notifications"
	"github.com/bbconnect/BBC-BookingService/internal/sweeper"
	createBookingUC "github.com/bbconnect/BBC-BookingService/internal/usecase/create_booking"
	getSlotCalendarUC "github.com/bbconnect/BBC-BookingService/internal/usecase/get_slot_calendar"
	"github.com/bbconnect/BBC-BookingService/migrations"
	"github.com/bbconnect/BBC-BookingService/pkg/dbmetrics"
	"github.com/bbconnect/BBC-BookingService/pkg/logger"
	"github.com/bbconnect/BBC-BookingService/pkg/metrics"
	"github.com/bbconnect/BBC-BookingService/pkg/simpletxmanager"
	"github.com/bbconnect/BBC-BookingService/pkg/txmanager"
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

	log.Info("Starting BBC-BookingService...")
	log.Info("Configuration loaded from config.toml")

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

	// Применяем миграции
	if err := migrations.Apply(context.Background(), db); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// Инициализируем клиента платежного шлюза
	gatewayClient := paymentGatewayClient.NewClient(
		cfg.PaymentGateway.URL,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Payment gateway client initialized (url=%s, timeout=%ds)",
		cfg.PaymentGateway.URL, cfg.PaymentGateway.Timeout)

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		notificationRepository *notificationRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		notificationRepository = notificationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		notificationRepository = notificationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	timeProvider := &bookingsService.RealTimeProvider{}

	// Инициализируем сервисы
	bookingSvc := bookingsService.New(
		bookingRepository,
		timeProvider,
		log,
	)
	notificationSvc := notificationsService.New(
		bookingRepository,
		notificationRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.New(
		bookingRepository,
		gatewayClient,
		txMgr,
		timeProvider,
		log,
	)
	getSlotCalendarUseCase := getSlotCalendarUC.New(timeProvider)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	respondBooking := respondBookingHandler.NewHandler(bookingSvc, log)
	abandonBooking := abandonBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	getShopBookings := getShopBookingsHandler.NewHandler(bookingSvc, log)
	getShopRequests := getShopRequestsHandler.NewHandler(bookingSvc, log)
	getSlotCalendar := getSlotCalendarHandler.NewHandler(getSlotCalendarUseCase, log)
	getNotifications := getNotificationsHandler.NewHandler(notificationSvc, log)
	dismissNotification := dismissNotificationHandler.NewHandler(notificationSvc, log)
	createBroadcast := createBroadcastHandler.NewHandler(notificationSvc, log)

	// Запускаем фоновый sweeper просроченных холдов
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	escrowSweeper := sweeper.New(
		bookingSvc,
		time.Duration(cfg.Sweeper.Interval)*time.Second,
		sweeperMetrics(metricsCollector),
		log,
	)
	go escrowSweeper.Start(sweeperCtx)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
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

	// Сетка слотов на ближайшие дни
	api.HandleFunc("/slots", getSlotCalendar.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования (удержание средств + запись payment_held)
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Отмена платежного флоу клиентом
	protected.HandleFunc("/bookings/abandon", abandonBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Ответ партнера на запрос бронирования
	protected.HandleFunc("/bookings/{bookingId}/confirm", respondBooking.HandleConfirm).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/decline", respondBooking.HandleDecline).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/customers/me/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет партнера ---
	// Бронирования партнера
	protected.HandleFunc("/shops/{shopId}/bookings", getShopBookings.Handle).Methods(http.MethodGet)

	// Открытые запросы с оставшимся временем на ответ
	protected.HandleFunc("/shops/{shopId}/requests", getShopRequests.Handle).Methods(http.MethodGet)

	// --- Уведомления ---
	protected.HandleFunc("/notifications", getNotifications.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}/dismiss", dismissNotification.Handle).Methods(http.MethodPost)

	// Административные сообщения
	protected.HandleFunc("/broadcasts", createBroadcast.Handle).Methods(http.MethodPost)

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

	// Останавливаем sweeper
	stopSweeper()

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

// noopSweeperMetrics заглушка, когда метрики выключены
type noopSweeperMetrics struct{}

func (noopSweeperMetrics) SweepInc()              {}
func (noopSweeperMetrics) BookingsExpiredAdd(int) {}

func sweeperMetrics(m *metrics.Metrics) sweeper.Metrics {
	if m == nil {
		return noopSweeperMetrics{}
	}
	return m
}
