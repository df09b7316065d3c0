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
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	checkAvailabilityHandler "github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers/check_availability"
	createAllocationHandler "github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers/create_allocation"
	getAvailableBedsHandler "github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers/get_available_beds"
	getDayScheduleHandler "github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers/get_day_schedule"
	listBedsHandler "github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers/list_beds"
	runReconciliationHandler "github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers/run_reconciliation"
	setBedStatusHandler "github.com/m04kA/O2Spa-SchedulingService/internal/api/handlers/set_bed_status"
	"github.com/m04kA/O2Spa-SchedulingService/internal/api/middleware"
	"github.com/m04kA/O2Spa-SchedulingService/internal/config"
	allocationRepo "github.com/m04kA/O2Spa-SchedulingService/internal/infra/storage/allocation"
	bedRepo "github.com/m04kA/O2Spa-SchedulingService/internal/infra/storage/bed"
	invoiceRepo "github.com/m04kA/O2Spa-SchedulingService/internal/infra/storage/invoice"
	"github.com/m04kA/O2Spa-SchedulingService/internal/scheduler"
	availabilityService "github.com/m04kA/O2Spa-SchedulingService/internal/service/availability"
	reconcilerService "github.com/m04kA/O2Spa-SchedulingService/internal/service/reconciler"
	createAllocationUC "github.com/m04kA/O2Spa-SchedulingService/internal/usecase/create_allocation"
	getDayScheduleUC "github.com/m04kA/O2Spa-SchedulingService/internal/usecase/get_day_schedule"
	"github.com/m04kA/O2Spa-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/O2Spa-SchedulingService/pkg/logger"
	"github.com/m04kA/O2Spa-SchedulingService/pkg/metrics"
	"github.com/m04kA/O2Spa-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/O2Spa-SchedulingService/pkg/txmanager"
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

	log.Info("Starting O2Spa-SchedulingService...")
	log.Info("Configuration loaded from config.toml")

	// Часовой пояс заведения: все границы дня и рабочие окна считаются в нём
	venueLoc, err := cfg.Scheduler.Location()
	if err != nil {
		log.Fatal("Failed to load venue timezone %q: %v", cfg.Scheduler.Timezone, err)
	}

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

	// Инициализируем репозитории (с метриками или без)
	var (
		bedRepository        *bedRepo.Repository
		allocationRepository *allocationRepo.Repository
		invoiceRepository    *invoiceRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bedRepository = bedRepo.NewRepository(wrappedDB)
		allocationRepository = allocationRepo.NewRepository(wrappedDB)
		invoiceRepository = invoiceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bedRepository = bedRepo.NewRepository(db)
		allocationRepository = allocationRepo.NewRepository(db)
		invoiceRepository = invoiceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	scheduleCfg := availabilityService.ScheduleConfig{
		Location:    venueLoc,
		OpenHour:    cfg.Booking.OpenHour,
		CloseHour:   cfg.Booking.CloseHour,
		SlotMinutes: cfg.Booking.SlotMinutes,
	}

	availabilitySvc := availabilityService.NewService(
		bedRepository,
		allocationRepository,
		scheduleCfg,
		log,
	)

	var sweepMetrics reconcilerService.MetricsRecorder = reconcilerService.NopMetrics{}
	if cfg.Metrics.Enabled {
		sweepMetrics = metricsCollector
	}

	reconcilerSvc := reconcilerService.NewService(
		allocationRepository,
		bedRepository,
		invoiceRepository,
		availabilitySvc,
		sweepMetrics,
		log,
	)

	// Инициализируем use cases
	createAllocationUseCase := createAllocationUC.NewUseCase(
		allocationRepository,
		availabilitySvc,
		txMgr,
		log,
	)

	getDayScheduleUseCase := getDayScheduleUC.NewUseCase(availabilitySvc, log)

	// Инициализируем handlers
	listBeds := listBedsHandler.NewHandler(availabilitySvc, log)
	getAvailableBeds := getAvailableBedsHandler.NewHandler(availabilitySvc, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(availabilitySvc, log)
	getDaySchedule := getDayScheduleHandler.NewHandler(getDayScheduleUseCase, log)
	createAllocation := createAllocationHandler.NewHandler(createAllocationUseCase, log)
	setBedStatus := setBedStatusHandler.NewHandler(bedRepository, log)
	runReconciliation := runReconciliationHandler.NewHandler(reconcilerSvc, log)

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

	// Статусные списки кэшируются на короткий TTL: их пересчитывает
	// reconciler, клиенты опрашивают чаще, чем данные меняются
	cacheTTL := time.Duration(cfg.Booking.CacheTTLSeconds) * time.Second
	responseCache := gocache.New(cacheTTL, 2*cacheTTL)
	cached := middleware.Cache(responseCache, cacheTTL)

	// Список кроватей с текущими статусами
	api.Handle("/beds", cached(http.HandlerFunc(listBeds.Handle))).Methods(http.MethodGet)

	// Свободные кровати в заданном окне
	api.Handle("/beds/available", cached(http.HandlerFunc(getAvailableBeds.Handle))).Methods(http.MethodGet)

	// Проверка доступности кровати в окне
	api.HandleFunc("/beds/{bedId}/availability", checkAvailability.Handle).Methods(http.MethodGet)

	// Дневное расписание кровати
	api.HandleFunc("/beds/{bedId}/schedule", getDaySchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание брони
	protected.HandleFunc("/allocations", createAllocation.Handle).Methods(http.MethodPost)

	// Ручная смена статуса кровати (maintenance и обратно)
	protected.HandleFunc("/beds/{bedId}/status", setBedStatus.Handle).Methods(http.MethodPatch)

	// Ручной запуск reconciliation
	protected.HandleFunc("/reconciliation/run", runReconciliation.Handle).Methods(http.MethodPost)

	// Планировщик периодического sweep-а
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		cronScheduler, err = scheduler.New(cfg.Scheduler.Spec, venueLoc, reconcilerSvc, log)
		if err != nil {
			log.Fatal("Failed to initialize scheduler: %v", err)
		}
		cronScheduler.Start()
		log.Info("Reconciliation scheduler started (spec=%q, tz=%s)", cfg.Scheduler.Spec, venueLoc)
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

	// Останавливаем планировщик: текущий sweep дорабатывает до конца
	if cronScheduler != nil {
		cronScheduler.Stop()
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
