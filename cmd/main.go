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
	"github.com/robfig/cron/v3"

	"github.com/m04kA/TLB-TutorBot/internal/bot"
	"github.com/m04kA/TLB-TutorBot/internal/bot/telegram"
	"github.com/m04kA/TLB-TutorBot/internal/config"
	bookingsRepo "github.com/m04kA/TLB-TutorBot/internal/infra/storage/bookings"
	homeworksRepo "github.com/m04kA/TLB-TutorBot/internal/infra/storage/homeworks"
	"github.com/m04kA/TLB-TutorBot/internal/infra/storage/jsonstore"
	slotsRepo "github.com/m04kA/TLB-TutorBot/internal/infra/storage/slots"
	usersRepo "github.com/m04kA/TLB-TutorBot/internal/infra/storage/users"
	analyticsService "github.com/m04kA/TLB-TutorBot/internal/service/analytics"
	bookingsService "github.com/m04kA/TLB-TutorBot/internal/service/bookings"
	slotsService "github.com/m04kA/TLB-TutorBot/internal/service/slots"
	bookLessonUC "github.com/m04kA/TLB-TutorBot/internal/usecase/book_lesson"
	cancelBookingUC "github.com/m04kA/TLB-TutorBot/internal/usecase/cancel_booking"
	manageSlotsUC "github.com/m04kA/TLB-TutorBot/internal/usecase/manage_slots"
	sendRemindersUC "github.com/m04kA/TLB-TutorBot/internal/usecase/send_reminders"
	"github.com/m04kA/TLB-TutorBot/pkg/logger"
	"github.com/m04kA/TLB-TutorBot/pkg/metrics"
	"github.com/m04kA/TLB-TutorBot/pkg/txmanager"
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

	log.Info("Starting TLB-TutorBot...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики. Коллектор создаётся всегда — роутер и крон
	// инкрементируют счётчики независимо от того, поднят ли ops-сервер.
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	if cfg.Metrics.Enabled {
		log.Info("Metrics enabled at %s%s", cfg.Metrics.Address, cfg.Metrics.Path)
	}

	// Интерфейс для transaction manager (используется в usecases)
	type txMgrIface interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}

	// Инициализируем хранилище: файловый бэкенд или PostgreSQL
	var (
		slotRepository     slotsService.SlotRepository
		bookingRepository  bookingsService.BookingRepository
		userRepository     bookingsService.UserRepository
		homeworkRepository bookingsService.HomeworkRepository
		txMgr              txMgrIface
	)

	switch cfg.Storage.Type {
	case config.StoragePostgres:
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

		slotRepository = slotsRepo.NewRepository(db)
		bookingRepository = bookingsRepo.NewRepository(db)
		userRepository = usersRepo.NewRepository(db)
		homeworkRepository = homeworksRepo.NewRepository(db)
		txMgr = txmanager.NewTransactionManager(db)

	case config.StorageFile:
		store, err := jsonstore.New(cfg.Storage.Dir)
		if err != nil {
			log.Fatal("Failed to initialize file storage in %s: %v", cfg.Storage.Dir, err)
		}
		log.Info("File storage initialized in %s", cfg.Storage.Dir)

		slotRepository = store.Slots
		bookingRepository = store.Bookings
		userRepository = store.Users
		homeworkRepository = store.Homeworks
		txMgr = txmanager.Nop{}

	default:
		log.Fatal("Unknown storage type: %s", cfg.Storage.Type)
	}

	// Инициализируем сервисы
	slotSvc := slotsService.NewService(slotRepository, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		userRepository,
		homeworkRepository,
		log,
	)
	analyticsSvc := analyticsService.NewService(bookingRepository, userRepository, log)

	// Инициализируем транспорт
	client, err := telegram.New(cfg.Telegram.Token, log)
	if err != nil {
		log.Fatal("Failed to initialize telegram client: %v", err)
	}

	// Инициализируем use cases
	bookLessonUseCase := bookLessonUC.NewUseCase(
		slotSvc,
		bookingSvc,
		txMgr,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingSvc,
		slotSvc,
		txMgr,
		log,
	)
	manageSlotsUseCase := manageSlotsUC.NewUseCase(
		slotSvc,
		bookingSvc,
		client,
		txMgr,
		log,
	)
	sendRemindersUseCase := sendRemindersUC.NewUseCase(
		bookingSvc,
		slotSvc,
		bot.NewReminderNotifier(client),
		cfg.Reminders.Hour,
		log,
	)

	// Настраиваем роутер событий бота
	router := bot.NewRouter(
		client,
		bookLessonUseCase,
		cancelBookingUseCase,
		manageSlotsUseCase,
		sendRemindersUseCase,
		analyticsSvc,
		bookingSvc,
		&cfg.Admins,
		metricsCollector,
		log,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ежедневный проход напоминаний
	scheduler := cron.New()
	cronSpec := fmt.Sprintf("0 %d * * *", cfg.Reminders.Hour)
	if _, err := scheduler.AddFunc(cronSpec, func() {
		sent, err := sendRemindersUseCase.Sweep(ctx)
		if err != nil {
			log.Error("Reminder sweep failed: %v", err)
			return
		}
		metricsCollector.RemindersSent.Add(float64(sent))
	}); err != nil {
		log.Fatal("Failed to schedule reminder sweep: %v", err)
	}
	scheduler.Start()
	log.Info("Reminder sweep scheduled at %q", cronSpec)

	// Поднимаем ops-сервер с метриками (если включены)
	var opsSrv *http.Server
	if cfg.Metrics.Enabled {
		r := mux.NewRouter()
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}).Methods(http.MethodGet)

		opsSrv = &http.Server{
			Addr:    cfg.Metrics.Address,
			Handler: r,
		}
		go func() {
			log.Info("Starting ops server on %s", cfg.Metrics.Address)
			if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal("Ops server failed to start: %v", err)
			}
		}()
	}

	// Запускаем long polling
	go client.Run(ctx, cfg.Telegram.PollTimeout, router.HandleUpdate)

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	cancel()
	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	if opsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := opsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("Ops server forced to shutdown: %v", err)
		}
	}

	log.Info("Stopped gracefully")
}
