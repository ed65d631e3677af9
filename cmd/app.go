package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/config"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/cache/idempotency"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	availabilityRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/availability"
	exceptionRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/exception"
	reminderRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/reminder"
	scheduleRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/schedule"
	slotRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slot"
	templateRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/slottemplate"
	userRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/user"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/email"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/payment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/webhook"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/service/exceptions"
	"github.com/m04kA/SMC-AppointmentService/internal/service/jobs"
	"github.com/m04kA/SMC-AppointmentService/internal/service/notifications"
	"github.com/m04kA/SMC-AppointmentService/internal/service/reminders"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slottemplate"
	bookFreeformUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_freeform"
	bookSlotUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
	cancelAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
	confirmPaymentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_payment"
	manualBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/manual_booking"
	rescheduleAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	startBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/start_booking"
	updateStatusUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_status"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/joblock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

const redisPingTimeout = 3 * time.Second

// app собранный граф зависимостей сервиса
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *sql.DB
	redis   *redis.Client
	metrics *metrics.Metrics

	stopMetricsCh chan struct{}

	notifier *notifications.Service
	runner   *jobs.Runner
	router   http.Handler
}

// bootstrap загружает конфигурацию и создаёт логгер
func bootstrap(configPath string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.Info("Configuration loaded from %s", configPath)
	return cfg, log, nil
}

// openDB подключается к PostgreSQL и настраивает пул соединений
func openDB(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)", cfg.Host, cfg.Port, cfg.DBName)
	return db, nil
}

// openRedis подключается к Redis; пустой адрес означает работу без Redis
func openRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		log.Warn("Redis is not configured: job locks are local, webhook deduplication is in-memory")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis %s: %w", cfg.Addr, err)
	}
	log.Info("Connected to Redis at %s", cfg.Addr)
	return client, nil
}

// newApp собирает репозитории, сервисы, сценарии и маршруты
func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, log, err := bootstrap(configPath)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, stopMetricsCh: make(chan struct{})}

	// Инициализируем метрики (если включены)
	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	if a.db, err = openDB(ctx, cfg.Database, log); err != nil {
		log.Close()
		return nil, err
	}
	if a.redis, err = openRedis(ctx, cfg.Redis, log); err != nil {
		a.close()
		return nil, err
	}

	// Обёртка измеряет запросы; без метрик работает прозрачно
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(a.db, a.metrics, a.stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(a.db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)
	location := cfg.Clinic.Location()

	// Репозитории
	userRepository := userRepo.NewRepository(wrappedDB)
	templateRepository := templateRepo.NewRepository(wrappedDB)
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	exceptionRepository := exceptionRepo.NewRepository(wrappedDB)
	slotRepository := slotRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	reminderRepository := reminderRepo.NewRepository(wrappedDB)

	// Блокировки задач и дедупликация вебхуков
	var (
		locker     jobs.Locker                       = joblock.NoopLocker{}
		eventStore confirmPaymentUC.IdempotencyStore = idempotency.NewMemoryStore()
	)
	if a.redis != nil {
		locker = joblock.NewRedisLocker(a.redis, cfg.Redis.KeyPrefix)
		eventStore = idempotency.NewRedisStore(a.redis, cfg.Redis.KeyPrefix)
	}

	// Интеграции
	var emailSender notifications.EmailSender
	if cfg.Email.SendGridAPIKey != "" {
		emailSender = email.NewSendGridSender(email.Config{
			APIKey:    cfg.Email.SendGridAPIKey,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		}, log)
	} else {
		log.Warn("SendGrid API key is not set: emails are written to the log")
		emailSender = email.NewLogSender(log)
	}
	webhookClient := webhook.NewClient(webhook.Config{
		URL:     cfg.Webhook.URL,
		Secret:  cfg.Webhook.Secret,
		Timeout: time.Duration(cfg.Webhook.Timeout) * time.Second,
	}, log)
	paymentClient := payment.NewClient(payment.Config{
		SecretKey:     cfg.Payment.StripeSecretKey,
		WebhookSecret: cfg.Payment.StripeWebhookSecret,
		BaseURL:       cfg.Payment.BaseURL,
		Currency:      cfg.Payment.Currency,
		Timeout:       time.Duration(cfg.Payment.Timeout) * time.Second,
	}, log)
	if !paymentClient.IsConfigured() {
		log.Warn("Payment provider is not configured: paid schedule bookings are disabled")
	}

	// Сервисы
	a.notifier = notifications.NewService(userRepository, emailSender, webhookClient, location, log)
	reminderSvc := reminders.NewService(reminderRepository, appointmentRepository, userRepository, emailSender,
		a.metrics, location, log)
	slotSvc := slots.NewService(availabilityRepository, slotRepository, templateRepository, exceptionRepository,
		txMgr, a.metrics, location, log)
	availabilitySvc := availability.NewService(availabilityRepository, slotRepository, appointmentRepository,
		userRepository, slotSvc, txMgr, location, log)
	exceptionSvc := exceptions.NewService(exceptionRepository, slotRepository, slotSvc, txMgr, log)
	templateSvc := slottemplate.NewService(templateRepository, log)
	scheduleSvc := schedules.NewService(scheduleRepository, appointmentRepository, userRepository, paymentClient,
		txMgr, location, log)
	appointmentSvc := appointments.NewService(appointmentRepository, slotRepository, reminderSvc, txMgr,
		a.metrics, cfg.Jobs.ArchiveAfterDays, log)

	// Use cases
	policies := cfg.Booking.Policy()
	bookSlot := bookSlotUC.NewUseCase(slotRepository, appointmentRepository, exceptionRepository, userRepository,
		reminderSvc, a.notifier, a.metrics, txMgr, location, log)
	bookFreeform := bookFreeformUC.NewUseCase(availabilityRepository, appointmentRepository, exceptionRepository,
		userRepository, reminderSvc, a.notifier, a.metrics, txMgr, location, log)
	cancelAppointment := cancelAppointmentUC.NewUseCase(appointmentRepository, slotRepository, reminderSvc,
		a.notifier, txMgr, policies, log)
	rescheduleAppointment := rescheduleAppointmentUC.NewUseCase(appointmentRepository, slotRepository,
		exceptionRepository, reminderSvc, a.notifier, txMgr, policies, location, log)
	updateStatus := updateStatusUC.NewUseCase(appointmentRepository, cancelAppointment, reminderSvc, a.notifier,
		txMgr, log)
	startBooking := startBookingUC.NewUseCase(scheduleRepository, appointmentRepository, userRepository,
		paymentClient, a.metrics, txMgr, location, log)
	manualBooking := manualBookingUC.NewUseCase(scheduleRepository, appointmentRepository, userRepository,
		reminderSvc, a.notifier, a.metrics, txMgr, location, log)
	confirmPayment := confirmPaymentUC.NewUseCase(paymentClient, eventStore, appointmentRepository,
		scheduleRepository, reminderSvc, a.notifier, a.metrics, txMgr, log)

	// Периодические задачи
	a.runner = jobs.NewRunner(locker, time.Duration(cfg.Jobs.LockTTL)*time.Second, log)
	a.runner.Register(jobs.JobReminders, reminderSvc.ProcessReminders)
	a.runner.Register(jobs.JobSlots, slotSvc.RunSlotGenerationJob)
	a.runner.Register(jobs.JobArchive, appointmentSvc.ArchiveExpiredAppointments)

	a.router = newRouter(a, routeDeps{
		availability:          availabilitySvc,
		templates:             templateSvc,
		slots:                 slotSvc,
		exceptions:            exceptionSvc,
		schedules:             scheduleSvc,
		appointments:          appointmentSvc,
		bookSlot:              bookSlot,
		bookFreeform:          bookFreeform,
		cancelAppointment:     cancelAppointment,
		rescheduleAppointment: rescheduleAppointment,
		updateStatus:          updateStatus,
		startBooking:          startBooking,
		manualBooking:         manualBooking,
		confirmPayment:        confirmPayment,
	})

	return a, nil
}

// mountMetrics публикует эндпоинт Prometheus, если метрики включены
func (a *app) mountMetrics(r *mux.Router) {
	if !a.cfg.Metrics.Enabled {
		return
	}
	r.Handle(a.cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
	a.log.Info("Prometheus metrics endpoint exposed at %s", a.cfg.Metrics.Path)
}

// close дожидается фоновых уведомлений и освобождает ресурсы
func (a *app) close() {
	if a.notifier != nil {
		a.notifier.Wait()
	}
	close(a.stopMetricsCh)
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("Failed to close redis: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn("Failed to close database: %v", err)
		}
	}
	a.log.Close()
}
