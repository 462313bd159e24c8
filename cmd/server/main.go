package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/config"
	v1 "github.com/dmehra2102/prod-golang-projects/carehub/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/middleware"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/repository/postgres"
	"github.com/dmehra2102/prod-golang-projects/carehub/internal/service"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/authz"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/events"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/llm"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/carehub/pkg/tracer"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const plannerSystemInstruction = "You are a careful hospital rostering assistant. " +
	"You only ever answer with the JSON the user asks for."

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "carehub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log, cfg.App)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, cfg.Tracing, cfg.App)
	if err != nil {
		return fmt.Errorf("initialising tracer: %w", err)
	}

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}()

	if err := database.Migrate(db, log); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	collector := metrics.NewCollector("carehub", prometheus.NewRegistry())

	var publisher events.Publisher = events.Nop{}
	if cfg.Events.Enabled() {
		publisher = events.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.NotificationTopic, log)
		log.Info("publishing notification events to kafka",
			zap.Strings("brokers", cfg.Events.KafkaBrokers),
			zap.String("topic", cfg.Events.NotificationTopic),
		)
	}

	var model service.ShiftModel
	if cfg.ShiftPlanner.Enabled {
		gemini, err := llm.NewGemini(ctx, llm.GeminiConfig{
			APIKey:            cfg.ShiftPlanner.APIKey,
			Model:             cfg.ShiftPlanner.Model,
			Temperature:       0.2,
			SystemInstruction: plannerSystemInstruction,
		})
		if err != nil {
			return fmt.Errorf("creating shift planner model: %w", err)
		}
		log.Info("shift planner model ready", zap.String("model", gemini.Name()))
		model = gemini
	}

	authorizer, err := authz.New()
	if err != nil {
		return err
	}

	svc := buildServices(cfg, db, model, publisher, collector, log)

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.BurstSize)
	authLimiter := middleware.NewIPRateLimiter(
		middleware.PerMinute(cfg.RateLimit.AuthRequestsPerMinute),
		cfg.RateLimit.AuthRequestsPerMinute,
	)

	router := v1.NewRouter(v1.RouterDeps{
		Config:      cfg,
		Log:         log,
		Metrics:     collector,
		JWT:         svc.jwt,
		Authorizer:  authorizer,
		Limiter:     limiter,
		AuthLimiter: authLimiter,

		Health: v1.NewHealthHandler(cfg.App.Version, func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}),
		Auth:          v1.NewAuthHandler(svc.auth),
		Patients:      v1.NewPatientHandler(svc.patients),
		Appointments:  v1.NewAppointmentHandler(svc.appointments),
		Records:       v1.NewMedicalRecordHandler(svc.records),
		Departments:   v1.NewDepartmentHandler(svc.departments, svc.staff),
		Staff:         v1.NewStaffHandler(svc.staff),
		Shifts:        v1.NewShiftHandler(svc.shifts, svc.planner),
		Tasks:         v1.NewTaskHandler(svc.tasks),
		Notifications: v1.NewNotificationHandler(svc.notifications),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return svc.planner.Start(gctx)
	})

	g.Go(func() error {
		limiter.Janitor(gctx, time.Minute)
		return nil
	})
	g.Go(func() error {
		authLimiter.Janitor(gctx, time.Minute)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		svc.audit.Shutdown()
		if err := publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing publisher: %w", err))
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", zap.Error(err))
		return err
	}
	log.Info("server stopped cleanly")
	return nil
}

type services struct {
	jwt           *auth.JWTManager
	audit         *service.AuditService
	auth          *service.AuthService
	patients      *service.PatientService
	appointments  *service.AppointmentService
	records       *service.MedicalRecordService
	departments   *service.DepartmentService
	staff         *service.StaffService
	shifts        *service.ShiftService
	planner       *service.ShiftPlanner
	tasks         *service.TaskService
	notifications *service.NotificationService
}

func buildServices(
	cfg *config.Config,
	db *gorm.DB,
	model service.ShiftModel,
	publisher events.Publisher,
	collector *metrics.Collector,
	log *zap.Logger,
) *services {
	tx := postgres.NewTxManager(db)

	userRepo := postgres.NewUserRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	recordRepo := postgres.NewMedicalRecordRepository(db)
	deptRepo := postgres.NewDepartmentRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	shiftRepo := postgres.NewShiftRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	jwtManager := auth.NewJWTManager(cfg.JWT)
	auditSvc := service.NewAuditService(auditRepo, collector, log)
	notifications := service.NewNotificationService(notificationRepo, userRepo, publisher, collector, log)
	shifts := service.NewShiftService(shiftRepo, staffRepo, deptRepo, notifications, auditSvc, collector, log)

	return &services{
		jwt:           jwtManager,
		audit:         auditSvc,
		auth:          service.NewAuthService(userRepo, patientRepo, tx, jwtManager, auditSvc, log),
		patients:      service.NewPatientService(patientRepo, auditSvc, collector, log),
		appointments:  service.NewAppointmentService(appointmentRepo, patientRepo, staffRepo, userRepo, notifications, auditSvc, collector, log),
		records:       service.NewMedicalRecordService(recordRepo, patientRepo, appointmentRepo, auditSvc, log),
		departments:   service.NewDepartmentService(deptRepo, staffRepo, auditSvc, log),
		staff:         service.NewStaffService(staffRepo, deptRepo, userRepo, tx, auditSvc, log),
		shifts:        shifts,
		planner:       service.NewShiftPlanner(cfg.ShiftPlanner, model, deptRepo, staffRepo, shiftRepo, shifts, collector, log),
		tasks:         service.NewTaskService(taskRepo, staffRepo, deptRepo, patientRepo, notifications, auditSvc, collector, log),
		notifications: notifications,
	}
}
