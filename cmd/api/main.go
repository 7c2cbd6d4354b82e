package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/medical-scheduler/internal/audit"
	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	"github.com/BruksfildServices01/medical-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/medical-scheduler/internal/db"
	"github.com/BruksfildServices01/medical-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/medical-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/medical-scheduler/internal/jobs"
	"github.com/BruksfildServices01/medical-scheduler/internal/logger"
	"github.com/BruksfildServices01/medical-scheduler/internal/metrics"
	"github.com/BruksfildServices01/medical-scheduler/internal/notify"
	"github.com/BruksfildServices01/medical-scheduler/internal/routes"
	"github.com/BruksfildServices01/medical-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/medical-scheduler/internal/usecase/appointment"
)

const shutdownTimeout = 15 * time.Second

func main() {

	cfg := config.Load()

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	timezone.SetDefault(cfg.ClinicTimezone)

	db := dbpkg.NewDB(cfg, zlog)
	collector := metrics.NewCollector("clinic")

	// ======================================================
	// AUDIT
	// ======================================================
	auditDispatcher := audit.NewDispatcher(
		audit.New(db),
		zlog.Named("audit"),
		collector.AuditBufferDropped.Inc,
	)
	defer auditDispatcher.Close()

	// ======================================================
	// HOLIDAYS
	// ======================================================
	holidayRepo := infraRepo.NewHolidayGormRepository(db)
	n, err := holidayRepo.SeedCalendar(rootCtx, calendar.Default, cfg.Holidays)
	if err != nil {
		zlog.Fatal("failed to load holidays", zap.Error(err))
	}
	zlog.Info("holidays loaded", zap.Int("count", n))

	// ======================================================
	// DOCTOR LOCK
	// ======================================================
	var locker lock.DoctorLocker = lock.NewLocalDoctorLocker()
	if cfg.RedisEnabled() {
		rdb, err := lock.NewRedisClient(rootCtx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			zlog.Fatal("redis connection error", zap.Error(err))
		}
		defer func() {
			if err := rdb.Close(); err != nil {
				zlog.Warn("error closing redis", zap.Error(err))
			}
		}()
		locker = lock.NewRedisDoctorLocker(rdb, cfg.LockTTL)
		zlog.Info("using redis doctor lock", zap.String("addr", cfg.RedisAddr))
	} else {
		zlog.Warn("REDIS_ADDR not set, using in-process doctor lock (single instance only)")
	}

	// ======================================================
	// JOBS
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	scheduler, err := jobs.Start(rootCtx, zlog.Named("jobs"),
		jobs.Schedule{
			Name: "auto_complete",
			Spec: cfg.AutoCompleteCron,
			Job:  ucAppointment.NewAutoCompleteSweep(appointmentRepo, auditDispatcher, collector, zlog),
		},
		jobs.Schedule{
			Name: "reminder",
			Spec: cfg.ReminderCron,
			Job: ucAppointment.NewReminderSweep(
				appointmentRepo,
				notify.NewLogNotifier(zlog.Named("notify")),
				collector,
				zlog,
				cfg.ReminderLookahead,
			),
		},
	)
	if err != nil {
		zlog.Fatal("failed to schedule jobs", zap.Error(err))
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, db, cfg, routes.Infra{
		Log:      zlog,
		Metrics:  collector,
		Audit:    auditDispatcher,
		Locker:   locker,
		Calendar: calendar.Default,
		Holidays: holidayRepo,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("http shutdown", zap.Error(err))
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		zlog.Warn("jobs still running at shutdown")
	}
}
