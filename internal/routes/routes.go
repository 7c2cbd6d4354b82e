package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/medical-scheduler/internal/audit"
	"github.com/BruksfildServices01/medical-scheduler/internal/calendar"
	"github.com/BruksfildServices01/medical-scheduler/internal/config"
	domain "github.com/BruksfildServices01/medical-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/medical-scheduler/internal/handlers"
	"github.com/BruksfildServices01/medical-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/medical-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/medical-scheduler/internal/metrics"
	"github.com/BruksfildServices01/medical-scheduler/internal/middleware"
	"github.com/BruksfildServices01/medical-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/medical-scheduler/internal/usecase/appointment"
)

// Infra holds the process-wide singletons built in main.
type Infra struct {
	Log      *zap.Logger
	Metrics  *metrics.Collector
	Audit    *audit.Dispatcher
	Locker   lock.DoctorLocker
	Calendar *calendar.Calendar
	Holidays *infraRepo.HolidayGormRepository
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(infra.Log))
	r.Use(infra.Metrics.Middleware())
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins...))

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	policy := domain.Policy{
		Calendar:        infra.Calendar,
		MinBusinessDays: cfg.MinBusinessDaysForChange,
	}

	// ======================================================
	// USE CASES - APPOINTMENTS
	// ======================================================
	getAvailabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, infra.Metrics)
	checkConflictUC := ucAppointment.NewCheckConflict(appointmentRepo)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		infra.Locker,
		infra.Audit,
		infra.Metrics,
		infra.Log,
		nil,
	)

	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo, policy, nil)

	transitionAppointmentUC := ucAppointment.NewTransitionAppointment(
		appointmentRepo,
		infra.Audit,
		infra.Metrics,
		infra.Log,
		policy,
		nil,
	)

	rescheduleAppointmentUC := ucAppointment.NewRescheduleAppointment(
		appointmentRepo,
		infra.Locker,
		infra.Audit,
		infra.Metrics,
		infra.Log,
		policy,
		nil,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	doctorProfileHandler := handlers.NewDoctorProfileHandler(db)
	patientHandler := handlers.NewPatientHandler(db)
	availabilityHandler := handlers.NewAvailabilityHandler(db, infra.Audit)
	holidayHandler := handlers.NewHolidayHandler(infra.Holidays, infra.Calendar, infra.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	publicHandler := handlers.NewPublicHandler(db, getAvailabilityUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		getAppointmentUC,
		transitionAppointmentUC,
		rescheduleAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		checkConflictUC,
	)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(infra.Metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/doctors", publicHandler.ListDoctors)
			publicAPI.GET("/doctors/:id/availability", publicHandler.Availability)
			publicAPI.GET("/holidays", holidayHandler.List)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// APPOINTMENTS (any party)
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			// ------------------------------
			// DOCTOR
			// ------------------------------
			doctor := secured.Group("/")
			doctor.Use(middleware.RequireRoles(models.RoleDoctor, models.RoleAdmin))
			{
				doctor.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
				doctor.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

				doctor.GET("/doctors/:id/conflict", appointmentHandler.Conflict)

				doctor.GET("/me/appointments", appointmentHandler.ListByDate)
				doctor.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			}

			doctorOnly := secured.Group("/me")
			doctorOnly.Use(middleware.RequireRoles(models.RoleDoctor))
			{
				doctorOnly.GET("/doctor", doctorProfileHandler.Get)
				doctorOnly.PATCH("/doctor", doctorProfileHandler.Update)

				doctorOnly.GET("/patients", patientHandler.List)

				doctorOnly.GET("/availability/rules", availabilityHandler.ListRules)
				doctorOnly.PUT("/availability/rules", availabilityHandler.ReplaceRules)

				doctorOnly.GET("/availability/exceptions", availabilityHandler.ListExceptions)
				doctorOnly.POST("/availability/exceptions", availabilityHandler.CreateException)
				doctorOnly.DELETE("/availability/exceptions/:id", availabilityHandler.DeleteException)
			}

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRoles(models.RoleAdmin))
			{
				admin.GET("/holidays", holidayHandler.List)
				admin.POST("/holidays", holidayHandler.Add)
				admin.DELETE("/holidays/:date", holidayHandler.Remove)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
