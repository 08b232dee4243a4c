package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/auth"
	"github.com/BruksfildServices01/sto-scheduler/internal/config"
	"github.com/BruksfildServices01/sto-scheduler/internal/handlers"
	"github.com/BruksfildServices01/sto-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/sto-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/sto-scheduler/internal/logging"
	"github.com/BruksfildServices01/sto-scheduler/internal/metrics"
	"github.com/BruksfildServices01/sto-scheduler/internal/middleware"
	"github.com/BruksfildServices01/sto-scheduler/internal/realtime"
	ucAppointment "github.com/BruksfildServices01/sto-scheduler/internal/usecase/appointment"
	ucCatalog "github.com/BruksfildServices01/sto-scheduler/internal/usecase/catalog"
	ucCustomer "github.com/BruksfildServices01/sto-scheduler/internal/usecase/customer"
)

// Deps is the long-lived infrastructure built by main. Optional members
// may be nil.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Log    *logging.Logger

	Redis       *redis.Client
	Locker      lock.Locker
	Audit       *audit.Dispatcher
	AuditLogger *audit.Logger
	Hub         *realtime.Hub
	Avatars     ucCustomer.AvatarUploader

	BookingMetrics *metrics.BookingMetrics
	HTTPMetrics    *metrics.HTTPMetrics
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(d.Log, d.HTTPMetrics),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	catalogRepo := infraRepo.NewCatalogGormRepository(d.DB)
	customerRepo := infraRepo.NewCustomerGormRepository(d.DB)

	auditLogger := d.AuditLogger
	if auditLogger == nil {
		auditLogger = audit.New(d.DB)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	settings := ucAppointment.SettingsFromConfig(cfg)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	avail := ucAppointment.NewAvailability(appointmentRepo, settings)
	alloc := ucAppointment.NewAllocator(avail, appointmentRepo, d.Locker, d.BookingMetrics).
		WithAudit(d.Audit)

	appointments := handlers.AppointmentUseCases{
		Create:        ucAppointment.NewCreateAppointment(appointmentRepo, avail, alloc, d.Audit, d.BookingMetrics, settings),
		Update:        ucAppointment.NewUpdateAppointment(appointmentRepo, avail, alloc, d.Audit, settings),
		Confirm:       ucAppointment.NewConfirmAppointment(appointmentRepo, d.Audit, d.BookingMetrics, settings),
		Complete:      ucAppointment.NewCompleteAppointment(appointmentRepo, d.Audit, d.BookingMetrics, settings),
		Cancel:        ucAppointment.NewCancelAppointment(appointmentRepo, d.Audit, d.BookingMetrics, settings),
		CancelByAdmin: ucAppointment.NewCancelAppointmentByAdmin(appointmentRepo, d.Audit, d.BookingMetrics, settings),
		List:          ucAppointment.NewListAppointments(appointmentRepo),
		ListMine:      ucAppointment.NewListMyAppointments(appointmentRepo),
		Weekly:        ucAppointment.NewWeeklySchedule(appointmentRepo, settings),
		Stats:         ucAppointment.NewStatistics(appointmentRepo, settings),
	}

	// ======================================================
	// USE CASES: CATALOG / CUSTOMERS
	// ======================================================
	services := ucCatalog.NewServices(catalogRepo, d.Audit)
	categories := ucCatalog.NewCategories(catalogRepo, d.Audit)
	boxes := ucCatalog.NewBoxes(catalogRepo, d.Audit)
	siteInfo := ucCatalog.NewSiteInfo(catalogRepo, d.Audit)

	accounts := ucCustomer.NewAccounts(customerRepo, tokens)
	profiles := ucCustomer.NewProfiles(customerRepo, d.Avatars)
	management := ucCustomer.NewManagement(customerRepo, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(appointments)
	availabilityHandler := handlers.NewAvailabilityHandler(avail)
	catalogHandler := handlers.NewCatalogHandler(services, categories, boxes, siteInfo)
	adminCatalogHandler := handlers.NewAdminCatalogHandler(services, categories, boxes, siteInfo)
	authHandler := handlers.NewAuthHandler(accounts)
	customerHandler := handlers.NewCustomerHandler(profiles, management)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogger)

	authRequired := middleware.AuthMiddleware(tokens)
	rateLimit := middleware.RateLimit(cfg.RateLimit, d.Redis, d.Log)

	// ======================================================
	// API
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/services", catalogHandler.ListServices)
		api.GET("/services/featured", catalogHandler.FeaturedServices)
		api.GET("/services/:id", middleware.OptionalAuth(tokens), catalogHandler.GetService)
		api.GET("/service-categories", catalogHandler.ListCategories)
		api.GET("/sto-info", catalogHandler.STOInfo)

		api.GET("/boxes", catalogHandler.ListBoxes)
		api.GET("/boxes/available_dates", availabilityHandler.Dates)
		api.GET("/boxes/available_times", availabilityHandler.Times)
		api.GET("/boxes/available_boxes", availabilityHandler.Boxes)

		api.POST("/guest-appointments", rateLimit, appointmentHandler.CreateGuest)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", rateLimit, authHandler.Register)
		api.POST("/auth/login", rateLimit, authHandler.Login)

		// ------------------------------
		// CUSTOMER
		// ------------------------------
		secured := api.Group("/")
		secured.Use(authRequired)
		{
			secured.POST("/appointments", rateLimit, appointmentHandler.Create)
			secured.GET("/appointments/my", appointmentHandler.My)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.POST("/appointments/:id/cancel", appointmentHandler.Cancel)

			secured.GET("/customers/profile", customerHandler.Profile)
			secured.PATCH("/customers/profile", customerHandler.UpdateProfile)
			secured.POST("/customers/avatar", customerHandler.UploadAvatar)
			secured.GET("/service-history", customerHandler.History)
			secured.GET("/loyalty-transactions", customerHandler.Loyalty)

			secured.POST("/appointments/:id/confirm", middleware.RequireAdmin(), appointmentHandler.Confirm)
			secured.POST("/appointments/:id/complete", middleware.RequireAdmin(), appointmentHandler.Complete)
		}

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(authRequired, middleware.RequireAdmin())
		{
			admin.GET("/appointments", appointmentHandler.AdminList)
			admin.POST("/:id/cancel_appointment", appointmentHandler.CancelByAdmin)
			admin.GET("/statistics", appointmentHandler.Statistics)
			admin.GET("/weekly_schedule", appointmentHandler.WeeklySchedule)

			admin.GET("/customers", customerHandler.List)
			admin.POST("/customers/:id/block", customerHandler.Block)
			admin.POST("/customers/:id/unblock", customerHandler.Unblock)

			admin.GET("/services", adminCatalogHandler.ListServices)
			admin.POST("/services", adminCatalogHandler.CreateService)
			admin.PUT("/services/:id", adminCatalogHandler.UpdateService)
			admin.DELETE("/services/:id", adminCatalogHandler.DeleteService)
			admin.POST("/services/:id/toggle_status", adminCatalogHandler.ToggleServiceStatus)
			admin.POST("/services/:id/toggle_featured", adminCatalogHandler.ToggleServiceFeatured)

			admin.GET("/categories", adminCatalogHandler.ListCategories)
			admin.POST("/categories", adminCatalogHandler.CreateCategory)
			admin.PUT("/categories/:id", adminCatalogHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminCatalogHandler.DeleteCategory)

			admin.GET("/boxes", adminCatalogHandler.ListBoxes)
			admin.POST("/boxes", adminCatalogHandler.CreateBox)
			admin.PUT("/boxes/:id", adminCatalogHandler.UpdateBox)
			admin.DELETE("/boxes/:id", adminCatalogHandler.DeleteBox)
			admin.POST("/boxes/:id/toggle_status", adminCatalogHandler.ToggleBoxStatus)

			admin.GET("/sto-info", adminCatalogHandler.GetSTOInfo)
			admin.PUT("/sto-info", adminCatalogHandler.SaveSTOInfo)

			admin.GET("/audit-logs", auditLogsHandler.List)

			if d.Hub != nil {
				live := handlers.NewLiveHandler(d.Hub, cfg.CORSOrigins, d.Log)
				admin.GET("/live", live.Serve)
			}
		}
	}
}
