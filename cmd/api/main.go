package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/sto-scheduler/internal/audit"
	"github.com/BruksfildServices01/sto-scheduler/internal/auth"
	"github.com/BruksfildServices01/sto-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/sto-scheduler/internal/db"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/infra/broker"
	"github.com/BruksfildServices01/sto-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/sto-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/sto-scheduler/internal/logging"
	"github.com/BruksfildServices01/sto-scheduler/internal/media"
	"github.com/BruksfildServices01/sto-scheduler/internal/metrics"
	"github.com/BruksfildServices01/sto-scheduler/internal/notify"
	"github.com/BruksfildServices01/sto-scheduler/internal/realtime"
	"github.com/BruksfildServices01/sto-scheduler/internal/routes"
	ucCustomer "github.com/BruksfildServices01/sto-scheduler/internal/usecase/customer"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	httperr.UseJSONFieldNames()

	// ======================================================
	// REDIS
	// ======================================================
	rdb := config.NewRedisClient(cfg.Redis)
	var locker lock.Locker = lock.NewLocalLocker()
	if rdb != nil {
		locker = lock.NewRedisLocker(rdb)
		defer rdb.Close()
	} else {
		log.Warn("redis unavailable, using in-process box locks and no rate limiting")
	}

	// ======================================================
	// METRICS
	// ======================================================
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	// ======================================================
	// AWS
	// ======================================================
	var (
		sesClient *sesv2.Client
		s3Client  *s3.Client
	)
	if cfg.SESFromEmail != "" || cfg.S3Bucket != "" {
		awsCfg, err := config.LoadAWS(ctx, cfg)
		if err != nil {
			log.Warn("aws config unavailable, email and avatars disabled", "error", err)
		} else {
			sesClient = sesv2.NewFromConfig(awsCfg, func(o *sesv2.Options) {
				if cfg.AWSEndpoint != "" {
					o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
				}
			})
			s3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
				if cfg.AWSEndpoint != "" {
					o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
					o.UsePathStyle = true
				}
			})
		}
	}

	// ======================================================
	// EVENT SINKS
	// ======================================================
	auditLogger := audit.New(db)
	sinks := []audit.Sink{auditLogger}

	publisher := broker.NewPublisher(cfg.RabbitMQURL, cfg.BookingQueue, log)
	if publisher != nil {
		sinks = append(sinks, publisher)
		defer publisher.Close()
	}

	if sesClient != nil {
		sender := notify.NewSESSender(sesClient, notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, log)
		if sender != nil {
			sinks = append(sinks, notify.NewBookingNotifier(sender))
		}
	}

	hub := realtime.NewHub(log)
	go hub.Run(ctx)
	sinks = append(sinks, hub)

	dispatcher := audit.NewDispatcher(log, sinks...)
	defer dispatcher.Close()

	// ======================================================
	// MEDIA
	// ======================================================
	deps := routes.Deps{
		DB:             db,
		Config:         cfg,
		Log:            log,
		Redis:          rdb,
		Locker:         locker,
		Audit:          dispatcher,
		AuditLogger:    auditLogger,
		Hub:            hub,
		BookingMetrics: bookingMetrics,
		HTTPMetrics:    httpMetrics,
	}
	if s3Client != nil {
		store := media.NewStore(s3Client, cfg.S3Bucket, cfg.S3PublicURL)
		if store.Enabled() {
			deps.Avatars = media.NewAvatars(store, cfg.AvatarMaxSide)
		}
	}

	ensureAdmin(ctx, cfg, db, log)

	// ======================================================
	// HTTP
	// ======================================================
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}

// ensureAdmin creates the administrator account from the environment on
// first start.
func ensureAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB, log *logging.Logger) {
	if cfg.AdminUsername == "" || cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	accounts := ucCustomer.NewAccounts(
		infraRepo.NewCustomerGormRepository(db),
		auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
	)
	created, err := accounts.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Error("admin bootstrap failed", "error", err)
		return
	}
	if created {
		log.Info("admin account created", "username", cfg.AdminUsername)
	}
}
