package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/skycruzer/fleet-management-v2-sub016/api/swagger"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/handler"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/middleware"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/models"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/repository"
	"github.com/skycruzer/fleet-management-v2-sub016/internal/service"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/cache"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/config"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/database"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/export"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/jobs"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/logger"
	corsmiddleware "github.com/skycruzer/fleet-management-v2-sub016/pkg/middleware/cors"
	reqidmiddleware "github.com/skycruzer/fleet-management-v2-sub016/pkg/middleware/requestid"
	"github.com/skycruzer/fleet-management-v2-sub016/pkg/storage"
)

// @title Fleet Crew Operations API
// @version 1.0.0
// @description Crew request workflow, leave bidding and availability service
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
	}

	userRepo := repository.NewUserRepository(db)
	pilotRepo := repository.NewPilotRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	leaveBidRepo := repository.NewLeaveBidRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	pilotSvc := service.NewPilotService(pilotRepo, userRepo, logr)

	availabilitySvc := service.NewAvailabilityService(pilotRepo, requestRepo, cfg.Crew.MinimumPerRank, logr)
	conflictSvc := service.NewConflictService(requestRepo, availabilitySvc, logr)

	// Notification dispatch runs on an in-memory queue; the handler closure
	// lets the queue and service reference each other.
	var notificationSvc *service.NotificationService
	notificationQueue := jobs.NewQueue("notifications", func(ctx context.Context, job jobs.Job) error {
		return notificationSvc.HandleDispatch(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Notifications.WorkerConcurrency,
		MaxRetries: cfg.Notifications.WorkerRetries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Logger:     logr,
	})
	notificationSvc = service.NewNotificationService(notificationRepo, notificationQueue, logr)
	if cfg.Notifications.Enabled {
		notificationQueue.Start(ctx)
		defer notificationQueue.Stop()
	}

	workflowSvc := service.NewWorkflowService(requestRepo, availabilitySvc, userRepo, logr,
		service.WithTransitionNotifier(notificationSvc),
		service.WithTransitionRecorder(metricsSvc),
	)
	requestSvc := service.NewRequestService(requestRepo, pilotRepo, conflictSvc, userRepo, service.RequestServiceConfig{
		LateNoticeDays: cfg.Requests.LateNoticeDays,
		DeadlineDays:   cfg.Requests.DeadlineDays,
	}, logr)
	bulkSvc := service.NewBulkService(workflowSvc, requestSvc, logr)
	leaveBidSvc := service.NewLeaveBidService(leaveBidRepo, userRepo, logr,
		service.WithBidNotifier(notificationSvc),
	)
	dashboardSvc := service.NewDashboardService(requestRepo, availabilitySvc, cacheSvc, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	}, logr)

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		fileStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exporter := service.NewExportService(requestRepo, leaveBidRepo, fileStore, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr, export.NewCSVExporter(), export.NewPDFExporter())

		reportWorker := service.NewReportWorker(reportRepo, exporter, cfg.Reports.WorkerRetries, logr)
		reportQueue := jobs.NewQueue("reports", reportWorker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportQueue.Start(ctx)
		defer reportQueue.Stop()

		reportSvc = service.NewReportService(reportRepo, reportQueue, exporter, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	pilotHandler := handler.NewPilotHandler(pilotSvc)
	requestHandler := handler.NewRequestHandler(requestSvc, workflowSvc, bulkSvc)
	leaveBidHandler := handler.NewLeaveBidHandler(leaveBidSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	reviewers := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)

	users := protected.Group("/users")
	users.Use(reviewers)
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	pilots := protected.Group("/pilots")
	{
		pilots.GET("", pilotHandler.List)
		pilots.GET("/:id", pilotHandler.Get)
		pilots.POST("", reviewers, pilotHandler.Create)
		pilots.PUT("/:id", reviewers, pilotHandler.Update)
		pilots.DELETE("/:id", reviewers, pilotHandler.Deactivate)
	}

	requests := protected.Group("/requests")
	{
		requests.POST("", requestHandler.Create)
		requests.GET("", requestHandler.List)
		requests.GET("/check-conflicts", requestHandler.CheckConflicts)
		requests.POST("/bulk", reviewers, requestHandler.Bulk)
		requests.GET("/:id", requestHandler.Get)
		requests.PATCH("/:id/status", requestHandler.UpdateStatus)
		requests.POST("/:id/withdraw", requestHandler.Withdraw)
		// Pilots may delete their own drafts; the service scopes everything else
		// to reviewer roles.
		requests.DELETE("/:id", requestHandler.Delete)
	}

	if cfg.LeaveBids.Enabled {
		bids := protected.Group("/leave-bids")
		{
			bids.POST("", leaveBidHandler.Create)
			bids.GET("", leaveBidHandler.List)
			bids.GET("/:id", leaveBidHandler.Get)
			bids.POST("/:id/review", reviewers, leaveBidHandler.Review)
			bids.POST("/:id/options/:optionId/review", reviewers, leaveBidHandler.ReviewOption)
		}
	}

	protected.GET("/availability/impact", availabilityHandler.Evaluate)

	if cfg.Dashboard.Enabled {
		protected.GET("/dashboard/stats", reviewers, dashboardHandler.Stats)
	}

	notifications := protected.Group("/notifications")
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("/:id/read", notificationHandler.MarkRead)
	}

	if cfg.Reports.Enabled {
		reportHandler := handler.NewReportHandler(reportSvc)
		reports := api.Group("/reports")
		{
			reports.POST("/generate", middleware.JWT(authSvc), reviewers, reportHandler.Generate)
			reports.GET("/status/:id", middleware.JWT(authSvc), reviewers, reportHandler.Status)
			// Download is token-authenticated; the signed URL is the credential.
			reports.GET("/download/:token", reportHandler.Download)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
