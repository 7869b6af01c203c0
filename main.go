package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"expertcall/config"
	"expertcall/cron"
	"expertcall/database"
	providerRepo "expertcall/database/repository/provider"
	schedulerRepo "expertcall/database/repository/scheduler"
	"expertcall/handlers"
	"expertcall/metrics"
	"expertcall/middleware"
	"expertcall/routes"
	"expertcall/services/booking"
	"expertcall/services/notification"
	"expertcall/services/pricing"
	"expertcall/services/scheduling"
	"expertcall/services/tasks"
	"expertcall/utils"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database.InitDB()
	sessionCache := utils.GetSessionCacheClient()
	stripe.Key = cfg.StripeKey
	if cfg.StripeKey == "" {
		logger.Warn("STRIPE_KEY is not set, prepaid bookings will fail")
	}

	// repositories.
	provRepo, err := providerRepo.NewMongoProviderRepo(database.Database())
	if err != nil {
		logger.Fatal("main: failed to initialize provider repository", zap.Error(err))
	}
	bookingRepo, err := schedulerRepo.NewMongoSchedulerRepo(database.Database())
	if err != nil {
		logger.Fatal("main: failed to initialize booking repository", zap.Error(err))
	}

	// notifications.
	var notifSvc notification.NotificationService = notification.NewLogService(logger)
	if cfg.FirebaseCredentialsFile != "" {
		fcm, err := utils.FirebaseInit(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			logger.Fatal("main: failed to initialize firebase", zap.Error(err))
		}
		if notifSvc, err = notification.NewFCMService(fcm, provRepo, logger); err != nil {
			logger.Fatal("main: failed to initialize notifications", zap.Error(err))
		}
	} else {
		logger.Warn("FIREBASE_CREDENTIALS_FILE is not set, push notifications are logged only")
	}

	// background tasks.
	queueOpt := utils.QueueRedisOpt()
	asynqClient := asynq.NewClient(queueOpt)
	defer asynqClient.Close()

	bookingMetrics := metrics.NewBookingMetrics(nil)
	backend := booking.NewDefaultBackend(
		bookingRepo,
		provRepo,
		booking.NewStripePayments(logger),
		tasks.NewScheduler(asynqClient),
		notifSvc,
		logger,
		booking.BackendOptions{
			HoldDuration: time.Duration(cfg.PaymentHoldMinutes) * time.Minute,
			ReminderLead: time.Duration(cfg.ReminderLeadMinutes) * time.Minute,
		},
	)

	worker := cron.NewWorker(queueOpt, notifSvc, backend, logger)
	worker.Start()
	defer worker.Shutdown()

	defaultRule, usedFallback := scheduling.RuleFromStrings(cfg.DefaultWorkStart, cfg.DefaultWorkEnd, "",
		scheduling.NewWorkingHoursRule(0, scheduling.MinutesPerDay, ""))
	if usedFallback {
		logger.Warn("default working hours could not be parsed, using the whole day",
			zap.String("start", cfg.DefaultWorkStart), zap.String("end", cfg.DefaultWorkEnd))
	}

	orchestrator := booking.NewOrchestrator(
		provRepo,
		bookingRepo,
		backend,
		booking.NewRedisSessionStore(sessionCache, time.Duration(cfg.SessionTTLMinutes)*time.Minute),
		pricing.NewEngine(logger, bookingMetrics),
		bookingMetrics,
		logger,
		booking.Options{
			DefaultStepMinutes: cfg.SlotStepMinutes,
			DefaultRule:        defaultRule,
			HorizonDays:        cfg.SlotHorizonDays,
			DefaultCurrency:    cfg.DefaultCurrency,
		},
	)

	utils.StartHealthMonitor(ctx, 30*time.Second, map[string]utils.Pinger{
		"mongo": utils.PingerFunc(database.Ping),
		"redis": utils.PingerFunc(func(ctx context.Context) error { return sessionCache.Ping(ctx).Err() }),
	})

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Fatal("Invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(metrics.NewHTTPMetrics(nil).Middleware())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))

	routes.RegisterRoutes(router, &handlers.HandlerBundle{
		Booking:  handlers.NewBookingHandler(orchestrator, logger),
		Provider: handlers.NewProviderHandler(provRepo, logger),
	}, cfg.MetricsPath)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
