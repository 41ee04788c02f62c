package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"turnero/config"
	"turnero/cron"
	"turnero/database"
	schedulingRepo "turnero/database/repository/scheduling"
	"turnero/handlers"
	"turnero/routes"
	"turnero/services/booking"
	"turnero/services/notification"
	"turnero/services/pricing"
	"turnero/services/scheduling"
	"turnero/services/waitlist"
	"turnero/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitQueue()

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	repo := schedulingRepo.NewMongoRepo()

	// services.
	detector := scheduling.NewDefaultConflictDetector(repo)
	detector.Search = scheduling.SearchConfig{
		Days:          config.AppConfig.AltSearchDays,
		StepMinutes:   config.AppConfig.AltStepMinutes,
		MaxCandidates: config.AppConfig.AltMaxCandidates,
	}
	calendarEngine := &scheduling.DefaultCalendarEngine{Repo: repo}

	pricingEngine, err := pricing.NewDefaultEngine(
		repo,
		pricing.FileSource{Path: config.AppConfig.PricingRulesFile},
		config.AppConfig.DemandDailySlots,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize pricing engine: %v", err)
	}

	notifier := notification.NewQueueNotifier(utils.GetQueueClient())
	waitlistManager := waitlist.NewDefaultManager(
		repo,
		detector,
		notifier,
		waitlist.RedisDebouncer{Client: utils.GetCacheClient()},
		config.AppConfig.WaitlistTopK,
		time.Duration(config.AppConfig.WaitlistDebounceMinutes)*time.Minute,
	)

	bookingService := booking.NewDefaultService(repo, detector, pricingEngine, waitlistManager)

	// Assemble the handler bundle and register routes.
	handlerBundle := handlers.NewHandlerBundle(bookingService, calendarEngine, waitlistManager)
	routes.RegisterRoutes(router, handlerBundle)

	// Background worker: waitlist sweeps and pricing rule reloads.
	cron.InitSchedulingWorker(repo, waitlistManager, pricingEngine)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
