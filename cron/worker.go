package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"turnero/config"
	schedulingRepo "turnero/database/repository/scheduling"
	"turnero/models"
	"turnero/services/pricing"
	"turnero/services/waitlist"
	"turnero/utils"
)

const (
	TypeWaitlistSweep = "waitlist:sweep"
	TypePricingReload = "pricing:reload"
)

// InitSchedulingWorker runs the periodic waitlist sweep and pricing rule
// reload in the background.
func InitSchedulingWorker(repo schedulingRepo.Repository, wl waitlist.Manager, engine pricing.Engine) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeWaitlistSweep, handleWaitlistSweep(repo, wl))
	mux.HandleFunc(TypePricingReload, handlePricingReload(engine))

	go func() {
		log.Println("[SchedulingWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SchedulingWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SchedulingWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go runScheduler(redisOpts)
}

// runScheduler enqueues the periodic tasks. The sweep interval comes from
// config; the rule reload runs hourly.
func runScheduler(redisOpts asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{})

	sweepEvery := config.AppConfig.WaitlistSweepMinutes
	if sweepEvery <= 0 {
		sweepEvery = 10
	}
	if _, err := scheduler.Register(
		fmt.Sprintf("@every %dm", sweepEvery),
		asynq.NewTask(TypeWaitlistSweep, nil),
	); err != nil {
		log.Fatalf("[SchedulingWorker] Failed to register waitlist sweep: %v", err)
	}
	if _, err := scheduler.Register("@every 1h", asynq.NewTask(TypePricingReload, nil)); err != nil {
		log.Fatalf("[SchedulingWorker] Failed to register pricing reload: %v", err)
	}

	if err := scheduler.Run(); err != nil {
		log.Fatalf("[SchedulingWorker] Scheduler stopped: %v", err)
	}
}

// handleWaitlistSweep runs the waitlist scan for every provider that has
// active entries. The manager checks each top entry's preferred intervals
// itself, so the sweep passes no freed interval. The per-entry debounce
// keeps repeated sweeps from spamming clients.
func handleWaitlistSweep(repo schedulingRepo.Repository, wl waitlist.Manager) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		logger := utils.GetLogger().With(zap.String("task", TypeWaitlistSweep))

		providers, err := repo.ProvidersWithActiveWaitlist(ctx)
		if err != nil {
			logger.Error("Failed to list providers with waitlists", zap.Error(err))
			return err
		}

		for _, providerID := range providers {
			if err := wl.ProcessProvider(ctx, providerID, models.TimeRange{}); err != nil {
				logger.Warn("Waitlist sweep failed for provider",
					zap.String("providerID", providerID), zap.Error(err))
			}
		}
		logger.Debug("Waitlist sweep complete", zap.Int("providers", len(providers)))
		return nil
	}
}

func handlePricingReload(engine pricing.Engine) asynq.HandlerFunc {
	return func(_ context.Context, _ *asynq.Task) error {
		if err := engine.Reload(); err != nil {
			utils.GetLogger().Error("Failed to reload pricing rules", zap.Error(err))
			return err
		}
		return nil
	}
}
