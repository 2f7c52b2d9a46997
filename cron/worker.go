package cron

import (
	"context"
	"errors"
	"time"

	"sailsmart/services/notification"
	"sailsmart/services/tasks"
	"sailsmart/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitNotificationWorker runs the notification queue worker in the background.
func InitNotificationWorker(notifSvc notification.NotificationService) *asynq.Server {
	redisOpts := utils.QueueRedisOpt()

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueNotifications: 1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(reportFailure),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRegistrationDecision, handleDecisionTask(notifSvc))

	go monitorRedisConnection(redisOpts)

	go func() {
		logger := utils.GetLogger()
		logger.Info("Starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("Notification worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Notification worker: max start attempts reached")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

func handleDecisionTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()
		n, err := tasks.ParseDecisionTask(task)
		if err != nil {
			logger.Error("Dropping malformed decision task", zap.Error(err))
			return errors.Join(err, asynq.SkipRetry)
		}

		err = notifSvc.NotifyDecision(ctx, n)
		switch {
		case err == nil:
			logger.Info("Decision notification delivered",
				zap.String("registrationId", n.RegistrationID), zap.String("status", string(n.Status)))
			return nil
		case errors.Is(err, notification.ErrNoPushTarget):
			logger.Warn("Crew member cannot receive pushes",
				zap.String("registrationId", n.RegistrationID), zap.String("crewUserId", n.CrewUserID))
			return errors.Join(err, asynq.SkipRetry)
		}
		return err
	}
}

// reportFailure logs task failures; a task that will not be retried again is archived by
// asynq and logged here as a dead letter.
func reportFailure(ctx context.Context, task *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	logger := utils.GetLogger()

	fields := []zap.Field{
		zap.String("type", task.Type()),
		zap.ByteString("payload", task.Payload()),
		zap.Int("retried", retried),
		zap.Int("maxRetry", maxRetry),
		zap.Error(err),
	}
	if deadLettered(retried, maxRetry, err) {
		logger.Error("Notification dead-lettered", fields...)
		return
	}
	logger.Warn("Notification attempt failed, will retry", fields...)
}

func deadLettered(retried, maxRetry int, err error) bool {
	return retried >= maxRetry || errors.Is(err, asynq.SkipRetry)
}

// monitorRedisConnection pings the queue Redis periodically to detect failures at runtime.
func monitorRedisConnection(opts asynq.RedisClientOpt) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("Notification queue Redis unreachable", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
