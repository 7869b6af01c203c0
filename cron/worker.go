package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"expertcall/models"
	"expertcall/services/notification"
	"expertcall/services/tasks"
)

// HoldExpirer settles bookings whose payment hold ran out.
type HoldExpirer interface {
	ExpireHold(ctx context.Context, bookingID string) error
}

// Worker runs the background task server.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// NewWorker wires the task handlers onto a new asynq server.
func NewWorker(redisOpt asynq.RedisClientOpt, notifSvc notification.NotificationService, holds HoldExpirer, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)
	return &Worker{srv: srv, mux: NewServeMux(notifSvc, holds, logger), logger: logger}
}

// NewServeMux routes every task type this service enqueues.
func NewServeMux(notifSvc notification.NotificationService, holds HoldExpirer, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(notifSvc, logger))
	mux.HandleFunc(tasks.TypeExpireHold, handleHoldExpiryTask(holds, logger))
	return mux
}

// Start runs the server in the background, retrying startup with backoff.
func (w *Worker) Start() {
	go func() {
		w.logger.Info("starting task worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Error("failed to start task worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Fatal("task worker could not start")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown waits for in-flight tasks and stops the server.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func handleReminderTask(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
		}

		logger.Debug("sending reminder",
			zap.String("bookingId", p.BookingID), zap.String("target", p.Target), zap.String("id", p.ID))

		data := map[string]string{
			"bookingId": p.BookingID,
			"fireDate":  p.FireDate,
			"title":     p.Title,
			"body":      p.Body,
		}

		var err error
		switch p.Target {
		case "user":
			err = notifSvc.SendUserPushNotification(ctx, p.ID, p.Title, p.Body, data)
		case "provider":
			err = notifSvc.SendProviderPushNotification(ctx, p.ID, p.Title, p.Body, data)
		default:
			logger.Warn("unknown reminder target", zap.String("target", p.Target))
			return nil
		}

		if err != nil {
			logger.Error("failed to send reminder", zap.String("bookingId", p.BookingID), zap.Error(err))
		}
		return err
	}
}

func handleHoldExpiryTask(holds HoldExpirer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.HoldExpiryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil || p.BookingID == "" {
			logger.Error("invalid hold expiry payload", zap.ByteString("payload", task.Payload()))
			return fmt.Errorf("invalid hold expiry payload: %w", asynq.SkipRetry)
		}
		if err := holds.ExpireHold(ctx, p.BookingID); err != nil {
			logger.Error("failed to expire hold", zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}
