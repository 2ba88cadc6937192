// Package cron runs the background workers: the completion sweeper that
// moves confirmed bookings to completed after their slot has passed.
package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"meetio/config"
	"meetio/database/repository"
	"meetio/models"
	"meetio/services/reservation"
	"meetio/services/tasks"

	"github.com/hibiken/asynq"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}
}

// CompletionScheduler enqueues completion tasks onto the Redis-backed queue.
// It implements reservation.CompletionScheduler.
type CompletionScheduler struct {
	client *asynq.Client
}

// NewCompletionScheduler constructs a scheduler with its own asynq client.
func NewCompletionScheduler() *CompletionScheduler {
	return &CompletionScheduler{client: asynq.NewClient(redisOpts())}
}

// ScheduleCompletion enqueues the deferred completed transition for a
// confirmed booking.
func (s *CompletionScheduler) ScheduleCompletion(booking *models.Booking) error {
	task, opts, err := tasks.NewCompletionTask(booking)
	if err != nil {
		return err
	}
	if _, err := s.client.Enqueue(task, opts...); err != nil {
		return err
	}
	return nil
}

// InitCompletionWorker runs the async worker in background.
func InitCompletionWorker(svc reservation.Service) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeCompleteBooking, handleCompletionTask(svc))

	go func() {
		log.Println("[CompletionWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[CompletionWorker] worker stopped: %v", err)
		}
	}()
}

func handleCompletionTask(svc reservation.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.CompletionPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[CompletionWorker] invalid payload: %v", err)
			return err
		}

		_, err := svc.UpdateStatus(ctx, p.BookingID, models.StatusCompleted)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, reservation.ErrInvalidTransition),
			errors.Is(err, repository.ErrBookingNotFound):
			// Cancelled or already closed in the meantime; nothing to sweep.
			return nil
		default:
			return err
		}
	}
}
