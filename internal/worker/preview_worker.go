package worker

import (
	"FileVault/config"
	"FileVault/internal/mq"
	"FileVault/internal/service"
	"FileVault/internal/task"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
)

type dlqMessage struct {
	FileID   uint64    `json:"file_id"`
	Attempt  int       `json:"attempt"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// RunPreviewWorker consumes preview tasks from RabbitMQ.
func RunPreviewWorker(ctx context.Context) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	prefetch := config.AppConfig.RabbitMQPrefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(
		mq.QueueTasks,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	concurrency := config.AppConfig.PreviewWorkerConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	burst := config.AppConfig.PreviewBurst
	if burst <= 0 {
		burst = 1
	}
	rateLimit := config.AppConfig.PreviewRate
	var limiter *rate.Limiter
	if rateLimit <= 0 {
		limiter = rate.NewLimiter(rate.Inf, burst)
	} else {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), burst)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("preview worker: delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handlePreviewMessage(ctx, client, limiter, d)
			}(delivery)
		}
	}
}

func handlePreviewMessage(ctx context.Context, client *mq.Client, limiter *rate.Limiter, delivery amqp.Delivery) {
	var msg task.PreviewMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("preview worker: invalid message: %v", err)
		_ = delivery.Ack(false)
		return
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			_ = delivery.Nack(false, true)
			return
		}
	}

	if err := task.ProcessPreviewTask(ctx, msg.FileID); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			_ = delivery.Nack(false, true)
			return
		}
		if shouldRetry(err) {
			if err := scheduleRetry(ctx, client, msg, err); err != nil {
				log.Printf("preview worker: retry schedule failed: %v", err)
				_ = delivery.Nack(false, true)
				return
			}
		} else {
			if err := publishDLQ(ctx, client, msg, err); err != nil {
				log.Printf("preview worker: dlq publish failed: %v", err)
				_ = delivery.Nack(false, true)
				return
			}
		}
	}

	_ = delivery.Ack(false)
}

// shouldRetry keeps transient faults in the retry loop and sends
// everything permanent straight to the dead-letter queue.
func shouldRetry(err error) bool {
	switch service.ErrKind(err) {
	case service.KindNotFound, service.KindValidation, service.KindInvalidName:
		return false
	}
	return true
}

func scheduleRetry(ctx context.Context, client *mq.Client, msg task.PreviewMessage, procErr error) error {
	maxRetry := config.AppConfig.PreviewRetryMax
	if maxRetry < 0 {
		maxRetry = 0
	}
	nextAttempt := msg.Attempt + 1
	if maxRetry == 0 || nextAttempt > maxRetry {
		return publishDLQ(ctx, client, msg, procErr)
	}

	delay := pickRetryDelay(nextAttempt, config.AppConfig.PreviewRetryDelays)
	msg.Attempt = nextAttempt
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return client.PublishRetry(ctx, body, delay)
}

func publishDLQ(ctx context.Context, client *mq.Client, msg task.PreviewMessage, procErr error) error {
	dlq := dlqMessage{
		FileID:   msg.FileID,
		Attempt:  msg.Attempt,
		Error:    procErr.Error(),
		FailedAt: time.Now(),
	}
	body, err := json.Marshal(dlq)
	if err != nil {
		return err
	}
	return client.PublishDLQ(ctx, body)
}

func pickRetryDelay(attempt int, delays []time.Duration) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	index := attempt - 1
	if index < 0 {
		index = 0
	}
	if index >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[index]
}
