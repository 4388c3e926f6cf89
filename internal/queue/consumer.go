// Package queue contains the background consumer that listens to the
// review.events queue and appends one line per event to reviews.log.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/school-workshop/movie-review-challenge/internal/logging"
)

// StartReviewConsumer connects to the broker, declares the durable review
// queue and consumes until ctx is cancelled.  Dial failures and closed
// channels are retried with exponential backoff capped at 30s.  Messages
// that cannot be handled are rejected without requeue.
func StartReviewConsumer(ctx context.Context, url, logDir string) error {
	log := logging.With("review-consumer")

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, logDir)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, logDir string) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logging.Warn().Err(err).Msg("review-consumer: set QoS failed")
	}

	if _, err := ch.QueueDeclare(ReviewQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(ReviewQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(logDir, d.Body); err != nil {
				logging.Error().Err(err).Msg("review-consumer: handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes a ReviewEvent and appends it to logDir/reviews.log.
func HandleMessage(logDir string, body []byte) error {
	var ev ReviewEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(logDir, "reviews.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders an event as one human-friendly log line.
func FormatLine(ev ReviewEvent) string {
	switch ev.Type {
	case ReviewCreated:
		return fmt.Sprintf("[%s] Review added | review_id=%d | movie_id=%d | movie=%q | reviewer=%q | rating=%d\n",
			ev.OccurredAt, ev.ReviewID, ev.MovieID, ev.MovieTitle, ev.ReviewerName, ev.Rating)
	case ReviewDeleted:
		return fmt.Sprintf("[%s] Review deleted | review_id=%d | movie_id=%d\n",
			ev.OccurredAt, ev.ReviewID, ev.MovieID)
	default:
		return fmt.Sprintf("[%s] %s | review_id=%d | movie_id=%d\n", ev.OccurredAt, ev.Type, ev.ReviewID, ev.MovieID)
	}
}
