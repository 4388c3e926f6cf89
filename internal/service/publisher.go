package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/school-workshop/movie-review-challenge/internal/logging"
	"github.com/school-workshop/movie-review-challenge/internal/metrics"
	"github.com/school-workshop/movie-review-challenge/internal/model"
	"github.com/school-workshop/movie-review-challenge/internal/queue"
)

// Publisher delivers review events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ReviewEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.ReviewEvent) error { return nil }

// AMQPPublisher sends events to the durable review queue over RabbitMQ.
// Each publish dials its own connection so a broker outage never poisons
// a long-lived channel.
type AMQPPublisher struct {
	URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{URL: url}
}

// Publish marks the message persistent.  Errors are logged and returned so
// callers may ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.ReviewEvent) error {
	log := logging.With("publisher")

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		queue.ReviewQueueName, // name
		true,                  // durable
		false,                 // autoDelete
		false,                 // exclusive
		false,                 // noWait
		nil,                   // args
	); err != nil {
		log.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ReviewQueueName, false, false, pub); err != nil {
		log.Warn().Err(err).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}

const publishTimeout = 5 * time.Second

// emit publishes ev in the background, detached from the request context.
func emit(p Publisher, ev queue.ReviewEvent) {
	if p == nil {
		return
	}
	if _, nop := p.(NopPublisher); nop {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		result := "ok"
		if err := p.Publish(ctx, ev); err != nil {
			result = "error"
		}
		metrics.EventsPublished.WithLabelValues(ev.Type, result).Inc()
	}()
}

func reviewCreatedEvent(title string, rv *model.Review) queue.ReviewEvent {
	return queue.ReviewEvent{
		Type:         queue.ReviewCreated,
		ReviewID:     rv.ID,
		MovieID:      rv.MovieID,
		MovieTitle:   title,
		ReviewerName: rv.ReviewerName,
		Rating:       rv.Rating,
		OccurredAt:   rv.CreatedAt.Format(time.RFC3339),
	}
}

func reviewDeletedEvent(rv *model.Review, at time.Time) queue.ReviewEvent {
	return queue.ReviewEvent{
		Type:       queue.ReviewDeleted,
		ReviewID:   rv.ID,
		MovieID:    rv.MovieID,
		OccurredAt: at.Format(time.RFC3339),
	}
}
