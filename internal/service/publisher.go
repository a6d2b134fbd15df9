package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/bookevntz/auditorium-backend/internal/queue"
)

// Publisher sends booking confirmations to RabbitMQ.  Delivery is fire and
// forget: errors are logged and returned so callers can ignore them, and
// nothing blocks or retries on the request path.
type Publisher struct {
	url string
}

// NewPublisher returns a Publisher for the given AMQP URL.  An empty URL
// yields a disabled publisher whose Publish is a logged no-op.
func NewPublisher(url string) *Publisher { return &Publisher{url: url} }

// BookingConfirmed publishes the event to the booking.confirmed queue.
// The queue is declared durable and the message persistent so confirmations
// survive a broker restart.  The function never panics; every failure is
// logged and returned.
func (p *Publisher) BookingConfirmed(ctx context.Context, event q.BookingConfirmedEvent) error {
	if p.url == "" {
		log.Printf("rabbitmq: no broker configured, dropping confirmation for %s", event.BookingID)
		return nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		q.BookingConfirmedQueue, // name
		true,                    // durable
		false,                   // autoDelete
		false,                   // exclusive
		false,                   // noWait
		nil,                     // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                      // default exchange
		q.BookingConfirmedQueue, // routing key = queue name
		false,                   // mandatory
		false,                   // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
