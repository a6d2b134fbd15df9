package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartBookingConsumer listens on the booking.confirmed queue and delivers
// a confirmation for every published booking.  Confirmed messages are
// acked, undeliverable ones are nacked without requeue so a bad payload
// cannot wedge the queue.  The consumer reconnects with a fixed backoff
// until ctx is cancelled.
func StartBookingConsumer(ctx context.Context, amqpURL string, mailer *Mailer, logDir string) {
	if amqpURL == "" {
		log.Println("[consumer] AMQP url empty, booking consumer disabled")
		return
	}
	const backoff = 5 * time.Second
	for {
		if err := consumeOnce(ctx, amqpURL, mailer, logDir); err != nil {
			log.Printf("[consumer] connection lost: %v, retrying in %s", err, backoff)
		}
		select {
		case <-ctx.Done():
			log.Println("[consumer] shutting down")
			return
		case <-time.After(backoff):
		}
	}
}

// consumeOnce holds a single connection open and processes deliveries until
// the channel closes or ctx is cancelled.
func consumeOnce(ctx context.Context, amqpURL string, mailer *Mailer, logDir string) error {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	// One unacked message at a time keeps delivery ordered per consumer.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	msgs, err := ch.Consume(BookingConfirmedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}
	log.Println("[consumer] waiting for booking confirmations")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			if err := handleDelivery(d.Body, mailer, logDir); err != nil {
				log.Printf("[consumer] dropping message: %v", err)
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

func handleDelivery(body []byte, mailer *Mailer, logDir string) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if mailer.Configured() && ev.Email != "" {
		if err := mailer.SendBookingConfirmation(ev); err != nil {
			// Mail failures are logged, not retried; the booking itself
			// already exists and a requeue loop would just hammer SMTP.
			log.Printf("[consumer] email to %s failed: %v", ev.Email, err)
			return appendBookingLog(logDir, ev)
		}
		log.Printf("[consumer] confirmation emailed for booking %s", ev.BookingID)
		return nil
	}
	return appendBookingLog(logDir, ev)
}

// appendBookingLog records the confirmation in logs/booking.log when email
// delivery is unavailable.
func appendBookingLog(logDir string, ev BookingConfirmedEvent) error {
	if logDir == "" {
		logDir = "logs"
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(logDir, "booking.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s booking=%s event=%s usn=%s seats=%v\n",
		time.Now().UTC().Format(time.RFC3339), ev.BookingID, ev.EventID, ev.USN, ev.Seats)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	log.Printf("[consumer] confirmation logged for booking %s", ev.BookingID)
	return nil
}
