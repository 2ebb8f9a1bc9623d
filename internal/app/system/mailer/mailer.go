// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/groupwork/internal/app/system/workers"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RoutingKey is the topic used for outgoing email jobs.
const RoutingKey = "email.send"

// Email is one message to one recipient.
type Email struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"textBody"`
	HTMLBody string `json:"htmlBody,omitempty"`
}

// Sender hands an email to the delivery system.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// job is the message body published for the mail delivery service.
type job struct {
	From     string `json:"from"`
	FromName string `json:"fromName,omitempty"`
	Email
}

// QueueSender publishes email jobs to a RabbitMQ topic exchange.
type QueueSender struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	from     string
	fromName string
}

// NewQueueSender dials url and declares the exchange.
func NewQueueSender(url, exchange, from, fromName string) (*QueueSender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &QueueSender{conn: conn, ch: ch, exchange: exchange, from: from, fromName: fromName}, nil
}

func (s *QueueSender) Send(ctx context.Context, e Email) error {
	if e.To == "" {
		return errors.New("mailer: empty recipient")
	}
	b, err := json.Marshal(job{From: s.from, FromName: s.fromName, Email: e})
	if err != nil {
		return err
	}
	return s.ch.PublishWithContext(ctx, s.exchange, RoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}

func (s *QueueSender) Close() error {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// LogSender logs emails instead of sending them. Used when no broker is
// configured.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Send(ctx context.Context, e Email) error {
	if s.Log != nil {
		s.Log.Info("email not sent (no broker configured)",
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
	}
	return nil
}

// Async sends emails on a background worker.
type Async struct {
	q *workers.Queue[Email]
}

// NewAsync wraps next. Call Start before Send and Stop on shutdown.
func NewAsync(next Sender, logger *zap.Logger, timeout time.Duration) *Async {
	return &Async{
		q: workers.NewQueue[Email]("email", next.Send, logger, 0, 1, timeout),
	}
}

func (a *Async) Start() { a.q.Start() }
func (a *Async) Stop()  { a.q.Stop() }
func (a *Async) Wait()  { a.q.Wait() }

// Send queues e. Emails without a recipient are ignored.
func (a *Async) Send(e Email) {
	if e.To == "" {
		return
	}
	a.q.Enqueue(e)
}
