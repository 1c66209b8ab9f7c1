package queue

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RabbitMQQueue maps the subject-based MessageQueue contract onto AMQP:
// each subject becomes a durable fanout exchange, each subscriber an
// exclusive auto-deleted queue bound to it. Subscriptions are tracked so
// they can be replayed after a reconnect, which the AMQP client does not
// do on its own.
type RabbitMQQueue struct {
	url  string
	opts Options
	log  *zap.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	subs    []rabbitSubscription
	closed  bool
}

type rabbitSubscription struct {
	subject string
	handler func(data []byte) error
}

// NewRabbitMQQueue connects to RabbitMQ and starts the reconnect monitor.
func NewRabbitMQQueue(url string, opts Options, log *zap.Logger) (MessageQueue, error) {
	conn, ch, err := dialRabbitMQ(url)
	if err != nil {
		return nil, err
	}

	q := &RabbitMQQueue{
		url:     url,
		opts:    opts.withDefaults(),
		log:     log,
		conn:    conn,
		channel: ch,
	}
	go q.monitorConnection()

	log.Info("Successfully connected to RabbitMQ", zap.String("url", url))
	return q, nil
}

func dialRabbitMQ(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open RabbitMQ channel: %w", err)
	}
	return conn, ch, nil
}

func (q *RabbitMQQueue) Publish(subject string, data []byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.channel == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}
	if err := q.declareExchange(subject); err != nil {
		return err
	}

	err := q.channel.Publish(
		subject, "", false, false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        data,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	return nil
}

func (q *RabbitMQQueue) Subscribe(subject string, handler func(data []byte) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.channel == nil {
		return fmt.Errorf("rabbitmq: channel not available")
	}
	if err := q.consume(subject, handler); err != nil {
		return err
	}

	q.subs = append(q.subs, rabbitSubscription{subject: subject, handler: handler})
	q.log.Info("Subscribed to RabbitMQ exchange", zap.String("exchange", subject))
	return nil
}

// consume binds a fresh exclusive queue to the subject exchange and pumps
// deliveries into the handler. Caller holds at least a read lock.
func (q *RabbitMQQueue) consume(subject string, handler func(data []byte) error) error {
	if err := q.declareExchange(subject); err != nil {
		return err
	}

	queue, err := q.channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare queue: %w", err)
	}
	if err := q.channel.QueueBind(queue.Name, "", subject, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: bind queue: %w", err)
	}

	msgs, err := q.channel.Consume(queue.Name, "", true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg.Body); err != nil {
				q.log.Error("Error processing RabbitMQ message",
					zap.String("exchange", subject),
					zap.Error(err),
				)
			}
		}
	}()
	return nil
}

func (q *RabbitMQQueue) declareExchange(subject string) error {
	if err := q.channel.ExchangeDeclare(subject, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}
	return nil
}

func (q *RabbitMQQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

// monitorConnection redials after a lost connection, honoring the reconnect
// policy, and replays every registered subscription on the new channel.
func (q *RabbitMQQueue) monitorConnection() {
	for {
		reason, ok := <-q.conn.NotifyClose(make(chan *amqp.Error))
		if !ok {
			return
		}

		q.mu.RLock()
		closed := q.closed
		q.mu.RUnlock()
		if closed {
			return
		}
		q.log.Warn("RabbitMQ connection lost, reconnecting...", zap.String("reason", reason.Reason))

		if !q.reconnect() {
			return
		}
	}
}

func (q *RabbitMQQueue) reconnect() bool {
	for attempt := 1; ; attempt++ {
		if q.opts.MaxReconnects > 0 && attempt > q.opts.MaxReconnects {
			q.log.Error("Giving up on RabbitMQ reconnect",
				zap.Int("attempts", q.opts.MaxReconnects),
			)
			return false
		}

		time.Sleep(q.opts.ReconnectWait)

		conn, ch, err := dialRabbitMQ(q.url)
		if err != nil {
			q.log.Error("Failed to reconnect to RabbitMQ",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		q.mu.Lock()
		q.conn = conn
		q.channel = ch
		subs := make([]rabbitSubscription, len(q.subs))
		copy(subs, q.subs)
		for _, sub := range subs {
			if err := q.consume(sub.subject, sub.handler); err != nil {
				q.log.Error("Failed to restore RabbitMQ subscription",
					zap.String("exchange", sub.subject),
					zap.Error(err),
				)
			}
		}
		q.mu.Unlock()

		q.log.Info("Successfully reconnected to RabbitMQ",
			zap.Int("subscriptions", len(subs)),
		)
		return true
	}
}
