package rmq

import (
	"context"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// reconnectDelay is the fixed interval between reconnect attempts. The
// transport retries forever; durability is the broker's job.
const reconnectDelay = time.Second

// ErrNotConnected is returned by a publish attempted while the connection
// is down and the next reconnect attempt is not due yet.
var ErrNotConnected = errors.New("rmq: not connected")

// QueueName namespaces a logical queue per deployment environment.
func QueueName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + ":" + name
}

func declare(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	return err
}

// Publisher publishes JSON payloads to a single durable queue. A lost
// connection is re-established lazily: each publish may redial, but no
// more often than reconnectDelay, so a broker outage fails fast instead
// of stalling the caller.
type Publisher struct {
	url   string
	queue string
	log   *zap.SugaredLogger

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	lastDial time.Time
}

func NewPublisher(url, prefix, name string, log *zap.SugaredLogger) (*Publisher, error) {
	p := &Publisher{url: url, queue: QueueName(prefix, name), log: log}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) Queue() string { return p.queue }

func (p *Publisher) connectLocked() error {
	p.lastDial = time.Now()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := declare(ch, p.queue); err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	p.conn = conn
	p.ch = ch

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		if e := <-closed; e != nil {
			p.log.Warnw("rmq_connection_lost", "queue", p.queue, "error", e)
		}
		p.mu.Lock()
		if p.conn == conn {
			p.conn = nil
			p.ch = nil
		}
		p.mu.Unlock()
	}()
	return nil
}

func (p *Publisher) ensureLocked() error {
	if p.ch != nil {
		return nil
	}
	if time.Since(p.lastDial) < reconnectDelay {
		return ErrNotConnected
	}
	return p.connectLocked()
}

// PublishJSON publishes a persistent message carrying jobName in the AMQP
// Type field.
func (p *Publisher) PublishJSON(ctx context.Context, jobName string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureLocked(); err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"", p.queue, false, false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         jobName,
			Body:         body,
		})
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	_ = p.ch.Close()
	return p.conn.Close()
}

// Consumer consumes a single durable queue and survives connection loss:
// the delivery stream returned by Deliveries stays open across redials.
type Consumer struct {
	url      string
	queue    string
	prefetch int
	log      *zap.SugaredLogger
}

func NewConsumer(url, prefix, name string, prefetch int, log *zap.SugaredLogger) *Consumer {
	return &Consumer{url: url, queue: QueueName(prefix, name), prefetch: prefetch, log: log}
}

func (c *Consumer) Queue() string { return c.queue }

// Deliveries dials the broker, declares the queue and streams deliveries
// until ctx is cancelled. On any connection or channel failure it redials
// after a fixed delay, forever.
func (c *Consumer) Deliveries(ctx context.Context) <-chan amqp.Delivery {
	out := make(chan amqp.Delivery)

	go func() {
		defer close(out)
		for {
			if err := c.consumeOnce(ctx, out); err != nil {
				c.log.Warnw("rmq_consume_error", "queue", c.queue, "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
		}
	}()
	return out
}

func (c *Consumer) consumeOnce(ctx context.Context, out chan<- amqp.Delivery) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	if err := declare(ch, c.queue); err != nil {
		return err
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return err
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	c.log.Infow("rmq_consuming", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			select {
			case <-ctx.Done():
				// Unacked delivery is requeued by the broker on close.
				return nil
			case out <- d:
			}
		}
	}
}
