package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// DefaultDialTimeout caps the TCP connect plus AMQP handshake of a publish.
const DefaultDialTimeout = 2 * time.Second

// Publisher sends activity events to a durable queue.  Each call opens its
// own connection, so a broker outage only affects the calls made during it.
// A call never outlives its context: the dial is bounded by DialTimeout and
// the context deadline, and the connection is closed when ctx ends.
type Publisher struct {
	URL         string
	Queue       string
	DialTimeout time.Duration
	Logger      zerolog.Logger
}

func NewPublisher(url, queueName string, logger zerolog.Logger) *Publisher {
	return &Publisher{URL: url, Queue: queueName, DialTimeout: DefaultDialTimeout, Logger: logger}
}

// dialTimeout is the smaller of p.DialTimeout and the time left on ctx.
func (p *Publisher) dialTimeout(ctx context.Context) time.Duration {
	d := p.DialTimeout
	if d <= 0 {
		d = DefaultDialTimeout
	}
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < d {
			d = left
		}
	}
	return d
}

func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := p.dialTimeout(ctx)
	if d <= 0 {
		return nil, context.DeadlineExceeded
	}
	return amqp.DialConfig(p.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(d),
	})
}

// Publish marshals ev and publishes it as a persistent message on the
// default exchange with the queue name as routing key.  Errors are logged
// and returned; callers are expected to ignore them.
func (p *Publisher) Publish(ctx context.Context, ev ActivityEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.Logger.Error().Err(err).Msg("rabbitmq: marshal event failed")
		return err
	}

	conn, err := p.dial(ctx)
	if err != nil {
		p.Logger.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()
	// unblocks channel and declare calls on a broker that stops answering
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	ch, err := conn.Channel()
	if err != nil {
		p.Logger.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, p.Queue); err != nil {
		p.Logger.Warn().Err(err).Str("queue", p.Queue).Msg("rabbitmq: queue declare failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.Queue, false, false, pub); err != nil {
		p.Logger.Warn().Err(err).Str("type", ev.Type).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}

// declare makes sure the durable queue exists.  It is idempotent.
func declare(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	return err
}

// NopPublisher drops every event.  It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ActivityEvent) error { return nil }
