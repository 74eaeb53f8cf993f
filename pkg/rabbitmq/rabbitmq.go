// Package rabbitmq publishes and consumes JSON order events over AMQP.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

const (
	defaultExchange = "order"
	defaultQueue    = "order_events"
	bindingKey      = "order.#"
)

// channel is the subset of *amqp.Channel the client uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     io.Closer
	channel  channel
	exchange string
	queue    string
	logger   *zap.Logger
	mu       sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
	Queue    string
}

// Handler processes one event. Returning an error requeues the message.
type Handler func(ctx context.Context, routingKey string, body []byte) error

// NewClient connects to RabbitMQ and declares the order exchange and queue.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	c, err := newClient(conn, ch, cfg, logger)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return c, nil
}

func newClient(conn io.Closer, ch channel, cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
		logger:   logger,
	}
	if c.exchange == "" {
		c.exchange = defaultExchange
	}
	if c.queue == "" {
		c.queue = defaultQueue
	}

	if err := ch.ExchangeDeclare(c.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", c.exchange, err)
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", c.queue, err)
	}
	if err := ch.QueueBind(c.queue, bindingKey, c.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue %s: %w", c.queue, err)
	}

	logger.Info("rabbitmq client ready", zap.String("exchange", c.exchange), zap.String("queue", c.queue))
	return c, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishJSON marshals v and publishes it as a persistent message with the
// given routing key on the order exchange.
func (c *Client) PublishJSON(ctx context.Context, routingKey string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}
	err = c.channel.Publish(c.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	c.logger.Debug("event published", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))
	return nil
}

// ConsumeOrderEvents delivers queued events to handler until ctx is done or
// the channel closes. Messages are acked on success and requeued on error,
// except malformed JSON which is rejected.
func (c *Client) ConsumeOrderEvents(ctx context.Context, handler Handler) error {
	c.mu.Lock()
	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.handle(ctx, msg, handler)
		}
	}
}

func (c *Client) handle(ctx context.Context, msg amqp.Delivery, handler Handler) {
	log := c.logger.With(zap.Uint64("delivery_tag", msg.DeliveryTag), zap.String("routing_key", msg.RoutingKey))

	if !json.Valid(msg.Body) {
		log.Warn("rejecting malformed event")
		if err := msg.Reject(false); err != nil {
			log.Error("failed to reject message", zap.Error(err))
		}
		return
	}
	if err := handler(ctx, msg.RoutingKey, msg.Body); err != nil {
		log.Warn("event handler failed, requeueing", zap.Error(err))
		if err := msg.Nack(false, true); err != nil {
			log.Error("failed to nack message", zap.Error(err))
		}
		return
	}
	if err := msg.Ack(false); err != nil {
		log.Error("failed to ack message", zap.Error(err))
	}
}
