package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // guards channel for publishing
	log     *logrus.Logger
}

// Config holds RabbitMQ connection details. With DeadLetter set, every
// queue gets a durable companion named by DeadLetterQueue that receives
// its nacked messages.
type Config struct {
	URL        string
	Queues     []string
	DeadLetter bool
}

// DeadLetterQueue names the queue that keeps messages rejected from queue.
func DeadLetterQueue(queue string) string {
	return queue + ".dead"
}

// queueArgs returns the declaration arguments for queue.
func queueArgs(queue string, deadLetter bool) amqp.Table {
	if !deadLetter {
		return nil
	}
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DeadLetterQueue(queue),
	}
}

// NewClient connects to RabbitMQ, opens a channel and declares cfg.Queues
// as durable queues.
func NewClient(cfg Config, log *logrus.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, q := range cfg.Queues {
		if cfg.DeadLetter {
			if err := declare(ch, DeadLetterQueue(q), nil); err != nil {
				ch.Close()
				conn.Close()
				return nil, err
			}
		}
		if err := declare(ch, q, queueArgs(q, cfg.DeadLetter)); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	log.Infof("RabbitMQ client connected, %d queue(s) declared", len(cfg.Queues))
	return &Client{
		conn:    conn,
		channel: ch,
		log:     log,
	}, nil
}

func declare(ch *amqp.Channel, queue string, args amqp.Table) error {
	_, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		args,  // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", queue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
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
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to queue through the default
// exchange. The AMQP client has no cancellable publish, so ctx is only
// checked before sending.
func (c *Client) Publish(ctx context.Context, queue string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	err := c.channel.Publish(
		"",    // exchange: default exchange
		queue, // routing key: the queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	c.log.Debugf("Published %d bytes to %s", len(body), queue)
	return nil
}

// Consume delivers messages from queue to messageHandler on a background
// goroutine until the channel closes. A nil error acks the message; an
// error nacks it without requeueing, so a poison message cannot loop; a
// queue declared with DeadLetter keeps it in its dead-letter queue.
func (c *Client) Consume(queue string, messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		queue, // queue
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.Infof("Waiting for messages on %s", queue)

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				c.log.Errorf("Error processing message %d: %v", msg.DeliveryTag, err)
				if nackErr := msg.Nack(false, false); nackErr != nil {
					c.log.Errorf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.log.Errorf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
			}
		}
		c.log.Infof("Consumer for %s stopped", queue)
	}()

	return nil
}
