package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"listing-web/pkg/rabbitmq/rabbitmq_common"
	"listing-web/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. Ack/Nack и повторы решает Consumer.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// Consumer читает очередь и обрабатывает каждое сообщение в отдельной горутине.
type Consumer struct {
	config  ConsumerConfig
	handler MessageHandler
	conn    *amqp.Connection
	channel *amqp.Channel
	dlx     *rabbitmq_producer.Publisher
	wg      sync.WaitGroup

	Logger rabbitmq_common.Logger
}

func NewConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*Consumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("consumer: invalid config: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}

	c := &Consumer{
		config:  cfg,
		handler: handler,
		conn:    conn,
		channel: ch,
		Logger:  logger,
	}

	if err := c.setupTopology(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consumer: setup failed: %w", err)
	}

	if cfg.EnableRetry {
		c.dlx, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			Config:       cfg.Config,
			ExchangeName: cfg.FinalDLXExchange,
			Logger:       logger,
		}, connManager)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("consumer: failed to create final DLX publisher: %w", err)
		}
	}

	return c, nil
}

// setupTopology объявляет очередь, привязку и инфраструктуру повторов
func (c *Consumer) setupTopology() error {
	cfg := c.config

	if cfg.PrefetchCount > 0 {
		if err := c.channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if cfg.DeclareExchange {
		c.Logger.Debug("Declaring exchange", "name", cfg.Exchange, "type", cfg.ExchangeType)
		if err := c.channel.ExchangeDeclare(cfg.Exchange, cfg.ExchangeType, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange '%s': %w", cfg.Exchange, err)
		}
	}

	queueArgs := amqp.Table{}
	for k, v := range cfg.QueueArgs {
		queueArgs[k] = v
	}

	if cfg.EnableRetry {
		// Шаг 1: финальный DLX и DLQ
		if err := c.channel.ExchangeDeclare(cfg.FinalDLXExchange, "direct", true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare final DLX: %w", err)
		}
		if _, err := c.channel.QueueDeclare(cfg.FinalDLQ, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare final DLQ: %w", err)
		}
		if err := c.channel.QueueBind(cfg.FinalDLQ, cfg.FinalDLQRoutingKey, cfg.FinalDLXExchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind final DLQ: %w", err)
		}

		// Шаг 2: retry-обменник и очередь ожидания, которая возвращает сообщения в основной обменник
		if err := c.channel.ExchangeDeclare(cfg.RetryExchange, "fanout", true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare retry exchange: %w", err)
		}
		_, err := c.channel.QueueDeclare(cfg.RetryQueue, true, false, false, false, amqp.Table{
			"x-message-ttl":          int32(cfg.RetryTTLMillis),
			"x-dead-letter-exchange": cfg.Exchange,
		})
		if err != nil {
			return fmt.Errorf("failed to declare retry-wait queue: %w", err)
		}
		if err := c.channel.QueueBind(cfg.RetryQueue, "", cfg.RetryExchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind retry-wait queue: %w", err)
		}

		// Шаг 3: отклоненные из основной очереди уходят в retry-обменник
		queueArgs["x-dead-letter-exchange"] = cfg.RetryExchange
	}

	c.Logger.Debug("Declaring queue", "name", cfg.QueueName, "durable", cfg.Durable)
	if _, err := c.channel.QueueDeclare(cfg.QueueName, cfg.Durable, cfg.AutoDelete, false, false, queueArgs); err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", cfg.QueueName, err)
	}

	if cfg.Exchange != "" {
		c.Logger.Debug("Binding queue to exchange", "queue", cfg.QueueName, "exchange", cfg.Exchange, "routing_key", cfg.RoutingKey)
		if err := c.channel.QueueBind(cfg.QueueName, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", cfg.QueueName, cfg.Exchange, err)
		}
	}

	return nil
}

// StartConsuming блокируется до отмены ctx или закрытия соединения брокером.
func (c *Consumer) StartConsuming(ctx context.Context) error {
	if c.channel == nil || c.conn == nil || c.conn.IsClosed() {
		return fmt.Errorf("consumer: not connected")
	}

	msgs, err := c.channel.Consume(c.config.QueueName, c.config.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consumer %s: failed to register on queue '%s': %w", c.config.ConsumerTag, c.config.QueueName, err)
	}
	c.Logger.Info("Waiting for messages", "queue_name", c.config.QueueName)

	notifyClose := c.conn.NotifyClose(make(chan *amqp.Error, 1))

	for {
		select {
		case <-ctx.Done():
			c.Logger.Info("Context cancelled, consumer loop stopped", "consumer_tag", c.config.ConsumerTag)
			return nil

		case amqpErr := <-notifyClose:
			if amqpErr == nil {
				return nil
			}
			c.Logger.Error(amqpErr, "Connection closed for consumer", "consumer_tag", c.config.ConsumerTag)
			return amqpErr

		case d, ok := <-msgs:
			if !ok {
				c.Logger.Info("Deliveries channel closed", "consumer_tag", c.config.ConsumerTag)
				return nil
			}
			c.wg.Add(1)
			go func(delivery amqp.Delivery) {
				defer c.wg.Done()
				c.process(ctx, delivery)
			}(d)
		}
	}
}

func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	handlerErr := c.handler(ctx, d)
	if handlerErr != nil {
		c.Logger.Error(handlerErr, "Handler error for message", "delivery_tag", d.DeliveryTag)
	}

	deaths := deathCount(d.Headers, c.config.QueueName)
	switch decideOutcome(handlerErr, c.config.EnableRetry, deaths, c.config.MaxRetries) {
	case outcomeAck:
		_ = d.Ack(false)

	case outcomeDrop:
		c.Logger.Warn("Retry disabled, dropping message", "delivery_tag", d.DeliveryTag)
		_ = d.Nack(false, false)

	case outcomeRetry:
		c.Logger.Info("Retrying message", "delivery_tag", d.DeliveryTag, "death_count", deaths)
		_ = d.Nack(false, false)

	case outcomeDeadLetter:
		c.Logger.Warn("Max retries reached, publishing to final DLX", "delivery_tag", d.DeliveryTag)
		err := c.dlx.Publish(context.Background(), c.config.FinalDLQRoutingKey, amqp.Publishing{
			ContentType:  d.ContentType,
			Body:         d.Body,
			Headers:      d.Headers,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		})
		if err != nil {
			c.Logger.Error(err, "Failed to publish to final DLX, message goes through retry again", "delivery_tag", d.DeliveryTag)
			_ = d.Nack(false, false)
			return
		}
		_ = d.Ack(false)
	}
}

// Close дожидается обработчиков и закрывает каналы потребителя
func (c *Consumer) Close() error {
	c.wg.Wait()

	var firstErr error
	if c.dlx != nil {
		if err := c.dlx.Close(); err != nil {
			firstErr = err
		}
	}
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.channel = nil
	}
	c.Logger.Info("Consumer closed")
	return firstErr
}
