package rabbitmq_producer

import (
	"context"
	"fmt"
	"sync"

	"listing-web/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// PublisherConfig конфигурация издателя
type PublisherConfig struct {
	rabbitmq_common.Config
	ExchangeName string
	ExchangeType string // direct, fanout, topic, headers
	Durable      bool
	// DeclareExchange - объявить обменник при создании, иначе он должен уже существовать
	DeclareExchange bool

	Logger rabbitmq_common.Logger
}

// Publisher публикует сообщения в один обменник через свой канал.
// Канал amqp не потокобезопасен, поэтому Publish сериализуется мьютексом.
type Publisher struct {
	config  PublisherConfig
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex

	Logger rabbitmq_common.Logger
}

func NewPublisher(cfg PublisherConfig, connManager *rabbitmq_common.ConnectionManager) (*Publisher, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("producer: invalid base config: %w", err)
	}
	if cfg.DeclareExchange && (cfg.ExchangeName == "" || cfg.ExchangeType == "") {
		return nil, fmt.Errorf("producer: exchange name and type are required to declare an exchange")
	}

	conn, ch, err := connManager.GetChannel()
	if err != nil {
		return nil, fmt.Errorf("producer: failed to get channel from manager: %w", err)
	}

	if cfg.DeclareExchange {
		logger.Debug("Declaring exchange", "name", cfg.ExchangeName, "type", cfg.ExchangeType)
		err = ch.ExchangeDeclare(cfg.ExchangeName, cfg.ExchangeType, cfg.Durable, false, false, false, nil)
		if err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("producer: failed to declare exchange '%s': %w", cfg.ExchangeName, err)
		}
	}

	return &Publisher{
		config:  cfg,
		conn:    conn,
		channel: ch,
		Logger:  logger,
	}, nil
}

// Publish публикует сообщение с ключом маршрутизации routingKey
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.conn == nil || p.conn.IsClosed() {
		return fmt.Errorf("producer: not connected or channel/connection is closed")
	}

	if err := p.channel.PublishWithContext(ctx, p.config.ExchangeName, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("producer: failed to publish message: %w", err)
	}
	return nil
}

// Close закрывает канал издателя, соединение остается у ConnectionManager
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return nil
	}
	err := p.channel.Close()
	p.channel = nil
	if err != nil {
		p.Logger.Error(err, "Error closing producer channel")
		return err
	}
	p.Logger.Debug("Producer closed")
	return nil
}
