package rabbitmq_consumer

import (
	"fmt"

	"listing-web/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerConfig конфигурация потребителя
type ConsumerConfig struct {
	rabbitmq_common.Config

	QueueName  string
	Durable    bool
	AutoDelete bool
	QueueArgs  amqp.Table

	// Обменник, к которому привязывается очередь
	Exchange        string
	ExchangeType    string
	DeclareExchange bool
	RoutingKey      string

	PrefetchCount int
	ConsumerTag   string

	// Повторы: упавшее сообщение уходит через RetryExchange в RetryQueue с TTL
	// и возвращается в Exchange. После MaxRetries оно публикуется в FinalDLXExchange.
	EnableRetry        bool
	RetryExchange      string
	RetryQueue         string
	RetryTTLMillis     int
	FinalDLXExchange   string
	FinalDLQ           string
	FinalDLQRoutingKey string
	MaxRetries         int

	Logger rabbitmq_common.Logger
}

func (c ConsumerConfig) validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.QueueName == "" {
		return fmt.Errorf("queue name is required")
	}
	if c.DeclareExchange && (c.Exchange == "" || c.ExchangeType == "") {
		return fmt.Errorf("exchange name and type are required to declare an exchange")
	}
	if c.EnableRetry {
		if c.Exchange == "" {
			return fmt.Errorf("retry requires the queue to be bound to an exchange")
		}
		if c.RetryExchange == "" || c.RetryQueue == "" || c.FinalDLXExchange == "" || c.FinalDLQ == "" {
			return fmt.Errorf("retry exchange, retry queue, final DLX and final DLQ are required when retry is enabled")
		}
		if c.RetryTTLMillis <= 0 {
			return fmt.Errorf("retry TTL must be positive")
		}
	}
	return nil
}
