package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"listing-web/internal/contextkeys"
	"listing-web/internal/contracts"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"
	"listing-web/pkg/rabbitmq/rabbitmq_common"
	"listing-web/pkg/rabbitmq/rabbitmq_consumer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// PropertyUpdatesConsumerAdapter - входящий адаптер: слушает события об изменении
// объявлений и сбрасывает их кэш через use case.
type PropertyUpdatesConsumerAdapter struct {
	consumer *rabbitmq_consumer.Consumer
	useCase  usecases_port.InvalidatePropertyUseCasePort
	logger   port.LoggerPort
}

func NewPropertyUpdatesConsumerAdapter(
	consumerCfg rabbitmq_consumer.ConsumerConfig,
	useCase usecases_port.InvalidatePropertyUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*PropertyUpdatesConsumerAdapter, error) {
	adapter := newPropertyUpdatesHandler(useCase, logger)

	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_consumer", "queue": consumerCfg.QueueName})
	consumerCfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewConsumer(consumerCfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for property updates: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

func newPropertyUpdatesHandler(useCase usecases_port.InvalidatePropertyUseCasePort, logger port.LoggerPort) *PropertyUpdatesConsumerAdapter {
	return &PropertyUpdatesConsumerAdapter{
		useCase: useCase,
		logger:  logger.WithFields(port.Fields{"component": "PropertyUpdatesConsumerAdapter"}),
	}
}

// messageHandler: сообщение, не прошедшее схему, подтверждается с предупреждением,
// повтор его не исправит. Ошибка use case уходит в цикл повторов.
func (a *PropertyUpdatesConsumerAdapter) messageHandler(ctx context.Context, d amqp.Delivery) error {
	traceID, ok := d.Headers["x-trace-id"].(string)
	if _, err := uuid.Parse(traceID); !ok || err != nil {
		traceID = uuid.New().String()
	}

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})

	eventType, _ := d.Headers["event-type"].(string)
	eventVersion, _ := d.Headers["event-version"].(string)
	if err := contracts.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		msgLogger.Warn("Message failed schema validation, dropping", port.Fields{
			"event_type":    eventType,
			"event_version": eventVersion,
			"error":         err.Error(),
		})
		return nil
	}

	var dto propertyUpdatedEventDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		msgLogger.Warn("Failed to unmarshal property event, dropping", port.Fields{"error": err.Error()})
		return nil
	}

	event := domain.PropertyUpdatedEvent{
		PropertyID: string(dto.PropertyID),
		Action:     dto.Action,
		UpdatedAt:  dto.UpdatedAt,
	}

	eventLogger := msgLogger.WithFields(port.Fields{"property_id": event.PropertyID, "action": event.Action})
	ctx = contextkeys.ContextWithLogger(ctx, eventLogger)
	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	if err := a.useCase.Execute(ctx, event); err != nil {
		eventLogger.Error("Failed to invalidate cache, message will be retried", err, nil)
		return err
	}

	eventLogger.Info("Property event processed", nil)
	return nil
}

// Start реализует PropertyEventsListenerPort
func (a *PropertyUpdatesConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

// Close реализует PropertyEventsListenerPort
func (a *PropertyUpdatesConsumerAdapter) Close() error {
	return a.consumer.Close()
}
