package rabbitmq_consumer

import amqp "github.com/rabbitmq/amqp091-go"

// outcome - что сделать с сообщением после обработчика.
type outcome int

const (
	outcomeAck outcome = iota
	outcomeDrop
	outcomeRetry
	outcomeDeadLetter
)

func decideOutcome(handlerErr error, retryEnabled bool, deathCount int64, maxRetries int) outcome {
	switch {
	case handlerErr == nil:
		return outcomeAck
	case !retryEnabled:
		return outcomeDrop
	case deathCount < int64(maxRetries):
		return outcomeRetry
	default:
		return outcomeDeadLetter
	}
}

// deathCount возвращает, сколько раз сообщение было отклонено из очереди queueName (заголовок x-death).
func deathCount(headers amqp.Table, queueName string) int64 {
	deaths, ok := headers["x-death"].([]interface{})
	if !ok {
		return 0
	}
	for _, death := range deaths {
		tbl, ok := death.(amqp.Table)
		if !ok {
			continue
		}
		if queue, _ := tbl["queue"].(string); queue != queueName {
			continue
		}
		if count, ok := tbl["count"].(int64); ok {
			return count
		}
	}
	return 0
}
