package rabbitmq_consumer

import (
	"errors"
	"testing"

	"listing-web/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

func TestDecideOutcome(t *testing.T) {
	failure := errors.New("handler failed")

	assert.Equal(t, outcomeAck, decideOutcome(nil, true, 5, 3))
	assert.Equal(t, outcomeDrop, decideOutcome(failure, false, 0, 3))
	assert.Equal(t, outcomeRetry, decideOutcome(failure, true, 0, 3))
	assert.Equal(t, outcomeRetry, decideOutcome(failure, true, 2, 3))
	assert.Equal(t, outcomeDeadLetter, decideOutcome(failure, true, 3, 3))
	assert.Equal(t, outcomeDeadLetter, decideOutcome(failure, true, 0, 0))
}

func TestDeathCount(t *testing.T) {
	headers := amqp.Table{
		"x-death": []interface{}{
			amqp.Table{"queue": "retry-wait", "count": int64(4)},
			amqp.Table{"queue": "main", "count": int64(2)},
		},
	}

	assert.Equal(t, int64(2), deathCount(headers, "main"))
	assert.Equal(t, int64(0), deathCount(headers, "other"))
	assert.Equal(t, int64(0), deathCount(nil, "main"))
	assert.Equal(t, int64(0), deathCount(amqp.Table{"x-death": "garbage"}, "main"))
}

func TestConsumerConfigValidate(t *testing.T) {
	base := ConsumerConfig{
		Config:    rabbitmq_common.Config{URL: "amqp://localhost"},
		QueueName: "q",
		Exchange:  "ex",
	}
	assert.NoError(t, base.validate())

	noQueue := base
	noQueue.QueueName = ""
	assert.Error(t, noQueue.validate())

	retry := base
	retry.EnableRetry = true
	assert.Error(t, retry.validate(), "retry without topology")

	retry.RetryExchange, retry.RetryQueue = "q.retry", "q.wait"
	retry.FinalDLXExchange, retry.FinalDLQ = "q.dlx", "q.dlq"
	retry.RetryTTLMillis = 5000
	assert.NoError(t, retry.validate())

	declare := base
	declare.DeclareExchange = true
	assert.Error(t, declare.validate(), "declaring requires exchange type")
}
