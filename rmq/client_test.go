package rmq

import (
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	config := Config{Host: "rabbit", Port: 5673, Username: "ner", Password: "secret", Vhost: "nlp"}

	uri, err := amqp.ParseURI(config.URL())
	require.NoError(t, err)
	assert.Equal(t, "rabbit", uri.Host)
	assert.Equal(t, 5673, uri.Port)
	assert.Equal(t, "ner", uri.Username)
	assert.Equal(t, "secret", uri.Password)
	assert.Equal(t, "nlp", uri.Vhost)
}

func TestReadConfig(t *testing.T) {
	t.Setenv("NER_RMQ_HOST", "rabbit")
	t.Setenv("NER_RMQ_USERNAME", "ner")
	t.Setenv("NER_RMQ_PASSWORD", "secret")
	t.Setenv("NER_RMQ_TASK_QUEUE", "ner-tasks")
	t.Setenv("NER_RMQ_REPLY_QUEUE", "ner-replies")

	config, err := ReadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5672, config.Port)
	assert.Equal(t, "ner-exchange", config.Exchange)
	assert.Equal(t, 5, config.Prefetch)
	assert.Equal(t, "ner-tasks", config.TaskQueue)
}

func TestFirstClosing(t *testing.T) {
	conn := make(chan *amqp.Error, 1)
	channel := make(chan *amqp.Error, 1)
	closed := firstClosing(conn, channel)

	reason := &amqp.Error{Code: amqp.ChannelError, Reason: "channel closed by broker"}
	channel <- reason
	assert.Equal(t, reason, <-closed)

	close(conn)
	assert.Equal(t, amqp.ErrClosed, <-closed)
}
