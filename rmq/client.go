package rmq

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/streadway/amqp"

	"text2phenotype.com/ner/logger"
)

type Config struct {
	Host       string `envconfig:"RMQ_HOST" required:"true"`
	Port       int    `envconfig:"RMQ_PORT" default:"5672"`
	Username   string `envconfig:"RMQ_USERNAME" required:"true"`
	Password   string `envconfig:"RMQ_PASSWORD" required:"true"`
	Vhost      string `envconfig:"RMQ_VHOST" default:"/"`
	Exchange   string `envconfig:"RMQ_EXCHANGE" default:"ner-exchange"`
	Prefetch   int    `envconfig:"RMQ_MAX_PARALLEL_REQUESTS" default:"5"`
	TaskQueue  string `envconfig:"RMQ_TASK_QUEUE" required:"true"`
	ReplyQueue string `envconfig:"RMQ_REPLY_QUEUE" required:"true"`
}

func ReadConfig() (Config, error) {
	var config Config
	err := envconfig.Process("NER", &config)
	return config, err
}

func (config Config) URL() string {
	return amqp.URI{
		Scheme:   "amqp",
		Host:     config.Host,
		Port:     config.Port,
		Username: config.Username,
		Password: config.Password,
		Vhost:    config.Vhost,
	}.String()
}

// Client consumes NER task messages and publishes replies over one connection.
type Client struct {
	Deliveries <-chan amqp.Delivery
	// Closed yields once the connection or either channel is closed.
	Closed <-chan *amqp.Error

	config    Config
	conn      *amqp.Connection
	publisher *amqp.Channel
}

func NewClient() (*Client, error) {
	config, err := ReadConfig()
	if err != nil {
		return nil, fmt.Errorf("read RMQ environment: %w", err)
	}
	return Dial(config)
}

func Dial(config Config) (*Client, error) {
	conn, err := amqp.Dial(config.URL())
	if err != nil {
		return nil, fmt.Errorf("dial RMQ %s:%d: %w", config.Host, config.Port, err)
	}
	client := &Client{config: config, conn: conn}
	if err := client.setup(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	rmqLogger := logger.NewLogger("RMQ client")
	rmqLogger.Info().
		Str("task_queue", config.TaskQueue).
		Str("reply_queue", config.ReplyQueue).
		Msg("Consuming NER tasks")
	return client, nil
}

func (c *Client) setup() error {
	consumer, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel: %w", err)
	}
	publisher, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open publisher channel: %w", err)
	}

	if err := consumer.ExchangeDeclare(c.config.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", c.config.Exchange, err)
	}
	for _, queue := range []string{c.config.TaskQueue, c.config.ReplyQueue} {
		if _, err := consumer.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
		if err := consumer.QueueBind(queue, queue, c.config.Exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}
	if err := consumer.Qos(c.config.Prefetch, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	deliveries, err := consumer.Consume(c.config.TaskQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.config.TaskQueue, err)
	}

	c.Deliveries = deliveries
	c.Closed = firstClosing(
		c.conn.NotifyClose(make(chan *amqp.Error, 1)),
		consumer.NotifyClose(make(chan *amqp.Error, 1)),
		publisher.NotifyClose(make(chan *amqp.Error, 1)),
	)
	c.publisher = publisher
	return nil
}

// PublishReply sends a persistent JSON reply correlated with the task id.
func (c *Client) PublishReply(tid string, body []byte) error {
	return c.publisher.Publish(
		c.config.Exchange,
		c.config.ReplyQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			CorrelationId: tid,
			DeliveryMode:  amqp.Persistent,
			Timestamp:     time.Now().UTC(),
			Body:          body,
		})
}

func (c *Client) Close() {
	_ = c.conn.Close()
}

// firstClosing merges close notifications. A notification channel closed without
// an error counts as amqp.ErrClosed.
func firstClosing(sources ...chan *amqp.Error) <-chan *amqp.Error {
	out := make(chan *amqp.Error, len(sources))
	for _, source := range sources {
		go func(source chan *amqp.Error) {
			err, ok := <-source
			if !ok || err == nil {
				err = amqp.ErrClosed
			}
			out <- err
		}(source)
	}
	return out
}
