package worker

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"text2phenotype.com/ner/logger"
	"text2phenotype.com/ner/pipeline"
	"text2phenotype.com/ner/rmq"
	"text2phenotype.com/ner/s3client"
	"text2phenotype.com/ner/tasks"
)

type Config struct {
	TaskMaxRetries int `envconfig:"TASK_MAX_RETRIES" default:"3"`
}

// Worker parses documents referenced by RMQ task messages.
type Worker struct {
	config    Config
	redis     redisTransactions
	s3        s3Transactions
	rmq       rmqTransactions
	dial      func() (rmqTransactions, error)
	nerLogger *zerolog.Logger
	ppln      pipeline.Pipeline
}

func New(ppln pipeline.Pipeline) (*Worker, error) {
	nerLogger := logger.NewLogger("Worker")

	var config Config
	if err := envconfig.Process("NER", &config); err != nil {
		return nil, fmt.Errorf("read worker environment: %w", err)
	}
	s3Client, err := s3client.New()
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}
	tasksClient, err := tasks.NewClient()
	if err != nil {
		return nil, fmt.Errorf("create tasks client: %w", err)
	}

	worker := &Worker{
		config:    config,
		redis:     &redisClientWrapper{&tasksClient},
		s3:        &s3ClientWrapper{s3Client},
		dial:      dialRMQ,
		nerLogger: &nerLogger,
		ppln:      ppln,
	}
	if err := worker.connect(); err != nil {
		worker.redis.close()
		return nil, err
	}
	return worker, nil
}

func dialRMQ() (rmqTransactions, error) {
	client, err := rmq.NewClient()
	if err != nil {
		return nil, err
	}
	return &rmqClientWrapper{client}, nil
}

// connect replaces the RMQ client, closing the previous one.
func (worker *Worker) connect() error {
	client, err := worker.dial()
	if err != nil {
		return fmt.Errorf("connect to RMQ: %w", err)
	}
	if worker.rmq != nil {
		worker.rmq.close()
	}
	worker.rmq = client
	worker.nerLogger.Info().Msg("Connected to RMQ")
	return nil
}

// Run processes every delivery in its own goroutine until ctx is done or the
// RMQ connection cannot be restored.
func (worker *Worker) Run(ctx context.Context) error {
	defer worker.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-worker.rmq.deliveries():
			if ok {
				go worker.processMessage(&delivery)
				continue
			}
			worker.nerLogger.Error().Msg("Deliveries channel closed, reconnecting")
		case rmqErr := <-worker.rmq.closed():
			worker.nerLogger.Err(rmqErr).Msg("RMQ connection closed, reconnecting")
		}
		if err := worker.connect(); err != nil {
			return err
		}
	}
}

func (worker *Worker) Close() {
	worker.redis.close()
	if worker.rmq != nil {
		worker.rmq.close()
	}
}
