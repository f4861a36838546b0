package worker

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/ner/rmq"
)

type rmqTransactions interface {
	sendReply(task *Task) error
	acknowledgeDelivery(delivery *amqp.Delivery) error
	rejectDelivery(delivery *amqp.Delivery, nerLogger *zerolog.Logger)
	deliveries() <-chan amqp.Delivery
	closed() <-chan *amqp.Error
	close()
}

type rmqClientWrapper struct {
	rmqClient *rmq.Client
}

// Reply tells the sender that a task is settled and where its results are.
type Reply struct {
	Tid        string `json:"tid"`
	Sender     string `json:"sender"`
	Status     string `json:"status,omitempty"`
	ResultsKey string `json:"results_key,omitempty"`
}

func replyBody(task *Task) ([]byte, error) {
	return json.Marshal(Reply{
		Tid:        task.tid,
		Sender:     senderName,
		Status:     string(task.status),
		ResultsKey: task.resultsKey,
	})
}

func (wrapper *rmqClientWrapper) close() {
	wrapper.rmqClient.Close()
}

func (wrapper *rmqClientWrapper) deliveries() <-chan amqp.Delivery {
	return wrapper.rmqClient.Deliveries
}

func (wrapper *rmqClientWrapper) closed() <-chan *amqp.Error {
	return wrapper.rmqClient.Closed
}

func (wrapper *rmqClientWrapper) sendReply(task *Task) error {
	b, err := replyBody(task)
	if err != nil {
		return err
	}
	return wrapper.rmqClient.PublishReply(task.tid, b)
}

func (wrapper *rmqClientWrapper) acknowledgeDelivery(delivery *amqp.Delivery) error {
	return delivery.Ack(false)
}

// rejectDelivery requeues a delivery once, a redelivered one is dropped.
func (wrapper *rmqClientWrapper) rejectDelivery(delivery *amqp.Delivery, nerLogger *zerolog.Logger) {
	requeue := !delivery.Redelivered
	nerLogger.Info().Bool("requeue", requeue).Msg("Rejecting delivery")
	if err := delivery.Reject(requeue); err != nil {
		nerLogger.Err(err).Msg("Failed to reject delivery")
	}
}
