package worker

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/ner/pipeline"
	"text2phenotype.com/ner/tasks"
	"text2phenotype.com/ner/utils"
)

const senderName = "ner"

// Message asks for the text at TextKey to be parsed, an empty TextKey falls back
// to the key stored on the task.
type Message struct {
	Tid     string `json:"tid"`
	TextKey string `json:"text_key"`
}

type Task struct {
	delivery   *amqp.Delivery
	nerTask    *tasks.NERTask
	message    *Message
	tid        string
	status     tasks.TaskStatus
	resultsKey string
	nerLogger  *zerolog.Logger
}

func (task *Task) textKey() string {
	if task.message.TextKey != "" {
		return task.message.TextKey
	}
	return task.nerTask.TextFileKey
}

func (worker *Worker) processMessage(delivery *amqp.Delivery) {
	task, err := worker.createTask(delivery)
	rejectLogger := worker.nerLogger.With().Str("message_id", delivery.MessageId).Logger()
	if err != nil {
		worker.nerLogger.Err(err).
			Str("message_id", delivery.MessageId).
			Str("body", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(task); err != nil {
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.sendReply(task); err != nil {
		task.nerLogger.Err(err).Msg("Got error while sending message to reply queue")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		task.nerLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.nerLogger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(delivery *amqp.Delivery) (*Task, error) {
	var message Message
	err := json.Unmarshal(delivery.Body, &message)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal message, got error %w", err)
	}
	if message.Tid == "" {
		return nil, errors.New("message has no tid")
	}
	nerTask, err := worker.redis.getTask(message.Tid)
	if err != nil {
		return nil, fmt.Errorf("failed to query task for message, got error %w", err)
	}
	taskLogger := worker.nerLogger.With().Str("tid", message.Tid).Logger()
	task := Task{
		delivery:  delivery,
		nerTask:   nerTask,
		tid:       message.Tid,
		status:    nerTask.Status,
		message:   &message,
		nerLogger: &taskLogger,
	}
	return &task, nil
}

func (worker *Worker) processTask(task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(task)
	if err != nil {
		task.nerLogger.Err(err).
			Msg("Got error while trying to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.redis.onTaskStarted(task); err != nil {
		task.nerLogger.Err(err).Msg("Failed to update task info")
		return fmt.Errorf("failed to update task: %w", err)
	}
	if err = worker.runPipeline(task); err != nil {
		task.nerLogger.Err(err).Msg("Got error while running pipeline")
		if err = worker.redis.onTaskFailedWithError(task, err); err != nil {
			return err
		}
		task.status = tasks.TaskStatusFailed
		return nil
	}
	task.nerLogger.Info().Msg("Saved results, marking task as complete")
	if err = worker.redis.onTaskComplete(task); err != nil {
		task.nerLogger.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	task.status = tasks.TaskStatusCompletedSuccess
	return nil
}

func (worker *Worker) runPipeline(task *Task) (err error) {
	defer utils.RecoverWithError(&err)
	task.nerLogger.Info().Msgf("Processing message from RMQ, attempt # %d", task.nerTask.Attempts)
	text, err := worker.s3.getText(task)
	if err != nil {
		task.nerLogger.Err(err).Caller().Msg("Could not fetch text from s3")
		return fmt.Errorf("failed fetch text from s3: %w", err)
	}
	request := pipeline.Request{
		Tid:  task.tid,
		Text: text,
	}
	result, ok := <-worker.ppln(request)
	if !ok {
		task.nerLogger.Error().Msg("Pipeline channel was closed before returning anything")
		return errors.New("pipeline channel was closed before returning anything")
	}
	task.nerLogger.Info().Msg("Finished pipeline, saving results to s3")
	resultsKey, err := worker.s3.saveResults(task, result)
	if err != nil {
		task.nerLogger.Err(err).Msg("Got error while trying to save results")
		return err
	}
	task.resultsKey = resultsKey
	return nil
}

func (worker *Worker) shouldPerformTask(task *Task) (bool, error) {
	taskInfo := task.nerTask
	taskLogger := task.nerLogger

	if taskInfo.Status.Complete() {
		taskLogger.Info().Msg("Task is already done. (might indicate issue acking message with RMQ). Sending reply.")
		return false, nil
	}
	if taskInfo.UserCanceled {
		taskLogger.Info().Msg("Task was canceled, no need to perform it. Sending reply.")
		if err := worker.redis.onTaskCancelled(task); err != nil {
			return false, err
		}
		task.status = tasks.TaskStatusCanceled
		return false, nil
	}
	if taskInfo.Attempts >= worker.config.TaskMaxRetries {
		taskLogger.Info().Msg("NER task has exceeded retries. Sending reply.")
		if err := worker.redis.onTaskExceededRetries(task, worker.config.TaskMaxRetries); err != nil {
			return false, err
		}
		task.status = tasks.TaskStatusCompletedFailure
		return false, nil
	}
	return true, nil
}
