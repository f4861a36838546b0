package worker

import (
	"context"
	"fmt"

	"text2phenotype.com/ner/tasks"
)

type redisTransactions interface {
	getTask(tid string) (*tasks.NERTask, error)
	onTaskStarted(task *Task) error
	onTaskCancelled(task *Task, errorMessages ...string) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient *tasks.Client
}

// ctx bounds Redis and S3 calls made while processing a delivery.
var ctx = context.Background()

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Tasks.Update(ctx, task.tid, func(nerTask *tasks.NERTask) {
		nerTask.Status = tasks.TaskStatusStarted
		nerTask.Attempts += 1
		nerTask.StartedAt = getFormattedNow()
		nerTask.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskCancelled(task *Task, errorMessages ...string) error {
	return wrapper.tasksClient.Tasks.Update(ctx, task.tid, func(nerTask *tasks.NERTask) {
		nerTask.Status = tasks.TaskStatusCanceled
		nerTask.StartedAt = getFormattedNow()
		nerTask.CompletedAt = getFormattedNow()
		nerTask.Attempts += 1
		nerTask.ErrorMessages = append(nerTask.ErrorMessages, errorMessages...)
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	return wrapper.tasksClient.Tasks.Update(ctx, task.tid, func(nerTask *tasks.NERTask) {
		nerTask.Status = tasks.TaskStatusCompletedFailure
		nerTask.StartedAt = getFormattedNow()
		nerTask.CompletedAt = getFormattedNow()
		nerTask.Attempts += 1
		nerTask.ErrorMessages = append(
			nerTask.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				nerTask.Attempts,
				maxRetries,
			),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Tasks.Update(ctx, task.tid, func(nerTask *tasks.NERTask) {
		nerTask.Status = tasks.TaskStatusFailed
		nerTask.CompletedAt = getFormattedNow()
		nerTask.ErrorMessages = append(nerTask.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Tasks.Update(ctx, task.tid, func(nerTask *tasks.NERTask) {
		if !nerTask.Status.Complete() {
			nerTask.Status = tasks.TaskStatusCompletedSuccess
		}
		nerTask.CompletedAt = getFormattedNow()
		nerTask.ResultsFileKey = task.resultsKey
	})
}

func (wrapper *redisClientWrapper) getTask(tid string) (*tasks.NERTask, error) {
	return wrapper.tasksClient.Tasks.Get(ctx, tid)
}
