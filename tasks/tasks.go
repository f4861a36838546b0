package tasks

import (
	"context"
)

type TaskStatus string

const (
	TaskStatusProcessing       TaskStatus = "processing"
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

func (s TaskStatus) Submitted() bool {
	return s == TaskStatusSubmitted || s == TaskStatusStarted || s == TaskStatusProcessing
}

// NERTask is the status document of one text submitted for entity recognition, keyed by tid.
type NERTask struct {
	Tid            string     `json:"tid"`
	TextFileKey    string     `json:"text_file_key"`
	ResultsFileKey string     `json:"results_file_key"`
	StartedAt      *string    `json:"started_at"`
	CompletedAt    *string    `json:"completed_at"`
	Attempts       int        `json:"attempts"`
	Status         TaskStatus `json:"status"`
	UserCanceled   bool       `json:"user_canceled"`
	ErrorMessages  []string   `json:"error_messages"`
}

type NERTasks struct {
	client documentStorage
}

func NewNERTasks(client documentStorage) NERTasks {
	return NERTasks{client: client}
}

func (tasks NERTasks) Get(ctx context.Context, redisKey string) (*NERTask, error) {
	var task NERTask
	if err := tasks.client.GetDoc(ctx, redisKey, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update applies updateFunc under the task lock.
func (tasks NERTasks) Update(ctx context.Context, redisKey string, updateFunc func(task *NERTask)) error {
	var task NERTask
	return tasks.client.UpdateDoc(ctx, redisKey, &task, func() error {
		updateFunc(&task)
		return nil
	})
}
