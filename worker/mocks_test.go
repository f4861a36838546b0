package worker

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/streadway/amqp"

	"text2phenotype.com/ner/pipeline"
	"text2phenotype.com/ner/s3client"
	"text2phenotype.com/ner/tasks"
)

type failingMethod struct {
	fail bool
}

type withValue struct {
	fail          bool
	returnedValue interface{}
}

type pipelineMock struct {
	ppln   pipeline.Pipeline
	config pipelineMockConfig
	calls  pipelineCall
}

type pipelineMockConfig struct {
	fail   bool
	panic  bool
	result string
}

type pipelineCall struct {
	pipeline bool
}

type redisMock struct {
	config redisMockConfig
	calls  redisMockCalls
}

type redisMockConfig struct {
	getTask               withValue
	onTaskCancelled       failingMethod
	onTaskStarted         failingMethod
	onTaskExceededRetries failingMethod
	onTaskFailedWithError failingMethod
	onTaskComplete        failingMethod
}

type redisMockCalls struct {
	getTask               bool
	onTaskCancelled       bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
}

type rmqMock struct {
	config     rmqMockConfig
	calls      rmqMockCalls
	reply      []byte
	deliveryCh chan amqp.Delivery
	closedCh   chan *amqp.Error
	closes     int
}

type rmqMockConfig struct {
	sendReply           failingMethod
	acknowledgeDelivery failingMethod
}

type rmqMockCalls struct {
	sendReply           bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

type s3Mock struct {
	config   s3MockConfig
	calls    s3MockCalls
	savedKey string
	textKey  string
}

type s3MockConfig struct {
	getText     withValue
	saveResults failingMethod
}

type s3MockCalls struct {
	getText     bool
	saveResults bool
}

func (mock *rmqMock) close() {
	mock.closes++
}

func (mock *redisMock) close() {}

func getPipelineMock(config pipelineMockConfig) *pipelineMock {
	mock := pipelineMock{config: config}
	switch {
	case config.panic:
		mock.ppln = func(request pipeline.Request) <-chan string {
			mock.calls.pipeline = true
			panic("pipeline exploded")
		}
	case config.fail:
		mock.ppln = func(request pipeline.Request) <-chan string {
			mock.calls.pipeline = true
			ch := make(chan string)
			close(ch)
			return ch
		}
	default:
		mock.ppln = func(request pipeline.Request) <-chan string {
			mock.calls.pipeline = true
			ch := make(chan string, 1)
			ch <- mock.config.result
			close(ch)
			return ch
		}
	}
	return &mock
}

func (mock *redisMock) getTask(tid string) (*tasks.NERTask, error) {
	mock.calls.getTask = true
	if mock.config.getTask.fail {
		return nil, errors.New("failed to get task")
	}
	switch value := mock.config.getTask.returnedValue.(type) {
	case tasks.NERTask:
		return &value, nil
	default:
		return &tasks.NERTask{Tid: tid, TextFileKey: "texts/" + tid + ".txt"}, nil
	}
}

func (mock *redisMock) onTaskStarted(task *Task) error {
	mock.calls.onTaskStarted = true
	if mock.config.onTaskStarted.fail {
		return errors.New("failed to update task on start")
	}
	return nil
}

func (mock *redisMock) onTaskCancelled(task *Task, errorMessages ...string) error {
	mock.calls.onTaskCancelled = true
	if mock.config.onTaskCancelled.fail {
		return errors.New("failed to update task on cancel")
	}
	return nil
}

func (mock *redisMock) onTaskExceededRetries(task *Task, maxRetries int) error {
	mock.calls.onTaskExceededRetries = true
	if mock.config.onTaskExceededRetries.fail {
		return errors.New("failed to update task on exceeded retries")
	}
	return nil
}

func (mock *redisMock) onTaskFailedWithError(task *Task, err error) error {
	mock.calls.onTaskFailedWithError = true
	if mock.config.onTaskFailedWithError.fail {
		return errors.New("failed to update task on fail with error")
	}
	return nil
}

func (mock *redisMock) onTaskComplete(task *Task) error {
	mock.calls.onTaskComplete = true
	if mock.config.onTaskComplete.fail {
		return errors.New("failed to update task on complete")
	}
	return nil
}

func (mock *rmqMock) rejectDelivery(delivery *amqp.Delivery, nerLogger *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}

func (mock *rmqMock) deliveries() <-chan amqp.Delivery {
	return mock.deliveryCh
}

func (mock *rmqMock) closed() <-chan *amqp.Error {
	return mock.closedCh
}

func (mock *rmqMock) sendReply(task *Task) error {
	mock.calls.sendReply = true
	if mock.config.sendReply.fail {
		return errors.New("failed to send reply")
	}
	reply, err := replyBody(task)
	mock.reply = reply
	return err
}

func (mock *rmqMock) acknowledgeDelivery(delivery *amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	if mock.config.acknowledgeDelivery.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

func (mock *s3Mock) getText(task *Task) (string, error) {
	mock.calls.getText = true
	mock.textKey = task.textKey()
	if mock.config.getText.fail {
		return "", errors.New("mock: failed to load from s3")
	}
	switch value := mock.config.getText.returnedValue.(type) {
	case string:
		return value, nil
	default:
		return "John Smith visited Paris.", nil
	}
}

func (mock *s3Mock) saveResults(task *Task, result string) (string, error) {
	mock.calls.saveResults = true
	if mock.config.saveResults.fail {
		return "", errors.New("failed to upload results")
	}
	mock.savedKey = s3client.ResultsKey(task.tid)
	return mock.savedKey, nil
}
