package tasks

import (
	"context"

	"text2phenotype.com/ner/redis"
)

const TasksDB redis.DB = 0

type Client struct {
	Tasks NERTasks
}

// NewClient is a preferred way for working with task documents
func NewClient() (Client, error) {
	redisClient, err := redis.NewClient(TasksDB)
	if err != nil {
		return Client{}, err
	}
	return Client{
		Tasks: NERTasks{client: &redisClient},
	}, nil
}

func (client *Client) Close() {
	_ = client.Tasks.client.Close()
}

type documentStorage interface {
	GetDoc(ctx context.Context, redisKey string, doc interface{}) error
	UpdateDoc(ctx context.Context, redisKey string, doc interface{}, update func() error) error
	Close() error
}
