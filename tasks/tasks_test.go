package tasks

import (
	"context"
	"errors"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/ner/redis"
)

type memoryDocuments map[string][]byte

func (docs memoryDocuments) GetDoc(ctx context.Context, redisKey string, doc interface{}) error {
	b, isOk := docs[redisKey]
	if !isOk {
		return redis.ErrNotFound
	}
	return json.Unmarshal(b, doc)
}

func (docs memoryDocuments) UpdateDoc(ctx context.Context, redisKey string, doc interface{}, update func() error) error {
	if err := docs.GetDoc(ctx, redisKey, doc); err != nil {
		return err
	}
	if err := update(); err != nil {
		return err
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	docs[redisKey] = b
	return nil
}

func (docs memoryDocuments) Close() error { return nil }

func TestNERTasks(t *testing.T) {
	docs := memoryDocuments{"t1": []byte(`{"tid":"t1","text_file_key":"texts/t1.txt","status":"submitted"}`)}
	tasks := NewNERTasks(docs)
	ctx := context.Background()

	task, err := tasks.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "texts/t1.txt", task.TextFileKey)
	assert.True(t, task.Status.Submitted())
	assert.False(t, task.Status.Complete())

	require.NoError(t, tasks.Update(ctx, "t1", func(task *NERTask) {
		task.Status = TaskStatusCompletedSuccess
		task.Attempts++
	}))

	task, err = tasks.Get(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, task.Status.Complete())
	assert.Equal(t, 1, task.Attempts)

	_, err = tasks.Get(ctx, "missing")
	assert.True(t, errors.Is(err, redis.ErrNotFound))
}
