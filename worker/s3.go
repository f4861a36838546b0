package worker

import (
	"text2phenotype.com/ner/s3client"
)

type s3Transactions interface {
	getText(task *Task) (string, error)
	saveResults(task *Task, result string) (string, error)
}

type s3ClientWrapper struct {
	s3Client *s3client.Client
}

func (wrapper *s3ClientWrapper) getText(task *Task) (string, error) {
	return wrapper.s3Client.DownloadText(ctx, task.textKey())
}

func (wrapper *s3ClientWrapper) saveResults(task *Task, result string) (string, error) {
	return wrapper.s3Client.UploadResult(ctx, task.tid, result)
}
