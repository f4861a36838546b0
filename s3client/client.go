package s3client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/kelseyhightower/envconfig"

	"text2phenotype.com/ner/logger"
)

const (
	ResultsPrefix   = "processed"
	ResultsFileName = "ner_results.json"
	maxRetries      = 4
)

var ErrNotFound = errors.New("s3 object not found")

type Config struct {
	Bucket      string `envconfig:"S3_BUCKET" required:"true"`
	Env         string `envconfig:"ENV" default:"prod"`
	Region      string `envconfig:"AWS_REGION" required:"true"`
	Endpoint    string `envconfig:"AWS_ENDPOINT_URL"`
	AccessKeyID string `envconfig:"AWS_ACCESS_ID"`
	AccessKey   string `envconfig:"AWS_ACCESS_KEY"`
}

// Client stores NER input texts, results and model bundles in one bucket.
type Client struct {
	bucket     string
	uploader   s3manageriface.UploaderAPI
	downloader s3manageriface.DownloaderAPI
}

var clientLogger = logger.NewLogger("S3 client")

func New() (*Client, error) {
	var config Config
	if err := envconfig.Process("NER", &config); err != nil {
		clientLogger.Err(err).Msg("Failed to read S3 environment")
		return nil, err
	}
	sess, err := session.NewSession(awsConfig(config))
	if err != nil {
		return nil, fmt.Errorf("create S3 session: %w", err)
	}
	clientLogger.Info().Str("bucket", config.Bucket).Str("region", config.Region).Msg("S3 session created")
	return NewWithSession(sess, config.Bucket), nil
}

func NewWithSession(sess *session.Session, bucket string) *Client {
	return &Client{
		bucket:     bucket,
		uploader:   s3manager.NewUploader(sess),
		downloader: s3manager.NewDownloader(sess),
	}
}

// awsConfig uses the default credential chain unless static keys are configured.
// A custom endpoint is honoured only in the dev environment.
func awsConfig(config Config) *aws.Config {
	sdkLogger := logger.NewLogger("S3 SDK")
	cfg := aws.NewConfig().
		WithRegion(config.Region).
		WithMaxRetries(maxRetries).
		WithLogger(aws.LoggerFunc(func(args ...interface{}) {
			sdkLogger.Debug().Msg(fmt.Sprint(args...))
		}))
	if config.AccessKeyID != "" {
		cfg = cfg.WithCredentials(credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKey, ""))
	}
	if config.Env == "dev" && config.Endpoint != "" {
		cfg = cfg.WithEndpoint(config.Endpoint).WithS3ForcePathStyle(true)
	}
	return cfg
}

// ResultsKey is the object key of the pipeline response for a task.
func ResultsKey(tid string) string {
	return path.Join(ResultsPrefix, tid, ResultsFileName)
}

func (client *Client) Put(ctx context.Context, key string, data []byte) error {
	clientLogger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Uploading object")
	_, err := client.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (client *Client) Get(ctx context.Context, key string) ([]byte, error) {
	buf := aws.NewWriteAtBuffer([]byte{})
	size, err := client.downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	clientLogger.Debug().Str("key", key).Int64("bytes", size).Msg("Downloaded object")
	return buf.Bytes(), nil
}

// DownloadText fetches a document to parse. The object must be UTF-8 text.
func (client *Client) DownloadText(ctx context.Context, key string) (string, error) {
	b, err := client.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("text object %s is not valid UTF-8", key)
	}
	return string(b), nil
}

// UploadResult stores the JSON pipeline response of a task and returns its key.
func (client *Client) UploadResult(ctx context.Context, tid string, result string) (string, error) {
	key := ResultsKey(tid)
	return key, client.Put(ctx, key, []byte(result))
}
