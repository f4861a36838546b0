package models

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"

	"text2phenotype.com/ner/logger"
	"text2phenotype.com/ner/redis"
	"text2phenotype.com/ner/utils"
)

const ModelsDB redis.DB = 3

type Store interface {
	Save(ctx context.Context, name string, bundle *Bundle) error
	Load(ctx context.Context, name string) (*Bundle, error)
}

type FileStore struct {
	Dir string
}

func (store FileStore) Save(ctx context.Context, name string, bundle *Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return bundle.SaveFile(filepath.Join(store.Dir, name))
}

func (store FileStore) Load(ctx context.Context, name string) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(store.Dir, name))
}

type objectStorage interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// S3Store keeps bundles under Prefix in the configured bucket.
type S3Store struct {
	Client objectStorage
	Prefix string
}

func (store S3Store) key(name string) string {
	return path.Join(store.Prefix, name)
}

func (store S3Store) Save(ctx context.Context, name string, bundle *Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := bundle.Save(&buf); err != nil {
		return err
	}
	return store.Client.Put(ctx, store.key(name), buf.Bytes())
}

func (store S3Store) Load(ctx context.Context, name string) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := store.Client.Get(ctx, store.key(name))
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(b))
}

type keyValueStorage interface {
	GetBytes(ctx context.Context, redisKey string) ([]byte, error)
	SetBytes(ctx context.Context, redisKey string, b []byte) error
	Lock(ctx context.Context, redisKey string) (redis.ReleaseLock, error)
}

// RedisStore keeps bundles in Redis, writes hold a redislock lock on the model key.
type RedisStore struct {
	Client keyValueStorage
}

func RedisModelKey(name string) string {
	return fmt.Sprintf("ner:model:%016x", utils.HashString(name))
}

func (store RedisStore) Save(ctx context.Context, name string, bundle *Bundle) (err error) {
	storeLogger := logger.NewLogger("Redis model store")

	var buf bytes.Buffer
	if err = bundle.Save(&buf); err != nil {
		return err
	}
	key := RedisModelKey(name)
	release, err := store.Client.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := release(); err == nil {
			err = releaseErr
		}
	}()
	if err = store.Client.SetBytes(ctx, key, buf.Bytes()); err != nil {
		return err
	}
	storeLogger.Info().Str("key", key).Str("fingerprint", bundle.Fingerprint).Msg("Saved model bundle")
	return nil
}

func (store RedisStore) Load(ctx context.Context, name string) (*Bundle, error) {
	b, err := store.Client.GetBytes(ctx, RedisModelKey(name))
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(b))
}
