package models

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/ner/lemmatizer"
	"text2phenotype.com/ner/ml"
	"text2phenotype.com/ner/nlp/features"
	"text2phenotype.com/ner/pos"
	"text2phenotype.com/ner/redis"
	"text2phenotype.com/ner/types"
)

func testBundle() *Bundle {
	return &Bundle{
		Options: features.Options{LegacyNextCasing: true},
		Chunker: &ml.Model{
			Outcomes: []string{"B-per", "O"},
			PMap:     map[string]int{"capitalized=true": 0},
			Params:   []ml.Context{{Outcomes: []int{0}, Parameters: []float64{3}}},
		},
		POS: &ml.Model{
			Outcomes: []string{"NN", "NNP"},
			PMap:     map[string]int{"c": 0},
			Params:   []ml.Context{{Outcomes: []int{1}, Parameters: []float64{2}}},
		},
		TagDictionary: pos.TagDictionary{"the": {"DT"}},
	}
}

func TestBundleRoundTrip(t *testing.T) {
	bundle := testBundle()
	var buf bytes.Buffer
	require.NoError(t, bundle.Save(&buf))
	assert.Equal(t, BundleVersion, bundle.Version)
	assert.Len(t, bundle.Fingerprint, 16)

	loaded, err := Load(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(bundle, loaded); diff != "" {
		t.Errorf("bundle mismatch (-want +got):\n%s", diff)
	}

	c := loaded.NewChunker(lemmatizer.IdentityStemmer)
	tags, err := c.Tag([]types.Token{{Word: "John", Pos: "NNP"}})
	require.NoError(t, err)
	assert.Equal(t, "B-per", tags[0].Tag)

	tagger := loaded.NewTagger(3)
	require.NotNil(t, tagger)
	assert.Equal(t, "NNP", tagger.Tag([]string{"Paris"})[0].Pos)
}

func TestBundleFingerprintDetectsTampering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, testBundle().Save(&buf))

	tampered := strings.Replace(buf.String(), `"NNP"`, `"NNS"`, 1)
	_, err := Load(strings.NewReader(tampered))
	assert.True(t, errors.Is(err, ErrFingerprintMismatch))
}

func TestBundleWithoutChunker(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, errors.Is((&Bundle{}).Save(&buf), types.ErrModelNotTrained))

	_, err := Load(strings.NewReader(`{"version":"1"}`))
	assert.True(t, errors.Is(err, types.ErrModelNotTrained))

	assert.Nil(t, (&Bundle{Chunker: testBundle().Chunker}).NewTagger(3))
}

type memoryObjects map[string][]byte

func (objects memoryObjects) Put(ctx context.Context, key string, data []byte) error {
	objects[key] = append([]byte(nil), data...)
	return nil
}

func (objects memoryObjects) Get(ctx context.Context, key string) ([]byte, error) {
	b, isOk := objects[key]
	if !isOk {
		return nil, errors.New("no such key")
	}
	return b, nil
}

type memoryKeyValues struct {
	values map[string][]byte
	locked []string
}

func (kv *memoryKeyValues) GetBytes(ctx context.Context, redisKey string) ([]byte, error) {
	b, isOk := kv.values[redisKey]
	if !isOk {
		return nil, redis.ErrNotFound
	}
	return b, nil
}

func (kv *memoryKeyValues) SetBytes(ctx context.Context, redisKey string, b []byte) error {
	kv.values[redisKey] = b
	return nil
}

func (kv *memoryKeyValues) Lock(ctx context.Context, redisKey string) (redis.ReleaseLock, error) {
	kv.locked = append(kv.locked, redisKey)
	return func() error { return nil }, nil
}

func TestStores(t *testing.T) {
	kv := &memoryKeyValues{values: map[string][]byte{}}
	objects := memoryObjects{}
	stores := map[string]Store{
		"file":  FileStore{Dir: t.TempDir()},
		"s3":    S3Store{Client: objects, Prefix: "models"},
		"redis": RedisStore{Client: kv},
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			bundle := testBundle()
			require.NoError(t, store.Save(ctx, "ner.model.json", bundle))

			loaded, err := store.Load(ctx, "ner.model.json")
			require.NoError(t, err)
			assert.Equal(t, bundle.Fingerprint, loaded.Fingerprint)

			_, err = store.Load(ctx, "missing.json")
			assert.Error(t, err)
		})
	}

	assert.Contains(t, objects, "models/ner.model.json")
	assert.Equal(t, []string{RedisModelKey("ner.model.json")}, kv.locked)
	assert.NotEqual(t, RedisModelKey("a"), RedisModelKey("b"))
}
