package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/ner/pipeline"
)

var templates = []string{
	"John NNP per-nam|visited VBD O|Paris NNP geo-nam|. . O",
	"the DT O|company NN O|grew VBD O|. . O",
	"Mary NNP per-nam|Smith NNP per-nam|left VBD O|London NNP geo-nam|. . O",
}

func writeCorpus(t *testing.T, sentences int) string {
	root := t.TempDir()
	dir := filepath.Join(root, "p00", "d0000")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	var sb strings.Builder
	for i := 0; i < sentences; i++ {
		for _, token := range strings.Split(templates[i%len(templates)], "|") {
			fields := strings.Fields(token)
			fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", fields[0], fields[1], strings.ToLower(fields[0]), fields[2])
		}
		sb.WriteString("\n")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.tags"), []byte(sb.String()), 0o644))
	return root
}

func clearEnvironment(t *testing.T) {
	for _, name := range []string{"NER_CONFIG_PATH", "NER_CORPUS_ROOT", "NER_MODEL_PATH"} {
		t.Setenv(name, "")
	}
	t.Setenv("NER_MODEL_STORE", "file")
}

func run(args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	code := Execute(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestTally(t *testing.T) {
	clearEnvironment(t)
	root := writeCorpus(t, 3)

	stdout, stderr, code := run("tally", "--corpus", root)
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "O\t8\nper\t3\ngeo\t2\n", stdout)
}

func TestTrainParseEval(t *testing.T) {
	clearEnvironment(t)
	root := writeCorpus(t, 60)
	model := filepath.Join(t.TempDir(), "ner.model.json")
	common := []string{"--corpus", root, "--model", model, "--iterations", "10", "--workers", "2"}

	stdout, stderr, code := run(append([]string{"train", "--train-sentences", "40"}, common...)...)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "trained on 40 sentences")
	assert.FileExists(t, model)

	stdout, stderr, code = run(append([]string{"parse", "--json", "John visited Paris ."}, common...)...)
	require.Equal(t, 0, code, stderr)
	var response pipeline.Response
	require.NoError(t, json.Unmarshal([]byte(stdout), &response))
	assert.Equal(t, "cli", response.Tid)
	require.Len(t, response.Sentences, 1)
	assert.Len(t, response.Sentences[0].Tokens, 4)

	stdout, stderr, code = run(append([]string{"eval", "--verbose", "--eval-sentences", "6"}, common...)...)
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "accuracy: "), stdout)
	assert.Contains(t, stdout, "precision")
}

func TestDemo(t *testing.T) {
	clearEnvironment(t)
	root := writeCorpus(t, 30)

	stdout, stderr, code := run("demo", "--corpus", root, "--iterations", "5", "--train-sentences", "20", "--eval-sentences", "3")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "(S ")
	assert.Contains(t, stdout, "accuracy: ")
}

func TestMissingCorpusRoot(t *testing.T) {
	clearEnvironment(t)

	_, stderr, code := run("train")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "ner: corpus root is not set")
}

func TestUnreadableCorpus(t *testing.T) {
	clearEnvironment(t)

	_, stderr, code := run("tally", "--corpus", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "ner: read corpus")
}

func TestParseWithoutModel(t *testing.T) {
	clearEnvironment(t)

	_, stderr, code := run("parse", "--model", filepath.Join(t.TempDir(), "absent.json"), "hello")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "ner: load model")
}

func TestInvalidConfiguration(t *testing.T) {
	clearEnvironment(t)

	_, stderr, code := run("tally", "--iterations", "0", "--corpus", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "iterations")
}
