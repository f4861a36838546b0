package corpus

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"text2phenotype.com/ner/logger"
	"text2phenotype.com/ner/types"
)

const (
	wordColumn   = 0
	posColumn    = 1
	entityColumn = 3
	minColumns   = entityColumn + 1

	// GenericQuoteTag replaces the GMB left and right quote tags.
	GenericQuoteTag = "``"
)

// errStop ends a walk early without reporting an error.
var errStop = errors.New("stop walking corpus")

type Stats struct {
	Files     int
	Sentences int
	Skipped   int
	Errors    []error
}

func (stats *Stats) add(other Stats) {
	stats.Files += other.Files
	stats.Sentences += other.Sentences
	stats.Skipped += other.Skipped
	stats.Errors = append(stats.Errors, other.Errors...)
}

// Reader walks a GMB style corpus: every file with the configured suffix holds tab separated
// token lines, sentences are separated by blank lines.
type Reader struct {
	Root   string
	Suffix string
}

func NewReader(root string) *Reader {
	return &Reader{Root: root, Suffix: types.DefaultCorpusFileSuffix}
}

// Walk emits every well formed sentence in lexical file order. Malformed sentences are
// skipped and reported in Stats. Each call starts again from the first file.
func (reader *Reader) Walk(ctx context.Context, emit func([]types.RawToken) error) (Stats, error) {
	corpusLogger := logger.NewLogger("Corpus reader").With().Str("root", reader.Root).Logger()

	suffix := reader.Suffix
	if suffix == "" {
		suffix = types.DefaultCorpusFileSuffix
	}

	var stats Stats
	err := filepath.WalkDir(reader.Root, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := os.Open(filePath)
		if err != nil {
			return err
		}
		defer f.Close()

		fileStats, err := ReadTags(f, filePath, emit)
		stats.add(fileStats)
		stats.Files++
		return err
	})
	if errors.Is(err, errStop) {
		err = nil
	}

	for _, skipErr := range stats.Errors {
		corpusLogger.Warn().Err(skipErr).Msg("Skipped corpus record")
	}
	corpusLogger.Info().
		Int("files", stats.Files).
		Int("sentences", stats.Sentences).
		Int("skipped", stats.Skipped).
		Msg("Finished reading corpus")
	return stats, err
}

// Load collects up to limit sentences, limit <= 0 reads the whole corpus.
func (reader *Reader) Load(ctx context.Context, limit int) ([][]types.RawToken, Stats, error) {
	var sentences [][]types.RawToken
	stats, err := reader.Walk(ctx, func(sentence []types.RawToken) error {
		sentences = append(sentences, sentence)
		if limit > 0 && len(sentences) >= limit {
			return errStop
		}
		return nil
	})
	return sentences, stats, err
}

// ReadTags parses one .tags stream. name identifies the stream in errors.
func ReadTags(r io.Reader, name string, emit func([]types.RawToken) error) (Stats, error) {
	var stats Stats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sentence []types.RawToken
	var sentenceErr error
	lineNo, startLine, lines := 0, 0, 0

	flush := func() error {
		defer func() {
			sentence, sentenceErr, lines = nil, nil, 0
		}()
		if lines == 0 {
			return nil
		}
		switch {
		case sentenceErr != nil:
			stats.Skipped++
			stats.Errors = append(stats.Errors, sentenceErr)
			return nil
		case len(sentence) == 0:
			stats.Skipped++
			stats.Errors = append(stats.Errors, &types.EmptySentenceError{File: name, Line: startLine})
			return nil
		}
		stats.Sentences++
		return emit(sentence)
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) == 0 {
			if err := flush(); err != nil {
				return stats, err
			}
			continue
		}
		if lines == 0 {
			startLine = lineNo
		}
		lines++
		if sentenceErr != nil || strings.TrimSpace(line) == "" {
			continue
		}

		token, err := parseLine(line)
		if err != nil {
			sentenceErr = &types.CorpusFormatError{File: name, Line: lineNo, Reason: err.Error()}
			continue
		}
		sentence = append(sentence, token)
	}
	if err := scanner.Err(); err != nil {
		return stats, err
	}
	return stats, flush()
}

func parseLine(line string) (types.RawToken, error) {
	annotations := strings.Split(line, "\t")
	if len(annotations) < minColumns {
		return types.RawToken{}, errors.New("expected at least 4 tab separated columns")
	}
	word, tag, ner := annotations[wordColumn], annotations[posColumn], annotations[entityColumn]
	if len(word) == 0 {
		return types.RawToken{}, errors.New("empty word column")
	}

	if ner != types.OutsideTag {
		ner = strings.Split(ner, "-")[0]
	}
	if len(ner) == 0 {
		return types.RawToken{}, errors.New("empty entity column")
	}

	if tag == "LQU" || tag == "RQU" {
		tag = GenericQuoteTag
	}
	return types.RawToken{Word: word, Pos: tag, Type: ner}, nil
}
