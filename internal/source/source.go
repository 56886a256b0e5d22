// Package source reads documents from files into ingest.Document values.
package source

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/tidytext/internal/logger"
	"github.com/cognicore/tidytext/pkg/tidytext/ingest"
	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
)

// Record is one line of a JSONL corpus.
type Record struct {
	Document string `json:"document"`
	Text     string `json:"text"`
}

// LoadJSONL reads {"document": ..., "text": ...} records, one per line.
// Malformed lines are logged and skipped; records sharing a document key are
// merged in file order.
func LoadJSONL(path string) ([]ingest.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var docs []ingest.Document
	byKey := make(map[string]int)
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			logger.Warn("skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		if strings.TrimSpace(rec.Document) == "" {
			logger.Warn("skipping record without document at line %d in %s", i+1, path)
			continue
		}
		doc := ingest.SplitDocument(rec.Document, rec.Text)
		if at, ok := byKey[rec.Document]; ok {
			docs[at].Lines = append(docs[at].Lines, doc.Lines...)
			continue
		}
		byKey[rec.Document] = len(docs)
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid records found in %s: %w", path, internalerr.ErrInvalidInput)
	}
	logger.Debug("loaded %d documents from %s", len(docs), path)
	return docs, nil
}

// LoadText reads each file as one document keyed by its base name.
func LoadText(paths ...string) ([]ingest.Document, error) {
	return loadEach(paths, func(r io.Reader) (string, error) {
		b, err := io.ReadAll(r)
		return string(b), err
	})
}

// LoadHTML reads each file as one document holding its visible text.
func LoadHTML(paths ...string) ([]ingest.Document, error) {
	return loadEach(paths, ExtractHTML)
}

// Load picks a reader by extension: .jsonl, .html/.htm, anything else is
// plain text. "-" reads plain text from stdin as document "stdin".
func Load(paths ...string) ([]ingest.Document, error) {
	var docs []ingest.Document
	for _, p := range paths {
		var (
			batch []ingest.Document
			err   error
		)
		switch strings.ToLower(filepath.Ext(p)) {
		case ".jsonl", ".ndjson":
			batch, err = LoadJSONL(p)
		case ".html", ".htm":
			batch, err = LoadHTML(p)
		default:
			batch, err = LoadText(p)
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, batch...)
	}
	if err := checkUnique(docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func loadEach(paths []string, read func(io.Reader) (string, error)) ([]ingest.Document, error) {
	docs := make([]ingest.Document, 0, len(paths))
	for _, p := range paths {
		key, text, err := readOne(p, read)
		if err != nil {
			return nil, err
		}
		docs = append(docs, ingest.SplitDocument(key, text))
	}
	if err := checkUnique(docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func readOne(path string, read func(io.Reader) (string, error)) (string, string, error) {
	if path == "-" {
		text, err := read(os.Stdin)
		return "stdin", text, err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()
	text, err := read(f)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	return filepath.Base(path), text, nil
}

func checkUnique(docs []ingest.Document) error {
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if _, dup := seen[d.Key]; dup {
			return fmt.Errorf("document %q loaded twice: %w", d.Key, internalerr.ErrDuplicateKey)
		}
		seen[d.Key] = struct{}{}
	}
	return nil
}
