package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// maxLineBytes bounds a single document line. Catalog documents with full
// supplier listings run into hundreds of kilobytes, not megabytes.
const maxLineBytes = 16 << 20

// FileSource reads raw documents from a JSON-lines file, one document per
// line. Blank lines are skipped; a malformed line fails the whole fetch so
// a truncated export is never half-loaded.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// FetchAll reads every document in the file.
func (s *FileSource) FetchAll(ctx context.Context) ([]map[string]any, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	var docs []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64<<10), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("read source file: %w", err)
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(text), &doc); err != nil {
			return nil, fmt.Errorf("source file line %d: %w", line, err)
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read source file: %w", err)
	}
	return docs, nil
}
