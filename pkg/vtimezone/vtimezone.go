package vtimezone

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
)

// maxLineBytes bounds a single NDJSON record.
const maxLineBytes = 4 << 20

var (
	ErrUnknownTimezone    = errors.New("unknown timezone")
	ErrCatalogUnavailable = errors.New("timezone catalog unavailable")
)

// Catalog is an immutable mapping from timezone name to its VTIMEZONE block.
type Catalog struct {
	entries map[string]string
}

type record struct {
	Name    string  `json:"name"`
	Content *string `json:"content"`
}

// New builds a Catalog from a copy of entries.
func New(entries map[string]string) *Catalog {
	return &Catalog{entries: maps.Clone(entries)}
}

// Parse reads one JSON record per line. Blank lines are skipped; any other
// line that is not a record with a name and content fails the whole parse.
func Parse(r io.Reader) (*Catalog, error) {
	entries := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCatalogUnavailable, lineNo, err)
		}
		if rec.Name == "" {
			return nil, fmt.Errorf("%w: line %d: missing name", ErrCatalogUnavailable, lineNo)
		}
		if rec.Content == nil {
			return nil, fmt.Errorf("%w: line %d: missing content for %q", ErrCatalogUnavailable, lineNo, rec.Name)
		}
		entries[rec.Name] = *rec.Content
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %v", ErrCatalogUnavailable, lineNo+1, err)
	}

	return &Catalog{entries: entries}, nil
}

// Lookup returns the VTIMEZONE block registered under name.
func (c *Catalog) Lookup(name string) (string, error) {
	content, ok := c.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTimezone, name)
	}
	return content, nil
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Names returns the catalog keys in sorted order.
func (c *Catalog) Names() []string {
	return slices.Sorted(maps.Keys(c.entries))
}
