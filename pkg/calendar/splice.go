package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// Marker delimits the start of the timezone definitions in a calendar document.
const Marker = "BEGIN:VTIMEZONE"

var ErrMalformedDocument = errors.New("malformed calendar document")

// Document is calendar text cut at the first Marker.
type Document struct {
	Header    string
	Remainder string // starts with Marker
}

// Resolver maps a timezone name to its VTIMEZONE block.
type Resolver interface {
	Lookup(name string) (string, error)
}

func Split(text string) (Document, error) {
	header, rest, found := strings.Cut(text, Marker)
	if !found {
		return Document{}, fmt.Errorf("%w: no %s found", ErrMalformedDocument, Marker)
	}
	return Document{Header: header, Remainder: Marker + rest}, nil
}

// Splice inserts the blocks for names, in order, right before the first Marker of text.
// Every name must resolve; otherwise nothing is produced.
func Splice(text string, names []string, resolver Resolver) (string, error) {
	doc, err := Split(text)
	if err != nil {
		return "", err
	}

	blocks := make([]string, 0, len(names))
	size := len(text) + max(len(names), 1)
	for _, name := range names {
		content, err := resolver.Lookup(name)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, content)
		size += len(content)
	}

	var sb strings.Builder
	sb.Grow(size)
	sb.WriteString(doc.Header)
	sb.WriteString(strings.Join(blocks, "\n"))
	sb.WriteString("\n")
	sb.WriteString(doc.Remainder)
	return sb.String(), nil
}

// ParseTimezones splits a comma separated list, trimming entries and dropping empty ones.
func ParseTimezones(raw string) []string {
	names := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
