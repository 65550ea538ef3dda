package upstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrUnencodable = errors.New("text not representable in calendar charset")

func lookup(label string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(strings.TrimSpace(label))
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc, nil
}

// Decode converts body from the named charset to a UTF-8 string. Bytes that
// are not valid in the charset are an error, so the text always encodes back
// to exactly body.
func Decode(body []byte, label string) (string, error) {
	enc, err := lookup(label)
	if err != nil {
		return "", err
	}
	if enc == unicode.UTF8 {
		if !utf8.Valid(body) {
			return "", fmt.Errorf("body is not valid %s", label)
		}
		return string(body), nil
	}

	reader := transform.NewReader(bytes.NewReader(body), enc.NewDecoder())
	text, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	back, err := enc.NewEncoder().Bytes(text)
	if err != nil || !bytes.Equal(back, body) {
		return "", fmt.Errorf("body is not valid %s", label)
	}
	return string(text), nil
}

// Encode converts text to the named charset. Characters the charset cannot
// represent are an error rather than being replaced.
func Encode(text string, label string) ([]byte, error) {
	enc, err := lookup(label)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnencodable, label, err)
	}
	return out, nil
}
