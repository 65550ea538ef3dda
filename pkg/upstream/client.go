package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/vtzproxy/vtzproxy/internal/config"
)

const defaultCharset = "utf-8"

var ErrUpstreamFetchFailed = errors.New("upstream fetch failed")

// StatusError reports a non-200 answer from the calendar provider.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: provider returned status %d", ErrUpstreamFetchFailed, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrUpstreamFetchFailed
}

// Document is a fetched calendar, decoded to UTF-8 text.
type Document struct {
	Text    string
	Charset string // as declared by the provider, or utf-8
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (Document, error)
}

type Client struct {
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
}

func NewClient(cfg config.Upstream) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Fetch performs a single GET of url and decodes the body from its declared charset.
func (c *Client) Fetch(ctx context.Context, url string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrUpstreamFetchFailed, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/calendar, */*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warnf("Calendar request failed: %v", err)
		return Document{}, fmt.Errorf("%w: %w", ErrUpstreamFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := c.readBody(resp.Body)
	if err != nil {
		log.Warnf("Failed to read calendar body: %v", err)
		return Document{}, err
	}

	if resp.StatusCode != http.StatusOK {
		log.Warnf("Calendar provider returned non-OK status: %d", resp.StatusCode)
		return Document{}, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	label := charsetOf(resp.Header.Get("Content-Type"))
	text, err := Decode(body, label)
	if err != nil {
		log.Warnf("Failed to decode calendar as %s: %v", label, err)
		return Document{}, fmt.Errorf("%w: %w", ErrUpstreamFetchFailed, err)
	}

	log.Debugf("Fetched calendar (%d bytes, charset %s)", len(body), label)
	return Document{Text: text, Charset: label}, nil
}

func (c *Client) readBody(r io.Reader) ([]byte, error) {
	if c.maxBodyBytes <= 0 {
		return nil, fmt.Errorf("%w: no body size limit configured", ErrUpstreamFetchFailed)
	}
	body, err := io.ReadAll(io.LimitReader(r, c.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamFetchFailed, err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrUpstreamFetchFailed, c.maxBodyBytes)
	}
	return body, nil
}

func charsetOf(contentType string) string {
	if contentType == "" {
		return defaultCharset
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil || params["charset"] == "" {
		return defaultCharset
	}
	return params["charset"]
}
