package augment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/vtzproxy/vtzproxy/pkg/calendar"
	"github.com/vtzproxy/vtzproxy/pkg/upstream"
)

var ErrUnsupportedSource = errors.New("unsupported source")

// Result is an augmented calendar, encoded in the charset the provider declared.
type Result struct {
	Body    []byte
	Charset string
}

type Service interface {
	Augment(ctx context.Context, sourceURL string, timezones []string) (Result, error)
}

type ServiceImpl struct {
	fetcher  upstream.Fetcher
	resolver calendar.Resolver
	allowed  *url.URL
	prefix   string
}

func NewServiceImpl(fetcher upstream.Fetcher, resolver calendar.Resolver, allowedPrefix string) (*ServiceImpl, error) {
	allowed, err := url.Parse(allowedPrefix)
	if err != nil || allowed.Scheme == "" || allowed.Host == "" {
		return nil, fmt.Errorf("invalid allowed source prefix %q", allowedPrefix)
	}
	return &ServiceImpl{
		fetcher:  fetcher,
		resolver: resolver,
		allowed:  allowed,
		prefix:   allowedPrefix,
	}, nil
}

// Augment fetches sourceURL and inserts the VTIMEZONE blocks for timezones into it.
// Sources outside the allowed prefix are rejected before any request is made.
func (s *ServiceImpl) Augment(ctx context.Context, sourceURL string, timezones []string) (Result, error) {
	if !s.isAllowed(sourceURL) {
		log.Debugf("Rejected source: %s", sourceURL)
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedSource, sourceURL)
	}

	doc, err := s.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		return Result{}, err
	}

	text, err := calendar.Splice(doc.Text, timezones, s.resolver)
	if err != nil {
		log.Debugf("Failed to splice calendar %s: %v", sourceURL, err)
		return Result{}, err
	}

	body, err := upstream.Encode(text, doc.Charset)
	if err != nil {
		log.Errorf("Failed to encode calendar %s: %v", sourceURL, err)
		return Result{}, err
	}

	log.Debugf("Augmented calendar with %d timezone(s)", len(timezones))
	return Result{Body: body, Charset: doc.Charset}, nil
}

// isAllowed requires the textual prefix and also the same scheme and host, so that
// "https://outlook.office365.com.example.org" or userinfo tricks do not pass.
func (s *ServiceImpl) isAllowed(sourceURL string) bool {
	if !strings.HasPrefix(sourceURL, s.prefix) {
		return false
	}
	u, err := url.Parse(sourceURL)
	if err != nil || u.User != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, s.allowed.Scheme) &&
		strings.EqualFold(u.Host, s.allowed.Host) &&
		strings.HasPrefix(u.Path, s.allowed.Path)
}
