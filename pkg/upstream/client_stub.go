package upstream

import (
	"context"
	"sync"
)

type FetcherStub struct {
	mu        sync.RWMutex
	documents map[string]Document
	fetchErr  error
	calls     []string
}

func NewFetcherStub() *FetcherStub {
	return &FetcherStub{
		documents: make(map[string]Document),
	}
}

func (s *FetcherStub) Fetch(ctx context.Context, url string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, url)

	if s.fetchErr != nil {
		return Document{}, s.fetchErr
	}
	doc, ok := s.documents[url]
	if !ok {
		return Document{}, &StatusError{StatusCode: 404, Body: []byte("Not Found")}
	}
	return doc, nil
}

func (s *FetcherStub) SetDocument(url string, doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[url] = doc
}

func (s *FetcherStub) SetFetchError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
}

// Calls returns the urls fetched so far.
func (s *FetcherStub) Calls() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.calls...)
}

func (s *FetcherStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = make(map[string]Document)
	s.fetchErr = nil
	s.calls = nil
}
