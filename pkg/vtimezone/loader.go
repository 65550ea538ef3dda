package vtimezone

import (
	"fmt"
	"io"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Opener returns a fresh reader over the catalog source.
type Opener func() (io.ReadCloser, error)

func FileOpener(path string) Opener {
	return func() (io.ReadCloser, error) {
		return os.Open(path)
	}
}

// Loader reads the catalog source at most once and hands out the cached Catalog afterwards.
// A failed load caches nothing, so the next call reads the source again.
type Loader struct {
	mu       sync.Mutex
	open     Opener
	validate bool
	catalog  *Catalog
}

func NewLoader(open Opener, validate bool) *Loader {
	return &Loader{
		open:     open,
		validate: validate,
	}
}

func (l *Loader) Load() (*Catalog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.catalog != nil {
		return l.catalog, nil
	}

	rc, err := l.open()
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		log.Error(err)
		return nil, err
	}
	defer rc.Close()

	catalog, err := Parse(rc)
	if err != nil {
		log.Error(err)
		return nil, err
	}

	if l.validate {
		if err := Validate(catalog); err != nil {
			log.Error(err)
			return nil, err
		}
	}

	log.Infof("Loaded %d timezone definitions", catalog.Len())
	l.catalog = catalog
	return catalog, nil
}
