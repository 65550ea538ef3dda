package app

import (
	"github.com/vtzproxy/vtzproxy/internal/config"
	"github.com/vtzproxy/vtzproxy/pkg/augment"
	"github.com/vtzproxy/vtzproxy/pkg/upstream"
	"github.com/vtzproxy/vtzproxy/pkg/vtimezone"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	CatalogLoader *vtimezone.Loader
	Catalog       *vtimezone.Catalog

	Fetcher upstream.Fetcher

	AugmentService augment.Service
	AugmentHandler *augment.Handler
}

// BuildDependencies loads the timezone catalog and wires the services and handlers around it.
func BuildDependencies(cfg config.Application, fetcher upstream.Fetcher) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.CatalogLoader = vtimezone.NewLoader(vtimezone.FileOpener(cfg.Catalog.Path), cfg.Catalog.Validate)
	catalog, err := deps.CatalogLoader.Load()
	if err != nil {
		return nil, err
	}
	deps.Catalog = catalog

	deps.Fetcher = fetcher

	service, err := augment.NewServiceImpl(deps.Fetcher, deps.Catalog, cfg.Upstream.AllowedPrefix)
	if err != nil {
		return nil, err
	}
	deps.AugmentService = service
	deps.AugmentHandler = augment.NewHandler(deps.AugmentService, deps.Catalog)

	return deps, nil
}
