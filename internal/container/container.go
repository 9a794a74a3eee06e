// Package container wires the application dependencies from configuration.
package container

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/ofx-import/internal/categorizer"
	"fjacquet/ofx-import/internal/config"
	"fjacquet/ofx-import/internal/importer"
	"fjacquet/ofx-import/internal/logging"
	"fjacquet/ofx-import/internal/ofxparser"
	"fjacquet/ofx-import/internal/rules"
	"fjacquet/ofx-import/internal/store"
	"fjacquet/ofx-import/internal/taxonomy"
)

// Container holds every long-lived dependency. It is immutable after
// creation; use the getters.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      *store.FileStore
	taxonomy   *taxonomy.Taxonomy
	rules      *rules.Store
	classifier *categorizer.Classifier
	parser     *ofxparser.Adapter
	importer   *importer.Service
}

// NewContainer creates the logger from cfg and wires the rest.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}
	return NewContainerWithLogger(ctx, cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger wires the dependencies around an existing logger.
// Persisted rules and the taxonomy are loaded eagerly.
func NewContainerWithLogger(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}

	fs := store.NewFileStore(cfg.Data.Directory, store.Files{
		Rules:          cfg.Store.RulesFile,
		Taxonomy:       cfg.Store.TaxonomyFile,
		Counterparties: cfg.Store.CounterpartiesFile,
		Records:        cfg.Store.RecordsFile,
		History:        cfg.Store.HistoryFile,
	}, logger)

	tax, err := fs.LoadTaxonomy(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy: %w", err)
	}

	book := rules.NewStore(fs, logger)
	if err := book.Load(ctx); err != nil {
		return nil, err
	}

	classifier := categorizer.NewClassifier(book, logger,
		categorizer.WithDirectory(fs),
		categorizer.WithTaxonomy(tax))

	adapter := ofxparser.NewAdapter(logger, ofxparser.WithDefaultCurrency(cfg.Parser.DefaultCurrency))

	svc := importer.NewService(importer.Dependencies{
		Parser:     adapter,
		Classifier: classifier,
		Rules:      book,
		Records:    fs,
		History:    fs,
		Index:      fs,
		Paths:      tax,
		Logger:     logger,
	}, importer.WithSkipDuplicates(cfg.Import.SkipDuplicates))

	logger.Info("Container initialized",
		logging.F("data_directory", cfg.Data.Directory),
		logging.F("rules", len(book.List())),
		logging.F("categories", len(tax.Categories())))

	return &Container{
		logger:     logger,
		config:     cfg,
		store:      fs,
		taxonomy:   tax,
		rules:      book,
		classifier: classifier,
		parser:     adapter,
		importer:   svc,
	}, nil
}

// GetLogger returns the application logger.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the configuration the container was built from.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the file store.
func (c *Container) GetStore() *store.FileStore {
	return c.store
}

// GetTaxonomy returns the loaded taxonomy.
func (c *Container) GetTaxonomy() *taxonomy.Taxonomy {
	return c.taxonomy
}

// GetRules returns the rule store.
func (c *Container) GetRules() *rules.Store {
	return c.rules
}

// GetClassifier returns the classifier.
func (c *Container) GetClassifier() *categorizer.Classifier {
	return c.classifier
}

// GetParser returns the OFX parser.
func (c *Container) GetParser() *ofxparser.Adapter {
	return c.parser
}

// GetImporter returns the import service.
func (c *Container) GetImporter() *importer.Service {
	return c.importer
}

// Close releases container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
