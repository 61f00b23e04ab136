// Package container provides dependency injection for the techpack-csv application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"fjacquet/techpack-csv/internal/articletype"
	"fjacquet/techpack-csv/internal/batch"
	"fjacquet/techpack-csv/internal/common"
	"fjacquet/techpack-csv/internal/config"
	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/pdfparser"
	"fjacquet/techpack-csv/internal/repository"
	"fjacquet/techpack-csv/internal/store"
	"fjacquet/techpack-csv/internal/techpack"
)

// Option overrides a dependency before the container wires the rest.
type Option func(*Container)

// WithLogger replaces the logger built from the configuration.
func WithLogger(l logging.Logger) Option {
	return func(c *Container) { c.logger = l }
}

// WithExtractor replaces the configured PDF extractor.
func WithExtractor(e pdfparser.PDFExtractor) Option {
	return func(c *Container) { c.extractor = e }
}

// WithAIClient supplies the AI client used for article-type classification.
// It takes effect only when AI is enabled in the configuration.
func WithAIClient(client articletype.AIClient) Option {
	return func(c *Container) { c.aiClient = client }
}

// WithRepository replaces the lazily opened SQLite repository.
func WithRepository(r repository.Repository) Option {
	return func(c *Container) { c.repo = r }
}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation apart from the repository, which is
// opened on first use so that commands without persistence never touch the
// database file.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	store      *store.CatalogStore
	aiClient   articletype.AIClient
	classifier *articletype.Classifier
	extractor  pdfparser.PDFExtractor
	processor  *techpack.Processor
	runner     *batch.Runner

	repoMu sync.Mutex
	repo   repository.Repository
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	// Create logger first as it's needed by other components
	if c.logger == nil {
		c.logger = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	}
	logging.SetLogger(c.logger)
	common.SetLogger(c.logger)
	if cfg.CSV.Delimiter != "" {
		common.SetDelimiter(cfg.Delimiter())
	}

	c.store = store.NewCatalogStore(cfg.Labels.File, cfg.Labels.ArticleTypesFile)
	c.store.SetLogger(c.logger)

	if cfg.AI.Enabled {
		if c.aiClient == nil {
			client, err := articletype.NewGeminiClient(cfg.AI.APIKey, cfg.AI.Model)
			if err != nil {
				return nil, fmt.Errorf("failed to create AI client: %w", err)
			}
			c.aiClient = client
		}
		c.logger.Info("AI article-type classification enabled")
	} else {
		c.aiClient = nil
		c.logger.Debug("AI article-type classification disabled")
	}

	c.classifier = articletype.NewDefaultClassifier(articletype.Options{
		Store:     c.store,
		AIClient:  c.aiClient,
		AITimeout: time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	}, c.logger)

	if c.extractor == nil {
		extractor, err := pdfparser.NewExtractor(pdfparser.Options{
			Engine: cfg.PDF.Engine,
			Layout: pdfparser.LayoutOptions{
				LineTolerance: cfg.PDF.LineTolerance,
				SpaceGap:      cfg.PDF.SpaceGap,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create PDF extractor: %w", err)
		}
		c.extractor = extractor
	}

	c.processor = techpack.NewProcessor(c.extractor, c.classifier, c.store, techpack.Options{
		Designer: cfg.Defaults.Designer,
		Status:   cfg.Defaults.Status,
	}, c.logger)

	c.runner = batch.NewRunner(c.processor, cfg.Batch.Workers, c.logger)

	c.logger.Info("Container initialized successfully",
		logging.Field{Key: logging.FieldEngine, Value: cfg.PDF.Engine},
		logging.Field{Key: logging.FieldStrategy, Value: c.classifier.Strategies()})

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the label and article-type catalog store.
func (c *Container) GetStore() *store.CatalogStore {
	return c.store
}

// GetAIClient returns the container's AI client instance.
// Returns nil if AI is not enabled.
func (c *Container) GetAIClient() articletype.AIClient {
	return c.aiClient
}

// GetClassifier returns the article-type classifier.
func (c *Container) GetClassifier() *articletype.Classifier {
	return c.classifier
}

// GetExtractor returns the PDF text extractor.
func (c *Container) GetExtractor() pdfparser.PDFExtractor {
	return c.extractor
}

// GetProcessor returns the tech-pack processor.
func (c *Container) GetProcessor() *techpack.Processor {
	return c.processor
}

// GetBatchRunner returns the directory batch runner.
func (c *Container) GetBatchRunner() *batch.Runner {
	return c.runner
}

// GetRepository opens the record store on first use.
func (c *Container) GetRepository() (repository.Repository, error) {
	c.repoMu.Lock()
	defer c.repoMu.Unlock()

	if c.repo != nil {
		return c.repo, nil
	}
	repo, err := repository.Open(c.config.Store.DBPath, c.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	c.repo = repo
	return repo, nil
}

// Close releases the repository and the AI client.
func (c *Container) Close() error {
	var errs []error

	c.repoMu.Lock()
	if c.repo != nil {
		if err := c.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing record store: %w", err))
		}
		c.repo = nil
	}
	c.repoMu.Unlock()

	if closer, ok := c.aiClient.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing AI client: %w", err))
		}
	}

	c.logger.Debug("Container closed")
	return errors.Join(errs...)
}
