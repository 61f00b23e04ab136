package articletype

import (
	"context"
	"time"

	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"
)

// Classifier runs its strategies in order and keeps the first match.
type Classifier struct {
	strategies []Strategy
	logger     logging.Logger
}

// NewClassifier creates a Classifier over strategies.
func NewClassifier(logger logging.Logger, strategies ...Strategy) *Classifier {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Classifier{strategies: strategies, logger: logger}
}

// Options configures NewDefaultClassifier.
type Options struct {
	Store     CatalogLoader
	AIClient  AIClient
	AITimeout time.Duration
}

// NewDefaultClassifier builds the keyword strategy and, when an AI client is
// given, an AI strategy restricted to the same catalog.
func NewDefaultClassifier(opts Options, logger logging.Logger) *Classifier {
	keyword := NewKeywordStrategy(opts.Store, logger)
	strategies := []Strategy{keyword}
	if opts.AIClient != nil {
		strategies = append(strategies, NewAIStrategy(opts.AIClient, Names(keyword.Catalog()), opts.AITimeout, logger))
	}
	return NewClassifier(logger, strategies...)
}

// Strategies returns the strategy names in order.
func (c *Classifier) Strategies() []string {
	names := make([]string, 0, len(c.strategies))
	for _, s := range c.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Classify returns the first article type any strategy finds, or
// models.DefaultArticleType. Strategy errors are logged and skipped.
func (c *Classifier) Classify(ctx context.Context, in Input) (string, StrategyResults) {
	var results StrategyResults
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			results.Results = append(results.Results, StrategyResult{Strategy: s.Name(), Error: err})
			break
		}
		name, found, err := s.Classify(ctx, in)
		results.Results = append(results.Results, StrategyResult{Strategy: s.Name(), ArticleType: name, Found: found && err == nil, Error: err})
		if err != nil {
			c.logger.WithError(err).WithField(logging.FieldStrategy, s.Name()).Warn("Article type strategy failed")
			continue
		}
		if found {
			break
		}
	}

	name, ok := results.Best()
	if !ok {
		name = models.DefaultArticleType
	}
	c.logger.WithFields(
		logging.Field{Key: logging.FieldArticle, Value: name},
		logging.Field{Key: logging.FieldStrategy, Value: results.Summary()},
	).Debug("Article type classified")
	return name, results
}
