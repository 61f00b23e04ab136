// Package articletype classifies a tech pack into an article type (Hoodie,
// T-Shirt, Trousers, ...) with an ordered chain of strategies.
package articletype

import (
	"context"
	"fmt"
	"strings"
)

// Input is what the strategies look at. ProductName carries the most weight.
type Input struct {
	ProductName string
	Description string
	Filename    string
	Text        string
}

// IsEmpty reports whether there is nothing to classify.
func (in Input) IsEmpty() bool {
	return strings.TrimSpace(in.ProductName+in.Description+in.Filename+in.Text) == ""
}

// Strategy is one way of deciding the article type.
type Strategy interface {
	// Classify returns the article type and whether the strategy matched.
	// An error means the strategy could not run; the chain moves on.
	Classify(ctx context.Context, in Input) (string, bool, error)

	// Name returns the name of this strategy for logging and debugging.
	Name() string
}

// StrategyResult records one strategy attempt.
type StrategyResult struct {
	Strategy    string
	ArticleType string
	Found       bool
	Error       error
}

// StrategyResults aggregates the attempts of one classification.
type StrategyResults struct {
	Results []StrategyResult
}

// Best returns the first successful result.
func (sr StrategyResults) Best() (string, bool) {
	for _, r := range sr.Results {
		if r.Found && r.Error == nil {
			return r.ArticleType, true
		}
	}
	return "", false
}

// Errors returns all errors encountered during strategy execution.
func (sr StrategyResults) Errors() []error {
	var errs []error
	for _, r := range sr.Results {
		if r.Error != nil {
			errs = append(errs, fmt.Errorf("%s strategy: %w", r.Strategy, r.Error))
		}
	}
	return errs
}

// Summary renders "name:status" pairs, e.g. "Keyword:no_match, AI:success".
func (sr StrategyResults) Summary() string {
	parts := make([]string, 0, len(sr.Results))
	for _, r := range sr.Results {
		status := "failed"
		if r.Found {
			status = "success"
		} else if r.Error == nil {
			status = "no_match"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", r.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
