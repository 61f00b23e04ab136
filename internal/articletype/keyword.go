package articletype

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"
)

// textWindow bounds how much of the document text the keyword strategy scans.
const textWindow = 2000

// KeywordStrategy matches catalog keywords as whole words, looking at the
// product name first, then the description, the file name and the start of
// the document text.
type KeywordStrategy struct {
	mu       sync.RWMutex
	catalog  []models.ArticleTypeConfig
	patterns map[string]*regexp.Regexp
	store    CatalogLoader
	logger   logging.Logger
}

// NewKeywordStrategy creates a KeywordStrategy. A nil store, a load error or
// an empty catalog file selects the built-in catalog.
func NewKeywordStrategy(store CatalogLoader, logger logging.Logger) *KeywordStrategy {
	if logger == nil {
		logger = logging.GetLogger()
	}
	s := &KeywordStrategy{store: store, logger: logger}
	s.ReloadCatalog()
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Catalog returns the article types the strategy is matching against.
func (s *KeywordStrategy) Catalog() []models.ArticleTypeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Classify implements Strategy.
func (s *KeywordStrategy) Classify(ctx context.Context, in Input) (string, bool, error) {
	if in.IsEmpty() {
		return "", false, nil
	}

	text := in.Text
	if len(text) > textWindow {
		text = text[:textWindow]
	}
	sources := []struct{ name, value string }{
		{"productName", in.ProductName},
		{"description", in.Description},
		{"filename", strings.NewReplacer("_", " ", "-", " ").Replace(in.Filename)},
		{"text", text},
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, src := range sources {
		if strings.TrimSpace(src.value) == "" {
			continue
		}
		for _, at := range s.catalog {
			for _, kw := range at.Keywords {
				if re := s.patterns[kw]; re != nil && re.MatchString(src.value) {
					s.logger.WithFields(
						logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
						logging.Field{Key: "source", Value: src.name},
						logging.Field{Key: "keyword", Value: kw},
						logging.Field{Key: logging.FieldArticle, Value: at.Name},
					).Debug("Article type matched by keyword")
					return at.Name, true, nil
				}
			}
		}
	}
	return "", false, nil
}

// ReloadCatalog reloads the catalog from the store.
func (s *KeywordStrategy) ReloadCatalog() {
	catalog := BuiltinCatalog()
	if s.store != nil {
		loaded, err := s.store.LoadArticleTypes()
		switch {
		case err != nil:
			s.logger.WithError(err).Warn("Failed to load article types, using built-in catalog")
		case len(loaded) > 0:
			catalog = loaded
		}
	}

	patterns := make(map[string]*regexp.Regexp)
	for _, at := range catalog {
		for _, kw := range at.Keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			if _, ok := patterns[kw]; !ok {
				patterns[kw] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `s?\b`)
			}
		}
	}

	s.mu.Lock()
	s.catalog, s.patterns = catalog, patterns
	s.mu.Unlock()
	s.logger.WithField(logging.FieldCount, len(catalog)).Debug("Loaded article types for KeywordStrategy")
}
