// Package store loads the YAML catalogs that tune extraction: candidate
// labels per field and the article-type keyword table.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"

	"gopkg.in/yaml.v3"
)

// Default catalog file names.
const (
	DefaultLabelsFile       = "labels.yaml"
	DefaultArticleTypesFile = "article_types.yaml"
)

// CatalogStore reads label and article-type catalogs from disk.
type CatalogStore struct {
	LabelsFile       string
	ArticleTypesFile string
	logger           logging.Logger
}

// NewCatalogStore creates a new store for the extraction catalogs.
func NewCatalogStore(labelsFile, articleTypesFile string) *CatalogStore {
	return &CatalogStore{
		LabelsFile:       labelsFile,
		ArticleTypesFile: articleTypesFile,
		logger:           logging.GetLogger(),
	}
}

// SetLogger replaces the store's logger.
func (s *CatalogStore) SetLogger(logger logging.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// FindConfigFile looks for a catalog file in the current directory, config/,
// database/ and ~/.config/techpack-csv/, in that order.
func (s *CatalogStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join("database", filename),
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "techpack-csv", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// readCatalog returns the file contents, or nil when the file does not exist.
func (s *CatalogStore) readCatalog(filename, fallback string) ([]byte, string, error) {
	if filename == "" {
		filename = fallback
	}
	path, err := s.FindConfigFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.WithField(logging.FieldFile, filename).Debug("Catalog file not found, using built-in values")
		return nil, filename, nil
	}
	if err != nil {
		return nil, filename, fmt.Errorf("error resolving %s: %w", filename, err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- catalog path comes from config
	if err != nil {
		return nil, path, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, path, nil
}

// LoadLabels loads candidate labels per field. Field keys are matched
// leniently ("color", "print_technique"). A missing file yields an empty map.
func (s *CatalogStore) LoadLabels() (map[models.FieldName][]string, error) {
	data, path, err := s.readCatalog(s.LabelsFile, DefaultLabelsFile)
	if err != nil || data == nil {
		return map[models.FieldName][]string{}, err
	}

	var cfg models.LabelsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil || len(cfg.Labels) == 0 {
		// Files without the top-level "labels:" key.
		var flat map[string][]string
		if err2 := yaml.Unmarshal(data, &flat); err2 != nil {
			if err == nil {
				err = err2
			}
			return nil, fmt.Errorf("error parsing labels file %s: %w", path, err)
		}
		cfg.Labels = flat
	}

	out := make(map[models.FieldName][]string, len(cfg.Labels))
	for key, labels := range cfg.Labels {
		field := models.ParseFieldName(key)
		for _, l := range labels {
			if l = strings.TrimSpace(l); l != "" {
				out[field] = append(out[field], l)
			}
		}
	}
	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(out)},
	).Debug("Loaded label catalog")
	return out, nil
}

// LoadArticleTypes loads the article-type keyword table. It accepts the
// "article_types:" list, a bare list, or a map of type name to keywords.
// Keywords are lowercased. A missing file yields an empty slice.
func (s *CatalogStore) LoadArticleTypes() ([]models.ArticleTypeConfig, error) {
	data, path, err := s.readCatalog(s.ArticleTypesFile, DefaultArticleTypesFile)
	if err != nil || data == nil {
		return []models.ArticleTypeConfig{}, err
	}

	var types []models.ArticleTypeConfig
	var cfg models.ArticleTypesConfig
	if err := yaml.Unmarshal(data, &cfg); err == nil && len(cfg.ArticleTypes) > 0 {
		types = cfg.ArticleTypes
	} else if err := yaml.Unmarshal(data, &types); err != nil || len(types) == 0 {
		types, err = parseArticleTypeMap(data)
		if err != nil {
			return nil, fmt.Errorf("error parsing article types file %s: %w", path, err)
		}
	}

	for i := range types {
		types[i].Name = strings.TrimSpace(types[i].Name)
		for j, k := range types[i].Keywords {
			types[i].Keywords[j] = strings.ToLower(strings.TrimSpace(k))
		}
	}
	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(types)},
	).Debug("Loaded article types")
	return types, nil
}

// parseArticleTypeMap reads "Hoodie: [hoodie, hooded]" or
// "Hoodie: {keywords: [...]}" entries, sorted by name.
func parseArticleTypeMap(data []byte) ([]models.ArticleTypeConfig, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	types := make([]models.ArticleTypeConfig, 0, len(raw))
	for _, name := range names {
		at := models.ArticleTypeConfig{Name: name}
		switch v := raw[name].(type) {
		case []interface{}:
			at.Keywords = stringList(v)
		case map[string]interface{}:
			if kws, ok := v["keywords"].([]interface{}); ok {
				at.Keywords = stringList(kws)
			}
		}
		types = append(types, at)
	}
	return types, nil
}

func stringList(items []interface{}) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
