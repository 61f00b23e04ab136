package store

import "fjacquet/techpack-csv/internal/models"

// MockCatalogStore is an in-memory catalog for tests.
type MockCatalogStore struct {
	Labels       map[models.FieldName][]string
	ArticleTypes []models.ArticleTypeConfig

	LoadLabelsError       error
	LoadArticleTypesError error
}

// LoadLabels returns a copy of the mock labels.
func (m *MockCatalogStore) LoadLabels() (map[models.FieldName][]string, error) {
	if m.LoadLabelsError != nil {
		return nil, m.LoadLabelsError
	}
	out := make(map[models.FieldName][]string, len(m.Labels))
	for k, v := range m.Labels {
		out[k] = append([]string(nil), v...)
	}
	return out, nil
}

// LoadArticleTypes returns the mock article types.
func (m *MockCatalogStore) LoadArticleTypes() ([]models.ArticleTypeConfig, error) {
	if m.LoadArticleTypesError != nil {
		return nil, m.LoadArticleTypesError
	}
	return m.ArticleTypes, nil
}
