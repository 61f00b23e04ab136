package articletype

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/parsererror"
	"fjacquet/techpack-csv/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordStrategy_BuiltinCatalog(t *testing.T) {
	s := NewKeywordStrategy(nil, logging.NewMockLogger())

	tests := []struct {
		name     string
		input    Input
		expected string
		found    bool
	}{
		{"product name", Input{ProductName: "Boxy Hoodie"}, "Hoodie", true},
		{"t-shirt beats shirt", Input{ProductName: "Oversized T-Shirt"}, "T-Shirt", true},
		{"plural", Input{ProductName: "Cargo Pants"}, "Trousers", true},
		{"sweatshirt is not shirt", Input{ProductName: "Crew Sweatshirt"}, "Sweatshirt", true},
		{"product name outranks text", Input{ProductName: "Denim Jacket", Text: "matching jeans"}, "Jacket", true},
		{"filename separators", Input{Filename: "ss25_tank-top_v2.pdf"}, "Tank Top", true},
		{"text fallback", Input{Text: "Style: NK-1\nGarment: dress with pleats"}, "Dress", true},
		{"no match", Input{ProductName: "Mystery Item"}, "", false},
		{"empty", Input{}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := s.Classify(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestKeywordStrategy_StoreCatalog(t *testing.T) {
	st := &store.MockCatalogStore{ArticleTypes: []models.ArticleTypeConfig{
		{Name: "Outerwear", Keywords: []string{"jacket"}},
	}}
	s := NewKeywordStrategy(st, logging.NewMockLogger())

	got, found, err := s.Classify(context.Background(), Input{ProductName: "Rain Jacket"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Outerwear", got)
	assert.Equal(t, []string{"Outerwear"}, Names(s.Catalog()))
}

func TestKeywordStrategy_StoreErrorFallsBack(t *testing.T) {
	logger := logging.NewMockLogger()
	st := &store.MockCatalogStore{LoadArticleTypesError: errors.New("disk gone")}
	s := NewKeywordStrategy(st, logger)

	assert.Len(t, s.Catalog(), len(builtinCatalog))
	assert.True(t, logger.HasEntry("WARN", "Failed to load article types, using built-in catalog"))
}

func TestBuiltinCatalog_ReturnsCopy(t *testing.T) {
	c := BuiltinCatalog()
	c[0].Keywords[0] = "changed"
	assert.Equal(t, "hoodie", builtinCatalog[0].Keywords[0])
}

func TestAIStrategy(t *testing.T) {
	types := []string{"Hoodie", "Dress"}

	tests := []struct {
		name     string
		client   *MockAIClient
		expected string
		found    bool
		wantErr  bool
	}{
		{"formatted answer", &MockAIClient{Response: "ArticleType: dress\nBecause it has a skirt."}, "Dress", true, false},
		{"bare answer", &MockAIClient{Response: "  Hoodie.\n"}, "Hoodie", true, false},
		{"bracketed answer", &MockAIClient{Response: "ArticleType: [Hoodie]"}, "Hoodie", true, false},
		{"unknown type", &MockAIClient{Response: "ArticleType: Kimono"}, "", false, false},
		{"client error", &MockAIClient{Err: errors.New("quota")}, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewAIStrategy(tt.client, types, 0, logging.NewMockLogger())
			got, found, err := s.Classify(context.Background(), Input{ProductName: "Thing", Text: "body"})
			if tt.wantErr {
				var ce *parsererror.ClassificationError
				require.True(t, errors.As(err, &ce))
				assert.Equal(t, "AI", ce.Strategy)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, got)
			require.Len(t, tt.client.Prompts, 1)
			assert.Contains(t, tt.client.Prompts[0], "Hoodie, Dress")
		})
	}
}

func TestAIStrategy_PromptTruncatesText(t *testing.T) {
	client := &MockAIClient{Response: "Hoodie"}
	s := NewAIStrategy(client, []string{"Hoodie"}, 0, logging.NewMockLogger())
	_, _, err := s.Classify(context.Background(), Input{Text: strings.Repeat("é", promptTextLimit+50)})
	require.NoError(t, err)
	assert.Equal(t, promptTextLimit, strings.Count(client.Prompts[0], "é"))
}

func TestAIStrategy_NilClient(t *testing.T) {
	s := NewAIStrategy(nil, []string{"Hoodie"}, 0, logging.NewMockLogger())
	_, found, err := s.Classify(context.Background(), Input{ProductName: "x"})
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestClassifier_Chain(t *testing.T) {
	logger := logging.NewMockLogger()
	ai := &MockAIClient{Response: "ArticleType: Dress"}
	c := NewDefaultClassifier(Options{AIClient: ai}, logger)
	assert.Equal(t, []string{"Keyword", "AI"}, c.Strategies())

	name, results := c.Classify(context.Background(), Input{ProductName: "Boxy Hoodie"})
	assert.Equal(t, "Hoodie", name)
	assert.Equal(t, "Keyword:success", results.Summary())
	assert.Empty(t, ai.Prompts)

	name, results = c.Classify(context.Background(), Input{ProductName: "Evening piece"})
	assert.Equal(t, "Dress", name)
	assert.Equal(t, "Keyword:no_match, AI:success", results.Summary())
}

func TestClassifier_DefaultsAndErrors(t *testing.T) {
	logger := logging.NewMockLogger()
	c := NewDefaultClassifier(Options{AIClient: &MockAIClient{Err: errors.New("offline")}}, logger)

	name, results := c.Classify(context.Background(), Input{ProductName: "Evening piece"})
	assert.Equal(t, models.DefaultArticleType, name)
	assert.Equal(t, "Keyword:no_match, AI:failed", results.Summary())
	require.Len(t, results.Errors(), 1)
	assert.Contains(t, results.Errors()[0].Error(), "AI strategy")
	assert.True(t, logger.HasEntry("WARN", "Article type strategy failed"))
}

func TestClassifier_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	name, results := NewClassifier(logging.NewMockLogger(), NewKeywordStrategy(nil, nil)).Classify(ctx, Input{ProductName: "Hoodie"})
	assert.Equal(t, models.DefaultArticleType, name)
	assert.Equal(t, "Keyword:failed", results.Summary())
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(" ", "")
	assert.Error(t, err)

	c, err := NewGeminiClient("key", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.modelName)
	assert.NoError(t, c.Close())
}
