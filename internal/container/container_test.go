package container

import (
	"context"
	"path/filepath"
	"testing"

	"fjacquet/techpack-csv/internal/articletype"
	"fjacquet/techpack-csv/internal/config"
	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/pdfparser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.CSV.IncludeHeaders = true
	cfg.PDF.Engine = "native"
	cfg.PDF.LineTolerance = 5
	cfg.PDF.SpaceGap = 1.5
	cfg.Labels.File = "labels.yaml"
	cfg.Labels.ArticleTypesFile = "article_types.yaml"
	cfg.AI.Model = "gemini-1.5-flash"
	cfg.AI.TimeoutSeconds = 5
	cfg.Store.DBPath = filepath.Join(dir, "techpacks.db")
	cfg.Server.Addr = ":0"
	cfg.Server.MaxUploadMB = 10
	cfg.Batch.Workers = 2
	cfg.Defaults.Designer = "Studio A"
	cfg.Defaults.Status = models.StatusDraft
	return cfg
}

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(*config.Config)
		opts           []Option
		expectError    bool
		errorMsg       string
		wantStrategies []string
		wantAIClient   bool
	}{
		{
			name:           "valid config without AI",
			wantStrategies: []string{"Keyword"},
		},
		{
			name: "AI enabled with injected client",
			mutate: func(c *config.Config) {
				c.AI.Enabled = true
				c.AI.APIKey = "test-key"
			},
			opts:           []Option{WithAIClient(&articletype.MockAIClient{Response: "Hoodie"})},
			wantStrategies: []string{"Keyword", "AI"},
			wantAIClient:   true,
		},
		{
			name: "AI enabled builds Gemini client",
			mutate: func(c *config.Config) {
				c.AI.Enabled = true
				c.AI.APIKey = "test-key"
			},
			wantStrategies: []string{"Keyword", "AI"},
			wantAIClient:   true,
		},
		{
			name:           "AI client ignored when disabled",
			opts:           []Option{WithAIClient(&articletype.MockAIClient{})},
			wantStrategies: []string{"Keyword"},
		},
		{
			name: "AI enabled without key",
			mutate: func(c *config.Config) {
				c.AI.Enabled = true
			},
			expectError: true,
			errorMsg:    "failed to create AI client",
		},
		{
			name: "unknown PDF engine",
			mutate: func(c *config.Config) {
				c.PDF.Engine = "ocr"
			},
			expectError: true,
			errorMsg:    "failed to create PDF extractor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			opts := append([]Option{WithLogger(logging.NewMockLogger())}, tt.opts...)

			c, err := NewContainer(cfg, opts...)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { _ = c.Close() })

			assert.Same(t, cfg, c.GetConfig())
			assert.NotNil(t, c.GetLogger())
			assert.NotNil(t, c.GetStore())
			assert.NotNil(t, c.GetExtractor())
			assert.NotNil(t, c.GetProcessor())
			assert.NotNil(t, c.GetBatchRunner())
			assert.Equal(t, tt.wantStrategies, c.GetClassifier().Strategies())
			if tt.wantAIClient {
				assert.NotNil(t, c.GetAIClient())
			} else {
				assert.Nil(t, c.GetAIClient())
			}
		})
	}
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")
}

func TestNewContainer_PdftotextEngine(t *testing.T) {
	cfg := testConfig(t)
	cfg.PDF.Engine = "pdftotext"

	c, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	assert.IsType(t, &pdfparser.PdftotextExtractor{}, c.GetExtractor())
}

func TestContainer_ProcessorWiring(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.Enabled = true
	cfg.AI.APIKey = "test-key"
	ai := &articletype.MockAIClient{Response: "ArticleType: Jacket"}

	c, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()), WithAIClient(ai))
	require.NoError(t, err)

	text := "Product Name: Trail Shell\nStyle No: TR-100\nColour: Olive\n"
	res, err := c.GetProcessor().ProcessText(context.Background(), text, "trail.pdf", nil, 2)
	require.NoError(t, err)

	assert.Equal(t, "TR-100", res.Record.StyleID)
	assert.Equal(t, "Jacket", res.Record.ArticleType, "keyword misses, AI answers")
	assert.Equal(t, "Studio A", res.Record.Designer)
	assert.Equal(t, 2, res.Record.TotalPages)
	assert.Len(t, ai.Prompts, 1)
}

func TestContainer_RepositoryIsLazy(t *testing.T) {
	cfg := testConfig(t)

	c, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	assert.NoFileExists(t, cfg.Store.DBPath)

	repo, err := c.GetRepository()
	require.NoError(t, err)
	again, err := c.GetRepository()
	require.NoError(t, err)
	assert.Same(t, repo, again)
	assert.FileExists(t, cfg.Store.DBPath)

	saved, err := repo.Save(context.Background(), models.TechPack{StyleID: "S-1", Name: "Tee"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	require.NoError(t, c.Close())
}

func TestContainer_RepositoryOpenError(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.DBPath = filepath.Join(t.TempDir(), "missing", "dir", "techpacks.db")

	c, err := NewContainer(cfg, WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)

	_, err = c.GetRepository()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open record store")
}
