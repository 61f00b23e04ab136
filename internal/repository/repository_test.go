package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := Open(":memory:", logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sample(styleID string, created time.Time) models.TechPack {
	return models.TechPack{
		StyleID:         styleID,
		Name:            "Boxy Hoodie",
		ArticleType:     "Hoodie",
		Colour:          "Navy",
		FabricWeightGSM: decimal.RequireFromString("320.5"),
		Status:          models.StatusDraft,
		TotalPages:      3,
		FileName:        "hoodie.pdf",
		ExtractedText:   "StyleId: " + styleID,
		CreatedAt:       created,
	}
}

func TestSaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 14, 9, 30, 0, 123, time.UTC)

	saved, err := repo.Save(ctx, sample("NK-1", created))
	require.NoError(t, err)
	assert.Len(t, saved.ID, 36)

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "NK-1", got.StyleID)
	assert.Equal(t, "Navy", got.Colour)
	assert.Equal(t, 3, got.TotalPages)
	assert.True(t, decimal.RequireFromString("320.5").Equal(got.FabricWeightGSM))
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, "StyleId: NK-1", got.ExtractedText)
}

func TestSave_Upsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, sample("NK-1", time.Now()))
	require.NoError(t, err)

	saved.Status = models.StatusApproved
	_, err = repo.Save(ctx, saved)
	require.NoError(t, err)

	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)

	all, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSave_Validation(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Save(context.Background(), models.TechPack{Name: "x"})
	assert.Error(t, err)
}

func TestGet_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByStyleID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByStyleID_Newest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.Save(ctx, sample("NK-1", base))
	require.NoError(t, err)
	newer := sample("NK-1", base.Add(time.Hour))
	newer.Colour = "Black"
	_, err = repo.Save(ctx, newer)
	require.NoError(t, err)

	got, err := repo.FindByStyleID(ctx, "NK-1")
	require.NoError(t, err)
	assert.Equal(t, "Black", got.Colour)
}

func TestList_Pagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := repo.Save(ctx, sample(fmt.Sprintf("NK-%d", i), base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		limit    int
		offset   int
		expected []string
	}{
		{"first page", 2, 0, []string{"NK-4", "NK-3"}},
		{"second page", 2, 2, []string{"NK-2", "NK-1"}},
		{"past the end", 2, 10, []string{}},
		{"zero limit means max", 0, 0, []string{"NK-4", "NK-3", "NK-2", "NK-1", "NK-0"}},
		{"negative offset", 1, -3, []string{"NK-4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := repo.List(ctx, tt.limit, tt.offset)
			require.NoError(t, err)
			ids := []string{}
			for _, tp := range list {
				ids = append(ids, tp.StyleID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestOpen_FileReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "techpacks.db")
	ctx := context.Background()

	repo, err := Open(path, logging.NewMockLogger())
	require.NoError(t, err)
	saved, err := repo.Save(ctx, sample("NK-9", time.Now()))
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	repo, err = Open(path, logging.NewMockLogger())
	require.NoError(t, err)
	defer repo.Close()
	got, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "NK-9", got.StyleID)
}
