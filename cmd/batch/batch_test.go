package batch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/techpack-csv/cmd/batch"
	"fjacquet/techpack-csv/internal/common"
	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/repository"

	internalbatch "fjacquet/techpack-csv/internal/batch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRunner struct {
	report internalbatch.Report
	err    error
}

func (s stubRunner) RunDir(context.Context, string) (internalbatch.Report, error) {
	return s.report, s.err
}

func TestBatchCommand_CommandMetadata(t *testing.T) {
	assert.Equal(t, "batch", batch.Cmd.Use)
	assert.Contains(t, batch.Cmd.Short, "Batch process")
	assert.NotNil(t, batch.Cmd.RunE)
	assert.NotNil(t, batch.Cmd.Flags().Lookup("save"))
}

func TestBatchCommand_LongDescription(t *testing.T) {
	assert.Contains(t, batch.Cmd.Long, "input directory")
	assert.Contains(t, batch.Cmd.Long, "sidecar")
	assert.Contains(t, batch.Cmd.Long, "Example")
}

func TestResolveOutput(t *testing.T) {
	tests := []struct {
		name, input, output, want string
	}{
		{"default next to input", "packs", "", filepath.Join("packs", "packs_techpacks.csv")},
		{"explicit csv file", "packs", "out/all.csv", "out/all.csv"},
		{"upper-case extension", "packs", "out/ALL.CSV", "out/ALL.CSV"},
		{"output directory", "packs", "exports", filepath.Join("exports", "packs_techpacks.csv")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, batch.ResolveOutput(tt.input, tt.output))
		})
	}
}

func TestRun_WritesSuccessfulRecordsAndReportsFailures(t *testing.T) {
	dir := t.TempDir()
	runner := stubRunner{report: internalbatch.Report{Items: []internalbatch.Item{
		{File: "a.pdf", Record: models.TechPack{ID: "1", StyleID: "A-1", Name: "Alpha", Status: models.StatusDraft, FileName: "a.pdf"}},
		{File: "b.pdf", Err: errors.New("corrupt")},
		{File: "c.pdf", Record: models.TechPack{ID: "3", StyleID: "C-3", Name: "Gamma", Status: models.StatusDraft, FileName: "c.pdf"},
			TextError: errors.New("no text")},
	}}}
	logger := logging.NewMockLogger()
	out := filepath.Join(dir, "all.csv")

	path, err := batch.Run(context.Background(), runner, nil, dir, out, true, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 file(s) failed")
	assert.Contains(t, err.Error(), "corrupt")
	assert.Equal(t, out, path)
	assert.True(t, logger.HasEntry("WARN", "Record built without document text"))

	records, err := common.ReadTechPacks(out)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "A-1", records[0].StyleID)
	assert.Equal(t, "C-3", records[1].StyleID)
}

func TestRun_SavesRecords(t *testing.T) {
	dir := t.TempDir()
	repo, err := repository.Open(":memory:", logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = repo.Close() }()

	runner := stubRunner{report: internalbatch.Report{Items: []internalbatch.Item{
		{File: "a.pdf", Record: models.TechPack{ID: "1", StyleID: "A-1", Name: "Alpha", Status: models.StatusDraft}},
	}}}

	path, err := batch.Run(context.Background(), runner, repo, dir, "", true, logging.NewMockLogger())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, internalbatch.OutputFilename(dir)), path)

	_, err = os.Stat(path)
	require.NoError(t, err)
	stored, err := repo.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", stored.Name)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0600))

	_, err := batch.Run(context.Background(), stubRunner{}, nil, filepath.Join(dir, "missing"), "", true, logging.NewMockLogger())
	assert.Error(t, err)

	_, err = batch.Run(context.Background(), stubRunner{}, nil, file, "", true, logging.NewMockLogger())
	assert.Error(t, err, "a file is not a directory")

	_, err = batch.Run(context.Background(), stubRunner{err: context.Canceled}, nil, dir, "", true, logging.NewMockLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
