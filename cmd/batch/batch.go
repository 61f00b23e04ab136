// Package batch handles batch processing of files
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/techpack-csv/cmd/root"
	"fjacquet/techpack-csv/internal/batch"
	"fjacquet/techpack-csv/internal/common"
	"fjacquet/techpack-csv/internal/fileutils"
	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/repository"

	"github.com/spf13/cobra"
)

// DirRunner processes every PDF of a directory.
type DirRunner interface {
	RunDir(ctx context.Context, dir string) (batch.Report, error)
}

var save bool

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process tech-pack PDFs from a directory",
	Long: `Batch process every PDF of an input directory into one consolidated CSV file.

Each PDF may have a metadata sidecar next to it (<name>.json, <name>.yaml or
<name>.yml). Files are processed concurrently; a file that fails is reported
and the others are still written.

The output is <input_dir>_techpacks.csv inside the input directory, inside the
directory given with -o, or exactly the file given with -o when it ends in .csv.

Example:
  techpack-csv batch -i packs/ -o exports/ --save`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().BoolVar(&save, "save", false, "Persist the records in the record store")

	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i is a directory and -o a directory or .csv file):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

func batchFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return errors.New("container not initialized")
	}

	inputDir := root.SharedFlags.Input
	if inputDir == "" {
		return errors.New("input directory must be specified")
	}

	var repo repository.Repository
	if save {
		var err error
		if repo, err = appContainer.GetRepository(); err != nil {
			return err
		}
	}

	_, err := Run(cmd.Context(), appContainer.GetBatchRunner(), repo, inputDir, root.SharedFlags.Output,
		appContainer.GetConfig().CSV.IncludeHeaders, appContainer.GetLogger())
	return err
}

// ResolveOutput returns the CSV path for a batch over inputDir.
func ResolveOutput(inputDir, output string) string {
	switch {
	case output == "":
		return filepath.Join(inputDir, batch.OutputFilename(inputDir))
	case strings.EqualFold(filepath.Ext(output), ".csv"):
		return output
	default:
		return filepath.Join(output, batch.OutputFilename(inputDir))
	}
}

// Run processes inputDir and writes the consolidated CSV. It returns the
// written path. Per-file failures are returned as an error after the CSV of
// the successful records has been written.
func Run(ctx context.Context, runner DirRunner, repo repository.Repository, inputDir, output string, includeHeaders bool, logger logging.Logger) (string, error) {
	if !fileutils.DirectoryExists(inputDir) {
		return "", fmt.Errorf("input directory %s is not a readable directory", inputDir)
	}

	report, err := runner.RunDir(ctx, inputDir)
	if err != nil {
		return "", fmt.Errorf("error during batch processing: %w", err)
	}

	records := report.Records()
	if repo != nil {
		for i, tp := range records {
			saved, err := repo.Save(ctx, tp)
			if err != nil {
				return "", fmt.Errorf("saving %s: %w", tp.FileName, err)
			}
			records[i] = saved
		}
		logger.Info("Saved tech packs", logging.Field{Key: logging.FieldCount, Value: len(records)})
	}

	outPath := ResolveOutput(inputDir, output)
	if err := common.WriteTechPacksToCSV(records, outPath, includeHeaders); err != nil {
		return "", err
	}

	for _, it := range report.Items {
		if it.TextError != nil {
			logger.WithError(it.TextError).Warn("Record built without document text",
				logging.Field{Key: logging.FieldFile, Value: it.File})
		}
	}
	logger.Info(fmt.Sprintf("Batch processing completed. %d of %d files written to %s.",
		len(records), len(report.Items), outPath),
		logging.Field{Key: logging.FieldDuration, Value: report.Duration.Milliseconds()})

	if err := report.Err(); err != nil {
		return outPath, fmt.Errorf("%d file(s) failed: %w", len(report.Failed()), err)
	}
	return outPath, nil
}
