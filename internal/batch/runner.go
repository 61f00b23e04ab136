// Package batch processes a directory of tech-pack PDFs with bounded
// concurrency and collects the records in directory order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"fjacquet/techpack-csv/internal/fileutils"
	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/techpack"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when the configured worker count is not positive.
const DefaultWorkers = 4

// FileProcessor turns one PDF into a record.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path, filename string, md models.Metadata) (techpack.Result, error)
}

// Item is the outcome for one file.
type Item struct {
	File   string
	Record models.TechPack
	// TextError is set when the record was built without the document text.
	TextError error
	Err       error
}

// Report holds the items in input order.
type Report struct {
	Items    []Item
	Duration time.Duration
}

// Records returns the successfully built records in input order.
func (r Report) Records() []models.TechPack {
	out := make([]models.TechPack, 0, len(r.Items))
	for _, it := range r.Items {
		if it.Err == nil {
			out = append(out, it.Record)
		}
	}
	return out
}

// Failed returns the items that produced no record.
func (r Report) Failed() []Item {
	var out []Item
	for _, it := range r.Items {
		if it.Err != nil {
			out = append(out, it)
		}
	}
	return out
}

// Err joins the per-file errors, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, it := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(it.File), it.Err))
	}
	return errors.Join(errs...)
}

// Runner processes files with at most Workers documents in flight.
type Runner struct {
	processor FileProcessor
	workers   int
	logger    logging.Logger
}

// NewRunner creates a Runner.
func NewRunner(processor FileProcessor, workers int, logger logging.Logger) *Runner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Runner{processor: processor, workers: workers, logger: logger}
}

// FindPDFs returns the *.pdf files directly inside dir, sorted by name.
func FindPDFs(dir string) ([]string, error) {
	return fileutils.ListFilesWithExtension(dir, ".pdf")
}

// SidecarMetadata loads "<name>.json", "<name>.yaml" or "<name>.yml" next to
// pdfPath, in that order. It returns an empty map when none exists.
func SidecarMetadata(pdfPath string) (models.Metadata, error) {
	base := strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath))
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		candidate := base + ext
		if fileutils.FileExists(candidate) {
			return techpack.LoadMetadata(candidate)
		}
	}
	return models.Metadata{}, nil
}

// RunDir processes every PDF in dir.
func (r *Runner) RunDir(ctx context.Context, dir string) (Report, error) {
	files, err := FindPDFs(dir)
	if err != nil {
		return Report{}, err
	}
	return r.Run(ctx, files)
}

// Run processes files concurrently. Per-file failures are recorded in the
// report; the returned error is non-nil only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, files []string) (Report, error) {
	start := time.Now()
	items := make([]Item, len(files))
	var failed atomic.Int32

	r.logger.Info("Starting batch",
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: "workers", Value: r.workers})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			items[i] = r.processOne(gctx, file)
			if items[i].Err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()

	report := Report{Items: items, Duration: time.Since(start)}
	if err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	r.logDuplicateStyleIDs(report.Records())
	r.logger.Info("Batch finished",
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: "failed", Value: int(failed.Load())},
		logging.Field{Key: logging.FieldDuration, Value: report.Duration.Milliseconds()})
	return report, nil
}

func (r *Runner) processOne(ctx context.Context, file string) Item {
	item := Item{File: file}
	md, err := SidecarMetadata(file)
	if err != nil {
		item.Err = err
		r.logger.WithError(err).WithField(logging.FieldFile, file).Error("Failed to load metadata")
		return item
	}

	res, err := r.processor.ProcessFile(ctx, file, filepath.Base(file), md)
	if err != nil {
		item.Err = err
		r.logger.WithError(err).WithField(logging.FieldFile, file).Error("Failed to process file")
		return item
	}
	item.Record, item.TextError = res.Record, res.TextError
	return item
}

// logDuplicateStyleIDs warns about records sharing a style id. All records are kept.
func (r *Runner) logDuplicateStyleIDs(records []models.TechPack) {
	seen := make(map[string]string, len(records))
	for _, tp := range records {
		if first, ok := seen[tp.StyleID]; ok {
			r.logger.Warn("Duplicate style id in batch",
				logging.Field{Key: logging.FieldStyleID, Value: tp.StyleID},
				logging.Field{Key: "first_file", Value: first},
				logging.Field{Key: logging.FieldFile, Value: tp.FileName})
			continue
		}
		seen[tp.StyleID] = tp.FileName
	}
}

// OutputFilename returns the consolidated CSV name for a batch over dir.
func OutputFilename(dir string) string {
	name := filepath.Base(filepath.Clean(dir))
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "batch"
	}
	return name + "_techpacks.csv"
}
