// Package techpack turns tech-pack PDFs and caller metadata into TechPack
// records: it extracts and normalizes fields, classifies the article type,
// merges the result into the metadata and applies the record defaults.
package techpack

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/techpack-csv/internal/articletype"
	"fjacquet/techpack-csv/internal/fieldextract"
	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/parsererror"
	"fjacquet/techpack-csv/internal/pdfparser"

	"github.com/shopspring/decimal"
)

// ArticleClassifier decides the article type of a document.
type ArticleClassifier interface {
	Classify(ctx context.Context, in articletype.Input) (string, articletype.StrategyResults)
}

// LabelSource provides candidate labels per field.
type LabelSource interface {
	LoadLabels() (map[models.FieldName][]string, error)
}

// Options holds the record defaults the processor applies.
type Options struct {
	Designer string
	Status   string
	Clock    func() time.Time
}

// Processor builds TechPack records. It is safe for concurrent use.
type Processor struct {
	extractor  pdfparser.PDFExtractor
	classifier ArticleClassifier
	labels     map[models.FieldName][]string
	opts       Options
	logger     logging.Logger
}

// NewProcessor creates a Processor. classifier and labels may be nil: the
// article type is then left to the record default and the built-in labels
// are used.
func NewProcessor(extractor pdfparser.PDFExtractor, classifier ArticleClassifier, labels LabelSource, opts Options, logger logging.Logger) *Processor {
	if logger == nil {
		logger = logging.GetLogger()
	}
	p := &Processor{
		extractor:  extractor,
		classifier: classifier,
		labels:     map[models.FieldName][]string{},
		opts:       opts,
		logger:     logger,
	}
	if labels != nil {
		loaded, err := labels.LoadLabels()
		if err != nil {
			logger.WithError(err).Warn("Failed to load label catalog, using built-in labels")
		} else {
			p.labels = loaded
		}
	}
	return p
}

// Labels returns the candidate labels for field: the catalog entry when
// present, the built-in list otherwise.
func (p *Processor) Labels(field models.FieldName) []string {
	if l := p.labels[field]; len(l) > 0 {
		return append([]string(nil), l...)
	}
	return fieldextract.DefaultLabels(field)
}

// Analysis is what the processor learned from a document's text.
type Analysis struct {
	Fields       models.Fields
	Strategies   map[models.FieldName]string
	ArticleType  string
	ArticleTrace string
	FabricWeight decimal.Decimal
}

// Result is a processed document.
type Result struct {
	Record   models.TechPack
	Metadata models.Metadata
	Analysis *Analysis
	// TextError is set when text extraction failed and the record was built
	// from metadata and defaults alone.
	TextError error
}

// Analyze extracts every field from text, normalizes the values and, when md
// carries no article type, classifies one. The description is extracted last
// so it can be synthesized from the other fields.
func (p *Processor) Analyze(ctx context.Context, text, filename string, md models.Metadata) Analysis {
	a := Analysis{
		Fields:       models.Fields{},
		Strategies:   map[models.FieldName]string{},
		FabricWeight: decimal.Zero,
	}

	for _, f := range models.ExtractedFields {
		if f == models.FieldDescription {
			continue
		}
		a.explain(fieldextract.Request{Text: text, Field: f, Labels: p.Labels(f), Aux: fieldextract.Auxiliary{Filename: filename}})
	}
	Normalize(a.Fields, text, filename)

	a.ArticleType = articleTypeOf(md)
	if a.ArticleType == "" && p.classifier != nil {
		productName := md.Get(models.FieldProductName)
		if productName == "" {
			productName = a.Fields[models.FieldProductName]
		}
		var results articletype.StrategyResults
		a.ArticleType, results = p.classifier.Classify(ctx, articletype.Input{
			ProductName: productName,
			Description: md.Get(models.FieldDescription),
			Filename:    filename,
			Text:        text,
		})
		a.ArticleTrace = results.Summary()
	}

	known := models.Fields{}
	for k, v := range a.Fields {
		known[k] = v
	}
	if a.ArticleType != "" {
		known[models.FieldArticleType] = a.ArticleType
	}
	a.explain(fieldextract.Request{
		Text:   text,
		Field:  models.FieldDescription,
		Labels: p.Labels(models.FieldDescription),
		Aux:    fieldextract.Auxiliary{Filename: filename, Known: known},
	})

	if w, ok := FabricWeight(text); ok {
		a.FabricWeight = w
	}

	p.logger.WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: filename},
		logging.Field{Key: logging.FieldCount, Value: countNonEmpty(a.Fields)},
		logging.Field{Key: logging.FieldArticle, Value: a.ArticleType},
	).Debug("Analyzed tech pack text")
	return a
}

func (a *Analysis) explain(req fieldextract.Request) {
	res, _ := fieldextract.Explain(req)
	a.Fields[req.Field] = res.Value
	a.Strategies[req.Field] = res.Strategy
}

// ProcessText builds a record from already extracted text. pages is the
// document page count, 0 when unknown.
func (p *Processor) ProcessText(ctx context.Context, text, filename string, md models.Metadata, pages int) (Result, error) {
	a := p.Analyze(ctx, text, filename, md)
	return p.finish(md, &a, filename, pages, nil)
}

// ProcessFile validates the PDF at path, extracts its text and builds a
// record. filename is the name reported to users; the base of path is used
// when it is empty. A file that is not a PDF is an error. A PDF whose text
// cannot be extracted still yields a record built from md and the defaults.
func (p *Processor) ProcessFile(ctx context.Context, path, filename string, md models.Metadata) (Result, error) {
	if filename == "" {
		filename = filepath.Base(path)
	}
	logger := p.logger.WithField(logging.FieldFile, path)
	start := time.Now()

	if err := pdfparser.ValidateHeader(path); err != nil {
		return Result{}, err
	}

	pages := 0
	if info, err := pdfparser.Inspect(path); err != nil {
		logger.WithError(err).Warn("Could not read PDF structure, page count unknown")
	} else {
		pages = info.Pages
	}

	text, err := p.extractor.ExtractText(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		logger.WithError(err).Warn("Failed to extract text from PDF, continuing with metadata only")
		return p.finish(md, nil, filename, pages, err)
	}

	res, err := p.ProcessText(ctx, text, filename, md, pages)
	if err == nil {
		logger.WithFields(
			logging.Field{Key: logging.FieldStyleID, Value: res.Record.StyleID},
			logging.Field{Key: logging.FieldPages, Value: pages},
			logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
		).Info("Processed tech pack")
	}
	return res, err
}

func (p *Processor) finish(md models.Metadata, a *Analysis, filename string, pages int, textErr error) (Result, error) {
	if md == nil {
		md = models.Metadata{}
	}
	merged := md.Clone()
	b := models.NewTechPackBuilder()

	if a != nil {
		merged = MergeMetadata(md, a.Fields)
		if a.ArticleType != "" && articleTypeOf(merged) == "" {
			merged[string(models.FieldArticleType)] = a.ArticleType
		}
		b.WithExtractedText(a.Fields.Summary()).WithFabricWeight(a.FabricWeight)
	}

	tp, err := b.WithMetadata(merged).
		WithFileName(filename).
		WithPageCount(pages).
		WithDesigner(p.opts.Designer).
		WithStatus(p.opts.Status).
		WithClock(p.opts.Clock).
		Build()
	if err != nil {
		return Result{}, &parsererror.ValidationError{Subject: "metadata for " + filename, Reason: err.Error()}
	}
	return Result{Record: tp, Metadata: merged, Analysis: a, TextError: textErr}, nil
}

func articleTypeOf(md models.Metadata) string {
	for _, k := range []string{string(models.FieldArticleType), "articletype"} {
		if v := strings.TrimSpace(md[k]); v != "" && v != models.LegacyNotSpecified {
			return v
		}
	}
	return ""
}

func countNonEmpty(fs models.Fields) int {
	n := 0
	for _, v := range fs {
		if v != "" {
			n++
		}
	}
	return n
}
