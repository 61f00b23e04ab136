package pdfparser

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"fjacquet/techpack-csv/internal/parsererror"

	"github.com/ledongthuc/pdf"
)

// LayoutOptions controls how positioned glyph runs are joined into lines.
type LayoutOptions struct {
	// LineTolerance is the largest baseline difference, in points, for two
	// runs to share a line.
	LineTolerance float64
	// SpaceGap is the smallest horizontal gap, in points, that becomes a space.
	SpaceGap float64
}

// DefaultLayoutOptions returns the tolerances used for tech-pack templates.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{LineTolerance: 5, SpaceGap: 1.5}
}

func (o LayoutOptions) withDefaults() LayoutOptions {
	d := DefaultLayoutOptions()
	if o.LineTolerance <= 0 {
		o.LineTolerance = d.LineTolerance
	}
	if o.SpaceGap <= 0 {
		o.SpaceGap = d.SpaceGap
	}
	return o
}

// NativeExtractor reads PDFs in-process with github.com/ledongthuc/pdf and
// rebuilds reading order from glyph positions.
type NativeExtractor struct {
	opts LayoutOptions
}

// NewNativeExtractor creates a NativeExtractor.
func NewNativeExtractor(opts LayoutOptions) *NativeExtractor {
	return &NativeExtractor{opts: opts.withDefaults()}
}

// ExtractText implements PDFExtractor. Pages that cannot be decoded are
// skipped; an error is returned only when the document cannot be opened.
func (e *NativeExtractor) ExtractText(ctx context.Context, pdfPath string) (text string, err error) {
	f, reader, err := pdf.Open(pdfPath) // #nosec G304 -- path chosen by the operator or a temp upload
	if err != nil {
		return "", &parsererror.ParseError{Engine: EngineNative, FilePath: pdfPath, Err: err}
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			text, err = "", &parsererror.ParseError{Engine: EngineNative, FilePath: pdfPath, Err: fmt.Errorf("decoder panic: %v", r)}
		}
	}()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if t := e.pageText(reader, i); t != "" {
			pages = append(pages, t)
		}
	}
	return strings.Join(pages, "\n"), nil
}

func (e *NativeExtractor) pageText(reader *pdf.Reader, n int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	page := reader.Page(n)
	if page.V.IsNull() {
		return ""
	}
	return Linearize(page.Content().Text, e.opts)
}

// Linearize orders positioned text runs top-to-bottom, groups runs whose
// baselines are within LineTolerance into one line, orders each line
// left-to-right and inserts a space where the horizontal gap exceeds SpaceGap.
func Linearize(items []pdf.Text, opts LayoutOptions) string {
	opts = opts.withDefaults()
	if len(items) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(items))
	copy(sorted, items)
	// PDF user space grows upwards: higher Y is nearer the top of the page.
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y-sorted[j].Y) > opts.LineTolerance {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines [][]pdf.Text
	var current []pdf.Text
	lineY := math.Inf(1)
	for _, it := range sorted {
		if len(current) > 0 && math.Abs(it.Y-lineY) <= opts.LineTolerance {
			current = append(current, it)
			continue
		}
		if len(current) > 0 {
			lines = append(lines, current)
		}
		current = []pdf.Text{it}
		lineY = it.Y
	}
	lines = append(lines, current)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })
		var b strings.Builder
		for i, it := range line {
			if i > 0 {
				prev := line[i-1]
				gap := it.X - (prev.X + prev.W)
				if gap > opts.SpaceGap && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(it.S, " ") {
					b.WriteByte(' ')
				}
			}
			b.WriteString(it.S)
		}
		if s := strings.TrimRight(b.String(), " \t"); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}

// errNotPDF is wrapped into InvalidFormatError by ValidateHeader.
var errNotPDF = errors.New("missing %PDF header")

// ValidateHeader checks the %PDF magic bytes of path.
func ValidateHeader(path string) error {
	f, err := os.Open(path) // #nosec G304 -- see NativeExtractor.ExtractText
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 8)
	n, _ := f.Read(head)
	return validateMagic(path, head[:n])
}

func validateMagic(path string, head []byte) error {
	if strings.HasPrefix(string(head), "%PDF-") {
		return nil
	}
	return &parsererror.InvalidFormatError{
		FilePath:             path,
		ExpectedFormat:       "PDF",
		ActualContentSnippet: strings.ToValidUTF8(string(head), "?"),
		Msg:                  errNotPDF.Error(),
	}
}
