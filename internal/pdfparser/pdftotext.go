package pdfparser

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"fjacquet/techpack-csv/internal/parsererror"
)

// pdftotextCommand builds the pdftotext invocation. Tests replace it.
var pdftotextCommand = func(ctx context.Context, pdfPath string) *exec.Cmd {
	return exec.CommandContext(ctx, "pdftotext", "-layout", "-enc", "UTF-8", pdfPath, "-") // #nosec G204 -- fixed binary, path is an argument
}

// PdftotextExtractor shells out to poppler's pdftotext in layout mode.
type PdftotextExtractor struct{}

// NewPdftotextExtractor creates a PdftotextExtractor.
func NewPdftotextExtractor() *PdftotextExtractor {
	return &PdftotextExtractor{}
}

// ExtractText implements PDFExtractor. Form feeds between pages become
// newlines and trailing blanks are trimmed from every line.
func (e *PdftotextExtractor) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := pdftotextCommand(ctx, pdfPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", &parsererror.ParseError{Engine: EnginePdftotext, FilePath: pdfPath, Err: err}
	}
	return tidyLayoutText(stdout.String()), nil
}

func tidyLayoutText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\f", "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
