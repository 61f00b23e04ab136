// Package pdfparser turns tech-pack PDFs into the linearized text consumed by
// the field extractor, and inspects them for page count and structural validity.
package pdfparser

import (
	"context"
	"fmt"
	"strings"
)

// Supported text extraction engines.
const (
	EngineNative    = "native"
	EnginePdftotext = "pdftotext"
)

// PDFExtractor extracts the text of a PDF, top-to-bottom and left-to-right,
// with lines separated by "\n".
type PDFExtractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// Options configures the extractors built by NewExtractor.
type Options struct {
	Engine string
	Layout LayoutOptions
}

// NewExtractor returns the extractor for opts.Engine. An empty engine selects
// the native extractor.
func NewExtractor(opts Options) (PDFExtractor, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Engine)) {
	case "", EngineNative:
		return NewNativeExtractor(opts.Layout), nil
	case EnginePdftotext:
		return NewPdftotextExtractor(), nil
	default:
		return nil, fmt.Errorf("unknown PDF engine %q (want %s or %s)", opts.Engine, EngineNative, EnginePdftotext)
	}
}

// MockPDFExtractor returns predefined text or an error. It records the paths
// it was asked to read.
type MockPDFExtractor struct {
	MockText string
	MockErr  error
	Calls    []string
}

// NewMockPDFExtractor creates a MockPDFExtractor.
func NewMockPDFExtractor(mockText string, mockErr error) *MockPDFExtractor {
	return &MockPDFExtractor{MockText: mockText, MockErr: mockErr}
}

// ExtractText returns the predefined text or error.
func (e *MockPDFExtractor) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	e.Calls = append(e.Calls, pdfPath)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}
