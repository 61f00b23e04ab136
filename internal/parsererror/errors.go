// Package parsererror defines the typed errors shared by the PDF, classification
// and persistence layers.
package parsererror

import "fmt"

// ParseError reports that a text extraction engine could not read a document.
type ParseError struct {
	Engine   string
	FilePath string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to extract text from '%s': %v", e.Engine, e.FilePath, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports caller-supplied input that cannot be used as is
// (metadata, configuration values, upload parameters).
type ValidationError struct {
	Subject string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Subject, e.Reason)
}

// ClassificationError reports a failing article-type strategy.
type ClassificationError struct {
	Input    string
	Strategy string
	Err      error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed for %q using %s: %v", e.Input, e.Strategy, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// InvalidFormatError reports a file that is not the document type we expect.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// DataExtractionError reports that a record field could not be produced from
// an otherwise readable document.
type DataExtractionError struct {
	FilePath  string
	FieldName string
	Reason    string
}

func (e *DataExtractionError) Error() string {
	return fmt.Sprintf("data extraction failed in file '%s' for field '%s': %s",
		e.FilePath, e.FieldName, e.Reason)
}
