// Package extractor exposes the tech-pack field extractor to library users.
//
// It works on linearized document text (lines top to bottom, runs left to
// right). Values that are not found come back as "", except printTechnique
// and description which have placeholder values once any text is given.
package extractor

import (
	"fjacquet/techpack-csv/internal/fieldextract"
	"fjacquet/techpack-csv/internal/models"
)

// Extract returns the value of field in text. Labels are the candidate labels
// to search for; nil selects the built-in labels for field. filename is the
// document name and is only used as a styleId fallback.
func Extract(text, field string, labels []string, filename string) string {
	value, _ := ExtractWithStrategy(text, field, labels, filename)
	return value
}

// ExtractWithStrategy is Extract that also reports which strategy produced
// the value ("" when none did).
func ExtractWithStrategy(text, field string, labels []string, filename string) (value, strategy string) {
	f := models.ParseFieldName(field)
	if labels == nil {
		labels = fieldextract.DefaultLabels(f)
	}
	res, _ := fieldextract.Explain(fieldextract.Request{
		Text:   text,
		Field:  f,
		Labels: labels,
		Aux:    fieldextract.Auxiliary{Filename: filename},
	})
	return res.Value, res.Strategy
}

// Fields lists the field names with a dedicated extraction chain.
func Fields() []string {
	out := make([]string, len(models.ExtractedFields))
	for i, f := range models.ExtractedFields {
		out[i] = string(f)
	}
	return out
}

// DefaultLabels returns the built-in candidate labels for field.
func DefaultLabels(field string) []string {
	return fieldextract.DefaultLabels(models.ParseFieldName(field))
}
