// Package fieldextract pulls structured attributes out of the linearized text
// of a tech-pack PDF.
//
// Every known field has an ordered chain of heuristics; the first one that
// yields an acceptable value wins. Field names without a chain fall back to a
// labeled-value search over the caller's candidate labels. Extraction is pure:
// it never mutates its input, never returns an error and never panics.
package fieldextract

import (
	"fjacquet/techpack-csv/internal/models"
)

// Auxiliary carries context that is not part of the document text.
type Auxiliary struct {
	// Filename of the uploaded document, used as a styleId fallback.
	Filename string
	// Known holds fields already extracted from the same document. The
	// description chain synthesizes a summary from them.
	Known models.Fields
}

// Request is the input of a single extraction.
type Request struct {
	Text   string
	Field  models.FieldName
	Labels []string
	Aux    Auxiliary
}

// Result is the outcome of a chain run. Strategy is empty when nothing matched.
type Result struct {
	Field    models.FieldName
	Strategy string
	Value    string
}

// Extract returns the value of field in text, or "" when nothing is found.
// printTechnique and description have non-empty terminal values (see
// models.NotSpecified and models.NoDescription) unless text is empty.
func Extract(text string, field models.FieldName, labels []string, aux Auxiliary) string {
	res, _ := Explain(Request{Text: text, Field: field, Labels: labels, Aux: aux})
	return res.Value
}

// Explain runs the chain for req.Field and returns the result together with
// the trace of every strategy tried.
func Explain(req Request) (Result, Attempts) {
	if req.Text == "" {
		return Result{Field: req.Field}, nil
	}
	return run(Chain(req.Field), req)
}

// Chain returns the ordered strategies used for field.
func Chain(field models.FieldName) []Strategy {
	if c, ok := chains[field]; ok {
		return c
	}
	return genericChain
}

// Strategies lists the strategy names used for field, in evaluation order.
func Strategies(field models.FieldName) []string {
	chain := Chain(field)
	names := make([]string, len(chain))
	for i, s := range chain {
		names[i] = s.Name()
	}
	return names
}

var chains = map[models.FieldName][]Strategy{
	models.FieldStyleID:          styleIDChain,
	models.FieldPrintTechnique:   printChain,
	models.FieldColour:           colourChain,
	models.FieldFit:              fitChain,
	models.FieldFabric:           fabricChain,
	models.FieldBrand:            brandChain,
	models.FieldProductName:      productNameChain,
	models.FieldDescription:      descriptionChain,
	models.FieldCareInstructions: careChain,
}
