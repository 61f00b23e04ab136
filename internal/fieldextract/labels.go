package fieldextract

import "fjacquet/techpack-csv/internal/models"

// defaultLabels are the candidate labels used when the caller has no catalog.
var defaultLabels = map[models.FieldName][]string{
	models.FieldStyleID:        {"style", "style no", "style number", "article no"},
	models.FieldProductName:    {"product name", "style name", "item name", "description"},
	models.FieldColour:         {"colour", "color", "shade", "pantone", "pms", "c: ", "c:", "shade no", "shade no:", "shade number", "colour code", "color code", "colourway"},
	models.FieldFit:            {"fit", "fit type", "sizing", "fabric", "material"},
	models.FieldPrintTechnique: {"print technique", "print", "printing method"},
	models.FieldFabric:         {"fabric", "material", "composition", "gsm"},
	models.FieldBrand:          {"brand", "brand name", "label"},
	models.FieldCollection:     {"collection", "season"},
}

// DefaultLabels returns a copy of the built-in candidate labels for field.
func DefaultLabels(field models.FieldName) []string {
	return append([]string(nil), defaultLabels[field]...)
}

// DefaultLabelSet returns a copy of every built-in label list.
func DefaultLabelSet() map[models.FieldName][]string {
	out := make(map[models.FieldName][]string, len(defaultLabels))
	for f, l := range defaultLabels {
		out[f] = append([]string(nil), l...)
	}
	return out
}
