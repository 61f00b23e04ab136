package techpack

import (
	"strings"
	"testing"

	"fjacquet/techpack-csv/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeFit(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Relaxed Fabric: cotton", "Relaxed"},
		{"Oversized 70 cm", "Oversized"},
		{"Slim | Size M", "Slim"},
		{"Regular   extra notes", "Regular"},
		{"- Boxy", "Boxy"},
		{"Material: Relaxed", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeFit(tt.input))
		})
	}
}

func TestNormalizeColour(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		text     string
		expected string
	}{
		{"pantone reference", "Pantone: 19-4052 TCX", "", "PANTONE 19-4052"},
		{"pms reference", "pms 286c", "", "PANTONE 286C"},
		{"first of several", "[Red] and Blue", "", "Red"},
		{"comma list", "Black, White", "", "Black"},
		{"label words", "Colour code: Navy", "", "Navy"},
		{"label word inside a name", "Northern Lights", "", "Northern Lights"},
		{"artwork garbage rescued from text", "ar twork layer", "Shade: Forest Green\nFit: Slim", "Forest Green"},
		{"too short", "#", "", models.NotSpecified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeColour(tt.input, tt.text))
		})
	}
}

func TestNormalizeFabricAndBrand(t *testing.T) {
	assert.Equal(t, "100% cotton", NormalizeFabric("Fabric: 100% cotton 180 gsm"))
	assert.Equal(t, "Northwind", NormalizeBrand("Northwind by Studio K"))
	assert.Equal(t, "Acme", NormalizeBrand("Brand: Acme, Inc"))
}

func TestNormalize(t *testing.T) {
	long := "Screen print on chest and back " + strings.Repeat("x", 100)
	fields := models.Fields{
		models.FieldFit:            "Relaxed Fabric: cotton",
		models.FieldPrintTechnique: long,
		models.FieldColour:         "",
	}
	Normalize(fields, "", "NK-001_final.pdf")

	assert.Equal(t, "Relaxed", fields[models.FieldFit])
	assert.Equal(t, "Screen print on chest", fields[models.FieldPrintTechnique])
	assert.Equal(t, "", fields[models.FieldColour])
	assert.Equal(t, "NK-001_final", fields[models.FieldStyleID])
}

func TestNormalize_KeepsShortPrintAndExistingStyle(t *testing.T) {
	fields := models.Fields{
		models.FieldPrintTechnique: "Screen and Foil",
		models.FieldStyleID:        "NK-1",
	}
	Normalize(fields, "", "other.pdf")
	assert.Equal(t, "Screen and Foil", fields[models.FieldPrintTechnique])
	assert.Equal(t, "NK-1", fields[models.FieldStyleID])
}

func TestFabricWeight(t *testing.T) {
	tests := []struct {
		text     string
		expected string
		found    bool
	}{
		{"Weight: 180.5 g/m² jersey", "180.5", true},
		{"Body 320GSM fleece", "320", true},
		{"Rib 240 g/m2", "240", true},
		{"GSM: heavy", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			w, ok := FabricWeight(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(w))
		})
	}
}

func TestMergeMetadata(t *testing.T) {
	md := models.Metadata{
		"name":   "Hoodie v2",
		"colour": "Not specified",
		"fit":    "Boxy",
		"brand":  "",
	}
	fields := models.Fields{
		models.FieldColour: "Navy",
		models.FieldFit:    "RELAXED",
		models.FieldBrand:  "Northwind",
		models.FieldFabric: "",
		"season":           "SS25",
	}

	merged := MergeMetadata(md, fields)

	assert.Equal(t, models.Metadata{
		"name":   "Hoodie v2",
		"colour": "Navy",
		"fit":    "Boxy",
		"brand":  "Northwind",
		"season": "SS25",
	}, merged)
	assert.Equal(t, "Not specified", md["colour"], "input must not be mutated")
}

func TestMergeMetadata_PlaceholderCaseSensitive(t *testing.T) {
	merged := MergeMetadata(models.Metadata{"colour": models.NotSpecified}, models.Fields{models.FieldColour: "Navy"})
	assert.Equal(t, models.NotSpecified, merged["colour"])
}
