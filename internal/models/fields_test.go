package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldName_Title(t *testing.T) {
	assert.Equal(t, "StyleId", FieldStyleID.Title())
	assert.Equal(t, "PrintTechnique", FieldPrintTechnique.Title())
	assert.Equal(t, "", FieldName("").Title())
}

func TestParseFieldName(t *testing.T) {
	tests := []struct {
		in       string
		expected FieldName
	}{
		{"colour", FieldColour},
		{"Color", FieldColour},
		{"print technique", FieldPrintTechnique},
		{"style_id", FieldStyleID},
		{"care-instructions", FieldCareInstructions},
		{"articletype", FieldArticleType},
		{" season ", FieldName("season")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFieldName(tt.in))
		})
	}
}

func TestFields_Summary(t *testing.T) {
	fs := Fields{
		FieldColour:     "Blue",
		FieldStyleID:    "NK-SS25-001",
		FieldFit:        "  ",
		FieldBrand:      "",
		FieldName("zz"): "extra",
	}
	assert.Equal(t, "StyleId: NK-SS25-001\nColour: Blue\nZz: extra", fs.Summary())
	assert.Equal(t, "", Fields{}.Summary())
	assert.Equal(t, "", Fields(nil).Get(FieldFit))
}

func TestParseMetadataJSON(t *testing.T) {
	md, err := ParseMetadataJSON([]byte(`{"name":"Tee","totalPages":3,"fit":null,"draft":true}`))
	require.NoError(t, err)
	assert.Equal(t, "Tee", md["name"])
	assert.Equal(t, "3", md["totalPages"])
	assert.Equal(t, "", md["fit"])
	assert.Equal(t, "true", md["draft"])

	md, err = ParseMetadataJSON(nil)
	require.NoError(t, err)
	assert.Empty(t, md)

	_, err = ParseMetadataJSON([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = ParseMetadataJSON([]byte(`{"nested":{"a":1}}`))
	assert.Error(t, err)
}

func TestParseMetadataYAML(t *testing.T) {
	md, err := ParseMetadataYAML([]byte("name: Tee\ntotalPages: 2\ncolour: Not specified\n"))
	require.NoError(t, err)
	assert.Equal(t, "2", md["totalPages"])
	assert.True(t, md.Missing(FieldColour))
	assert.True(t, md.Missing(FieldFit))
	assert.False(t, md.Missing(FieldRecordName))
}

func TestMetadata_Missing(t *testing.T) {
	md := Metadata{"fit": "", "colour": "Not specified", "brand": "Not Specified", "fabric": "Cotton"}
	assert.True(t, md.Missing(FieldFit))
	assert.True(t, md.Missing(FieldColour))
	assert.False(t, md.Missing(FieldBrand), "only the lowercase legacy placeholder counts as missing")
	assert.False(t, md.Missing(FieldFabric))
	assert.True(t, md.Missing(FieldStyleID))

	clone := md.Clone()
	clone["fit"] = "Slim"
	assert.Equal(t, "", md["fit"])
}
