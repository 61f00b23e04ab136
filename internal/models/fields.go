package models

import (
	"fmt"
	"sort"
	"strings"
)

// FieldName identifies a tech-pack attribute. The string form is the key used
// in caller metadata, catalogs and the extracted-text summary.
type FieldName string

const (
	FieldStyleID          FieldName = "styleId"
	FieldProductName      FieldName = "productName"
	FieldDescription      FieldName = "description"
	FieldColour           FieldName = "colour"
	FieldFit              FieldName = "fit"
	FieldPrintTechnique   FieldName = "printTechnique"
	FieldFabric           FieldName = "fabric"
	FieldBrand            FieldName = "brand"
	FieldCollection       FieldName = "collection"
	FieldCareInstructions FieldName = "careInstructions"

	// Record-only attributes, never pulled from the document text.
	FieldRecordName  FieldName = "name"
	FieldArticleType FieldName = "articleType"
	FieldGender      FieldName = "gender"
	FieldDesigner    FieldName = "designer"
	FieldTotalPages  FieldName = "totalPages"
)

// ExtractedFields lists the fields pulled from document text, in the order
// they are extracted, merged and summarized.
var ExtractedFields = []FieldName{
	FieldStyleID,
	FieldProductName,
	FieldDescription,
	FieldColour,
	FieldFit,
	FieldPrintTechnique,
	FieldFabric,
	FieldBrand,
	FieldCollection,
	FieldCareInstructions,
}

// Title returns the field name with its first letter upper-cased, as used in
// the extracted-text summary ("styleId" -> "StyleId").
func (f FieldName) Title() string {
	s := string(f)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseFieldName maps user input ("colour", "Print Technique", "style_id")
// onto a known field. Unknown names are returned unchanged so they take the
// generic path.
func ParseFieldName(s string) FieldName {
	norm := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	if norm == "color" {
		norm = "colour"
	}
	for _, f := range append(append([]FieldName{}, ExtractedFields...), FieldArticleType, FieldGender) {
		if strings.ToLower(string(f)) == norm {
			return f
		}
	}
	return FieldName(strings.TrimSpace(s))
}

// Fields holds extracted values keyed by field. An absent key and an empty
// string both mean "not found".
type Fields map[FieldName]string

// Get returns the value for f or "".
func (fs Fields) Get(f FieldName) string {
	if fs == nil {
		return ""
	}
	return fs[f]
}

// Summary renders the extracted-text blob: one "Field: value" line per
// non-blank value, in ExtractedFields order followed by any extra keys sorted
// by name.
func (fs Fields) Summary() string {
	var lines []string
	seen := make(map[FieldName]bool, len(fs))
	for _, f := range ExtractedFields {
		seen[f] = true
		if v := fs[f]; strings.TrimSpace(v) != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", f.Title(), v))
		}
	}

	var extra []string
	for f := range fs {
		if !seen[f] {
			extra = append(extra, string(f))
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		f := FieldName(k)
		if v := fs[f]; strings.TrimSpace(v) != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", f.Title(), v))
		}
	}
	return strings.Join(lines, "\n")
}
