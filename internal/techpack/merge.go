package techpack

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/parsererror"
)

// MergeMetadata returns a copy of md where every non-empty extracted field
// fills a caller value that is missing, empty or the legacy "Not specified"
// placeholder. Caller values otherwise win. Fields are visited in
// models.ExtractedFields order, then any extra keys in sorted order.
func MergeMetadata(md models.Metadata, fields models.Fields) models.Metadata {
	out := md.Clone()
	for _, f := range orderedKeys(fields) {
		v := fields[f]
		if v == "" {
			continue
		}
		if out.Missing(f) {
			out[string(f)] = v
		}
	}
	return out
}

func orderedKeys(fields models.Fields) []models.FieldName {
	keys := make([]models.FieldName, 0, len(fields))
	seen := make(map[models.FieldName]bool, len(fields))
	for _, f := range models.ExtractedFields {
		if _, ok := fields[f]; ok {
			keys = append(keys, f)
			seen[f] = true
		}
	}
	var extra []string
	for f := range fields {
		if !seen[f] {
			extra = append(extra, string(f))
		}
	}
	sort.Strings(extra)
	for _, f := range extra {
		keys = append(keys, models.FieldName(f))
	}
	return keys
}

// LoadMetadata reads caller metadata from a .json, .yaml or .yml file.
func LoadMetadata(path string) (models.Metadata, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("error reading metadata file: %w", err)
	}

	var md models.Metadata
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		md, err = models.ParseMetadataJSON(data)
	case ".yaml", ".yml":
		md, err = models.ParseMetadataYAML(data)
	default:
		return nil, &parsererror.InvalidFormatError{FilePath: path, ExpectedFormat: "JSON or YAML", Msg: "unsupported metadata file extension"}
	}
	if err != nil {
		return nil, &parsererror.ValidationError{Subject: path, Reason: err.Error()}
	}
	return md, nil
}
