package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the caller-supplied attribute map that accompanies an upload.
// Keys follow FieldName spelling; unknown keys are kept and ignored.
type Metadata map[string]string

// ParseMetadataJSON decodes a JSON object into Metadata. Scalar values are
// stringified, null becomes "", nested values are rejected.
func ParseMetadataJSON(data []byte) (Metadata, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Metadata{}, nil
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("metadata is not a JSON object: %w", err)
	}
	return fromRaw(raw)
}

// ParseMetadataYAML decodes a YAML mapping into Metadata.
func ParseMetadataYAML(data []byte) (Metadata, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("metadata is not a YAML mapping: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw map[string]interface{}) (Metadata, error) {
	md := make(Metadata, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			md[k] = ""
		case string:
			md[k] = val
		case float64:
			md[k] = fmt.Sprintf("%g", val)
		case int, bool:
			md[k] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("metadata key %q: unsupported value of type %T", k, v)
		}
	}
	return md, nil
}

// Get returns the value for field f, trimmed.
func (m Metadata) Get(f FieldName) string {
	return strings.TrimSpace(m[string(f)])
}

// Missing reports whether f is absent, blank or the legacy "Not specified"
// placeholder.
func (m Metadata) Missing(f FieldName) bool {
	v, ok := m[string(f)]
	return !ok || v == "" || v == LegacyNotSpecified
}

// Clone returns a shallow copy.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
