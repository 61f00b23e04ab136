package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstants(t *testing.T) {
	keys := []string{
		FieldFile, FieldField, FieldStrategy, FieldStyleID, FieldRecordID,
		FieldArticle, FieldOperation, FieldStatus, FieldError, FieldDuration,
		FieldCount, FieldPages, FieldEngine, FieldDelimiter, FieldInputFile,
		FieldOutputFile, FieldRemoteAddr,
	}

	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.NotEmpty(t, k)
		assert.False(t, seen[k], "duplicate field key %q", k)
		seen[k] = true
	}
}
