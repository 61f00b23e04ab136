package logging

// Standardized field names for structured logging.
// These constants keep the keys consistent across commands, the HTTP layer
// and the batch runner so log lines can be filtered by document or field.
const (
	FieldFile       = "file_path"
	FieldField      = "field"
	FieldStrategy   = "strategy"
	FieldStyleID    = "style_id"
	FieldRecordID   = "record_id"
	FieldArticle    = "article_type"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldPages      = "pages"
	FieldEngine     = "engine"
	FieldDelimiter  = "delimiter"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldRemoteAddr = "remote_addr"
)
