package logging

// Field names shared by every log line the converter emits.
const (
	FieldFile        = "file_path"
	FieldParser      = "parser"
	FieldCategory    = "category"
	FieldKeyword     = "keyword"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldCount       = "count"
	FieldDelimiter   = "delimiter"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldDateToken   = "date_token"
	FieldDate        = "date"
	FieldRow         = "row"
	FieldContentType = "content_type"
	FieldCharset     = "charset"
	FieldSubject     = "subject"
)
