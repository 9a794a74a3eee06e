package logging

// Field names shared by every component so log lines stay greppable.
const (
	FieldFile        = "file_path"
	FieldComponent   = "component"
	FieldFitID       = "fit_id"
	FieldAccount     = "account_id"
	FieldInstitution = "institution"
	FieldKeyword     = "keyword"
	FieldRuleID      = "rule_id"
	FieldCategory    = "category"
	FieldState       = "state"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldCount       = "count"
	FieldCharset     = "charset"
	FieldDuration    = "duration_ms"
)
