package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldEventType names the event category for machine filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a remediation for a warning or error.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldCacheKey is the standardized structured logging key for language-cache keys.
	FieldCacheKey = "cache_key"
	// FieldLanguage is the standardized structured logging key for resolved language tags.
	FieldLanguage = "language"
)
