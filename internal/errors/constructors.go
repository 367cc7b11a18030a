package errors

// Convenience functions for the pipeline's error taxonomy

// NotFound reports a missing top-level input path. It aborts the run.
func NotFound(path string) *DocError {
	return New(CategoryNotFound, SeverityFatal, "path does not exist").
		WithContext("path", path)
}

// ConfigNotFound reports a missing configuration file.
func ConfigNotFound(path string) *DocError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

// ValidationFailed reports an invalid configuration or input value.
func ValidationFailed(field, reason string) *DocError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// ExtractionFailed reports that a single metadata source could not be parsed.
// Callers log it and keep the previous field values.
func ExtractionFailed(source, path string, cause error) *DocError {
	return Wrap(cause, CategoryExtraction, SeverityWarning, "metadata extraction failed").
		WithContext("source", source).
		WithContext("path", path)
}

// SubstitutionFailed reports an unreadable or unwritable file during the placeholder sweep.
func SubstitutionFailed(path string, cause error) *DocError {
	return Wrap(cause, CategorySubstitution, SeverityWarning, "placeholder substitution failed").
		WithContext("path", path)
}

// EnhancementExhausted reports that the attempt budget for a file was consumed.
// Strict mode makes it fatal.
func EnhancementExhausted(path string, attempts int, strict bool) *DocError {
	severity := SeverityWarning
	if strict {
		severity = SeverityFatal
	}
	return New(CategoryEnhancement, severity, "content enhancement exhausted retry budget").
		WithContext("path", path).
		WithContext("attempts", attempts)
}

// GenerationFailed wraps a failure from the external generation capability.
func GenerationFailed(cause error) *DocError {
	return WrapRetryable(cause, CategoryGeneration, SeverityWarning, "content generation failed")
}

// PageTooLarge reports a page whose prompt would exceed the length cap. The
// page is left untouched.
func PageTooLarge(path string, size, limit int) *DocError {
	return New(CategoryGeneration, SeverityWarning, "page too large for prompt length limit").
		WithContext("path", path).
		WithContext("size", size).
		WithContext("limit", limit)
}

// RepairFailed wraps a failure reading or writing site configuration.
func RepairFailed(path string, cause error) *DocError {
	return Wrap(cause, CategoryRepair, SeverityError, "structural repair failed").
		WithContext("path", path)
}

// WorkspaceError wraps a failure preparing the output tree.
func WorkspaceError(operation string, cause error) *DocError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

// InternalError wraps an unexpected failure.
func InternalError(message string, cause error) *DocError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
