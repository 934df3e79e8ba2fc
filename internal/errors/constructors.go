package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *BlogBuilderError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *BlogBuilderError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Build pipeline errors

func ContentError(path string, cause error) *BlogBuilderError {
	return Wrap(cause, CategoryContent, SeverityError, "content processing failed").
		WithContext("path", path)
}

func LayoutError(layout string, cause error) *BlogBuilderError {
	return Wrap(cause, CategoryLayout, SeverityError, "layout resolution failed").
		WithContext("layout", layout)
}

func RenderError(source string, cause error) *BlogBuilderError {
	return Wrap(cause, CategoryRender, SeverityError, "document render failed").
		WithContext("source", source)
}

func OutputError(path string, cause error) *BlogBuilderError {
	return Wrap(cause, CategoryOutput, SeverityFatal, "output write failed").
		WithContext("path", path)
}

func WorkspaceError(operation string, cause error) *BlogBuilderError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}
