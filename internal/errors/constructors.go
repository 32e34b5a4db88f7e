package errors

import "fmt"

// Convenience constructors for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Content errors

func FrontmatterParseError(path string, cause error) *SiteError {
	return Wrap(cause, CategoryParse, SeverityWarning, "malformed frontmatter").
		WithContext("path", path)
}

// Template errors

func TemplateCycle(chain []string) *SiteError {
	return New(CategoryTemplate, SeverityFatal, "template extension cycle").
		WithContext("chain", chain)
}

func TemplateMissingParent(name, parent string) *SiteError {
	return New(CategoryTemplate, SeverityFatal, "template extends unknown parent").
		WithContext("template", name).
		WithContext("parent", parent)
}

func TemplateNotFound(name string) *SiteError {
	return New(CategoryTemplate, SeverityFatal, "template not found").
		WithContext("template", name)
}

// Build errors

func OutputCollision(outputPath, firstSource, secondSource string) *SiteError {
	msg := fmt.Sprintf("both %q and %q map to output path %q", firstSource, secondSource, outputPath)
	return New(CategoryCollision, SeverityFatal, msg).
		WithContext("output", outputPath).
		WithContext("first", firstSource).
		WithContext("second", secondSource)
}

func IOFailure(operation, path string, cause error) *SiteError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// Server errors

func BindFailure(addr string, cause error) *SiteError {
	return Wrap(cause, CategoryBind, SeverityFatal, "listen address unavailable").
		WithContext("address", addr)
}
