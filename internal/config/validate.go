package config

import (
	"fmt"
	"strings"

	"crudkit/internal/catalog"
)

// ValidationError represents a configuration validation error with context.
type ValidationError struct {
	Field   string
	Message string
	Hint    string
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", e.Field, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
	Hint    string
}

// ValidationResult contains the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns a combined error message if there are validation errors.
func (r *ValidationResult) Error() string {
	if !r.HasErrors() {
		return ""
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func (r *ValidationResult) addError(field, message, hint string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message, Hint: hint})
}

func (r *ValidationResult) addWarning(field, message, hint string) {
	r.Warnings = append(r.Warnings, ValidationWarning{Field: field, Message: message, Hint: hint})
}

// Validate checks the configuration for errors and returns validation
// results. It returns both errors (fatal) and warnings (non-fatal issues).
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{}

	c.Database.validate(result)
	c.Logging.validate(result)
	validateResources(result, c.Resources)

	return result
}

func (d *Database) validate(result *ValidationResult) {
	if d.ConnectionString != "" {
		return
	}
	if d.Host == "" {
		result.addError("database.host", "host is required when no DSN is set", "set database.host or database.dsn")
	}
	if d.Port <= 0 || d.Port > 65535 {
		result.addError("database.port", fmt.Sprintf("port %d is out of range", d.Port), "use a port between 1 and 65535")
	}
	if d.MaxOpenConns < 0 {
		result.addError("database.max_open_conns", "cannot be negative", "")
	}
	if d.MaxIdleConns > d.MaxOpenConns && d.MaxOpenConns > 0 {
		result.addWarning("database.max_idle_conns",
			fmt.Sprintf("idle connections (%d) exceed open connections (%d)", d.MaxIdleConns, d.MaxOpenConns),
			"idle connections above the open limit are never used")
	}
}

func (l *Logging) validate(result *ValidationResult) {
	switch l.Level {
	case "", "debug", "info", "warn", "error":
	default:
		result.addError("logging.level", fmt.Sprintf("unknown level %q", l.Level), "use debug, info, warn, or error")
	}
	switch l.Format {
	case "", "json", "text":
	default:
		result.addError("logging.format", fmt.Sprintf("unknown format %q", l.Format), "use json or text")
	}
}

func validateResources(result *ValidationResult, resources []Resource) {
	seen := make(map[string]bool, len(resources))
	for i, res := range resources {
		field := fmt.Sprintf("resources[%d]", i)

		if res.Name == "" {
			result.addError(field+".name", "resource name is required", "")
			continue
		}
		if seen[res.Name] {
			result.addError(field+".name", fmt.Sprintf("duplicate resource %q", res.Name), "")
		}
		seen[res.Name] = true

		validateResourceSelector(result, field, res)
	}
}

func validateResourceSelector(result *ValidationResult, field string, res Resource) {
	if len(res.Only) > 0 && len(res.Except) > 0 {
		result.addError(field, "only and except are mutually exclusive", "keep one of the two lists")
	}
	if res.Access != "" && (len(res.Only) > 0 || len(res.Except) > 0) {
		result.addError(field+".access", "access shorthand conflicts with only/except", "drop access or the explicit list")
	}
	switch res.Access {
	case "", "read", "read_write":
	default:
		result.addError(field+".access", fmt.Sprintf("unknown access shorthand %q", res.Access), "use read or read_write")
	}

	// Unknown operation ids select nothing; flag them so typos surface.
	c := catalog.Default()
	for _, id := range append(append([]string{}, res.Only...), res.Except...) {
		if !c.Contains(catalog.Op(id)) {
			result.addWarning(field, fmt.Sprintf("unknown operation id %q", id), "it will never match a catalog operation")
		}
	}
}
