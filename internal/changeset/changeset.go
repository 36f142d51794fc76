// Package changeset builds validated attribute sets for create and update
// operations. It is deliberately minimal: casting to known columns and
// required-field checks, nothing more.
package changeset

import (
	"fmt"
	"sort"
	"strings"

	"crudkit/internal/schema"
)

// FieldError describes a single validation failure.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Changeset holds the attributes accepted for a model along with any
// validation errors collected while casting.
type Changeset struct {
	Model   schema.Model
	Changes map[string]any
	Errors  []FieldError
}

// New casts the given attributes against the model's columns. Attributes
// for undeclared columns are rejected, and required columns missing from
// the input are recorded as errors. The input map is never mutated.
func New(model schema.Model, attrs map[string]any) *Changeset {
	cs := &Changeset{
		Model:   model,
		Changes: make(map[string]any, len(attrs)),
	}

	for _, key := range sortedAttrKeys(attrs) {
		if !model.HasColumn(key) {
			cs.addError(key, "is not a known column")
			continue
		}
		cs.Changes[key] = attrs[key]
	}

	for _, req := range model.Required {
		if _, ok := cs.Changes[req]; !ok {
			cs.addError(req, "is required")
		}
	}
	return cs
}

// Valid reports whether the changeset collected no errors.
func (c *Changeset) Valid() bool {
	return len(c.Errors) == 0
}

// Err returns nil for a valid changeset, otherwise a single error
// combining every field error.
func (c *Changeset) Err() error {
	if c.Valid() {
		return nil
	}
	msgs := make([]string, len(c.Errors))
	for i, e := range c.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("invalid %s changeset: %s", c.Model.Name, strings.Join(msgs, "; "))
}

func (c *Changeset) addError(field, message string) {
	c.Errors = append(c.Errors, FieldError{Field: field, Message: message})
}

func sortedAttrKeys(attrs map[string]any) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
