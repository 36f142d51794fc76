package resolver

import (
	"strconv"
	"strings"
)

// ident is the structured form of a generated accessor name. Keeping the
// parts separate until render centralizes the bang-placement rule: the
// strict marker always trails the fully assembled name, never an inner
// segment.
type ident struct {
	root     string // operation root with any bang stripped ("create", "get", "all")
	suffix   string // schema-derived suffix, already pluralized where required
	particle string // trailing segment that stays past the suffix ("by")
	strict   bool
}

// render assembles the identifier string. The result is always
// identifier-shaped: underscore-joined ASCII segments with an optional
// trailing "!".
func (id ident) render() string {
	parts := make([]string, 0, 3)
	parts = append(parts, id.root)
	if id.suffix != "" {
		parts = append(parts, id.suffix)
	}
	if id.particle != "" {
		parts = append(parts, id.particle)
	}

	name := strings.Join(parts, "_")
	if id.strict {
		name += "!"
	}
	return name
}

// describe formats the "name/arity" signature string. The name portion is
// byte-identical to the rendered name, bang placement included.
func describe(name string, arity int) string {
	return name + "/" + strconv.Itoa(arity)
}
