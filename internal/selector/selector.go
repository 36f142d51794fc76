// Package selector implements operation selection policies for accessor
// resolution: keep everything, a shorthand preset, an explicit include
// list, or an explicit exclude list.
package selector

import (
	"fmt"
	"sort"
	"strings"

	"crudkit/internal/catalog"
)

// ErrInvalidSelector is returned when a loosely-shaped selector input does
// not match any recognized selector shape. Malformed selectors fail fast
// instead of falling through to the unfiltered catalog.
var ErrInvalidSelector = fmt.Errorf("invalid selector")

type kind int

const (
	kindNone kind = iota
	kindOnly
	kindExcept
)

// Selector decides which catalog operations survive filtering. The zero
// value keeps every operation.
type Selector struct {
	kind kind
	ids  map[catalog.Op]struct{}
}

// None returns the selector that keeps every catalog operation.
func None() Selector {
	return Selector{kind: kindNone}
}

// Only returns a selector keeping exactly the listed operation ids.
// Membership is exact: "create" does not imply "create!" and vice versa.
func Only(ops ...catalog.Op) Selector {
	return Selector{kind: kindOnly, ids: idSet(ops)}
}

// Except returns a selector keeping every operation except the listed ids.
func Except(ops ...catalog.Op) Selector {
	return Selector{kind: kindExcept, ids: idSet(ops)}
}

// readOps is the id list the "read" shorthand expands to.
var readOps = []catalog.Op{
	catalog.OpAll,
	catalog.OpGet,
	catalog.OpGetStrict,
	catalog.OpGetBy,
	catalog.OpGetByStrict,
}

// readWriteOps extends readOps with changeset and create/update operations.
var readWriteOps = append(append([]catalog.Op(nil), readOps...),
	catalog.OpChange,
	catalog.OpCreate,
	catalog.OpCreateStrict,
	catalog.OpUpdate,
	catalog.OpUpdateStrict,
)

// Read returns the selector for the "read" shorthand preset. Shorthands
// expand at construction; the returned selector is a plain Only list.
func Read() Selector {
	return Only(readOps...)
}

// ReadWrite returns the selector for the "read_write" shorthand preset.
// Delete-only or write-only surfaces have no shorthand and are expressed
// through explicit Only or Except lists.
func ReadWrite() Selector {
	return Only(readWriteOps...)
}

// Parse converts a loosely-shaped selector input into a typed Selector.
// Recognized shapes:
//
//	nil or ""                          -> None
//	"read", "read_write"               -> shorthand presets
//	map with a single "only" key       -> Only list
//	map with a single "except" key     -> Except list
//	Selector                           -> passed through
//
// Anything else yields ErrInvalidSelector.
func Parse(input any) (Selector, error) {
	switch v := input.(type) {
	case nil:
		return None(), nil
	case Selector:
		return v, nil
	case string:
		return parseShorthand(v)
	case map[string]any:
		return parseFilterMap(v)
	case map[string][]string:
		converted := make(map[string]any, len(v))
		for k, ids := range v {
			converted[k] = ids
		}
		return parseFilterMap(converted)
	default:
		return Selector{}, fmt.Errorf("%w: unsupported shape %T", ErrInvalidSelector, input)
	}
}

func parseShorthand(s string) (Selector, error) {
	switch strings.TrimSpace(s) {
	case "":
		return None(), nil
	case "read":
		return Read(), nil
	case "read_write":
		return ReadWrite(), nil
	default:
		return Selector{}, fmt.Errorf("%w: unknown shorthand %q", ErrInvalidSelector, s)
	}
}

func parseFilterMap(m map[string]any) (Selector, error) {
	if len(m) != 1 {
		return Selector{}, fmt.Errorf("%w: filter map must have exactly one of %q or %q", ErrInvalidSelector, "only", "except")
	}
	for key, raw := range m {
		ops, err := parseOpList(raw)
		if err != nil {
			return Selector{}, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, key, err)
		}
		switch key {
		case "only":
			return Only(ops...), nil
		case "except":
			return Except(ops...), nil
		default:
			return Selector{}, fmt.Errorf("%w: unknown filter key %q", ErrInvalidSelector, key)
		}
	}
	return Selector{}, ErrInvalidSelector
}

func parseOpList(raw any) ([]catalog.Op, error) {
	switch v := raw.(type) {
	case []catalog.Op:
		return append([]catalog.Op(nil), v...), nil
	case []string:
		ops := make([]catalog.Op, len(v))
		for i, s := range v {
			ops[i] = catalog.Op(s)
		}
		return ops, nil
	case []any:
		ops := make([]catalog.Op, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("operation ids must be strings, got %T", item)
			}
			ops = append(ops, catalog.Op(s))
		}
		return ops, nil
	default:
		return nil, fmt.Errorf("operation id list expected, got %T", raw)
	}
}

// Filter returns the ordered subsequence of catalog specs that pass the
// selector. Filtering compares canonical operation ids, never generated
// names, so it always happens before suffixing.
func (s Selector) Filter(c catalog.Catalog) []catalog.Spec {
	specs := c.Specs()
	if s.kind == kindNone {
		return specs
	}

	kept := make([]catalog.Spec, 0, len(specs))
	for _, spec := range specs {
		_, listed := s.ids[spec.ID]
		if (s.kind == kindOnly) == listed {
			kept = append(kept, spec)
		}
	}
	return kept
}

// IDs returns the selector's id set in sorted order. Empty for None.
func (s Selector) IDs() []catalog.Op {
	ids := make([]catalog.Op, 0, len(s.ids))
	for op := range s.ids {
		ids = append(ids, op)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// String describes the selector for logs and error messages.
func (s Selector) String() string {
	switch s.kind {
	case kindOnly:
		return fmt.Sprintf("only(%s)", joinOps(s.IDs()))
	case kindExcept:
		return fmt.Sprintf("except(%s)", joinOps(s.IDs()))
	default:
		return "none"
	}
}

func joinOps(ops []catalog.Op) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = string(op)
	}
	return strings.Join(parts, ",")
}

func idSet(ops []catalog.Op) map[catalog.Op]struct{} {
	set := make(map[catalog.Op]struct{}, len(ops))
	for _, op := range ops {
		set[op] = struct{}{}
	}
	return set
}
