// Package catalog defines the fixed universe of CRUD accessor operations
// and their declared arities.
package catalog

// Op is the canonical identifier of a catalog operation. Strict variants
// carry a trailing "!" in the identifier itself, so "create" and "create!"
// are distinct operations.
type Op string

// Catalog operation identifiers.
const (
	OpUpdateStrict Op = "update!"
	OpUpdate       Op = "update"
	OpGetByStrict  Op = "get_by!"
	OpGetBy        Op = "get_by"
	OpGetStrict    Op = "get!"
	OpGet          Op = "get"
	OpDeleteStrict Op = "delete!"
	OpDelete       Op = "delete"
	OpCreateStrict Op = "create!"
	OpCreate       Op = "create"
	OpChange       Op = "change"
	OpAll          Op = "all"
)

// Strict reports whether the operation is a bang variant.
func (o Op) Strict() bool {
	return len(o) > 0 && o[len(o)-1] == '!'
}

// Base returns the operation id without a trailing bang.
// Base of "create!" is "create"; non-strict ids are returned unchanged.
func (o Op) Base() Op {
	if o.Strict() {
		return o[:len(o)-1]
	}
	return o
}

// Spec describes one supported operation. Arity is documentation-facing:
// it counts the caller-visible arguments and excludes the repository
// parameter supplied by the delegate layer.
type Spec struct {
	ID    Op
	Arity int
}

// Catalog is an ordered, immutable sequence of operation specs. Order is
// the insertion order of the defining literal; it controls traversal only
// and has no effect on resolution results.
type Catalog struct {
	specs []Spec
}

// New builds a catalog from the given specs. The specs are copied so the
// catalog cannot be mutated through the input slice.
func New(specs ...Spec) Catalog {
	return Catalog{specs: append([]Spec(nil), specs...)}
}

// Default returns the full catalog of supported operations. This table is
// the single source of truth for operation ids and arities.
func Default() Catalog {
	return New(
		Spec{OpUpdateStrict, 2},
		Spec{OpUpdate, 2},
		Spec{OpGetByStrict, 2},
		Spec{OpGetBy, 2},
		Spec{OpGetStrict, 2},
		Spec{OpGet, 2},
		Spec{OpDeleteStrict, 1},
		Spec{OpDelete, 1},
		Spec{OpCreateStrict, 1},
		Spec{OpCreate, 1},
		Spec{OpChange, 1},
		Spec{OpAll, 1},
	)
}

// Specs returns the catalog entries in traversal order. The returned slice
// is a copy.
func (c Catalog) Specs() []Spec {
	return append([]Spec(nil), c.specs...)
}

// Len returns the number of operations in the catalog.
func (c Catalog) Len() int {
	return len(c.specs)
}

// Contains reports whether the catalog defines the given operation id.
func (c Catalog) Contains(op Op) bool {
	for _, s := range c.specs {
		if s.ID == op {
			return true
		}
	}
	return false
}

// Lookup returns the spec for the given operation id.
func (c Catalog) Lookup(op Op) (Spec, bool) {
	for _, s := range c.specs {
		if s.ID == op {
			return s, true
		}
	}
	return Spec{}, false
}

// IDs returns the operation ids in traversal order.
func (c Catalog) IDs() []Op {
	ids := make([]Op, len(c.specs))
	for i, s := range c.specs {
		ids[i] = s.ID
	}
	return ids
}
