// Package resolver implements the option-resolution and name-synthesis
// engine: given a catalog, a schema-derived suffix, and a selection
// policy, it deterministically produces the generated accessor name and
// signature description for each surviving operation.
package resolver

import (
	"crudkit/internal/catalog"
	"crudkit/internal/naming"
	"crudkit/internal/selector"
)

// Entry is the resolution output for one operation: the identifier to
// bind in the host registry and a human-readable "name/arity" signature
// string for documentation and introspection.
type Entry struct {
	Name        string
	Description string
}

// Resolver derives accessor names against a fixed catalog. It owns no
// mutable state; a single Resolver may be used from any number of
// goroutines.
type Resolver struct {
	catalog catalog.Catalog
	namer   *naming.Namer
}

// New creates a Resolver over the given catalog. A nil namer falls back
// to the default naming configuration.
func New(c catalog.Catalog, namer *naming.Namer) *Resolver {
	if namer == nil {
		namer = naming.Default()
	}
	return &Resolver{catalog: c, namer: namer}
}

// Default returns a Resolver over the default catalog with default naming.
func Default() *Resolver {
	return New(catalog.Default(), nil)
}

// Catalog returns the catalog this resolver derives names from.
func (r *Resolver) Catalog() catalog.Catalog {
	return r.catalog
}

// Resolve filters the catalog by the given selector input and derives a
// generated name and description for each surviving operation. The
// selector accepts the loose shapes recognized by selector.Parse; a
// malformed shape yields selector.ErrInvalidSelector and no partial
// result. Identical inputs always produce mapping-equal results.
func (r *Resolver) Resolve(suffix string, sel any) (map[catalog.Op]Entry, error) {
	typed, err := selector.Parse(sel)
	if err != nil {
		return nil, err
	}

	kept := typed.Filter(r.catalog)
	resolved := make(map[catalog.Op]Entry, len(kept))
	for _, spec := range kept {
		resolved[spec.ID] = r.Derive(spec, suffix)
	}
	return resolved, nil
}

// Derive produces the resolved entry for a single catalog spec. It is
// total over catalog-listed operations; callers must only pass specs
// obtained from the catalog.
func (r *Resolver) Derive(spec catalog.Spec, suffix string) Entry {
	name := r.deriveIdent(spec.ID, suffix).render()
	return Entry{
		Name:        name,
		Description: describe(name, spec.Arity),
	}
}

// deriveIdent builds the structured identifier for an operation.
// Precedence mirrors the derivation rules: an empty suffix leaves the
// bare operation id, "all" pluralizes the suffix, the get_by family
// infixes the suffix between root and particle, and everything else
// appends the suffix inside the bang.
func (r *Resolver) deriveIdent(op catalog.Op, suffix string) ident {
	base := op.Base()
	strict := op.Strict()

	switch base {
	case catalog.OpAll:
		id := ident{root: string(catalog.OpAll), strict: strict}
		if suffix != "" {
			id.suffix = r.namer.Pluralize(suffix)
		}
		return id
	case catalog.OpGetBy:
		return ident{root: "get", suffix: suffix, particle: "by", strict: strict}
	default:
		return ident{root: string(base), suffix: suffix, strict: strict}
	}
}
