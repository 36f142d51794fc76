// Package binding turns resolved accessor entries into callable functions
// bound to a storage repository. Each generated name maps to a callable of
// the declared arity that forwards to the matching storage primitive.
package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"crudkit/internal/catalog"
	"crudkit/internal/changeset"
	"crudkit/internal/resolver"
	"crudkit/internal/schema"
	"crudkit/internal/store"
)

// ErrUnknownOp reports an operation id outside the catalog. Resolved
// entries always come from catalog filtering, so hitting this is a
// programming error by the caller.
var ErrUnknownOp = errors.New("operation id not in catalog")

// ErrUnknownAccessor reports a call to a name the registry never bound.
var ErrUnknownAccessor = errors.New("unknown accessor")

// Repo is the storage surface accessors forward to.
type Repo interface {
	All(ctx context.Context, model schema.Model, opts store.ListOptions) ([]store.Record, error)
	Get(ctx context.Context, model schema.Model, id any) (store.Record, error)
	GetBy(ctx context.Context, model schema.Model, clauses map[string]any) (store.Record, error)
	Insert(ctx context.Context, model schema.Model, attrs store.Record) (store.Record, error)
	Update(ctx context.Context, model schema.Model, id any, attrs store.Record) (store.Record, error)
	Delete(ctx context.Context, model schema.Model, id any) error
}

// Accessor is one bound accessor function. Arguments correspond to the
// operation's declared arity; the repository is already applied.
type Accessor func(ctx context.Context, args ...any) (any, error)

type binding struct {
	op    catalog.Op
	entry resolver.Entry
	arity int
	fn    Accessor
}

// Registry holds the bound accessors for one model. It is immutable after
// Bind and safe for concurrent use.
type Registry struct {
	model    schema.Model
	bindings []binding
	byName   map[string]int
}

// Bind creates a registry from resolved entries. Every key of resolved
// must be a catalog operation id; anything else yields ErrUnknownOp.
func Bind(c catalog.Catalog, resolved map[catalog.Op]resolver.Entry, model schema.Model, repo Repo) (*Registry, error) {
	for op := range resolved {
		if !c.Contains(op) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOp, op)
		}
	}

	reg := &Registry{
		model:  model,
		byName: make(map[string]int, len(resolved)),
	}
	// Traverse the catalog so binding order matches the catalog table.
	for _, spec := range c.Specs() {
		entry, ok := resolved[spec.ID]
		if !ok {
			continue
		}
		reg.bindings = append(reg.bindings, binding{
			op:    spec.ID,
			entry: entry,
			arity: spec.Arity,
			fn:    accessorFor(spec.ID, model, repo),
		})
		reg.byName[entry.Name] = len(reg.bindings) - 1
	}
	return reg, nil
}

// Call invokes the accessor bound under name, enforcing the declared
// arity.
func (r *Registry) Call(ctx context.Context, name string, args ...any) (any, error) {
	idx, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAccessor, name)
	}
	b := r.bindings[idx]
	if len(args) != b.arity {
		return nil, fmt.Errorf("%s expects %d argument(s), got %d", name, b.arity, len(args))
	}
	return b.fn(ctx, args...)
}

// Lookup returns the accessor bound under name.
func (r *Registry) Lookup(name string) (Accessor, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.bindings[idx].fn, true
}

// Names returns the bound accessor names in catalog order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.bindings))
	for i, b := range r.bindings {
		names[i] = b.entry.Name
	}
	return names
}

// Descriptions returns the "name/arity" signature strings in catalog
// order, for diagnostic listings.
func (r *Registry) Descriptions() []string {
	descs := make([]string, len(r.bindings))
	for i, b := range r.bindings {
		descs[i] = b.entry.Description
	}
	return descs
}

// Len returns the number of bound accessors.
func (r *Registry) Len() int {
	return len(r.bindings)
}

// accessorFor builds the forwarding function for one operation. Strict
// variants surface absent rows and invalid changesets as errors; their
// plain counterparts return the miss or the failed changeset as a value.
func accessorFor(op catalog.Op, model schema.Model, repo Repo) Accessor {
	strict := op.Strict()

	switch op.Base() {
	case catalog.OpAll:
		return func(ctx context.Context, args ...any) (any, error) {
			opts, err := listOptions(args[0])
			if err != nil {
				return nil, err
			}
			return repo.All(ctx, model, opts)
		}
	case catalog.OpGet:
		return func(ctx context.Context, args ...any) (any, error) {
			rec, err := repo.Get(ctx, model, args[0])
			return missTolerant(rec, err, strict)
		}
	case catalog.OpGetBy:
		return func(ctx context.Context, args ...any) (any, error) {
			clauses, ok := args[0].(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s: clauses must be a map, got %T", op, args[0])
			}
			rec, err := repo.GetBy(ctx, model, clauses)
			return missTolerant(rec, err, strict)
		}
	case catalog.OpCreate:
		return func(ctx context.Context, args ...any) (any, error) {
			cs, err := castChangeset(op, model, args[0])
			if err != nil {
				return nil, err
			}
			if !cs.Valid() {
				if strict {
					return nil, cs.Err()
				}
				return cs, nil
			}
			return repo.Insert(ctx, model, cs.Changes)
		}
	case catalog.OpUpdate:
		return func(ctx context.Context, args ...any) (any, error) {
			cs, err := castChangeset(op, model, args[1])
			if err != nil {
				return nil, err
			}
			if !cs.Valid() {
				if strict {
					return nil, cs.Err()
				}
				return cs, nil
			}
			rec, err := repo.Update(ctx, model, args[0], cs.Changes)
			return missTolerant(rec, err, strict)
		}
	case catalog.OpDelete:
		return func(ctx context.Context, args ...any) (any, error) {
			err := repo.Delete(ctx, model, args[0])
			if err != nil {
				if errors.Is(err, store.ErrNotFound) && !strict {
					return nil, nil
				}
				return nil, err
			}
			return true, nil
		}
	case catalog.OpChange:
		return func(ctx context.Context, args ...any) (any, error) {
			return castChangeset(op, model, args[0])
		}
	default:
		return func(ctx context.Context, args ...any) (any, error) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownOp, op)
		}
	}
}

// missTolerant converts a not-found error into a nil result for
// non-strict operations.
func missTolerant(rec store.Record, err error, strict bool) (any, error) {
	if err != nil {
		if errors.Is(err, store.ErrNotFound) && !strict {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func castChangeset(op catalog.Op, model schema.Model, arg any) (*changeset.Changeset, error) {
	attrs, ok := arg.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: attributes must be a map, got %T", op, arg)
	}
	return changeset.New(model, attrs), nil
}

func listOptions(arg any) (store.ListOptions, error) {
	switch v := arg.(type) {
	case nil:
		return store.ListOptions{}, nil
	case store.ListOptions:
		return v, nil
	case map[string]any:
		var opts store.ListOptions
		if err := mapstructure.WeakDecode(v, &opts); err != nil {
			return store.ListOptions{}, fmt.Errorf("all: invalid options: %w", err)
		}
		return opts, nil
	default:
		return store.ListOptions{}, fmt.Errorf("all: options must be store.ListOptions, got %T", arg)
	}
}
