package binding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crudkit/internal/catalog"
	"crudkit/internal/changeset"
	"crudkit/internal/resolver"
	"crudkit/internal/schema"
	"crudkit/internal/store"
)

// fakeRepo is an in-memory Repo keyed by primary key value.
type fakeRepo struct {
	records map[any]store.Record
	nextID  int64
}

func newFakeRepo(records ...store.Record) *fakeRepo {
	f := &fakeRepo{records: make(map[any]store.Record), nextID: 100}
	for _, rec := range records {
		f.records[rec["id"]] = rec
	}
	return f
}

func (f *fakeRepo) All(_ context.Context, _ schema.Model, _ store.ListOptions) ([]store.Record, error) {
	out := make([]store.Record, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeRepo) Get(_ context.Context, _ schema.Model, id any) (store.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return rec, nil
}

func (f *fakeRepo) GetBy(_ context.Context, _ schema.Model, clauses map[string]any) (store.Record, error) {
	for _, rec := range f.records {
		match := true
		for col, val := range clauses {
			if rec[col] != val {
				match = false
				break
			}
		}
		if match {
			return rec, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeRepo) Insert(_ context.Context, _ schema.Model, attrs store.Record) (store.Record, error) {
	rec := store.Record{"id": f.nextID}
	f.nextID++
	for k, v := range attrs {
		rec[k] = v
	}
	f.records[rec["id"]] = rec
	return rec, nil
}

func (f *fakeRepo) Update(_ context.Context, _ schema.Model, id any, attrs store.Record) (store.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for k, v := range attrs {
		rec[k] = v
	}
	return rec, nil
}

func (f *fakeRepo) Delete(_ context.Context, _ schema.Model, id any) error {
	if _, ok := f.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

func userModel() schema.Model {
	return schema.Model{
		Name:     "User",
		Table:    "users",
		Required: []string{"email"},
		Columns: []schema.Column{
			{Name: "id"},
			{Name: "email"},
			{Name: "name"},
		},
	}
}

func bindAll(t *testing.T, repo Repo) *Registry {
	t.Helper()
	r := resolver.Default()
	resolved, err := r.Resolve("user", nil)
	require.NoError(t, err)
	reg, err := Bind(r.Catalog(), resolved, userModel(), repo)
	require.NoError(t, err)
	return reg
}

func TestBindFullCatalog(t *testing.T) {
	reg := bindAll(t, newFakeRepo())

	assert.Equal(t, 12, reg.Len())
	assert.Equal(t, []string{
		"update_user!", "update_user",
		"get_user_by!", "get_user_by",
		"get_user!", "get_user",
		"delete_user!", "delete_user",
		"create_user!", "create_user",
		"change_user", "all_users",
	}, reg.Names())
}

func TestDescriptionsListing(t *testing.T) {
	reg := bindAll(t, newFakeRepo())

	assert.Equal(t, []string{
		"update_user!/2", "update_user/2",
		"get_user_by!/2", "get_user_by/2",
		"get_user!/2", "get_user/2",
		"delete_user!/1", "delete_user/1",
		"create_user!/1", "create_user/1",
		"change_user/1", "all_users/1",
	}, reg.Descriptions())
}

func TestBindRejectsUnknownOp(t *testing.T) {
	resolved := map[catalog.Op]resolver.Entry{
		"truncate": {Name: "truncate_user", Description: "truncate_user/1"},
	}
	_, err := Bind(catalog.Default(), resolved, userModel(), newFakeRepo())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestCallAll(t *testing.T) {
	repo := newFakeRepo(store.Record{"id": int64(1), "email": "a@b.c"})
	reg := bindAll(t, repo)

	out, err := reg.Call(context.Background(), "all_users", nil)
	require.NoError(t, err)
	assert.Len(t, out.([]store.Record), 1)
}

func TestCallAllMapOptions(t *testing.T) {
	repo := newFakeRepo(store.Record{"id": int64(1), "email": "a@b.c"})
	reg := bindAll(t, repo)

	out, err := reg.Call(context.Background(), "all_users", map[string]any{"order_by": "email", "limit": 5})
	require.NoError(t, err)
	assert.Len(t, out.([]store.Record), 1)

	_, err = reg.Call(context.Background(), "all_users", "not options")
	require.Error(t, err)
}

func TestCallGetVariants(t *testing.T) {
	repo := newFakeRepo(store.Record{"id": int64(1), "email": "a@b.c"})
	reg := bindAll(t, repo)

	out, err := reg.Call(context.Background(), "get_user", int64(1), nil)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", out.(store.Record)["email"])

	// Plain get tolerates a miss.
	out, err = reg.Call(context.Background(), "get_user", int64(9), nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	// Strict get does not.
	_, err = reg.Call(context.Background(), "get_user!", int64(9), nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCallGetBy(t *testing.T) {
	repo := newFakeRepo(store.Record{"id": int64(1), "email": "a@b.c"})
	reg := bindAll(t, repo)

	out, err := reg.Call(context.Background(), "get_user_by", map[string]any{"email": "a@b.c"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.(store.Record)["id"])

	_, err = reg.Call(context.Background(), "get_user_by!", map[string]any{"email": "nope"}, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = reg.Call(context.Background(), "get_user_by", "not-a-map", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clauses must be a map")
}

func TestCallCreate(t *testing.T) {
	reg := bindAll(t, newFakeRepo())

	out, err := reg.Call(context.Background(), "create_user", map[string]any{"email": "new@b.c"})
	require.NoError(t, err)
	assert.Equal(t, "new@b.c", out.(store.Record)["email"])
}

func TestCallCreateInvalid(t *testing.T) {
	reg := bindAll(t, newFakeRepo())

	// Plain create hands back the failed changeset as a value.
	out, err := reg.Call(context.Background(), "create_user", map[string]any{"name": "no email"})
	require.NoError(t, err)
	cs := out.(*changeset.Changeset)
	assert.False(t, cs.Valid())

	// Strict create surfaces the validation error.
	_, err = reg.Call(context.Background(), "create_user!", map[string]any{"name": "no email"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email: is required")
}

func TestCallUpdate(t *testing.T) {
	repo := newFakeRepo(store.Record{"id": int64(1), "email": "a@b.c"})
	reg := bindAll(t, repo)

	out, err := reg.Call(context.Background(), "update_user", int64(1), map[string]any{"email": "x@b.c"})
	require.NoError(t, err)
	assert.Equal(t, "x@b.c", out.(store.Record)["email"])

	// Plain update tolerates a missing row.
	out, err = reg.Call(context.Background(), "update_user", int64(9), map[string]any{"email": "x@b.c"})
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = reg.Call(context.Background(), "update_user!", int64(9), map[string]any{"email": "x@b.c"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCallDelete(t *testing.T) {
	repo := newFakeRepo(store.Record{"id": int64(1), "email": "a@b.c"})
	reg := bindAll(t, repo)

	out, err := reg.Call(context.Background(), "delete_user", int64(1))
	require.NoError(t, err)
	assert.Equal(t, true, out)

	// Already gone: plain delete tolerates, strict errors.
	out, err = reg.Call(context.Background(), "delete_user", int64(1))
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = reg.Call(context.Background(), "delete_user!", int64(1))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCallChange(t *testing.T) {
	reg := bindAll(t, newFakeRepo())

	out, err := reg.Call(context.Background(), "change_user", map[string]any{"email": "a@b.c"})
	require.NoError(t, err)
	cs := out.(*changeset.Changeset)
	assert.True(t, cs.Valid())
	assert.Equal(t, map[string]any{"email": "a@b.c"}, cs.Changes)
}

func TestCallArityEnforced(t *testing.T) {
	reg := bindAll(t, newFakeRepo())

	_, err := reg.Call(context.Background(), "get_user", int64(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 2 argument(s), got 1")

	_, err = reg.Call(context.Background(), "all_users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 1 argument(s), got 0")
}

func TestCallUnknownAccessor(t *testing.T) {
	reg := bindAll(t, newFakeRepo())

	_, err := reg.Call(context.Background(), "drop_users", nil)
	assert.ErrorIs(t, err, ErrUnknownAccessor)
}

func TestBindFilteredSelection(t *testing.T) {
	r := resolver.Default()
	resolved, err := r.Resolve("user", "read")
	require.NoError(t, err)
	reg, err := Bind(r.Catalog(), resolved, userModel(), newFakeRepo())
	require.NoError(t, err)

	assert.Equal(t, 5, reg.Len())
	_, ok := reg.Lookup("create_user")
	assert.False(t, ok)
	_, ok = reg.Lookup("get_user_by!")
	assert.True(t, ok)
}

func TestBindEmptySuffix(t *testing.T) {
	r := resolver.Default()
	resolved, err := r.Resolve("", nil)
	require.NoError(t, err)
	reg, err := Bind(r.Catalog(), resolved, userModel(), newFakeRepo())
	require.NoError(t, err)

	_, ok := reg.Lookup("all")
	assert.True(t, ok)
	_, ok = reg.Lookup("get_by!")
	assert.True(t, ok)
}
