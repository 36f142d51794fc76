package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Equal(t, 12, c.Len())

	expected := []Op{
		OpUpdateStrict, OpUpdate,
		OpGetByStrict, OpGetBy,
		OpGetStrict, OpGet,
		OpDeleteStrict, OpDelete,
		OpCreateStrict, OpCreate,
		OpChange, OpAll,
	}
	assert.Equal(t, expected, c.IDs())
}

func TestDefaultArities(t *testing.T) {
	c := Default()

	tests := []struct {
		op    Op
		arity int
	}{
		{OpAll, 1},
		{OpGet, 2},
		{OpGetStrict, 2},
		{OpGetBy, 2},
		{OpGetByStrict, 2},
		{OpCreate, 1},
		{OpCreateStrict, 1},
		{OpUpdate, 2},
		{OpUpdateStrict, 2},
		{OpDelete, 1},
		{OpDeleteStrict, 1},
		{OpChange, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			spec, ok := c.Lookup(tt.op)
			require.True(t, ok)
			assert.Equal(t, tt.arity, spec.Arity)
		})
	}
}

func TestUniqueIDs(t *testing.T) {
	seen := make(map[Op]bool)
	for _, spec := range Default().Specs() {
		assert.False(t, seen[spec.ID], "duplicate operation id %q", spec.ID)
		seen[spec.ID] = true
	}
}

func TestOpStrict(t *testing.T) {
	assert.True(t, OpCreateStrict.Strict())
	assert.True(t, OpGetByStrict.Strict())
	assert.False(t, OpCreate.Strict())
	assert.False(t, OpChange.Strict())
	assert.False(t, Op("").Strict())
}

func TestOpBase(t *testing.T) {
	assert.Equal(t, OpCreate, OpCreateStrict.Base())
	assert.Equal(t, OpGetBy, OpGetByStrict.Base())
	assert.Equal(t, OpAll, OpAll.Base())
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Default().Lookup("truncate")
	assert.False(t, ok)
	assert.False(t, Default().Contains("truncate"))
}

func TestNewCopiesSpecs(t *testing.T) {
	specs := []Spec{{OpAll, 1}}
	c := New(specs...)
	specs[0] = Spec{OpGet, 9}

	got := c.Specs()
	require.Len(t, got, 1)
	assert.Equal(t, Spec{OpAll, 1}, got[0])
}
