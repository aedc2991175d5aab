package binding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type waterTable struct {
	Model      int32 `uniform:"M"`
	View       int32 `uniform:"V"`
	Time       int32 `uniform:"time"`
	Reflection int32 `uniform:"reflectionTexture"`
	untagged   int32
}

func fakeProgram(locations map[string]int32) LookupFunc {
	return func(name string) int32 {
		if loc, ok := locations[name]; ok {
			return loc
		}
		return -1
	}
}

func TestResolve(t *testing.T) {
	var u waterTable
	missing, err := Resolve(&u, fakeProgram(map[string]int32{
		"M":                 0,
		"V":                 3,
		"reflectionTexture": 7,
	}))
	require.NoError(t, err)

	assert.Equal(t, int32(0), u.Model)
	assert.Equal(t, int32(3), u.View)
	assert.Equal(t, Unresolved, u.Time)
	assert.Equal(t, int32(7), u.Reflection)
	assert.Equal(t, int32(0), u.untagged)
	assert.Equal(t, []string{"time"}, missing)
}

func TestResolveLooksUpOnce(t *testing.T) {
	calls := map[string]int{}
	var u waterTable
	_, err := Resolve(&u, func(name string) int32 {
		calls[name]++
		return 1
	})
	require.NoError(t, err)

	assert.Len(t, calls, 4)
	for name, n := range calls {
		assert.Equal(t, 1, n, "uniform %s", name)
	}
}

func TestResolveRejectsBadTables(t *testing.T) {
	lookup := fakeProgram(nil)

	_, err := Resolve(waterTable{}, lookup)
	assert.True(t, errors.Is(err, ErrNotTable))

	var nilTable *waterTable
	_, err = Resolve(nilTable, lookup)
	assert.True(t, errors.Is(err, ErrNotTable))

	wrongType := struct {
		View float32 `uniform:"V"`
	}{}
	_, err = Resolve(&wrongType, lookup)
	assert.Error(t, err)

	hidden := struct {
		view int32 `uniform:"V"`
	}{}
	_, err = Resolve(&hidden, lookup)
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	want := []string{"M", "V", "time", "reflectionTexture"}
	assert.Equal(t, want, Names(waterTable{}))
	assert.Equal(t, want, Names(&waterTable{}))
	assert.Nil(t, Names(42))
}
