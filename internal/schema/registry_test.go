package schema

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structsearch/structsearch/internal/valuetype"
)

func TestRegistry_RegisterAndResolve(t *testing.T) {
	reg := NewRegistry()
	d, ok := Builtin(TypeText, TypeOptions{Store: true})
	require.True(t, ok)

	reg.Register("title", d)

	vt, ok := reg.Resolve("title")
	require.True(t, ok)
	assert.Equal(t, "title", vt.Field())
	assert.Equal(t, valuetype.KindText, vt.Kind())
	assert.True(t, vt.Store())
}

func TestRegistry_Resolve_Absent(t *testing.T) {
	reg := NewRegistry()

	vt, ok := reg.Resolve("nope")
	assert.False(t, ok)
	assert.Nil(t, vt)
}

// Duplicate registration for the same name overwrites the previous
// binding: last write wins, no error.
func TestRegistry_Register_LastWriteWins(t *testing.T) {
	reg := NewRegistry()
	text, _ := Builtin(TypeText, TypeOptions{})
	long, _ := Builtin(TypeLong, TypeOptions{})

	reg.Register("amount", text)
	reg.Register("amount", long)

	vt, ok := reg.Resolve("amount")
	require.True(t, ok)
	assert.Equal(t, valuetype.KindNumeric, vt.Kind())

	defs := reg.Definitions()
	require.Len(t, defs, 1)
	assert.Equal(t, TypeLong, defs[0].TypeKey)
}

func TestRegistry_Fields_Sorted(t *testing.T) {
	reg := NewRegistry()
	d, _ := Builtin(TypeText, TypeOptions{})

	reg.Register("zebra", d)
	reg.Register("alpha", d)
	reg.Register("mid", d)

	assert.Equal(t, []string{"alpha", "mid", "zebra"}, reg.Fields())
	assert.Equal(t, 3, reg.Len())
}

// Registration happens once at setup; resolves run concurrently afterwards.
func TestRegistry_ConcurrentResolve(t *testing.T) {
	reg := NewRegistry()
	d, _ := Builtin(TypeDouble, TypeOptions{})
	reg.Register("price", d)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				vt, ok := reg.Resolve("price")
				assert.True(t, ok)
				assert.Equal(t, "price", vt.Field())
				_, _ = reg.Resolve("missing")
			}
		}()
	}
	wg.Wait()
}

func TestBuiltin_AllKeys(t *testing.T) {
	for _, key := range []string{TypeText, TypeKeyword, TypeInt, TypeLong, TypeFloat, TypeDouble, TypeDate} {
		d, ok := Builtin(key, TypeOptions{})
		require.True(t, ok, "key %s", key)
		assert.Equal(t, key, d.Key)

		vt := d.New("f")
		assert.Equal(t, "f", vt.Field())
	}

	_, ok := Builtin("geo", TypeOptions{})
	assert.False(t, ok)
}

func TestBuiltin_DateOptions(t *testing.T) {
	d, ok := Builtin(TypeDate, TypeOptions{
		Store:      true,
		Resolution: valuetype.ResolutionDay,
		Layout:     "2006-01-02",
	})
	require.True(t, ok)

	vt := d.New("published").(*valuetype.Date)
	assert.Equal(t, valuetype.ResolutionDay, vt.Resolution())
	assert.True(t, vt.Store())
}
