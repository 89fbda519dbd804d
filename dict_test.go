package object_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	object "github.com/goliatone/go-object"
	"github.com/goliatone/go-object/anyop"
	"github.com/goliatone/go-object/voc"
)

var (
	rock  = voc.New(voc.Root(), "rock")
	hello = voc.New(voc.Root(), "hello")
	world = voc.New(hello, "world")
	count = voc.New(voc.Root(), "count")
	ratio = voc.New(voc.Root(), "ratio")
	flag  = voc.New(voc.Root(), "flag")
	title = voc.New(voc.Root(), "title")
)

func TestValueReportsTypeAndEmptiness(t *testing.T) {
	empty := object.ValueOf(nil)
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, anyop.NoType, empty.Type())

	v := object.ValueOf(int32(4))
	assert.False(t, v.IsEmpty())
	assert.Equal(t, anyop.TypeOf[int32](), v.Type())

	got, err := object.As[int32](v)
	require.NoError(t, err)
	assert.Equal(t, int32(4), got)

	_, err = object.As[int64](v)
	require.ErrorIs(t, err, object.ErrTypeMismatch)
	var mismatch *object.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, anyop.TypeOf[int64](), mismatch.Want)
	assert.Equal(t, anyop.TypeOf[int32](), mismatch.Got)
}

func TestValueEqualityGoesThroughRegistry(t *testing.T) {
	assert.True(t, object.ValueOf(int8(3)).Equal(object.ValueOf(uint64(3))))
	assert.False(t, object.ValueOf("3").Equal(object.ValueOf(3)))
	assert.Equal(t, anyop.Less, object.ValueOf(1.5).Compare(object.ValueOf(2)))
	assert.True(t, object.ValueOf(nil).Equal(object.Value{}))
}

func TestDictSetAndEraseAcrossTypes(t *testing.T) {
	d := object.NewDict()
	names := []voc.Name{rock, count, ratio, flag, title}
	d.Set(rock, 3)
	d.Set(count, uint16(7))
	d.Set(ratio, 0.25)
	d.Set(flag, true)
	d.Set(title, "granite")
	require.Equal(t, 5, d.Len())

	for i, name := range names {
		assert.True(t, d.Contains(name))
		assert.True(t, d.Erase(name))
		assert.False(t, d.Contains(name))
		assert.Equal(t, len(names)-i-1, d.Len())
	}
	assert.False(t, d.Erase(rock))
}

func TestDictKeepsInsertionOrderAcrossErase(t *testing.T) {
	d := object.NewDict()
	var names []voc.Name
	for i := 0; i < 20; i++ {
		name := voc.New(voc.Root(), "k")
		names = append(names, name)
		d.Set(name, i)
	}
	for i := 0; i < 20; i += 2 {
		d.Erase(names[i])
	}
	d.Set(names[3], "replaced")

	keys := d.Keys()
	require.Len(t, keys, 10)
	for i, key := range keys {
		assert.Equal(t, names[2*i+1], key)
	}
	assert.Equal(t, "replaced", d.Value(names[3]).Any())
}

func TestDictAssignChecksCompatibility(t *testing.T) {
	d := object.NewDict()
	require.NoError(t, d.Assign(count, int64(1)))

	require.NoError(t, d.Assign(count, int16(9)))
	v, err := object.DictLookup[int64](d, count)
	require.NoError(t, err)
	assert.Equal(t, int64(9), v)

	err = d.Assign(count, "nine")
	require.ErrorIs(t, err, object.ErrIncompatibleAssignment)
	var incompatible *object.IncompatibleAssignmentError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, count, incompatible.Name)
	assert.Equal(t, anyop.TypeOf[int64](), incompatible.Slot)

	d.Set(count, "nine")
	s, err := object.DictLookup[string](d, count)
	require.NoError(t, err)
	assert.Equal(t, "nine", s)
}

func TestDictLookupOfMissingKeyIsMismatch(t *testing.T) {
	d := object.NewDict()
	_, err := object.DictLookup[int](d, rock)
	var mismatch *object.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, anyop.NoType, mismatch.Got)
	assert.Equal(t, rock, mismatch.Name)
}

func TestNestedDictIsCreatedOnDemand(t *testing.T) {
	d := object.NewDict()
	inner, err := d.Dict(hello)
	require.NoError(t, err)
	inner.Set(world, rock)

	again, err := d.Dict(hello)
	require.NoError(t, err)
	assert.Same(t, inner, again)
	assert.Equal(t, rock, again.Value(world).Any())

	d.Set(count, 1)
	_, err = d.Dict(count)
	require.ErrorIs(t, err, object.ErrTypeMismatch)
	_, err = d.Array(hello)
	require.ErrorIs(t, err, object.ErrTypeMismatch)
}

func TestDictCloneIsDeep(t *testing.T) {
	d := object.NewDict()
	inner, _ := d.Dict(hello)
	inner.Set(world, 1)

	clone := d.Clone()
	cloned, _ := clone.Dict(hello)
	cloned.Set(world, 2)

	assert.Equal(t, 1, inner.Value(world).Any())
	assert.False(t, d.Equal(clone))
}

func TestDictMergeIsUnionWithSourceWinning(t *testing.T) {
	a := object.NewDict()
	a.Set(rock, 1)
	a.Set(flag, true)
	b := object.NewDict()
	b.Set(rock, 2)
	b.Set(title, "x")

	a.Merge(b)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 2, a.Value(rock).Any())
	assert.Equal(t, 2, b.Len())
	for k, v := range b.All() {
		assert.True(t, v.Equal(a.Value(k)))
	}
}

func TestDictEquality(t *testing.T) {
	a := object.NewDict()
	a.Set(rock, 1)
	a.Set(flag, true)
	b := object.NewDict()
	b.Set(flag, true)
	b.Set(rock, int64(1))

	assert.True(t, a.Equal(b))
	assert.True(t, object.ValueOf(a).Equal(object.ValueOf(b)))

	b.Set(rock, 2)
	assert.False(t, a.Equal(b))
	assert.True(t, object.NewDict().Equal(&object.Dict{}))
}

func TestArrayGrowKeepsSlotAddresses(t *testing.T) {
	a := object.NewArray()
	first := a.Grow()
	*first = object.ValueOf("first")
	for i := 0; i < 64; i++ {
		a.Append(i)
	}
	*first = object.ValueOf("still first")
	assert.Equal(t, "still first", a.At(0).Any())
	assert.Equal(t, 65, a.Len())
}

func TestArraySetGrowsWithEmptySlots(t *testing.T) {
	a := object.NewArray()
	a.Set(2, 7)
	require.Equal(t, 3, a.Len())
	assert.True(t, a.At(0).IsEmpty())
	assert.True(t, a.At(1).IsEmpty())
	v, err := object.ArrayAt[int](a, 2)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.True(t, a.At(99).IsEmpty())

	assert.Panics(t, func() { a.Set(-1, 0) })
}

func TestArrayCompare(t *testing.T) {
	assert.Equal(t, anyop.Equal, object.ArrayOf(1, 2).Compare(object.ArrayOf(int8(1), uint8(2))))
	assert.Equal(t, anyop.Less, object.ArrayOf(1, 2).Compare(object.ArrayOf(1, 3)))
	assert.Equal(t, anyop.Less, object.ArrayOf(1).Compare(object.ArrayOf(1, 0)))
}
