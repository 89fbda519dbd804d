package object

import (
	"fmt"
	"iter"

	"github.com/goliatone/go-object/anyop"
)

// Array is a growable sequence of values. Slots created by Grow keep their
// address for the life of the array.
type Array struct {
	items []*Value
}

// NewArray returns an empty Array.
func NewArray() *Array {
	return &Array{}
}

// ArrayOf returns an Array holding values in order.
func ArrayOf(values ...any) *Array {
	a := &Array{items: make([]*Value, 0, len(values))}
	for _, v := range values {
		a.Append(v)
	}
	return a
}

// Len returns the number of slots.
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

// Grow appends an empty slot and returns it.
func (a *Array) Grow() *Value {
	slot := &Value{}
	a.items = append(a.items, slot)
	return slot
}

// Append stores x in a new trailing slot.
func (a *Array) Append(x any) {
	*a.Grow() = ValueOf(x)
}

// Set stores x at index i, growing the array with empty slots as needed.
// A negative index panics.
func (a *Array) Set(i int, x any) {
	if i < 0 {
		panic(fmt.Sprintf("object: negative array index %d", i))
	}
	for len(a.items) <= i {
		a.Grow()
	}
	*a.items[i] = ValueOf(x)
}

// At returns the value at i, or an empty Value when i is out of range.
func (a *Array) At(i int) Value {
	if a == nil || i < 0 || i >= len(a.items) {
		return Value{}
	}
	return *a.items[i]
}

// All iterates indices and values in order.
func (a *Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if a == nil {
			return
		}
		for i, slot := range a.items {
			if !yield(i, *slot) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	out := &Array{}
	if a == nil {
		return out
	}
	out.items = make([]*Value, len(a.items))
	for i, slot := range a.items {
		v := slot.clone()
		out.items[i] = &v
	}
	return out
}

// Compare orders arrays element by element, then by length.
func (a *Array) Compare(o *Array) anyop.Comparison {
	n := min(a.Len(), o.Len())
	for i := 0; i < n; i++ {
		if c := a.At(i).Compare(o.At(i)); c != anyop.Equal {
			return c
		}
	}
	return anyop.Ordered(a.Len(), o.Len())
}

// String renders a with the vocabulary root as base.
func (a *Array) String() string {
	return Format(a)
}

// ArrayAt reads the value at i as exactly T.
func ArrayAt[T any](a *Array, i int) (T, error) {
	return As[T](a.At(i))
}
