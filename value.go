package object

import (
	"github.com/goliatone/go-object/anyop"
)

// Value is a type-erased slot holding one value of any registered type, or
// nothing. Values cannot be compared with ==; use Compare or Equal so the
// anyop registry decides.
type Value struct {
	_ [0]func()

	v any
	t anyop.TypeID
}

// ValueOf wraps x. Dict and Array payloads are stored by pointer; passing a
// Dict or Array by value stores a copy. A *Draft or Snapshot is stored as the
// object handle or a detached dict respectively.
func ValueOf(x any) Value {
	switch x := x.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case *Value:
		if x == nil {
			return Value{}
		}
		return *x
	case Dict:
		return Value{v: x.Clone(), t: dictType}
	case Array:
		return Value{v: x.Clone(), t: arrayType}
	case *Draft:
		return Value{v: x.Ref(), t: refType}
	case Snapshot:
		return Value{v: x.Dict(), t: dictType}
	}
	return Value{v: x, t: anyop.TypeIDOf(x)}
}

// Type returns the TypeID of the held value; NoType when empty.
func (v Value) Type() anyop.TypeID {
	return v.t
}

// IsEmpty reports whether v holds nothing.
func (v Value) IsEmpty() bool {
	return v.t == anyop.NoType
}

// Any returns the held value.
func (v Value) Any() any {
	return v.v
}

// Compare orders v against o through the default registry.
func (v Value) Compare(o Value) anyop.Comparison {
	return anyop.Compare(v.v, o.v)
}

// Equal reports whether v and o compare Equal.
func (v Value) Equal(o Value) bool {
	return v.Compare(o) == anyop.Equal
}

// String renders v with the vocabulary root as base.
func (v Value) String() string {
	return Format(v)
}

// As reads v as exactly T.
func As[T any](v Value) (T, error) {
	out, ok := v.v.(T)
	if !ok || v.t != anyop.TypeOf[T]() {
		var zero T
		return zero, &TypeMismatchError{Want: anyop.TypeOf[T](), Got: v.t}
	}
	return out, nil
}

// clone deep copies container payloads; every other payload is immutable or
// a non-owning handle.
func (v Value) clone() Value {
	switch x := v.v.(type) {
	case *Dict:
		return Value{v: x.Clone(), t: v.t}
	case *Array:
		return Value{v: x.Clone(), t: v.t}
	}
	return v
}

// assignable converts x into a value fit for a slot of type slot. An empty
// slot accepts anything.
func assignable(slot anyop.TypeID, x Value) (Value, error) {
	if slot == anyop.NoType || slot == x.t {
		return x, nil
	}
	registry := anyop.Default()
	if !registry.IsCompatible(slot, x.t) {
		return Value{}, &IncompatibleAssignmentError{Slot: slot, Value: x.t}
	}
	converted, ok := registry.Convert(slot, x.v)
	if !ok {
		return Value{}, &IncompatibleAssignmentError{Slot: slot, Value: x.t}
	}
	return Value{v: converted, t: slot}, nil
}
