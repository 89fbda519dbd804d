package anyop

import (
	"reflect"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// TypeID is an opaque, process-stable identity for a runtime type. It is only
// meaningful as a dispatch key.
type TypeID uint32

// NoType identifies the empty value (a nil interface).
const NoType TypeID = 0

var (
	typeSeq   atomic.Uint32
	typeIDs   = xsync.NewMapOf[reflect.Type, TypeID]()
	typeNames = xsync.NewMapOf[TypeID, reflect.Type]()
)

// TypeOf returns the identity of T.
func TypeOf[T any]() TypeID {
	return typeIDFor(reflect.TypeFor[T]())
}

// TypeIDOf returns the identity of the dynamic type held by v, or NoType when
// v is nil.
func TypeIDOf(v any) TypeID {
	if v == nil {
		return NoType
	}
	return typeIDFor(reflect.TypeOf(v))
}

func typeIDFor(t reflect.Type) TypeID {
	if t == nil {
		return NoType
	}
	if id, ok := typeIDs.Load(t); ok {
		return id
	}
	id, _ := typeIDs.LoadOrCompute(t, func() TypeID {
		next := TypeID(typeSeq.Add(1))
		typeNames.Store(next, t)
		return next
	})
	return id
}

// String returns the Go type name behind id for diagnostics.
func (id TypeID) String() string {
	if id == NoType {
		return "<empty>"
	}
	if t, ok := typeNames.Load(id); ok {
		return t.String()
	}
	return "<unknown>"
}
