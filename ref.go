package object

import (
	"iter"

	"github.com/goliatone/go-object/voc"
)

// Ref is a handle to an object identity. Handles returned by Make, Retain and
// Arena.Lookup are counted: each must be released exactly once, and the
// identity becomes stale when the last one is released. A Ref stored in a
// committed snapshot is counted too, for as long as that snapshot is the
// object's current one, so a child outlives the handle it was created with.
// Refs held by drafts, detached dicts, history records and events hold no
// count. Objects that refer to each other keep each other alive.
type Ref struct {
	ident *identity
}

// IsNil reports whether r refers to no object.
func (r Ref) IsNil() bool {
	return r.ident == nil
}

// ID returns the arena-local object id; zero for a nil Ref.
func (r Ref) ID() uint64 {
	if r.ident == nil {
		return 0
	}
	return r.ident.id
}

// Arena returns the arena owning the object.
func (r Ref) Arena() *Arena {
	if r.ident == nil {
		return nil
	}
	return r.ident.arena
}

// IsStale reports whether the object was released.
func (r Ref) IsStale() bool {
	return r.ident != nil && r.ident.stale.Load()
}

// RefCount returns the number of outstanding counted handles.
func (r Ref) RefCount() int64 {
	if r.ident == nil {
		return 0
	}
	return r.ident.refs.Load()
}

// Retain returns a new counted handle. Retaining a stale object returns a nil
// Ref.
func (r Ref) Retain() Ref {
	if r.ident == nil {
		return Ref{}
	}
	for {
		n := r.ident.refs.Load()
		if n <= 0 {
			return Ref{}
		}
		if r.ident.refs.CompareAndSwap(n, n+1) {
			return r
		}
	}
}

// Release gives up one counted handle. Releasing the last one makes the
// identity stale. Extra releases are ignored.
func (r Ref) Release() {
	if r.ident == nil {
		return
	}
	for {
		n := r.ident.refs.Load()
		if n <= 0 {
			return
		}
		if r.ident.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				r.ident.arena.release(r.ident)
			}
			return
		}
	}
}

// Snapshot returns the latest committed snapshot.
func (r Ref) Snapshot() Snapshot {
	if r.ident == nil {
		return Snapshot{}
	}
	return Snapshot{d: r.ident.snap.Load()}
}

// Len returns the number of keys in the committed snapshot.
func (r Ref) Len() int {
	return r.Snapshot().Len()
}

// Contains reports whether the committed snapshot holds name.
func (r Ref) Contains(name voc.Name) bool {
	return r.Snapshot().Contains(name)
}

// Get returns the committed value under name.
func (r Ref) Get(name voc.Name) Value {
	return r.Snapshot().Value(name)
}

// Modify returns the working copy of the object inside txn, creating it on
// first use.
func (r Ref) Modify(txn *Transaction) (*Draft, error) {
	return txn.draft(r)
}

// Equal reports whether r and o refer to the same object.
func (r Ref) Equal(o Ref) bool {
	return r.ident == o.ident
}

// String renders the object graph reachable from r.
func (r Ref) String() string {
	return Format(r)
}

// Snapshot is a read-only view of one committed version of an object. Reads
// return detached copies of nested containers.
type Snapshot struct {
	d *Dict
}

// IsZero reports whether s views nothing, as for a nil or stale Ref.
func (s Snapshot) IsZero() bool {
	return s.d == nil
}

// Len returns the number of keys.
func (s Snapshot) Len() int {
	return s.d.Len()
}

// Contains reports whether name is present.
func (s Snapshot) Contains(name voc.Name) bool {
	return s.d.Contains(name)
}

// Get returns the value under name.
func (s Snapshot) Get(name voc.Name) (Value, bool) {
	v, ok := s.d.Get(name)
	return v.clone(), ok
}

// Value returns the value under name, or an empty Value.
func (s Snapshot) Value(name voc.Name) Value {
	return s.d.Value(name).clone()
}

// Keys returns the keys in insertion order.
func (s Snapshot) Keys() []voc.Name {
	return s.d.Keys()
}

// All iterates keys and values in insertion order.
func (s Snapshot) All() iter.Seq2[voc.Name, Value] {
	return func(yield func(voc.Name, Value) bool) {
		for k, v := range s.d.All() {
			if !yield(k, v.clone()) {
				return
			}
		}
	}
}

// Dict returns a detached deep copy of the snapshot.
func (s Snapshot) Dict() *Dict {
	return s.d.Clone()
}

// Equal reports whether s and o hold Equal contents.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.d.Equal(o.d)
}

// Lookup reads the committed value under name as exactly T.
func Lookup[T any](s Snapshot, name voc.Name) (T, error) {
	out, err := As[T](s.Value(name))
	return out, withName(err, name)
}
