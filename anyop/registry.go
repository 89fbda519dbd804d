package anyop

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Kind names an operation family.
type Kind string

const (
	// KindCompare orders two values; implementations return a Comparison.
	KindCompare Kind = "compare"
	// KindIsCompatible reports whether the second type may be assigned into a
	// slot of the first type; implementations return a bool.
	KindIsCompatible Kind = "is_compatible"
	// KindConvert converts a value of the second type into the first type.
	KindConvert Kind = "convert"
)

// Func is a boxed operation implementation.
type Func func(args ...any) any

var (
	// ErrDuplicateOperation is returned when a (kind, a, b) entry already exists.
	ErrDuplicateOperation = errors.New("anyop: operation already registered")
	// ErrRegistryFrozen is returned when registering after the first lookup.
	ErrRegistryFrozen = errors.New("anyop: registry is frozen")
)

type opKey struct {
	kind Kind
	a, b TypeID
}

// Entry describes one registered operation for diagnostics.
type Entry struct {
	Kind Kind
	A    TypeID
	B    TypeID
}

// Registry maps (kind, type A, type B) to an implementation.
type Registry struct {
	mu     sync.RWMutex
	frozen atomic.Bool
	ops    map[opKey]Func
}

// NewRegistry constructs an empty, writable registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[opKey]Func)}
}

// Register installs fn for the ordered pair (a, b). The first registration
// wins.
func (r *Registry) Register(kind Kind, a, b TypeID, fn Func) error {
	if fn == nil {
		return fmt.Errorf("anyop: %s(%s, %s) implementation is nil", kind, a, b)
	}
	if kind == "" {
		return fmt.Errorf("anyop: operation kind must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return fmt.Errorf("%w: %s(%s, %s)", ErrRegistryFrozen, kind, a, b)
	}
	if r.ops == nil {
		r.ops = make(map[opKey]Func)
	}
	key := opKey{kind: kind, a: a, b: b}
	if _, exists := r.ops[key]; exists {
		return fmt.Errorf("%w: %s(%s, %s)", ErrDuplicateOperation, kind, a, b)
	}
	r.ops[key] = fn
	return nil
}

// MustRegister is Register for start-up code; it panics on error.
func (r *Registry) MustRegister(kind Kind, a, b TypeID, fn Func) {
	if err := r.Register(kind, a, b, fn); err != nil {
		panic(err)
	}
}

// RegisterPair registers fn for the static pair (A, B).
func RegisterPair[A, B any](r *Registry, kind Kind, fn Func) error {
	return r.Register(kind, TypeOf[A](), TypeOf[B](), fn)
}

// Freeze ends the registration phase.
func (r *Registry) Freeze() {
	if r == nil || r.frozen.Load() {
		return
	}
	r.mu.Lock()
	r.frozen.Store(true)
	r.mu.Unlock()
}

// Frozen reports whether the registry has become read-only.
func (r *Registry) Frozen() bool {
	return r != nil && r.frozen.Load()
}

// Lookup returns the implementation for (kind, a, b). The first lookup freezes
// the registry.
func (r *Registry) Lookup(kind Kind, a, b TypeID) (Func, bool) {
	if r == nil {
		return nil, false
	}
	if !r.frozen.Load() {
		r.Freeze()
	}
	fn, ok := r.ops[opKey{kind: kind, a: a, b: b}]
	return fn, ok
}

// Invoke runs the implementation for (kind, a, b). A miss yields (nil, false).
func (r *Registry) Invoke(kind Kind, a, b TypeID, args ...any) (any, bool) {
	fn, ok := r.Lookup(kind, a, b)
	if !ok {
		return nil, false
	}
	return fn(args...), true
}

// Invoke is the statically typed form of Registry.Invoke.
func Invoke[A, B any](r *Registry, kind Kind, args ...any) (any, bool) {
	return r.Invoke(kind, TypeOf[A](), TypeOf[B](), args...)
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}

// Entries returns the registered keys ordered by kind then type identities.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	entries := make([]Entry, 0, len(r.ops))
	for key := range r.ops {
		entries = append(entries, Entry{Kind: key.kind, A: key.a, B: key.b})
	}
	r.mu.RUnlock()
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		if entries[i].A != entries[j].A {
			return entries[i].A < entries[j].A
		}
		return entries[i].B < entries[j].B
	})
	return entries
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process registry with the built-in operations
// installed. Packages add their own operations from init functions.
func Default() *Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		// A fresh registry cannot collide with the built-ins.
		_ = RegisterBuiltins(r)
		defaultRegistry = r
	})
	return defaultRegistry
}
