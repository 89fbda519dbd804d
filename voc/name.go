// Package voc holds the process vocabulary: an append-only tree of interned
// names used as property keys and as first-class values.
//
// Identity is structural. Two names built with the same label, under the same
// or a different parent, are distinct. The tree has a single root that is
// created on first use and lives for the rest of the process; names are never
// removed or renamed.
package voc

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-object/anyop"
)

type node struct {
	label  string
	parent *node
	seq    uint64

	mu       sync.RWMutex
	children []*node
}

// Name is an interned vocabulary token. The zero Name is not part of any
// vocabulary.
type Name struct {
	n *node
}

var (
	rootOnce sync.Once
	root     *node
	nameSeq  atomic.Uint64
)

// Root returns the vocabulary root.
func Root() Name {
	rootOnce.Do(func() {
		root = &node{}
	})
	return Name{n: root}
}

// New constructs a name under parent and registers it exactly once. A zero
// parent means the vocabulary bootstrap is malformed and New panics.
func New(parent Name, label string) Name {
	if parent.n == nil {
		panic("voc: name " + label + " constructed without a parent")
	}
	n := &node{label: label, parent: parent.n, seq: nameSeq.Add(1)}
	parent.n.mu.Lock()
	parent.n.children = append(parent.n.children, n)
	parent.n.mu.Unlock()
	return Name{n: n}
}

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool {
	return n.n == nil
}

// Label returns the textual label.
func (n Name) Label() string {
	if n.n == nil {
		return ""
	}
	return n.n.label
}

// Parent returns the owning name; the root and the zero Name have none.
func (n Name) Parent() Name {
	if n.n == nil || n.n.parent == nil {
		return Name{}
	}
	return Name{n: n.n.parent}
}

// Children returns the names constructed under n in construction order.
func (n Name) Children() []Name {
	if n.n == nil {
		return nil
	}
	n.n.mu.RLock()
	defer n.n.mu.RUnlock()
	out := make([]Name, len(n.n.children))
	for i, child := range n.n.children {
		out[i] = Name{n: child}
	}
	return out
}

// Lookup returns the first child of parent labelled label.
func Lookup(parent Name, label string) (Name, bool) {
	for _, child := range parent.Children() {
		if child.Label() == label {
			return child, true
		}
	}
	return Name{}, false
}

// LookupOrNew returns the first child of parent labelled label and constructs
// it when there is none. The lookup and the insert happen under the parent's
// lock, so concurrent callers agree on one Name.
func LookupOrNew(parent Name, label string) Name {
	if parent.n == nil {
		panic("voc: name " + label + " constructed without a parent")
	}
	parent.n.mu.Lock()
	defer parent.n.mu.Unlock()
	for _, child := range parent.n.children {
		if child.label == label {
			return Name{n: child}
		}
	}
	n := &node{label: label, parent: parent.n, seq: nameSeq.Add(1)}
	parent.n.children = append(parent.n.children, n)
	return Name{n: n}
}

// Path renders n relative to base: the bare label for direct children of base
// and dotted labels for deeper names. Names outside base render from the top
// of their tree.
func (n Name) Path(base Name) string {
	if n.n == nil || n.n == base.n {
		return ""
	}
	var labels []string
	for cur := n.n; cur != nil && cur != base.n && cur.parent != nil; cur = cur.parent {
		labels = append(labels, cur.label)
	}
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return strings.Join(labels, ".")
}

// String renders n relative to the vocabulary root.
func (n Name) String() string {
	return n.Path(Root())
}

// Compare orders names by label, breaking ties by construction order.
func Compare(a, b Name) anyop.Comparison {
	switch {
	case a.n == b.n:
		return anyop.Equal
	case a.n == nil:
		return anyop.Less
	case b.n == nil:
		return anyop.Greater
	}
	if c := anyop.Ordered(a.n.label, b.n.label); c != anyop.Equal {
		return c
	}
	return anyop.Ordered(a.n.seq, b.n.seq)
}

// Walk visits n and its descendants depth first.
func Walk(n Name, fn func(name Name, depth int)) {
	walk(n, 0, fn)
}

func walk(n Name, depth int, fn func(Name, int)) {
	if n.n == nil {
		return
	}
	fn(n, depth)
	for _, child := range n.Children() {
		walk(child, depth+1, fn)
	}
}

// RegisterOps installs compare, is_compatible and convert for Name into r.
func RegisterOps(r *anyop.Registry) error {
	if err := anyop.RegisterPair[Name, Name](r, anyop.KindCompare, func(args ...any) any {
		a, aok := args[0].(Name)
		b, bok := args[1].(Name)
		if !aok || !bok {
			return anyop.Incomparable
		}
		return Compare(a, b)
	}); err != nil {
		return err
	}
	if err := anyop.RegisterPair[Name, Name](r, anyop.KindIsCompatible, func(...any) any { return true }); err != nil {
		return err
	}
	return anyop.RegisterPair[Name, Name](r, anyop.KindConvert, func(args ...any) any { return args[0] })
}

func init() {
	if err := RegisterOps(anyop.Default()); err != nil {
		panic(err)
	}
}
