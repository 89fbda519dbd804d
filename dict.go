package object

import (
	"iter"

	"github.com/goliatone/go-object/anyop"
	"github.com/goliatone/go-object/voc"
)

type dictEntry struct {
	key   voc.Name
	value Value
	live  bool
}

// Dict is an insertion-ordered mapping from names to values. The zero Dict is
// empty and ready to use. A Dict is a plain value: it carries no identity and
// no synchronization.
type Dict struct {
	entries []dictEntry
	index   map[voc.Name]int
	size    int
}

// NewDict returns an empty Dict.
func NewDict() *Dict {
	return &Dict{}
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return d.size
}

// Contains reports whether name is present.
func (d *Dict) Contains(name voc.Name) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[name]
	return ok
}

// Get returns the value stored under name.
func (d *Dict) Get(name voc.Name) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	i, ok := d.index[name]
	if !ok {
		return Value{}, false
	}
	return d.entries[i].value, true
}

// Value returns the value stored under name, or an empty Value.
func (d *Dict) Value(name voc.Name) Value {
	v, _ := d.Get(name)
	return v
}

// Set inserts or replaces the value under name without any type check.
func (d *Dict) Set(name voc.Name, x any) {
	d.put(name, ValueOf(x))
}

// Assign stores x under name. When the key already holds a value, x must be
// compatible with that value's type and is converted into it.
func (d *Dict) Assign(name voc.Name, x any) error {
	value := ValueOf(x)
	current, ok := d.Get(name)
	if ok {
		converted, err := assignable(current.t, value)
		if err != nil {
			if mismatch, ok := err.(*IncompatibleAssignmentError); ok {
				mismatch.Name = name
			}
			return err
		}
		value = converted
	}
	d.put(name, value)
	return nil
}

func (d *Dict) put(name voc.Name, value Value) {
	if d.index == nil {
		d.index = make(map[voc.Name]int)
	}
	if i, ok := d.index[name]; ok {
		d.entries[i].value = value
		return
	}
	d.index[name] = len(d.entries)
	d.entries = append(d.entries, dictEntry{key: name, value: value, live: true})
	d.size++
}

// Erase removes name and reports whether it was present.
func (d *Dict) Erase(name voc.Name) bool {
	if d == nil {
		return false
	}
	i, ok := d.index[name]
	if !ok {
		return false
	}
	d.entries[i] = dictEntry{}
	delete(d.index, name)
	d.size--
	if len(d.entries) > 8 && d.size < len(d.entries)/2 {
		d.compact()
	}
	return true
}

func (d *Dict) compact() {
	entries := make([]dictEntry, 0, d.size)
	for _, e := range d.entries {
		if !e.live {
			continue
		}
		d.index[e.key] = len(entries)
		entries = append(entries, e)
	}
	d.entries = entries
}

// Dict returns the nested dict under name, creating an empty one when the key
// is absent.
func (d *Dict) Dict(name voc.Name) (*Dict, error) {
	return nested(d, name, NewDict)
}

// Array returns the nested array under name, creating an empty one when the
// key is absent.
func (d *Dict) Array(name voc.Name) (*Array, error) {
	return nested(d, name, NewArray)
}

func nested[T any](d *Dict, name voc.Name, create func() *T) (*T, error) {
	if v, ok := d.Get(name); ok {
		out, err := As[*T](v)
		if err != nil {
			return nil, withName(err, name)
		}
		return out, nil
	}
	out := create()
	d.put(name, Value{v: out, t: anyop.TypeOf[*T]()})
	return out, nil
}

// All iterates keys and values in insertion order.
func (d *Dict) All() iter.Seq2[voc.Name, Value] {
	return func(yield func(voc.Name, Value) bool) {
		if d == nil {
			return
		}
		for _, e := range d.entries {
			if !e.live {
				continue
			}
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []voc.Name {
	keys := make([]voc.Name, 0, d.Len())
	for k := range d.All() {
		keys = append(keys, k)
	}
	return keys
}

// Clone returns a deep copy. Nested dicts and arrays are copied; object
// handles are shared.
func (d *Dict) Clone() *Dict {
	out := &Dict{}
	if d == nil || d.size == 0 {
		return out
	}
	out.entries = make([]dictEntry, 0, d.size)
	out.index = make(map[voc.Name]int, d.size)
	for k, v := range d.All() {
		out.index[k] = len(out.entries)
		out.entries = append(out.entries, dictEntry{key: k, value: v.clone(), live: true})
	}
	out.size = d.size
	return out
}

// Merge copies every entry of src into d, overwriting keys d already holds.
func (d *Dict) Merge(src *Dict) {
	if src == nil || src == d {
		return
	}
	for k, v := range src.All() {
		d.put(k, v.clone())
	}
}

// Compare orders dicts by size, then entry by entry in d's order. Two dicts
// are Equal when they hold the same keys with Equal values.
func (d *Dict) Compare(o *Dict) anyop.Comparison {
	if c := anyop.Ordered(d.Len(), o.Len()); c != anyop.Equal {
		return c
	}
	for k, v := range d.All() {
		other, ok := o.Get(k)
		if !ok {
			return anyop.Incomparable
		}
		if c := v.Compare(other); c != anyop.Equal {
			return c
		}
	}
	return anyop.Equal
}

// Equal reports whether d and o compare Equal.
func (d *Dict) Equal(o *Dict) bool {
	return d.Compare(o) == anyop.Equal
}

// String renders d with the vocabulary root as base.
func (d *Dict) String() string {
	return Format(d)
}

// DictLookup reads the value under name as exactly T. A missing key is a
// type mismatch against the empty type.
func DictLookup[T any](d *Dict, name voc.Name) (T, error) {
	out, err := As[T](d.Value(name))
	return out, withName(err, name)
}
