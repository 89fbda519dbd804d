package object

import (
	"iter"

	"github.com/goliatone/go-object/voc"
)

// Draft is the working copy of one object inside one transaction. It starts
// as a copy of the committed snapshot and is published by Commit. Mutations
// after the transaction closes fail with ErrTransactionClosed.
type Draft struct {
	ident *identity
	txn   *Transaction
	dict  *Dict
}

// Ref returns a non-counted handle to the object being modified.
func (d *Draft) Ref() Ref {
	return Ref{ident: d.ident}
}

// Transaction returns the owning transaction.
func (d *Draft) Transaction() *Transaction {
	return d.txn
}

func (d *Draft) open() error {
	if d.txn.State() != TxnOpen {
		return ErrTransactionClosed
	}
	return nil
}

// Len returns the number of keys in the working copy.
func (d *Draft) Len() int {
	return d.dict.Len()
}

// Contains reports whether the working copy holds name.
func (d *Draft) Contains(name voc.Name) bool {
	return d.dict.Contains(name)
}

// Get returns the working value under name.
func (d *Draft) Get(name voc.Name) (Value, bool) {
	return d.dict.Get(name)
}

// Value returns the working value under name, or an empty Value.
func (d *Draft) Value(name voc.Name) Value {
	return d.dict.Value(name)
}

// Keys returns the working keys in insertion order.
func (d *Draft) Keys() []voc.Name {
	return d.dict.Keys()
}

// All iterates the working copy in insertion order.
func (d *Draft) All() iter.Seq2[voc.Name, Value] {
	return d.dict.All()
}

// Set inserts or replaces name without a type check.
func (d *Draft) Set(name voc.Name, x any) error {
	if err := d.open(); err != nil {
		return err
	}
	d.dict.Set(name, x)
	return nil
}

// Assign stores x under name, converting it into the existing slot's type.
func (d *Draft) Assign(name voc.Name, x any) error {
	if err := d.open(); err != nil {
		return err
	}
	return d.dict.Assign(name, x)
}

// Erase removes name and reports whether it was present.
func (d *Draft) Erase(name voc.Name) bool {
	if d.open() != nil {
		return false
	}
	return d.dict.Erase(name)
}

// Dict returns the nested dict under name, creating it when absent.
func (d *Draft) Dict(name voc.Name) (*Dict, error) {
	if err := d.open(); err != nil {
		return nil, err
	}
	return d.dict.Dict(name)
}

// Array returns the nested array under name, creating it when absent.
func (d *Draft) Array(name voc.Name) (*Array, error) {
	if err := d.open(); err != nil {
		return nil, err
	}
	return d.dict.Array(name)
}

// Merge copies src's contents into the working copy, overwriting shared keys.
// When src is also being modified by the same transaction its working copy
// is used; otherwise its committed snapshot.
func (d *Draft) Merge(src Ref) error {
	if err := d.open(); err != nil {
		return err
	}
	if src.ident == d.ident {
		return nil
	}
	contents, err := d.txn.view(src)
	if err != nil {
		return err
	}
	d.dict.Merge(contents)
	return nil
}

// MergeDict copies a plain dict into the working copy.
func (d *Draft) MergeDict(src *Dict) error {
	if err := d.open(); err != nil {
		return err
	}
	d.dict.Merge(src)
	return nil
}

// Equal reports whether the working copy equals o's committed snapshot.
func (d *Draft) Equal(o Snapshot) bool {
	return d.dict.Equal(o.d)
}

// Put stores x under name with checked assignment.
func Put[T any](d *Draft, name voc.Name, x T) error {
	return d.Assign(name, x)
}

// Get reads the working value under name as exactly T.
func Get[T any](d *Draft, name voc.Name) (T, error) {
	return DictLookup[T](d.dict, name)
}
