// Package object implements transactional, reference-counted property
// objects.
//
// An object is an identity owned by an Arena. Its committed state is an
// immutable Dict snapshot that readers load without locking. Writers open a
// Transaction, take a copy-on-write Draft of each object they touch, and
// publish every draft at once with Commit. A History records the prior and
// new snapshot of each committed transaction so it can be undone and redone.
//
// Keys are voc names. Values are type-erased and compared through the anyop
// registry, which also decides whether a checked Assign may widen a value
// into an existing slot.
//
//	obj := object.Make()
//	defer obj.Release()
//
//	txn := object.NewTransaction()
//	draft, _ := obj.Modify(txn)
//	_ = draft.Set(voc.Label, "hello")
//	_ = txn.Commit(history)
package object
