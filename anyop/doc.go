// Package anyop resolves operations over type-erased values by dispatching on
// a pair of runtime type identities.
//
// Modules register implementations for an operation Kind and an ordered pair
// of TypeIDs during start-up. The first lookup freezes a Registry; from then on
// the table is read-only and lookups take no locks.
//
// A lookup miss is not an error. Callers receive (nil, false) and must read it
// as "no relation": Compare reports Incomparable and IsCompatible reports
// false. Registration is first-wins; a duplicate returns ErrDuplicateOperation
// and leaves the table untouched.
//
//	r := anyop.NewRegistry()
//	_ = anyop.RegisterBuiltins(r)
//	r.Compare(int32(3), uint64(3)) // anyop.Equal
package anyop
