package object

import (
	"github.com/goliatone/go-object/anyop"
)

var (
	dictType  = anyop.TypeOf[*Dict]()
	arrayType = anyop.TypeOf[*Array]()
	refType   = anyop.TypeOf[Ref]()
)

// RegisterOps installs compare and is_compatible for object handles, dicts and
// arrays into r.
func RegisterOps(r *anyop.Registry) error {
	if err := anyop.RegisterPair[Ref, Ref](r, anyop.KindCompare, func(args ...any) any {
		a, aok := args[0].(Ref)
		b, bok := args[1].(Ref)
		if !aok || !bok {
			return anyop.Incomparable
		}
		return anyop.Ordered(a.ID(), b.ID())
	}); err != nil {
		return err
	}
	if err := anyop.RegisterPair[*Dict, *Dict](r, anyop.KindCompare, func(args ...any) any {
		a, aok := args[0].(*Dict)
		b, bok := args[1].(*Dict)
		if !aok || !bok {
			return anyop.Incomparable
		}
		return a.Compare(b)
	}); err != nil {
		return err
	}
	if err := anyop.RegisterPair[*Array, *Array](r, anyop.KindCompare, func(args ...any) any {
		a, aok := args[0].(*Array)
		b, bok := args[1].(*Array)
		if !aok || !bok {
			return anyop.Incomparable
		}
		return a.Compare(b)
	}); err != nil {
		return err
	}
	for _, id := range []anyop.TypeID{refType, dictType, arrayType} {
		if err := r.Register(anyop.KindIsCompatible, id, id, func(...any) any { return true }); err != nil {
			return err
		}
		if err := r.Register(anyop.KindConvert, id, id, func(args ...any) any { return args[0] }); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	if err := RegisterOps(anyop.Default()); err != nil {
		panic(err)
	}
}
