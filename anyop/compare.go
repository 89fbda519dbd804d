package anyop

import "cmp"

// Comparison is the outcome of a compare operation.
type Comparison int8

const (
	Less         Comparison = -1
	Equal        Comparison = 0
	Greater      Comparison = 1
	Incomparable Comparison = 2
)

func (c Comparison) String() string {
	switch c {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "incomparable"
	}
}

// Reverse swaps Less and Greater.
func (c Comparison) Reverse() Comparison {
	switch c {
	case Less:
		return Greater
	case Greater:
		return Less
	default:
		return c
	}
}

// FromInt maps a cmp-style result onto a Comparison.
func FromInt(c int) Comparison {
	switch {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	default:
		return Equal
	}
}

// Ordered compares two values of one ordered type.
func Ordered[T cmp.Ordered](a, b T) Comparison {
	return FromInt(cmp.Compare(a, b))
}

// Compare orders a against b through the registry. A dispatch miss, or an
// implementation returning something other than a Comparison, is Incomparable.
func (r *Registry) Compare(a, b any) Comparison {
	result, ok := r.Invoke(KindCompare, TypeIDOf(a), TypeIDOf(b), a, b)
	if !ok {
		return Incomparable
	}
	c, ok := result.(Comparison)
	if !ok {
		return Incomparable
	}
	return c
}

// Compare orders a against b using the Default registry.
func Compare(a, b any) Comparison {
	return Default().Compare(a, b)
}
