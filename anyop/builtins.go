package anyop

import (
	"cmp"
	"errors"
	"math"

	"golang.org/x/exp/constraints"
)

// Number is the set of primitive numeric types with built-in operations.
type Number interface {
	constraints.Integer | constraints.Float
}

// RegisterBuiltins installs compare, is_compatible and convert for the
// primitive types: every integer width, float32, float64, bool and string.
func RegisterBuiltins(r *Registry) error {
	return errors.Join(
		registerCompareBuiltins(r),
		registerCompatibleBuiltins(r),
	)
}

func registerCompareBuiltins(r *Registry) error {
	return errors.Join(
		r.Register(KindCompare, NoType, NoType, func(...any) any { return Equal }),
		registerIntegerRow[int](r),
		registerIntegerRow[int8](r),
		registerIntegerRow[int16](r),
		registerIntegerRow[int32](r),
		registerIntegerRow[int64](r),
		registerIntegerRow[uint](r),
		registerIntegerRow[uint8](r),
		registerIntegerRow[uint16](r),
		registerIntegerRow[uint32](r),
		registerIntegerRow[uint64](r),
		registerFloatRow[float32](r),
		registerFloatRow[float64](r),
		RegisterPair[bool, bool](r, KindCompare, func(args ...any) any {
			a, aok := args[0].(bool)
			b, bok := args[1].(bool)
			if !aok || !bok {
				return Incomparable
			}
			switch {
			case a == b:
				return Equal
			case !a:
				return Less
			default:
				return Greater
			}
		}),
		RegisterPair[string, string](r, KindCompare, func(args ...any) any {
			a, aok := args[0].(string)
			b, bok := args[1].(string)
			if !aok || !bok {
				return Incomparable
			}
			return Ordered(a, b)
		}),
	)
}

func registerIntegerRow[A constraints.Integer](r *Registry) error {
	return errors.Join(
		integerCompare[A, int](r),
		integerCompare[A, int8](r),
		integerCompare[A, int16](r),
		integerCompare[A, int32](r),
		integerCompare[A, int64](r),
		integerCompare[A, uint](r),
		integerCompare[A, uint8](r),
		integerCompare[A, uint16](r),
		integerCompare[A, uint32](r),
		integerCompare[A, uint64](r),
		integerFloatCompare[A, float32](r),
		integerFloatCompare[A, float64](r),
	)
}

func registerFloatRow[A constraints.Float](r *Registry) error {
	return errors.Join(
		floatIntegerCompare[A, int](r),
		floatIntegerCompare[A, int8](r),
		floatIntegerCompare[A, int16](r),
		floatIntegerCompare[A, int32](r),
		floatIntegerCompare[A, int64](r),
		floatIntegerCompare[A, uint](r),
		floatIntegerCompare[A, uint8](r),
		floatIntegerCompare[A, uint16](r),
		floatIntegerCompare[A, uint32](r),
		floatIntegerCompare[A, uint64](r),
		floatCompare[A, float32](r),
		floatCompare[A, float64](r),
	)
}

func integerCompare[A, B constraints.Integer](r *Registry) error {
	return RegisterPair[A, B](r, KindCompare, func(args ...any) any {
		a, aok := args[0].(A)
		b, bok := args[1].(B)
		if !aok || !bok {
			return Incomparable
		}
		return compareIntegers(a, b)
	})
}

// compareIntegers normalizes sign and width: negatives only occur in signed
// types and fit int64, everything else fits uint64.
func compareIntegers[A, B constraints.Integer](a A, b B) Comparison {
	aNeg, bNeg := a < 0, b < 0
	switch {
	case aNeg && !bNeg:
		return Less
	case !aNeg && bNeg:
		return Greater
	case aNeg && bNeg:
		return FromInt(cmp.Compare(int64(a), int64(b)))
	default:
		return FromInt(cmp.Compare(uint64(a), uint64(b)))
	}
}

func floatCompare[A, B constraints.Float](r *Registry) error {
	return RegisterPair[A, B](r, KindCompare, func(args ...any) any {
		a, aok := args[0].(A)
		b, bok := args[1].(B)
		if !aok || !bok {
			return Incomparable
		}
		x, y := float64(a), float64(b)
		if math.IsNaN(x) || math.IsNaN(y) {
			return Incomparable
		}
		return Ordered(x, y)
	})
}

func integerFloatCompare[A constraints.Integer, B constraints.Float](r *Registry) error {
	return RegisterPair[A, B](r, KindCompare, func(args ...any) any {
		a, aok := args[0].(A)
		b, bok := args[1].(B)
		if !aok || !bok {
			return Incomparable
		}
		return compareIntegerFloat(a, float64(b))
	})
}

func floatIntegerCompare[A constraints.Float, B constraints.Integer](r *Registry) error {
	return RegisterPair[A, B](r, KindCompare, func(args ...any) any {
		a, aok := args[0].(A)
		b, bok := args[1].(B)
		if !aok || !bok {
			return Incomparable
		}
		return compareIntegerFloat(b, float64(a)).Reverse()
	})
}

const (
	twoTo63 = 9223372036854775808.0
	twoTo64 = 18446744073709551616.0
)

// compareIntegerFloat orders i against f without rounding i through float64:
// the integral part of f is compared in the integer domain and the fraction
// breaks ties.
func compareIntegerFloat[I constraints.Integer](i I, f float64) Comparison {
	switch {
	case math.IsNaN(f):
		return Incomparable
	case math.IsInf(f, 1):
		return Less
	case math.IsInf(f, -1):
		return Greater
	}
	whole := math.Trunc(f)
	var c Comparison
	switch {
	case whole >= twoTo64:
		return Less
	case whole < -twoTo63:
		return Greater
	case whole < 0:
		c = compareIntegers(i, int64(whole))
	default:
		c = compareIntegers(i, uint64(whole))
	}
	if c != Equal {
		return c
	}
	switch frac := f - whole; {
	case frac > 0:
		return Less
	case frac < 0:
		return Greater
	default:
		return Equal
	}
}

func alwaysCompatible(...any) any { return true }

func registerCompatibleBuiltins(r *Registry) error {
	return errors.Join(
		identity[int](r),
		identity[int8](r),
		identity[int16](r),
		identity[int32](r),
		identity[int64](r),
		identity[uint](r),
		identity[uint8](r),
		identity[uint16](r),
		identity[uint32](r),
		identity[uint64](r),
		identity[float32](r),
		identity[float64](r),
		identity[bool](r),
		identity[string](r),

		widen[int16, int8](r),
		widen[int32, int8](r),
		widen[int64, int8](r),
		widen[int, int8](r),
		widen[int32, int16](r),
		widen[int64, int16](r),
		widen[int, int16](r),
		widen[int64, int32](r),
		widen[int, int32](r),
		widen[int64, int](r),

		widen[uint16, uint8](r),
		widen[uint32, uint8](r),
		widen[uint64, uint8](r),
		widen[uint, uint8](r),
		widen[uint32, uint16](r),
		widen[uint64, uint16](r),
		widen[uint, uint16](r),
		widen[uint64, uint32](r),
		widen[uint, uint32](r),
		widen[uint64, uint](r),

		widen[int16, uint8](r),
		widen[int32, uint8](r),
		widen[int64, uint8](r),
		widen[int, uint8](r),
		widen[int32, uint16](r),
		widen[int64, uint16](r),
		widen[int, uint16](r),
		widen[int64, uint32](r),

		widen[float64, float32](r),
		widen[float32, int8](r),
		widen[float32, int16](r),
		widen[float32, uint8](r),
		widen[float32, uint16](r),
		widen[float64, int8](r),
		widen[float64, int16](r),
		widen[float64, int32](r),
		widen[float64, uint8](r),
		widen[float64, uint16](r),
		widen[float64, uint32](r),
	)
}

// identity registers T as compatible with itself; converting is a no-op.
func identity[T any](r *Registry) error {
	return errors.Join(
		RegisterPair[T, T](r, KindIsCompatible, alwaysCompatible),
		RegisterPair[T, T](r, KindConvert, func(args ...any) any {
			if v, ok := args[0].(T); ok {
				return v
			}
			return nil
		}),
	)
}

// widen registers a lossless FROM -> TO assignment.
func widen[TO, FROM Number](r *Registry) error {
	return errors.Join(
		RegisterPair[TO, FROM](r, KindIsCompatible, alwaysCompatible),
		RegisterPair[TO, FROM](r, KindConvert, func(args ...any) any {
			from, ok := args[0].(FROM)
			if !ok {
				return nil
			}
			return TO(from)
		}),
	)
}
