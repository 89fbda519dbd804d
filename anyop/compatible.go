package anyop

// IsCompatible reports whether a value of type from may be assigned into a
// slot of type to. A missing registration means incompatible.
func (r *Registry) IsCompatible(to, from TypeID) bool {
	result, ok := r.Invoke(KindIsCompatible, to, from)
	if !ok {
		return false
	}
	compatible, _ := result.(bool)
	return compatible
}

// Convert converts v into type to. It reports false on a dispatch miss.
func (r *Registry) Convert(to TypeID, v any) (any, bool) {
	result, ok := r.Invoke(KindConvert, to, TypeIDOf(v), v)
	if !ok || (result == nil && v != nil) {
		return nil, false
	}
	return result, true
}

// IsCompatible reports whether FROM may be assigned into TO using the Default
// registry.
func IsCompatible[TO, FROM any]() bool {
	return Default().IsCompatible(TypeOf[TO](), TypeOf[FROM]())
}

// IsCompatibleValue reports whether v may be assigned into a TO slot.
func IsCompatibleValue[TO any](v any) bool {
	return Default().IsCompatible(TypeOf[TO](), TypeIDOf(v))
}

// Convert converts v into TO using the Default registry.
func Convert[TO any](v any) (TO, bool) {
	var zero TO
	result, ok := Default().Convert(TypeOf[TO](), v)
	if !ok {
		return zero, false
	}
	out, ok := result.(TO)
	if !ok {
		return zero, false
	}
	return out, true
}
