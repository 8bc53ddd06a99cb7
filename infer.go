package apla

// Resolved is what checking an expression yields: a statically known type,
// a bound symbol, or both.
type Resolved struct {
	Type   Type
	Symbol Symbol
}

// KnownType returns the type of the expression if one is established, either
// directly or through its bound variable.
func (r Resolved) KnownType() (Type, bool) {
	if r.Type.Kind != InvalidType {
		return r.Type, true
	}
	if v, ok := r.Symbol.(*VariableSymbol); ok && v.HasType() {
		return v.Type, true
	}
	return Type{}, false
}

// InferAndCheck validates r against expected. An untyped variable bound to
// r takes expected as its type for good.
func InferAndCheck(r Resolved, expected Type, span Span) (Type, error) {
	if found, ok := r.KnownType(); ok {
		if !Compatible(expected, found) {
			return Type{}, NewError(TypeMismatch, span, "expected type %s, but found %s", expected, found)
		}
		return expected, nil
	}
	if v, ok := r.Symbol.(*VariableSymbol); ok {
		v.Type = expected
		return expected, nil
	}
	return Type{}, NewError(UninferableType, span, "cannot infer the type of the expression")
}

// InferAndCheck2 unifies two expressions when neither side has an expected
// type. Only one side may be unknown.
func InferAndCheck2(a, b Resolved, span Span) (Type, error) {
	if typ, ok := b.KnownType(); ok {
		return InferAndCheck(a, typ, span)
	}
	if typ, ok := a.KnownType(); ok {
		return InferAndCheck(b, typ, span)
	}
	return Type{}, NewError(UninferableType, span, "cannot infer the type of either side")
}
