package apla

type TypeKind int

const (
	// InvalidType is the zero value: no type has been established yet.
	InvalidType TypeKind = iota
	VoidType
	NumericType
	TextType
	NamedType
)

type Type struct {
	Kind TypeKind
	Name string
}

var (
	Void    = Type{Kind: VoidType}
	Numeric = Type{Kind: NumericType}
	Text    = Type{Kind: TextType}
)

func Named(name string) Type {
	return Type{Kind: NamedType, Name: name}
}

func (t Type) String() string {
	switch t.Kind {
	case InvalidType:
		return "<unknown>"
	case VoidType:
		return "void"
	case NumericType:
		return "numeric"
	case TextType:
		return "text"
	case NamedType:
		return t.Name
	}
	panic("unreachable")
}

const STRING_ALIAS = "c_string"

var numericAliases = map[string]struct{}{
	"c_char":   {},
	"c_short":  {},
	"c_int":    {},
	"c_long":   {},
	"c_float":  {},
	"c_double": {},
}

func IsNumericAlias(name string) bool {
	_, ok := numericAliases[name]
	return ok
}

// IsPrimitiveAlias reports whether name spells one of the C primitive
// aliases rather than a class.
func IsPrimitiveAlias(name string) bool {
	return IsNumericAlias(name) || name == STRING_ALIAS
}

// Compatible is the closed coercion whitelist: equal types, Numeric against a
// numeric alias and Text against the string alias, in either order.
func Compatible(expected, found Type) bool {
	if expected == found {
		return true
	}
	return aliasOf(expected, found) || aliasOf(found, expected)
}

func aliasOf(literal, named Type) bool {
	if named.Kind != NamedType {
		return false
	}
	switch literal.Kind {
	case NumericType:
		return IsNumericAlias(named.Name)
	case TextType:
		return named.Name == STRING_ALIAS
	}
	return false
}
