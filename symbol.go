package apla

// Symbol is one of *VariableSymbol, *FunctionSymbol or *ClassSymbol. Symbols
// are shared by pointer: scopes, class member lists and resolved expressions
// all observe the same record.
type Symbol interface {
	SymbolName() string
	symbol()
}

type VariableSymbol struct {
	Mutability  Mutability
	Name        string
	Type        Type
	Initialized bool
	Owner       *ClassSymbol
}

func NewVariableSymbol(mutability Mutability, name string, typ Type, initialized bool) *VariableSymbol {
	return &VariableSymbol{
		Mutability:  mutability,
		Name:        name,
		Type:        typ,
		Initialized: initialized,
	}
}

func (v *VariableSymbol) HasType() bool {
	return v.Type.Kind != InvalidType
}

type FunctionKind int

const (
	NormalFunction FunctionKind = iota
	ExternalFunction
	ConstructorFunction
)

func (k FunctionKind) String() string {
	switch k {
	case NormalFunction:
		return "function"
	case ExternalFunction:
		return "external function"
	case ConstructorFunction:
		return "constructor"
	}
	panic("unreachable")
}

type ParamSymbol struct {
	Name string
	Type Type
}

type FunctionSymbol struct {
	Name       string
	ReturnType Type
	Kind       FunctionKind
	Params     []ParamSymbol
	Owner      *ClassSymbol
}

type ClassSymbol struct {
	Name    string
	Fields  []*VariableSymbol
	Methods []*FunctionSymbol
}

func NewClassSymbol(name string) *ClassSymbol {
	return &ClassSymbol{Name: name}
}

func (c *ClassSymbol) Type() Type {
	return Named(c.Name)
}

func (c *ClassSymbol) AddField(field *VariableSymbol) {
	field.Owner = c
	c.Fields = append(c.Fields, field)
}

func (c *ClassSymbol) AddMethod(method *FunctionSymbol) {
	method.Owner = c
	c.Methods = append(c.Methods, method)
}

func (v *VariableSymbol) SymbolName() string { return v.Name }
func (f *FunctionSymbol) SymbolName() string { return f.Name }
func (c *ClassSymbol) SymbolName() string    { return c.Name }

func (v *VariableSymbol) symbol() {}
func (f *FunctionSymbol) symbol() {}
func (c *ClassSymbol) symbol()    {}
