package apla

type ScopeKind int

const (
	RootScope ScopeKind = iota
	FunctionScope
	ClassScope
)

func (k ScopeKind) String() string {
	switch k {
	case RootScope:
		return "root"
	case FunctionScope:
		return "function"
	case ClassScope:
		return "class"
	}
	panic("unreachable")
}

// Scope is one link of the lookup chain. Local tables keep declaration order.
type Scope struct {
	Kind       ScopeKind
	Name       string
	ReturnType Type
	Parent     *Scope
	Variables  []*VariableSymbol
	Functions  []*FunctionSymbol
	Classes    []*ClassSymbol

	// Constructor marks the function scope of a constructor, where a bare
	// return yields the receiver.
	Constructor bool
}

func NewRootScope() *Scope {
	return &Scope{Kind: RootScope}
}

func NewFunctionScope(name string, returnType Type, parent *Scope) *Scope {
	return &Scope{
		Kind:       FunctionScope,
		Name:       name,
		ReturnType: returnType,
		Parent:     parent,
	}
}

func NewClassScope(name string, parent *Scope) *Scope {
	return &Scope{
		Kind:   ClassScope,
		Name:   name,
		Parent: parent,
	}
}

// NewMemberScope builds the parentless scope used to resolve the rhs of a
// member access. It holds the members the class has at this point.
func NewMemberScope(class *ClassSymbol) *Scope {
	s := NewClassScope(class.Name, nil)
	s.Variables = append(s.Variables, class.Fields...)
	s.Functions = append(s.Functions, class.Methods...)
	return s
}

func (s *Scope) Variable(name string) *VariableSymbol {
	for cur := s; cur != nil; cur = cur.Parent {
		for _, v := range cur.Variables {
			if v.Name == name {
				return v
			}
		}
	}
	return nil
}

func (s *Scope) Function(name string) *FunctionSymbol {
	for cur := s; cur != nil; cur = cur.Parent {
		for _, f := range cur.Functions {
			if f.Name == name {
				return f
			}
		}
	}
	return nil
}

func (s *Scope) Class(name string) *ClassSymbol {
	for cur := s; cur != nil; cur = cur.Parent {
		for _, c := range cur.Classes {
			if c.Name == name {
				return c
			}
		}
	}
	return nil
}

// Lookup resolves name as a variable, a function or a class, in that order.
func (s *Scope) Lookup(name string) Symbol {
	if v := s.Variable(name); v != nil {
		return v
	}
	if f := s.Function(name); f != nil {
		return f
	}
	if c := s.Class(name); c != nil {
		return c
	}
	return nil
}

func (s *Scope) SymbolExists(name string) bool {
	return s.Lookup(name) != nil
}

func (s *Scope) DeclareVariable(v *VariableSymbol) {
	s.Variables = append(s.Variables, v)
}

func (s *Scope) DeclareFunction(f *FunctionSymbol) {
	s.Functions = append(s.Functions, f)
}

func (s *Scope) DeclareClass(c *ClassSymbol) {
	s.Classes = append(s.Classes, c)
}

// EnclosingFunction walks up to the nearest function scope. A class scope
// ends the walk: class bodies are not executable.
func (s *Scope) EnclosingFunction() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		switch cur.Kind {
		case FunctionScope:
			return cur
		case ClassScope:
			return nil
		}
	}
	return nil
}

type scopeMark struct {
	variables, functions, classes int
}

func (s *Scope) mark() scopeMark {
	return scopeMark{len(s.Variables), len(s.Functions), len(s.Classes)}
}

// rollback forgets the local declarations made after m was taken.
func (s *Scope) rollback(m scopeMark) {
	s.Variables = s.Variables[:m.variables]
	s.Functions = s.Functions[:m.functions]
	s.Classes = s.Classes[:m.classes]
}
