package apla

import (
	"fmt"
	"strings"
)

type Node interface {
	Span() Span
	node()
}

// File is the node sequence of one compilation unit.
type File struct {
	Name  string
	Nodes []Node
}

type Ident struct {
	Loc  Span
	Name string
}

type ValueKind int

const (
	DecimalValue ValueKind = iota
	StringValue
	IdentifierValue
	SelfValue
)

type ValueNode struct {
	Loc   Span
	Kind  ValueKind
	Value string

	// Filled by the checker.
	Type    Type
	ViaSelf bool
}

type Operator int

const (
	Plus Operator = iota
	Minus
	Multiply
	Divide
	MemberAccess
	Assignment
)

func (o Operator) String() string {
	switch o {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case MemberAccess:
		return "."
	case Assignment:
		return "="
	}
	panic("unreachable")
}

type BinaryNode struct {
	Loc   Span
	Lhs   Node
	Op    Operator
	OpLoc Span
	Rhs   Node

	// Filled by the checker. Class and Static describe the lhs of a member
	// access: the class it belongs to and whether it names the class itself.
	Type   Type
	Class  string
	Static bool
}

type Mutability int

const (
	Constant Mutability = iota
	Mutable
)

func (m Mutability) String() string {
	if m == Constant {
		return "const"
	}
	return "var"
}

type VarDecl struct {
	Loc        Span
	Mutability Mutability
	Name       Ident
	Annotation *Ident
	Value      Node

	// Filled by the checker.
	Type Type
}

type Param struct {
	Name     Ident
	TypeName Ident

	// Filled by the checker.
	Type Type
}

// FunDecl is a function, method or constructor. Body is nil for external
// functions.
type FunDecl struct {
	Loc         Span
	Name        Ident
	Params      []Param
	Returns     *Ident
	Body        []Node
	Constructor bool

	// Filled by the checker.
	ReturnType Type
	Class      string
}

type ReturnNode struct {
	Loc   Span
	Value Node
}

type CallNode struct {
	Loc  Span
	Name Ident
	Args []Node

	// Filled by the checker.
	Type    Type
	Class   string
	Kind    FunctionKind
	ViaSelf bool
}

type IncludeNode struct {
	Loc  Span
	Path string
}

type ClassDecl struct {
	Loc  Span
	Name Ident
	Body []Node
}

func (v *ValueNode) Span() Span   { return v.Loc }
func (b *BinaryNode) Span() Span  { return b.Loc }
func (v *VarDecl) Span() Span     { return v.Loc }
func (f *FunDecl) Span() Span     { return f.Loc }
func (r *ReturnNode) Span() Span  { return r.Loc }
func (c *CallNode) Span() Span    { return c.Loc }
func (i *IncludeNode) Span() Span { return i.Loc }
func (c *ClassDecl) Span() Span   { return c.Loc }

func (v *ValueNode) node()   {}
func (b *BinaryNode) node()  {}
func (v *VarDecl) node()     {}
func (f *FunDecl) node()     {}
func (r *ReturnNode) node()  {}
func (c *CallNode) node()    {}
func (i *IncludeNode) node() {}
func (c *ClassDecl) node()   {}

func (v *ValueNode) String() string {
	switch v.Kind {
	case StringValue:
		return fmt.Sprintf("%q", v.Value)
	case SelfValue:
		return "self"
	}
	return v.Value
}

func (b *BinaryNode) String() string {
	if b.Op == MemberAccess {
		return fmt.Sprintf("%s.%s", b.Lhs, b.Rhs)
	}
	return fmt.Sprintf("(%s %s %s)", b.Lhs, b.Op, b.Rhs)
}

func (v *VarDecl) String() string {
	var builder strings.Builder
	builder.WriteString(v.Mutability.String())
	builder.WriteByte(' ')
	builder.WriteString(v.Name.Name)
	if v.Type.Kind != InvalidType {
		builder.WriteString(": ")
		builder.WriteString(v.Type.String())
	} else if v.Annotation != nil {
		builder.WriteString(": ")
		builder.WriteString(v.Annotation.Name)
	}
	if v.Value != nil {
		builder.WriteString(" = ")
		builder.WriteString(fmt.Sprint(v.Value))
	}
	return builder.String()
}

func (f *FunDecl) String() string {
	var builder strings.Builder
	switch {
	case f.Body == nil:
		builder.WriteString("extern fn ")
		builder.WriteString(f.Name.Name)
	case f.Constructor:
		builder.WriteString("new")
	default:
		builder.WriteString("fn ")
		builder.WriteString(f.Name.Name)
	}
	builder.WriteByte('(')
	for i, param := range f.Params {
		if i != 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(param.Name.Name)
		builder.WriteString(": ")
		builder.WriteString(param.TypeName.Name)
	}
	builder.WriteByte(')')
	if f.ReturnType.Kind != InvalidType && !f.Constructor {
		builder.WriteString(": ")
		builder.WriteString(f.ReturnType.String())
	} else if f.Returns != nil {
		builder.WriteString(": ")
		builder.WriteString(f.Returns.Name)
	}
	if f.Body != nil {
		builder.WriteString(" =>")
		writeBody(&builder, f.Body)
	}
	return builder.String()
}

func (r *ReturnNode) String() string {
	if r.Value == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", r.Value)
}

func (c *CallNode) String() string {
	args := make([]string, 0, len(c.Args))
	for _, arg := range c.Args {
		args = append(args, fmt.Sprint(arg))
	}
	return fmt.Sprintf("%s(%s)", c.Name.Name, strings.Join(args, ", "))
}

func (i *IncludeNode) String() string {
	return fmt.Sprintf("include %q", i.Path)
}

func (c *ClassDecl) String() string {
	var builder strings.Builder
	builder.WriteString("class ")
	builder.WriteString(c.Name.Name)
	writeBody(&builder, c.Body)
	return builder.String()
}

func writeBody(builder *strings.Builder, body []Node) {
	for _, node := range body {
		for _, line := range strings.Split(fmt.Sprint(node), "\n") {
			builder.WriteString("\n\t")
			builder.WriteString(line)
		}
	}
}
