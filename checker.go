package apla

import "errors"

// RECEIVER is the name of the variable bound to the instance inside class
// scopes.
const RECEIVER = "self"

// errAborted unwinds the walk once the checker stops collecting errors.
var errAborted = errors.New("checking aborted")

// Checker walks a parsed file, resolves every identifier and produces the
// rewritten, type-annotated node sequence. Errors are collected per
// statement: a malformed statement is skipped and checking continues with
// the next one, unless FailFast is set or MaxErrors is reached.
type Checker struct {
	FailFast  bool
	MaxErrors int

	scope    *Scope
	class    *ClassSymbol
	includes []*IncludeNode
	errors   ErrorList
}

func NewChecker() *Checker {
	return &Checker{
		scope: NewRootScope(),
	}
}

// Check checks a whole file with the default settings.
func Check(file *File) (*File, error) {
	return NewChecker().Check(file)
}

// Scope returns the scope the checker currently declares into.
func (c *Checker) Scope() *Scope {
	return c.scope
}

func (c *Checker) Check(file *File) (*File, error) {
	c.errors = nil
	c.includes = nil
	nodes := make([]Node, 0, len(file.Nodes))
	for _, node := range file.Nodes {
		_, out, err := c.checkNode(node, nil)
		if err != nil {
			if c.recover(err) != nil {
				break
			}
			continue
		}
		if out != nil {
			nodes = append(nodes, out)
		}
	}
	if err := c.errors.Err(); err != nil {
		return nil, err
	}
	result := make([]Node, 0, len(c.includes)+len(nodes))
	for _, include := range c.includes {
		result = append(result, include)
	}
	result = append(result, nodes...)
	return &File{Name: file.Name, Nodes: result}, nil
}

// CheckStmt checks one more top-level statement against the accumulated
// state. Includes are returned as they are instead of being hoisted. A
// statement that fails declares nothing, so it can be entered again.
func (c *Checker) CheckStmt(node Node) (Resolved, Node, error) {
	c.errors = nil
	mark := c.scope.mark()
	r, out, err := c.checkNode(node, nil)
	if err != nil && err != errAborted {
		c.errors.Add(Errors(err)...)
	}
	if err := c.errors.Err(); err != nil {
		c.scope.rollback(mark)
		return Resolved{}, nil, err
	}
	if include, ok := node.(*IncludeNode); ok {
		out = include
	}
	return r, out, nil
}

// recover records err and reports whether the walk has to stop.
func (c *Checker) recover(err error) error {
	if err == errAborted {
		return err
	}
	c.errors.Add(Errors(err)...)
	if c.FailFast || (c.MaxErrors > 0 && len(c.errors) >= c.MaxErrors) {
		return errAborted
	}
	return nil
}

// checkNode dispatches on the node kind. member is the synthetic scope of
// a member access: when set, the single name lookup of node goes to it
// instead of the scope chain.
func (c *Checker) checkNode(node Node, member *Scope) (Resolved, Node, error) {
	switch n := node.(type) {
	case *ValueNode:
		return c.checkValue(n, member)
	case *CallNode:
		return c.checkCall(n, member)
	}
	if member != nil {
		return Resolved{}, nil, NewError(InvalidAccessTarget, node.Span(), "expected a member name after '.'")
	}
	switch n := node.(type) {
	case *BinaryNode:
		return c.checkBinary(n)
	case *VarDecl:
		return c.checkVarDecl(n)
	case *FunDecl:
		return c.checkFunDecl(n)
	case *ReturnNode:
		return c.checkReturn(n)
	case *IncludeNode:
		return c.checkInclude(n)
	case *ClassDecl:
		return c.checkClassDecl(n)
	}
	panic("unreachable")
}

func (c *Checker) lookupScope(member *Scope) *Scope {
	if member != nil {
		return member
	}
	return c.scope
}

func (c *Checker) checkValue(n *ValueNode, member *Scope) (Resolved, Node, error) {
	out := *n
	switch n.Kind {
	case DecimalValue, StringValue:
		if member != nil {
			return Resolved{}, nil, NewError(InvalidAccessTarget, n.Loc, "expected a member name after '.', but got a literal")
		}
		out.Type = Numeric
		if n.Kind == StringValue {
			out.Type = Text
		}
		return Resolved{Type: out.Type}, &out, nil
	case SelfValue:
		if member != nil {
			return Resolved{}, nil, NewError(InvalidAccessTarget, n.Loc, "expected a member name after '.', but got %s", RECEIVER)
		}
		self := c.scope.Variable(RECEIVER)
		if self == nil {
			return Resolved{}, nil, NewError(InvalidContext, n.Loc, "%s can only be used inside a class", RECEIVER)
		}
		out.Type = self.Type
		return Resolved{Symbol: self}, &out, nil
	}
	scope := c.lookupScope(member)
	if v := scope.Variable(n.Value); v != nil {
		out.Type = v.Type
		out.ViaSelf = member == nil && v.Owner != nil
		return Resolved{Symbol: v}, &out, nil
	}
	if class := scope.Class(n.Value); class != nil {
		out.Type = class.Type()
		return Resolved{Type: class.Type(), Symbol: class}, &out, nil
	}
	if member != nil {
		return Resolved{}, nil, NewError(UnresolvedSymbol, n.Loc, "class %s has no field %s", member.Name, n.Value)
	}
	return Resolved{}, nil, NewError(UnresolvedSymbol, n.Loc, "unresolved symbol: %s", n.Value)
}

func (c *Checker) checkBinary(n *BinaryNode) (Resolved, Node, error) {
	switch n.Op {
	case MemberAccess:
		return c.checkMemberAccess(n)
	case Assignment:
		return c.checkAssignment(n)
	}
	return c.checkArithmetic(n)
}

// checkArithmetic is the dispatch point for + - * /. Operand typing needs a
// numeric promotion policy that does not exist yet.
func (c *Checker) checkArithmetic(n *BinaryNode) (Resolved, Node, error) {
	return Resolved{}, nil, NewError(UnsupportedConstruct, n.OpLoc, "operator %s is not supported yet", n.Op)
}

func (c *Checker) checkMemberAccess(n *BinaryNode) (Resolved, Node, error) {
	lhs, lhsNode, err := c.checkNode(n.Lhs, nil)
	if err != nil {
		return Resolved{}, nil, err
	}
	class, static, err := c.accessedClass(lhs, n.Lhs.Span())
	if err != nil {
		return Resolved{}, nil, err
	}
	rhs, rhsNode, err := c.checkNode(n.Rhs, NewMemberScope(class))
	if err != nil {
		return Resolved{}, nil, err
	}
	out := *n
	out.Lhs = lhsNode
	out.Rhs = rhsNode
	out.Type, _ = rhs.KnownType()
	out.Class = class.Name
	out.Static = static
	return rhs, &out, nil
}

// accessedClass finds the class whose members the rhs of a member access
// may name. static is true when the lhs is the class itself.
func (c *Checker) accessedClass(lhs Resolved, span Span) (class *ClassSymbol, static bool, err error) {
	switch s := lhs.Symbol.(type) {
	case *ClassSymbol:
		return s, true, nil
	case *FunctionSymbol:
		return nil, false, NewError(InvalidAccessTarget, span, "cannot access members of function %s", s.Name)
	case *VariableSymbol:
		if !s.HasType() {
			return nil, false, NewError(InvalidAccessTarget, span, "type of %s is not known", s.Name)
		}
	}
	typ, ok := lhs.KnownType()
	if !ok {
		return nil, false, NewError(InvalidAccessTarget, span, "nothing to access")
	}
	if typ.Kind == NamedType {
		if class := c.scope.Class(typ.Name); class != nil {
			return class, false, nil
		}
	}
	return nil, false, NewError(InvalidAccessTarget, span, "type %s has no members", typ)
}

func (c *Checker) checkAssignment(n *BinaryNode) (Resolved, Node, error) {
	lhs, lhsNode, err := c.checkNode(n.Lhs, nil)
	if err != nil {
		return Resolved{}, nil, err
	}
	rhs, rhsNode, err := c.checkNode(n.Rhs, nil)
	if err != nil {
		return Resolved{}, nil, err
	}
	var target *VariableSymbol
	switch s := lhs.Symbol.(type) {
	case *VariableSymbol:
		if s.Mutability == Constant && s.Initialized {
			return Resolved{}, nil, NewError(InvalidAssignmentTarget, n.Lhs.Span(), "cannot assign twice to constant %s", s.Name)
		}
		target = s
	case *FunctionSymbol:
		return Resolved{}, nil, NewError(InvalidAssignmentTarget, n.Lhs.Span(), "cannot assign to function %s", s.Name)
	case *ClassSymbol:
		return Resolved{}, nil, NewError(InvalidAssignmentTarget, n.Lhs.Span(), "cannot assign to class %s", s.Name)
	default:
		return Resolved{}, nil, NewError(InvalidAssignmentTarget, n.Lhs.Span(), "expression cannot be assigned to")
	}
	typ, err := InferAndCheck2(lhs, rhs, n.Loc)
	if err != nil {
		return Resolved{}, nil, assignmentError(err, target, rhs)
	}
	target.Initialized = true
	out := *n
	out.Lhs = annotate(lhsNode, typ)
	out.Rhs = annotate(rhsNode, typ)
	out.Type = typ
	return Resolved{Type: Void}, &out, nil
}

// assignmentError restates a type mismatch from the point of view of the
// assigned variable.
func assignmentError(err error, target *VariableSymbol, rhs Resolved) error {
	e, ok := err.(*Error)
	if !ok || e.Kind != TypeMismatch {
		return err
	}
	found, _ := rhs.KnownType()
	return NewError(TypeMismatch, e.Span, "cannot assign %s to %s of type %s", found, target.Name, target.Type)
}

// annotate fills in a type established by inference after node was checked.
func annotate(node Node, typ Type) Node {
	if v, ok := node.(*ValueNode); ok && v.Type.Kind == InvalidType {
		v.Type = typ
	}
	return node
}

func (c *Checker) resolveTypeName(id Ident) (Type, error) {
	if IsPrimitiveAlias(id.Name) {
		return Named(id.Name), nil
	}
	if class := c.scope.Class(id.Name); class != nil {
		return class.Type(), nil
	}
	return Type{}, NewError(UnresolvedSymbol, id.Loc, "unknown type: %s", id.Name)
}

func (c *Checker) checkVarDecl(n *VarDecl) (Resolved, Node, error) {
	name := n.Name.Name
	if c.scope.SymbolExists(name) {
		return Resolved{}, nil, NewError(DuplicateDeclaration, n.Name.Loc, "%s is already declared", name)
	}
	out := *n
	var declared *Type
	if n.Annotation != nil {
		typ, err := c.resolveTypeName(*n.Annotation)
		if err != nil {
			return Resolved{}, nil, err
		}
		declared = &typ
	}
	switch {
	case n.Value != nil:
		value, valueNode, err := c.checkNode(n.Value, nil)
		if err != nil {
			return Resolved{}, nil, err
		}
		if declared != nil {
			if out.Type, err = InferAndCheck(value, *declared, n.Value.Span()); err != nil {
				return Resolved{}, nil, err
			}
		} else if typ, ok := value.KnownType(); ok {
			out.Type = typ
		} else {
			return Resolved{}, nil, NewError(UninferableType, n.Value.Span(), "cannot infer the type of %s", name)
		}
		out.Value = annotate(valueNode, out.Type)
	case declared != nil:
		out.Type = *declared
	default:
		return Resolved{}, nil, NewError(UninferableType, n.Name.Loc, "%s needs a type or a value", name)
	}
	if out.Type.Kind == VoidType {
		return Resolved{}, nil, NewError(TypeMismatch, n.Name.Loc, "%s cannot have type void", name)
	}
	v := NewVariableSymbol(n.Mutability, name, out.Type, n.Value != nil)
	if c.scope.Kind == ClassScope {
		v.Owner = c.class
	}
	c.scope.DeclareVariable(v)
	return Resolved{Type: Void, Symbol: v}, &out, nil
}

func (c *Checker) checkFunDecl(n *FunDecl) (Resolved, Node, error) {
	name := n.Name.Name
	if c.scope.SymbolExists(name) {
		return Resolved{}, nil, NewError(DuplicateDeclaration, n.Name.Loc, "%s is already declared", name)
	}
	if c.scope.Kind == FunctionScope {
		return Resolved{}, nil, NewError(InvalidContext, n.Name.Loc, "functions cannot be declared inside functions")
	}
	out := *n
	fn := &FunctionSymbol{
		Name:       name,
		ReturnType: Void,
		Kind:       NormalFunction,
	}
	switch {
	case n.Body == nil:
		fn.Kind = ExternalFunction
	case n.Constructor:
		fn.Kind = ConstructorFunction
	}
	if c.scope.Kind == ClassScope {
		fn.Owner = c.class
		out.Class = c.class.Name
	}
	switch {
	case n.Constructor:
		if fn.Owner == nil {
			return Resolved{}, nil, NewError(InvalidContext, n.Name.Loc, "constructors can only be declared inside a class")
		}
		fn.ReturnType = fn.Owner.Type()
	case n.Returns != nil:
		typ, err := c.resolveTypeName(*n.Returns)
		if err != nil {
			return Resolved{}, nil, err
		}
		fn.ReturnType = typ
	}
	out.ReturnType = fn.ReturnType
	out.Params = make([]Param, 0, len(n.Params))
	for _, param := range n.Params {
		typ, err := c.resolveTypeName(param.TypeName)
		if err != nil {
			return Resolved{}, nil, err
		}
		param.Type = typ
		out.Params = append(out.Params, param)
		fn.Params = append(fn.Params, ParamSymbol{Name: param.Name.Name, Type: typ})
	}

	c.scope.DeclareFunction(fn)

	parent := c.scope
	c.scope = NewFunctionScope(name, fn.ReturnType, parent)
	c.scope.Constructor = n.Constructor
	defer func() { c.scope = parent }()
	for _, param := range out.Params {
		if c.scope.SymbolExists(param.Name.Name) {
			return Resolved{}, nil, NewError(DuplicateDeclaration, param.Name.Loc, "%s is already declared", param.Name.Name)
		}
		c.scope.DeclareVariable(NewVariableSymbol(Constant, param.Name.Name, param.Type, true))
	}
	if n.Body != nil {
		body := make([]Node, 0, len(n.Body))
		for _, stmt := range n.Body {
			_, node, err := c.checkNode(stmt, nil)
			if err != nil {
				if err := c.recover(err); err != nil {
					return Resolved{}, nil, err
				}
				continue
			}
			if node != nil {
				body = append(body, node)
			}
		}
		out.Body = body
	}
	return Resolved{Type: Void, Symbol: fn}, &out, nil
}

func (c *Checker) checkReturn(n *ReturnNode) (Resolved, Node, error) {
	fn := c.scope.EnclosingFunction()
	if fn == nil {
		return Resolved{}, nil, NewError(InvalidContext, n.Loc, "return outside of a function")
	}
	out := *n
	if n.Value == nil {
		if fn.ReturnType.Kind != VoidType && !fn.Constructor {
			return Resolved{}, nil, NewError(TypeMismatch, n.Loc, "%s must return a value of type %s", fn.Name, fn.ReturnType)
		}
		return Resolved{Type: Void}, &out, nil
	}
	value, valueNode, err := c.checkNode(n.Value, nil)
	if err != nil {
		return Resolved{}, nil, err
	}
	typ, err := InferAndCheck(value, fn.ReturnType, n.Value.Span())
	if err != nil {
		return Resolved{}, nil, err
	}
	out.Value = annotate(valueNode, typ)
	return Resolved{Type: Void}, &out, nil
}

func (c *Checker) checkCall(n *CallNode, member *Scope) (Resolved, Node, error) {
	fn := c.lookupScope(member).Function(n.Name.Name)
	if fn == nil {
		if member != nil {
			return Resolved{}, nil, NewError(UnresolvedSymbol, n.Name.Loc, "class %s has no method %s", member.Name, n.Name.Name)
		}
		return Resolved{}, nil, NewError(UnresolvedSymbol, n.Name.Loc, "unresolved function: %s", n.Name.Name)
	}
	args := make([]Node, 0, len(n.Args))
	for i, param := range fn.Params {
		if i >= len(n.Args) {
			return Resolved{}, nil, NewError(ArityMismatch, n.Loc, "not enough arguments in call to %s: expected %d, but got %d", fn.Name, len(fn.Params), len(n.Args))
		}
		arg, argNode, err := c.checkNode(n.Args[i], nil)
		if err != nil {
			return Resolved{}, nil, err
		}
		typ, err := InferAndCheck(arg, param.Type, n.Args[i].Span())
		if err != nil {
			return Resolved{}, nil, err
		}
		args = append(args, annotate(argNode, typ))
	}
	if len(n.Args) > len(fn.Params) {
		return Resolved{}, nil, NewError(ArityMismatch, n.Args[len(fn.Params)].Span(), "too many arguments in call to %s: expected %d, but got %d", fn.Name, len(fn.Params), len(n.Args))
	}
	out := *n
	out.Args = args
	out.Type = fn.ReturnType
	out.Kind = fn.Kind
	if fn.Owner != nil {
		out.Class = fn.Owner.Name
		out.ViaSelf = member == nil && fn.Kind != ConstructorFunction
	}
	return Resolved{Type: fn.ReturnType}, &out, nil
}

func (c *Checker) checkInclude(n *IncludeNode) (Resolved, Node, error) {
	c.includes = append(c.includes, n)
	return Resolved{Type: Void}, nil, nil
}

func (c *Checker) checkClassDecl(n *ClassDecl) (Resolved, Node, error) {
	name := n.Name.Name
	if c.scope.Kind != RootScope {
		return Resolved{}, nil, NewError(InvalidContext, n.Name.Loc, "classes can only be declared at the top level")
	}
	if IsPrimitiveAlias(name) {
		return Resolved{}, nil, NewError(DuplicateDeclaration, n.Name.Loc, "%s is a primitive type", name)
	}
	if c.scope.SymbolExists(name) {
		return Resolved{}, nil, NewError(DuplicateDeclaration, n.Name.Loc, "%s is already declared", name)
	}
	class := NewClassSymbol(name)
	c.scope.DeclareClass(class)

	parent, outer := c.scope, c.class
	c.scope, c.class = NewClassScope(name, parent), class
	defer func() { c.scope, c.class = parent, outer }()
	c.scope.DeclareVariable(NewVariableSymbol(Constant, RECEIVER, class.Type(), true))

	body := make([]Node, 0, len(n.Body))
	for _, member := range n.Body {
		var r Resolved
		var out Node
		var err error
		switch m := member.(type) {
		case *VarDecl:
			if m.Value != nil {
				err = NewError(UnsupportedConstruct, m.Value.Span(), "default values for fields are not supported")
				break
			}
			if r, out, err = c.checkVarDecl(m); err == nil {
				class.AddField(r.Symbol.(*VariableSymbol))
			}
		case *FunDecl:
			if r, out, err = c.checkFunDecl(m); err == nil {
				class.AddMethod(r.Symbol.(*FunctionSymbol))
			}
		default:
			err = NewError(InvalidContext, member.Span(), "only fields and methods can be declared in a class")
		}
		if err != nil {
			if err := c.recover(err); err != nil {
				return Resolved{}, nil, err
			}
			continue
		}
		body = append(body, out)
	}
	out := *n
	out.Body = body
	return Resolved{Type: Void, Symbol: class}, &out, nil
}
