package apla

// CFile is the C rendition of one compilation unit before it is printed.
// Includes, Structs, Prototypes and the extern side of Globals go to the
// header; Globals and Functions go to the source.
type CFile struct {
	Name       string
	Includes   []CInclude
	Structs    []CStruct
	Prototypes []*CFunction
	Globals    []CVar
	Functions  []*CFunction
}

type CInclude struct {
	Path   string
	System bool
}

type CStruct struct {
	Name   string
	Fields []CVar
}

type CVar struct {
	Type  string
	Name  string
	Value CExpr
}

type CFunction struct {
	ReturnType string
	Name       string
	Params     []CVar
	Body       []CStmt
}

type CStmt interface {
	cstmt()
}

type CVarStmt struct {
	Var CVar
}

type CReturnStmt struct {
	Value CExpr
}

type CExprStmt struct {
	Expr CExpr
}

type CExpr interface {
	cexpr()
}

// CLiteral is printed verbatim.
type CLiteral struct {
	Text string
}

type CBinary struct {
	Lhs CExpr
	Op  string
	Rhs CExpr
}

type CArrow struct {
	Lhs   CExpr
	Field string
}

type CCall struct {
	Name string
	Args []CExpr
}

func (s *CVarStmt) cstmt()    {}
func (s *CReturnStmt) cstmt() {}
func (s *CExprStmt) cstmt()   {}

func (e *CLiteral) cexpr() {}
func (e *CBinary) cexpr()  {}
func (e *CArrow) cexpr()   {}
func (e *CCall) cexpr()    {}

var cStandardHeaders = map[string]struct{}{
	"assert.h":  {},
	"ctype.h":   {},
	"errno.h":   {},
	"float.h":   {},
	"limits.h":  {},
	"locale.h":  {},
	"math.h":    {},
	"setjmp.h":  {},
	"signal.h":  {},
	"stdarg.h":  {},
	"stdbool.h": {},
	"stddef.h":  {},
	"stdint.h":  {},
	"stdio.h":   {},
	"stdlib.h":  {},
	"string.h":  {},
	"time.h":    {},
	"wchar.h":   {},
}

var cTypes = map[string]string{
	"c_char":     "char",
	"c_short":    "short",
	"c_int":      "int",
	"c_long":     "long",
	"c_float":    "float",
	"c_double":   "double",
	STRING_ALIAS: "char*",
}

func CType(t Type) string {
	switch t.Kind {
	case VoidType:
		return "void"
	case NumericType:
		return "int"
	case TextType:
		return "char*"
	case NamedType:
		if c, ok := cTypes[t.Name]; ok {
			return c
		}
		return "struct " + t.Name + "*"
	}
	panic("unreachable")
}

// MethodName is the C name of a method or constructor of class.
func MethodName(class, method string) string {
	return class + "_" + method
}

// LowerOptions tunes how top-level statements are lowered.
type LowerOptions struct {
	// EmitMain wraps top-level statements into a generated main function.
	// Without it such statements are rejected.
	EmitMain bool
}

// Lower turns a checked file into its C file model.
func Lower(file *File, opts LowerOptions) (*CFile, error) {
	l := &lowerer{
		file: &CFile{Name: file.Name},
		seen: make(map[string]struct{}),
	}
	var main []CStmt
	declaresMain := false
	var errs ErrorList
	for _, node := range file.Nodes {
		var err error
		switch n := node.(type) {
		case *IncludeNode:
			l.include(n.Path)
		case *VarDecl:
			err = l.lowerGlobal(n)
		case *FunDecl:
			if n.Name.Name == "main" {
				declaresMain = true
			}
			err = l.lowerFunction(n)
		case *ClassDecl:
			err = l.lowerClass(n)
		default:
			if !opts.EmitMain {
				err = NewError(TranslationError, node.Span(), "statements outside of functions are not allowed")
				break
			}
			var stmt CStmt
			if stmt, err = l.lowerStmt(node, nil); err == nil {
				main = append(main, stmt)
			}
		}
		if err != nil {
			errs.Add(Errors(err)...)
		}
	}
	if len(main) > 0 {
		if declaresMain {
			errs.Add(NewError(TranslationError, Span{}, "main is declared and the file has top-level statements"))
		}
		main = append(main, &CReturnStmt{Value: &CLiteral{Text: "0"}})
		l.file.Functions = append(l.file.Functions, &CFunction{
			ReturnType: "int",
			Name:       "main",
			Body:       main,
		})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return l.file, nil
}

type lowerer struct {
	file *CFile
	seen map[string]struct{}
}

func (l *lowerer) include(path string) {
	if _, ok := l.seen[path]; ok {
		return
	}
	l.seen[path] = struct{}{}
	_, system := cStandardHeaders[path]
	l.file.Includes = append(l.file.Includes, CInclude{Path: path, System: system})
}

func (l *lowerer) lowerGlobal(n *VarDecl) error {
	global := CVar{
		Type: CType(n.Type),
		Name: n.Name.Name,
	}
	if n.Value != nil {
		v, ok := n.Value.(*ValueNode)
		if !ok || (v.Kind != DecimalValue && v.Kind != StringValue) {
			return NewError(TranslationError, n.Value.Span(), "initializer of global %s must be a literal", n.Name.Name)
		}
		global.Value = lowerLiteral(v)
	}
	l.file.Globals = append(l.file.Globals, global)
	return nil
}

// lowerFunction lowers a free function, method or constructor. External
// functions are provided by included headers and produce nothing.
func (l *lowerer) lowerFunction(n *FunDecl) error {
	if n.Body == nil {
		if n.Class != "" {
			return NewError(TranslationError, n.Name.Loc, "external methods are not supported")
		}
		return nil
	}
	fun := &CFunction{
		ReturnType: CType(n.ReturnType),
		Name:       n.Name.Name,
	}
	if n.Class != "" {
		fun.Name = MethodName(n.Class, n.Name.Name)
		if !n.Constructor {
			fun.Params = append(fun.Params, CVar{Type: CType(Named(n.Class)), Name: RECEIVER})
		}
	}
	for _, param := range n.Params {
		fun.Params = append(fun.Params, CVar{Type: CType(param.Type), Name: param.Name.Name})
	}
	if n.Constructor {
		l.include("stdlib.h")
		fun.Body = append(fun.Body, &CVarStmt{Var: CVar{
			Type:  fun.ReturnType,
			Name:  RECEIVER,
			Value: &CCall{Name: "malloc", Args: []CExpr{&CLiteral{Text: "sizeof(struct " + n.Class + ")"}}},
		}})
	}
	var errs ErrorList
	for _, node := range n.Body {
		stmt, err := l.lowerStmt(node, n)
		if err != nil {
			errs.Add(Errors(err)...)
			continue
		}
		fun.Body = append(fun.Body, stmt)
	}
	if err := errs.Err(); err != nil {
		return err
	}
	if n.Constructor && !endsWithReturn(fun.Body) {
		fun.Body = append(fun.Body, &CReturnStmt{Value: &CLiteral{Text: RECEIVER}})
	}
	if n.Name.Name != "main" || n.Class != "" {
		l.file.Prototypes = append(l.file.Prototypes, fun)
	}
	l.file.Functions = append(l.file.Functions, fun)
	return nil
}

func endsWithReturn(body []CStmt) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(*CReturnStmt)
	return ok
}

func (l *lowerer) lowerClass(n *ClassDecl) error {
	s := CStruct{Name: n.Name.Name}
	var errs ErrorList
	for _, member := range n.Body {
		switch m := member.(type) {
		case *VarDecl:
			s.Fields = append(s.Fields, CVar{Type: CType(m.Type), Name: m.Name.Name})
		case *FunDecl:
			if err := l.lowerFunction(m); err != nil {
				errs.Add(Errors(err)...)
			}
		}
	}
	l.file.Structs = append(l.file.Structs, s)
	return errs.Err()
}

// lowerStmt lowers a statement of fun's body, or of the generated main when
// fun is nil.
func (l *lowerer) lowerStmt(node Node, fun *FunDecl) (CStmt, error) {
	switch n := node.(type) {
	case *VarDecl:
		local := CVar{Type: CType(n.Type), Name: n.Name.Name}
		if n.Value != nil {
			value, err := l.lowerExpr(n.Value)
			if err != nil {
				return nil, err
			}
			local.Value = value
		}
		return &CVarStmt{Var: local}, nil
	case *ReturnNode:
		if n.Value == nil {
			if fun != nil && fun.Constructor {
				return &CReturnStmt{Value: &CLiteral{Text: RECEIVER}}, nil
			}
			return &CReturnStmt{}, nil
		}
		value, err := l.lowerExpr(n.Value)
		if err != nil {
			return nil, err
		}
		return &CReturnStmt{Value: value}, nil
	case *FunDecl, *ClassDecl, *IncludeNode:
		return nil, NewError(TranslationError, node.Span(), "declaration cannot be lowered as a statement")
	}
	expr, err := l.lowerExpr(node)
	if err != nil {
		return nil, err
	}
	return &CExprStmt{Expr: expr}, nil
}

func (l *lowerer) lowerExpr(node Node) (CExpr, error) {
	switch n := node.(type) {
	case *ValueNode:
		return l.lowerValue(n)
	case *CallNode:
		return l.lowerCall(n, nil)
	case *BinaryNode:
		switch n.Op {
		case MemberAccess:
			return l.lowerMemberAccess(n)
		}
		lhs, err := l.lowerExpr(n.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := l.lowerExpr(n.Rhs)
		if err != nil {
			return nil, err
		}
		return &CBinary{Lhs: lhs, Op: n.Op.String(), Rhs: rhs}, nil
	}
	return nil, NewError(TranslationError, node.Span(), "%s is not an expression", node)
}

func lowerLiteral(v *ValueNode) CExpr {
	if v.Kind == StringValue {
		return &CLiteral{Text: `"` + v.Value + `"`}
	}
	return &CLiteral{Text: v.Value}
}

func (l *lowerer) lowerValue(v *ValueNode) (CExpr, error) {
	switch v.Kind {
	case DecimalValue, StringValue:
		return lowerLiteral(v), nil
	case SelfValue:
		return &CLiteral{Text: RECEIVER}, nil
	}
	if v.Type.Kind == NamedType && v.Type.Name == v.Value {
		return nil, NewError(TranslationError, v.Loc, "class %s cannot be used as a value", v.Value)
	}
	if v.ViaSelf {
		return &CArrow{Lhs: &CLiteral{Text: RECEIVER}, Field: v.Value}, nil
	}
	return &CLiteral{Text: v.Value}, nil
}

// lowerCall lowers a call. receiver is the lowered lhs of an instance
// method call.
func (l *lowerer) lowerCall(c *CallNode, receiver CExpr) (CExpr, error) {
	call := &CCall{Name: c.Name.Name}
	switch {
	case c.Kind == ConstructorFunction:
		call.Name = MethodName(c.Class, c.Name.Name)
	case c.Class != "":
		call.Name = MethodName(c.Class, c.Name.Name)
		if receiver == nil && c.ViaSelf {
			receiver = &CLiteral{Text: RECEIVER}
		}
		call.Args = append(call.Args, receiver)
	}
	for _, arg := range c.Args {
		expr, err := l.lowerExpr(arg)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, expr)
	}
	return call, nil
}

func (l *lowerer) lowerMemberAccess(n *BinaryNode) (CExpr, error) {
	if n.Static {
		call, ok := n.Rhs.(*CallNode)
		if !ok || call.Kind != ConstructorFunction {
			return nil, NewError(TranslationError, n.Rhs.Span(), "only the constructor can be accessed through class %s", n.Class)
		}
		return l.lowerCall(call, nil)
	}
	lhs, err := l.lowerExpr(n.Lhs)
	if err != nil {
		return nil, err
	}
	switch rhs := n.Rhs.(type) {
	case *ValueNode:
		return &CArrow{Lhs: lhs, Field: rhs.Value}, nil
	case *CallNode:
		if rhs.Kind == ConstructorFunction {
			return nil, NewError(TranslationError, rhs.Loc, "constructor of %s must be called through the class", n.Class)
		}
		return l.lowerCall(rhs, lhs)
	}
	return nil, NewError(TranslationError, n.Rhs.Span(), "unexpected member %s", n.Rhs)
}
