package apla

func ParseFile(name string, source []byte, tabWidth int) (*File, error) {
	tokens, err := ScanTokens(source, tabWidth)
	if err != nil {
		return nil, err
	}
	psr := NewParser(tokens)
	nodes, err := psr.ParseNodes()
	if err != nil {
		return nil, err
	}
	return &File{Name: name, Nodes: nodes}, nil
}

type Parser struct {
	tokens []Token
	index  int
}

func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		var eof Token
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1].Span
			eof.Span = Span{Start: last.End, End: last.End}
		}
		eof.Kind = EOF
		tokens = append(tokens, eof)
	}
	return &Parser{
		tokens: tokens,
		index:  0,
	}
}

// ParseNodes parses top-level statements until EOF.
func (p *Parser) ParseNodes() ([]Node, error) {
	nodes, err := p.parseBlock(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.match(EOF); err != nil {
		return nil, err
	}
	return nodes, nil
}

// ParseStmtAndEof parses exactly one statement, which may carry an indented
// body, followed by EOF.
func (p *Parser) ParseStmtAndEof() (Node, error) {
	p.skipNewlines()
	stmt, err := p.ParseStmt(0)
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if _, err := p.match(EOF); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) ParseExprAndEof() (Node, error) {
	expr, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.match(EOF); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseBlock collects the statements of the lines indented exactly depth
// tabs. A shallower line ends the block, a deeper one is an error.
func (p *Parser) parseBlock(depth int) ([]Node, error) {
	nodes := make([]Node, 0)
	for {
		p.skipNewlines()
		tabs := p.indentation()
		if tabs < depth || p.peek(tabs).Kind == EOF {
			return nodes, nil
		}
		if tabs > depth {
			return nil, NewError(SyntaxError, p.peek(depth).Span, "unexpected indentation")
		}
		for i := 0; i < depth; i++ {
			p.advance()
		}
		stmt, err := p.ParseStmt(depth)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, stmt)
	}
}

func (p *Parser) ParseStmt(depth int) (Node, error) {
	switch p.next().Kind {
	case INCLUDE:
		kw := p.advance()
		path, err := p.match(STRING)
		if err != nil {
			return nil, err
		}
		if err := p.endStmt(); err != nil {
			return nil, err
		}
		return &IncludeNode{
			Loc:  kw.Span.To(path.Span),
			Path: path.Content,
		}, nil
	case CONST, VAR:
		decl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		if err := p.endStmt(); err != nil {
			return nil, err
		}
		return decl, nil
	case EXTERN:
		kw := p.advance()
		if _, err := p.match(FN); err != nil {
			return nil, err
		}
		fun, err := p.parseSignature(kw)
		if err != nil {
			return nil, err
		}
		if err := p.endStmt(); err != nil {
			return nil, err
		}
		return fun, nil
	case FN:
		kw := p.advance()
		fun, err := p.parseSignature(kw)
		if err != nil {
			return nil, err
		}
		if fun.Body, err = p.parseBody(depth); err != nil {
			return nil, err
		}
		return fun, nil
	case NEW:
		kw := p.advance()
		params, end, err := p.parseFunParams()
		if err != nil {
			return nil, err
		}
		fun := &FunDecl{
			Loc:         kw.Span.To(end),
			Name:        Ident{Loc: kw.Span, Name: kw.Content},
			Params:      params,
			Constructor: true,
		}
		if fun.Body, err = p.parseBody(depth); err != nil {
			return nil, err
		}
		return fun, nil
	case CLASS:
		kw := p.advance()
		name, err := p.match(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if err := p.endStmt(); err != nil {
			return nil, err
		}
		body, err := p.parseBlock(depth + 1)
		if err != nil {
			return nil, err
		}
		return &ClassDecl{
			Loc:  kw.Span.To(name.Span),
			Name: Ident{Loc: name.Span, Name: name.Content},
			Body: body,
		}, nil
	case RETURN:
		kw := p.advance()
		ret := &ReturnNode{Loc: kw.Span}
		if k := p.next().Kind; k != NEWLINE && k != EOF {
			value, err := p.ParseExpr()
			if err != nil {
				return nil, err
			}
			ret.Value = value
			ret.Loc = kw.Span.To(value.Span())
		}
		if err := p.endStmt(); err != nil {
			return nil, err
		}
		return ret, nil
	}
	expr, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.endStmt(); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseVarDecl() (*VarDecl, error) {
	kw := p.advance()
	mutability := Mutable
	if kw.Kind == CONST {
		mutability = Constant
	}
	name, err := p.match(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	decl := &VarDecl{
		Loc:        kw.Span.To(name.Span),
		Mutability: mutability,
		Name:       Ident{Loc: name.Span, Name: name.Content},
	}
	if p.next().Kind == COLON {
		p.advance()
		typ, err := p.match(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		decl.Annotation = &Ident{Loc: typ.Span, Name: typ.Content}
		decl.Loc = kw.Span.To(typ.Span)
	}
	if p.next().Kind == EQ {
		p.advance()
		value, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		decl.Value = value
		decl.Loc = kw.Span.To(value.Span())
	}
	return decl, nil
}

// parseSignature parses `NAME(params) [: TYPE]` after fn.
func (p *Parser) parseSignature(kw Token) (*FunDecl, error) {
	name, err := p.match(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	params, end, err := p.parseFunParams()
	if err != nil {
		return nil, err
	}
	fun := &FunDecl{
		Name:   Ident{Loc: name.Span, Name: name.Content},
		Params: params,
	}
	if p.next().Kind == COLON {
		p.advance()
		typ, err := p.match(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		fun.Returns = &Ident{Loc: typ.Span, Name: typ.Content}
		end = typ.Span
	}
	fun.Loc = kw.Span.To(end)
	return fun, nil
}

func (p *Parser) parseBody(depth int) ([]Node, error) {
	if _, err := p.match(ARROW); err != nil {
		return nil, err
	}
	if err := p.endStmt(); err != nil {
		return nil, err
	}
	return p.parseBlock(depth + 1)
}

func (p *Parser) parseFunParams() (params []Param, end Span, err error) {
	params = make([]Param, 0)
	if _, err = p.match(LEFTPAREN); err != nil {
		return params, end, err
	}
	for p.next().Kind != RIGHTPAREN {
		if len(params) > 0 {
			if _, err = p.match(COMMA); err != nil {
				return params, end, err
			}
		}
		id, err := p.match(IDENTIFIER)
		if err != nil {
			return params, end, err
		}
		if _, err = p.match(COLON); err != nil {
			return params, end, err
		}
		typ, err := p.match(IDENTIFIER)
		if err != nil {
			return params, end, err
		}
		params = append(params, Param{
			Name:     Ident{Loc: id.Span, Name: id.Content},
			TypeName: Ident{Loc: typ.Span, Name: typ.Content},
		})
	}
	right, err := p.match(RIGHTPAREN)
	if err != nil {
		return params, end, err
	}
	return params, right.Span, nil
}

func (p *Parser) ParseExpr() (Node, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseExpr(lhs, 0)
}

func (p *Parser) parseExpr(lhs Node, minPrec int) (Node, error) {
	for precedence(p.next().Kind) >= minPrec {
		op := p.advance()
		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		next := p.next()
		for (precedence(next.Kind) > precedence(op.Kind)) ||
			(IsRightAssoc(next.Kind) && (precedence(next.Kind) == precedence(op.Kind))) {
			if IsRightAssoc(next.Kind) {
				rhs, err = p.parseExpr(rhs, precedence(op.Kind))
			} else {
				rhs, err = p.parseExpr(rhs, precedence(op.Kind)+1)
			}
			if err != nil {
				return nil, err
			}
			next = p.next()
		}
		lhs = &BinaryNode{
			Loc:   lhs.Span().To(rhs.Span()),
			Lhs:   lhs,
			Op:    operator(op.Kind),
			OpLoc: op.Span,
			Rhs:   rhs,
		}
	}
	return lhs, nil
}

func IsRightAssoc(t TokenKind) bool {
	return t == EQ
}

func precedence(t TokenKind) int {
	switch t {
	case DOT:
		return 30
	case STAR, SLASH:
		return 20
	case PLUS, MINUS:
		return 10
	case EQ:
		return 1
	}
	return -1
}

func operator(t TokenKind) Operator {
	switch t {
	case PLUS:
		return Plus
	case MINUS:
		return Minus
	case STAR:
		return Multiply
	case SLASH:
		return Divide
	case DOT:
		return MemberAccess
	case EQ:
		return Assignment
	}
	panic("unreachable")
}

func (p *Parser) parsePrimary() (Node, error) {
	switch t := p.next(); t.Kind {
	case DECIMAL:
		p.advance()
		return &ValueNode{Loc: t.Span, Kind: DecimalValue, Value: t.Content}, nil
	case STRING:
		p.advance()
		return &ValueNode{Loc: t.Span, Kind: StringValue, Value: t.Content}, nil
	case SELF:
		p.advance()
		return &ValueNode{Loc: t.Span, Kind: SelfValue, Value: t.Content}, nil
	case IDENTIFIER, NEW:
		p.advance()
		if p.next().Kind == LEFTPAREN {
			return p.parseCall(t)
		}
		if t.Kind == NEW {
			return nil, NewError(SyntaxError, t.Span, "expected ( after new")
		}
		return &ValueNode{Loc: t.Span, Kind: IdentifierValue, Value: t.Content}, nil
	case LEFTPAREN:
		p.advance()
		inner, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.match(RIGHTPAREN); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return nil, NewError(SyntaxError, p.next().Span, "expected primary expression, but got %s", p.next().Kind)
}

func (p *Parser) parseCall(name Token) (Node, error) {
	p.advance()
	args := make([]Node, 0)
	for p.next().Kind != RIGHTPAREN {
		if len(args) > 0 {
			if _, err := p.match(COMMA); err != nil {
				return nil, err
			}
		}
		arg, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	right, err := p.match(RIGHTPAREN)
	if err != nil {
		return nil, err
	}
	return &CallNode{
		Loc:  name.Span.To(right.Span),
		Name: Ident{Loc: name.Span, Name: name.Content},
		Args: args,
	}, nil
}

func (p *Parser) endStmt() error {
	switch t := p.next(); t.Kind {
	case NEWLINE:
		p.advance()
		return nil
	case EOF:
		return nil
	default:
		return NewError(SyntaxError, t.Span, "expected end of statement, but got %s", t.Kind)
	}
}

func (p *Parser) skipNewlines() {
	for p.next().Kind == NEWLINE {
		p.advance()
	}
}

// indentation counts the TAB tokens at the current position.
func (p *Parser) indentation() int {
	n := 0
	for p.peek(n).Kind == TAB {
		n++
	}
	return n
}

func (p *Parser) next() Token {
	return p.peek(0)
}

func (p *Parser) peek(n int) Token {
	if p.index+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.index+n]
}

func (p *Parser) advance() Token {
	t := p.next()
	p.index++
	return t
}

func (p *Parser) match(k TokenKind) (Token, error) {
	t := p.next()
	if t.Kind != k {
		return Token{Kind: k}, NewError(SyntaxError, t.Span, "expected %s, but got %s", k, t.Kind)
	}
	p.index++
	return t, nil
}
