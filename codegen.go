package apla

import (
	"strings"
	"unicode"
)

// CText is the printed pair of one unit. An empty half is not written.
type CText struct {
	Name   string
	Header string
	Source string
}

func Codegen(f *CFile) CText {
	text := CText{Name: f.Name}
	hasHeader := len(f.Includes) > 0 || len(f.Structs) > 0 || len(f.Prototypes) > 0 || len(f.Globals) > 0
	if hasHeader {
		text.Header = CodegenHeader(f)
	}
	if len(f.Globals) > 0 || len(f.Functions) > 0 {
		text.Source = CodegenSource(f, hasHeader)
	}
	return text
}

func CodegenHeader(f *CFile) string {
	var builder strings.Builder
	guard := includeGuard(f.Name)
	builder.WriteString("#ifndef " + guard + "\n")
	builder.WriteString("#define " + guard + "\n")
	if len(f.Includes) > 0 {
		builder.WriteByte('\n')
	}
	for _, include := range f.Includes {
		codegenInclude(&builder, include)
	}
	for _, s := range f.Structs {
		builder.WriteByte('\n')
		codegenStruct(&builder, s)
	}
	if len(f.Globals) > 0 {
		builder.WriteByte('\n')
	}
	for _, global := range f.Globals {
		builder.WriteString("extern ")
		codegenVar(&builder, CVar{Type: global.Type, Name: global.Name})
		builder.WriteString(";\n")
	}
	if len(f.Prototypes) > 0 {
		builder.WriteByte('\n')
	}
	for _, fun := range f.Prototypes {
		codegenSignature(&builder, fun)
		builder.WriteString(";\n")
	}
	builder.WriteString("\n#endif\n")
	return builder.String()
}

func CodegenSource(f *CFile, includeHeader bool) string {
	var builder strings.Builder
	sections := 0
	if includeHeader {
		builder.WriteString("#include \"" + f.Name + ".h\"\n")
		sections++
	}
	if len(f.Globals) > 0 {
		if sections > 0 {
			builder.WriteByte('\n')
		}
		sections++
	}
	for _, global := range f.Globals {
		codegenVar(&builder, global)
		builder.WriteString(";\n")
	}
	for _, fun := range f.Functions {
		if sections > 0 {
			builder.WriteByte('\n')
		}
		sections++
		codegenFunction(&builder, fun)
	}
	return builder.String()
}

func includeGuard(name string) string {
	guard := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, name)
	return guard + "_H"
}

func codegenInclude(builder *strings.Builder, include CInclude) {
	if include.System {
		builder.WriteString("#include <" + include.Path + ">\n")
		return
	}
	builder.WriteString("#include \"" + include.Path + "\"\n")
}

func codegenStruct(builder *strings.Builder, s CStruct) {
	builder.WriteString("struct " + s.Name + " {\n")
	for _, field := range s.Fields {
		builder.WriteByte('\t')
		codegenVar(builder, field)
		builder.WriteString(";\n")
	}
	builder.WriteString("};\n")
}

func codegenVar(builder *strings.Builder, v CVar) {
	builder.WriteString(v.Type)
	builder.WriteByte(' ')
	builder.WriteString(v.Name)
	if v.Value != nil {
		builder.WriteString(" = ")
		codegenExpr(builder, v.Value)
	}
}

func codegenSignature(builder *strings.Builder, fun *CFunction) {
	builder.WriteString(fun.ReturnType)
	builder.WriteByte(' ')
	builder.WriteString(fun.Name)
	builder.WriteByte('(')
	if len(fun.Params) == 0 {
		builder.WriteString("void")
	}
	for i, param := range fun.Params {
		if i != 0 {
			builder.WriteString(", ")
		}
		codegenVar(builder, param)
	}
	builder.WriteByte(')')
}

func codegenFunction(builder *strings.Builder, fun *CFunction) {
	codegenSignature(builder, fun)
	builder.WriteString(" {\n")
	for _, stmt := range fun.Body {
		builder.WriteByte('\t')
		codegenStmt(builder, stmt)
		builder.WriteByte('\n')
	}
	builder.WriteString("}\n")
}

func codegenStmt(builder *strings.Builder, stmt CStmt) {
	switch stmt := stmt.(type) {
	case *CVarStmt:
		codegenVar(builder, stmt.Var)
	case *CReturnStmt:
		builder.WriteString("return")
		if stmt.Value != nil {
			builder.WriteByte(' ')
			codegenExpr(builder, stmt.Value)
		}
	case *CExprStmt:
		codegenExpr(builder, stmt.Expr)
	default:
		panic("unreachable")
	}
	builder.WriteByte(';')
}

func codegenExpr(builder *strings.Builder, expr CExpr) {
	switch expr := expr.(type) {
	case *CLiteral:
		builder.WriteString(expr.Text)
	case *CBinary:
		if expr.Op == Assignment.String() {
			codegenExpr(builder, expr.Lhs)
			builder.WriteString(" = ")
			codegenExpr(builder, expr.Rhs)
			return
		}
		builder.WriteByte('(')
		codegenExpr(builder, expr.Lhs)
		builder.WriteString(" " + expr.Op + " ")
		codegenExpr(builder, expr.Rhs)
		builder.WriteByte(')')
	case *CArrow:
		codegenExpr(builder, expr.Lhs)
		builder.WriteString("->")
		builder.WriteString(expr.Field)
	case *CCall:
		builder.WriteString(expr.Name)
		builder.WriteByte('(')
		for i, arg := range expr.Args {
			if i != 0 {
				builder.WriteString(", ")
			}
			codegenExpr(builder, arg)
		}
		builder.WriteByte(')')
	default:
		panic("unreachable")
	}
}
