package apla_test

import (
	"apla"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, name, source string) apla.CText {
	t.Helper()
	unit, err := apla.CompileSource(name, []byte(source), apla.DefaultConfig())
	require.NoError(t, err)
	return unit.C
}

func TestCompileSource_Functions(t *testing.T) {
	source := "include \"stdio.h\"\n" +
		"extern fn printf(s: c_string)\n" +
		"const greeting: c_string = \"hello\"\n" +
		"fn greet(name: c_string): c_int =>\n" +
		"\tprintf(name)\n" +
		"\treturn 0\n" +
		"greet(greeting)\n"
	text := compile(t, "greet", source)
	assert.Equal(t, "greet", text.Name)
	assert.Equal(t, "#ifndef GREET_H\n"+
		"#define GREET_H\n"+
		"\n"+
		"#include <stdio.h>\n"+
		"\n"+
		"extern char* greeting;\n"+
		"\n"+
		"int greet(char* name);\n"+
		"\n"+
		"#endif\n", text.Header)
	assert.Equal(t, "#include \"greet.h\"\n"+
		"\n"+
		"char* greeting = \"hello\";\n"+
		"\n"+
		"int greet(char* name) {\n"+
		"\tprintf(name);\n"+
		"\treturn 0;\n"+
		"}\n"+
		"\n"+
		"int main(void) {\n"+
		"\tgreet(greeting);\n"+
		"\treturn 0;\n"+
		"}\n", text.Source)
}

func TestCompileSource_Class(t *testing.T) {
	source := pointClass + "\tfn twice(): c_int =>\n\t\treturn getX()\n"
	text := compile(t, "point", source)
	assert.Equal(t, "#ifndef POINT_H\n"+
		"#define POINT_H\n"+
		"\n"+
		"#include <stdlib.h>\n"+
		"\n"+
		"struct Point {\n"+
		"\tint x;\n"+
		"};\n"+
		"\n"+
		"struct Point* Point_new(int x0);\n"+
		"int Point_getX(struct Point* self);\n"+
		"int Point_twice(struct Point* self);\n"+
		"\n"+
		"#endif\n", text.Header)
	assert.Equal(t, "#include \"point.h\"\n"+
		"\n"+
		"struct Point* Point_new(int x0) {\n"+
		"\tstruct Point* self = malloc(sizeof(struct Point));\n"+
		"\tself->x = x0;\n"+
		"\treturn self;\n"+
		"}\n"+
		"\n"+
		"int Point_getX(struct Point* self) {\n"+
		"\treturn self->x;\n"+
		"}\n"+
		"\n"+
		"int Point_twice(struct Point* self) {\n"+
		"\treturn Point_getX(self);\n"+
		"}\n", text.Source)
}

func TestCompileSource_Instances(t *testing.T) {
	source := pointClass +
		"fn main(): c_int =>\n" +
		"\tvar p: Point = Point.new(2)\n" +
		"\tp.x = 3\n" +
		"\tvar y: c_int = Point.new(4).x\n" +
		"\treturn p.getX()\n"
	text := compile(t, "main", source)
	assert.NotContains(t, text.Header, "int main(void);")
	assert.Contains(t, text.Source, "int main(void) {\n"+
		"\tstruct Point* p = Point_new(2);\n"+
		"\tp->x = 3;\n"+
		"\tint y = Point_new(4)->x;\n"+
		"\treturn Point_getX(p);\n"+
		"}\n")
}

func TestCompileSource_ConstructorReturns(t *testing.T) {
	text := compile(t, "a", "class A\n\tnew() =>\n\t\treturn\n")
	assert.Contains(t, text.Source, "struct A* A_new(void) {\n"+
		"\tstruct A* self = malloc(sizeof(struct A));\n"+
		"\treturn self;\n"+
		"}\n")
}

func TestCompileSource_Includes(t *testing.T) {
	text := compile(t, "inc", "include \"mylib.h\"\ninclude \"string.h\"\ninclude \"mylib.h\"\n")
	assert.Equal(t, "#ifndef INC_H\n"+
		"#define INC_H\n"+
		"\n"+
		"#include \"mylib.h\"\n"+
		"#include <string.h>\n"+
		"\n"+
		"#endif\n", text.Header)
	assert.Empty(t, text.Source)
}

func TestCompileSource_EmptyUnit(t *testing.T) {
	text := compile(t, "empty", "extern fn puts(s: c_string): c_int\n")
	assert.Empty(t, text.Header)
	assert.Empty(t, text.Source)
}

func TestCompileSource_GuardName(t *testing.T) {
	text := compile(t, "my-unit.v2", "var x = 1\n")
	assert.Contains(t, text.Header, "#ifndef MY_UNIT_V2_H\n")
	assert.Contains(t, text.Source, "#include \"my-unit.v2.h\"\n")
}

type translationErrorTest struct {
	name   string
	source string
}

var translationErrorTests = []translationErrorTest{
	{"non-literal global", "var x = 1\nvar y = x\n"},
	{"main and statements", "extern fn f()\nfn main() =>\n\treturn\nf()\n"},
	{"class as value", "class A\nfn f() =>\n\tvar a = A\n"},
	{"static field", "class A\n\tvar x: c_int\nfn f(): c_int =>\n\treturn A.x\n"},
	{"constructor through instance", "class A\n\tnew() =>\n\t\treturn\nfn f(a: A) =>\n\tvar b = a.new()\n"},
	{"external method", "class A\n\textern fn m()\n"},
}

func TestCompileSource_TranslationErrors(t *testing.T) {
	for _, test := range translationErrorTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := apla.CompileSource("test", []byte(test.source), apla.DefaultConfig())
			require.Error(t, err)
			errs := apla.Errors(err)
			require.NotEmpty(t, errs)
			assert.Equal(t, apla.TranslationError, errs[0].Kind)
			assert.Equal(t, "test", errs[0].File)
		})
	}
}

func TestCompileSource_NoMain(t *testing.T) {
	cfg := apla.DefaultConfig()
	cfg.EmitMain = false
	_, err := apla.CompileSource("test", []byte("extern fn f()\nf()\n"), cfg)
	assert.Equal(t, []apla.ErrorKind{apla.TranslationError}, errorKinds(err))

	unit, err := apla.CompileSource("test", []byte("extern fn f()\nfn g() =>\n\tf()\n"), cfg)
	require.NoError(t, err)
	assert.NotContains(t, unit.C.Source, "main")
}

func TestCompileSource_Diagnostics(t *testing.T) {
	unit, err := apla.CompileSource("bad", []byte("var x = y\nvar z = w\n"), apla.DefaultConfig())
	require.Error(t, err)
	require.NotNil(t, unit)
	assert.Nil(t, unit.Checked)
	errs := apla.Errors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "bad:1:9: error[unresolved-symbol]: unresolved symbol: y", errs[0].Error())
	assert.Equal(t, "bad:2:9: error[unresolved-symbol]: unresolved symbol: w", errs[1].Error())

	_, err = apla.CompileSource("bad", []byte("var x = \"y\n"), apla.DefaultConfig())
	assert.Equal(t, []apla.ErrorKind{apla.SyntaxError}, errorKinds(err))
}

func TestCType(t *testing.T) {
	assert.Equal(t, "void", apla.CType(apla.Void))
	assert.Equal(t, "int", apla.CType(apla.Numeric))
	assert.Equal(t, "char*", apla.CType(apla.Text))
	assert.Equal(t, "char", apla.CType(apla.Named("c_char")))
	assert.Equal(t, "double", apla.CType(apla.Named("c_double")))
	assert.Equal(t, "char*", apla.CType(apla.Named("c_string")))
	assert.Equal(t, "struct Point*", apla.CType(apla.Named("Point")))
}
