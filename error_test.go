package apla_test

import (
	"apla"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func span(line, from, to int) apla.Span {
	return apla.Span{
		Start: apla.Pos{Line: line, Column: from},
		End:   apla.Pos{Line: line, Column: to},
	}
}

func TestErrorString(t *testing.T) {
	err := apla.NewError(apla.TypeMismatch, span(2, 4, 5), "expected %s, but found %s", apla.Text, apla.Numeric)
	assert.Equal(t, "2:5: error[type-mismatch]: expected text, but found numeric", err.Error())
	err.File = "main"
	assert.Equal(t, "main:2:5: error[type-mismatch]: expected text, but found numeric", err.Error())
}

func TestErrorList(t *testing.T) {
	var errs apla.ErrorList
	assert.NoError(t, errs.Err())
	errs.Add(apla.NewError(apla.SyntaxError, span(1, 0, 1), "a"))
	assert.Equal(t, "1:1: error[syntax]: a", errs.Error())
	errs.Add(apla.NewError(apla.SyntaxError, span(2, 0, 1), "b"))
	assert.Equal(t, "1:1: error[syntax]: a (and 1 more errors)", errs.Error())
	assert.Len(t, apla.Errors(errs.Err()), 2)
}

func TestErrors(t *testing.T) {
	assert.Nil(t, apla.Errors(nil))
	errs := apla.Errors(errors.New("disk full"))
	assert.Len(t, errs, 1)
	assert.Equal(t, apla.TranslationError, errs[0].Kind)
	assert.Equal(t, "disk full", errs[0].Msg)
}

type excerptTest struct {
	text     string
	span     apla.Span
	expected string
}

var excerptTests = []excerptTest{
	{"var x = y\n", span(1, 8, 9), "var x = y\n        ^"},
	{"var x = foo\n", span(1, 8, 11), "var x = foo\n        ^^^"},
	{"fn f() =>\n\treturn 1\n", span(2, 8, 9), "\treturn 1\n\t       ^"},
	{"x\n", span(1, 5, 5), "x\n ^"},
	{"a\nbc\n", apla.Span{Start: apla.Pos{Line: 1}, End: apla.Pos{Line: 2, Column: 2}}, "a\n^\nbc\n^^"},
	{"x\n", apla.Span{}, ""},
}

func TestSourceFileExcerpt(t *testing.T) {
	for _, test := range excerptTests {
		t.Logf("running test %q", test.text)
		src := apla.NewSourceFile("test", test.text)
		assert.Equal(t, test.expected, src.Excerpt(test.span))
	}
}

func TestErrorListFormat(t *testing.T) {
	src := apla.NewSourceFile("test", "var x = y\n")
	errs := apla.ErrorList{apla.NewError(apla.UnresolvedSymbol, span(1, 8, 9), "unresolved symbol: y")}
	assert.Equal(t, "1:9: error[unresolved-symbol]: unresolved symbol: y\nvar x = y\n        ^", errs.Format(src))
}
