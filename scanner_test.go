package apla_test

import (
	"apla"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanTokensTest struct {
	source   string
	expected []apla.TokenKind
}

var scanTokensTests = []scanTokensTest{
	{"", []apla.TokenKind{apla.EOF}},
	{"\n", []apla.TokenKind{apla.NEWLINE, apla.EOF}},
	{"\r\n", []apla.TokenKind{apla.NEWLINE, apla.EOF}},
	{"\t\n", []apla.TokenKind{apla.NEWLINE, apla.EOF}},
	{"abc", []apla.TokenKind{apla.IDENTIFIER, apla.EOF}},
	{"a_b1", []apla.TokenKind{apla.IDENTIFIER, apla.EOF}},
	{"123", []apla.TokenKind{apla.DECIMAL, apla.EOF}},
	{"1.5", []apla.TokenKind{apla.DECIMAL, apla.EOF}},
	{"1.x", []apla.TokenKind{apla.DECIMAL, apla.DOT, apla.IDENTIFIER, apla.EOF}},
	{"\"abc\"", []apla.TokenKind{apla.STRING, apla.EOF}},
	{"1 + 2 - 3 * 4 / 5", []apla.TokenKind{apla.DECIMAL, apla.PLUS, apla.DECIMAL, apla.MINUS, apla.DECIMAL, apla.STAR, apla.DECIMAL, apla.SLASH, apla.DECIMAL, apla.EOF}},
	{"x = y", []apla.TokenKind{apla.IDENTIFIER, apla.EQ, apla.IDENTIFIER, apla.EOF}},
	{"fn f(a: c_int) =>", []apla.TokenKind{apla.FN, apla.IDENTIFIER, apla.LEFTPAREN, apla.IDENTIFIER, apla.COLON, apla.IDENTIFIER, apla.RIGHTPAREN, apla.ARROW, apla.EOF}},
	{"a.b(c, d)", []apla.TokenKind{apla.IDENTIFIER, apla.DOT, apla.IDENTIFIER, apla.LEFTPAREN, apla.IDENTIFIER, apla.COMMA, apla.IDENTIFIER, apla.RIGHTPAREN, apla.EOF}},
	{"\tx", []apla.TokenKind{apla.TAB, apla.IDENTIFIER, apla.EOF}},
	{"\t\tx", []apla.TokenKind{apla.TAB, apla.TAB, apla.IDENTIFIER, apla.EOF}},
	{"    x", []apla.TokenKind{apla.TAB, apla.IDENTIFIER, apla.EOF}},
	{"  x", []apla.TokenKind{apla.IDENTIFIER, apla.EOF}},
	{"x\n\ty", []apla.TokenKind{apla.IDENTIFIER, apla.NEWLINE, apla.TAB, apla.IDENTIFIER, apla.EOF}},
	{"# comment\nx", []apla.TokenKind{apla.NEWLINE, apla.IDENTIFIER, apla.EOF}},
	{"x # comment", []apla.TokenKind{apla.IDENTIFIER, apla.EOF}},
	{"\t# comment\nx", []apla.TokenKind{apla.NEWLINE, apla.IDENTIFIER, apla.EOF}},
	{"fn", []apla.TokenKind{apla.FN, apla.EOF}},
	{"const", []apla.TokenKind{apla.CONST, apla.EOF}},
	{"var", []apla.TokenKind{apla.VAR, apla.EOF}},
	{"return", []apla.TokenKind{apla.RETURN, apla.EOF}},
	{"extern", []apla.TokenKind{apla.EXTERN, apla.EOF}},
	{"include", []apla.TokenKind{apla.INCLUDE, apla.EOF}},
	{"class", []apla.TokenKind{apla.CLASS, apla.EOF}},
	{"self", []apla.TokenKind{apla.SELF, apla.EOF}},
	{"new", []apla.TokenKind{apla.NEW, apla.EOF}},
	{"newer", []apla.TokenKind{apla.IDENTIFIER, apla.EOF}},
}

func TestScanTokens(t *testing.T) {
	for _, test := range scanTokensTests {
		t.Logf("running test %q", test.source)
		tokens, err := apla.ScanTokens([]byte(test.source), apla.DEFAULT_TAB_WIDTH)
		assert.NoError(t, err)
		kinds := []apla.TokenKind{}
		for _, tok := range tokens {
			kinds = append(kinds, tok.Kind)
		}
		assert.Equal(t, test.expected, kinds)
	}
}

func TestScanTokens_TabWidth(t *testing.T) {
	tokens, err := apla.ScanTokens([]byte("  x"), 2)
	require.NoError(t, err)
	assert.Equal(t, apla.TAB, tokens[0].Kind)
	assert.Equal(t, apla.IDENTIFIER, tokens[1].Kind)
}

type scannerScanTest struct {
	source  string
	kind    apla.TokenKind
	content string
}

var scannerScanTests = []scannerScanTest{
	{"123", apla.DECIMAL, "123"},
	{"123*123", apla.DECIMAL, "123"},
	{"0.25", apla.DECIMAL, "0.25"},
	{"a", apla.IDENTIFIER, "a"},
	{"\"a b\"", apla.STRING, "a b"},
	{"\"\"", apla.STRING, ""},
	{"=>", apla.ARROW, "=>"},
	{"=", apla.EQ, "="},
}

func TestScanner_Scan(t *testing.T) {
	for _, test := range scannerScanTests {
		t.Logf("running test %q", test.source)
		sc := apla.NewScanner([]byte(test.source), apla.DEFAULT_TAB_WIDTH)
		tok, err := sc.Scan()
		assert.NoError(t, err)
		assert.Equal(t, test.kind, tok.Kind)
		assert.Equal(t, test.content, tok.Content)
	}
}

func TestScanner_Positions(t *testing.T) {
	tokens, err := apla.ScanTokens([]byte("ab\n  cd"), apla.DEFAULT_TAB_WIDTH)
	require.NoError(t, err)
	require.Len(t, tokens, 4)
	cd := tokens[2]
	assert.Equal(t, "cd", cd.Content)
	assert.Equal(t, 2, cd.Start.Line)
	assert.Equal(t, 2, cd.Start.Column)
	assert.Equal(t, 5, cd.Start.Index)
	assert.Equal(t, 4, cd.End.Column)
	assert.Equal(t, "2:3", cd.Span.String())
}

var scanErrorTests = []string{
	"\"abc",
	"\"abc\ndef\"",
	"@",
	"x ? y",
}

func TestScanTokens_Errors(t *testing.T) {
	for _, source := range scanErrorTests {
		t.Logf("running test %q", source)
		_, err := apla.ScanTokens([]byte(source), apla.DEFAULT_TAB_WIDTH)
		require.Error(t, err)
		var e *apla.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, apla.SyntaxError, e.Kind)
	}
}
